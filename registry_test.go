package tickfsm_test

import (
	"errors"
	"reflect"
	"testing"

	. "github.com/comalice/tickfsm"
)

func TestRegistryGetOrCreate(t *testing.T) {
	m := New(&world{})
	r := m.Registry()

	built := 0
	v := NewVariant[*world]("v", func() State[*world] {
		built++
		return &visits{}
	})

	s1, err := r.GetOrCreate(v)
	if err != nil {
		t.Fatal(err)
	}
	s2, _ := r.GetOrCreate(v)
	s3, _ := r.Lookup("v")
	if s1 != s2 || s1 != s3 {
		t.Error("registry returned different instances for one id")
	}
	if built != 1 {
		t.Errorf("constructor ran %d times", built)
	}
	if !r.Has("v") || r.Has("w") {
		t.Error("Has disagrees with registrations")
	}
}

func TestRegistryFirstConstructorWins(t *testing.T) {
	r := New(&world{}).Registry()

	first := &visits{}
	r.Register(NewVariant[*world]("v", func() State[*world] { return first }))
	r.Register(NewVariant[*world]("v", func() State[*world] { return &visits{} }))

	s, err := r.Lookup("v")
	if err != nil {
		t.Fatal(err)
	}
	if s != first {
		t.Error("later constructor replaced the first")
	}
	if r.Len() != 1 {
		t.Errorf("len = %d", r.Len())
	}
}

func TestRegistryLazy(t *testing.T) {
	r := New(&world{}).Registry()
	built := false
	r.Register(NewVariant[*world]("lazy", func() State[*world] {
		built = true
		return &visits{}
	}))
	if built {
		t.Fatal("Register constructed the instance")
	}
	if _, err := r.Lookup("lazy"); err != nil {
		t.Fatal(err)
	}
	if !built {
		t.Error("Lookup did not construct the instance")
	}
}

func TestRegistryIDsInOrder(t *testing.T) {
	r := New(&world{}).Registry()
	for _, id := range []StateID{"c", "a", "b", "a"} {
		r.Register(FuncVariant[*world](id, Funcs[*world]{}))
	}
	if got := r.IDs(); !reflect.DeepEqual(got, []StateID{"c", "a", "b"}) {
		t.Errorf("ids = %v", got)
	}
}

func TestRegistryLookupUnknown(t *testing.T) {
	r := New(&world{}).Registry()
	if _, err := r.Lookup("missing"); !errors.Is(err, ErrUnregisteredState) {
		t.Errorf("err = %v, want ErrUnregisteredState", err)
	}
}
