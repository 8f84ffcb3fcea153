package testutil

import (
	"context"
	"reflect"
	"testing"

	"github.com/comalice/tickfsm"
)

func TestRecorderVariant(t *testing.T) {
	r := NewRecorder()
	ctx := context.Background()

	var extraEnters int
	a := Variant[struct{}](r, "a", &tickfsm.Funcs[struct{}]{
		Enter: func(context.Context, *tickfsm.Machine[struct{}], tickfsm.StateID) { extraEnters++ },
	})
	b := Variant[struct{}](r, "b", nil)

	m := tickfsm.New(struct{}{})
	if err := m.AddTransition(a, "go", b); err != nil {
		t.Fatal(err)
	}
	if err := m.Start(ctx, a); err != nil {
		t.Fatal(err)
	}
	if err := m.Tick(ctx); err != nil {
		t.Fatal(err)
	}
	if err := m.Dispatch(ctx, "go"); err != nil {
		t.Fatal(err)
	}

	want := []string{"enter:a<-", "update:a", "exit:a->b", "enter:b<-a"}
	if got := r.Calls(); !reflect.DeepEqual(got, want) {
		t.Fatalf("calls = %v, want %v", got, want)
	}
	if extraEnters != 1 {
		t.Errorf("extra enter ran %d times, want 1", extraEnters)
	}
	if n := r.Count("update:a"); n != 1 {
		t.Errorf("Count(update:a) = %d", n)
	}

	r.Reset()
	if len(r.Calls()) != 0 {
		t.Error("Reset left calls behind")
	}
}
