package tickfsm_test

import (
	"fmt"
	"sync"
	"testing"

	. "github.com/comalice/tickfsm"
)

func TestBlackboardBasic(t *testing.T) {
	bb := NewBlackboard()

	bb.Set("key", "value")
	if got := bb.Get("key"); got != "value" {
		t.Errorf("expected 'value', got %v", got)
	}
	if got := bb.Get("missing"); got != nil {
		t.Errorf("expected nil for missing key, got %v", got)
	}
	bb.Set("key", 2)
	if got := bb.Get("key"); got != 2 {
		t.Errorf("expected overwrite to 2, got %v", got)
	}
}

func TestBlackboardValue(t *testing.T) {
	bb := NewBlackboard()
	bb.Set("speed", 3.5)
	bb.Set("name", "honey")

	if v, ok := Value[float64](bb, "speed"); !ok || v != 3.5 {
		t.Errorf("speed = %v, %v", v, ok)
	}
	if _, ok := Value[int](bb, "speed"); ok {
		t.Error("wrong type reported ok")
	}
	if _, ok := Value[string](bb, "missing"); ok {
		t.Error("missing key reported ok")
	}
}

func TestBlackboardAdd(t *testing.T) {
	bb := NewBlackboard()
	bb.Add("elapsed", 1.5)
	if got := bb.Add("elapsed", 1.0); got != 2.5 {
		t.Errorf("elapsed = %v", got)
	}
}

func TestBlackboardConcurrency(t *testing.T) {
	bb := NewBlackboard()
	var wg sync.WaitGroup

	for i := 0; i < 50; i++ {
		wg.Add(2)
		go func(id int) {
			defer wg.Done()
			bb.Set(fmt.Sprintf("k%d", id), id)
			bb.Add("total", 1)
		}(i)
		go func(id int) {
			defer wg.Done()
			_ = bb.Get(fmt.Sprintf("k%d", id))
			_, _ = Value[float64](bb, "total")
		}(i)
	}
	wg.Wait()

	if v, _ := Value[float64](bb, "total"); v != 50 {
		t.Errorf("total = %v, want 50", v)
	}
}
