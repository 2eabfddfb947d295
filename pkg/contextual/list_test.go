package contextual

import "testing"

func TestListOuterIndexStaysValidAfterNestedScope(t *testing.T) {
	l := NewList[int]()
	outer := l.Insert(10)

	l.MarkContext()
	inner := l.Insert(20)

	if v, ok := l.Get(outer); !ok || v != 10 {
		t.Fatalf("outer index: got (%v,%v), want (10,true)", v, ok)
	}
	if v, ok := l.Get(inner); !ok || v != 20 {
		t.Fatalf("inner index: got (%v,%v), want (20,true)", v, ok)
	}

	if err := l.ReleaseContext(); err != nil {
		t.Fatalf("unexpected release error: %v", err)
	}

	if v, ok := l.Get(outer); !ok || v != 10 {
		t.Fatalf("outer index after release: got (%v,%v), want (10,true)", v, ok)
	}
	if _, ok := l.Get(inner); ok {
		t.Fatalf("inner index should no longer resolve after its scope was released")
	}
}

func TestListReleasingLastContextErrors(t *testing.T) {
	l := NewList[int]()
	if err := l.ReleaseContext(); err == nil {
		t.Fatal("expected an error releasing the only remaining context")
	}
}

func TestListSetMutatesInPlace(t *testing.T) {
	l := NewList[string]()
	idx := l.Insert("a")
	if !l.Set(idx, "b") {
		t.Fatal("Set returned false for a valid index")
	}
	if v, _ := l.Get(idx); v != "b" {
		t.Fatalf("got %q, want %q", v, "b")
	}
}
