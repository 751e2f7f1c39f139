package source

import (
	"sync"
	"testing"
)

func TestInternerDedup(t *testing.T) {
	in := NewInterner()
	a := in.Intern("upvalue")
	b := in.InternBytes([]byte("upvalue"))
	if a != b {
		t.Errorf("same text interned twice: %d != %d", a, b)
	}
	if in.Intern("") != NoStringID {
		t.Error("empty string must map to NoStringID")
	}
	if s := in.MustLookup(a); s != "upvalue" {
		t.Errorf("MustLookup = %q", s)
	}
	if _, ok := in.Lookup(StringID(99)); ok {
		t.Error("unknown id must not resolve")
	}
	if in.Len() != 2 {
		t.Errorf("Len = %d, want 2", in.Len())
	}
}

func TestInternerConcurrent(t *testing.T) {
	in := NewInterner()
	var wg sync.WaitGroup
	ids := make([]StringID, 16)
	for i := range ids {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			ids[i] = in.Intern("shared")
		}(i)
	}
	wg.Wait()
	for _, id := range ids[1:] {
		if id != ids[0] {
			t.Fatalf("concurrent interning diverged: %v", ids)
		}
	}
}
