package lang

import (
	"errors"
	"slices"
	"testing"
)

func TestEnvironment_GetWalksChain(t *testing.T) {
	root := NewEnvironment(nil)
	root.Set("a", int64(1))

	child := root.Child()
	child.Set("b", int64(2))

	grandchild := child.Child()

	for name, want := range map[string]any{"a": int64(1), "b": int64(2)} {
		got, err := grandchild.Get(name)
		if err != nil {
			t.Fatalf("get %s: %v", name, err)
		}

		if got != want {
			t.Errorf("get %s: expected %v, got %v", name, want, got)
		}
	}

	if grandchild.Parent() != child || child.Parent() != root || root.Parent() != nil {
		t.Error("unexpected parent chain")
	}

	if got := grandchild.Depth(); got != 2 {
		t.Errorf("expected depth 2, got %d", got)
	}
}

func TestEnvironment_GetMissing(t *testing.T) {
	env := NewEnvironment(nil).Child()

	_, err := env.Get("missing")
	if !errors.Is(err, ErrNameNotFound) {
		t.Fatalf("expected ErrNameNotFound, got %v", err)
	}

	if _, ok := env.Lookup("missing"); ok {
		t.Error("expected lookup to fail")
	}
}

func TestEnvironment_SetShadowsWithoutMutatingOuter(t *testing.T) {
	root := NewEnvironment(nil)
	root.Set("x", int64(1))

	inner := root.Child()
	inner.Set("x", int64(2))

	if v, _ := inner.Get("x"); v != int64(2) {
		t.Errorf("inner: expected 2, got %v", v)
	}

	if v, _ := root.Get("x"); v != int64(1) {
		t.Errorf("outer: expected 1, got %v", v)
	}

	if !inner.Has("x") || inner.Child().Has("x") {
		t.Error("Has must consider only the receiver's own bindings")
	}
}

func TestEnvironment_SharedByReference(t *testing.T) {
	root := NewEnvironment(nil)
	captured := root.Child()

	root.Set("late", "bound")

	if v, err := captured.Get("late"); err != nil || v != "bound" {
		t.Errorf("expected binding made after capture to be visible, got %v, %v", v, err)
	}
}

func TestEnvironment_NamesAndLocal(t *testing.T) {
	root := NewEnvironment(nil)
	root.Set("b", nil)
	root.Set("a", nil)

	child := root.Child()
	child.Set("c", nil)
	child.Set("a", nil)

	if got, want := child.Names(), []string{"a", "b", "c"}; !slices.Equal(got, want) {
		t.Errorf("expected names %v, got %v", want, got)
	}

	var local []string
	for k := range child.Local() {
		local = append(local, k)
	}

	if want := []string{"a", "c"}; !slices.Equal(local, want) {
		t.Errorf("expected local names %v, got %v", want, local)
	}
}
