package lang

import "testing"

func TestEnvSetGet(t *testing.T) {
	e := NewEnv()
	e.Set("x", NewNumber(42))

	v, err := e.Get("x")
	if err != nil {
		t.Fatalf("Get(x) error: %v", err)
	}

	if v.Number != 42 {
		t.Fatalf("Get(x) = %d, want 42", v.Number)
	}
}

func TestEnvGetMissingSymbol(t *testing.T) {
	e := NewEnv()

	if _, err := e.Get("missing"); err == nil {
		t.Fatal("expected error for unresolved symbol")
	}
}

func TestEnvOuterChain(t *testing.T) {
	outer := NewEnv()
	outer.Set("x", NewNumber(1))

	inner, err := NewChildEnv(outer, nil, nil)
	if err != nil {
		t.Fatalf("NewChildEnv error: %v", err)
	}

	inner.Set("y", NewNumber(2))

	if v, err := inner.Get("x"); err != nil || v.Number != 1 {
		t.Fatalf("Get(x) from child = %v, %v", v, err)
	}

	if _, err := outer.Get("y"); err == nil {
		t.Fatal("outer should not see inner's bindings")
	}
}

func TestEnvShadowing(t *testing.T) {
	outer := NewEnv()
	outer.Set("x", NewNumber(1))

	inner, err := NewChildEnv(outer, []string{"x"}, []*Value{NewNumber(2)})
	if err != nil {
		t.Fatalf("NewChildEnv error: %v", err)
	}

	v, err := inner.Get("x")
	if err != nil || v.Number != 2 {
		t.Fatalf("Get(x) from shadowed child = %v, %v, want 2", v, err)
	}

	v, err = outer.Get("x")
	if err != nil || v.Number != 1 {
		t.Fatalf("outer x should remain 1, got %v, %v", v, err)
	}
}

func TestNewChildEnvRestBinding(t *testing.T) {
	binds := []string{"a", "&", "rest"}
	exprs := []*Value{NewNumber(1), NewNumber(2), NewNumber(3)}

	e, err := NewChildEnv(nil, binds, exprs)
	if err != nil {
		t.Fatalf("NewChildEnv error: %v", err)
	}

	a, _ := e.Get("a")
	if a.Number != 1 {
		t.Fatalf("a = %d, want 1", a.Number)
	}

	rest, err := e.Get("rest")
	if err != nil {
		t.Fatalf("Get(rest) error: %v", err)
	}

	if len(rest.Items) != 2 || rest.Items[0].Number != 2 || rest.Items[1].Number != 3 {
		t.Fatalf("rest = %v, want [2 3]", rest.Items)
	}
}

func TestNewChildEnvRestBindingEmpty(t *testing.T) {
	e, err := NewChildEnv(nil, []string{"&", "rest"}, nil)
	if err != nil {
		t.Fatalf("NewChildEnv error: %v", err)
	}

	rest, err := e.Get("rest")
	if err != nil {
		t.Fatalf("Get(rest) error: %v", err)
	}

	if len(rest.Items) != 0 {
		t.Fatalf("rest = %v, want empty list", rest.Items)
	}
}

func TestNewChildEnvTrailingAmpersandErrors(t *testing.T) {
	if _, err := NewChildEnv(nil, []string{"a", "&"}, []*Value{NewNumber(1)}); err == nil {
		t.Fatal("expected an error for '&' with no following rest name")
	}
}

func TestSymbolsSortedAcrossFrames(t *testing.T) {
	outer := NewEnv()
	outer.Set("b", Nil)
	outer.Set("a", Nil)

	inner, err := NewChildEnv(outer, []string{"c"}, []*Value{Nil})
	if err != nil {
		t.Fatalf("NewChildEnv error: %v", err)
	}

	got := Symbols(inner)
	want := []string{"a", "b", "c"}

	if len(got) != len(want) {
		t.Fatalf("Symbols() = %v, want %v", got, want)
	}

	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("Symbols() = %v, want %v", got, want)
		}
	}
}
