package lang_test

import (
	"testing"

	"github.com/rowanlisp/rowan/lang"
)

func TestBootstrapNot(t *testing.T) {
	env := newTestEnv(t)

	if v := eval(t, env, "(not false)"); !v.IsTruthy() {
		t.Fatalf("(not false) = %v, want truthy", v)
	}

	if v := eval(t, env, "(not 0)"); v.IsTruthy() {
		t.Fatalf("(not 0) = %v, want falsy", v)
	}
}

func TestBootstrapCond(t *testing.T) {
	env := newTestEnv(t)

	v := eval(t, env, `(cond false 1 true 2)`)
	if v.Number != 2 {
		t.Fatalf("cond result = %d, want 2", v.Number)
	}

	v = eval(t, env, `(cond false 1 false 2)`)
	if v.Kind != lang.KindNil {
		t.Fatalf("cond with no matching clause = %v, want nil", v)
	}
}

func TestBootstrapOr(t *testing.T) {
	env := newTestEnv(t)

	if v := eval(t, env, `(or nil false 3)`); v.Number != 3 {
		t.Fatalf("or result = %d, want 3", v.Number)
	}

	if v := eval(t, env, `(or nil false)`); v.IsTruthy() {
		t.Fatalf("or with all falsy = %v, want falsy", v)
	}
}
