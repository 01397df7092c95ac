package lang_test

import (
	"testing"

	"github.com/rowanlisp/rowan/lang"
	"github.com/rowanlisp/rowan/lang/ns"
)

func eval(t *testing.T, env *lang.Env, src string) *lang.Value {
	t.Helper()

	form, err := lang.ReadStr(src)
	if err != nil {
		t.Fatalf("ReadStr(%q) error: %v", src, err)
	}

	v, err := lang.Eval(form, env)
	if err != nil {
		t.Fatalf("Eval(%q) error: %v", src, err)
	}

	return v
}

func evalErr(t *testing.T, env *lang.Env, src string) error {
	t.Helper()

	form, err := lang.ReadStr(src)
	if err != nil {
		t.Fatalf("ReadStr(%q) error: %v", src, err)
	}

	_, err = lang.Eval(form, env)

	return err
}

func newTestEnv(t *testing.T) *lang.Env {
	t.Helper()

	env, err := ns.New(nil, nil, nil)
	if err != nil {
		t.Fatalf("ns.New error: %v", err)
	}

	return env
}

func TestEvalArithmetic(t *testing.T) {
	env := newTestEnv(t)

	tests := []struct {
		src  string
		want int64
	}{
		{"(+ 1 2)", 3},
		{"(* 2 3)", 6},
		{"(- 10 4)", 6},
		{"(/ 10 2)", 5},
		{"(+ 1 (* 2 3))", 7},
	}

	for _, tt := range tests {
		t.Run(tt.src, func(t *testing.T) {
			if v := eval(t, env, tt.src); v.Number != tt.want {
				t.Errorf("eval(%q) = %d, want %d", tt.src, v.Number, tt.want)
			}
		})
	}
}

func TestEvalDefAndLookup(t *testing.T) {
	env := newTestEnv(t)

	eval(t, env, "(def! x 10)")

	if v := eval(t, env, "x"); v.Number != 10 {
		t.Fatalf("x = %d, want 10", v.Number)
	}
}

func TestEvalLetStarScoping(t *testing.T) {
	env := newTestEnv(t)

	v := eval(t, env, "(let* (a 1 b (+ a 1)) (+ a b))")
	if v.Number != 3 {
		t.Fatalf("let* result = %d, want 3", v.Number)
	}

	if err := evalErr(t, env, "a"); err == nil {
		t.Fatal("let* bindings should not leak into the outer environment")
	}
}

func TestEvalIfBranches(t *testing.T) {
	env := newTestEnv(t)

	if v := eval(t, env, "(if true 1 2)"); v.Number != 1 {
		t.Fatalf("if true = %d, want 1", v.Number)
	}

	if v := eval(t, env, "(if false 1 2)"); v.Number != 2 {
		t.Fatalf("if false = %d, want 2", v.Number)
	}

	if v := eval(t, env, "(if false 1)"); v.Kind != lang.KindNil {
		t.Fatalf("if false with no else = %v, want nil", v)
	}
}

func TestEvalClosureAndTCO(t *testing.T) {
	env := newTestEnv(t)

	eval(t, env, `(def! sum (fn* (n acc) (if (= n 0) acc (sum (- n 1) (+ acc n)))))`)

	v := eval(t, env, "(sum 100000 0)")
	if v.Number != 5000050000 {
		t.Fatalf("sum(100000) = %d, want 5000050000", v.Number)
	}
}

func TestEvalVariadicFn(t *testing.T) {
	env := newTestEnv(t)

	eval(t, env, `(def! f (fn* (a & rest) (count rest)))`)

	if v := eval(t, env, "(f 1 2 3 4)"); v.Number != 3 {
		t.Fatalf("f(1 2 3 4) = %d, want 3", v.Number)
	}
}

func TestEvalQuasiquote(t *testing.T) {
	env := newTestEnv(t)

	eval(t, env, "(def! x 7)")

	v := eval(t, env, "`(a ~x c)")
	if lang.PrStr(v, true) != "(a 7 c)" {
		t.Fatalf("quasiquote result = %s, want (a 7 c)", lang.PrStr(v, true))
	}
}

func TestEvalQuasiquoteSpliceUnquote(t *testing.T) {
	env := newTestEnv(t)

	eval(t, env, "(def! xs (list 2 3))")

	v := eval(t, env, "`(1 ~@xs 4)")
	if lang.PrStr(v, true) != "(1 2 3 4)" {
		t.Fatalf("splice-unquote result = %s, want (1 2 3 4)", lang.PrStr(v, true))
	}
}

func TestEvalDefMacro(t *testing.T) {
	env := newTestEnv(t)

	eval(t, env, `(defmacro! unless (fn* (pred a b) `+"`"+`(if ~pred ~b ~a)))`)

	if v := eval(t, env, "(unless false 7 8)"); v.Number != 7 {
		t.Fatalf("unless false = %d, want 7", v.Number)
	}
}

func TestEvalTryCatch(t *testing.T) {
	env := newTestEnv(t)

	v := eval(t, env, `(try* (throw "boom") (catch* e e))`)
	if v.Kind != lang.KindString || v.Str != "boom" {
		t.Fatalf("catch* result = %v, want string boom", v)
	}
}

func TestEvalTryCatchHostError(t *testing.T) {
	env := newTestEnv(t)

	v := eval(t, env, `(try* (nonexistent-symbol) (catch* e (str "caught: " e)))`)
	if v.Kind != lang.KindString {
		t.Fatalf("catch* host error result = %v, want string", v)
	}
}

func TestEvalNotCallable(t *testing.T) {
	env := newTestEnv(t)

	if err := evalErr(t, env, "(1 2 3)"); err == nil {
		t.Fatal("expected error calling a non-function")
	}
}

func TestApplyDirect(t *testing.T) {
	env := newTestEnv(t)

	eval(t, env, "(def! sq (fn* (x) (* x x)))")

	fn, err := env.Get("sq")
	if err != nil {
		t.Fatalf("Get(sq) error: %v", err)
	}

	v, err := lang.Apply(fn, []*lang.Value{lang.NewNumber(5)})
	if err != nil {
		t.Fatalf("Apply error: %v", err)
	}

	if v.Number != 25 {
		t.Fatalf("Apply(sq, 5) = %d, want 25", v.Number)
	}
}
