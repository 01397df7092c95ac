package lang

import (
	"log/slog"
)

// Eval evaluates ast in env, implementing tail-call optimization by
// looping rather than recursing whenever a special form's tail position
// allows it. Most of Eval's body is the special-form dispatch; the
// default case handles function application.
func Eval(ast *Value, env *Env) (*Value, error) {
	for {
		expanded, err := macroexpand(ast, env)
		if err != nil {
			return nil, err
		}

		ast = expanded

		if ast.Kind != KindList {
			return evalAST(ast, env)
		}

		if len(ast.Items) == 0 {
			return ast, nil
		}

		head := ast.Items[0]

		if head.Kind == KindSymbol {
			switch head.Str {
			case "def!":
				return evalDef(ast, env)
			case "let*":
				ast, env, err = evalLetStar(ast, env)
				if err != nil {
					return nil, err
				}

				continue
			case "do":
				if len(ast.Items) == 1 {
					return Nil, nil
				}

				for _, f := range ast.Items[1 : len(ast.Items)-1] {
					if _, err := Eval(f, env); err != nil {
						return nil, err
					}
				}

				ast = ast.Items[len(ast.Items)-1]

				continue
			case "if":
				next, err := evalIf(ast, env)
				if err != nil {
					return nil, err
				}

				ast = next

				continue
			case "fn*":
				return evalFnStar(ast, env)
			case "quote":
				if len(ast.Items) != 2 {
					return nil, ErrWrongArity.With(slog.String("form", "quote"))
				}

				return ast.Items[1], nil
			case "quasiquote":
				if len(ast.Items) != 2 {
					return nil, ErrWrongArity.With(slog.String("form", "quasiquote"))
				}

				ast = quasiquote(ast.Items[1])

				continue
			case "quasiquoteexpand":
				if len(ast.Items) != 2 {
					return nil, ErrWrongArity.With(slog.String("form", "quasiquoteexpand"))
				}

				return quasiquote(ast.Items[1]), nil
			case "defmacro!":
				return evalDefMacro(ast, env)
			case "macroexpand":
				if len(ast.Items) != 2 {
					return nil, ErrWrongArity.With(slog.String("form", "macroexpand"))
				}

				return macroexpand(ast.Items[1], env)
			case "try*":
				return evalTryStar(ast, env)
			}
		}

		// Function application.
		evItems, err := evalItems(ast.Items, env)
		if err != nil {
			return nil, err
		}

		fn := evItems[0]
		argv := evItems[1:]

		if fn.Kind != KindFunction {
			return nil, ErrNotCallable.With(slog.String("value", PrStr(fn, true)))
		}

		if fn.Closure != nil {
			ast = fn.Closure.Body
			env, err = bindClosure(fn.Closure, argv)

			if err != nil {
				return nil, err
			}

			continue
		}

		return fn.Builtin(argv)
	}
}

// Apply calls fn with argv directly, without consulting any special-form
// table. It is the entry point built-ins such as `apply`, `map`, and
// `swap!` use to invoke a first-class function value; Eval's own call path
// uses the trampoline above instead so that closure calls stay
// tail-recursive.
func Apply(fn *Value, argv []*Value) (*Value, error) {
	if fn.Kind != KindFunction {
		return nil, ErrNotCallable.With(slog.String("value", PrStr(fn, true)))
	}

	if fn.Builtin != nil {
		return fn.Builtin(argv)
	}

	env, err := bindClosure(fn.Closure, argv)
	if err != nil {
		return nil, err
	}

	return Eval(fn.Closure.Body, env)
}

// bindClosure binds argv against c's parameter list. Extra or missing
// positional arguments are not an arity error here: NewChildEnv binds
// missing names to Nil and ignores surplus values, matching every other
// mal-derived evaluator's closure-call semantics. Only primitives enforce
// arity.
func bindClosure(c *Closure, argv []*Value) (*Env, error) {
	binds := c.Params
	if c.Rest != "" {
		binds = append(append([]string{}, c.Params...), "&", c.Rest)
	}

	return NewChildEnv(c.Env, binds, argv)
}

// evalAST implements the non-list evaluation rule: symbols resolve against
// env, vectors and hash-maps evaluate every element/value, everything else
// is self-evaluating.
func evalAST(ast *Value, env *Env) (*Value, error) {
	switch ast.Kind {
	case KindSymbol:
		return env.Get(ast.Str)
	case KindVector:
		items, err := evalItems(ast.Items, env)
		if err != nil {
			return nil, err
		}

		return NewVector(items...), nil
	case KindHashMap:
		vals, err := evalItems(ast.Vals, env)
		if err != nil {
			return nil, err
		}

		return NewHashMap(ast.Keys, vals), nil
	default:
		return ast, nil
	}
}

func evalItems(items []*Value, env *Env) ([]*Value, error) {
	out := make([]*Value, len(items))

	for i, it := range items {
		v, err := Eval(it, env)
		if err != nil {
			return nil, err
		}

		out[i] = v
	}

	return out, nil
}

func evalDef(ast *Value, env *Env) (*Value, error) {
	if len(ast.Items) != 3 || ast.Items[1].Kind != KindSymbol {
		return nil, ErrWrongArity.With(slog.String("form", "def!"))
	}

	v, err := Eval(ast.Items[2], env)
	if err != nil {
		return nil, err
	}

	env.Set(ast.Items[1].Str, v)

	return v, nil
}

func evalLetStar(ast *Value, env *Env) (*Value, *Env, error) {
	if len(ast.Items) != 3 || !ast.Items[1].IsSeq() {
		return nil, nil, ErrWrongArity.With(slog.String("form", "let*"))
	}

	bindings := ast.Items[1].Items
	if len(bindings)%2 != 0 {
		return nil, nil, ErrWrongArity.With(slog.String("form", "let* bindings"))
	}

	child, _ := NewChildEnv(env, nil, nil)

	for i := 0; i < len(bindings); i += 2 {
		if bindings[i].Kind != KindSymbol {
			return nil, nil, ErrWrongType.With(slog.String("form", "let* binding name"))
		}

		v, err := Eval(bindings[i+1], child)
		if err != nil {
			return nil, nil, err
		}

		child.Set(bindings[i].Str, v)
	}

	return ast.Items[2], child, nil
}

func evalIf(ast *Value, env *Env) (*Value, error) {
	if len(ast.Items) < 3 || len(ast.Items) > 4 {
		return nil, ErrWrongArity.With(slog.String("form", "if"))
	}

	cond, err := Eval(ast.Items[1], env)
	if err != nil {
		return nil, err
	}

	if cond.IsTruthy() {
		return ast.Items[2], nil
	}

	if len(ast.Items) == 4 {
		return ast.Items[3], nil
	}

	return Nil, nil
}

func evalFnStar(ast *Value, env *Env) (*Value, error) {
	if len(ast.Items) != 3 || !ast.Items[1].IsSeq() {
		return nil, ErrWrongArity.With(slog.String("form", "fn*"))
	}

	var params []string

	var rest string

	for i, p := range ast.Items[1].Items {
		if p.Kind != KindSymbol {
			return nil, ErrWrongType.With(slog.String("form", "fn* parameter"))
		}

		if p.Str == "&" {
			if i+1 < len(ast.Items[1].Items) {
				rest = ast.Items[1].Items[i+1].Str
			}

			break
		}

		params = append(params, p.Str)
	}

	return NewClosure(&Closure{
		Params: params,
		Rest:   rest,
		Body:   ast.Items[2],
		Env:    env,
	}), nil
}

func evalDefMacro(ast *Value, env *Env) (*Value, error) {
	v, err := evalDef(ast, env)
	if err != nil {
		return nil, err
	}

	if v.Kind == KindFunction && v.Closure != nil {
		v.Closure.IsMacro = true
	}

	return v, nil
}

func evalTryStar(ast *Value, env *Env) (*Value, error) {
	if len(ast.Items) < 2 {
		return nil, ErrWrongArity.With(slog.String("form", "try*"))
	}

	result, err := Eval(ast.Items[1], env)
	if err == nil {
		return result, nil
	}

	if len(ast.Items) < 3 {
		return nil, err
	}

	catchForm := ast.Items[2]
	if catchForm.Kind != KindList || len(catchForm.Items) < 2 ||
		catchForm.Items[0].Kind != KindSymbol || catchForm.Items[0].Str != "catch*" {
		return nil, err
	}

	errVal := errorValue(err)

	binds := []string{catchForm.Items[1].Str}

	child, childErr := NewChildEnv(env, binds, []*Value{errVal})
	if childErr != nil {
		return nil, childErr
	}

	if len(catchForm.Items) == 2 {
		return Nil, nil
	}

	return Eval(catchForm.Items[2], child)
}

// errorValue converts a Go error raised during evaluation into the Rowan
// value bound by catch*: an EvalError surfaces the thrown value verbatim,
// any other error (a host diagnostic) surfaces as its message string.
func errorValue(err error) *Value {
	if ee, ok := err.(*EvalError); ok {
		return ee.Value
	}

	return NewString(err.Error())
}

// isPair reports whether v is a non-empty list or vector, mirroring mal's
// is_pair used by quasiquote.
func isPair(v *Value) bool {
	return v.IsSeq() && len(v.Items) > 0
}

func quasiquote(ast *Value) *Value {
	if !isPair(ast) {
		if ast.Kind == KindSymbol || ast.Kind == KindHashMap {
			return NewList(NewSymbol("quote"), ast)
		}

		return ast
	}

	if ast.Kind == KindList {
		head := ast.Items[0]
		if head.Kind == KindSymbol && head.Str == "unquote" {
			return ast.Items[1]
		}
	}

	if isPair(ast.Items[0]) && ast.Items[0].Kind == KindList {
		inner := ast.Items[0]
		if inner.Items[0].Kind == KindSymbol && inner.Items[0].Str == "splice-unquote" {
			rest := NewList(ast.Items[1:]...)

			return NewList(NewSymbol("concat"), inner.Items[1], quasiquote(rest))
		}
	}

	rest := NewList(ast.Items[1:]...)
	head := quasiquote(ast.Items[0])
	quasiRest := quasiquote(rest)

	if ast.Kind == KindVector {
		return NewList(NewSymbol("vec"), NewList(NewSymbol("cons"), head, quasiRest))
	}

	return NewList(NewSymbol("cons"), head, quasiRest)
}

func isMacroCall(ast *Value, env *Env) (*Value, bool) {
	if ast.Kind != KindList || len(ast.Items) == 0 || ast.Items[0].Kind != KindSymbol {
		return nil, false
	}

	frame := env.Find(ast.Items[0].Str)
	if frame == nil {
		return nil, false
	}

	fn, _ := frame.Get(ast.Items[0].Str)
	if fn != nil && fn.IsMacro() {
		return fn, true
	}

	return nil, false
}

func macroexpand(ast *Value, env *Env) (*Value, error) {
	for {
		fn, ok := isMacroCall(ast, env)
		if !ok {
			return ast, nil
		}

		expanded, err := Eval(fn.Closure.Body, mustBindClosure(fn.Closure, ast.Items[1:]))
		if err != nil {
			return nil, err
		}

		ast = expanded
	}
}

// mustBindClosure binds a macro's parameters. If bindClosure fails, it
// falls back to binding c.Params directly against argv, so macro expansion
// never reports a binding error.
func mustBindClosure(c *Closure, argv []*Value) *Env {
	env, err := bindClosure(c, argv)
	if err != nil {
		env, _ = NewChildEnv(c.Env, c.Params, argv)
	}

	return env
}
