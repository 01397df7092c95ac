// Package ns builds the built-in namespace every Rowan top-level
// environment starts with: I/O, arithmetic, equality, predicates,
// constructors, sequence operations, hash-map operations, atoms, metadata,
// and exceptions, per the language's core built-ins table.
package ns

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/rowanlisp/rowan/lang"
)

// ReadLine reads one line of interactive input given a prompt, returning
// ok=false at end of input. The REPL supplies a readline-backed
// implementation; embedders and load-file mode may supply one that always
// reports ok=false.
type ReadLine func(prompt string) (line string, ok bool)

// New constructs a fresh top-level environment with the built-in namespace,
// the `eval` binding (closed over this same environment, per the language's
// scoping rule for eval), `*ARGV*` bound to argv, and the bootstrap forms
// already evaluated. stdout receives everything `prn`/`println` write; a
// nil stdout defaults to os.Stdout.
func New(stdout io.Writer, readLine ReadLine, argv []string) (*lang.Env, error) {
	if stdout == nil {
		stdout = os.Stdout
	}

	if readLine == nil {
		readLine = func(string) (string, bool) { return "", false }
	}

	env := lang.NewEnv()

	install(env, stdout, readLine)

	env.Set("eval", lang.NewBuiltin(func(args []*lang.Value) (*lang.Value, error) {
		if len(args) != 1 {
			return nil, lang.ErrWrongArity.With(slog.String("form", "eval"))
		}

		return lang.Eval(args[0], env)
	}))

	argvItems := make([]*lang.Value, len(argv))
	for i, a := range argv {
		argvItems[i] = lang.NewString(a)
	}

	env.Set("*ARGV*", lang.NewList(argvItems...))

	if err := lang.RunBootstrap(env); err != nil {
		return nil, err
	}

	return env, nil
}

func install(env *lang.Env, stdout io.Writer, readLine ReadLine) {
	for name, fn := range builtins(stdout, readLine) {
		env.Set(name, lang.NewBuiltin(fn))
	}
}

func builtins(stdout io.Writer, readLine ReadLine) map[string]lang.Builtin {
	return map[string]lang.Builtin{
		// I/O
		"pr-str":      func(a []*lang.Value) (*lang.Value, error) { return lang.NewString(lang.PrStrJoin(a)), nil },
		"str":         func(a []*lang.Value) (*lang.Value, error) { return lang.NewString(lang.Str(a)), nil },
		"prn":         biPrn(stdout),
		"println":     biPrintln(stdout),
		"read-string": biReadString,
		"readline":    biReadline(readLine),
		"slurp":       biSlurp,
		"time-ms":     func(a []*lang.Value) (*lang.Value, error) { return lang.NewNumber(time.Now().UnixMilli()), nil },

		// Arithmetic
		"+":  arith("+", func(a, b int64) int64 { return a + b }),
		"-":  arith("-", func(a, b int64) int64 { return a - b }),
		"*":  arith("*", func(a, b int64) int64 { return a * b }),
		"/":  biDivide,
		"<":  cmp("<", func(a, b int64) bool { return a < b }),
		"<=": cmp("<=", func(a, b int64) bool { return a <= b }),
		">":  cmp(">", func(a, b int64) bool { return a > b }),
		">=": cmp(">=", func(a, b int64) bool { return a >= b }),

		// Equality
		"=": biEquals,

		// Predicates
		"nil?":        pred(func(v *lang.Value) bool { return v.Kind == lang.KindNil }),
		"true?":       pred(func(v *lang.Value) bool { return v.Kind == lang.KindBool && v.Bool }),
		"false?":      pred(func(v *lang.Value) bool { return v.Kind == lang.KindBool && !v.Bool }),
		"string?":     pred(func(v *lang.Value) bool { return v.Kind == lang.KindString }),
		"symbol?":     pred(func(v *lang.Value) bool { return v.Kind == lang.KindSymbol }),
		"keyword?":    pred(func(v *lang.Value) bool { return v.Kind == lang.KindKeyword }),
		"list?":       pred(func(v *lang.Value) bool { return v.Kind == lang.KindList }),
		"vector?":     pred(func(v *lang.Value) bool { return v.Kind == lang.KindVector }),
		"map?":        pred(func(v *lang.Value) bool { return v.Kind == lang.KindHashMap }),
		"sequential?": pred(func(v *lang.Value) bool { return v.IsSeq() }),
		"atom?":       pred(func(v *lang.Value) bool { return v.Kind == lang.KindAtom }),
		"empty?":      biEmpty,

		// Constructors
		"list":     func(a []*lang.Value) (*lang.Value, error) { return lang.NewList(a...), nil },
		"vector":   func(a []*lang.Value) (*lang.Value, error) { return lang.NewVector(a...), nil },
		"hash-map": biHashMap,
		"symbol":   biSymbol,
		"keyword":  biKeyword,
		"atom":     biAtom,
		"vec":      biVec,

		// Sequences
		"cons":   biCons,
		"concat": biConcat,
		"nth":    biNth,
		"first":  biFirst,
		"rest":   biRest,
		"count":  biCount,
		"apply":  biApply,
		"map":    biMap,
		"conj":   biConj,
		"seq":    biSeq,

		// HashMap ops
		"assoc":     biAssoc,
		"dissoc":    biDissoc,
		"get":       biGet,
		"contains?": biContains,
		"keys":      biKeys,
		"vals":      biVals,

		// Atoms
		"deref":  biDeref,
		"reset!": biReset,
		"swap!":  biSwap,

		// Meta
		"meta":      biMeta,
		"with-meta": biWithMeta,

		// Exceptions
		"throw": biThrow,

		// Supplemental
		"json-str":       biJSONStr,
		"yaml-str":       biYAMLStr,
		"symbol->string": biSymbolToString,
		"string->symbol": biStringToSymbol,
	}
}

func arity(name string, n int, args []*lang.Value) error {
	if len(args) != n {
		return lang.ErrWrongArity.With(slog.String("form", name), slog.Int("want", n), slog.Int("got", len(args)))
	}

	return nil
}

func requireKind(name string, v *lang.Value, k lang.Kind) error {
	if v.Kind != k {
		return lang.ErrWrongType.With(slog.String("form", name), slog.String("got", v.TypeName()))
	}

	return nil
}

func biPrn(w io.Writer) lang.Builtin {
	return func(a []*lang.Value) (*lang.Value, error) {
		fmt.Fprintln(w, lang.PrStrJoin(a))

		return lang.Nil, nil
	}
}

func biPrintln(w io.Writer) lang.Builtin {
	return func(a []*lang.Value) (*lang.Value, error) {
		parts := make([]string, len(a))
		for i, v := range a {
			parts[i] = lang.PrStr(v, false)
		}

		fmt.Fprintln(w, strings.Join(parts, " "))

		return lang.Nil, nil
	}
}

func biReadString(a []*lang.Value) (*lang.Value, error) {
	if err := arity("read-string", 1, a); err != nil {
		return nil, err
	}

	if err := requireKind("read-string", a[0], lang.KindString); err != nil {
		return nil, err
	}

	v, err := lang.ReadStr(a[0].Str)
	if err != nil {
		return nil, err
	}

	return v, nil
}

func biReadline(readLine ReadLine) lang.Builtin {
	return func(a []*lang.Value) (*lang.Value, error) {
		if err := arity("readline", 1, a); err != nil {
			return nil, err
		}

		line, ok := readLine(a[0].Str)
		if !ok {
			return lang.Nil, nil
		}

		return lang.NewString(line), nil
	}
}

func biSlurp(a []*lang.Value) (*lang.Value, error) {
	if err := arity("slurp", 1, a); err != nil {
		return nil, err
	}

	b, err := os.ReadFile(a[0].Str)
	if err != nil {
		return nil, lang.WrapError(err)
	}

	return lang.NewString(string(b)), nil
}

func arith(name string, op func(a, b int64) int64) lang.Builtin {
	return func(a []*lang.Value) (*lang.Value, error) {
		if err := arity(name, 2, a); err != nil {
			return nil, err
		}

		if err := requireKind(name, a[0], lang.KindNumber); err != nil {
			return nil, err
		}

		if err := requireKind(name, a[1], lang.KindNumber); err != nil {
			return nil, err
		}

		return lang.NewNumber(op(a[0].Number, a[1].Number)), nil
	}
}

func biDivide(a []*lang.Value) (*lang.Value, error) {
	if err := arity("/", 2, a); err != nil {
		return nil, err
	}

	if err := requireKind("/", a[0], lang.KindNumber); err != nil {
		return nil, err
	}

	if err := requireKind("/", a[1], lang.KindNumber); err != nil {
		return nil, err
	}

	if a[1].Number == 0 {
		return nil, lang.ErrDivByZero.With(slog.String("form", "/"))
	}

	return lang.NewNumber(a[0].Number / a[1].Number), nil
}

func cmp(name string, op func(a, b int64) bool) lang.Builtin {
	return func(a []*lang.Value) (*lang.Value, error) {
		if err := arity(name, 2, a); err != nil {
			return nil, err
		}

		if err := requireKind(name, a[0], lang.KindNumber); err != nil {
			return nil, err
		}

		if err := requireKind(name, a[1], lang.KindNumber); err != nil {
			return nil, err
		}

		return lang.NewBool(op(a[0].Number, a[1].Number)), nil
	}
}

func biEquals(a []*lang.Value) (*lang.Value, error) {
	if err := arity("=", 2, a); err != nil {
		return nil, err
	}

	return lang.NewBool(lang.Equal(a[0], a[1])), nil
}

func pred(p func(*lang.Value) bool) lang.Builtin {
	return func(a []*lang.Value) (*lang.Value, error) {
		if err := arity("predicate", 1, a); err != nil {
			return nil, err
		}

		return lang.NewBool(p(a[0])), nil
	}
}

func biEmpty(a []*lang.Value) (*lang.Value, error) {
	if err := arity("empty?", 1, a); err != nil {
		return nil, err
	}

	switch a[0].Kind {
	case lang.KindString:
		return lang.NewBool(a[0].Str == ""), nil
	case lang.KindList, lang.KindVector:
		return lang.NewBool(len(a[0].Items) == 0), nil
	case lang.KindNil:
		return lang.True, nil
	default:
		return nil, lang.ErrWrongType.With(slog.String("form", "empty?"))
	}
}

func biHashMap(a []*lang.Value) (*lang.Value, error) {
	if len(a)%2 != 0 {
		return nil, lang.ErrOddHashMapLiteral
	}

	keys := make([]*lang.Value, 0, len(a)/2)
	vals := make([]*lang.Value, 0, len(a)/2)

	for i := 0; i < len(a); i += 2 {
		if a[i].Kind != lang.KindString && a[i].Kind != lang.KindKeyword {
			return nil, lang.ErrInvalidHashMapKey
		}

		keys = append(keys, a[i])
		vals = append(vals, a[i+1])
	}

	return lang.NewHashMap(keys, vals), nil
}

func biSymbol(a []*lang.Value) (*lang.Value, error) {
	if err := arity("symbol", 1, a); err != nil {
		return nil, err
	}

	if err := requireKind("symbol", a[0], lang.KindString); err != nil {
		return nil, err
	}

	return lang.NewSymbol(a[0].Str), nil
}

func biKeyword(a []*lang.Value) (*lang.Value, error) {
	if err := arity("keyword", 1, a); err != nil {
		return nil, err
	}

	if a[0].Kind == lang.KindKeyword {
		return a[0], nil
	}

	if err := requireKind("keyword", a[0], lang.KindString); err != nil {
		return nil, err
	}

	return lang.NewKeyword(a[0].Str), nil
}

func biAtom(a []*lang.Value) (*lang.Value, error) {
	if err := arity("atom", 1, a); err != nil {
		return nil, err
	}

	return lang.NewAtom(a[0]), nil
}

func biVec(a []*lang.Value) (*lang.Value, error) {
	if err := arity("vec", 1, a); err != nil {
		return nil, err
	}

	if !a[0].IsSeq() {
		return nil, lang.ErrWrongType.With(slog.String("form", "vec"))
	}

	return lang.NewVector(a[0].Items...), nil
}

func biCons(a []*lang.Value) (*lang.Value, error) {
	if err := arity("cons", 2, a); err != nil {
		return nil, err
	}

	if !a[1].IsSeq() {
		return nil, lang.ErrWrongType.With(slog.String("form", "cons"))
	}

	items := make([]*lang.Value, 0, len(a[1].Items)+1)
	items = append(items, a[0])
	items = append(items, a[1].Items...)

	return lang.NewList(items...), nil
}

func biConcat(a []*lang.Value) (*lang.Value, error) {
	var items []*lang.Value

	for _, v := range a {
		if !v.IsSeq() {
			return nil, lang.ErrWrongType.With(slog.String("form", "concat"))
		}

		items = append(items, v.Items...)
	}

	return lang.NewList(items...), nil
}

func biNth(a []*lang.Value) (*lang.Value, error) {
	if err := arity("nth", 2, a); err != nil {
		return nil, err
	}

	if !a[0].IsSeq() {
		return nil, lang.ErrWrongType.With(slog.String("form", "nth"))
	}

	if err := requireKind("nth", a[1], lang.KindNumber); err != nil {
		return nil, err
	}

	i := a[1].Number
	if i < 0 || i >= int64(len(a[0].Items)) {
		return nil, lang.ErrIndexOutOfRange.With(slog.Int64("index", i), slog.Int("len", len(a[0].Items)))
	}

	return a[0].Items[i], nil
}

func biFirst(a []*lang.Value) (*lang.Value, error) {
	if err := arity("first", 1, a); err != nil {
		return nil, err
	}

	if a[0].Kind == lang.KindNil {
		return lang.Nil, nil
	}

	if !a[0].IsSeq() {
		return nil, lang.ErrWrongType.With(slog.String("form", "first"))
	}

	if len(a[0].Items) == 0 {
		return lang.Nil, nil
	}

	return a[0].Items[0], nil
}

func biRest(a []*lang.Value) (*lang.Value, error) {
	if err := arity("rest", 1, a); err != nil {
		return nil, err
	}

	if a[0].Kind == lang.KindNil {
		return lang.NewList(), nil
	}

	if !a[0].IsSeq() {
		return nil, lang.ErrWrongType.With(slog.String("form", "rest"))
	}

	if len(a[0].Items) == 0 {
		return lang.NewList(), nil
	}

	return lang.NewList(a[0].Items[1:]...), nil
}

func biCount(a []*lang.Value) (*lang.Value, error) {
	if err := arity("count", 1, a); err != nil {
		return nil, err
	}

	if a[0].Kind == lang.KindNil {
		return lang.NewNumber(0), nil
	}

	if !a[0].IsSeq() {
		return nil, lang.ErrWrongType.With(slog.String("form", "count"))
	}

	return lang.NewNumber(int64(len(a[0].Items))), nil
}

func biApply(a []*lang.Value) (*lang.Value, error) {
	if len(a) < 2 {
		return nil, lang.ErrWrongArity.With(slog.String("form", "apply"))
	}

	last := a[len(a)-1]
	if !last.IsSeq() {
		return nil, lang.ErrWrongType.With(slog.String("form", "apply"))
	}

	args := make([]*lang.Value, 0, len(a)-2+len(last.Items))
	args = append(args, a[1:len(a)-1]...)
	args = append(args, last.Items...)

	return lang.Apply(a[0], args)
}

func biMap(a []*lang.Value) (*lang.Value, error) {
	if err := arity("map", 2, a); err != nil {
		return nil, err
	}

	if !a[1].IsSeq() {
		return nil, lang.ErrWrongType.With(slog.String("form", "map"))
	}

	out := make([]*lang.Value, len(a[1].Items))

	for i, v := range a[1].Items {
		r, err := lang.Apply(a[0], []*lang.Value{v})
		if err != nil {
			return nil, err
		}

		out[i] = r
	}

	return lang.NewList(out...), nil
}

func biConj(a []*lang.Value) (*lang.Value, error) {
	if len(a) < 1 || !a[0].IsSeq() {
		return nil, lang.ErrWrongType.With(slog.String("form", "conj"))
	}

	rest := a[1:]

	if a[0].Kind == lang.KindVector {
		items := make([]*lang.Value, 0, len(a[0].Items)+len(rest))
		items = append(items, a[0].Items...)
		items = append(items, rest...)

		return lang.NewVector(items...), nil
	}

	items := make([]*lang.Value, 0, len(a[0].Items)+len(rest))

	for i := len(rest) - 1; i >= 0; i-- {
		items = append(items, rest[i])
	}

	items = append(items, a[0].Items...)

	return lang.NewList(items...), nil
}

func biSeq(a []*lang.Value) (*lang.Value, error) {
	if err := arity("seq", 1, a); err != nil {
		return nil, err
	}

	v := a[0]

	switch v.Kind {
	case lang.KindNil:
		return lang.Nil, nil
	case lang.KindString:
		if v.Str == "" {
			return lang.Nil, nil
		}

		items := make([]*lang.Value, 0, len(v.Str))
		for _, r := range v.Str {
			items = append(items, lang.NewString(string(r)))
		}

		return lang.NewList(items...), nil
	case lang.KindList, lang.KindVector:
		if len(v.Items) == 0 {
			return lang.Nil, nil
		}

		return lang.NewList(v.Items...), nil
	default:
		return nil, lang.ErrWrongType.With(slog.String("form", "seq"))
	}
}

func biAssoc(a []*lang.Value) (*lang.Value, error) {
	if len(a) < 1 || len(a)%2 != 1 {
		return nil, lang.ErrWrongArity.With(slog.String("form", "assoc"))
	}

	if err := requireKind("assoc", a[0], lang.KindHashMap); err != nil {
		return nil, err
	}

	m := a[0]

	for i := 1; i < len(a); i += 2 {
		m = lang.HashMapSet(m, a[i], a[i+1])
	}

	return m, nil
}

func biDissoc(a []*lang.Value) (*lang.Value, error) {
	if len(a) < 1 {
		return nil, lang.ErrWrongArity.With(slog.String("form", "dissoc"))
	}

	if err := requireKind("dissoc", a[0], lang.KindHashMap); err != nil {
		return nil, err
	}

	return lang.HashMapDelete(a[0], a[1:]), nil
}

func biGet(a []*lang.Value) (*lang.Value, error) {
	if err := arity("get", 2, a); err != nil {
		return nil, err
	}

	if a[0].Kind == lang.KindNil {
		return lang.Nil, nil
	}

	if err := requireKind("get", a[0], lang.KindHashMap); err != nil {
		return nil, err
	}

	for i, k := range a[0].Keys {
		if k.Kind == a[1].Kind && k.Str == a[1].Str {
			return a[0].Vals[i], nil
		}
	}

	return lang.Nil, nil
}

func biContains(a []*lang.Value) (*lang.Value, error) {
	if err := arity("contains?", 2, a); err != nil {
		return nil, err
	}

	if err := requireKind("contains?", a[0], lang.KindHashMap); err != nil {
		return nil, err
	}

	for _, k := range a[0].Keys {
		if k.Kind == a[1].Kind && k.Str == a[1].Str {
			return lang.True, nil
		}
	}

	return lang.False, nil
}

func biKeys(a []*lang.Value) (*lang.Value, error) {
	if err := arity("keys", 1, a); err != nil {
		return nil, err
	}

	if err := requireKind("keys", a[0], lang.KindHashMap); err != nil {
		return nil, err
	}

	return lang.NewList(a[0].Keys...), nil
}

func biVals(a []*lang.Value) (*lang.Value, error) {
	if err := arity("vals", 1, a); err != nil {
		return nil, err
	}

	if err := requireKind("vals", a[0], lang.KindHashMap); err != nil {
		return nil, err
	}

	return lang.NewList(a[0].Vals...), nil
}

func biDeref(a []*lang.Value) (*lang.Value, error) {
	if err := arity("deref", 1, a); err != nil {
		return nil, err
	}

	if err := requireKind("deref", a[0], lang.KindAtom); err != nil {
		return nil, err
	}

	return a[0].Deref(), nil
}

func biReset(a []*lang.Value) (*lang.Value, error) {
	if err := arity("reset!", 2, a); err != nil {
		return nil, err
	}

	if err := requireKind("reset!", a[0], lang.KindAtom); err != nil {
		return nil, err
	}

	return a[0].Reset(a[1]), nil
}

func biSwap(a []*lang.Value) (*lang.Value, error) {
	if len(a) < 2 {
		return nil, lang.ErrWrongArity.With(slog.String("form", "swap!"))
	}

	if err := requireKind("swap!", a[0], lang.KindAtom); err != nil {
		return nil, err
	}

	args := make([]*lang.Value, 0, len(a)-1)
	args = append(args, a[0].Deref())
	args = append(args, a[2:]...)

	result, err := lang.Apply(a[1], args)
	if err != nil {
		return nil, err
	}

	return a[0].Reset(result), nil
}

func biMeta(a []*lang.Value) (*lang.Value, error) {
	if err := arity("meta", 1, a); err != nil {
		return nil, err
	}

	if a[0].Meta == nil {
		return lang.Nil, nil
	}

	return a[0].Meta, nil
}

func biWithMeta(a []*lang.Value) (*lang.Value, error) {
	if err := arity("with-meta", 2, a); err != nil {
		return nil, err
	}

	return a[0].WithMeta(a[1]), nil
}

func biThrow(a []*lang.Value) (*lang.Value, error) {
	if err := arity("throw", 1, a); err != nil {
		return nil, err
	}

	return nil, lang.NewEvalError(a[0])
}

func biJSONStr(a []*lang.Value) (*lang.Value, error) {
	if err := arity("json-str", 1, a); err != nil {
		return nil, err
	}

	s, err := lang.ToJSON(a[0], "")
	if err != nil {
		return nil, err
	}

	return lang.NewString(s), nil
}

func biYAMLStr(a []*lang.Value) (*lang.Value, error) {
	if err := arity("yaml-str", 1, a); err != nil {
		return nil, err
	}

	s, err := lang.ToYAML(a[0])
	if err != nil {
		return nil, err
	}

	return lang.NewString(s), nil
}

func biSymbolToString(a []*lang.Value) (*lang.Value, error) {
	if err := arity("symbol->string", 1, a); err != nil {
		return nil, err
	}

	if err := requireKind("symbol->string", a[0], lang.KindSymbol); err != nil {
		return nil, err
	}

	return lang.NewString(a[0].Str), nil
}

func biStringToSymbol(a []*lang.Value) (*lang.Value, error) {
	if err := arity("string->symbol", 1, a); err != nil {
		return nil, err
	}

	if err := requireKind("string->symbol", a[0], lang.KindString); err != nil {
		return nil, err
	}

	return lang.NewSymbol(a[0].Str), nil
}
