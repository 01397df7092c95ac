// Package bridge exposes Rowan to host runtimes that cannot operate a TTY:
// a handle to an opaque top-level environment, created once and reused
// across calls, plus a single read-eval-print operation that reports its
// three independent outputs — the printed value, an error message, and
// anything written to stdout during evaluation — through a callback rather
// than return values, since a single source string may both print and
// either return a value or fail.
package bridge

import (
	"bytes"
	"sync"

	"github.com/rowanlisp/rowan/lang"
	"github.com/rowanlisp/rowan/lang/ns"
)

// Env is an opaque handle to a Rowan top-level environment. The zero value
// is not usable; construct one with [NewEnv].
type Env struct {
	mu  sync.Mutex
	env *lang.Env
	out *bytes.Buffer
}

// NewEnv constructs a fresh top-level environment: built-in namespace
// installed, `eval`/`*ARGV*` bound, bootstrap forms evaluated. Output from
// `prn`/`println` writes is captured in an internal buffer drained on each
// [Env.Eval] call.
func NewEnv() (*Env, error) {
	out := &bytes.Buffer{}

	env, err := ns.New(out, nil, nil)
	if err != nil {
		return nil, err
	}

	return &Env{env: env, out: out}, nil
}

// Close releases e. Rowan environments hold no external resources (no
// files, sockets, or goroutines), so Close only guards against further use.
func (e *Env) Close() error {
	e.mu.Lock()
	defer e.mu.Unlock()

	e.env = nil

	return nil
}

// Eval reads and evaluates src as zero or more top-level forms against e's
// environment, then invokes emit once with the readable print of the final
// form's value ("nil" if src contained no forms, empty on failure), an
// error message (empty on success), and everything written to stdout
// during evaluation.
func (e *Env) Eval(src string, emit func(value, errMsg, stdout string)) {
	e.mu.Lock()
	defer e.mu.Unlock()

	e.out.Reset()

	if e.env == nil {
		emit("", "environment is closed", "")

		return
	}

	value, err := evalAll(src, e.env)

	stdout := e.out.String()

	if err != nil {
		emit("", err.Error(), stdout)

		return
	}

	emit(lang.PrStr(value, true), "", stdout)
}

// evalAll reads every top-level form in src in sequence, evaluating each
// against env, and returns the last form's value.
func evalAll(src string, env *lang.Env) (*lang.Value, error) {
	result := lang.Nil

	remaining := src
	for {
		form, rest, ok, err := readNext(remaining)
		if err != nil {
			return nil, err
		}

		if !ok {
			return result, nil
		}

		result, err = lang.Eval(form, env)
		if err != nil {
			return nil, err
		}

		remaining = rest
	}
}

// readNext reads the first top-level form from src, returning the
// remainder of src following it. ok is false, with no error, when src
// contains no more forms (end of input reached cleanly).
func readNext(src string) (form *lang.Value, rest string, ok bool, err error) {
	trimmed := trimLeadingBlank(src)
	if trimmed == "" {
		return nil, "", false, nil
	}

	v, consumed, err := lang.ReadStrConsuming(trimmed)
	if err != nil {
		return nil, "", false, err
	}

	return v, trimmed[consumed:], true, nil
}

func trimLeadingBlank(s string) string {
	i := 0
	for i < len(s) {
		switch {
		case s[i] == ' ' || s[i] == '\t' || s[i] == '\n' || s[i] == '\r' || s[i] == ',':
			i++
		case s[i] == ';':
			for i < len(s) && s[i] != '\n' {
				i++
			}
		default:
			return s[i:]
		}
	}

	return ""
}
