package cmd

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	"github.com/rowanlisp/rowan/cli/cmd/repl"
	"github.com/rowanlisp/rowan/lang"
	"github.com/rowanlisp/rowan/lang/ns"
	applog "github.com/rowanlisp/rowan/log"
)

// Run dispatches on source: with no paths it starts the interactive REPL;
// with one or more it treats the first as a script path, binds the rest to
// `*ARGV*`, evaluates `(load-file "<first>")`, and reports any resulting
// error through stderr.
func Run(ctx context.Context, stdout, stderr io.Writer, source []string) error {
	if len(source) == 0 {
		return repl.Run(ctx, stdout)
	}

	script, argv := source[0], source[1:]

	env, err := ns.New(stdout, nil, argv)
	if err != nil {
		return ErrLoadFile.Wrap(err)
	}

	form := lang.NewList(lang.NewSymbol("load-file"), lang.NewString(script))

	if _, err := lang.Eval(form, env); err != nil {
		applog.ErrorContext(ctx, "load-file", slog.String("script", script), slog.String("error", err.Error()))
		msg := err.Error()
		if _, ok := err.(*lang.EvalError); ok {
			msg = "receive exception: " + msg
		}

		fmt.Fprintln(stderr, msg)

		return ErrLoadFile.Wrap(err)
	}

	return nil
}
