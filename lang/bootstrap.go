package lang

// bootstrapSource holds the top-level forms evaluated, in the language
// itself, against a fresh top-level environment immediately after its
// built-in namespace is installed. The `load-file` definition's trailing
// newline before the closing paren guards against a source file ending in
// a line comment swallowing it.
const bootstrapSource = `
(def! not (fn* (a) (if a false true)))
(def! load-file (fn* (f) (eval (read-string (str "(do " (slurp f) "
nil)")))))
(defmacro! cond (fn* (& xs) (if (> (count xs) 0) (list 'if (first xs) (if (> (count xs) 1) (nth xs 1) (throw "odd number of forms to cond")) (cons 'cond (rest (rest xs)))))))
(defmacro! or (fn* (& xs) (if (empty? xs) nil (if (= 1 (count xs)) (first xs) ` + "`" + `(let* (or_FIXME ~(first xs)) (if or_FIXME or_FIXME (or ~@(rest xs))))))))
`

// RunBootstrap evaluates bootstrapSource's forms against env one at a time,
// failing fast on the first that errors (none are expected to, since the
// text is fixed). Callers run this once, after the built-in namespace and
// the host bindings (`eval`, `*ARGV*`) are installed on env.
func RunBootstrap(env *Env) error {
	r := tokenize(bootstrapSource)

	for {
		if _, ok := r.peek(); !ok {
			return nil
		}

		form, err := r.readForm()
		if err != nil {
			return err
		}

		if _, err := Eval(form, env); err != nil {
			return err
		}
	}
}
