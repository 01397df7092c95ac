package lang

import (
	"regexp"
	"strconv"
	"strings"
)

// tokenRe splits source text into Rowan tokens: leading whitespace/commas
// are skipped, then one of: `~@`, a single special character
// `[]{}()'`~^@`, a double-quoted string (possibly unterminated), a `;`
// comment running to end of line, or a run of symbol characters.
var tokenRe = regexp.MustCompile(`[\s,]*(~@|[\[\]{}()'` + "`" + `~^@]|"(?:\\.|[^\\"])*"?|;.*|[^\s\[\]{}('"` + "`" + `,;)]*)`)

// reader walks a token stream produced by tokenRe, tracking each token's
// byte offset in the original source for error reporting.
type reader struct {
	source string
	tokens []string
	pos    []int // byte offset of tokens[i] in source
	idx    int
}

func tokenize(source string) *reader {
	matches := tokenRe.FindAllStringSubmatchIndex(source, -1)

	r := &reader{source: source}

	for _, m := range matches {
		tok := source[m[2]:m[3]]
		if tok == "" {
			continue
		}

		r.tokens = append(r.tokens, tok)
		r.pos = append(r.pos, m[2])
	}

	return r
}

func (r *reader) peek() (string, bool) {
	if r.idx >= len(r.tokens) {
		return "", false
	}

	return r.tokens[r.idx], true
}

func (r *reader) next() (string, int, bool) {
	tok, ok := r.peek()
	if !ok {
		return "", 0, false
	}

	pos := r.pos[r.idx]
	r.idx++

	return tok, pos, true
}

func (r *reader) errAt(pos int, cause error) error {
	return NewReaderError(cause, r.source, pos)
}

// ReadStr reads the first complete form from source and returns it. It
// reports ErrUnexpectedEOF (wrapped in a *ReaderError) when source contains
// no forms at all.
func ReadStr(source string) (*Value, error) {
	r := tokenize(source)
	if _, ok := r.peek(); !ok {
		return nil, r.errAt(len(source), ErrUnexpectedEOF)
	}

	return r.readForm()
}

// ReadStrConsuming reads the first complete form from source and also
// reports how many leading bytes of source it consumed, so a caller can
// read a second form from the remainder — used by hosts that evaluate a
// source string containing more than one top-level form.
func ReadStrConsuming(source string) (*Value, int, error) {
	r := tokenize(source)
	if _, ok := r.peek(); !ok {
		return nil, 0, r.errAt(len(source), ErrUnexpectedEOF)
	}

	v, err := r.readForm()
	if err != nil {
		return nil, 0, err
	}

	if r.idx >= len(r.pos) {
		return v, len(source), nil
	}

	return v, r.pos[r.idx], nil
}

func (r *reader) readForm() (*Value, error) {
	tok, ok := r.peek()
	if !ok {
		return nil, r.errAt(len(r.source), ErrUnexpectedEOF)
	}

	pos := r.pos[r.idx]

	switch tok {
	case "(":
		return r.readSeq("(", ")", KindList)
	case "[":
		return r.readSeq("[", "]", KindVector)
	case "{":
		return r.readHashMap()
	case ")", "]", "}":
		return nil, r.errAt(pos, ErrUnbalancedParen)
	case "'":
		r.idx++

		return r.readWrapped("quote")
	case "`":
		r.idx++

		return r.readWrapped("quasiquote")
	case "~":
		r.idx++

		return r.readWrapped("unquote")
	case "~@":
		r.idx++

		return r.readWrapped("splice-unquote")
	case "@":
		r.idx++

		return r.readWrapped("deref")
	case "^":
		r.idx++

		return r.readMetaForm()
	default:
		if strings.HasPrefix(tok, ";") {
			r.idx++

			return r.readForm()
		}

		return r.readAtom()
	}
}

func (r *reader) readWrapped(sym string) (*Value, error) {
	inner, err := r.readForm()
	if err != nil {
		return nil, err
	}

	return NewList(NewSymbol(sym), inner), nil
}

// readMetaForm handles `^meta form`, read as (with-meta form meta) per the
// reader macro's surface order (metadata precedes the value it annotates).
func (r *reader) readMetaForm() (*Value, error) {
	meta, err := r.readForm()
	if err != nil {
		return nil, err
	}

	form, err := r.readForm()
	if err != nil {
		return nil, err
	}

	return NewList(NewSymbol("with-meta"), form, meta), nil
}

func (r *reader) readSeq(open, close string, kind Kind) (*Value, error) {
	openPos := r.pos[r.idx]
	r.idx++ // consume opener

	var items []*Value

	for {
		tok, ok := r.peek()
		if !ok {
			return nil, r.errAt(openPos, unbalancedFor(open))
		}

		pos := r.pos[r.idx]

		if tok == close {
			r.idx++

			return &Value{Kind: kind, Items: items}, nil
		}

		if tok == ")" || tok == "]" || tok == "}" {
			return nil, r.errAt(pos, unbalancedFor(open))
		}

		item, err := r.readForm()
		if err != nil {
			return nil, err
		}

		items = append(items, item)
	}
}

func unbalancedFor(open string) *Error {
	switch open {
	case "[":
		return ErrUnbalancedBracket
	case "{":
		return ErrUnbalancedBrace
	default:
		return ErrUnbalancedParen
	}
}

func (r *reader) readHashMap() (*Value, error) {
	seq, err := r.readSeq("{", "}", KindHashMap)
	if err != nil {
		return nil, err
	}

	if len(seq.Items)%2 != 0 {
		return nil, ErrOddHashMapLiteral
	}

	keys := make([]*Value, 0, len(seq.Items)/2)
	vals := make([]*Value, 0, len(seq.Items)/2)

	for i := 0; i < len(seq.Items); i += 2 {
		k := seq.Items[i]
		if k.Kind != KindString && k.Kind != KindKeyword {
			return nil, ErrInvalidHashMapKey
		}

		keys = append(keys, k)
		vals = append(vals, seq.Items[i+1])
	}

	return NewHashMap(keys, vals), nil
}

var numberRe = regexp.MustCompile(`^-?[0-9]+$`)

func (r *reader) readAtom() (*Value, error) {
	tok, pos, _ := r.next()

	switch {
	case tok == "nil":
		return Nil, nil
	case tok == "true":
		return True, nil
	case tok == "false":
		return False, nil
	case numberRe.MatchString(tok):
		n, err := strconv.ParseInt(tok, 10, 64)
		if err != nil {
			return nil, r.errAt(pos, WrapError(err))
		}

		return NewNumber(n), nil
	case strings.HasPrefix(tok, `"`):
		s, err := unescapeString(tok)
		if err != nil {
			return nil, r.errAt(pos, err)
		}

		return NewString(s), nil
	case strings.HasPrefix(tok, ":"):
		return NewKeyword(tok[1:]), nil
	default:
		return NewSymbol(tok), nil
	}
}

// unescapeString parses a double-quoted token into its string value,
// rejecting the unterminated (missing closing quote) and trailing-backslash
// forms the tokenizer can still produce.
func unescapeString(tok string) (string, error) {
	if len(tok) < 2 || tok[len(tok)-1] != '"' {
		return "", ErrUnterminatedString
	}

	body := tok[1 : len(tok)-1]

	var sb strings.Builder

	for i := 0; i < len(body); i++ {
		c := body[i]
		if c != '\\' {
			sb.WriteByte(c)

			continue
		}

		i++
		if i >= len(body) {
			return "", ErrUnterminatedString
		}

		switch body[i] {
		case 'n':
			sb.WriteByte('\n')
		case '"':
			sb.WriteByte('"')
		case '\\':
			sb.WriteByte('\\')
		default:
			sb.WriteByte(body[i])
		}
	}

	return sb.String(), nil
}
