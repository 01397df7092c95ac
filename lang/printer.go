package lang

import (
	"encoding/json"
	"strconv"
	"strings"

	"github.com/goccy/go-yaml"
)

// PrStr renders v as Rowan source text. When readable is true, strings are
// quoted and escaped so the result can be read back by [ReadStr]; when
// false, strings are emitted raw (used by `str` and `println`).
func PrStr(v *Value, readable bool) string {
	var sb strings.Builder

	writeValue(&sb, v, readable)

	return sb.String()
}

func writeValue(sb *strings.Builder, v *Value, readable bool) {
	switch v.Kind {
	case KindNil:
		sb.WriteString("nil")
	case KindBool:
		if v.Bool {
			sb.WriteString("true")
		} else {
			sb.WriteString("false")
		}
	case KindNumber:
		sb.WriteString(strconv.FormatInt(v.Number, 10))
	case KindString:
		if readable {
			sb.WriteString(escapeString(v.Str))
		} else {
			sb.WriteString(v.Str)
		}
	case KindKeyword:
		sb.WriteByte(':')
		sb.WriteString(v.Str)
	case KindSymbol:
		sb.WriteString(v.Str)
	case KindList:
		writeSeq(sb, v.Items, "(", ")", readable)
	case KindVector:
		writeSeq(sb, v.Items, "[", "]", readable)
	case KindHashMap:
		writeHashMap(sb, v, readable)
	case KindFunction:
		sb.WriteString("#<function>")
	case KindAtom:
		sb.WriteString("(atom ")
		writeValue(sb, v.Deref(), readable)
		sb.WriteByte(')')
	}
}

func writeSeq(sb *strings.Builder, items []*Value, open, close string, readable bool) {
	sb.WriteString(open)

	for i, it := range items {
		if i > 0 {
			sb.WriteByte(' ')
		}

		writeValue(sb, it, readable)
	}

	sb.WriteString(close)
}

func writeHashMap(sb *strings.Builder, m *Value, readable bool) {
	sb.WriteByte('{')

	for i, k := range m.Keys {
		if i > 0 {
			sb.WriteByte(' ')
		}

		writeValue(sb, k, readable)
		sb.WriteByte(' ')
		writeValue(sb, m.Vals[i], readable)
	}

	sb.WriteByte('}')
}

// escapeString quotes s and backslash-escapes `"`, `\` and newline, the
// inverse of the reader's unescapeString.
func escapeString(s string) string {
	var sb strings.Builder

	sb.WriteByte('"')

	for i := 0; i < len(s); i++ {
		switch s[i] {
		case '\\':
			sb.WriteString(`\\`)
		case '"':
			sb.WriteString(`\"`)
		case '\n':
			sb.WriteString(`\n`)
		default:
			sb.WriteByte(s[i])
		}
	}

	sb.WriteByte('"')

	return sb.String()
}

// Str implements the `str` built-in: every argument printed unreadably and
// concatenated with no separator.
func Str(args []*Value) string {
	parts := make([]string, len(args))
	for i, a := range args {
		parts[i] = PrStr(a, false)
	}

	return strings.Join(parts, "")
}

// PrStrJoin implements the `pr-str` built-in: every argument printed
// readably and joined with a single space.
func PrStrJoin(args []*Value) string {
	parts := make([]string, len(args))
	for i, a := range args {
		parts[i] = PrStr(a, true)
	}

	return strings.Join(parts, " ")
}

// ToJSON renders v as JSON. Keywords and symbols serialize as strings;
// functions and atoms have no JSON representation and are rejected.
func ToJSON(v *Value, indent string) (string, error) {
	native, err := toNative(v)
	if err != nil {
		return "", err
	}

	var (
		b   []byte
		err2 error
	)

	if indent != "" {
		b, err2 = json.MarshalIndent(native, "", indent)
	} else {
		b, err2 = json.Marshal(native)
	}

	if err2 != nil {
		return "", WrapError(err2)
	}

	return string(b), nil
}

// ToYAML renders v as YAML using the same native conversion as [ToJSON].
func ToYAML(v *Value) (string, error) {
	native, err := toNative(v)
	if err != nil {
		return "", err
	}

	b, err := yaml.Marshal(native)
	if err != nil {
		return "", WrapError(err)
	}

	return string(b), nil
}

// toNative converts a Value into the plain Go types encoding/json and
// goccy/go-yaml already know how to marshal.
func toNative(v *Value) (any, error) {
	switch v.Kind {
	case KindNil:
		return nil, nil
	case KindBool:
		return v.Bool, nil
	case KindNumber:
		return v.Number, nil
	case KindString:
		return v.Str, nil
	case KindKeyword:
		return ":" + v.Str, nil
	case KindSymbol:
		return v.Str, nil
	case KindList, KindVector:
		out := make([]any, len(v.Items))

		for i, it := range v.Items {
			nv, err := toNative(it)
			if err != nil {
				return nil, err
			}

			out[i] = nv
		}

		return out, nil
	case KindHashMap:
		out := make(map[string]any, len(v.Keys))

		for i, k := range v.Keys {
			nv, err := toNative(v.Vals[i])
			if err != nil {
				return nil, err
			}

			out[k.Str] = nv
		}

		return out, nil
	default:
		return nil, ErrWrongType.With()
	}
}
