package bindings

import (
	"fmt"
	"strconv"
	"strings"

	"cyclebind/internal/values"
)

// Call is a parsed binding specification: a function name plus its
// literal arguments.
type Call struct {
	Name string
	Args []values.Value
}

// ParseSpec parses a binding specification string of the form
// Name or Name(arg, arg, ...). Arguments may be integers, floats,
// booleans, quoted strings, or bare words (taken as strings).
func ParseSpec(spec string) (*Call, error) {
	s := strings.TrimSpace(spec)
	if s == "" {
		return nil, fmt.Errorf("%w: empty spec", ErrBadSpec)
	}

	open := strings.IndexByte(s, '(')
	if open < 0 {
		if !validFuncName(s) {
			return nil, fmt.Errorf("%w: %q is not a function name", ErrBadSpec, s)
		}
		return &Call{Name: s}, nil
	}

	name := strings.TrimSpace(s[:open])
	if !validFuncName(name) {
		return nil, fmt.Errorf("%w: %q is not a function name", ErrBadSpec, name)
	}
	if !strings.HasSuffix(s, ")") {
		return nil, fmt.Errorf("%w: %q is missing a closing parenthesis", ErrBadSpec, spec)
	}

	argText := s[open+1 : len(s)-1]
	args, err := parseArgs(argText)
	if err != nil {
		return nil, fmt.Errorf("%w: %q: %v", ErrBadSpec, spec, err)
	}
	return &Call{Name: name, Args: args}, nil
}

func validFuncName(s string) bool {
	if s == "" {
		return false
	}
	for i, r := range s {
		switch {
		case r >= 'A' && r <= 'Z', r >= 'a' && r <= 'z', r == '_':
		case r >= '0' && r <= '9':
			if i == 0 {
				return false
			}
		default:
			return false
		}
	}
	return true
}

func parseArgs(text string) ([]values.Value, error) {
	if strings.TrimSpace(text) == "" {
		return nil, nil
	}

	var args []values.Value
	for _, tok := range splitArgs(text) {
		arg, err := parseArg(strings.TrimSpace(tok))
		if err != nil {
			return nil, err
		}
		args = append(args, arg)
	}
	return args, nil
}

// splitArgs splits on commas that are outside quoted strings.
func splitArgs(text string) []string {
	var parts []string
	var b strings.Builder
	var quote byte
	for i := 0; i < len(text); i++ {
		ch := text[i]
		switch {
		case quote != 0:
			b.WriteByte(ch)
			if ch == quote {
				quote = 0
			}
		case ch == '\'' || ch == '"':
			quote = ch
			b.WriteByte(ch)
		case ch == ',':
			parts = append(parts, b.String())
			b.Reset()
		default:
			b.WriteByte(ch)
		}
	}
	parts = append(parts, b.String())
	return parts
}

func parseArg(tok string) (values.Value, error) {
	if tok == "" {
		return values.Absent, fmt.Errorf("empty argument")
	}

	if len(tok) >= 2 {
		if (tok[0] == '\'' && tok[len(tok)-1] == '\'') || (tok[0] == '"' && tok[len(tok)-1] == '"') {
			return values.From(tok[1 : len(tok)-1]), nil
		}
	}
	if n, err := strconv.ParseInt(tok, 10, 64); err == nil {
		return values.From(n), nil
	}
	if f, err := strconv.ParseFloat(tok, 64); err == nil {
		return values.From(f), nil
	}
	if b, err := strconv.ParseBool(tok); err == nil {
		return values.From(b), nil
	}
	// Bare word: treated as a string argument.
	return values.From(tok), nil
}
