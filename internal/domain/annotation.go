package domain

import (
	"fmt"
	"regexp"
	"strconv"

	m "clar.dev/pkg/clargen/internal/model"
)

// OptionError reports an invalid annotation on a test function.
type OptionError struct {
	Symbol   string
	Fragment string
	Reason   string
}

func (e *OptionError) Error() string {
	return fmt.Sprintf("%s: '%s' for '%s'", e.Reason, e.Fragment, e.Symbol)
}

// Declaration is a test function found in elided source text.
type Declaration struct {
	Declaration string
	Symbol      string
	ShortName   string
	Options     string
}

func declarationPattern(prefix, module string) *regexp.Regexp {
	return regexp.MustCompile(`(?m)^(void\s+(` +
		regexp.QuoteMeta(prefix) + `_` + regexp.QuoteMeta(module) +
		`__(\w+))\s*\(\s*void\s*\))(?:\s*/\*\s*\[clar\]:\s*(.*?)\s*\*/)?\s*\{`)
}

// FindDeclarations returns every "void <prefix>_<module>__<name>(void)"
// definition in text, in source order, together with the raw option list of
// an annotation comment that directly follows the signature.
func FindDeclarations(text, prefix, module string) []Declaration {
	matches := declarationPattern(prefix, module).FindAllStringSubmatch(text, -1)

	decls := make([]Declaration, 0, len(matches))
	for _, match := range matches {
		decls = append(decls, Declaration{
			Declaration: match[1],
			Symbol:      match[2],
			ShortName:   match[3],
			Options:     match[4],
		})
	}

	return decls
}

// ParseModule elides comments from source and returns the test functions of
// module in source order. Any malformed annotation is an *OptionError.
func ParseModule(source, prefix, module string) ([]m.TestFunction, error) {
	decls := FindDeclarations(ElideComments(source), prefix, module)

	functions := make([]m.TestFunction, 0, len(decls))

	for _, decl := range decls {
		opts, err := ParseOptions(decl.Symbol, decl.Options)
		if err != nil {
			return nil, err
		}

		functions = append(functions, m.TestFunction{
			ShortName:   decl.ShortName,
			Symbol:      decl.Symbol,
			Declaration: decl.Declaration,
			Description: opts.Description,
			Runs:        opts.Runs,
		})
	}

	return functions, nil
}

// Options are the values of an annotation comment.
type Options struct {
	Description *string
	Runs        int
}

// ParseOptions parses `key=value, key="quoted value"` lists. Keys are
// alphanumeric; bare values are limited to [a-zA-Z0-9_\-.]; quoted values run
// to the next double quote. Only "description" and "runs" are accepted.
func ParseOptions(symbol, options string) (Options, error) {
	var opts Options

	rest := options
	for rest != "" {
		key, value, next, ok := splitOption(rest)
		if !ok {
			return Options{}, &OptionError{Symbol: symbol, Fragment: rest, Reason: "invalid options"}
		}

		rest = next

		for _, c := range value {
			if !isValueChar(c) {
				return Options{}, &OptionError{Symbol: symbol, Fragment: string(c), Reason: "invalid character in " + key}
			}
		}

		switch key {
		case "description":
			description := value
			opts.Description = &description
		case "runs":
			if !isDigits(value) {
				return Options{}, &OptionError{Symbol: symbol, Fragment: value, Reason: "invalid runs value"}
			}

			runs, err := strconv.Atoi(value)
			if err != nil {
				return Options{}, &OptionError{Symbol: symbol, Fragment: value, Reason: "invalid runs value"}
			}

			opts.Runs = runs
		default:
			return Options{}, &OptionError{Symbol: symbol, Fragment: key, Reason: "unknown option"}
		}
	}

	return opts, nil
}

// splitOption consumes one `key=value` pair and its trailing separator.
func splitOption(s string) (key, value, rest string, ok bool) {
	i := 0
	for i < len(s) && isKeyChar(s[i]) {
		i++
	}

	if i == 0 || i >= len(s) || s[i] != '=' {
		return "", "", "", false
	}

	key = s[:i]
	s = s[i+1:]

	if s != "" && s[0] == '"' {
		end := 1
		for end < len(s) && s[end] != '"' {
			end++
		}

		if end >= len(s) {
			return "", "", "", false
		}

		value = s[1:end]
		s = s[end+1:]
	} else {
		end := 0
		for end < len(s) && isBareChar(s[end]) {
			end++
		}

		if end == 0 {
			return "", "", "", false
		}

		value = s[:end]
		s = s[end:]
	}

	if s == "" {
		return key, value, "", true
	}

	if s[0] != ',' {
		return "", "", "", false
	}

	s = s[1:]
	for s != "" && isSpace(s[0]) {
		s = s[1:]
	}

	return key, value, s, true
}

func isKeyChar(c byte) bool {
	return c >= 'a' && c <= 'z' || c >= 'A' && c <= 'Z' || c >= '0' && c <= '9'
}

func isBareChar(c byte) bool {
	return isKeyChar(c) || c == '_' || c == '-' || c == '.'
}

func isValueChar(c rune) bool {
	return c < 0x80 && (isBareChar(byte(c)) || c == ' ' || c == ',')
}

func isSpace(c byte) bool {
	return c == ' ' || c == '\t' || c == '\n' || c == '\r' || c == '\v' || c == '\f'
}

func isDigits(s string) bool {
	if s == "" {
		return false
	}

	for i := 0; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return false
		}
	}

	return true
}
