package runtime

import (
	"regexp"
	"strings"
)

// JsRegex wraps a compiled regular expression plus the original literal
// source and flags. Guest patterns compile on the host engine; the small
// syntax differences are tolerated by compiling lazily and surfacing a
// guest error only on use.
type JsRegex struct {
	Source string
	Flags  string
	re     *regexp.Regexp
}

func NewRegex(source, flags string) (*JsRegex, error) {
	pattern := source
	var prefix string
	if strings.Contains(flags, "i") {
		prefix += "i"
	}
	if strings.Contains(flags, "s") {
		prefix += "s"
	}
	if strings.Contains(flags, "m") {
		prefix += "m"
	}
	if prefix != "" {
		pattern = "(?" + prefix + ")" + pattern
	}
	re, err := regexp.Compile(pattern)
	if err != nil {
		return nil, NewSyntaxErrorValue("invalid regular expression: /" + source + "/" + flags)
	}
	return &JsRegex{Source: source, Flags: flags, re: re}, nil
}

func (r *JsRegex) Literal() string {
	return "/" + r.Source + "/" + r.Flags
}

func (r *JsRegex) Global() bool {
	return strings.Contains(r.Flags, "g")
}

func (r *JsRegex) HostValue() any {
	return r.re
}

func (r *JsRegex) Test(s string) bool {
	return r.re.MatchString(s)
}

// Exec returns [match, groups...] or null, the guest exec contract.
func (r *JsRegex) Exec(s string) any {
	m := r.re.FindStringSubmatchIndex(s)
	if m == nil {
		return nil
	}
	groups := len(m) / 2
	items := make([]any, groups)
	for i := 0; i < groups; i++ {
		if m[2*i] < 0 {
			items[i] = Undefined
		} else {
			items[i] = s[m[2*i]:m[2*i+1]]
		}
	}
	arr := NewArray(items...)
	return arr
}

// Match implements String.prototype.match: all matches with the g flag,
// exec semantics otherwise.
func (r *JsRegex) Match(s string) any {
	if !r.Global() {
		return r.Exec(s)
	}
	found := r.re.FindAllString(s, -1)
	if found == nil {
		return nil
	}
	items := make([]any, len(found))
	for i, f := range found {
		items[i] = f
	}
	return NewArray(items...)
}

func (r *JsRegex) Split(s string) []string {
	return r.re.Split(s, -1)
}

// Replace substitutes the first match, or every match with the g flag.
// Guest $1 group references translate to the host engine's ${1} form.
func (r *JsRegex) Replace(s, replacement string) string {
	replacement = groupRefs.ReplaceAllString(replacement, "${$1}")
	if r.Global() {
		return r.re.ReplaceAllString(s, replacement)
	}
	done := false
	return r.re.ReplaceAllStringFunc(s, func(m string) string {
		if done {
			return m
		}
		done = true
		result := []byte{}
		idx := r.re.FindStringSubmatchIndex(s)
		result = r.re.ExpandString(result, replacement, s, idx)
		return string(result)
	})
}

var groupRefs = regexp.MustCompile(`\$(\d+)`)

func init() {
	RegexProto.method("test", func(self any, args []any) (any, error) {
		return self.(*JsRegex).Test(ToString(Arg(args, 0))), nil
	})
	RegexProto.method("exec", func(self any, args []any) (any, error) {
		return self.(*JsRegex).Exec(ToString(Arg(args, 0))), nil
	})
	RegexProto.put("source", func(self any) any {
		return self.(*JsRegex).Source
	})
	RegexProto.put("flags", func(self any) any {
		return self.(*JsRegex).Flags
	})
	RegexProto.put("global", func(self any) any {
		return self.(*JsRegex).Global()
	})
	RegexProto.method("toString", func(self any, args []any) (any, error) {
		return self.(*JsRegex).Literal(), nil
	})
}
