package textmatch

import "regexp"

// Matcher tests folded text.
type Matcher interface {
	Match(folded string) bool
}

// Pattern is a regular expression evaluated against folded text.
type Pattern struct {
	re *regexp.Regexp
}

// Compile compiles expr as a case-insensitive Pattern.
func Compile(expr string) (Pattern, error) {
	re, err := regexp.Compile("(?i)" + expr)
	if err != nil {
		return Pattern{}, err
	}
	return Pattern{re: re}, nil
}

// MustCompile is like Compile but panics on an invalid expression. It is
// meant for package-level pattern tables.
func MustCompile(expr string) Pattern {
	p, err := Compile(expr)
	if err != nil {
		panic(err)
	}
	return p
}

// Match implements Matcher. The zero Pattern matches nothing.
func (p Pattern) Match(folded string) bool {
	return p.re != nil && p.re.MatchString(folded)
}

// String returns the source expression.
func (p Pattern) String() string {
	if p.re == nil {
		return ""
	}
	return p.re.String()
}

// Words matches any of the given words as whole words.
func Words(words ...string) Pattern {
	expr := `\b(`
	for i, w := range words {
		if i > 0 {
			expr += "|"
		}
		expr += regexp.QuoteMeta(w)
	}
	return MustCompile(expr + `)\b`)
}

// MatchFunc adapts a function to Matcher.
type MatchFunc func(folded string) bool

// Match implements Matcher.
func (f MatchFunc) Match(folded string) bool {
	return f(folded)
}

// All matches when every matcher matches.
func All(matchers ...Matcher) Matcher {
	return MatchFunc(func(s string) bool {
		for _, m := range matchers {
			if !m.Match(s) {
				return false
			}
		}
		return true
	})
}

// Any matches when at least one matcher matches.
func Any(matchers ...Matcher) Matcher {
	return MatchFunc(func(s string) bool {
		for _, m := range matchers {
			if m.Match(s) {
				return true
			}
		}
		return false
	})
}
