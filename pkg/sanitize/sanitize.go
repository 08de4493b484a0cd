// Package sanitize rewrites non-deterministic substrings (generated ids,
// timestamps, temp paths) into stable placeholders before golden comparison.
//
// Sanitization preserves equality within one call: equal matched substrings
// receive equal placeholders and distinct substrings receive distinct ones.
// Placeholders are numbered in first-seen order and keep the shape of a GUID
// so masked identifiers still look like identifiers in the reference file.
package sanitize

import (
	"fmt"
	"regexp"
)

// GUIDPattern matches a lower-case or upper-case GUID.
const GUIDPattern = `([0-9a-f]{8}-[0-9a-f]{4}-[0-9a-f]{4}-[0-9a-f]{4}-[0-9a-f]{12}|[0-9A-F]{8}-[0-9A-F]{4}-[0-9A-F]{4}-[0-9A-F]{4}-[0-9A-F]{12})`

// QuotedGUIDPattern matches a GUID enclosed in double quotes. The quotes are
// part of the match and therefore replaced as well.
const QuotedGUIDPattern = `"` + GUIDPattern + `"`

// Placeholder returns the n-th placeholder (1-based).
func Placeholder(n int) string {
	return fmt.Sprintf("aaaaaaaa-bbbb-cccc-dddd-%012d", n)
}

// Sanitizer holds an ordered list of rules. It is immutable and safe for
// concurrent use.
type Sanitizer struct {
	rules []*regexp.Regexp
}

// New compiles patterns into a Sanitizer. Rules apply in the given order.
func New(patterns ...string) (*Sanitizer, error) {
	rules := make([]*regexp.Regexp, 0, len(patterns))
	for _, p := range patterns {
		re, err := regexp.Compile(p)
		if err != nil {
			return nil, fmt.Errorf("invalid sanitizer pattern %q: %w", p, err)
		}
		rules = append(rules, re)
	}
	return &Sanitizer{rules: rules}, nil
}

// MustNew is like New but panics on an invalid pattern.
func MustNew(patterns ...string) *Sanitizer {
	s, err := New(patterns...)
	if err != nil {
		panic(err)
	}
	return s
}

// FromRegexps builds a Sanitizer from already compiled expressions.
func FromRegexps(rules ...*regexp.Regexp) *Sanitizer {
	return &Sanitizer{rules: append([]*regexp.Regexp(nil), rules...)}
}

// With returns a new Sanitizer with extra rules appended after the existing ones.
func (s *Sanitizer) With(patterns ...string) (*Sanitizer, error) {
	extra, err := New(patterns...)
	if err != nil {
		return nil, err
	}
	return &Sanitizer{rules: append(append([]*regexp.Regexp(nil), s.Rules()...), extra.rules...)}, nil
}

// Rules returns the patterns in application order.
func (s *Sanitizer) Rules() []*regexp.Regexp {
	if s == nil {
		return nil
	}
	return append([]*regexp.Regexp(nil), s.rules...)
}

// Empty reports whether the sanitizer has no rules.
func (s *Sanitizer) Empty() bool {
	return s == nil || len(s.rules) == 0
}

// Sanitize applies every rule to text in order, each rule seeing the output of
// the previous one. The placeholder map lives only for this call.
func (s *Sanitizer) Sanitize(text string) string {
	if s.Empty() {
		return text
	}
	seen := make(map[string]string)
	for _, re := range s.rules {
		text = re.ReplaceAllStringFunc(text, func(match string) string {
			if p, ok := seen[match]; ok {
				return p
			}
			p := Placeholder(len(seen) + 1)
			seen[match] = p
			return p
		})
	}
	return text
}
