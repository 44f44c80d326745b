package config

import (
	"strconv"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
)

// Selector identifies a single group, case, or subtest either by its 1-based
// number or by a name glob (doublestar syntax, so "parse*" and "io-[ab]"
// both work). The zero Selector matches everything.
type Selector struct {
	number  int
	pattern string
}

// ParseSelector interprets a command-line filter value. A positive integer
// selects by number; anything else is treated as a name pattern.
func ParseSelector(value string) Selector {
	value = strings.TrimSpace(value)
	if value == "" {
		return Selector{}
	}
	if n, err := strconv.Atoi(value); err == nil && n > 0 {
		return Selector{number: n}
	}
	return Selector{pattern: value}
}

// Active reports whether the selector filters at all.
func (s Selector) Active() bool { return s.number > 0 || s.pattern != "" }

// Number returns the numeric selection, or 0 for name-based or inactive
// selectors.
func (s Selector) Number() int { return s.number }

// Pattern returns the name pattern, or "" for numeric or inactive selectors.
func (s Selector) Pattern() string { return s.pattern }

// Match reports whether the numbered, named item passes the filter. An
// inactive selector matches everything; a malformed pattern matches nothing.
func (s Selector) Match(number int, name string) bool {
	if !s.Active() {
		return true
	}
	if s.number > 0 {
		return number == s.number
	}
	ok, err := doublestar.Match(s.pattern, name)
	return err == nil && ok
}

// String renders the selector for diagnostics.
func (s Selector) String() string {
	switch {
	case s.number > 0:
		return "#" + strconv.Itoa(s.number)
	case s.pattern != "":
		return s.pattern
	default:
		return "any"
	}
}
