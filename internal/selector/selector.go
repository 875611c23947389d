// Package selector implements the machine specification language used
// by lifecycle commands to pick subsets of deployed machines: compact
// integer range expressions ("1,2,3", "5-10", "2,4-6,8") over instance
// and copy numbers, plus an exact-match guest name filter.
package selector

import (
	"errors"
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/cyrange/cyrange/internal/domain"
)

// ErrInvalidSelector is returned for malformed range syntax and can be
// checked with errors.Is()
var ErrInvalidSelector = errors.New("invalid machine specification")

// IntSet is an expanded set of integers produced from a range expression.
type IntSet map[int]bool

// Contains reports whether n is in the set.
func (s IntSet) Contains(n int) bool {
	return s[n]
}

// Values returns the members of the set in increasing order.
func (s IntSet) Values() []int {
	out := make([]int, 0, len(s))
	for n := range s {
		out = append(out, n)
	}
	sort.Ints(out)
	return out
}

// ParseRange parses a range expression into the union of its items.
// The grammar is range := item (',' item)*, item := N | N '-' N.
// Reversed bounds, non-numeric tokens and empty items are rejected.
func ParseRange(expr string) (IntSet, error) {
	set := make(IntSet)
	for _, item := range strings.Split(expr, ",") {
		item = strings.TrimSpace(item)
		if item == "" {
			return nil, fmt.Errorf("%w: empty item in %q", ErrInvalidSelector, expr)
		}
		lo, hi, err := parseItem(item)
		if err != nil {
			return nil, err
		}
		for n := lo; n <= hi; n++ {
			set[n] = true
		}
	}
	return set, nil
}

// parseItem parses a single number or low-high span.
func parseItem(item string) (int, int, error) {
	if lo, hi, found := strings.Cut(item, "-"); found {
		start, err := strconv.Atoi(strings.TrimSpace(lo))
		if err != nil {
			return 0, 0, fmt.Errorf("%w: %q is not a number", ErrInvalidSelector, lo)
		}
		end, err := strconv.Atoi(strings.TrimSpace(hi))
		if err != nil {
			return 0, 0, fmt.Errorf("%w: %q is not a number", ErrInvalidSelector, hi)
		}
		if end < start {
			return 0, 0, fmt.Errorf("%w: reversed range %q", ErrInvalidSelector, item)
		}
		return start, end, nil
	}
	n, err := strconv.Atoi(item)
	if err != nil {
		return 0, 0, fmt.Errorf("%w: %q is not a number", ErrInvalidSelector, item)
	}
	return n, n, nil
}

// Selector is an intersection predicate over the machine universe. A
// nil axis matches every value on that axis.
type Selector struct {
	Instances IntSet
	Copies    IntSet
	Guests    map[string]bool
}

// Parse builds a selector from the -i/-c/-g command surface. Empty
// strings mean "match all" on the corresponding axis; guests is a
// comma-separated list of guest names.
func Parse(instances, copies, guests string) (Selector, error) {
	var sel Selector
	var err error
	if instances != "" {
		sel.Instances, err = ParseRange(instances)
		if err != nil {
			return Selector{}, err
		}
	}
	if copies != "" {
		sel.Copies, err = ParseRange(copies)
		if err != nil {
			return Selector{}, err
		}
	}
	if guests != "" {
		sel.Guests = make(map[string]bool)
		for _, name := range strings.Split(guests, ",") {
			name = strings.TrimSpace(name)
			if name == "" {
				return Selector{}, fmt.Errorf("%w: empty guest name in %q", ErrInvalidSelector, guests)
			}
			sel.Guests[name] = true
		}
	}
	return sel, nil
}

// Matches reports whether the machine satisfies every axis of the
// selector: (instance ∈ instance set) and (copy ∈ copy set) and
// (guest ∈ guest set).
func (s Selector) Matches(m domain.Machine) bool {
	return s.MatchesValues(m.Guest, m.Instance, m.Copy)
}

// MatchesValues is the axis test behind Matches, usable against any
// representation of a deployed machine.
func (s Selector) MatchesValues(guest string, instance, copy int) bool {
	if s.Instances != nil && !s.Instances.Contains(instance) {
		return false
	}
	if s.Copies != nil && !s.Copies.Contains(copy) {
		return false
	}
	if s.Guests != nil && !s.Guests[guest] {
		return false
	}
	return true
}

// Filter returns the machines of the plan that match the selector, in
// plan order.
func (s Selector) Filter(machines []domain.Machine) []domain.Machine {
	var out []domain.Machine
	for _, m := range machines {
		if s.Matches(m) {
			out = append(out, m)
		}
	}
	return out
}
