package instrument

import (
	"errors"
	"fmt"
	"sort"
	"strings"
)

var ErrUnknownInstrumentFamily = errors.New("unknown instrument family")

// UnknownInstrumentFamilyError is returned when a portfolio matches no
// family tag and the resolver has no default lot size.
type UnknownInstrumentFamilyError struct {
	Portfolio string
}

func (e *UnknownInstrumentFamilyError) Error() string {
	return fmt.Sprintf("no lot size for portfolio %q: matches no family tag and no default is configured", e.Portfolio)
}

func (e *UnknownInstrumentFamilyError) Is(target error) bool { return target == ErrUnknownInstrumentFamily }

// Rule maps an instrument family tag to its contract multiplier.
type Rule struct {
	Tag     string
	LotSize int64
}

// DefaultPriority is the order family tags are checked in. NIFTY is a
// substring of every other tag so it must come last.
var DefaultPriority = []string{"BANKNIFTY", "FINNIFTY", "MIDCPNIFTY", "NIFTY"}

// Resolver does first-match substring dispatch from portfolio to lot size.
type Resolver struct {
	rules      []Rule
	defaultLot int64
	hasDefault bool
}

type Option func(*Resolver)

// WithDefault sets the lot size returned when no rule matches.
func WithDefault(lotSize int64) Option {
	return func(r *Resolver) {
		r.defaultLot = lotSize
		r.hasDefault = true
	}
}

func NewResolver(rules []Rule, opts ...Option) *Resolver {
	r := &Resolver{rules: append([]Rule(nil), rules...)}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// RulesFromTable orders a tag table by priority. Tags missing from priority
// follow, longest first so that a tag is checked before its substrings.
func RulesFromTable(table map[string]int64, priority []string) []Rule {
	rules := make([]Rule, 0, len(table))
	seen := make(map[string]bool, len(table))
	for _, tag := range priority {
		size, ok := table[tag]
		if !ok || seen[tag] {
			continue
		}
		seen[tag] = true
		rules = append(rules, Rule{Tag: tag, LotSize: size})
	}

	var rest []string
	for tag := range table {
		if !seen[tag] {
			rest = append(rest, tag)
		}
	}
	sort.Slice(rest, func(i, j int) bool {
		if len(rest[i]) != len(rest[j]) {
			return len(rest[i]) > len(rest[j])
		}
		return rest[i] < rest[j]
	})
	for _, tag := range rest {
		rules = append(rules, Rule{Tag: tag, LotSize: table[tag]})
	}
	return rules
}

// Match returns the first rule whose tag occurs in portfolio.
func (r *Resolver) Match(portfolio string) (Rule, bool) {
	for _, rule := range r.rules {
		if strings.Contains(portfolio, rule.Tag) {
			return rule, true
		}
	}
	return Rule{}, false
}

func (r *Resolver) Resolve(portfolio string) (int64, error) {
	if rule, ok := r.Match(portfolio); ok {
		return rule.LotSize, nil
	}
	if r.hasDefault {
		return r.defaultLot, nil
	}
	return 0, &UnknownInstrumentFamilyError{Portfolio: portfolio}
}

// Rules returns a copy of the rules in match order.
func (r *Resolver) Rules() []Rule {
	return append([]Rule(nil), r.rules...)
}

// Tags returns the family tags in match order.
func (r *Resolver) Tags() []string {
	tags := make([]string, len(r.rules))
	for i, rule := range r.rules {
		tags[i] = rule.Tag
	}
	return tags
}

// WithLotSizes returns a resolver with the same order and default whose lot
// sizes are replaced by overrides where present.
func (r *Resolver) WithLotSizes(overrides map[string]int64) *Resolver {
	out := &Resolver{rules: r.Rules(), defaultLot: r.defaultLot, hasDefault: r.hasDefault}
	for i, rule := range out.rules {
		if size, ok := overrides[rule.Tag]; ok && size > 0 {
			out.rules[i].LotSize = size
		}
	}
	return out
}
