package rules

import (
	"fmt"
	"sort"

	"github.com/andybalholm/cascadia"
)

// Registry owns rules and the checks they combine.
type Registry struct {
	rules  []Rule
	bySlug map[string]int
	checks []*Check
	byID   map[string]*Check
	owner  map[string]string // check id -> rule slug
}

// NewRegistry returns an empty registry.
func NewRegistry() *Registry {
	return &Registry{
		bySlug: make(map[string]int),
		byID:   make(map[string]*Check),
		owner:  make(map[string]string),
	}
}

// Register adds rule and the checks it combines. The rule's Combines and
// Selectors are filled from checks. Selectors are compiled here so a bad
// catalog entry fails at start-up, not mid-scan.
func (r *Registry) Register(rule Rule, checks ...*Check) error {
	if rule.Slug == "" {
		return fmt.Errorf("rule has no slug")
	}
	if _, dup := r.bySlug[rule.Slug]; dup {
		return fmt.Errorf("duplicate rule %q", rule.Slug)
	}
	if len(checks) == 0 {
		return fmt.Errorf("rule %q combines no checks", rule.Slug)
	}
	if !rule.Severity.Valid() {
		return fmt.Errorf("rule %q: invalid severity %d", rule.Slug, rule.Severity)
	}
	rule.Combines = nil
	rule.Selectors = nil
	for _, c := range checks {
		if _, dup := r.byID[c.ID]; dup {
			return fmt.Errorf("rule %q: check %q already registered to %q", rule.Slug, c.ID, r.owner[c.ID])
		}
		if c.Evaluate == nil {
			return fmt.Errorf("check %q has no predicate", c.ID)
		}
		g, err := cascadia.ParseGroup(c.Selector)
		if err != nil {
			return fmt.Errorf("check %q: selector %q: %w", c.ID, c.Selector, err)
		}
		c.matcher = g
		rule.Combines = append(rule.Combines, c.ID)
		rule.Selectors = append(rule.Selectors, c.Selector)
	}
	for _, c := range checks {
		r.byID[c.ID] = c
		r.owner[c.ID] = rule.Slug
		r.checks = append(r.checks, c)
	}
	r.bySlug[rule.Slug] = len(r.rules)
	r.rules = append(r.rules, rule)
	return nil
}

// MustRegister is Register that panics, for static catalogs.
func (r *Registry) MustRegister(rule Rule, checks ...*Check) {
	if err := r.Register(rule, checks...); err != nil {
		panic(err)
	}
}

// Rules returns the registered rules sorted by slug.
func (r *Registry) Rules() []Rule {
	out := append([]Rule(nil), r.rules...)
	sort.Slice(out, func(i, j int) bool { return out[i].Slug < out[j].Slug })
	return out
}

// Rule looks a rule up by slug.
func (r *Registry) Rule(slug string) (Rule, bool) {
	i, ok := r.bySlug[slug]
	if !ok {
		return Rule{}, false
	}
	return r.rules[i], true
}

// Check looks a check up by id.
func (r *Registry) Check(id string) (*Check, bool) {
	c, ok := r.byID[id]
	return c, ok
}

// Owner returns the slug of the rule combining check id.
func (r *Registry) Owner(id string) string { return r.owner[id] }

// Checks returns checks in registration order.
func (r *Registry) Checks() []*Check {
	return append([]*Check(nil), r.checks...)
}
