package rules

import (
	"strings"
	"testing"

	"github.com/mj1618/a11y-audit/internal/model"
	"golang.org/x/net/html"
)

func always(o Outcome) func(*Env, *html.Node) Outcome {
	return func(*Env, *html.Node) Outcome { return o }
}

func TestRegistry_Register(t *testing.T) {
	valid := Rule{Slug: "r", Type: model.RuleError, Severity: 2, WCAG: "1.1.1"}

	tests := []struct {
		name    string
		setup   func(r *Registry)
		rule    Rule
		checks  []*Check
		wantErr string
	}{
		{
			name:    "no slug",
			rule:    Rule{Severity: 1},
			checks:  []*Check{{ID: "c", Selector: "p", Evaluate: always(Pass)}},
			wantErr: "no slug",
		},
		{
			name:    "no checks",
			rule:    valid,
			wantErr: "combines no checks",
		},
		{
			name:    "bad severity",
			rule:    Rule{Slug: "r", Severity: 7},
			checks:  []*Check{{ID: "c", Selector: "p", Evaluate: always(Pass)}},
			wantErr: "invalid severity",
		},
		{
			name:    "no predicate",
			rule:    valid,
			checks:  []*Check{{ID: "c", Selector: "p"}},
			wantErr: "no predicate",
		},
		{
			name:    "bad selector",
			rule:    valid,
			checks:  []*Check{{ID: "c", Selector: "p[", Evaluate: always(Pass)}},
			wantErr: "selector",
		},
		{
			name: "duplicate slug",
			setup: func(r *Registry) {
				r.MustRegister(valid, &Check{ID: "other", Selector: "a", Evaluate: always(Pass)})
			},
			rule:    valid,
			checks:  []*Check{{ID: "c", Selector: "p", Evaluate: always(Pass)}},
			wantErr: "duplicate rule",
		},
		{
			name: "check owned by another rule",
			setup: func(r *Registry) {
				r.MustRegister(Rule{Slug: "first", Severity: 1}, &Check{ID: "c", Selector: "a", Evaluate: always(Pass)})
			},
			rule:    valid,
			checks:  []*Check{{ID: "c", Selector: "p", Evaluate: always(Pass)}},
			wantErr: `already registered to "first"`,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := NewRegistry()
			if tt.setup != nil {
				tt.setup(r)
			}
			err := r.Register(tt.rule, tt.checks...)
			if err == nil || !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("Register error = %v, want containing %q", err, tt.wantErr)
			}
		})
	}
}

func TestRegistry_Lookup(t *testing.T) {
	r := NewRegistry()
	r.MustRegister(Rule{Slug: "zeta", Severity: 3, Combines: []string{"stale"}},
		&Check{ID: "z1", Selector: "p", Evaluate: always(Pass)},
		&Check{ID: "z2", Selector: "a[href], area", Evaluate: always(Pass)},
	)
	r.MustRegister(Rule{Slug: "alpha", Severity: 1}, &Check{ID: "a1", Selector: "img", Evaluate: always(Fail)})

	rules := r.Rules()
	if len(rules) != 2 || rules[0].Slug != "alpha" || rules[1].Slug != "zeta" {
		t.Fatalf("Rules() not sorted by slug: %+v", rules)
	}
	zeta, ok := r.Rule("zeta")
	if !ok {
		t.Fatal("Rule(zeta) not found")
	}
	if strings.Join(zeta.Combines, ",") != "z1,z2" {
		t.Errorf("Combines = %v, want [z1 z2]", zeta.Combines)
	}
	if strings.Join(zeta.Selectors, "|") != "p|a[href], area" {
		t.Errorf("Selectors = %v", zeta.Selectors)
	}
	if got := r.Owner("z2"); got != "zeta" {
		t.Errorf("Owner(z2) = %q", got)
	}
	if _, ok := r.Check("a1"); !ok {
		t.Error("Check(a1) not found")
	}
	checks := r.Checks()
	if len(checks) != 3 || checks[0].ID != "z1" || checks[2].ID != "a1" {
		t.Errorf("Checks() not in registration order")
	}
	if _, ok := r.Rule("missing"); ok {
		t.Error("Rule(missing) found")
	}
}

func TestRegistry_FailedRegisterLeavesNoTrace(t *testing.T) {
	r := NewRegistry()
	err := r.Register(Rule{Slug: "r", Severity: 1},
		&Check{ID: "good", Selector: "p", Evaluate: always(Pass)},
		&Check{ID: "bad", Selector: "p[", Evaluate: always(Pass)},
	)
	if err == nil {
		t.Fatal("expected error")
	}
	if _, ok := r.Check("good"); ok {
		t.Error("check from a rejected rule was registered")
	}
	if len(r.Rules()) != 0 {
		t.Error("rejected rule was registered")
	}
}

func TestCheck_Decide(t *testing.T) {
	c := &Check{
		ID: "c",
		Exemptions: []Exemption{
			{Name: "never", Applies: func(*Env, *html.Node) bool { return false }},
			{Name: "always", Applies: func(*Env, *html.Node) bool { return true }},
			{Name: "shadowed", Applies: func(*Env, *html.Node) bool { return true }},
		},
		Evaluate: always(Fail),
	}
	outcome, ex := c.Decide(nil, nil)
	if outcome != Pass || ex != "always" {
		t.Errorf("Decide = %v, %q; want pass by the first applying exemption", outcome, ex)
	}

	c.Exemptions = c.Exemptions[:1]
	outcome, ex = c.Decide(nil, nil)
	if outcome != Fail || ex != "" {
		t.Errorf("Decide = %v, %q; want the base predicate's fail", outcome, ex)
	}
}

func TestOutcome_String(t *testing.T) {
	for o, want := range map[Outcome]string{Pass: "pass", Fail: "fail", NotApplicable: "not-applicable"} {
		if got := o.String(); got != want {
			t.Errorf("%d.String() = %q, want %q", o, got, want)
		}
	}
}
