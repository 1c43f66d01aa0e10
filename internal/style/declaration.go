// Package style resolves the effective value of CSS properties for a node
// from its inline declarations and the stylesheet rules that match it.
package style

import (
	"strings"

	"github.com/aymerick/douceur/css"
	"github.com/aymerick/douceur/parser"
)

// Specificity is a selector specificity triple (ids, classes, types).
type Specificity [3]int

// Less reports whether s ranks below o.
func (s Specificity) Less(o Specificity) bool {
	for i := range s {
		if s[i] != o[i] {
			return s[i] < o[i]
		}
	}
	return false
}

// Declaration is a single property assignment that applies to a node.
type Declaration struct {
	Property    string
	Value       string
	Important   bool
	Inline      bool        // from the node's style attribute
	Specificity Specificity // zero for inline declarations
	Order       int         // global source order; later wins ties
}

// Source is the set of declarations that apply to one node, in no particular
// order. Inline declarations carry Inline=true.
type Source struct {
	Declarations []Declaration
}

// Empty reports whether the node has no declarations at all.
func (s Source) Empty() bool { return len(s.Declarations) == 0 }

// Rule is a parsed stylesheet rule with a single selector group.
type Rule struct {
	Selector     string
	Declarations []Declaration
	Order        int
}

// inlineOrderBase places inline declarations after every stylesheet
// declaration in source order.
const inlineOrderBase = 1 << 24

// ParseInline parses the value of a style attribute. Unparseable input
// yields whatever well-formed declarations can be salvaged.
func ParseInline(text string) []Declaration {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil
	}
	// The parser only closes a declaration at ';' or '}'.
	if !strings.HasSuffix(text, ";") {
		text += ";"
	}
	parsed, err := parser.ParseDeclarations(text)
	if err != nil {
		return salvageDeclarations(text)
	}
	out := make([]Declaration, 0, len(parsed))
	for i, d := range parsed {
		decl := fromDouceur(d, inlineOrderBase+i, true)
		if decl.Property == "" || decl.Value == "" {
			continue
		}
		out = append(out, decl)
	}
	return out
}

// ParseStylesheet parses a stylesheet into flat rules. Rules nested in
// @media blocks are kept unless the media query targets print or speech
// only; other at-rules are dropped. startOrder offsets source order so
// several sheets can be concatenated.
func ParseStylesheet(text string, startOrder int) ([]Rule, int, error) {
	sheet, err := parser.Parse(text)
	if err != nil {
		return nil, startOrder, err
	}
	var rules []Rule
	order := startOrder
	var walk func([]*css.Rule)
	walk = func(in []*css.Rule) {
		for _, r := range in {
			if r.Kind == css.AtRule {
				if strings.EqualFold(r.Name, "@media") && !screenlessMedia(r.Prelude) {
					walk(r.Rules)
				}
				continue
			}
			rule := Rule{Selector: strings.TrimSpace(r.Prelude), Order: order}
			for _, d := range r.Declarations {
				rule.Declarations = append(rule.Declarations, fromDouceur(d, order, false))
				order++
			}
			order++
			rules = append(rules, rule)
		}
	}
	walk(sheet.Rules)
	return rules, order, nil
}

func screenlessMedia(prelude string) bool {
	p := strings.ToLower(prelude)
	if strings.Contains(p, "screen") || strings.Contains(p, "all") {
		return false
	}
	return strings.Contains(p, "print") || strings.Contains(p, "speech")
}

func fromDouceur(d *css.Declaration, order int, inline bool) Declaration {
	return Declaration{
		Property:  strings.ToLower(strings.TrimSpace(d.Property)),
		Value:     strings.TrimSpace(d.Value),
		Important: d.Important,
		Inline:    inline,
		Order:     order,
	}
}

// salvageDeclarations splits "a: b; c: d" by hand, dropping pieces that have
// no property name or no value.
func salvageDeclarations(text string) []Declaration {
	var out []Declaration
	for i, part := range strings.Split(text, ";") {
		prop, value, ok := strings.Cut(part, ":")
		if !ok {
			continue
		}
		prop = strings.ToLower(strings.TrimSpace(prop))
		value = strings.TrimSpace(value)
		if prop == "" || value == "" || strings.ContainsAny(prop, " {}") {
			continue
		}
		important := false
		if idx := strings.Index(strings.ToLower(value), "!important"); idx >= 0 {
			important = true
			value = strings.TrimSpace(value[:idx])
		}
		out = append(out, Declaration{
			Property:  prop,
			Value:     value,
			Important: important,
			Inline:    true,
			Order:     inlineOrderBase + i,
		})
	}
	return out
}
