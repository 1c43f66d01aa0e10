package aria

import (
	"strings"

	"github.com/mj1618/a11y-audit/internal/dom"
	"golang.org/x/net/html"
)

// RoleMap maps HTML tags to their implicit ARIA role.
var RoleMap = map[string]string{
	"a":        "link",
	"area":     "link",
	"article":  "article",
	"aside":    "complementary",
	"button":   "button",
	"dialog":   "dialog",
	"footer":   "contentinfo",
	"form":     "form",
	"h1":       "heading",
	"h2":       "heading",
	"h3":       "heading",
	"h4":       "heading",
	"h5":       "heading",
	"h6":       "heading",
	"header":   "banner",
	"img":      "img",
	"li":       "listitem",
	"main":     "main",
	"nav":      "navigation",
	"ol":       "list",
	"option":   "option",
	"progress": "progressbar",
	"section":  "region",
	"select":   "combobox",
	"table":    "table",
	"td":       "cell",
	"textarea": "textbox",
	"th":       "columnheader",
	"tr":       "row",
	"ul":       "list",
}

// inputRoles maps input types to roles; unknown types are textboxes.
var inputRoles = map[string]string{
	"button":   "button",
	"checkbox": "checkbox",
	"image":    "button",
	"radio":    "radio",
	"range":    "slider",
	"reset":    "button",
	"search":   "searchbox",
	"submit":   "button",
	"number":   "spinbutton",
	"hidden":   "",
}

// MetaRoles maps meta-role names to the concrete roles they expand to.
var MetaRoles = map[string][]string{
	"interactive": {"button", "link", "textbox", "searchbox", "checkbox", "radio", "combobox", "slider", "spinbutton", "switch", "tab", "menuitem", "option"},
	"presentational": {"presentation", "none"},
}

// ExpandRoles expands any meta-roles in the given list to their concrete
// roles. Non-meta roles pass through unchanged. Duplicates are removed.
func ExpandRoles(roles []string) []string {
	seen := make(map[string]bool, len(roles))
	var expanded []string
	for _, r := range roles {
		if concrete, ok := MetaRoles[r]; ok {
			for _, c := range concrete {
				if !seen[c] {
					seen[c] = true
					expanded = append(expanded, c)
				}
			}
		} else if !seen[r] {
			seen[r] = true
			expanded = append(expanded, r)
		}
	}
	return expanded
}

// Role returns the explicit role of n, falling back to the implicit one.
func Role(doc dom.Document, n *html.Node) string {
	if v, ok := doc.Attr(n, "role"); ok {
		if f := strings.Fields(strings.ToLower(v)); len(f) > 0 {
			return f[0]
		}
	}
	tag := dom.Tag(n)
	switch tag {
	case "input":
		t := strings.ToLower(strings.TrimSpace(dom.AttrValue(doc, n, "type")))
		if role, ok := inputRoles[t]; ok {
			return role
		}
		return "textbox"
	case "a", "area":
		if !dom.HasAttr(doc, n, "href") {
			return ""
		}
	case "img":
		if v, ok := doc.Attr(n, "alt"); ok && v == "" {
			return "presentation"
		}
	}
	return RoleMap[tag]
}

// HasRole reports whether n's role is one of roles, meta-roles expanded.
func HasRole(doc dom.Document, n *html.Node, roles ...string) bool {
	r := Role(doc, n)
	for _, want := range ExpandRoles(roles) {
		if r == want {
			return true
		}
	}
	return false
}

// Presentational reports whether n opts out of the accessibility tree's
// semantics with role=presentation or role=none.
func Presentational(doc dom.Document, n *html.Node) bool {
	v, ok := doc.Attr(n, "role")
	if !ok {
		return false
	}
	for _, r := range strings.Fields(strings.ToLower(v)) {
		if r == "presentation" || r == "none" {
			return true
		}
	}
	return false
}

// Hidden reports whether n or an ancestor has aria-hidden="true".
func Hidden(doc dom.Document, n *html.Node) bool {
	for cur := n; cur != nil; cur = doc.Parent(cur) {
		if cur.Type == html.ElementNode && strings.EqualFold(strings.TrimSpace(dom.AttrValue(doc, cur, "aria-hidden")), "true") {
			return true
		}
	}
	return false
}

// focusableTags are focusable without a tabindex when enabled.
var focusableTags = map[string]bool{
	"button": true, "input": true, "select": true, "textarea": true,
	"iframe": true, "summary": true,
}

// Focusable reports whether n can receive keyboard focus.
func Focusable(doc dom.Document, n *html.Node) bool {
	if n.Type != html.ElementNode {
		return false
	}
	if v, ok := doc.Attr(n, "tabindex"); ok {
		return !strings.HasPrefix(strings.TrimSpace(v), "-")
	}
	tag := dom.Tag(n)
	if tag == "a" || tag == "area" {
		return dom.HasAttr(doc, n, "href")
	}
	if focusableTags[tag] {
		if tag == "input" && strings.EqualFold(dom.AttrValue(doc, n, "type"), "hidden") {
			return false
		}
		return !dom.HasAttr(doc, n, "disabled")
	}
	return strings.EqualFold(dom.AttrValue(doc, n, "contenteditable"), "true")
}
