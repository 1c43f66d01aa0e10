// Package aria implements ARIA id-reference validation, implicit roles and
// accessible-name computation.
package aria

import (
	"strings"

	"github.com/mj1618/a11y-audit/internal/dom"
	"golang.org/x/net/html"
)

// Reference attributes that hold id lists.
const (
	LabelledBy  = "labelledby"
	DescribedBy = "describedby"
	Owns        = "owns"
)

// IDs splits an id-list attribute value on whitespace.
func IDs(value string) []string {
	return strings.Fields(value)
}

// ValidReference checks the aria-<attr> attribute of n. It fails when the
// attribute is present but holds no ids, or when any id does not resolve to
// an element of the same document. An absent attribute passes.
func ValidReference(doc dom.Document, n *html.Node, attr string) bool {
	value, ok := doc.Attr(n, "aria-"+attr)
	if !ok {
		return true
	}
	return len(IDs(value)) > 0 && len(MissingIDs(doc, n, attr)) == 0
}

// MissingIDs returns the ids in aria-<attr> that do not resolve.
func MissingIDs(doc dom.Document, n *html.Node, attr string) []string {
	var missing []string
	for _, id := range IDs(dom.AttrValue(doc, n, "aria-"+attr)) {
		if doc.ElementByID(id) == nil {
			missing = append(missing, id)
		}
	}
	return missing
}
