// Package contrast checks foreground/background colour pairs against the
// WCAG minimum contrast thresholds.
package contrast

import (
	"math"
	"strings"

	"github.com/mj1618/a11y-audit/internal/dom"
	"github.com/mj1618/a11y-audit/internal/style"
	"golang.org/x/net/html"
)

// Thresholds for normal and large text.
const (
	NormalMinimum = 4.5
	LargeMinimum  = 3.0
)

// Luminance is the relative luminance of c using a flat 2.2 gamma per
// channel. This is deliberately not the piecewise sRGB curve; reported
// ratios stay comparable with earlier scans.
func Luminance(c style.Color) float64 {
	lin := func(v uint8) float64 { return math.Pow(float64(v)/255, 2.2) }
	return 0.2126*lin(c.R) + 0.7152*lin(c.G) + 0.0722*lin(c.B)
}

// Ratio is the contrast ratio between two colours, always >= 1.
func Ratio(a, b style.Color) float64 {
	la, lb := Luminance(a), Luminance(b)
	if la < lb {
		la, lb = lb, la
	}
	return (la + 0.05) / (lb + 0.05)
}

// Required returns the minimum ratio for text of the given size in points.
func Required(pt float64, bold bool) float64 {
	if pt >= 18 || (pt >= 14 && bold) {
		return LargeMinimum
	}
	return NormalMinimum
}

// Result describes one evaluated node.
type Result struct {
	Foreground style.Color
	Background style.Color
	Ratio      float64
	Required   float64
	SizePt     float64
	Bold       bool
}

// Pass reports whether the ratio meets the requirement.
func (r Result) Pass() bool { return r.Ratio >= r.Required }

// Analyzer evaluates nodes of one document.
type Analyzer struct {
	doc dom.Document
	res *style.Resolver
}

// NewAnalyzer returns an analyzer for doc.
func NewAnalyzer(doc dom.Document) *Analyzer {
	return &Analyzer{doc: doc, res: style.NewResolver(doc)}
}

// Evaluate computes the contrast of n. ok is false when the node cannot be
// evaluated: no foreground colour, an unparseable colour, or a background
// that resolves to transparent, inherit or initial.
func (a *Analyzer) Evaluate(n *html.Node) (Result, bool) {
	fgValue, ok := a.res.Computed(n, "color")
	if !ok {
		return Result{}, false
	}
	fg, ok := style.ParseColor(fgValue)
	if !ok || fg.Transparent() {
		return Result{}, false
	}

	bg := style.White
	if bgValue, _, found := a.res.Nearest(n, "background-color"); found {
		switch strings.ToLower(bgValue) {
		case "transparent", "inherit", "initial", "unset":
			return Result{}, false
		}
		c, ok := style.ParseColor(bgValue)
		if !ok || c.Transparent() {
			return Result{}, false
		}
		bg = c
	}

	pt := style.PxToPt(a.res.FontPx(n))
	bold := a.res.Bold(n) || a.emphasisedChild(n)
	return Result{
		Foreground: fg,
		Background: bg,
		Ratio:      Ratio(fg, bg),
		Required:   Required(pt, bold),
		SizePt:     pt,
		Bold:       bold,
	}, true
}

// emphasisedChild reports whether every piece of n's visible text sits in a
// <b> or <strong> child, which renders the text bold.
func (a *Analyzer) emphasisedChild(n *html.Node) bool {
	if strings.TrimSpace(dom.OwnText(a.doc, n)) != "" {
		return false
	}
	found := false
	for _, c := range dom.Elements(a.doc, n) {
		if strings.TrimSpace(a.doc.Text(c)) == "" {
			continue
		}
		if !dom.IsElement(c, "b", "strong") {
			return false
		}
		found = true
	}
	return found
}
