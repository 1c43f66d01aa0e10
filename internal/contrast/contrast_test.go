package contrast

import (
	"math"
	"testing"

	"github.com/mj1618/a11y-audit/internal/dom"
	"github.com/mj1618/a11y-audit/internal/style"
)

func gray(v uint8) style.Color { return style.Color{R: v, G: v, B: v, A: 1} }

func TestRatio(t *testing.T) {
	if got := Ratio(style.Black, style.White); math.Abs(got-21) > 1e-9 {
		t.Errorf("Ratio(black, white) = %g, want 21", got)
	}
	if got := Ratio(style.White, style.Black); math.Abs(got-21) > 1e-9 {
		t.Errorf("Ratio is not symmetric: %g", got)
	}
	if got := Ratio(gray(100), gray(100)); got != 1 {
		t.Errorf("Ratio of equal colours = %g, want 1", got)
	}
}

func TestRatio_MonotonicInLuminance(t *testing.T) {
	prev := Ratio(gray(255), style.White)
	for v := 254; v >= 0; v -= 17 {
		r := Ratio(gray(uint8(v)), style.White)
		if r <= prev {
			t.Fatalf("ratio did not increase as foreground darkened: gray(%d) = %g, previous %g", v, r, prev)
		}
		prev = r
	}
}

func TestRequired(t *testing.T) {
	tests := []struct {
		pt   float64
		bold bool
		want float64
	}{
		{12, false, NormalMinimum},
		{14, false, NormalMinimum},
		{14, true, LargeMinimum},
		{13.9, true, NormalMinimum},
		{18, false, LargeMinimum},
		{24, false, LargeMinimum},
	}
	for _, tt := range tests {
		if got := Required(tt.pt, tt.bold); got != tt.want {
			t.Errorf("Required(%g, %v) = %g, want %g", tt.pt, tt.bold, got, tt.want)
		}
	}
}

func TestAnalyzer_Evaluate(t *testing.T) {
	d := dom.MustParseString(`<body>
<p id="gray" style="color: #888">normal text</p>
<h1 id="large" style="color: #888">large text</h1>
<p id="bold" style="color: #888; font-size: 14pt"><strong>bold child</strong></p>
<div style="background-color: #000"><p id="inverse" style="color: #fff">white on black</p></div>
<p id="clear" style="color: #000; background-color: transparent">transparent</p>
<p id="none">no colour</p>
<p id="alpha" style="color: rgba(0, 0, 0, 0)">invisible ink</p>
</body>`)
	a := NewAnalyzer(d)

	tests := []struct {
		id       string
		ok       bool
		pass     bool
		required float64
	}{
		{"gray", true, false, NormalMinimum},
		{"large", true, true, LargeMinimum},
		{"bold", true, true, LargeMinimum},
		{"inverse", true, true, NormalMinimum},
		{"clear", false, false, 0},
		{"none", false, false, 0},
		{"alpha", false, false, 0},
	}
	for _, tt := range tests {
		t.Run(tt.id, func(t *testing.T) {
			r, ok := a.Evaluate(d.ElementByID(tt.id))
			if ok != tt.ok {
				t.Fatalf("Evaluate ok = %v, want %v", ok, tt.ok)
			}
			if !ok {
				return
			}
			if r.Pass() != tt.pass {
				t.Errorf("Pass = %v (ratio %.2f, required %g), want %v", r.Pass(), r.Ratio, r.Required, tt.pass)
			}
			if r.Required != tt.required {
				t.Errorf("Required = %g, want %g", r.Required, tt.required)
			}
		})
	}
}
