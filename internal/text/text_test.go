package text

import (
	"strings"
	"testing"

	"github.com/mj1618/a11y-audit/internal/dom"
)

func TestAltQuality(t *testing.T) {
	tests := []struct {
		alt  string
		want AltProblem
	}{
		{"", AltOK},
		{"   ", AltWhitespace},
		{"Image of a cat", AltPrefix},
		{"spacer", AltPrefix},
		{"Logo", AltKeyword},
		{" image ", AltKeyword},
		{"Cat photo", AltSuffix},
		{"cat.JPG", AltExtension},
		{"hero-banner.webp", AltExtension},
		{"12345", AltNumeric},
		{"12 34", AltNumeric},
		{"A cat asleep on a sofa", AltOK},
		{"Company logo", AltOK},
		{"2024 annual report", AltOK},
	}
	for _, tt := range tests {
		if got := AltQuality(tt.alt); got != tt.want {
			t.Errorf("AltQuality(%q) = %q, want %q", tt.alt, got, tt.want)
		}
	}
}

func TestTooLong(t *testing.T) {
	tests := []struct {
		alt  string
		max  int
		want bool
	}{
		{strings.Repeat("a", 300), 0, false},
		{strings.Repeat("a", 301), 0, true},
		{"abcdef", 5, true},
		{"  abcde  ", 5, false},
		{"日本語", 3, false},
	}
	for _, tt := range tests {
		if got := TooLong(tt.alt, tt.max); got != tt.want {
			t.Errorf("TooLong(%d chars, %d) = %v, want %v", len(tt.alt), tt.max, got, tt.want)
		}
	}
}

func TestSame(t *testing.T) {
	tests := []struct {
		a, b string
		want bool
	}{
		{"Home", " home ", true},
		{"Annual  report", "annual report", true},
		{"", "", false},
		{"  ", "", false},
		{"Home", "Homepage", false},
	}
	for _, tt := range tests {
		if got := Same(tt.a, tt.b); got != tt.want {
			t.Errorf("Same(%q, %q) = %v, want %v", tt.a, tt.b, got, tt.want)
		}
	}
}

func TestAmbiguous(t *testing.T) {
	tests := []struct {
		name string
		want bool
	}{
		{"Click here!", true},
		{"Read more…", true},
		{"  More   info. ", true},
		{"HERE", true},
		{"Read the annual report", false},
		{"Download the 2024 accounts", false},
		{"", false},
		{"123", false},
	}
	for _, tt := range tests {
		if got := Ambiguous(tt.name); got != tt.want {
			t.Errorf("Ambiguous(%q) = %v, want %v", tt.name, got, tt.want)
		}
	}
}

func TestNormalize(t *testing.T) {
	if got := Normalize(" Click\tHERE, now! "); got != "click here now" {
		t.Errorf("Normalize = %q", got)
	}
}

func TestAltIndex_Reused(t *testing.T) {
	d := dom.MustParseString(`<body>
<img id="a" src="a.png" alt="Team photo 1">
<img id="b" src="b.png" alt="team  photo 1">
<img id="c" src="c.png" alt="Chart">
<img id="d" src="c.png" alt="Chart">
<a href="/x"><img id="e" src="e.png" alt="Read"></a>
<a href="/x"><img id="f" src="f.png" alt="Read"></a>
<img id="g" src="g.png" alt="">
<img id="h" src="h.png" alt="Unique">
</body>`)
	idx := NewAltIndex(d)

	want := map[string]bool{
		"a": true, "b": true,
		"c": false, "d": false,
		"e": false, "f": false,
		"g": false, "h": false,
	}
	for id, reused := range want {
		if got := idx.Reused(d.ElementByID(id)); got != reused {
			t.Errorf("Reused(#%s) = %v, want %v", id, got, reused)
		}
	}
}
