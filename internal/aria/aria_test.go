package aria

import (
	"reflect"
	"testing"

	"github.com/mj1618/a11y-audit/internal/dom"
)

func TestValidReference(t *testing.T) {
	d := dom.MustParseString(`<body>
<span id="one">One</span><span id="two">Two</span>
<div id="ok" aria-labelledby="one two"></div>
<div id="missing" aria-labelledby="one three"></div>
<div id="blank" aria-describedby="   "></div>
<div id="absent"></div>
<div id="owns" aria-owns="two"></div>
</body>`)

	tests := []struct {
		id    string
		attr  string
		valid bool
	}{
		{"ok", LabelledBy, true},
		{"missing", LabelledBy, false},
		{"blank", DescribedBy, false},
		{"absent", LabelledBy, true},
		{"owns", Owns, true},
	}
	for _, tt := range tests {
		if got := ValidReference(d, d.ElementByID(tt.id), tt.attr); got != tt.valid {
			t.Errorf("ValidReference(#%s, %s) = %v, want %v", tt.id, tt.attr, got, tt.valid)
		}
	}
	if got := MissingIDs(d, d.ElementByID("missing"), LabelledBy); !reflect.DeepEqual(got, []string{"three"}) {
		t.Errorf("MissingIDs = %v, want [three]", got)
	}
}

func TestEmpty(t *testing.T) {
	tests := map[string]bool{
		"":            true,
		"   ":         true,
		"  - _ ": true,
		"-x-":         false,
		"Go":          false,
	}
	for in, want := range tests {
		if got := Empty(in); got != want {
			t.Errorf("Empty(%q) = %v, want %v", in, got, want)
		}
	}
}

func TestName(t *testing.T) {
	d := dom.MustParseString(`<body>
<span id="lbl">From label</span>
<a id="aria-label" href="#" aria-label="Explicit">Text</a>
<a id="labelledby" href="#" aria-labelledby="lbl">Text</a>
<a id="broken-ref" href="#" aria-labelledby="nope">Fallback text</a>
<a id="text" href="#">  Some   <b>text</b> </a>
<a id="img" href="#"><img src="x.png" alt="Logo"></a>
<a id="hidden-img" href="#"><img src="x.png" alt="Secret" aria-hidden="true"></a>
<a id="svg" href="#"><svg><title>Chart</title></svg></a>
<a id="title" href="#" title="Tooltip"></a>
<a id="hidden-text" href="#"><span aria-hidden="true">icon</span></a>
<a id="display-none" href="#"><span style="display:none">gone</span></a>
<a id="blocks" href="#"><div>One</div><div>Two</div></a>
<a id="dashes" href="#">--</a>
</body>`)

	tests := []struct {
		id   string
		want string
	}{
		{"aria-label", "Explicit"},
		{"labelledby", "From label"},
		{"broken-ref", "Fallback text"},
		{"text", "Some text"},
		{"img", "Logo"},
		{"hidden-img", ""},
		{"svg", "Chart"},
		{"title", "Tooltip"},
		{"hidden-text", ""},
		{"display-none", ""},
		{"blocks", "One Two"},
		{"dashes", ""},
	}
	for _, tt := range tests {
		if got := Name(d, d.ElementByID(tt.id)); got != tt.want {
			t.Errorf("Name(#%s) = %q, want %q", tt.id, got, tt.want)
		}
	}
}

func TestControlName(t *testing.T) {
	d := dom.MustParseString(`<body><form>
<label for="email">Email address</label><input id="email" type="email">
<label>Phone <input id="phone" type="tel"></label>
<input id="bare" type="text">
<input id="titled" type="text" title="Search terms">
<input id="submit" type="submit" value="Send">
<input id="image" type="image" alt="Go" src="go.png">
<input id="labelled" type="text" aria-label="Name">
</form></body>`)

	tests := []struct {
		id   string
		want string
	}{
		{"email", "Email address"},
		{"phone", "Phone"},
		{"bare", ""},
		{"titled", "Search terms"},
		{"submit", "Send"},
		{"image", "Go"},
		{"labelled", "Name"},
	}
	for _, tt := range tests {
		if got := ControlName(d, d.ElementByID(tt.id)); got != tt.want {
			t.Errorf("ControlName(#%s) = %q, want %q", tt.id, got, tt.want)
		}
	}
}

func TestRole(t *testing.T) {
	d := dom.MustParseString(`<body>
<a id="link" href="/">x</a>
<a id="anchor">x</a>
<img id="decorative" src="a.png" alt="">
<img id="image" src="a.png" alt="A">
<input id="check" type="checkbox">
<input id="text">
<div id="explicit" role="Button Link">x</div>
<nav id="nav"></nav>
</body>`)

	tests := map[string]string{
		"link":       "link",
		"anchor":     "",
		"decorative": "presentation",
		"image":      "img",
		"check":      "checkbox",
		"text":       "textbox",
		"explicit":   "button",
		"nav":        "navigation",
	}
	for id, want := range tests {
		if got := Role(d, d.ElementByID(id)); got != want {
			t.Errorf("Role(#%s) = %q, want %q", id, got, want)
		}
	}
	if !HasRole(d, d.ElementByID("check"), "interactive") {
		t.Error("checkbox should match the interactive meta-role")
	}
	if !HasRole(d, d.ElementByID("decorative"), "presentational") {
		t.Error("alt=\"\" image should match the presentational meta-role")
	}
}

func TestExpandRoles(t *testing.T) {
	got := ExpandRoles([]string{"presentational", "none", "main"})
	want := []string{"presentation", "none", "main"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("ExpandRoles = %v, want %v", got, want)
	}
}

func TestFocusableAndHidden(t *testing.T) {
	d := dom.MustParseString(`<body>
<a id="link" href="/">x</a>
<a id="nohref">x</a>
<button id="btn">x</button>
<button id="disabled" disabled>x</button>
<div id="tab" tabindex="0">x</div>
<a id="removed" href="/" tabindex="-1">x</a>
<input id="hiddeninput" type="hidden">
<div id="editable" contenteditable="true">x</div>
<div aria-hidden="TRUE"><span id="deep">x</span></div>
</body>`)

	focusable := map[string]bool{
		"link": true, "nohref": false, "btn": true, "disabled": false,
		"tab": true, "removed": false, "hiddeninput": false, "editable": true,
	}
	for id, want := range focusable {
		if got := Focusable(d, d.ElementByID(id)); got != want {
			t.Errorf("Focusable(#%s) = %v, want %v", id, got, want)
		}
	}
	if !Hidden(d, d.ElementByID("deep")) {
		t.Error("aria-hidden ancestor not detected")
	}
	if Hidden(d, d.ElementByID("link")) {
		t.Error("link reported aria-hidden")
	}
}
