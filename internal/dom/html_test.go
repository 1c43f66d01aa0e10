package dom

import (
	"strings"
	"testing"

	"github.com/andybalholm/cascadia"
	"github.com/mj1618/a11y-audit/internal/style"
	"golang.org/x/net/html"
)

func query(t *testing.T, d *HTMLDocument, sel string) *html.Node {
	t.Helper()
	n := cascadia.Query(d.Root(), cascadia.MustCompile(sel))
	if n == nil {
		t.Fatalf("no element matches %q", sel)
	}
	return n
}

func TestParse_Visibility(t *testing.T) {
	d := MustParseString(`<html><head><style>
.gone { display: none }
.ghost { visibility: hidden }
@media print { .shown { display: none } }
</style></head><body>
<p class="shown" id="shown">visible</p>
<div class="gone"><span id="inside">hidden by parent</span></div>
<div class="ghost"><span id="ghost-child">invisible</span></div>
<p hidden id="attr">hidden attribute</p>
<input type="hidden" id="field">
<p style="display:none" id="inline">inline</p>
</body></html>`)

	tests := []struct {
		id      string
		visible bool
	}{
		{"shown", true},
		{"inside", false},
		{"ghost-child", false},
		{"attr", false},
		{"field", false},
		{"inline", false},
	}
	for _, tt := range tests {
		n := d.ElementByID(tt.id)
		if n == nil {
			t.Fatalf("element #%s not found", tt.id)
		}
		if got := d.IsVisible(n); got != tt.visible {
			t.Errorf("IsVisible(#%s) = %v, want %v", tt.id, got, tt.visible)
		}
	}
	if d.IsVisible(query(t, d, "head")) {
		t.Error("head should never be visible")
	}
}

func TestParse_StylesheetCascade(t *testing.T) {
	d, err := ParseString(`<html><head><style>
p { color: red }
#intro { color: green }
.lead { color: blue }
</style></head><body><p id="intro" class="lead" style="font-size: 20px">x</p></body></html>`,
		Options{Stylesheets: []string{"p { background-color: #eee }"}})
	if err != nil {
		t.Fatal(err)
	}
	p := d.ElementByID("intro")
	r := style.NewResolver(d)

	if got, _ := r.Declared(p, "color"); got != "green" {
		t.Errorf("color = %q, want green from the id selector", got)
	}
	if got, _ := r.Declared(p, "background-color"); got != "#eee" {
		t.Errorf("background-color = %q, want #eee from the external sheet", got)
	}
	if got, _ := r.Declared(p, "font-size"); got != "20px" {
		t.Errorf("font-size = %q, want 20px from the style attribute", got)
	}
}

func TestParse_BadStylesheetIsSkipped(t *testing.T) {
	d := MustParseString(`<style>p:unknown-pseudo(( { color: red }</style><p id="a" style="color: blue">x</p>`)
	r := style.NewResolver(d)
	if got, _ := r.Declared(d.ElementByID("a"), "color"); got != "blue" {
		t.Errorf("color = %q, want blue", got)
	}
}

func TestDocument_Accessors(t *testing.T) {
	d := MustParseString(`<body><nav role="Navigation main"><a ID="x" href="/a">Go <b>home</b></a><a id="x">dup</a></nav>
<script>var s = "not text";</script></body>`)
	a := d.ElementByID("x")
	if a == nil || AttrValue(d, a, "href") != "/a" {
		t.Fatalf("ElementByID returned %v", a)
	}
	if v, ok := d.Attr(a, "HREF"); !ok || v != "/a" {
		t.Errorf("Attr is not case-insensitive: %q %v", v, ok)
	}
	if _, ok := d.Attr(a, "title"); ok {
		t.Error("absent attribute reported present")
	}
	if got := d.Text(a); got != "Go home" {
		t.Errorf("Text = %q", got)
	}
	if got := OwnText(d, a); got != "Go " {
		t.Errorf("OwnText = %q", got)
	}
	nav := query(t, d, "nav")
	if got := d.TagOrRole(nav); got != "navigation" {
		t.Errorf("TagOrRole(nav) = %q", got)
	}
	if got := d.TagOrRole(a); got != "a" {
		t.Errorf("TagOrRole(a) = %q", got)
	}
	if strings.Contains(d.Text(query(t, d, "body")), "not text") {
		t.Error("script content leaked into Text")
	}
	if Ancestor(d, a, func(n *html.Node) bool { return Tag(n) == "nav" }) != nav {
		t.Error("Ancestor did not find nav")
	}
	if len(Elements(d, nav)) != 2 {
		t.Errorf("Elements(nav) = %d, want 2", len(Elements(d, nav)))
	}
}

func TestSnippet(t *testing.T) {
	d := MustParseString(`<p class="a&b">Hello   <em>wide</em>
world</p>`)
	p := query(t, d, "p")
	if got, want := Snippet(d, p, 0), `<p class="a&amp;b">Hello wide world`; got != want {
		t.Errorf("Snippet = %q, want %q", got, want)
	}
	short := Snippet(d, p, 10)
	if !strings.HasSuffix(short, "…") || len(short) > 10+len("…") {
		t.Errorf("truncated Snippet = %q", short)
	}
}
