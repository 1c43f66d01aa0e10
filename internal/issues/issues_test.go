package issues

import (
	"context"
	"reflect"
	"strings"
	"testing"

	"github.com/mj1618/a11y-audit/internal/dom"
	"github.com/mj1618/a11y-audit/internal/model"
	"github.com/mj1618/a11y-audit/internal/rules"
)

func scan(t *testing.T, src string, previous []model.Issue, ignored []string) []model.Issue {
	t.Helper()
	doc := dom.MustParseString(src)
	reg := rules.Default()
	env := rules.NewEnv(context.Background(), doc, rules.DefaultOptions(), nil, nil)
	raw, _, err := (&rules.Engine{Registry: reg}).Run(context.Background(), env)
	if err != nil {
		t.Fatal(err)
	}
	return NewAggregator(reg, doc).Aggregate(raw, previous, ignored)
}

func bySlug(issues []model.Issue, slug string) []model.Issue {
	var out []model.Issue
	for _, is := range issues {
		if is.RuleSlug == slug {
			out = append(out, is)
		}
	}
	return out
}

const page = `<html lang="en"><head><title>T</title></head><body>
<a href="/home"><img src="home.png" alt="Home" title="Home">Home</a>
<img src="a.png">
<img src="a.png">
</body></html>`

func TestAggregate_CombinesChecksOfOneRule(t *testing.T) {
	issues := scan(t, page, nil, nil)
	redundant := bySlug(issues, "img_alt_redundant")
	if len(redundant) != 1 {
		t.Fatalf("got %d img_alt_redundant issues, want 1 for one node failing two checks", len(redundant))
	}
	is := redundant[0]
	if is.RuleType != model.RuleWarning || is.Severity != 3 || is.WCAGReference != "1.1.1" {
		t.Errorf("rule metadata not copied: %+v", is)
	}
	if !strings.HasPrefix(is.Snippet, `<img src="home.png"`) {
		t.Errorf("Snippet = %q", is.Snippet)
	}
}

func TestAggregate_IdenticalMarkupGetsDistinctIDs(t *testing.T) {
	missing := bySlug(scan(t, page, nil, nil), "img_alt_missing")
	if len(missing) != 2 {
		t.Fatalf("got %d img_alt_missing issues, want 2", len(missing))
	}
	if missing[0].ID == missing[1].ID {
		t.Error("identical images share an issue id")
	}
}

func TestAggregate_IDsStableAcrossRescans(t *testing.T) {
	first := scan(t, page, nil, nil)
	second := scan(t, page, nil, nil)
	if !reflect.DeepEqual(first, second) {
		t.Fatal("rescanning the same document changed the issues")
	}

	shifted := strings.Replace(page, "<body>", "<body><p>New intro paragraph</p><div><span>more</span></div>", 1)
	moved := scan(t, shifted, nil, nil)
	want := bySlug(first, "img_alt_missing")
	got := bySlug(moved, "img_alt_missing")
	if len(got) != len(want) {
		t.Fatalf("got %d issues after adding content, want %d", len(got), len(want))
	}
	for i := range want {
		if got[i].ID != want[i].ID {
			t.Errorf("issue %d id changed from %s to %s when unrelated content was added", i, want[i].ID, got[i].ID)
		}
	}
}

func TestAggregate_IgnoreCarriesForward(t *testing.T) {
	first := scan(t, page, nil, nil)
	missing := bySlug(first, "img_alt_missing")
	redundant := bySlug(first, "img_alt_redundant")

	previous := append([]model.Issue(nil), first...)
	for i := range previous {
		if previous[i].ID == missing[0].ID {
			previous[i].Ignored = true
		}
	}

	next := scan(t, page, previous, []string{redundant[0].ID})
	for _, is := range next {
		want := is.ID == missing[0].ID || is.ID == redundant[0].ID
		if is.Ignored != want {
			t.Errorf("issue %s (%s) ignored = %v, want %v", is.ID, is.RuleSlug, is.Ignored, want)
		}
	}
	counts := model.CountByType(next)
	if counts[model.RuleError]+counts[model.RuleWarning] != len(next)-2 {
		t.Errorf("ignored issues counted: %v of %d", counts, len(next))
	}
}

func TestAggregate_DocumentIssuesSurviveContentEdits(t *testing.T) {
	const before = `<html><head><title>T</title></head><body><p>First paragraph.</p></body></html>`
	after := strings.Replace(before, "First paragraph.", "First paragraph, edited.", 1)

	lang := bySlug(scan(t, before, nil, nil), "missing_lang_attr")
	if len(lang) != 1 {
		t.Fatalf("got %d missing_lang_attr issues, want 1", len(lang))
	}
	previous := []model.Issue{lang[0]}
	previous[0].Ignored = true

	next := bySlug(scan(t, after, previous, nil), "missing_lang_attr")
	if len(next) != 1 {
		t.Fatalf("got %d missing_lang_attr issues after the edit, want 1", len(next))
	}
	if next[0].ID != lang[0].ID {
		t.Errorf("id changed from %s to %s after a content edit", lang[0].ID, next[0].ID)
	}
	if !next[0].Ignored {
		t.Error("ignored flag lost after a content edit")
	}
}

func TestFingerprints_ContainerKeys(t *testing.T) {
	keys := func(src string) map[string]string {
		doc := dom.MustParseString(src)
		fp := NewFingerprints(doc)
		out := make(map[string]string)
		for _, n := range dom.Descendants(doc, doc.Root()) {
			switch tag := dom.Tag(n); tag {
			case "html", "head", "body":
				out[tag] = fp.Key(n)
			}
		}
		return out
	}
	a := keys(`<html><body><p>one</p></body></html>`)
	b := keys(`<html><body><p>two</p><p>three</p></body></html>`)
	c := keys(`<html lang="en"><body class="home"><p>one</p></body></html>`)
	for _, tag := range []string{"html", "head", "body"} {
		if a[tag] == "" || a[tag] != b[tag] {
			t.Errorf("%s key = %q then %q, want it unchanged by content", tag, a[tag], b[tag])
		}
	}
	if a["html"] == c["html"] || a["body"] == c["body"] {
		t.Error("container keys should change with their own attributes")
	}
	if a["head"] != c["head"] {
		t.Error("head key changed with another element's attributes")
	}
}

func TestAggregate_SortedAndUnknownRulesDropped(t *testing.T) {
	doc := dom.MustParseString(`<img src="a.png"><p></p>`)
	reg := rules.Default()
	nodes := dom.Descendants(doc, doc.Root())
	imgNode, pNode := nodes[len(nodes)-2], nodes[len(nodes)-1]
	raw := []rules.RawFailure{
		{Rule: "empty_paragraph_tag", Check: "paragraph-not-empty", Node: pNode},
		{Rule: "no_such_rule", Check: "x", Node: pNode},
		{Rule: "img_alt_missing", Check: "image-alt-present", Node: imgNode},
		{Rule: "img_alt_missing", Check: "image-alt-present", Node: imgNode},
	}
	issues := NewAggregator(reg, doc).Aggregate(raw, nil, nil)
	if len(issues) != 2 {
		t.Fatalf("got %d issues, want 2", len(issues))
	}
	if issues[0].RuleSlug != "img_alt_missing" || issues[1].RuleSlug != "empty_paragraph_tag" {
		t.Errorf("issues not sorted by severity: %s, %s", issues[0].RuleSlug, issues[1].RuleSlug)
	}
}

func TestFingerprints_Key(t *testing.T) {
	doc := dom.MustParseString(`<ul><li>a</li><li>b</li><li>a</li></ul>`)
	fp := NewFingerprints(doc)
	var items []string
	for _, n := range dom.Descendants(doc, doc.Root()) {
		if dom.Tag(n) == "li" {
			items = append(items, fp.Key(n))
		}
	}
	if len(items) != 3 {
		t.Fatalf("found %d li", len(items))
	}
	if !strings.HasSuffix(items[0], ":0") || !strings.HasSuffix(items[1], ":0") || !strings.HasSuffix(items[2], ":1") {
		t.Errorf("occurrence indexes wrong: %v", items)
	}
	if items[0][:16] != items[2][:16] || items[0] == items[2] {
		t.Errorf("identical markup should share a hash but not a key: %v", items)
	}
	if IssueID(items[0], "r1") == IssueID(items[0], "r2") {
		t.Error("issue id does not depend on the rule")
	}
	if len(IssueID(items[0], "r1")) != 16 {
		t.Errorf("IssueID length = %d", len(IssueID(items[0], "r1")))
	}
}
