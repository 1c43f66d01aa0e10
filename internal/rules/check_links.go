package rules

import (
	"net/url"
	"path"
	"strings"

	"github.com/mj1618/a11y-audit/internal/aria"
	"github.com/mj1618/a11y-audit/internal/dom"
	"golang.org/x/net/html"
)

// newWindowHints in a link's name warn users that it opens a new context.
var newWindowHints = []string{"new window", "new tab", "opens in", "external"}

func linkTargetBlank() *Check {
	return &Check{
		ID:         "link-target-blank",
		Selector:   `a[target="_blank"]`,
		Exemptions: []Exemption{notRendered, ariaHidden},
		Evaluate: func(env *Env, n *html.Node) Outcome {
			parts := []string{
				aria.Name(env.Doc, n),
				dom.AttrValue(env.Doc, n, "title"),
				describedByText(env, n),
			}
			if hasScreenReaderSibling(env, n) {
				return Pass
			}
			for _, d := range dom.Descendants(env.Doc, n) {
				if hasScreenReaderClass(env, d) {
					parts = append(parts, env.Doc.Text(d))
				}
			}
			all := strings.ToLower(strings.Join(parts, " "))
			for _, hint := range newWindowHints {
				if strings.Contains(all, hint) {
					return Pass
				}
			}
			return Fail
		},
	}
}

func describedByText(env *Env, n *html.Node) string {
	attr := "aria-" + aria.DescribedBy
	if !dom.HasAttr(env.Doc, n, attr) || !aria.ValidReference(env.Doc, n, aria.DescribedBy) {
		return ""
	}
	var parts []string
	for _, id := range aria.IDs(dom.AttrValue(env.Doc, n, attr)) {
		parts = append(parts, env.Doc.Text(env.Doc.ElementByID(id)))
	}
	return strings.Join(parts, " ")
}

var officeExtensions = map[string]bool{
	".doc": true, ".docx": true, ".xls": true, ".xlsx": true, ".ppt": true,
	".pptx": true, ".pps": true, ".ppsx": true, ".odt": true, ".ods": true,
	".odp": true, ".rtf": true, ".pages": true, ".numbers": true, ".key": true,
}

func linkExtension(env *Env, n *html.Node) string {
	href := strings.TrimSpace(dom.AttrValue(env.Doc, n, "href"))
	u, err := url.Parse(href)
	if err != nil {
		return ""
	}
	return strings.ToLower(path.Ext(u.Path))
}

func linkPDF() *Check {
	return &Check{
		ID:       "link-pdf",
		Selector: "a[href]",
		Evaluate: func(env *Env, n *html.Node) Outcome {
			return failIf(linkExtension(env, n) == ".pdf")
		},
	}
}

func linkOfficeFile() *Check {
	return &Check{
		ID:       "link-office-file",
		Selector: "a[href]",
		Evaluate: func(env *Env, n *html.Node) Outcome {
			return failIf(officeExtensions[linkExtension(env, n)])
		},
	}
}

func mediaCaptions() *Check {
	return &Check{
		ID:       "media-captions",
		Selector: "video, audio",
		Exemptions: []Exemption{
			notRendered,
			{Name: "captions-track", Applies: func(env *Env, n *html.Node) bool {
				for _, c := range dom.Elements(env.Doc, n) {
					if !dom.IsElement(c, "track") {
						continue
					}
					switch strings.ToLower(dom.AttrValue(env.Doc, c, "kind")) {
					case "captions", "subtitles":
						return true
					}
				}
				return false
			}},
		},
		Evaluate: func(env *Env, n *html.Node) Outcome { return Fail },
	}
}
