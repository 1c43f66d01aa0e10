package rules

import "github.com/mj1618/a11y-audit/internal/model"

type entry struct {
	rule   Rule
	checks []func() *Check
}

func rule(slug string, typ model.RuleType, sev model.Severity, wcag, desc string) Rule {
	return Rule{Slug: slug, Type: typ, Severity: sev, WCAG: wcag, Description: desc}
}

const (
	errRule  = model.RuleError
	warnRule = model.RuleWarning
)

var catalog = []entry{
	{rule("img_alt_missing", errRule, 1, "1.1.1", "Image has no alt attribute"), []func() *Check{imageAltPresent}},
	{rule("img_alt_invalid", errRule, 2, "1.1.1", "Image alt text is a filename, placeholder or boilerplate"), []func() *Check{imageAltQuality}},
	{rule("img_alt_long", warnRule, 3, "1.1.1", "Image alt text is longer than the configured maximum"), []func() *Check{imageAltLength}},
	{rule("img_alt_redundant", warnRule, 3, "1.1.1", "Image alt text repeats nearby text or another image's alt"),
		[]func() *Check{altMatchesTitle, altMatchesLinkText, altMatchesCaption, altReused}},
	{rule("img_animated", warnRule, 2, "2.2.2", "Animated GIF or WebP image"), []func() *Check{animatedImage}},
	{rule("color_contrast_failure", errRule, 1, "1.4.3", "Text contrast is below the WCAG AA minimum"), []func() *Check{colorContrast}},
	{rule("empty_button", errRule, 1, "4.1.2", "Button has no accessible name"), []func() *Check{buttonHasName}},
	{rule("empty_link", errRule, 1, "2.4.4", "Link has no accessible name"), []func() *Check{linkHasName}},
	{rule("empty_heading_tag", errRule, 2, "1.3.1", "Heading has no content"), []func() *Check{headingHasContent}},
	{rule("empty_table_header", errRule, 2, "1.3.1", "Table header cell is empty"), []func() *Check{tableHeaderHasContent}},
	{rule("missing_table_header", errRule, 2, "1.3.1", "Data table has no header cells"), []func() *Check{tableHasHeader}},
	{rule("missing_form_label", errRule, 1, "1.3.1", "Form control has no label"), []func() *Check{inputHasLabel}},
	{rule("duplicate_form_label", errRule, 3, "1.3.1", "Form control has more than one label"), []func() *Check{labelNotDuplicated}},
	{rule("incorrect_heading_order", errRule, 2, "1.3.1", "Heading skips a level"), []func() *Check{headingOrder}},
	{rule("link_ambiguous", errRule, 2, "2.4.4", "Link text does not describe its destination"), []func() *Check{linkPurpose}},
	{rule("aria_broken_reference", errRule, 2, "1.3.1", "ARIA attribute references an id that does not exist"),
		[]func() *Check{
			func() *Check { return ariaReference("aria-labelledby-valid", "labelledby") },
			func() *Check { return ariaReference("aria-describedby-valid", "describedby") },
			func() *Check { return ariaReference("aria-owns-valid", "owns") },
		}},
	{rule("aria_hidden_focusable", errRule, 2, "4.1.2", "aria-hidden content contains focusable elements"), []func() *Check{ariaHiddenFocusable}},
	{rule("broken_skip_anchor_link", errRule, 2, "2.4.1", "In-page link points at a missing target"), []func() *Check{skipLinkTarget}},
	{rule("iframe_missing_title", errRule, 2, "4.1.2", "Frame has no title"), []func() *Check{iframeHasTitle}},
	{rule("missing_lang_attr", errRule, 2, "3.1.1", "Document has no lang attribute"), []func() *Check{htmlHasLang}},
	{rule("missing_title", errRule, 2, "2.4.2", "Document has no title"), []func() *Check{documentTitle}},
	{rule("text_blinking_scrolling", errRule, 1, "2.2.2", "Blinking or scrolling text"), []func() *Check{blinkMarquee}},
	{rule("duplicate_id", warnRule, 3, "4.1.1", "Id is used by more than one element"), []func() *Check{idUnique}},
	{rule("tab_order_modified", warnRule, 3, "2.4.3", "Positive tabindex changes the tab order"), []func() *Check{tabindexPositive}},
	{rule("text_small", warnRule, 3, "1.4.4", "Text is smaller than the configured minimum"), []func() *Check{textSize}},
	{rule("text_justified", warnRule, 4, "1.4.8", "Text is justified"), []func() *Check{textJustified}},
	{rule("underlined_text", warnRule, 4, "1.3.1", "Non-link text is underlined"), []func() *Check{underlinedText}},
	{rule("possible_heading", warnRule, 4, "1.3.1", "Paragraph is styled like a heading"), []func() *Check{paragraphStyledAsHeading}},
	{rule("empty_paragraph_tag", warnRule, 4, "1.3.1", "Paragraph is empty"), []func() *Check{paragraphNotEmpty}},
	{rule("missing_headings", warnRule, 3, "2.4.6", "Long content has no headings"), []func() *Check{hasSubheadings}},
	{rule("link_blank", warnRule, 3, "3.2.5", "Link opens a new window without warning"), []func() *Check{linkTargetBlank}},
	{rule("link_non_html_file", warnRule, 4, "2.4.4", "Link points at a PDF or office document"), []func() *Check{linkPDF, linkOfficeFile}},
	{rule("video_present", warnRule, 3, "1.2.2", "Audio or video without captions"), []func() *Check{mediaCaptions}},
}

// Default returns a fresh registry holding the full catalog. Each call
// builds new Check values, so registries never share state.
func Default() *Registry {
	r := NewRegistry()
	for _, en := range catalog {
		checks := make([]*Check, len(en.checks))
		for i, mk := range en.checks {
			checks[i] = mk()
		}
		r.MustRegister(en.rule, checks...)
	}
	return r
}
