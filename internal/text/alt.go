package text

import (
	"regexp"
	"strings"
	"unicode/utf8"
)

// AltProblem names why an alt value was rejected.
type AltProblem string

const (
	AltOK         AltProblem = ""
	AltWhitespace AltProblem = "whitespace-only"
	AltPrefix     AltProblem = "banned-prefix"
	AltSuffix     AltProblem = "banned-suffix"
	AltExtension  AltProblem = "file-extension"
	AltKeyword    AltProblem = "generic-keyword"
	AltNumeric    AltProblem = "numeric"
)

// DefaultAltMaxLength is the alt length above which a long description
// should be used instead.
const DefaultAltMaxLength = 300

var bannedPrefixes = []string{
	"image of", "graphic of", "picture of", "photo of", "photograph of", "bullet", "spacer",
}

var bannedSuffixes = []string{
	"image", "graphic", "picture", "photo",
}

var bannedKeywords = map[string]bool{
	"alt":              true,
	"alternative text": true,
	"arrow":            true,
	"artwork":          true,
	"blank":            true,
	"bullet":           true,
	"button":           true,
	"chart":            true,
	"diagram":          true,
	"drawing":          true,
	"graph":            true,
	"graphic":          true,
	"icon":             true,
	"image":            true,
	"img":              true,
	"logo":             true,
	"painting":         true,
	"photo":            true,
	"photograph":       true,
	"picture":          true,
	"placeholder":      true,
	"spacer":           true,
	"untitled":         true,
	"*":                true,
	"-":                true,
}

var (
	extensionRe = regexp.MustCompile(`(?i)\.(apng|avif|bmp|cur|gif|ico|jfif|jpe?g|pjpeg|pjp|png|svg|tiff?|webp)\b`)
	numericRe   = regexp.MustCompile(`^[0-9]+(\s+[0-9]+)*$`)
)

// AltQuality classifies a present alt value. An empty alt is a valid
// decorative marker and passes; whitespace-only does not.
func AltQuality(alt string) AltProblem {
	if alt == "" {
		return AltOK
	}
	v := strings.ToLower(strings.TrimSpace(alt))
	if v == "" {
		return AltWhitespace
	}
	for _, p := range bannedPrefixes {
		if strings.HasPrefix(v, p) {
			return AltPrefix
		}
	}
	if bannedKeywords[v] {
		return AltKeyword
	}
	for _, s := range bannedSuffixes {
		if strings.HasSuffix(v, " "+s) {
			return AltSuffix
		}
	}
	if extensionRe.MatchString(v) {
		return AltExtension
	}
	if numericRe.MatchString(v) {
		return AltNumeric
	}
	return AltOK
}

// TooLong reports whether alt has more than max characters. A max of zero
// or less uses DefaultAltMaxLength.
func TooLong(alt string, max int) bool {
	if max <= 0 {
		max = DefaultAltMaxLength
	}
	return utf8.RuneCountInString(strings.TrimSpace(alt)) > max
}

// Same reports whether two texts are equal ignoring case and surrounding
// whitespace. Empty texts are never the same.
func Same(a, b string) bool {
	a = strings.Join(strings.Fields(a), " ")
	b = strings.Join(strings.Fields(b), " ")
	return a != "" && strings.EqualFold(a, b)
}
