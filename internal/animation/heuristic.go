package animation

import (
	"net/url"
	"path"
	"strings"
)

// animatedHosts serve animated GIFs almost exclusively.
var animatedHosts = []string{
	"giphy.com",
	"tenor.com",
	"gfycat.com",
	"gifer.com",
	"imgflip.com",
}

// animatedKeywords in a file name suggest motion.
var animatedKeywords = []string{
	"animated", "animation", "anim-", "anim_", "-anim", "_anim",
	"spinner", "loader", "loading", "gifv",
}

// Heuristic guesses from the reference alone. It never fetches.
func Heuristic(ref string) bool {
	u, err := url.Parse(ref)
	if err != nil {
		return keywordMatch(strings.ToLower(ref))
	}
	host := strings.ToLower(u.Hostname())
	for _, h := range animatedHosts {
		if host == h || strings.HasSuffix(host, "."+h) {
			return true
		}
	}
	return keywordMatch(strings.ToLower(path.Base(u.Path)))
}

func keywordMatch(name string) bool {
	for _, k := range animatedKeywords {
		if strings.Contains(name, k) {
			return true
		}
	}
	return false
}

// Candidate reports whether ref names a format that can animate.
func Candidate(ref string) bool {
	lower := strings.ToLower(ref)
	if strings.HasPrefix(lower, "data:image/gif") || strings.HasPrefix(lower, "data:image/webp") {
		return true
	}
	u, err := url.Parse(ref)
	if err != nil {
		return false
	}
	switch strings.ToLower(path.Ext(u.Path)) {
	case ".gif", ".webp":
		return true
	}
	return false
}
