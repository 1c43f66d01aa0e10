// Package animation decides whether an image reference points at an
// animated GIF or WebP.
package animation

import "bytes"

// DefaultWindow bounds how many leading bytes of an image are inspected.
const DefaultWindow = 64 * 1024

var (
	gif87a = []byte("GIF87a")
	gif89a = []byte("GIF89a")
	riff   = []byte("RIFF")
	webp   = []byte("WEBP")
	anim   = []byte("ANIM")
)

// IsGIF reports whether b starts with a GIF signature.
func IsGIF(b []byte) bool {
	return bytes.HasPrefix(b, gif87a) || bytes.HasPrefix(b, gif89a)
}

// IsWebP reports whether b is a RIFF container holding WebP data.
func IsWebP(b []byte) bool {
	return len(b) >= 12 && bytes.Equal(b[0:4], riff) && bytes.Equal(b[8:12], webp)
}

// AnimatedGIF reports whether the GIF in b carries more than one Graphic
// Control Extension marker (0x21 0xF9) within the first window bytes.
func AnimatedGIF(b []byte, window int) bool {
	if !IsGIF(b) {
		return false
	}
	b = clip(b, window)
	count := 0
	for i := 0; i+1 < len(b); i++ {
		if b[i] == 0x21 && b[i+1] == 0xF9 {
			count++
			if count > 1 {
				return true
			}
			i++
		}
	}
	return false
}

// AnimatedWebP reports whether the WebP in b carries an ANIM chunk within
// the first window bytes.
func AnimatedWebP(b []byte, window int) bool {
	if !IsWebP(b) {
		return false
	}
	return bytes.Contains(clip(b, window)[12:], anim)
}

// Animated dispatches on the container signature.
func Animated(b []byte, window int) bool {
	switch {
	case IsGIF(b):
		return AnimatedGIF(b, window)
	case IsWebP(b):
		return AnimatedWebP(b, window)
	}
	return false
}

func clip(b []byte, window int) []byte {
	if window <= 0 {
		window = DefaultWindow
	}
	if len(b) > window {
		return b[:window]
	}
	return b
}
