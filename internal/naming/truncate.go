// Package naming shortens asset paths so they fit the name length limit of a
// host registry while staying unique and deterministic.
package naming

import (
	"crypto/md5"
	"encoding/base64"
	"strings"
)

// DefaultMaxLength is the longest name, in characters, a host registry accepts.
const DefaultMaxLength = 59

// hashLen is the length of the encoded digest that replaces a discarded prefix.
const hashLen = 8

// MinMaxLength is the smallest limit Truncate honours for a name ending in a
// three letter extension: "~", the digest and the extension.
const MinMaxLength = 1 + hashLen + len(".png")

// Truncate normalises name and, when it is longer than maxLen characters,
// replaces a leading run of directories with "~" and a short digest of what
// was removed. The basename is always kept when it fits. Names that differ
// only in their discarded prefix therefore truncate to different results.
func Truncate(name string, maxLen int) string {
	name = strings.Trim(strings.ReplaceAll(name, `\`, "/"), "/")
	if runeLen(name) <= maxLen {
		return name
	}

	dir, base := splitPath(name)
	maxDirLen := maxLen - (runeLen(base) + hashLen + 2)
	if maxDirLen <= 0 {
		stem, ext := splitExt(name)
		return "~" + hashed(stem) + ext
	}

	dirRunes := []rune(dir)
	cut := len(dirRunes) - maxDirLen
	if cut < 0 {
		cut = 0
	}
	discard, keep := string(dirRunes[:cut]), string(dirRunes[cut:])

	// Only whole directories survive; a partial leading segment is discarded.
	if head, rest, ok := strings.Cut(keep, "/"); ok {
		discard += head
		keep = rest + "/"
	} else {
		discard += keep
		keep = ""
	}

	return "~" + hashed(discard) + "/" + keep + base
}

func hashed(s string) string {
	sum := md5.Sum([]byte(s))
	return base64.URLEncoding.EncodeToString(sum[:6])[:hashLen]
}

func runeLen(s string) int {
	return len([]rune(s))
}

// splitPath splits name at its final slash. The directory part has trailing
// slashes removed.
func splitPath(name string) (dir, base string) {
	i := strings.LastIndex(name, "/")
	if i < 0 {
		return "", name
	}
	dir = name[:i+1]
	if trimmed := strings.TrimRight(dir, "/"); trimmed != "" {
		dir = trimmed
	}
	return dir, name[i+1:]
}

// splitExt returns the extension of the last path element, including the dot.
// Leading dots of the element never start an extension.
func splitExt(name string) (stem, ext string) {
	_, base := splitPath(name)
	trimmed := strings.TrimLeft(base, ".")
	dot := strings.LastIndex(trimmed, ".")
	if dot < 0 {
		return name, ""
	}
	ext = trimmed[dot:]
	return name[:len(name)-len(ext)], ext
}
