package check

import (
	"path"
	"strings"
)

// MatchGlob matches a glob pattern against a slash-separated path.
// On top of path.Match syntax, a ** segment spans zero or more whole
// path segments. Exported so modules can share the engine's exclude
// semantics.
func MatchGlob(pattern, p string) bool { return matchGlob(pattern, p) }

func matchGlob(pattern, p string) bool {
	if !strings.Contains(pattern, "**") {
		ok, _ := path.Match(pattern, p)
		return ok
	}
	return matchSegments(strings.Split(pattern, "/"), strings.Split(p, "/"))
}

// matchSegments matches pattern segments against path segments. A **
// pattern segment may swallow any number of path segments, including
// none; every other segment must match its counterpart one to one.
func matchSegments(pat, segs []string) bool {
	for len(pat) > 0 {
		if pat[0] == "**" {
			if len(pat) == 1 {
				return true
			}
			for skip := 0; skip <= len(segs); skip++ {
				if matchSegments(pat[1:], segs[skip:]) {
					return true
				}
			}
			return false
		}
		if len(segs) == 0 {
			return false
		}
		if ok, _ := path.Match(pat[0], segs[0]); !ok {
			return false
		}
		pat, segs = pat[1:], segs[1:]
	}
	return len(segs) == 0
}
