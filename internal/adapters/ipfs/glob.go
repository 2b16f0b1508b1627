package ipfs

import (
	"path"
	"strings"
)

// matcher selects tree entries by a slash separated glob where "**" spans any number of segments
// wildcards never match names starting with "." unless the pattern segment does too
type matcher struct {
	segs []string
}

func compilePattern(pattern string) (matcher, error) {
	pattern = strings.Trim(pattern, "/")
	if pattern == "" {
		pattern = "**"
	}
	segs := strings.Split(pattern, "/")
	for _, s := range segs {
		if s == "**" {
			continue
		}
		if _, err := path.Match(s, ""); err != nil {
			return matcher{}, err
		}
	}
	return matcher{segs: segs}, nil
}

// match reports whether the file at rel is selected
func (m matcher) match(rel string) bool {
	return matchSegs(m.segs, strings.Split(rel, "/"), false)
}

// enter reports whether a directory at rel may contain selected files
func (m matcher) enter(rel string) bool {
	return matchSegs(m.segs, strings.Split(rel, "/"), true)
}

func matchSegs(pat, name []string, prefix bool) bool {
	for len(pat) > 0 {
		if len(name) == 0 {
			return prefix || onlyStars(pat)
		}
		if pat[0] == "**" {
			if matchSegs(pat[1:], name, prefix) {
				return true
			}
			if hidden(name[0]) {
				return false
			}
			name = name[1:]
			continue
		}
		if hidden(name[0]) && !strings.HasPrefix(pat[0], ".") {
			return false
		}
		if ok, _ := path.Match(pat[0], name[0]); !ok {
			return false
		}
		pat, name = pat[1:], name[1:]
	}
	return len(name) == 0
}

func onlyStars(pat []string) bool {
	for _, s := range pat {
		if s != "**" {
			return false
		}
	}
	return true
}

func hidden(name string) bool { return strings.HasPrefix(name, ".") }
