package mailcheck

import (
	_ "embed"
	"strings"
)

// disposableDomains is the bundled blocklist of throwaway-inbox providers.
// Loaded once at startup, read-only afterwards; no reload path.
//
//go:embed disposable_domains.txt
var disposableDomains string

// disposableSet builds the lookup set from the bundled list plus any
// configured extras. Blank lines and #-comments are skipped.
func disposableSet(extra []string) map[string]struct{} {
	set := make(map[string]struct{}, 64)
	add := func(d string) {
		d = strings.ToLower(strings.TrimSpace(d))
		if d == "" || strings.HasPrefix(d, "#") {
			return
		}
		set[d] = struct{}{}
	}
	for _, line := range strings.Split(disposableDomains, "\n") {
		add(line)
	}
	for _, d := range extra {
		add(d)
	}
	return set
}
