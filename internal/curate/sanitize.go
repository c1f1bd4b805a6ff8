package curate

import (
	"strings"

	"github.com/abhisek/kotoba/internal/rules"
)

// fillerTokens top up a list that sanitizing left short. Single kana are
// poor distractors but can never trip a rule.
var fillerTokens = []string{"あ", "い", "う", "え", "お"}

// lastResort replaces a correction that merely echoed the current list.
var lastResort = []string{"えっと", "あのう", "そうですね"}

// sanitize turns untrusted candidates into a list that satisfies every
// rule for an item with the given reading and display form. Entries are
// trimmed; empty, reading-equal, display-equal, Han-containing,
// placeholder and duplicate entries are dropped; the rest is cut to
// rules.MinDistractors and topped up from fillerTokens.
func sanitize(candidates []string, reading, display string) []string {
	banned := map[string]struct{}{rules.Normalize(reading): {}}
	if d := rules.Normalize(display); d != "" {
		banned[d] = struct{}{}
	}

	out := make([]string, 0, rules.MinDistractors)
	seen := make(map[string]struct{}, rules.MinDistractors)
	accept := func(c string) {
		c = strings.TrimSpace(c)
		n := rules.Normalize(c)
		if c == "" || rules.ContainsHan(c) || rules.IsPlaceholder(c) {
			return
		}
		if _, ok := banned[n]; ok {
			return
		}
		if _, ok := seen[n]; ok {
			return
		}
		seen[n] = struct{}{}
		out = append(out, c)
	}

	for _, c := range candidates {
		if len(out) == rules.MinDistractors {
			break
		}
		accept(c)
	}
	for _, f := range fillerTokens {
		if len(out) == rules.MinDistractors {
			break
		}
		accept(f)
	}
	return out
}

// echoed reduces a reply to what it says before hardening: trimmed, the
// reading removed, cut to rules.MinDistractors. A reply whose echo equals
// the current list changed nothing.
func echoed(candidates []string, reading string) []string {
	reading = strings.TrimSpace(reading)
	out := make([]string, 0, rules.MinDistractors)
	for _, c := range candidates {
		if len(out) == rules.MinDistractors {
			break
		}
		c = strings.TrimSpace(c)
		if c == reading {
			continue
		}
		out = append(out, c)
	}
	return out
}
