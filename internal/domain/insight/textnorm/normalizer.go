// Package textnorm turns raw comment bodies into short, display-ready text.
package textnorm

import (
	"html"
	"regexp"
	"sort"
	"strings"
	"unicode/utf8"

	"github.com/microcosm-cc/bluemonday"
)

// Ellipsis marks truncated text. It counts toward the length budget.
const Ellipsis = "…"

// maxPasses bounds the fixpoint loops; real input settles in one or two passes.
const maxPasses = 8

var (
	blockBreaks     = regexp.MustCompile(`(?i)<br\s*/?>|</(?:p|div|li|tr|h[1-6])\s*>`)
	leadingResidue  = regexp.MustCompile(`^[。、，,.．!！?？・:：;；\s]+`)
	strictPolicy    = bluemonday.StrictPolicy()
	trailingPunct   = `[。、，,.．!！\s]*`
	defaultVerbatim = New(nil)
)

// Normalizer strips markup and a fixed dictionary of courtesy phrases.
// A Normalizer is immutable and safe for concurrent use.
type Normalizer struct {
	boilerplate *regexp.Regexp
}

// New compiles the boilerplate dictionary. Longer phrases are tried first so that
// "何卒よろしくお願いいたします" wins over its "よろしくお願いいたします" suffix.
func New(phrases []string) *Normalizer {
	cleaned := make([]string, 0, len(phrases))
	seen := make(map[string]bool, len(phrases))
	for _, p := range phrases {
		p = strings.TrimSpace(p)
		if p == "" || seen[p] {
			continue
		}
		seen[p] = true
		cleaned = append(cleaned, p)
	}
	if len(cleaned) == 0 {
		return &Normalizer{}
	}

	sort.SliceStable(cleaned, func(i, j int) bool {
		return utf8.RuneCountInString(cleaned[i]) > utf8.RuneCountInString(cleaned[j])
	})
	quoted := make([]string, len(cleaned))
	for i, p := range cleaned {
		quoted[i] = regexp.QuoteMeta(p)
	}

	return &Normalizer{
		boilerplate: regexp.MustCompile(`(?:` + strings.Join(quoted, "|") + `)` + trailingPunct),
	}
}

// Normalize returns the visible text of raw with whitespace collapsed and boilerplate removed.
// Normalize(Normalize(x)) == Normalize(x).
func (n *Normalizer) Normalize(raw string) string {
	text := raw
	for range maxPasses {
		next := n.pass(text)
		if next == text {
			break
		}
		text = next
	}
	return text
}

// Clean normalizes raw and truncates the result to maxRunes.
func (n *Normalizer) Clean(raw string, maxRunes int) string {
	return Truncate(n.Normalize(raw), maxRunes)
}

func (n *Normalizer) pass(text string) string {
	text = StripMarkup(text)
	text = collapse(text)
	if n.boilerplate != nil {
		text = n.boilerplate.ReplaceAllString(text, " ")
		text = collapse(text)
	}
	return leadingResidue.ReplaceAllString(text, "")
}

// Verbatim normalizes markup and whitespace only; courtesy phrases are kept.
func Verbatim(raw string) string {
	return defaultVerbatim.Normalize(raw)
}

// VerbatimClean is Verbatim followed by Truncate.
func VerbatimClean(raw string, maxRunes int) string {
	return Truncate(Verbatim(raw), maxRunes)
}

// StripMarkup removes tags and decodes entities until the text no longer changes.
func StripMarkup(raw string) string {
	text := raw
	for range maxPasses {
		next := blockBreaks.ReplaceAllString(text, " ")
		next = html.UnescapeString(strictPolicy.Sanitize(next))
		if next == text {
			break
		}
		text = next
	}
	return text
}

// Truncate limits s to maxRunes runes, ending with Ellipsis when shortened.
// A non-positive maxRunes disables truncation.
func Truncate(s string, maxRunes int) string {
	if maxRunes <= 0 || utf8.RuneCountInString(s) <= maxRunes {
		return s
	}
	runes := []rune(s)
	if maxRunes == 1 {
		return Ellipsis
	}
	return string(runes[:maxRunes-1]) + Ellipsis
}

// RuneLen is the display length used by every length threshold.
func RuneLen(s string) int {
	return utf8.RuneCountInString(s)
}

func collapse(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
