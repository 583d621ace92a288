package textutil

import (
	"fmt"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/unicode/norm"
	"golang.org/x/text/width"
)

// HanMode selects how Han characters are rewritten when building path
// components. Comparison folding always maps to simplified regardless of
// mode so equality is stable across user reconfiguration.
type HanMode string

const (
	HanOff         HanMode = "off"
	HanSimplified  HanMode = "simplified"
	HanTraditional HanMode = "traditional"
)

// ParseHanMode validates a mode string from configuration.
func ParseHanMode(value string) (HanMode, error) {
	switch HanMode(strings.ToLower(strings.TrimSpace(value))) {
	case HanOff, "":
		return HanOff, nil
	case HanSimplified:
		return HanSimplified, nil
	case HanTraditional:
		return HanTraditional, nil
	}
	return "", fmt.Errorf("unknown han mode %q", value)
}

// Normalizer folds strings for comparison and renders filesystem-safe path
// components. The zero value is not usable; construct with NewNormalizer.
type Normalizer struct {
	mode   HanMode
	folder cases.Caser
}

// NewNormalizer builds a normalizer for the given Han conversion mode.
func NewNormalizer(mode HanMode) *Normalizer {
	return &Normalizer{mode: mode, folder: cases.Fold()}
}

// Mode reports the configured Han conversion mode.
func (n *Normalizer) Mode() HanMode {
	return n.mode
}

// Fold produces the canonical comparison form of a string. Two titles are
// the same work when their folded forms are equal.
func (n *Normalizer) Fold(value string) string {
	value = norm.NFKC.String(value)
	value = width.Fold.String(value)
	value = n.folder.String(value)
	return foldHan(strings.TrimSpace(value))
}

// FoldContains reports whether the folded form of haystack contains the
// folded form of needle. Used for title search.
func (n *Normalizer) FoldContains(haystack, needle string) bool {
	return strings.Contains(n.Fold(haystack), n.Fold(needle))
}

// Component renders a single filesystem path component. Sanitization and
// Han conversion apply to the component alone; the caller joins components,
// so a separator produced here can never split the path.
func (n *Normalizer) Component(value string) string {
	value = norm.NFC.String(strings.TrimSpace(value))
	switch n.mode {
	case HanSimplified:
		value = toSimplified(value)
	case HanTraditional:
		value = toTraditional(value)
	}
	cleaned := SanitizeFileName(value)
	if cleaned == "" {
		return "untitled"
	}
	return cleaned
}
