package discovery

import (
	"path/filepath"
	"strings"

	"gokoans/internal/domain"
)

// Filter filters koan files and koans by name pattern
type Filter struct{}

// NewFilter creates a new Filter
func NewFilter() *Filter {
	return &Filter{}
}

// FilterTopics keeps the topics whose name matches pattern whole, and from
// the other topics only the koans whose name matches. Topics left without
// koans are dropped.
func (f *Filter) FilterTopics(topics []domain.Topic, pattern string) []domain.Topic {
	if pattern == "" {
		return topics
	}

	var filtered []domain.Topic
	for _, topic := range topics {
		if Matches(topic.Name, pattern) || Matches(filepath.Base(topic.FilePath), pattern) {
			filtered = append(filtered, topic)
			continue
		}

		var koans []domain.Koan
		for _, koan := range topic.Koans {
			if Matches(koan.Name, pattern) {
				koans = append(koans, koan)
			}
		}
		if len(koans) > 0 {
			topic.Koans = koans
			filtered = append(filtered, topic)
		}
	}
	return filtered
}

// Matches reports whether name matches pattern. Patterns with * or ? are
// wildcards; without them the pattern is a substring.
func Matches(name, pattern string) bool {
	if pattern == "" {
		return true
	}

	if matched, err := filepath.Match(pattern, name); err == nil && matched {
		return true
	}

	if strings.Contains(pattern, "*") {
		// Flexible match for patterns like "*Nil*": every fixed part must
		// appear, in order.
		rest := name
		nonEmpty := false
		for _, part := range strings.Split(pattern, "*") {
			if part == "" {
				continue
			}
			nonEmpty = true
			idx := strings.Index(rest, part)
			if idx < 0 {
				return false
			}
			rest = rest[idx+len(part):]
		}
		return nonEmpty
	}

	if !strings.Contains(pattern, "?") {
		return strings.Contains(name, pattern)
	}

	return false
}
