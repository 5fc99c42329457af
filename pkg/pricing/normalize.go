package pricing

import "strings"

// Normalizer maps concrete model identifiers (for example
// "gpt-5-mini-2025-08-07") onto priced base models by ordered prefix match.
type Normalizer struct {
	prefixes []string
}

// NewNormalizer creates a normalizer that tries prefixes in the given order.
func NewNormalizer(prefixes ...string) Normalizer {
	return Normalizer{prefixes: append([]string(nil), prefixes...)}
}

// BaseModel returns the first prefix that name starts with, or name itself
// when nothing matches.
func (n Normalizer) BaseModel(name string) string {
	for _, prefix := range n.prefixes {
		if strings.HasPrefix(name, prefix) {
			return prefix
		}
	}
	return name
}
