package fetch

import (
	"sort"
	"strings"
)

// Signature identifies a logically unique request: provider name plus the
// normalized parameter mapping, sorted by key so that construction order
// never matters. It is the cache key.
type Signature struct {
	provider string
	key      string
}

// NewSignature builds a signature from a provider identifier and its
// request parameters.
func NewSignature(provider string, params map[string]string) Signature {
	keys := make([]string, 0, len(params))
	for k := range params {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	var sb strings.Builder
	sb.WriteString(provider)
	for _, k := range keys {
		sb.WriteByte('|')
		sb.WriteString(k)
		sb.WriteByte('=')
		sb.WriteString(params[k])
	}

	return Signature{provider: provider, key: sb.String()}
}

// Provider returns the provider identifier.
func (s Signature) Provider() string {
	return s.provider
}

// Key returns the full normalized cache key.
func (s Signature) Key() string {
	return s.key
}
