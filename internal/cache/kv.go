package cache

import (
	"net/url"
	"strings"
)

// KV is the memoization contract consumed by the network clients.
// Implementations must be safe for concurrent use by multiple goroutines.
type KV[V any] interface {
	Get(key string) (V, bool)
	Set(key string, value V)
}

var _ KV[string] = (*Cache[string])(nil)

// Key builds a deterministic cache key from a prefix, an endpoint and its
// query parameters. url.Values.Encode sorts by key, so equal parameter sets
// always produce equal keys.
func Key(prefix, endpoint string, params url.Values) string {
	var sb strings.Builder
	sb.WriteString(prefix)
	sb.WriteByte('|')
	sb.WriteString(endpoint)
	if len(params) > 0 {
		sb.WriteByte('|')
		sb.WriteString(params.Encode())
	}
	return sb.String()
}
