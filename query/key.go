// Package query turns API client calls into cache-aware, deduplicated,
// automatically retried read operations and cache-invalidating write
// operations. Callers above this layer never talk to the API client directly
// for reads.
package query

import "strings"

// Key identifies one cacheable read: a resource name plus the parameters
// that distinguish it (id, encoded filters, pagination). Two reads with equal
// keys share one cache entry and one in-flight request.
type Key struct {
	Resource string
	Params   []string
}

func NewKey(resource string, params ...string) Key {
	return Key{Resource: resource, Params: params}
}

// String renders the canonical cache-map form. The unit separator keeps
// parameter boundaries unambiguous whatever the parameters contain.
func (k Key) String() string {
	if len(k.Params) == 0 {
		return k.Resource
	}
	return k.Resource + "\x1f" + strings.Join(k.Params, "\x1f")
}
