package client

// Page is the uniform paginated envelope every list method returns. Backend
// list endpoints respond with bare JSON arrays; normalization happens here at
// the client boundary so callers never see two list shapes.
type Page[T any] struct {
	Items []T `json:"items"`
	Total int `json:"total"`
	Page  int `json:"page"`
	Size  int `json:"size"`
	Pages int `json:"pages"`
}

// NewPage wraps a bare list into the envelope. A nil slice normalizes to an
// empty one so Items is always present when re-encoded.
func NewPage[T any](items []T) Page[T] {
	if items == nil {
		items = []T{}
	}
	return Page[T]{
		Items: items,
		Total: len(items),
		Page:  1,
		Size:  len(items),
		Pages: 1,
	}
}
