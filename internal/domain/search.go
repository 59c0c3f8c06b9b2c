package domain

// SearchResult is the normalized reply from a web retrieval backend.
// An empty Message means the backend found nothing; callers must treat
// that as missing content, not as an answer.
type SearchResult struct {
	Message string
	Source  string
}

// Empty reports whether the backend produced no usable content.
func (r SearchResult) Empty() bool {
	return r.Message == ""
}
