package tmdb

import (
	"fmt"
)

// HTTPStatusError reports a non-2xx response from TMDB or a scraped page.
type HTTPStatusError struct {
	URL        string
	StatusCode int
}

func (e *HTTPStatusError) Error() string {
	return fmt.Sprintf("HTTP %d from %s", e.StatusCode, e.URL)
}

// LookupError reports that TMDB returned no usable data for an identifier.
type LookupError struct {
	Op  string // "poster" or "description"
	ID  int
	Err error
}

func (e *LookupError) Error() string {
	return fmt.Sprintf("tmdb %s lookup for id %d: %v", e.Op, e.ID, e.Err)
}

func (e *LookupError) Unwrap() error { return e.Err }
