// internal/app/system/paging/paging.go
package paging

import (
	"net/http"
	"strconv"

	"github.com/dalemusser/waffle/pantry/query"
)

// DefaultLimit is the page size used when the caller does not ask for one.
const DefaultLimit = 50

// MaxLimit caps how many rows a single request may ask for.
const MaxLimit = 200

// Page holds the limit/offset window parsed from a request.
type Page struct {
	Limit  int
	Offset int
}

// Parse extracts the "limit" and "offset" query parameters. Missing or
// invalid values fall back to DefaultLimit and 0; limit is clamped to
// MaxLimit.
func Parse(r *http.Request) Page {
	return Page{
		Limit:  parseBounded(r, "limit", DefaultLimit, MaxLimit),
		Offset: parseNonNegative(r, "offset"),
	}
}

// SetTotalCount writes the header paged list responses carry so clients can
// page without a second count request.
func SetTotalCount(w http.ResponseWriter, total int64) {
	w.Header().Set("X-Total-Count", strconv.FormatInt(total, 10))
}

func parseBounded(r *http.Request, key string, def, max int) int {
	s := query.Get(r, key)
	if s == "" {
		return def
	}
	n, err := strconv.Atoi(s)
	if err != nil || n < 1 {
		return def
	}
	if n > max {
		return max
	}
	return n
}

func parseNonNegative(r *http.Request, key string) int {
	s := query.Get(r, key)
	if s == "" {
		return 0
	}
	n, err := strconv.Atoi(s)
	if err != nil || n < 0 {
		return 0
	}
	return n
}
