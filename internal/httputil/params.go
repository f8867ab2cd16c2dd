package httputil

import (
	"net/http"
	"strconv"

	"moodshare/internal/model"
)

// ParsePagination reads page and per_page from the query string and clamps
// them: page defaults to 1, per_page to def, and per_page above the cap is
// clamped rather than rejected.
func ParsePagination(r *http.Request, def int) (page, perPage int) {
	page = queryInt(r, "page", 1)
	perPage = queryInt(r, "per_page", def)
	return model.NormalizePage(page, perPage, def)
}

func queryInt(r *http.Request, key string, def int) int {
	v := r.URL.Query().Get(key)
	if v == "" {
		return def
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return def
	}
	return n
}
