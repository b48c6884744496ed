package listing

import (
	"net/http"
	"strings"
)

const OrderingParam = "ordering"

// OrderBy builds an ORDER BY clause from the ordering query param.
// Only fields present in columns (api field -> sql column) are honored, a
// leading '-' means descending. Unknown or missing ordering falls back to
// fallback. Column names never come from the request, so the result is safe
// to put into the query text.
func OrderBy(r *http.Request, columns map[string]string, fallback string) string {
	ordering := strings.TrimSpace(r.URL.Query().Get(OrderingParam))

	direction := "ASC"
	field := ordering
	if strings.HasPrefix(ordering, "-") {
		direction = "DESC"
		field = ordering[1:]
	}

	column, ok := columns[field]
	if !ok {
		return "ORDER BY " + fallback
	}

	return "ORDER BY " + column + " " + direction + ", " + fallback
}
