package pkg

import (
	"math"
	"strconv"
	"strings"
)

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// EscapeLike escapes LIKE/ILIKE wildcards, so the value is matched literally
func EscapeLike(s string) string {
	return likeEscaper.Replace(s)
}

// ParseID parses a row id. Ids are postgres SERIAL columns, so anything
// outside int4 can not exist and is an error here, before it reaches a query.
func ParseID(s string) (int, error) {
	id, err := strconv.ParseInt(s, 10, 32)
	if err != nil {
		return 0, err
	}
	return int(id), nil
}

// IsValidID reports whether id fits a SERIAL column.
func IsValidID(id int) bool {
	return id > 0 && id <= math.MaxInt32
}
