// Package sqlxrepos implements the domain repositories on PostgreSQL with
// hand-written SQL via sqlx.
package sqlxrepos

import (
	"strings"

	"github.com/trezcool/shuleni/core"
)

// orderBy renders an ORDER BY clause from the requested ordering,
// falling back to the given default.
func orderBy(ordering []core.DBOrdering, dflt string) string {
	if len(ordering) == 0 {
		if dflt == "" {
			return ""
		}
		return " ORDER BY " + dflt
	}
	parts := make([]string, 0, len(ordering))
	for _, ord := range ordering {
		parts = append(parts, ord.String())
	}
	return " ORDER BY " + strings.Join(parts, ", ")
}
