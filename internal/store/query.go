package store

import (
	"fmt"
	"strings"
)

const (
	defaultLimit = 50
	maxLimit     = 500

	orderByCreated     = "created_at"
	orderByName        = "name"
	orderByLastChecked = "last_checked_at"
)

// validOrderBy maps allowed OrderBy values to their SQL column expressions.
var validOrderBy = map[string]string{
	orderByCreated:     "created_at DESC",
	orderByName:        "name ASC",
	orderByLastChecked: "last_checked_at DESC NULLS LAST",
}

const defaultOrderBy = "created_at DESC"

const baseProductsSelect = `SELECT id, name, url, current_price, target_price, last_checked_at,
	notifications_enabled, user_id, created_at
FROM products`

const countProductsSelect = "SELECT COUNT(*) FROM products"

// ToSQL builds the WHERE clause, ORDER BY, LIMIT, and OFFSET for a product
// query. It returns two SQL strings (one for the data query, one for the
// count query) and the positional parameters.
func (q *ProductQuery) ToSQL() (dataSQL, countSQL string, args []any) {
	var conditions []string
	paramIdx := 1

	if q.UserID != nil {
		conditions = append(conditions, fmt.Sprintf("user_id = $%d", paramIdx))
		args = append(args, *q.UserID)
		paramIdx++
	}

	if q.NotificationsEnabled != nil {
		conditions = append(conditions, fmt.Sprintf("notifications_enabled = $%d", paramIdx))
		args = append(args, *q.NotificationsEnabled)
	}

	var whereClause string
	if len(conditions) > 0 {
		whereClause = " WHERE " + strings.Join(conditions, " AND ")
	}

	// Order by
	orderClause := defaultOrderBy
	if q.OrderBy != "" {
		if col, ok := validOrderBy[q.OrderBy]; ok {
			orderClause = col
		}
	}

	// Limit
	limit := q.Limit
	if limit <= 0 {
		limit = defaultLimit
	}
	if limit > maxLimit {
		limit = maxLimit
	}

	offset := max(q.Offset, 0)

	dataSQL = fmt.Sprintf(
		"%s%s ORDER BY %s LIMIT %d OFFSET %d",
		baseProductsSelect, whereClause, orderClause, limit, offset,
	)

	countSQL = countProductsSelect + whereClause

	return dataSQL, countSQL, args
}
