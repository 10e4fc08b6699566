package repository

import (
	"fmt"
	"strings"
)

// TicketListFilter captures everything that shapes a ticket listing: caller
// scope, free-text search, status filter, sort and pagination.
type TicketListFilter struct {
	Search      string
	SortField   string
	SortOrder   string
	StatusNames []string
	// ClientID is set iff the caller is scope-restricted to own tickets.
	ClientID *int64
	Page     int
	Limit    int
}

const (
	defaultPage  = 1
	defaultLimit = 10
)

// sortColumns is the allowlist mapping sortable-field names to literal column
// expressions. The lookup is the only defense against identifier injection:
// sort fields cannot be parameter-bound, so anything outside this table falls
// back to created_at.
var sortColumns = map[string]string{
	"id":                 "t.id",
	"title":              "t.title",
	"status_name":        "ts.name",
	"priority_name":      "tp.name",
	"service_level_name": "sl.name",
	"created_at":         "t.created_at",
	"category_name":      "c.name",
	"client_name":        "u_client.name",
	"agent_name":         "u_agent.name",
}

const ticketListSelect = `
    SELECT
        t.id,
        t.title,
        COALESCE(ts.name, 'No status') AS status_name,
        COALESCE(tp.name, 'No priority') AS priority_name,
        COALESCE(sl.name, 'No service level') AS service_level_name,
        t.created_at,
        COALESCE(c.name, 'Uncategorized') AS category_name,
        COALESCE(u_client.name, 'Unknown client') AS client_name,
        COALESCE(u_agent.name, 'Unassigned') AS agent_name`

const ticketListFrom = `
    FROM tickets t
    LEFT JOIN categories c ON t.category_id = c.id
    LEFT JOIN users u_client ON t.client_id = u_client.id
    LEFT JOIN users u_agent ON t.agent_id = u_agent.id
    LEFT JOIN ticket_statuses ts ON t.status_id = ts.id
    LEFT JOIN ticket_priorities tp ON t.priority_id = tp.id
    LEFT JOIN service_levels sl ON t.service_level_id = sl.id`

// BuildTicketListQuery produces the rows query and the matching count query.
// Both share the same FROM/JOIN/WHERE text; the count query reuses only the
// WHERE-bound parameters while the rows query appends LIMIT/OFFSET as the
// final two placeholders.
func BuildTicketListQuery(filter TicketListFilter) (rowsQuery, countQuery string, rowsArgs, countArgs []any) {
	page := filter.Page
	if page < defaultPage {
		page = defaultPage
	}
	limit := filter.Limit
	if limit < 1 {
		limit = defaultLimit
	}
	offset := (page - 1) * limit

	var clauses []string
	var whereArgs []any

	if filter.ClientID != nil {
		whereArgs = append(whereArgs, *filter.ClientID)
		clauses = append(clauses, fmt.Sprintf("t.client_id = $%d", len(whereArgs)))
	}

	if filter.Search != "" {
		// One placeholder shared across every OR branch.
		whereArgs = append(whereArgs, "%"+filter.Search+"%")
		placeholder := fmt.Sprintf("$%d", len(whereArgs))
		branches := []string{
			"t.title ILIKE " + placeholder,
			"t.description ILIKE " + placeholder,
			"c.name ILIKE " + placeholder,
			"ts.name ILIKE " + placeholder,
			"tp.name ILIKE " + placeholder,
			"sl.name ILIKE " + placeholder,
			"u_client.name ILIKE " + placeholder,
			"u_agent.name ILIKE " + placeholder,
		}
		clauses = append(clauses, "("+strings.Join(branches, " OR ")+")")
	}

	if len(filter.StatusNames) > 0 {
		placeholders := make([]string, len(filter.StatusNames))
		for i, name := range filter.StatusNames {
			whereArgs = append(whereArgs, name)
			placeholders[i] = fmt.Sprintf("$%d", len(whereArgs))
		}
		clauses = append(clauses, fmt.Sprintf("ts.name IN (%s)", strings.Join(placeholders, ",")))
	}

	whereClause := ""
	if len(clauses) > 0 {
		whereClause = "\n    WHERE " + strings.Join(clauses, " AND ")
	}

	orderColumn, ok := sortColumns[filter.SortField]
	if !ok {
		orderColumn = sortColumns["created_at"]
	}
	orderDirection := "DESC"
	if strings.EqualFold(filter.SortOrder, "asc") {
		orderDirection = "ASC"
	}

	rowsArgs = append(append([]any{}, whereArgs...), limit, offset)
	countArgs = whereArgs

	rowsQuery = fmt.Sprintf("%s%s%s\n    ORDER BY %s %s, t.id DESC\n    LIMIT $%d OFFSET $%d",
		ticketListSelect, ticketListFrom, whereClause,
		orderColumn, orderDirection,
		len(whereArgs)+1, len(whereArgs)+2)

	countQuery = "SELECT COUNT(t.id)" + ticketListFrom + whereClause

	return rowsQuery, countQuery, rowsArgs, countArgs
}
