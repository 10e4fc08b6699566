package repository

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuildTicketListQueryDefaults(t *testing.T) {
	rows, count, rowsArgs, countArgs := BuildTicketListQuery(TicketListFilter{})

	assert.NotContains(t, rows, "WHERE")
	assert.NotContains(t, count, "WHERE")
	assert.Contains(t, rows, "ORDER BY t.created_at DESC, t.id DESC")
	assert.Contains(t, rows, "LIMIT $1 OFFSET $2")
	require.Equal(t, []any{10, 0}, rowsArgs)
	assert.Empty(t, countArgs)
}

func TestBuildTicketListQueryPageCoercion(t *testing.T) {
	_, _, rowsArgs, _ := BuildTicketListQuery(TicketListFilter{Page: -3, Limit: 0})
	require.Equal(t, []any{10, 0}, rowsArgs)

	_, _, rowsArgs, _ = BuildTicketListQuery(TicketListFilter{Page: 3, Limit: 25})
	require.Equal(t, []any{25, 50}, rowsArgs)
}

func TestBuildTicketListQuerySharedSearchPlaceholder(t *testing.T) {
	rows, count, rowsArgs, countArgs := BuildTicketListQuery(TicketListFilter{Search: "printer"})

	// All eight OR branches bind the same placeholder, so the pattern is
	// passed exactly once.
	assert.Equal(t, 8, strings.Count(rows, "ILIKE $1"))
	assert.Equal(t, 8, strings.Count(count, "ILIKE $1"))
	require.Equal(t, []any{"%printer%", 10, 0}, rowsArgs)
	require.Equal(t, []any{"%printer%"}, countArgs)

	for _, column := range []string{
		"t.title", "t.description", "c.name", "ts.name",
		"tp.name", "sl.name", "u_client.name", "u_agent.name",
	} {
		assert.Contains(t, rows, column+" ILIKE $1")
	}
}

func TestBuildTicketListQuerySearchIsBoundNotInlined(t *testing.T) {
	hostile := "'; DROP TABLE tickets; --"
	rows, count, rowsArgs, _ := BuildTicketListQuery(TicketListFilter{Search: hostile})

	assert.NotContains(t, rows, hostile)
	assert.NotContains(t, count, hostile)
	require.Equal(t, "%"+hostile+"%", rowsArgs[0])
}

func TestBuildTicketListQueryStatusFilter(t *testing.T) {
	rows, count, rowsArgs, countArgs := BuildTicketListQuery(TicketListFilter{
		StatusNames: []string{"Open", "In Progress"},
	})

	assert.Contains(t, rows, "ts.name IN ($1,$2)")
	assert.Contains(t, count, "ts.name IN ($1,$2)")
	require.Equal(t, []any{"Open", "In Progress", 10, 0}, rowsArgs)
	require.Equal(t, []any{"Open", "In Progress"}, countArgs)
}

func TestBuildTicketListQueryClientScope(t *testing.T) {
	clientID := int64(42)
	rows, count, rowsArgs, countArgs := BuildTicketListQuery(TicketListFilter{ClientID: &clientID})

	assert.Contains(t, rows, "t.client_id = $1")
	assert.Contains(t, count, "t.client_id = $1")
	require.Equal(t, []any{int64(42), 10, 0}, rowsArgs)
	require.Equal(t, []any{int64(42)}, countArgs)
}

func TestBuildTicketListQueryCombinedPredicates(t *testing.T) {
	clientID := int64(7)
	rows, count, rowsArgs, countArgs := BuildTicketListQuery(TicketListFilter{
		ClientID:    &clientID,
		Search:      "vpn",
		StatusNames: []string{"Open"},
		Page:        2,
		Limit:       5,
	})

	assert.Contains(t, rows, "t.client_id = $1")
	assert.Equal(t, 8, strings.Count(rows, "ILIKE $2"))
	assert.Contains(t, rows, "ts.name IN ($3)")
	assert.Contains(t, rows, "LIMIT $4 OFFSET $5")
	require.Equal(t, []any{int64(7), "%vpn%", "Open", 5, 5}, rowsArgs)

	// The count query shares the WHERE text and binds only WHERE params.
	require.Equal(t, []any{int64(7), "%vpn%", "Open"}, countArgs)
	assert.NotContains(t, count, "LIMIT")
	assert.NotContains(t, count, "OFFSET")
	assert.NotContains(t, count, "ORDER BY")
}

func TestBuildTicketListQuerySortAllowlist(t *testing.T) {
	for field, column := range sortColumns {
		rows, _, _, _ := BuildTicketListQuery(TicketListFilter{SortField: field, SortOrder: "asc"})
		assert.Contains(t, rows, "ORDER BY "+column+" ASC, t.id DESC", "field %s", field)
	}
}

func TestBuildTicketListQuerySortRejectsUnknownField(t *testing.T) {
	rows, _, _, _ := BuildTicketListQuery(TicketListFilter{
		SortField: "created_at; DROP TABLE tickets",
	})
	assert.Contains(t, rows, "ORDER BY t.created_at DESC, t.id DESC")
	assert.NotContains(t, rows, "DROP TABLE")
}

func TestBuildTicketListQuerySortOrderNormalization(t *testing.T) {
	rows, _, _, _ := BuildTicketListQuery(TicketListFilter{SortField: "title", SortOrder: "ASC"})
	assert.Contains(t, rows, "ORDER BY t.title ASC")

	// Anything that is not "asc" collapses to DESC; direction strings are
	// never interpolated from input.
	rows, _, _, _ = BuildTicketListQuery(TicketListFilter{SortField: "title", SortOrder: "asc; --"})
	assert.Contains(t, rows, "ORDER BY t.title DESC")
}

func TestBuildTicketListQueryRowsAndCountShareWhere(t *testing.T) {
	clientID := int64(9)
	rows, count, _, _ := BuildTicketListQuery(TicketListFilter{
		ClientID:    &clientID,
		Search:      "disk",
		StatusNames: []string{"Open", "Closed"},
	})

	whereStart := strings.Index(rows, "WHERE")
	require.NotEqual(t, -1, whereStart)
	whereEnd := strings.Index(rows, "\n    ORDER BY")
	require.NotEqual(t, -1, whereEnd)
	assert.Contains(t, count, rows[whereStart:whereEnd],
		"count query must reuse the rows WHERE clause verbatim")
}
