package persistence

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spec-kit/helpdesk/internal/domain"
)

// The runner executes every file on every boot, so the seed data it applies
// must stay aligned with what the code assumes exists.
func TestSeedDataMatchesCodeAssumptions(t *testing.T) {
	seed, err := os.ReadFile(filepath.Join("..", "..", "migrations", "002_seed_reference_data.sql"))
	require.NoError(t, err)
	sql := string(seed)

	for _, status := range []string{"Open", "In Progress", "Awaiting Customer", "Resolved", "Closed"} {
		assert.Contains(t, sql, "('"+status+"'", "missing status seed %q", status)
	}
	for _, prio := range []string{"Low", "Medium", "High", "Urgent"} {
		assert.Contains(t, sql, "('"+prio+"'", "missing priority seed %q", prio)
	}

	assert.Contains(t, sql, "('"+domain.DefaultStatusName+"'")
	assert.Contains(t, sql, "('"+domain.DefaultPriorityName+"'")
	assert.Contains(t, sql, "('"+domain.DefaultServiceLevelName+"'")
	assert.Contains(t, sql, "('"+domain.DefaultRoleName+"')")

	// Every permission the routes gate on must be part of the catalog.
	for _, perm := range []string{
		domain.PermUsersRead, domain.PermUsersCreate, domain.PermUsersUpdate,
		domain.PermRolesRead, domain.PermRolesCreate, domain.PermRolesUpdate, domain.PermRolesDelete,
		domain.PermPermsRead,
		domain.PermCatsRead, domain.PermCatsCreate, domain.PermCatsUpdate, domain.PermCatsDelete,
		domain.PermTicketsCreate, domain.PermTicketsReadAll, domain.PermTicketsReadOwn,
		domain.PermTicketsUpdate, domain.PermTicketsAssign,
		domain.PermCommentsAdd, domain.PermCommentsAddInternal,
		domain.PermKBRead, domain.PermKBCreate, domain.PermKBDelete,
	} {
		assert.Contains(t, sql, "('"+perm+"'", "missing permission seed %q", perm)
	}
}
