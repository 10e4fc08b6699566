package domain

import "time"

// Role groups permissions under an assignable name.
type Role struct {
	ID        int64     `db:"id"`
	Name      string    `db:"name"`
	IsActive  bool      `db:"is_active"`
	CreatedAt time.Time `db:"created_at"`
	UpdatedAt time.Time `db:"updated_at"`
}

// RoleWithPermissions carries the aggregated permission names of a role.
type RoleWithPermissions struct {
	Role
	Permissions []string
}

// Permission is one entry of the static-ish capability catalog. Names follow
// the resource:action convention, e.g. "tickets:read_all".
type Permission struct {
	ID          int64  `db:"id"`
	Name        string `db:"name"`
	Description string `db:"description"`
}

// Capability names used by the authorization checks. The catalog is stored in
// the permissions table; these constants exist so call sites do not scatter
// string literals.
const (
	PermUsersRead    = "users:read"
	PermUsersCreate  = "users:create"
	PermUsersUpdate  = "users:update"
	PermRolesRead    = "roles:read"
	PermRolesCreate  = "roles:create"
	PermRolesUpdate  = "roles:update"
	PermRolesDelete  = "roles:delete"
	PermPermsRead    = "permissions:read"
	PermCatsRead     = "categories:read"
	PermCatsCreate   = "categories:create"
	PermCatsUpdate   = "categories:update"
	PermCatsDelete   = "categories:delete"
	PermTicketsCreate  = "tickets:create"
	PermTicketsReadAll = "tickets:read_all"
	PermTicketsReadOwn = "tickets:read_own"
	PermTicketsUpdate  = "tickets:update"
	PermTicketsAssign  = "tickets:assign"
	PermCommentsAdd         = "comments:add"
	PermCommentsAddInternal = "comments:add_internal"
	PermKBRead   = "kb:read"
	PermKBCreate = "kb:create"
	PermKBDelete = "kb:delete"
)

// DefaultRoleName is assigned on self-registration.
const DefaultRoleName = "user"
