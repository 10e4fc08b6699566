package domain

import "time"

// User is the domain model for anyone who signs in: clients filing tickets,
// agents working them and administrators. Capabilities come exclusively from
// the role's permission set, never from the role name itself.
type User struct {
	ID             int64      `db:"id"`
	Name           string     `db:"name"`
	Email          string     `db:"email"`
	PasswordHash   string     `db:"password"`
	Role           string     `db:"role"`
	IsActive       bool       `db:"is_active"`
	ServiceLevelID *int64     `db:"service_level_id"`
	CreatedAt      time.Time  `db:"created_at"`
	UpdatedAt      time.Time  `db:"updated_at"`
}

// UserWithPermissions augments a user with its resolved permission names for
// admin listings.
type UserWithPermissions struct {
	User
	ServiceLevelName *string  `db:"service_level_name"`
	Permissions      []string `db:"-"`
}

// Agent is the reduced shape returned by assignable-agent listings.
type Agent struct {
	ID               int64   `db:"id"`
	Name             string  `db:"name"`
	Email            string  `db:"email"`
	ServiceLevelID   *int64  `db:"service_level_id"`
	ServiceLevelName *string `db:"service_level_name"`
}
