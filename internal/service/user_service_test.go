package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spec-kit/helpdesk/internal/domain"
)

func TestUserListBatchResolvesPermissions(t *testing.T) {
	users := newFakeUserRepo()
	roles := newFakeRoleRepo()
	roles.addRole("agent", domain.PermTicketsReadAll, domain.PermTicketsUpdate)
	roles.addRole("user", domain.PermTicketsReadOwn)

	users.listed = []domain.UserWithPermissions{
		{User: domain.User{ID: 1, Name: "Ada", Role: "agent"}},
		{User: domain.User{ID: 2, Name: "Ben", Role: "user"}},
		{User: domain.User{ID: 3, Name: "Cal", Role: "agent"}},
		{User: domain.User{ID: 4, Name: "Dee", Role: "user"}},
	}

	svc := NewUserService(users, roles, 4)
	listed, err := svc.List(context.Background())
	require.NoError(t, err)
	require.Len(t, listed, 4)

	assert.Equal(t, []string{domain.PermTicketsReadAll, domain.PermTicketsUpdate}, listed[0].Permissions)
	assert.Equal(t, []string{domain.PermTicketsReadOwn}, listed[1].Permissions)
	assert.Equal(t, listed[0].Permissions, listed[2].Permissions)

	// One round trip resolves every distinct role; no per-row lookups.
	assert.Equal(t, 1, roles.batchCalls)
	assert.Equal(t, 0, roles.singleCalls)
}

func TestUserCreateValidatesRole(t *testing.T) {
	users := newFakeUserRepo()
	roles := newFakeRoleRepo()
	roles.addRole("user", domain.PermTicketsReadOwn)

	svc := NewUserService(users, roles, 4)

	_, _, err := svc.Create(context.Background(), UserCreateInput{
		Name: "Ada", Email: "ada@example.com", Password: "secret", RoleName: "ghost",
	})
	assertServiceStatus(t, err, 404)

	user, permissions, err := svc.Create(context.Background(), UserCreateInput{
		Name: "Ada", Email: "ada@example.com", Password: "secret",
	})
	require.NoError(t, err)
	assert.Equal(t, domain.DefaultRoleName, user.Role)
	assert.True(t, user.IsActive)
	assert.NotEqual(t, "secret", user.PasswordHash, "password must be stored hashed")
	assert.Equal(t, []string{domain.PermTicketsReadOwn}, permissions)

	_, _, err = svc.Create(context.Background(), UserCreateInput{
		Name: "Imposter", Email: "ada@example.com", Password: "other",
	})
	assertServiceStatus(t, err, 409)
}

func TestUserUpdatePartialPatch(t *testing.T) {
	existing := &domain.User{ID: 1, Name: "Ada", Email: "ada@example.com", Role: "user", IsActive: true}
	users := newFakeUserRepo(existing)
	roles := newFakeRoleRepo()
	roles.addRole("user", domain.PermTicketsReadOwn)
	roles.addRole("agent", domain.PermTicketsReadAll)

	svc := NewUserService(users, roles, 4)

	newRole := "agent"
	active := false
	user, permissions, err := svc.Update(context.Background(), 1, UserUpdateInput{
		RoleName: &newRole,
		IsActive: &active,
	})
	require.NoError(t, err)

	assert.Equal(t, "Ada", user.Name, "omitted fields keep their values")
	assert.Equal(t, "agent", user.Role)
	assert.False(t, user.IsActive)
	assert.Equal(t, []string{domain.PermTicketsReadAll}, permissions)

	level := int64(2)
	user, _, err = svc.Update(context.Background(), 1, UserUpdateInput{
		ServiceLevelSet: true,
		ServiceLevelID:  &level,
	})
	require.NoError(t, err)
	require.NotNil(t, user.ServiceLevelID)
	assert.EqualValues(t, 2, *user.ServiceLevelID)

	// Set without a value clears the level.
	user, _, err = svc.Update(context.Background(), 1, UserUpdateInput{ServiceLevelSet: true})
	require.NoError(t, err)
	assert.Nil(t, user.ServiceLevelID)

	_, _, err = svc.Update(context.Background(), 99, UserUpdateInput{})
	assertServiceStatus(t, err, 404)
}
