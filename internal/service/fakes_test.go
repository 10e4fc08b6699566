package service

import (
	"context"
	"sync"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/spec-kit/helpdesk/internal/domain"
	"github.com/spec-kit/helpdesk/internal/events"
	"github.com/spec-kit/helpdesk/internal/repository"
)

// errDuplicate mimics a Postgres unique-constraint violation.
var errDuplicate = &pgconn.PgError{Code: "23505"}

// captureDispatcher records published events for assertions.
type captureDispatcher struct {
	mu     sync.Mutex
	events []events.Event
}

func (d *captureDispatcher) Publish(_ context.Context, event events.Event) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.events = append(d.events, event)
	return nil
}

func (d *captureDispatcher) Subscribe(events.EventType, events.EventHandler) {}

func (d *captureDispatcher) published() []events.Event {
	d.mu.Lock()
	defer d.mu.Unlock()
	return append([]events.Event{}, d.events...)
}

type fakeTicketRepo struct {
	byID       map[int64]*domain.TicketDetail
	created    []*domain.Ticket
	updated    []*domain.Ticket
	listFilter repository.TicketListFilter
	listRows   []domain.TicketListRow
	listTotal  int
}

func newFakeTicketRepo() *fakeTicketRepo {
	return &fakeTicketRepo{byID: map[int64]*domain.TicketDetail{}}
}

func (r *fakeTicketRepo) Create(_ context.Context, ticket *domain.Ticket) error {
	ticket.ID = int64(len(r.created) + 1)
	r.created = append(r.created, ticket)
	return nil
}

func (r *fakeTicketRepo) Update(_ context.Context, ticket *domain.Ticket) error {
	copied := *ticket
	r.updated = append(r.updated, &copied)
	return nil
}

func (r *fakeTicketRepo) GetByID(_ context.Context, id int64) (*domain.TicketDetail, error) {
	detail, ok := r.byID[id]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	copied := *detail
	return &copied, nil
}

func (r *fakeTicketRepo) List(_ context.Context, filter repository.TicketListFilter) ([]domain.TicketListRow, int, error) {
	r.listFilter = filter
	return r.listRows, r.listTotal, nil
}

type fakeCommentRepo struct {
	created  []*domain.Comment
	byTicket []domain.Comment
	// lastIncludeInternal records the visibility flag of the last listing.
	lastIncludeInternal bool
}

func (r *fakeCommentRepo) Create(_ context.Context, comment *domain.Comment) error {
	comment.ID = int64(len(r.created) + 1)
	r.created = append(r.created, comment)
	return nil
}

func (r *fakeCommentRepo) ListByTicket(_ context.Context, _ int64, includeInternal bool) ([]domain.Comment, error) {
	r.lastIncludeInternal = includeInternal
	return r.byTicket, nil
}

type fakeReferenceRepo struct {
	statuses    []domain.TicketStatus
	prios       []domain.TicketPriority
	levels      []domain.ServiceLevel
	statusIDErr error
}

func newFakeReferenceRepo() *fakeReferenceRepo {
	return &fakeReferenceRepo{
		statuses: []domain.TicketStatus{
			{ID: 1, Name: "Open"},
			{ID: 2, Name: "In Progress"},
			{ID: 3, Name: "Closed"},
		},
		prios: []domain.TicketPriority{
			{ID: 1, Name: "Low"},
			{ID: 2, Name: "Medium"},
			{ID: 3, Name: "High"},
		},
		levels: []domain.ServiceLevel{
			{ID: 1, Name: "N1"},
			{ID: 2, Name: "N2"},
		},
	}
}

func (r *fakeReferenceRepo) ListStatuses(context.Context) ([]domain.TicketStatus, error) {
	return r.statuses, nil
}

func (r *fakeReferenceRepo) ListPriorities(context.Context) ([]domain.TicketPriority, error) {
	return r.prios, nil
}

func (r *fakeReferenceRepo) ListServiceLevels(context.Context) ([]domain.ServiceLevel, error) {
	return r.levels, nil
}

func (r *fakeReferenceRepo) StatusByName(_ context.Context, name string) (*domain.TicketStatus, error) {
	for i := range r.statuses {
		if r.statuses[i].Name == name {
			return &r.statuses[i], nil
		}
	}
	return nil, pgx.ErrNoRows
}

func (r *fakeReferenceRepo) PriorityByName(_ context.Context, name string) (*domain.TicketPriority, error) {
	for i := range r.prios {
		if r.prios[i].Name == name {
			return &r.prios[i], nil
		}
	}
	return nil, pgx.ErrNoRows
}

func (r *fakeReferenceRepo) ServiceLevelByName(_ context.Context, name string) (*domain.ServiceLevel, error) {
	for i := range r.levels {
		if r.levels[i].Name == name {
			return &r.levels[i], nil
		}
	}
	return nil, pgx.ErrNoRows
}

func (r *fakeReferenceRepo) StatusByID(_ context.Context, id int64) (*domain.TicketStatus, error) {
	if r.statusIDErr != nil {
		return nil, r.statusIDErr
	}
	for i := range r.statuses {
		if r.statuses[i].ID == id {
			return &r.statuses[i], nil
		}
	}
	return nil, pgx.ErrNoRows
}

func (r *fakeReferenceRepo) PriorityByID(_ context.Context, id int64) (*domain.TicketPriority, error) {
	for i := range r.prios {
		if r.prios[i].ID == id {
			return &r.prios[i], nil
		}
	}
	return nil, pgx.ErrNoRows
}

func (r *fakeReferenceRepo) ServiceLevelByID(_ context.Context, id int64) (*domain.ServiceLevel, error) {
	for i := range r.levels {
		if r.levels[i].ID == id {
			return &r.levels[i], nil
		}
	}
	return nil, pgx.ErrNoRows
}

type fakeCategoryRepo struct {
	byID map[int64]*domain.Category
}

func newFakeCategoryRepo(categories ...domain.Category) *fakeCategoryRepo {
	repo := &fakeCategoryRepo{byID: map[int64]*domain.Category{}}
	for i := range categories {
		repo.byID[categories[i].ID] = &categories[i]
	}
	return repo
}

func (r *fakeCategoryRepo) Create(_ context.Context, category *domain.Category) error {
	category.ID = int64(len(r.byID) + 1)
	r.byID[category.ID] = category
	return nil
}

func (r *fakeCategoryRepo) Update(_ context.Context, category *domain.Category) error {
	if _, ok := r.byID[category.ID]; !ok {
		return pgx.ErrNoRows
	}
	r.byID[category.ID] = category
	return nil
}

func (r *fakeCategoryRepo) Delete(_ context.Context, id int64) (int64, error) {
	if _, ok := r.byID[id]; !ok {
		return 0, nil
	}
	delete(r.byID, id)
	return 1, nil
}

func (r *fakeCategoryRepo) GetByID(_ context.Context, id int64) (*domain.Category, error) {
	category, ok := r.byID[id]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	return category, nil
}

func (r *fakeCategoryRepo) List(context.Context) ([]domain.Category, error) {
	out := []domain.Category{}
	for _, category := range r.byID {
		out = append(out, *category)
	}
	return out, nil
}

type fakeUserRepo struct {
	byID    map[int64]*domain.User
	byEmail map[string]*domain.User
	listed  []domain.UserWithPermissions
	agents  []domain.Agent
}

func newFakeUserRepo(users ...*domain.User) *fakeUserRepo {
	repo := &fakeUserRepo{byID: map[int64]*domain.User{}, byEmail: map[string]*domain.User{}}
	for _, user := range users {
		repo.byID[user.ID] = user
		repo.byEmail[user.Email] = user
	}
	return repo
}

func (r *fakeUserRepo) Create(_ context.Context, user *domain.User) error {
	if _, ok := r.byEmail[user.Email]; ok {
		return errDuplicate
	}
	user.ID = int64(len(r.byID) + 1)
	r.byID[user.ID] = user
	r.byEmail[user.Email] = user
	return nil
}

func (r *fakeUserRepo) Update(_ context.Context, user *domain.User) error {
	r.byID[user.ID] = user
	return nil
}

func (r *fakeUserRepo) GetByID(_ context.Context, id int64) (*domain.User, error) {
	user, ok := r.byID[id]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	copied := *user
	return &copied, nil
}

func (r *fakeUserRepo) GetByEmail(_ context.Context, email string) (*domain.User, error) {
	user, ok := r.byEmail[email]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	copied := *user
	return &copied, nil
}

func (r *fakeUserRepo) List(context.Context) ([]domain.UserWithPermissions, error) {
	return r.listed, nil
}

func (r *fakeUserRepo) ListAssignable(context.Context) ([]domain.Agent, error) {
	return r.agents, nil
}

type fakeRoleRepo struct {
	roles map[string]*domain.Role
	perms map[string][]string
	// batchCalls counts PermissionsByRoleNames invocations.
	batchCalls  int
	singleCalls int
}

func newFakeRoleRepo() *fakeRoleRepo {
	return &fakeRoleRepo{roles: map[string]*domain.Role{}, perms: map[string][]string{}}
}

func (r *fakeRoleRepo) addRole(name string, permissions ...string) {
	r.roles[name] = &domain.Role{ID: int64(len(r.roles) + 1), Name: name, IsActive: true}
	r.perms[name] = permissions
}

func (r *fakeRoleRepo) Create(_ context.Context, role *domain.Role) error {
	if _, ok := r.roles[role.Name]; ok {
		return errDuplicate
	}
	role.ID = int64(len(r.roles) + 1)
	// Mirror the DB default scanned back by the real repository's RETURNING.
	role.IsActive = true
	r.roles[role.Name] = role
	return nil
}

func (r *fakeRoleRepo) Rename(_ context.Context, id int64, name string) (*domain.Role, error) {
	for _, role := range r.roles {
		if role.ID == id {
			role.Name = name
			return role, nil
		}
	}
	return nil, pgx.ErrNoRows
}

func (r *fakeRoleRepo) SetActive(_ context.Context, id int64, active bool) (*domain.Role, error) {
	for _, role := range r.roles {
		if role.ID == id {
			role.IsActive = active
			return role, nil
		}
	}
	return nil, pgx.ErrNoRows
}

func (r *fakeRoleRepo) Delete(_ context.Context, id int64) (int64, error) {
	for name, role := range r.roles {
		if role.ID == id {
			delete(r.roles, name)
			return 1, nil
		}
	}
	return 0, nil
}

func (r *fakeRoleRepo) GetByID(_ context.Context, id int64) (*domain.RoleWithPermissions, error) {
	for name, role := range r.roles {
		if role.ID == id {
			return &domain.RoleWithPermissions{Role: *role, Permissions: r.perms[name]}, nil
		}
	}
	return nil, pgx.ErrNoRows
}

func (r *fakeRoleRepo) GetByName(_ context.Context, name string) (*domain.Role, error) {
	role, ok := r.roles[name]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	return role, nil
}

func (r *fakeRoleRepo) ListWithPermissions(context.Context) ([]domain.RoleWithPermissions, error) {
	out := []domain.RoleWithPermissions{}
	for name, role := range r.roles {
		out = append(out, domain.RoleWithPermissions{Role: *role, Permissions: r.perms[name]})
	}
	return out, nil
}

func (r *fakeRoleRepo) PermissionsByRoleName(_ context.Context, roleName string) ([]string, error) {
	r.singleCalls++
	return r.perms[roleName], nil
}

func (r *fakeRoleRepo) PermissionsByRoleNames(_ context.Context, roleNames []string) (map[string][]string, error) {
	r.batchCalls++
	out := map[string][]string{}
	for _, name := range roleNames {
		if permissions, ok := r.perms[name]; ok {
			out[name] = permissions
		}
	}
	return out, nil
}

func (r *fakeRoleRepo) ReplacePermissions(_ context.Context, roleID int64, permissionIDs []int64) error {
	return nil
}

func (r *fakeRoleRepo) ListPermissions(context.Context) ([]domain.Permission, error) {
	return nil, nil
}
