package repository

import (
	"context"

	"github.com/georgysavva/scany/v2/pgxscan"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/spec-kit/helpdesk/internal/domain"
)

// ReferenceRepository reads the ticket reference tables: statuses, priorities
// and service levels.
type ReferenceRepository interface {
	ListStatuses(ctx context.Context) ([]domain.TicketStatus, error)
	ListPriorities(ctx context.Context) ([]domain.TicketPriority, error)
	ListServiceLevels(ctx context.Context) ([]domain.ServiceLevel, error)
	StatusByName(ctx context.Context, name string) (*domain.TicketStatus, error)
	PriorityByName(ctx context.Context, name string) (*domain.TicketPriority, error)
	ServiceLevelByName(ctx context.Context, name string) (*domain.ServiceLevel, error)
	StatusByID(ctx context.Context, id int64) (*domain.TicketStatus, error)
	PriorityByID(ctx context.Context, id int64) (*domain.TicketPriority, error)
	ServiceLevelByID(ctx context.Context, id int64) (*domain.ServiceLevel, error)
}

type referenceRepository struct {
	pool *pgxpool.Pool
}

// NewReferenceRepository builds the repository.
func NewReferenceRepository(pool *pgxpool.Pool) ReferenceRepository {
	return &referenceRepository{pool: pool}
}

func (r *referenceRepository) ListStatuses(ctx context.Context) ([]domain.TicketStatus, error) {
	const query = `
        SELECT id, name, COALESCE(description, '') AS description, sla_hours
        FROM ticket_statuses ORDER BY name ASC`
	statuses := []domain.TicketStatus{}
	if err := pgxscan.Select(ctx, r.pool, &statuses, query); err != nil {
		return nil, err
	}
	return statuses, nil
}

// ListPriorities orders by sla_hours ascending: most urgent first.
func (r *referenceRepository) ListPriorities(ctx context.Context) ([]domain.TicketPriority, error) {
	const query = `
        SELECT id, name, COALESCE(description, '') AS description, sla_hours
        FROM ticket_priorities ORDER BY sla_hours ASC`
	priorities := []domain.TicketPriority{}
	if err := pgxscan.Select(ctx, r.pool, &priorities, query); err != nil {
		return nil, err
	}
	return priorities, nil
}

func (r *referenceRepository) ListServiceLevels(ctx context.Context) ([]domain.ServiceLevel, error) {
	const query = `
        SELECT id, name, COALESCE(description, '') AS description, sla_hours
        FROM service_levels ORDER BY name ASC`
	levels := []domain.ServiceLevel{}
	if err := pgxscan.Select(ctx, r.pool, &levels, query); err != nil {
		return nil, err
	}
	return levels, nil
}

func (r *referenceRepository) StatusByName(ctx context.Context, name string) (*domain.TicketStatus, error) {
	const query = `
        SELECT id, name, COALESCE(description, '') AS description, sla_hours
        FROM ticket_statuses WHERE name = $1`
	var status domain.TicketStatus
	if err := getOne(ctx, r.pool, &status, query, name); err != nil {
		return nil, err
	}
	return &status, nil
}

func (r *referenceRepository) PriorityByName(ctx context.Context, name string) (*domain.TicketPriority, error) {
	const query = `
        SELECT id, name, COALESCE(description, '') AS description, sla_hours
        FROM ticket_priorities WHERE name = $1`
	var priority domain.TicketPriority
	if err := getOne(ctx, r.pool, &priority, query, name); err != nil {
		return nil, err
	}
	return &priority, nil
}

func (r *referenceRepository) ServiceLevelByName(ctx context.Context, name string) (*domain.ServiceLevel, error) {
	const query = `
        SELECT id, name, COALESCE(description, '') AS description, sla_hours
        FROM service_levels WHERE name = $1`
	var level domain.ServiceLevel
	if err := getOne(ctx, r.pool, &level, query, name); err != nil {
		return nil, err
	}
	return &level, nil
}

func (r *referenceRepository) StatusByID(ctx context.Context, id int64) (*domain.TicketStatus, error) {
	const query = `
        SELECT id, name, COALESCE(description, '') AS description, sla_hours
        FROM ticket_statuses WHERE id = $1`
	var status domain.TicketStatus
	if err := getOne(ctx, r.pool, &status, query, id); err != nil {
		return nil, err
	}
	return &status, nil
}

func (r *referenceRepository) PriorityByID(ctx context.Context, id int64) (*domain.TicketPriority, error) {
	const query = `
        SELECT id, name, COALESCE(description, '') AS description, sla_hours
        FROM ticket_priorities WHERE id = $1`
	var priority domain.TicketPriority
	if err := getOne(ctx, r.pool, &priority, query, id); err != nil {
		return nil, err
	}
	return &priority, nil
}

func (r *referenceRepository) ServiceLevelByID(ctx context.Context, id int64) (*domain.ServiceLevel, error) {
	const query = `
        SELECT id, name, COALESCE(description, '') AS description, sla_hours
        FROM service_levels WHERE id = $1`
	var level domain.ServiceLevel
	if err := getOne(ctx, r.pool, &level, query, id); err != nil {
		return nil, err
	}
	return &level, nil
}

func getOne(ctx context.Context, pool *pgxpool.Pool, dest any, query string, args ...any) error {
	if err := pgxscan.Get(ctx, pool, dest, query, args...); err != nil {
		if pgxscan.NotFound(err) {
			return pgx.ErrNoRows
		}
		return err
	}
	return nil
}
