package repository

import (
	"context"

	"github.com/georgysavva/scany/v2/pgxscan"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/spec-kit/helpdesk/internal/domain"
)

// TicketRepository encapsulates ticket persistence.
type TicketRepository interface {
	Create(ctx context.Context, ticket *domain.Ticket) error
	Update(ctx context.Context, ticket *domain.Ticket) error
	GetByID(ctx context.Context, id int64) (*domain.TicketDetail, error)
	List(ctx context.Context, filter TicketListFilter) ([]domain.TicketListRow, int, error)
}

type ticketRepository struct {
	pool *pgxpool.Pool
}

// NewTicketRepository instantiates repository.
func NewTicketRepository(pool *pgxpool.Pool) TicketRepository {
	return &ticketRepository{pool: pool}
}

func (r *ticketRepository) Create(ctx context.Context, ticket *domain.Ticket) error {
	const query = `
        INSERT INTO tickets (title, description, status_id, priority_id, service_level_id, client_id, agent_id, category_id)
        VALUES ($1,$2,$3,$4,$5,$6,$7,$8)
        RETURNING id, created_at, updated_at`
	return r.pool.QueryRow(ctx, query,
		ticket.Title,
		ticket.Description,
		ticket.StatusID,
		ticket.PriorityID,
		ticket.ServiceLevelID,
		ticket.ClientID,
		ticket.AgentID,
		ticket.CategoryID,
	).Scan(&ticket.ID, &ticket.CreatedAt, &ticket.UpdatedAt)
}

// Update persists the four lifecycle fields in one atomic statement and bumps
// updated_at. Title, description, client and category never change here.
func (r *ticketRepository) Update(ctx context.Context, ticket *domain.Ticket) error {
	const query = `
        UPDATE tickets SET status_id=$1, priority_id=$2, service_level_id=$3, agent_id=$4, updated_at=NOW()
        WHERE id=$5
        RETURNING updated_at`
	return r.pool.QueryRow(ctx, query,
		ticket.StatusID,
		ticket.PriorityID,
		ticket.ServiceLevelID,
		ticket.AgentID,
		ticket.ID,
	).Scan(&ticket.UpdatedAt)
}

func (r *ticketRepository) GetByID(ctx context.Context, id int64) (*domain.TicketDetail, error) {
	const query = `
        SELECT t.id, t.title, t.description, t.status_id, t.priority_id, t.service_level_id,
               t.client_id, t.agent_id, t.category_id, t.created_at, t.updated_at,
               ts.name AS status_name, tp.name AS priority_name, sl.name AS service_level_name
        FROM tickets t
        JOIN ticket_statuses ts ON t.status_id = ts.id
        JOIN ticket_priorities tp ON t.priority_id = tp.id
        JOIN service_levels sl ON t.service_level_id = sl.id
        WHERE t.id = $1`
	var detail domain.TicketDetail
	if err := pgxscan.Get(ctx, r.pool, &detail, query, id); err != nil {
		if pgxscan.NotFound(err) {
			return nil, pgx.ErrNoRows
		}
		return nil, err
	}
	return &detail, nil
}

// List runs the rows query and the predicate-consistent count query built by
// BuildTicketListQuery.
func (r *ticketRepository) List(ctx context.Context, filter TicketListFilter) ([]domain.TicketListRow, int, error) {
	rowsQuery, countQuery, rowsArgs, countArgs := BuildTicketListQuery(filter)

	rows := []domain.TicketListRow{}
	if err := pgxscan.Select(ctx, r.pool, &rows, rowsQuery, rowsArgs...); err != nil {
		return nil, 0, err
	}

	var total int
	if err := r.pool.QueryRow(ctx, countQuery, countArgs...).Scan(&total); err != nil {
		return nil, 0, err
	}
	return rows, total, nil
}
