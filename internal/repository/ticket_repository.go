package repository

import (
	"context"
	"errors"
	"fmt"

	"eventhub/internal/model"
	apperrors "eventhub/pkg/app_errors"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

const pgUniqueViolation = "23505"

type TicketRepository interface {
	// Insert 寫入票券；(user_id, idempotency_key) 撞到唯一索引時回傳
	// ErrIdempotencyConflict，呼叫端應回讀先前的票券。
	Insert(ctx context.Context, ticket *model.Ticket) (*model.Ticket, error)
	ListByUserID(ctx context.Context, userID uuid.UUID) ([]*model.Ticket, error)
	ListByEventID(ctx context.Context, eventID int) ([]*model.Ticket, error)
	FindByTicketID(ctx context.Context, ticketID uuid.UUID) (*model.Ticket, error)
	FindByIdempotencyKey(ctx context.Context, userID uuid.UUID, key string) (*model.Ticket, error)
}

type TicketRepositoryImpl struct {
	pool *pgxpool.Pool
}

func NewTicketRepository(pool *pgxpool.Pool) TicketRepository {
	return &TicketRepositoryImpl{
		pool: pool,
	}
}

const ticketColumns = `id, ticket_id, event_id, user_id, quantity, total_price,
		buyer_name, buyer_email, buyer_phone, status, idempotency_key, purchase_date`

func scanTicket(row pgx.Row, ticket *model.Ticket) error {
	return row.Scan(
		&ticket.ID,
		&ticket.TicketID,
		&ticket.EventID,
		&ticket.UserID,
		&ticket.Quantity,
		&ticket.TotalPrice,
		&ticket.BuyerInfo.Name,
		&ticket.BuyerInfo.Email,
		&ticket.BuyerInfo.Phone,
		&ticket.Status,
		&ticket.IdempotencyKey,
		&ticket.PurchaseDate,
	)
}

func (r *TicketRepositoryImpl) Insert(ctx context.Context, ticket *model.Ticket) (*model.Ticket, error) {
	query := fmt.Sprintf(`
		INSERT INTO tickets (
			ticket_id, event_id, user_id, quantity, total_price,
			buyer_name, buyer_email, buyer_phone, status, idempotency_key, purchase_date)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
		RETURNING %s
	`, ticketColumns)

	row := q(ctx, r.pool).QueryRow(ctx, query,
		ticket.TicketID, ticket.EventID, ticket.UserID, ticket.Quantity, ticket.TotalPrice,
		ticket.BuyerInfo.Name, ticket.BuyerInfo.Email, ticket.BuyerInfo.Phone,
		ticket.Status, ticket.IdempotencyKey, ticket.PurchaseDate,
	)
	if err := scanTicket(row, ticket); err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == pgUniqueViolation {
			return nil, apperrors.ErrIdempotencyConflict
		}
		return nil, err
	}
	return ticket, nil
}

func (r *TicketRepositoryImpl) ListByUserID(ctx context.Context, userID uuid.UUID) ([]*model.Ticket, error) {
	query := fmt.Sprintf(`
		SELECT %s
		FROM tickets
		WHERE user_id = $1
		ORDER BY purchase_date DESC
	`, ticketColumns)

	return r.queryTickets(ctx, query, userID)
}

func (r *TicketRepositoryImpl) ListByEventID(ctx context.Context, eventID int) ([]*model.Ticket, error) {
	query := fmt.Sprintf(`
		SELECT %s
		FROM tickets
		WHERE event_id = $1
		ORDER BY purchase_date DESC
	`, ticketColumns)

	return r.queryTickets(ctx, query, eventID)
}

func (r *TicketRepositoryImpl) queryTickets(ctx context.Context, query string, args ...any) ([]*model.Ticket, error) {
	rows, err := q(ctx, r.pool).Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	tickets := make([]*model.Ticket, 0)
	for rows.Next() {
		var ticket model.Ticket
		if err := scanTicket(rows, &ticket); err != nil {
			return nil, err
		}
		tickets = append(tickets, &ticket)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return tickets, nil
}

func (r *TicketRepositoryImpl) FindByTicketID(ctx context.Context, ticketID uuid.UUID) (*model.Ticket, error) {
	query := fmt.Sprintf(`
		SELECT %s
		FROM tickets
		WHERE ticket_id = $1
	`, ticketColumns)

	var ticket model.Ticket
	err := scanTicket(q(ctx, r.pool).QueryRow(ctx, query, ticketID), &ticket)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, apperrors.ErrTicketNotFound
		}
		return nil, err
	}

	return &ticket, nil
}

func (r *TicketRepositoryImpl) FindByIdempotencyKey(ctx context.Context, userID uuid.UUID, key string) (*model.Ticket, error) {
	query := fmt.Sprintf(`
		SELECT %s
		FROM tickets
		WHERE user_id = $1 AND idempotency_key = $2
	`, ticketColumns)

	var ticket model.Ticket
	err := scanTicket(q(ctx, r.pool).QueryRow(ctx, query, userID, key), &ticket)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, apperrors.ErrTicketNotFound
		}
		return nil, err
	}

	return &ticket, nil
}
