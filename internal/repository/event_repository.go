package repository

import (
	"context"
	"fmt"
	"strings"
	"time"

	"eventhub/internal/model"
	apperrors "eventhub/pkg/app_errors"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type EventRepository interface {
	Create(ctx context.Context, event *model.Event) (*model.Event, error)
	List(ctx context.Context) ([]*model.Event, error)
	ListByOrganizer(ctx context.Context, organizerID uuid.UUID) ([]*model.Event, error)
	Search(ctx context.Context, query string, category string) ([]*model.Event, error)
	FindByID(ctx context.Context, id int) (*model.Event, error)
	FindByEventID(ctx context.Context, eventID uuid.UUID) (*model.Event, error)
	Update(ctx context.Context, id int, params model.UpdateEventParams) (*model.Event, error)
	StatsByOrganizer(ctx context.Context, organizerID uuid.UUID) (*model.OrganizerStats, error)

	// IncrementAttendees 條件更新：只有在容量足夠時才會加上 quantity，
	// 檢查與更新由資料庫在單一語句內原子完成。回傳當下的票價快照。
	IncrementAttendees(ctx context.Context, eventID uuid.UUID, quantity int) (*ReservedEvent, error)
}

// ReservedEvent 條件更新成功當下的事件快照
type ReservedEvent struct {
	ID          int
	OrganizerID uuid.UUID
	Price       float64
}

type EventRepositoryImpl struct {
	pool *pgxpool.Pool
}

func NewEventRepository(pool *pgxpool.Pool) EventRepository {
	return &EventRepositoryImpl{
		pool: pool,
	}
}

const eventColumns = `id, event_id, organizer_id, title, description, date, time, location,
		category, image_url, price, capacity, attendees, status, created_at, updated_at`

func scanEvent(row pgx.Row, event *model.Event) error {
	return row.Scan(
		&event.ID,
		&event.EventID,
		&event.OrganizerID,
		&event.Title,
		&event.Description,
		&event.Date,
		&event.Time,
		&event.Location,
		&event.Category,
		&event.ImageURL,
		&event.Price,
		&event.Capacity,
		&event.Attendees,
		&event.Status,
		&event.CreatedAt,
		&event.UpdatedAt,
	)
}

func (r *EventRepositoryImpl) Create(ctx context.Context, event *model.Event) (*model.Event, error) {
	query := fmt.Sprintf(`
		INSERT INTO events (
			event_id, organizer_id, title, description, date, time, location,
			category, image_url, price, capacity, attendees, status)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, 0, $12)
		RETURNING %s
	`, eventColumns)

	row := q(ctx, r.pool).QueryRow(ctx, query,
		event.EventID, event.OrganizerID, event.Title, event.Description,
		event.Date, event.Time, event.Location, event.Category,
		event.ImageURL, event.Price, event.Capacity, event.Status,
	)
	if err := scanEvent(row, event); err != nil {
		return nil, err
	}
	return event, nil
}

func (r *EventRepositoryImpl) List(ctx context.Context) ([]*model.Event, error) {
	query := fmt.Sprintf(`
		SELECT %s
		FROM events
		WHERE status = 'active'
		ORDER BY date ASC
	`, eventColumns)

	return r.queryEvents(ctx, query)
}

func (r *EventRepositoryImpl) ListByOrganizer(ctx context.Context, organizerID uuid.UUID) ([]*model.Event, error) {
	query := fmt.Sprintf(`
		SELECT %s
		FROM events
		WHERE organizer_id = $1
		ORDER BY date ASC
	`, eventColumns)

	return r.queryEvents(ctx, query, organizerID)
}

func (r *EventRepositoryImpl) Search(ctx context.Context, search string, category string) ([]*model.Event, error) {
	conditions := []string{"status = 'active'"}
	args := []any{}
	argPos := 1

	if search != "" {
		conditions = append(conditions, fmt.Sprintf(
			"(title ILIKE $%d OR description ILIKE $%d OR location ILIKE $%d)", argPos, argPos, argPos))
		args = append(args, "%"+search+"%")
		argPos++
	}

	if category != "" && category != "All" {
		conditions = append(conditions, fmt.Sprintf("category = $%d", argPos))
		args = append(args, category)
		argPos++
	}

	query := fmt.Sprintf(`
		SELECT %s
		FROM events
		WHERE %s
		ORDER BY date ASC
	`, eventColumns, strings.Join(conditions, " AND "))

	return r.queryEvents(ctx, query, args...)
}

func (r *EventRepositoryImpl) queryEvents(ctx context.Context, query string, args ...any) ([]*model.Event, error) {
	rows, err := q(ctx, r.pool).Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	events := make([]*model.Event, 0)
	for rows.Next() {
		var event model.Event
		if err := scanEvent(rows, &event); err != nil {
			return nil, err
		}
		events = append(events, &event)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return events, nil
}

func (r *EventRepositoryImpl) FindByID(ctx context.Context, id int) (*model.Event, error) {
	query := fmt.Sprintf(`
		SELECT %s
		FROM events
		WHERE id = $1
	`, eventColumns)

	var event model.Event
	err := scanEvent(q(ctx, r.pool).QueryRow(ctx, query, id), &event)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, apperrors.ErrEventNotFound
		}
		return nil, err
	}

	return &event, nil
}

func (r *EventRepositoryImpl) FindByEventID(ctx context.Context, eventID uuid.UUID) (*model.Event, error) {
	query := fmt.Sprintf(`
		SELECT %s
		FROM events
		WHERE event_id = $1
	`, eventColumns)

	var event model.Event
	err := scanEvent(q(ctx, r.pool).QueryRow(ctx, query, eventID), &event)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, apperrors.ErrEventNotFound
		}
		return nil, err
	}

	return &event, nil
}

func (r *EventRepositoryImpl) Update(ctx context.Context, id int, params model.UpdateEventParams) (*model.Event, error) {
	sets := []string{}
	args := []any{}
	argPos := 1

	addSet := func(column string, value any) {
		sets = append(sets, fmt.Sprintf("%s = $%d", column, argPos))
		args = append(args, value)
		argPos++
	}

	if params.Title != nil {
		addSet("title", *params.Title)
	}
	if params.Description != nil {
		addSet("description", *params.Description)
	}
	if params.Date != nil {
		addSet("date", *params.Date)
	}
	if params.Time != nil {
		addSet("time", *params.Time)
	}
	if params.Location != nil {
		addSet("location", *params.Location)
	}
	if params.Category != nil {
		addSet("category", *params.Category)
	}
	if params.ImageURL != nil {
		addSet("image_url", *params.ImageURL)
	}
	if params.Price != nil {
		addSet("price", *params.Price)
	}
	if params.Status != nil {
		addSet("status", *params.Status)
	}

	if len(sets) == 0 {
		return nil, apperrors.ErrInvalidInput
	}

	// add updated_at
	addSet("updated_at", time.Now().UTC())

	// add id
	args = append(args, id)

	query := fmt.Sprintf(`
		UPDATE events
		SET %s
		WHERE id = $%d
		RETURNING %s
	`, strings.Join(sets, ", "), argPos, eventColumns)

	var event model.Event
	err := scanEvent(q(ctx, r.pool).QueryRow(ctx, query, args...), &event)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, apperrors.ErrEventNotFound
		}
		return nil, err
	}

	return &event, nil
}

func (r *EventRepositoryImpl) StatsByOrganizer(ctx context.Context, organizerID uuid.UUID) (*model.OrganizerStats, error) {
	query := `
		SELECT COUNT(*),
		       COALESCE(SUM(attendees), 0),
		       COALESCE(SUM(price * attendees), 0)
		FROM events
		WHERE organizer_id = $1
	`

	var stats model.OrganizerStats
	err := q(ctx, r.pool).QueryRow(ctx, query, organizerID).Scan(
		&stats.TotalEvents,
		&stats.TotalAttendees,
		&stats.TotalRevenue,
	)
	if err != nil {
		return nil, err
	}

	return &stats, nil
}

func (r *EventRepositoryImpl) IncrementAttendees(ctx context.Context, eventID uuid.UUID, quantity int) (*ReservedEvent, error) {
	if quantity < 1 {
		return nil, apperrors.ErrInvalidQuantity
	}

	query := `
		UPDATE events
		SET attendees = attendees + $1, updated_at = $2
		WHERE event_id = $3 AND attendees + $1 <= capacity
		RETURNING id, organizer_id, price
	`

	var reserved ReservedEvent
	err := q(ctx, r.pool).QueryRow(ctx, query, quantity, time.Now().UTC(), eventID).Scan(
		&reserved.ID,
		&reserved.OrganizerID,
		&reserved.Price,
	)
	if err == nil {
		return &reserved, nil
	}
	if err != pgx.ErrNoRows {
		return nil, err
	}

	// no row updated: distinguish a missing event from a full one
	var exists bool
	probe := `SELECT EXISTS (SELECT 1 FROM events WHERE event_id = $1)`
	if err := q(ctx, r.pool).QueryRow(ctx, probe, eventID).Scan(&exists); err != nil {
		return nil, err
	}
	if !exists {
		return nil, apperrors.ErrEventNotFound
	}
	return nil, apperrors.ErrInsufficientCapacity
}
