package service

import (
	"context"

	"eventhub/internal/cache"
	"eventhub/internal/model"
	"eventhub/internal/repository"
	apperrors "eventhub/pkg/app_errors"
	"eventhub/pkg/logger"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

type EventService interface {
	List(ctx context.Context) ([]*model.Event, error)
	Search(ctx context.Context, query string, category string) ([]*model.Event, error)
	GetByEventID(ctx context.Context, eventID uuid.UUID) (*model.Event, error)
	ListByOrganizer(ctx context.Context, organizerID uuid.UUID) ([]*model.Event, error)
	Create(ctx context.Context, organizerID uuid.UUID, req model.CreateEventRequest) (*model.Event, error)
	UpdateByEventID(ctx context.Context, organizerID uuid.UUID, eventID uuid.UUID, params model.UpdateEventParams) (*model.Event, error)
	// OpenForSale 活動開賣：預熱 Redis 可售數量閘門
	OpenForSale(ctx context.Context, organizerID uuid.UUID, eventID uuid.UUID) error
	// Stats 主辦方儀表板彙總：優先讀快取，miss 時從 SQL 聚合並回填
	Stats(ctx context.Context, organizerID uuid.UUID) (*model.OrganizerStats, error)
}

type EventServiceImpl struct {
	repo  repository.EventRepository
	gate  cache.AvailabilityGate
	stats cache.OrganizerStatsCache
}

func NewEventService(repo repository.EventRepository, gate cache.AvailabilityGate, stats cache.OrganizerStatsCache) EventService {
	return &EventServiceImpl{repo: repo, gate: gate, stats: stats}
}

func (s *EventServiceImpl) List(ctx context.Context) ([]*model.Event, error) {
	return s.repo.List(ctx)
}

func (s *EventServiceImpl) Search(ctx context.Context, query string, category string) ([]*model.Event, error) {
	return s.repo.Search(ctx, query, category)
}

func (s *EventServiceImpl) GetByEventID(ctx context.Context, eventID uuid.UUID) (*model.Event, error) {
	return s.repo.FindByEventID(ctx, eventID)
}

func (s *EventServiceImpl) ListByOrganizer(ctx context.Context, organizerID uuid.UUID) ([]*model.Event, error) {
	return s.repo.ListByOrganizer(ctx, organizerID)
}

func (s *EventServiceImpl) Create(ctx context.Context, organizerID uuid.UUID, req model.CreateEventRequest) (*model.Event, error) {
	if req.Price < 0 || req.Capacity < 0 {
		return nil, apperrors.ErrInvalidInput
	}

	event := &model.Event{
		EventID:     uuid.New(),
		OrganizerID: organizerID,
		Title:       req.Title,
		Description: req.Description,
		Date:        req.Date,
		Time:        req.Time,
		Location:    req.Location,
		Category:    req.Category,
		ImageURL:    req.ImageURL,
		Price:       req.Price,
		Capacity:    req.Capacity,
		Status:      model.EventStatusActive,
	}
	return s.repo.Create(ctx, event)
}

func (s *EventServiceImpl) UpdateByEventID(ctx context.Context, organizerID uuid.UUID, eventID uuid.UUID, params model.UpdateEventParams) (*model.Event, error) {
	if params.Price != nil && *params.Price < 0 {
		return nil, apperrors.ErrInvalidInput
	}
	if params.Status != nil && !params.Status.IsValid() {
		return nil, apperrors.ErrInvalidInput
	}

	event, err := s.repo.FindByEventID(ctx, eventID)
	if err != nil {
		return nil, err
	}
	if event.OrganizerID != organizerID {
		return nil, apperrors.ErrForbidden
	}
	return s.repo.Update(ctx, event.ID, params)
}

func (s *EventServiceImpl) OpenForSale(ctx context.Context, organizerID uuid.UUID, eventID uuid.UUID) error {
	event, err := s.repo.FindByEventID(ctx, eventID)
	if err != nil {
		return err
	}
	if event.OrganizerID != organizerID {
		return apperrors.ErrForbidden
	}
	return s.gate.WarmUp(ctx, event.EventID, event.Available())
}

func (s *EventServiceImpl) Stats(ctx context.Context, organizerID uuid.UUID) (*model.OrganizerStats, error) {
	if s.stats != nil {
		cached, err := s.stats.Get(ctx, organizerID)
		if err != nil {
			logger.WithComponent("event").Warn("stats cache read failed",
				zap.String("organizer_id", organizerID.String()), zap.Error(err))
		} else if cached != nil {
			return cached, nil
		}
	}

	stats, err := s.repo.StatsByOrganizer(ctx, organizerID)
	if err != nil {
		return nil, err
	}

	if s.stats != nil {
		if err := s.stats.Set(ctx, organizerID, stats); err != nil {
			logger.WithComponent("event").Warn("stats cache backfill failed",
				zap.String("organizer_id", organizerID.String()), zap.Error(err))
		}
	}
	return stats, nil
}
