package service

import (
	"context"

	"eventhub/internal/model"
	"eventhub/internal/repository"
	apperrors "eventhub/pkg/app_errors"

	"github.com/google/uuid"
)

type TicketService interface {
	ListByUser(ctx context.Context, userID uuid.UUID) ([]*model.Ticket, error)
	// ListByEvent 只有活動的主辦方可以看出席名單
	ListByEvent(ctx context.Context, callerID uuid.UUID, eventID uuid.UUID) ([]*model.Ticket, error)
	// GetByTicketID 票主或活動主辦方可讀
	GetByTicketID(ctx context.Context, callerID uuid.UUID, ticketID uuid.UUID) (*model.Ticket, error)
}

type TicketServiceImpl struct {
	repo      repository.TicketRepository
	eventRepo repository.EventRepository
}

func NewTicketService(repo repository.TicketRepository, eventRepo repository.EventRepository) TicketService {
	return &TicketServiceImpl{repo: repo, eventRepo: eventRepo}
}

func (s *TicketServiceImpl) ListByUser(ctx context.Context, userID uuid.UUID) ([]*model.Ticket, error) {
	return s.repo.ListByUserID(ctx, userID)
}

func (s *TicketServiceImpl) ListByEvent(ctx context.Context, callerID uuid.UUID, eventID uuid.UUID) ([]*model.Ticket, error) {
	event, err := s.eventRepo.FindByEventID(ctx, eventID)
	if err != nil {
		return nil, err
	}
	if event.OrganizerID != callerID {
		return nil, apperrors.ErrForbidden
	}
	return s.repo.ListByEventID(ctx, event.ID)
}

func (s *TicketServiceImpl) GetByTicketID(ctx context.Context, callerID uuid.UUID, ticketID uuid.UUID) (*model.Ticket, error) {
	ticket, err := s.repo.FindByTicketID(ctx, ticketID)
	if err != nil {
		return nil, err
	}
	if ticket.UserID == callerID {
		return ticket, nil
	}

	event, err := s.eventRepo.FindByID(ctx, ticket.EventID)
	if err != nil {
		return nil, err
	}
	if event.OrganizerID != callerID {
		return nil, apperrors.ErrForbidden
	}
	return ticket, nil
}
