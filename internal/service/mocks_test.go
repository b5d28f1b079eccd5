package service_test

import (
	"context"

	"eventhub/internal/cache"
	"eventhub/internal/model"
	"eventhub/internal/repository"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"
)

type EventRepositoryMock struct {
	mock.Mock
}

func (m *EventRepositoryMock) Create(ctx context.Context, event *model.Event) (*model.Event, error) {
	args := m.Called(ctx, event)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Event), args.Error(1)
}

func (m *EventRepositoryMock) List(ctx context.Context) ([]*model.Event, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*model.Event), args.Error(1)
}

func (m *EventRepositoryMock) ListByOrganizer(ctx context.Context, organizerID uuid.UUID) ([]*model.Event, error) {
	args := m.Called(ctx, organizerID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*model.Event), args.Error(1)
}

func (m *EventRepositoryMock) Search(ctx context.Context, query string, category string) ([]*model.Event, error) {
	args := m.Called(ctx, query, category)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*model.Event), args.Error(1)
}

func (m *EventRepositoryMock) FindByID(ctx context.Context, id int) (*model.Event, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Event), args.Error(1)
}

func (m *EventRepositoryMock) FindByEventID(ctx context.Context, eventID uuid.UUID) (*model.Event, error) {
	args := m.Called(ctx, eventID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Event), args.Error(1)
}

func (m *EventRepositoryMock) Update(ctx context.Context, id int, params model.UpdateEventParams) (*model.Event, error) {
	args := m.Called(ctx, id, params)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Event), args.Error(1)
}

func (m *EventRepositoryMock) StatsByOrganizer(ctx context.Context, organizerID uuid.UUID) (*model.OrganizerStats, error) {
	args := m.Called(ctx, organizerID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.OrganizerStats), args.Error(1)
}

func (m *EventRepositoryMock) IncrementAttendees(ctx context.Context, eventID uuid.UUID, quantity int) (*repository.ReservedEvent, error) {
	args := m.Called(ctx, eventID, quantity)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*repository.ReservedEvent), args.Error(1)
}

type AvailabilityGateMock struct {
	mock.Mock
}

func (m *AvailabilityGateMock) WarmUp(ctx context.Context, eventID uuid.UUID, available int) error {
	args := m.Called(ctx, eventID, available)
	return args.Error(0)
}

func (m *AvailabilityGateMock) Reserve(ctx context.Context, eventID uuid.UUID, quantity int) (cache.GateDecision, error) {
	args := m.Called(ctx, eventID, quantity)
	return args.Get(0).(cache.GateDecision), args.Error(1)
}

func (m *AvailabilityGateMock) Release(ctx context.Context, eventID uuid.UUID, quantity int) error {
	args := m.Called(ctx, eventID, quantity)
	return args.Error(0)
}

type OrganizerStatsCacheMock struct {
	mock.Mock
}

func (m *OrganizerStatsCacheMock) Get(ctx context.Context, organizerID uuid.UUID) (*model.OrganizerStats, error) {
	args := m.Called(ctx, organizerID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.OrganizerStats), args.Error(1)
}

func (m *OrganizerStatsCacheMock) Set(ctx context.Context, organizerID uuid.UUID, stats *model.OrganizerStats) error {
	args := m.Called(ctx, organizerID, stats)
	return args.Error(0)
}

func (m *OrganizerStatsCacheMock) ApplyPurchase(ctx context.Context, organizerID uuid.UUID, quantity int, revenue float64) error {
	args := m.Called(ctx, organizerID, quantity, revenue)
	return args.Error(0)
}
