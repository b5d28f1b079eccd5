package service_test

import (
	"context"
	"sync"

	"eventhub/internal/cache"
	"eventhub/internal/model"
	"eventhub/internal/queue"
	"eventhub/internal/repository"
	apperrors "eventhub/pkg/app_errors"

	"github.com/google/uuid"
)

// fakeStore 以記憶體模擬資料庫：交易期間持有全域鎖，
// 所以並發交易是可串行化的，條件累加跟真正的資料庫一樣不會超賣。
type fakeStore struct {
	mu      sync.Mutex
	events  map[uuid.UUID]*model.Event
	tickets []*model.Ticket
	nextID  int

	insertTicketErr error // 注入錯誤以測試回滾
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		events: make(map[uuid.UUID]*model.Event),
	}
}

type txFlagKey struct{}

func inTx(ctx context.Context) bool {
	return ctx.Value(txFlagKey{}) != nil
}

// lock 交易內已持鎖，不再重複上鎖
func (s *fakeStore) lock(ctx context.Context) func() {
	if inTx(ctx) {
		return func() {}
	}
	s.mu.Lock()
	return s.mu.Unlock
}

func (s *fakeStore) addEvent(event *model.Event) *model.Event {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.nextID++
	event.ID = s.nextID
	if event.EventID == uuid.Nil {
		event.EventID = uuid.New()
	}
	s.events[event.EventID] = event
	return event
}

func (s *fakeStore) eventByEventID(eventID uuid.UUID) *model.Event {
	s.mu.Lock()
	defer s.mu.Unlock()
	if e, ok := s.events[eventID]; ok {
		copied := *e
		return &copied
	}
	return nil
}

func (s *fakeStore) ticketCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.tickets)
}

func (s *fakeStore) snapshot() ([]*model.Ticket, map[uuid.UUID]model.Event) {
	tickets := make([]*model.Ticket, len(s.tickets))
	copy(tickets, s.tickets)
	events := make(map[uuid.UUID]model.Event, len(s.events))
	for k, v := range s.events {
		events[k] = *v
	}
	return tickets, events
}

func (s *fakeStore) restore(tickets []*model.Ticket, events map[uuid.UUID]model.Event) {
	s.tickets = tickets
	for k, v := range events {
		copied := v
		s.events[k] = &copied
	}
	for k := range s.events {
		if _, ok := events[k]; !ok {
			delete(s.events, k)
		}
	}
}

// WithTx 實作 repository.TxManager：全程持鎖，失敗時還原快照
func (s *fakeStore) WithTx(ctx context.Context, fn func(ctx context.Context) error) error {
	if inTx(ctx) {
		return fn(ctx)
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	tickets, events := s.snapshot()
	if err := fn(context.WithValue(ctx, txFlagKey{}, true)); err != nil {
		s.restore(tickets, events)
		return err
	}
	return nil
}

// fakeEventRepo 實作 repository.EventRepository 中購買流程會用到的部份
type fakeEventRepo struct {
	store *fakeStore
}

func (r *fakeEventRepo) IncrementAttendees(ctx context.Context, eventID uuid.UUID, quantity int) (*repository.ReservedEvent, error) {
	if quantity < 1 {
		return nil, apperrors.ErrInvalidQuantity
	}
	unlock := r.store.lock(ctx)
	defer unlock()

	event, ok := r.store.events[eventID]
	if !ok {
		return nil, apperrors.ErrEventNotFound
	}
	if event.Attendees+quantity > event.Capacity {
		return nil, apperrors.ErrInsufficientCapacity
	}
	event.Attendees += quantity
	return &repository.ReservedEvent{
		ID:          event.ID,
		OrganizerID: event.OrganizerID,
		Price:       event.Price,
	}, nil
}

func (r *fakeEventRepo) Create(ctx context.Context, event *model.Event) (*model.Event, error) {
	return r.store.addEvent(event), nil
}

func (r *fakeEventRepo) FindByEventID(ctx context.Context, eventID uuid.UUID) (*model.Event, error) {
	unlock := r.store.lock(ctx)
	defer unlock()
	if e, ok := r.store.events[eventID]; ok {
		copied := *e
		return &copied, nil
	}
	return nil, apperrors.ErrEventNotFound
}

func (r *fakeEventRepo) FindByID(ctx context.Context, id int) (*model.Event, error) {
	unlock := r.store.lock(ctx)
	defer unlock()
	for _, e := range r.store.events {
		if e.ID == id {
			copied := *e
			return &copied, nil
		}
	}
	return nil, apperrors.ErrEventNotFound
}

func (r *fakeEventRepo) List(ctx context.Context) ([]*model.Event, error) {
	return nil, nil
}

func (r *fakeEventRepo) ListByOrganizer(ctx context.Context, organizerID uuid.UUID) ([]*model.Event, error) {
	return nil, nil
}

func (r *fakeEventRepo) Search(ctx context.Context, query string, category string) ([]*model.Event, error) {
	return nil, nil
}

func (r *fakeEventRepo) Update(ctx context.Context, id int, params model.UpdateEventParams) (*model.Event, error) {
	return nil, apperrors.ErrEventNotFound
}

func (r *fakeEventRepo) StatsByOrganizer(ctx context.Context, organizerID uuid.UUID) (*model.OrganizerStats, error) {
	return &model.OrganizerStats{}, nil
}

// fakeTicketRepo 實作 repository.TicketRepository
type fakeTicketRepo struct {
	store *fakeStore
}

func (r *fakeTicketRepo) Insert(ctx context.Context, ticket *model.Ticket) (*model.Ticket, error) {
	unlock := r.store.lock(ctx)
	defer unlock()

	if r.store.insertTicketErr != nil {
		return nil, r.store.insertTicketErr
	}
	if ticket.IdempotencyKey != nil {
		for _, t := range r.store.tickets {
			if t.UserID == ticket.UserID && t.IdempotencyKey != nil && *t.IdempotencyKey == *ticket.IdempotencyKey {
				return nil, apperrors.ErrIdempotencyConflict
			}
		}
	}
	copied := *ticket
	r.store.tickets = append(r.store.tickets, &copied)
	return ticket, nil
}

func (r *fakeTicketRepo) ListByUserID(ctx context.Context, userID uuid.UUID) ([]*model.Ticket, error) {
	unlock := r.store.lock(ctx)
	defer unlock()
	tickets := make([]*model.Ticket, 0)
	for _, t := range r.store.tickets {
		if t.UserID == userID {
			copied := *t
			tickets = append(tickets, &copied)
		}
	}
	return tickets, nil
}

func (r *fakeTicketRepo) ListByEventID(ctx context.Context, eventID int) ([]*model.Ticket, error) {
	unlock := r.store.lock(ctx)
	defer unlock()
	tickets := make([]*model.Ticket, 0)
	for _, t := range r.store.tickets {
		if t.EventID == eventID {
			copied := *t
			tickets = append(tickets, &copied)
		}
	}
	return tickets, nil
}

func (r *fakeTicketRepo) FindByTicketID(ctx context.Context, ticketID uuid.UUID) (*model.Ticket, error) {
	unlock := r.store.lock(ctx)
	defer unlock()
	for _, t := range r.store.tickets {
		if t.TicketID == ticketID {
			copied := *t
			return &copied, nil
		}
	}
	return nil, apperrors.ErrTicketNotFound
}

func (r *fakeTicketRepo) FindByIdempotencyKey(ctx context.Context, userID uuid.UUID, key string) (*model.Ticket, error) {
	unlock := r.store.lock(ctx)
	defer unlock()
	for _, t := range r.store.tickets {
		if t.UserID == userID && t.IdempotencyKey != nil && *t.IdempotencyKey == key {
			copied := *t
			return &copied, nil
		}
	}
	return nil, apperrors.ErrTicketNotFound
}

// fakeGate 記錄 Reserve/Release 呼叫的 AvailabilityGate
type fakeGate struct {
	mu        sync.Mutex
	available map[uuid.UUID]int
	reserves  int
	releases  int
}

func newFakeGate() *fakeGate {
	return &fakeGate{available: make(map[uuid.UUID]int)}
}

func (g *fakeGate) WarmUp(ctx context.Context, eventID uuid.UUID, available int) error {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.available[eventID] = available
	return nil
}

func (g *fakeGate) Reserve(ctx context.Context, eventID uuid.UUID, quantity int) (cache.GateDecision, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	available, ok := g.available[eventID]
	if !ok {
		return cache.GateNotWarmed, nil
	}
	if available < quantity {
		return cache.GateSoldOut, nil
	}
	g.available[eventID] = available - quantity
	g.reserves++
	return cache.GateReserved, nil
}

func (g *fakeGate) Release(ctx context.Context, eventID uuid.UUID, quantity int) error {
	g.mu.Lock()
	defer g.mu.Unlock()
	if _, ok := g.available[eventID]; ok {
		g.available[eventID] += quantity
	}
	g.releases++
	return nil
}

// fakeQueue 收集已發佈的購買紀錄
type fakeQueue struct {
	mu      sync.Mutex
	records []*model.PurchaseRecord
	err     error
}

func (q *fakeQueue) PublishPurchase(ctx context.Context, record *model.PurchaseRecord) error {
	q.mu.Lock()
	defer q.mu.Unlock()
	if q.err != nil {
		return q.err
	}
	q.records = append(q.records, record)
	return nil
}

func (q *fakeQueue) SubscribePurchases(ctx context.Context) (<-chan queue.Delivery, error) {
	ch := make(chan queue.Delivery)
	close(ch)
	return ch, nil
}

func (q *fakeQueue) published() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.records)
}
