package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"eventhub/internal/cache"
	"eventhub/internal/model"
	"eventhub/internal/queue"
	"eventhub/internal/repository"
	apperrors "eventhub/pkg/app_errors"
	"eventhub/pkg/logger"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

type PurchaseService interface {
	// Purchase 原子性購票：容量檢查、attendees 累加與票券寫入
	// 在同一個資料庫交易內完成，全部成功或全部不發生。
	Purchase(ctx context.Context, req model.PurchaseRequest) (*model.Ticket, error)
}

type PurchaseServiceImpl struct {
	txm     repository.TxManager
	events  repository.EventRepository
	tickets repository.TicketRepository
	gate    cache.AvailabilityGate
	queue   queue.PurchaseQueue
}

func NewPurchaseService(
	txm repository.TxManager,
	events repository.EventRepository,
	tickets repository.TicketRepository,
	gate cache.AvailabilityGate,
	purchaseQueue queue.PurchaseQueue,
) PurchaseService {
	return &PurchaseServiceImpl{
		txm:     txm,
		events:  events,
		tickets: tickets,
		gate:    gate,
		queue:   purchaseQueue,
	}
}

func (s *PurchaseServiceImpl) Purchase(ctx context.Context, req model.PurchaseRequest) (*model.Ticket, error) {
	if req.Quantity < 1 {
		return nil, apperrors.ErrInvalidQuantity
	}
	if strings.TrimSpace(req.BuyerInfo.Name) == "" || strings.TrimSpace(req.BuyerInfo.Email) == "" {
		return nil, apperrors.ErrInvalidInput
	}

	// 帶 Idempotency-Key 的重送直接回傳先前提交的票券，不再動庫存
	if req.IdempotencyKey != "" {
		existing, err := s.tickets.FindByIdempotencyKey(ctx, req.UserID, req.IdempotencyKey)
		if err == nil {
			return existing, nil
		}
		if !errors.Is(err, apperrors.ErrTicketNotFound) {
			return nil, err
		}
	}

	// 1. Redis 閘門快速失敗：已售完就不用打資料庫。
	// 閘門只是建議性的，Postgres 的條件更新才是權威。
	reserved := false
	if s.gate != nil {
		decision, err := s.gate.Reserve(ctx, req.EventID, req.Quantity)
		if err != nil {
			logger.WithComponent("purchase").Warn("availability gate unavailable, falling through",
				zap.String("event_id", req.EventID.String()), zap.Error(err))
		} else {
			switch decision {
			case cache.GateSoldOut:
				return nil, apperrors.ErrInsufficientCapacity
			case cache.GateReserved:
				reserved = true
			}
		}
	}

	var idempotencyKey *string
	if req.IdempotencyKey != "" {
		idempotencyKey = &req.IdempotencyKey
	}

	// 2. 單一交易：條件累加 attendees + 寫入票券。
	// 任一步失敗則兩者都回滾，不會留下半套狀態。
	var ticket *model.Ticket
	var record *model.PurchaseRecord
	err := s.txm.WithTx(ctx, func(txCtx context.Context) error {
		res, err := s.events.IncrementAttendees(txCtx, req.EventID, req.Quantity)
		if err != nil {
			return err
		}

		ticket = &model.Ticket{
			TicketID:       uuid.New(),
			EventID:        res.ID,
			UserID:         req.UserID,
			Quantity:       req.Quantity,
			TotalPrice:     res.Price * float64(req.Quantity),
			BuyerInfo:      req.BuyerInfo,
			Status:         model.TicketStatusConfirmed,
			IdempotencyKey: idempotencyKey,
			PurchaseDate:   time.Now().UTC(),
		}
		if _, err := s.tickets.Insert(txCtx, ticket); err != nil {
			return err
		}

		record = &model.PurchaseRecord{
			TicketID:     ticket.TicketID,
			EventID:      req.EventID,
			OrganizerID:  res.OrganizerID,
			UserID:       req.UserID,
			Quantity:     req.Quantity,
			TotalPrice:   ticket.TotalPrice,
			PurchaseDate: ticket.PurchaseDate,
		}
		return nil
	})
	if err != nil {
		// 3. 回補閘門：用 context.Background() 確保即使請求已取消也會執行
		if reserved {
			if rerr := s.gate.Release(context.Background(), req.EventID, req.Quantity); rerr != nil {
				logger.WithComponent("purchase").Error("release gate reservation failed",
					zap.String("event_id", req.EventID.String()), zap.Error(rerr))
			}
		}

		// 同一使用者同一 key 的並發重送：輸的一方回讀贏家的票券
		if errors.Is(err, apperrors.ErrIdempotencyConflict) && req.IdempotencyKey != "" {
			existing, ferr := s.tickets.FindByIdempotencyKey(ctx, req.UserID, req.IdempotencyKey)
			if ferr == nil {
				return existing, nil
			}
		}
		return nil, err
	}

	// 4. 提交後才發佈購買紀錄；發佈失敗只記 log，絕不取消已提交的購買
	if s.queue != nil {
		if err := s.queue.PublishPurchase(ctx, record); err != nil {
			logger.WithComponent("purchase").Warn("publish purchase record failed",
				zap.String("ticket_id", ticket.TicketID.String()), zap.Error(err))
		}
	}

	return ticket, nil
}
