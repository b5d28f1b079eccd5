package worker

import (
	"context"

	"eventhub/internal/cache"
	"eventhub/internal/queue"
	"eventhub/pkg/logger"

	"go.uber.org/zap"
)

// StatsWorker 消費購買紀錄，維護主辦方儀表板彙總。
// 彙總是快取層的衍生資料：worker 失敗只影響快取新鮮度，不影響已提交的購買。
type StatsWorker interface {
	Start(ctx context.Context) error
}

type StatsWorkerImpl struct {
	stats cache.OrganizerStatsCache
	queue queue.PurchaseQueue
}

func NewStatsWorker(stats cache.OrganizerStatsCache, q queue.PurchaseQueue) StatsWorker {
	return &StatsWorkerImpl{
		stats: stats,
		queue: q,
	}
}

func (w *StatsWorkerImpl) Start(ctx context.Context) error {
	msgs, err := w.queue.SubscribePurchases(ctx)
	if err != nil {
		return err
	}

	go func() {
		log := logger.WithComponent("stats_worker")
		for msg := range msgs {
			record := msg.Data
			err := w.stats.ApplyPurchase(ctx, record.OrganizerID, record.Quantity, record.TotalPrice)
			if err != nil {
				log.Warn("apply purchase to stats failed",
					zap.String("ticket_id", record.TicketID.String()),
					zap.Error(err))
				msg.Nack(true)
				continue
			}
			msg.Ack()
		}
	}()
	return nil
}
