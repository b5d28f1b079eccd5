package queue

import (
	"context"

	"eventhub/internal/model"
)

type Delivery struct {
	Data *model.PurchaseRecord
	Ack  func()
	Nack func(requeue bool)
}

type PurchaseQueue interface {
	// 發佈已提交的購買紀錄
	PublishPurchase(ctx context.Context, record *model.PurchaseRecord) error
	// 訂閱購買紀錄
	SubscribePurchases(ctx context.Context) (<-chan Delivery, error)
}

type MemoryPurchaseQueue struct {
	// 使用 Go channel 模擬 MQ，供單機部署與測試
	ch chan *model.PurchaseRecord
}

func NewMemoryPurchaseQueue(bufferSize int) PurchaseQueue {
	return &MemoryPurchaseQueue{
		ch: make(chan *model.PurchaseRecord, bufferSize),
	}
}

func (q *MemoryPurchaseQueue) PublishPurchase(ctx context.Context, record *model.PurchaseRecord) error {
	select {
	case q.ch <- record:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (q *MemoryPurchaseQueue) SubscribePurchases(ctx context.Context) (<-chan Delivery, error) {
	out := make(chan Delivery)

	go func() {
		defer close(out)
		for {
			select {
			case <-ctx.Done():
				return
			case record, ok := <-q.ch:
				if !ok {
					return
				}

				out <- Delivery{
					Data: record,
					Ack:  func() {},
					Nack: func(requeue bool) {
						if requeue {
							q.ch <- record
						}
					},
				}
			}
		}
	}()

	return out, nil
}
