package model

import (
	"time"

	"github.com/google/uuid"
)

// PurchaseRequest 購票請求
type PurchaseRequest struct {
	EventID   uuid.UUID `json:"event_id" binding:"required"`
	Quantity  int       `json:"quantity" binding:"required,min=1"`
	BuyerInfo BuyerInfo `json:"buyer_info" binding:"required"`

	// 由 middleware / Idempotency-Key header 填入，不從 body 綁定
	UserID         uuid.UUID `json:"-"`
	IdempotencyKey string    `json:"-"`
}

// PurchaseRecord 已提交購買的不可變摘要，發佈到 stream 供 worker 彙總
type PurchaseRecord struct {
	TicketID     uuid.UUID `json:"ticket_id"`
	EventID      uuid.UUID `json:"event_id"`
	OrganizerID  uuid.UUID `json:"organizer_id"`
	UserID       uuid.UUID `json:"user_id"`
	Quantity     int       `json:"quantity"`
	TotalPrice   float64   `json:"total_price"`
	PurchaseDate time.Time `json:"purchase_date"`
}
