package model

import (
	"time"

	"github.com/google/uuid"
)

// TicketStatus 票券狀態類型
type TicketStatus string

const (
	TicketStatusConfirmed        TicketStatus = "confirmed"
	TicketStatusPaid             TicketStatus = "paid"
	TicketStatusRequestingRefund TicketStatus = "requesting_refund"
	TicketStatusRefunded         TicketStatus = "refunded"
)

// IsValid 驗證狀態是否有效
func (s TicketStatus) IsValid() bool {
	switch s {
	case TicketStatusConfirmed, TicketStatusPaid, TicketStatusRequestingRefund, TicketStatusRefunded:
		return true
	}
	return false
}

// BuyerInfo 購票時的聯絡資料快照，不是對 user 資料的引用
type BuyerInfo struct {
	Name  string `json:"name" binding:"required"`
	Email string `json:"email" binding:"required,email"`
	Phone string `json:"phone,omitempty"`
}

// Ticket 票券模型：購買成功後不可變
type Ticket struct {
	ID             int          `json:"id" db:"id"`
	TicketID       uuid.UUID    `json:"ticket_id" db:"ticket_id"`
	EventID        int          `json:"event_id" db:"event_id"`
	UserID         uuid.UUID    `json:"user_id" db:"user_id"`
	Quantity       int          `json:"quantity" db:"quantity"`
	TotalPrice     float64      `json:"total_price" db:"total_price"`
	BuyerInfo      BuyerInfo    `json:"buyer_info" db:"-"`
	Status         TicketStatus `json:"status" db:"status"`
	IdempotencyKey *string      `json:"-" db:"idempotency_key"`
	PurchaseDate   time.Time    `json:"purchase_date" db:"purchase_date"`

	Event *Event `json:"event,omitempty" db:"-"`
}

// TicketResponse 票券響應
type TicketResponse struct {
	TicketID     uuid.UUID `json:"ticket_id"`
	EventID      uuid.UUID `json:"event_id"`
	Quantity     int       `json:"quantity"`
	TotalPrice   float64   `json:"total_price"`
	Status       string    `json:"status"`
	PurchaseDate string    `json:"purchase_date"`
}
