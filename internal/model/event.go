package model

import (
	"time"

	"github.com/google/uuid"
)

// EventStatus 活動發佈狀態
type EventStatus string

const (
	EventStatusActive    EventStatus = "active"
	EventStatusDraft     EventStatus = "draft"
	EventStatusCancelled EventStatus = "cancelled"
)

func (s EventStatus) IsValid() bool {
	switch s {
	case EventStatusActive, EventStatusDraft, EventStatusCancelled:
		return true
	}
	return false
}

type Event struct {
	ID          int         `json:"id" db:"id"`
	EventID     uuid.UUID   `json:"event_id" db:"event_id"`
	OrganizerID uuid.UUID   `json:"organizer_id" db:"organizer_id"`
	Title       string      `json:"title" db:"title"`
	Description *string     `json:"description,omitempty" db:"description"`
	Date        string      `json:"date" db:"date"`
	Time        string      `json:"time" db:"time"`
	Location    string      `json:"location" db:"location"`
	Category    string      `json:"category" db:"category"`
	ImageURL    *string     `json:"image_url,omitempty" db:"image_url"`
	Price       float64     `json:"price" db:"price"`
	Capacity    int         `json:"capacity" db:"capacity"`
	Attendees   int         `json:"attendees" db:"attendees"`
	Status      EventStatus `json:"status" db:"status"`
	CreatedAt   time.Time   `json:"created_at" db:"created_at"`
	UpdatedAt   time.Time   `json:"updated_at" db:"updated_at"`
}

// Available 剩餘可售座位數
func (e *Event) Available() int {
	return e.Capacity - e.Attendees
}

type UpdateEventParams struct {
	Title       *string
	Description *string
	Date        *string
	Time        *string
	Location    *string
	Category    *string
	ImageURL    *string
	Price       *float64
	Status      *EventStatus
}

// CreateEventRequest 建立活動請求
type CreateEventRequest struct {
	Title       string  `json:"title" binding:"required"`
	Description *string `json:"description"`
	Date        string  `json:"date" binding:"required"`
	Time        string  `json:"time" binding:"required"`
	Location    string  `json:"location" binding:"required"`
	Category    string  `json:"category" binding:"required"`
	ImageURL    *string `json:"image_url"`
	Price       float64 `json:"price" binding:"min=0"`
	Capacity    int     `json:"capacity" binding:"min=0"`
}

// OrganizerStats 主辦方儀表板彙總
type OrganizerStats struct {
	TotalEvents    int     `json:"total_events"`
	TotalAttendees int     `json:"total_attendees"`
	TotalRevenue   float64 `json:"total_revenue"`
}
