package handler

import (
	"net/http"

	"eventhub/internal/middleware"
	"eventhub/internal/model"
	"eventhub/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type EventHandler struct {
	service       service.EventService
	ticketService service.TicketService
}

func NewEventHandler(service service.EventService, ticketService service.TicketService) *EventHandler {
	return &EventHandler{service: service, ticketService: ticketService}
}

func (h *EventHandler) RegisterRoutes(r *gin.Engine, auth gin.HandlerFunc) {
	public := r.Group("/api/v1")
	{
		public.GET("events", h.GetEvents)
		public.GET("events/search", h.SearchEvents)
		public.GET("events/:id", h.GetEvent)
	}

	organizer := r.Group("/api/v1", auth, middleware.RequireRole(middleware.RoleOrganizer))
	{
		organizer.POST("events", h.CreateEvent)
		organizer.PUT("events/:id", h.UpdateEvent)
		organizer.POST("events/:id/open", h.OpenForSale)
		organizer.GET("events/:id/tickets", h.GetEventTickets)
		organizer.GET("organizer/events", h.GetOrganizerEvents)
		organizer.GET("organizer/stats", h.GetOrganizerStats)
	}
}

func (h *EventHandler) GetEvents(c *gin.Context) {
	events, err := h.service.List(c)
	if err != nil {
		handleError(c, err, "GetEvents")
		return
	}

	c.JSON(http.StatusOK, gin.H{"events": events})
}

func (h *EventHandler) SearchEvents(c *gin.Context) {
	query := c.Query("q")
	category := c.DefaultQuery("category", "All")

	events, err := h.service.Search(c, query, category)
	if err != nil {
		handleError(c, err, "SearchEvents")
		return
	}

	c.JSON(http.StatusOK, gin.H{"events": events})
}

func (h *EventHandler) GetEvent(c *gin.Context) {
	eventID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid event id"})
		return
	}

	event, err := h.service.GetByEventID(c, eventID)
	if err != nil {
		handleError(c, err, "GetEvent")
		return
	}

	c.JSON(http.StatusOK, gin.H{"event": event})
}

func (h *EventHandler) CreateEvent(c *gin.Context) {
	var req model.CreateEventRequest
	if err := BindJson(c, &req); err != nil {
		return
	}

	event, err := h.service.Create(c, middleware.UserID(c), req)
	if err != nil {
		handleError(c, err, "CreateEvent")
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"event":   event,
		"message": "Event created successfully",
	})
}

// UpdateEventRequest 部份更新：只帶要改的欄位
type UpdateEventRequest struct {
	Title       *string  `json:"title"`
	Description *string  `json:"description"`
	Date        *string  `json:"date"`
	Time        *string  `json:"time"`
	Location    *string  `json:"location"`
	Category    *string  `json:"category"`
	ImageURL    *string  `json:"image_url"`
	Price       *float64 `json:"price"`
	Status      *string  `json:"status"`
}

func (h *EventHandler) UpdateEvent(c *gin.Context) {
	eventID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid event id"})
		return
	}

	var req UpdateEventRequest
	if err := BindJson(c, &req); err != nil {
		return
	}

	params := model.UpdateEventParams{
		Title:       req.Title,
		Description: req.Description,
		Date:        req.Date,
		Time:        req.Time,
		Location:    req.Location,
		Category:    req.Category,
		ImageURL:    req.ImageURL,
		Price:       req.Price,
	}
	if req.Status != nil {
		status := model.EventStatus(*req.Status)
		params.Status = &status
	}

	event, err := h.service.UpdateByEventID(c, middleware.UserID(c), eventID, params)
	if err != nil {
		handleError(c, err, "UpdateEvent")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"event":   event,
		"message": "Event updated successfully",
	})
}

func (h *EventHandler) OpenForSale(c *gin.Context) {
	eventID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid event id"})
		return
	}

	if err := h.service.OpenForSale(c, middleware.UserID(c), eventID); err != nil {
		handleError(c, err, "OpenForSale")
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Event opened for sale"})
}

func (h *EventHandler) GetEventTickets(c *gin.Context) {
	eventID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid event id"})
		return
	}

	tickets, err := h.ticketService.ListByEvent(c, middleware.UserID(c), eventID)
	if err != nil {
		handleError(c, err, "GetEventTickets")
		return
	}

	c.JSON(http.StatusOK, gin.H{"tickets": tickets})
}

func (h *EventHandler) GetOrganizerEvents(c *gin.Context) {
	events, err := h.service.ListByOrganizer(c, middleware.UserID(c))
	if err != nil {
		handleError(c, err, "GetOrganizerEvents")
		return
	}

	c.JSON(http.StatusOK, gin.H{"events": events})
}

func (h *EventHandler) GetOrganizerStats(c *gin.Context) {
	stats, err := h.service.Stats(c, middleware.UserID(c))
	if err != nil {
		handleError(c, err, "GetOrganizerStats")
		return
	}

	c.JSON(http.StatusOK, gin.H{"stats": stats})
}
