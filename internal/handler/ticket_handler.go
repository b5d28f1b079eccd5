package handler

import (
	"net/http"

	"eventhub/internal/middleware"
	"eventhub/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type TicketHandler struct {
	service service.TicketService
}

func NewTicketHandler(service service.TicketService) *TicketHandler {
	return &TicketHandler{service: service}
}

func (h *TicketHandler) RegisterRoutes(r *gin.Engine, auth gin.HandlerFunc) {
	router := r.Group("/api/v1", auth)
	{
		router.GET("tickets", h.GetMyTickets)
		router.GET("tickets/:id", h.GetTicket)
	}
}

func (h *TicketHandler) GetMyTickets(c *gin.Context) {
	tickets, err := h.service.ListByUser(c, middleware.UserID(c))
	if err != nil {
		handleError(c, err, "GetMyTickets")
		return
	}

	c.JSON(http.StatusOK, gin.H{"tickets": tickets})
}

func (h *TicketHandler) GetTicket(c *gin.Context) {
	ticketID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid ticket id"})
		return
	}

	ticket, err := h.service.GetByTicketID(c, middleware.UserID(c), ticketID)
	if err != nil {
		handleError(c, err, "GetTicket")
		return
	}

	c.JSON(http.StatusOK, gin.H{"ticket": ticket})
}
