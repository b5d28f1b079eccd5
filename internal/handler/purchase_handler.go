package handler

import (
	"net/http"

	"eventhub/internal/middleware"
	"eventhub/internal/model"
	"eventhub/internal/service"

	"github.com/gin-gonic/gin"
)

type PurchaseHandler struct {
	service service.PurchaseService
}

func NewPurchaseHandler(service service.PurchaseService) *PurchaseHandler {
	return &PurchaseHandler{service: service}
}

func (h *PurchaseHandler) RegisterRoutes(r *gin.Engine, auth gin.HandlerFunc) {
	router := r.Group("/api/v1", auth)
	{
		router.POST("tickets/purchase", middleware.RequireRole(middleware.RoleAttendee), h.PurchaseTickets)
	}
}

func (h *PurchaseHandler) PurchaseTickets(c *gin.Context) {
	var req model.PurchaseRequest

	if err := BindJson(c, &req); err != nil {
		return
	}

	req.UserID = middleware.UserID(c)
	req.IdempotencyKey = c.GetHeader("Idempotency-Key")

	ticket, err := h.service.Purchase(c, req)
	if err != nil {
		handleError(c, err, "PurchaseTickets")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"ticket":  ticket,
		"message": "Tickets purchased successfully",
	})
}
