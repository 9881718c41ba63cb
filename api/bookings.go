package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/skyfare/booking/internal/service/draft"
)

type BookingHandler struct {
	service draft.DraftUseCase
}

func NewBookingHandler(service draft.DraftUseCase) *BookingHandler {
	return &BookingHandler{service: service}
}

func (h *BookingHandler) Register(router *gin.RouterGroup) {
	router.POST("/:code/confirm", h.confirm)
}

// confirm marks a reservation as paid. Stands in for the payment provider
// callback.
func (h *BookingHandler) confirm(c *gin.Context) {
	booking, err := h.service.ConfirmBooking(c.Request.Context(), c.Param("code"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, booking)
}
