package api

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/skyfare/booking/internal/pricing"
	"github.com/skyfare/booking/internal/service/flights"
)

type FlightHandler struct {
	service flights.FlightUseCase
}

func NewFlightHandler(service flights.FlightUseCase) *FlightHandler {
	return &FlightHandler{service: service}
}

func (h *FlightHandler) Register(router *gin.RouterGroup) {
	router.GET("/", h.list)
	router.GET("/:id", h.get)
	router.GET("/:id/seats", h.seats)
	router.GET("/ancillaries", h.ancillaries)
}

func (h *FlightHandler) list(c *gin.Context) {
	flights, err := h.service.List(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, flights)
}

func (h *FlightHandler) get(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid id"})
		return
	}
	flight, err := h.service.GetByID(c.Request.Context(), id)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, flight)
}

func (h *FlightHandler) seats(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid id"})
		return
	}
	cabinClassID, err := strconv.ParseInt(c.Query("cabin_class_id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid cabin_class_id"})
		return
	}

	seats, err := h.service.ListSeats(c.Request.Context(), id, cabinClassID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, seats)
}

func (h *FlightHandler) ancillaries(c *gin.Context) {
	c.JSON(http.StatusOK, pricing.Ancillaries())
}
