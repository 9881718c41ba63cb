package api

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/skyfare/booking/internal/service/checkin"
)

type CheckinHandler struct {
	service checkin.CheckinUseCase
}

func NewCheckinHandler(service checkin.CheckinUseCase) *CheckinHandler {
	return &CheckinHandler{service: service}
}

func (h *CheckinHandler) Register(router *gin.RouterGroup) {
	router.GET("/:code", h.eligibility)
	router.POST("/:code/complete", h.complete)
	router.POST("/:code/seat-change/quote", h.quote)
	router.POST("/:code/seat-change", h.propose)
	router.POST("/:code/seat-change/commit", h.commit)
	router.DELETE("/:code/seat-change", h.cancel)
}

func (h *CheckinHandler) eligibility(c *gin.Context) {
	lastName := c.Query("last_name")
	if lastName == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "last_name is required"})
		return
	}

	result, err := h.service.GetEligibility(c.Request.Context(), c.Param("code"), lastName)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

type pairRequest struct {
	PassengerID int64 `json:"passenger_id"`
	SegmentID   int64 `json:"segment_id"`
}

func (h *CheckinHandler) complete(c *gin.Context) {
	var req pairRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	pair, err := h.service.CompleteCheckin(c.Request.Context(), c.Param("code"), req.PassengerID, req.SegmentID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, pair)
}

type seatChangeRequest struct {
	PassengerID int64 `json:"passenger_id"`
	SegmentID   int64 `json:"segment_id"`
	NewSeatID   int64 `json:"new_seat_id"`
}

func (h *CheckinHandler) quote(c *gin.Context) {
	var req seatChangeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	calc, err := h.service.ComputeSeatChange(c.Request.Context(), c.Param("code"), req.PassengerID, req.SegmentID, req.NewSeatID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, calc)
}

func (h *CheckinHandler) propose(c *gin.Context) {
	var req seatChangeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	result, err := h.service.ProposeSeatChange(c.Request.Context(), c.Param("code"), req.PassengerID, req.SegmentID, req.NewSeatID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, result)
}

func (h *CheckinHandler) commit(c *gin.Context) {
	var req pairRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	committed, err := h.service.CommitSeatChange(c.Request.Context(), c.Param("code"), req.PassengerID, req.SegmentID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, committed)
}

func (h *CheckinHandler) cancel(c *gin.Context) {
	passengerID, err := strconv.ParseInt(c.Query("passenger_id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid passenger_id"})
		return
	}
	segmentID, err := strconv.ParseInt(c.Query("segment_id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid segment_id"})
		return
	}

	cancelled, err := h.service.CancelSeatChange(c.Request.Context(), c.Param("code"), passengerID, segmentID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, cancelled)
}
