package api

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/skyfare/booking/internal/domain"
	"github.com/skyfare/booking/internal/service/draft"
)

type DraftHandler struct {
	service draft.DraftUseCase
}

func NewDraftHandler(service draft.DraftUseCase) *DraftHandler {
	return &DraftHandler{service: service}
}

func (h *DraftHandler) Register(router *gin.RouterGroup) {
	router.POST("/", h.create)
	router.GET("/:id", h.get)
	router.POST("/:id/passengers", h.addPassenger)
	router.PATCH("/:id/passengers/:passengerId", h.updatePassenger)
	router.DELETE("/:id/passengers/:passengerId", h.removePassenger)
	router.PUT("/:id/flights/:phase", h.selectFlight)
	router.POST("/:id/seats", h.selectSeat)
	router.PUT("/:id/baggage", h.setBaggage)
	router.PUT("/:id/meals", h.setMeal)
	router.PUT("/:id/ancillaries", h.setAncillaries)
	router.PUT("/:id/selections/:phase", h.replaceSelections)
	router.POST("/:id/phase/advance", h.advancePhase)
	router.POST("/:id/phase/retreat", h.retreatPhase)
	router.POST("/:id/submit", h.submit)
}

func (h *DraftHandler) create(c *gin.Context) {
	var req draft.CreateDraftInput
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	created, err := h.service.CreateDraft(c.Request.Context(), req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, created)
}

func (h *DraftHandler) get(c *gin.Context) {
	found, err := h.service.GetDraft(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, found)
}

func (h *DraftHandler) addPassenger(c *gin.Context) {
	updated, err := h.service.AddPassenger(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, updated)
}

func (h *DraftHandler) updatePassenger(c *gin.Context) {
	passengerID, ok := intParam(c, "passengerId")
	if !ok {
		return
	}

	var patch draft.PassengerPatch
	if err := c.ShouldBindJSON(&patch); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	updated, err := h.service.UpdatePassenger(c.Request.Context(), c.Param("id"), passengerID, patch)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, updated)
}

func (h *DraftHandler) removePassenger(c *gin.Context) {
	passengerID, ok := intParam(c, "passengerId")
	if !ok {
		return
	}

	updated, err := h.service.RemovePassenger(c.Request.Context(), c.Param("id"), passengerID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, updated)
}

func (h *DraftHandler) selectFlight(c *gin.Context) {
	phase, ok := phaseParam(c)
	if !ok {
		return
	}

	var req draft.SelectFlightInput
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	updated, err := h.service.SelectFlight(c.Request.Context(), c.Param("id"), phase, req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, updated)
}

type selectSeatRequest struct {
	PassengerID int   `json:"passenger_id"`
	SeatID      int64 `json:"seat_id"`
}

func (h *DraftHandler) selectSeat(c *gin.Context) {
	var req selectSeatRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	updated, err := h.service.SelectSeat(c.Request.Context(), c.Param("id"), req.PassengerID, req.SeatID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, updated)
}

type setBaggageRequest struct {
	PassengerID int                    `json:"passenger_id"`
	Package     *domain.BaggagePackage `json:"package"`
}

func (h *DraftHandler) setBaggage(c *gin.Context) {
	var req setBaggageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	updated, err := h.service.SetBaggage(c.Request.Context(), c.Param("id"), req.PassengerID, req.Package)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, updated)
}

type setMealRequest struct {
	PassengerID int  `json:"passenger_id"`
	Included    bool `json:"included"`
}

func (h *DraftHandler) setMeal(c *gin.Context) {
	var req setMealRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	updated, err := h.service.SetMeal(c.Request.Context(), c.Param("id"), req.PassengerID, req.Included)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, updated)
}

type setAncillariesRequest struct {
	PassengerID int     `json:"passenger_id"`
	ServiceIDs  []int64 `json:"service_ids"`
}

func (h *DraftHandler) setAncillaries(c *gin.Context) {
	var req setAncillariesRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	updated, err := h.service.SetAncillaries(c.Request.Context(), c.Param("id"), req.PassengerID, req.ServiceIDs)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, updated)
}

func (h *DraftHandler) replaceSelections(c *gin.Context) {
	phase, ok := phaseParam(c)
	if !ok {
		return
	}

	var req domain.LegSelections
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	updated, err := h.service.ReplaceLegSelections(c.Request.Context(), c.Param("id"), phase, &req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, updated)
}

func (h *DraftHandler) advancePhase(c *gin.Context) {
	updated, err := h.service.AdvancePhase(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, updated)
}

func (h *DraftHandler) retreatPhase(c *gin.Context) {
	updated, err := h.service.RetreatPhase(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, updated)
}

func (h *DraftHandler) submit(c *gin.Context) {
	result, err := h.service.SubmitDraft(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, result)
}

func intParam(c *gin.Context, name string) (int, bool) {
	value, err := strconv.Atoi(c.Param(name))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid " + name})
		return 0, false
	}
	return value, true
}

func phaseParam(c *gin.Context) (domain.Phase, bool) {
	switch phase := domain.Phase(c.Param("phase")); phase {
	case domain.PhaseDepart, domain.PhaseReturn:
		return phase, true
	default:
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid phase"})
		return "", false
	}
}
