package api

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/skyfare/booking/internal/domain"
	"github.com/skyfare/booking/internal/service/draft"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

type MockDraftUseCase struct {
	mock.Mock
}

func (m *MockDraftUseCase) CreateDraft(ctx context.Context, input draft.CreateDraftInput) (*domain.BookingDraft, error) {
	args := m.Called(ctx, input)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.BookingDraft), args.Error(1)
}

func (m *MockDraftUseCase) GetDraft(ctx context.Context, id string) (*domain.BookingDraft, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.BookingDraft), args.Error(1)
}

func (m *MockDraftUseCase) UpdatePassenger(ctx context.Context, draftID string, passengerID int, patch draft.PassengerPatch) (*domain.BookingDraft, error) {
	args := m.Called(ctx, draftID, passengerID, patch)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.BookingDraft), args.Error(1)
}

func (m *MockDraftUseCase) AddPassenger(ctx context.Context, draftID string) (*domain.BookingDraft, error) {
	args := m.Called(ctx, draftID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.BookingDraft), args.Error(1)
}

func (m *MockDraftUseCase) RemovePassenger(ctx context.Context, draftID string, passengerID int) (*domain.BookingDraft, error) {
	args := m.Called(ctx, draftID, passengerID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.BookingDraft), args.Error(1)
}

func (m *MockDraftUseCase) SelectFlight(ctx context.Context, draftID string, phase domain.Phase, input draft.SelectFlightInput) (*domain.BookingDraft, error) {
	args := m.Called(ctx, draftID, phase, input)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.BookingDraft), args.Error(1)
}

func (m *MockDraftUseCase) SelectSeat(ctx context.Context, draftID string, passengerID int, seatID int64) (*domain.BookingDraft, error) {
	args := m.Called(ctx, draftID, passengerID, seatID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.BookingDraft), args.Error(1)
}

func (m *MockDraftUseCase) SetBaggage(ctx context.Context, draftID string, passengerID int, pkg *domain.BaggagePackage) (*domain.BookingDraft, error) {
	args := m.Called(ctx, draftID, passengerID, pkg)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.BookingDraft), args.Error(1)
}

func (m *MockDraftUseCase) SetMeal(ctx context.Context, draftID string, passengerID int, included bool) (*domain.BookingDraft, error) {
	args := m.Called(ctx, draftID, passengerID, included)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.BookingDraft), args.Error(1)
}

func (m *MockDraftUseCase) SetAncillaries(ctx context.Context, draftID string, passengerID int, serviceIDs []int64) (*domain.BookingDraft, error) {
	args := m.Called(ctx, draftID, passengerID, serviceIDs)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.BookingDraft), args.Error(1)
}

func (m *MockDraftUseCase) ReplaceLegSelections(ctx context.Context, draftID string, phase domain.Phase, sel *domain.LegSelections) (*domain.BookingDraft, error) {
	args := m.Called(ctx, draftID, phase, sel)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.BookingDraft), args.Error(1)
}

func (m *MockDraftUseCase) AdvancePhase(ctx context.Context, draftID string) (*domain.BookingDraft, error) {
	args := m.Called(ctx, draftID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.BookingDraft), args.Error(1)
}

func (m *MockDraftUseCase) RetreatPhase(ctx context.Context, draftID string) (*domain.BookingDraft, error) {
	args := m.Called(ctx, draftID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.BookingDraft), args.Error(1)
}

func (m *MockDraftUseCase) SubmitDraft(ctx context.Context, draftID string) (*draft.SubmitResult, error) {
	args := m.Called(ctx, draftID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*draft.SubmitResult), args.Error(1)
}

func (m *MockDraftUseCase) ConfirmBooking(ctx context.Context, bookingCode string) (*domain.Booking, error) {
	args := m.Called(ctx, bookingCode)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Booking), args.Error(1)
}

func jsonRequest(method, target, body string) *http.Request {
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	return req
}

func TestDraftHandler_create(t *testing.T) {
	mockService := &MockDraftUseCase{}
	handler := NewDraftHandler(mockService)

	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = jsonRequest("POST", "/drafts/", `{"counts":{"adults":1},"itinerary":{"trip_type":"ONE_WAY"},"contact_email":"lead@example.com"}`)

	created := &domain.BookingDraft{ID: "draft-1"}
	mockService.On("CreateDraft", c.Request.Context(), mock.AnythingOfType("draft.CreateDraftInput")).Return(created, nil)

	handler.create(c)

	assert.Equal(t, http.StatusCreated, w.Code)
	assert.Contains(t, w.Body.String(), "draft-1")
	mockService.AssertExpectations(t)
}

func TestDraftHandler_create_ValidationError(t *testing.T) {
	mockService := &MockDraftUseCase{}
	handler := NewDraftHandler(mockService)

	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = jsonRequest("POST", "/drafts/", `{"counts":{"adults":0}}`)

	mockService.On("CreateDraft", c.Request.Context(), mock.Anything).
		Return(nil, domain.Validationf("at least one adult passenger is required"))

	handler.create(c)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestDraftHandler_get_NotFound(t *testing.T) {
	mockService := &MockDraftUseCase{}
	handler := NewDraftHandler(mockService)

	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Params = gin.Params{{Key: "id", Value: "gone"}}
	c.Request = httptest.NewRequest("GET", "/drafts/gone", nil)

	mockService.On("GetDraft", c.Request.Context(), "gone").Return(nil, domain.NotFound("draft", "gone"))

	handler.get(c)

	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestDraftHandler_selectSeat_Conflict(t *testing.T) {
	mockService := &MockDraftUseCase{}
	handler := NewDraftHandler(mockService)

	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Params = gin.Params{{Key: "id", Value: "draft-1"}}
	c.Request = jsonRequest("POST", "/drafts/draft-1/seats", `{"passenger_id":0,"seat_id":7}`)

	mockService.On("SelectSeat", c.Request.Context(), "draft-1", 0, int64(7)).
		Return(nil, &domain.SeatConflictError{SeatID: 7, PassengerID: 1})

	handler.selectSeat(c)

	assert.Equal(t, http.StatusConflict, w.Code)
}

func TestDraftHandler_selectFlight_InvalidPhase(t *testing.T) {
	handler := NewDraftHandler(&MockDraftUseCase{})

	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Params = gin.Params{{Key: "id", Value: "draft-1"}, {Key: "phase", Value: "SIDEWAYS"}}
	c.Request = jsonRequest("PUT", "/drafts/draft-1/flights/SIDEWAYS", `{"flight_id":4}`)

	handler.selectFlight(c)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestDraftHandler_submit(t *testing.T) {
	mockService := &MockDraftUseCase{}
	handler := NewDraftHandler(mockService)

	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Params = gin.Params{{Key: "id", Value: "draft-1"}}
	c.Request = httptest.NewRequest("POST", "/drafts/draft-1/submit", nil)

	result := &draft.SubmitResult{BookingCode: "AB12CD", Charge: 2000000, PaymentRequired: true}
	mockService.On("SubmitDraft", c.Request.Context(), "draft-1").Return(result, nil)

	handler.submit(c)

	assert.Equal(t, http.StatusCreated, w.Code)
	assert.Contains(t, w.Body.String(), "AB12CD")
	mockService.AssertExpectations(t)
}

func TestBookingHandler_confirm(t *testing.T) {
	mockService := &MockDraftUseCase{}
	handler := NewBookingHandler(mockService)

	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Params = gin.Params{{Key: "code", Value: "AB12CD"}}
	c.Request = httptest.NewRequest("POST", "/bookings/AB12CD/confirm", nil)

	confirmed := &domain.Booking{Code: "AB12CD", Status: domain.BookingStatusConfirmed}
	mockService.On("ConfirmBooking", c.Request.Context(), "AB12CD").Return(confirmed, nil)

	handler.confirm(c)

	assert.Equal(t, http.StatusOK, w.Code)
	mockService.AssertExpectations(t)
}
