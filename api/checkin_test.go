package api

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/skyfare/booking/internal/domain"
	"github.com/skyfare/booking/internal/service/checkin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

type MockCheckinUseCase struct {
	mock.Mock
}

func (m *MockCheckinUseCase) GetEligibility(ctx context.Context, bookingCode, lastName string) (*checkin.EligibilityResult, error) {
	args := m.Called(ctx, bookingCode, lastName)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*checkin.EligibilityResult), args.Error(1)
}

func (m *MockCheckinUseCase) ComputeSeatChange(ctx context.Context, bookingCode string, passengerID, segmentID, newSeatID int64) (*domain.SeatChangeCalculation, error) {
	args := m.Called(ctx, bookingCode, passengerID, segmentID, newSeatID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.SeatChangeCalculation), args.Error(1)
}

func (m *MockCheckinUseCase) ProposeSeatChange(ctx context.Context, bookingCode string, passengerID, segmentID, newSeatID int64) (*checkin.ProposalResult, error) {
	args := m.Called(ctx, bookingCode, passengerID, segmentID, newSeatID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*checkin.ProposalResult), args.Error(1)
}

func (m *MockCheckinUseCase) CommitSeatChange(ctx context.Context, bookingCode string, passengerID, segmentID int64) (*domain.SeatChangeProposal, error) {
	args := m.Called(ctx, bookingCode, passengerID, segmentID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.SeatChangeProposal), args.Error(1)
}

func (m *MockCheckinUseCase) CancelSeatChange(ctx context.Context, bookingCode string, passengerID, segmentID int64) (*domain.SeatChangeProposal, error) {
	args := m.Called(ctx, bookingCode, passengerID, segmentID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.SeatChangeProposal), args.Error(1)
}

func (m *MockCheckinUseCase) CompleteCheckin(ctx context.Context, bookingCode string, passengerID, segmentID int64) (*checkin.PairReadiness, error) {
	args := m.Called(ctx, bookingCode, passengerID, segmentID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*checkin.PairReadiness), args.Error(1)
}

func (m *MockCheckinUseCase) ExpireProposedChanges(ctx context.Context) ([]domain.SeatChangeProposal, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.SeatChangeProposal), args.Error(1)
}

func TestCheckinHandler_eligibility(t *testing.T) {
	mockService := &MockCheckinUseCase{}
	handler := NewCheckinHandler(mockService)

	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Params = gin.Params{{Key: "code", Value: "AB12CD"}}
	c.Request = httptest.NewRequest("GET", "/checkin/AB12CD?last_name=Lee", nil)

	result := &checkin.EligibilityResult{
		BookingCode: "AB12CD",
		Summary:     checkin.Summary{Actionable: true},
	}
	mockService.On("GetEligibility", c.Request.Context(), "AB12CD", "Lee").Return(result, nil)

	handler.eligibility(c)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "AB12CD")
	mockService.AssertExpectations(t)
}

func TestCheckinHandler_eligibility_MissingLastName(t *testing.T) {
	handler := NewCheckinHandler(&MockCheckinUseCase{})

	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Params = gin.Params{{Key: "code", Value: "AB12CD"}}
	c.Request = httptest.NewRequest("GET", "/checkin/AB12CD", nil)

	handler.eligibility(c)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestCheckinHandler_quote(t *testing.T) {
	mockService := &MockCheckinUseCase{}
	handler := NewCheckinHandler(mockService)

	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Params = gin.Params{{Key: "code", Value: "AB12CD"}}
	c.Request = jsonRequest("POST", "/checkin/AB12CD/seat-change/quote", `{"passenger_id":1,"segment_id":10,"new_seat_id":102}`)

	calc := &domain.SeatChangeCalculation{TotalCharge: 150000, RequiresPayment: true}
	mockService.On("ComputeSeatChange", c.Request.Context(), "AB12CD", int64(1), int64(10), int64(102)).Return(calc, nil)

	handler.quote(c)

	assert.Equal(t, http.StatusOK, w.Code)
	mockService.AssertExpectations(t)
}

func TestCheckinHandler_propose_InconsistentState(t *testing.T) {
	mockService := &MockCheckinUseCase{}
	handler := NewCheckinHandler(mockService)

	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Params = gin.Params{{Key: "code", Value: "AB12CD"}}
	c.Request = jsonRequest("POST", "/checkin/AB12CD/seat-change", `{"passenger_id":1,"segment_id":10,"new_seat_id":102}`)

	mockService.On("ProposeSeatChange", c.Request.Context(), "AB12CD", int64(1), int64(10), int64(102)).
		Return(nil, domain.Inconsistentf("current seat missing from seat map"))

	handler.propose(c)

	assert.Equal(t, http.StatusConflict, w.Code)
}

func TestCheckinHandler_commit(t *testing.T) {
	mockService := &MockCheckinUseCase{}
	handler := NewCheckinHandler(mockService)

	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Params = gin.Params{{Key: "code", Value: "AB12CD"}}
	c.Request = jsonRequest("POST", "/checkin/AB12CD/seat-change/commit", `{"passenger_id":1,"segment_id":10}`)

	committed := &domain.SeatChangeProposal{ID: 55, Status: domain.ProposalStatusCommitted}
	mockService.On("CommitSeatChange", c.Request.Context(), "AB12CD", int64(1), int64(10)).Return(committed, nil)

	handler.commit(c)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), string(domain.ProposalStatusCommitted))
	mockService.AssertExpectations(t)
}

func TestCheckinHandler_complete(t *testing.T) {
	mockService := &MockCheckinUseCase{}
	handler := NewCheckinHandler(mockService)

	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Params = gin.Params{{Key: "code", Value: "AB12CD"}}
	c.Request = jsonRequest("POST", "/checkin/AB12CD/complete", `{"passenger_id":1,"segment_id":10}`)

	pair := &checkin.PairReadiness{PassengerID: 1, SegmentID: 10, Status: domain.CheckinStatusAlreadyCheckedIn}
	mockService.On("CompleteCheckin", c.Request.Context(), "AB12CD", int64(1), int64(10)).Return(pair, nil)

	handler.complete(c)

	assert.Equal(t, http.StatusOK, w.Code)
	mockService.AssertExpectations(t)
}

func TestCheckinHandler_cancel_InvalidQuery(t *testing.T) {
	handler := NewCheckinHandler(&MockCheckinUseCase{})

	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Params = gin.Params{{Key: "code", Value: "AB12CD"}}
	c.Request = httptest.NewRequest("DELETE", "/checkin/AB12CD/seat-change", nil)

	handler.cancel(c)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}
