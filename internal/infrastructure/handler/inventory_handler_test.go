package handler

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/mux"
	"github.com/register4u/inventory-service/internal/application/usecase"
	"github.com/register4u/inventory-service/internal/domain/inventory"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubRepository struct {
	rooms       []*inventory.Room
	allotments  []*inventory.Allotment
	hotels      []*inventory.Hotel
	updated     map[string]string
	findRoomErr error
}

func newStubRepository() *stubRepository {
	return &stubRepository{updated: make(map[string]string)}
}

func (s *stubRepository) FindRoomByID(_ context.Context, id string) (*inventory.Room, error) {
	for _, room := range s.rooms {
		if room.ID == id {
			return room, nil
		}
	}
	return nil, nil
}

func (s *stubRepository) FindRoomByNumber(_ context.Context, roomNumber string) (*inventory.Room, error) {
	if s.findRoomErr != nil {
		return nil, s.findRoomErr
	}
	for _, room := range s.rooms {
		if room.RoomNumber == roomNumber {
			return room, nil
		}
	}
	return nil, nil
}

func (s *stubRepository) FindAllRooms(_ context.Context) ([]*inventory.Room, error) {
	return s.rooms, nil
}

func (s *stubRepository) FindActiveAllotments(_ context.Context, roomID string, window inventory.Window) ([]*inventory.Allotment, error) {
	var result []*inventory.Allotment
	for _, allotment := range s.allotments {
		if allotment.RoomID == roomID && allotment.IsActive() && allotment.Overlaps(window) {
			result = append(result, allotment)
		}
	}
	return result, nil
}

func (s *stubRepository) CountHotelActiveAllotments(_ context.Context, hotelID string, window inventory.Window) (int, error) {
	count := 0
	for _, allotment := range s.allotments {
		if allotment.HotelID == hotelID && allotment.IsActive() && allotment.Overlaps(window) {
			count++
		}
	}
	return count, nil
}

func (s *stubRepository) FindAllHotels(_ context.Context) ([]*inventory.Hotel, error) {
	return s.hotels, nil
}

func (s *stubRepository) UpdateRoomStatus(_ context.Context, roomID, status string) error {
	s.updated[roomID] = status
	return nil
}

func newTestHandler(repo *stubRepository) *InventoryHandler {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	loadUC := usecase.NewComputeRoomLoadUseCase(repo, logger)
	reconcileUC := usecase.NewReconcileRoomStatusUseCase(repo, loadUC, nil, nil, logger)
	inventoryUC := usecase.NewGetInventoryStatusUseCase(repo, nil, logger)
	return NewInventoryHandler(inventoryUC, reconcileUC, logger)
}

func newTestRouter(h *InventoryHandler) *mux.Router {
	router := mux.NewRouter()
	router.HandleFunc("/api/v1/inventory/status", h.GetInventoryStatus).Methods("GET")
	router.HandleFunc("/api/v1/rooms/{roomNumber}/occupancy", h.GetRoomOccupancy).Methods("GET")
	router.HandleFunc("/api/v1/admin/reconcile", h.TriggerReconcile).Methods("POST")
	router.HandleFunc("/health", h.HealthCheck).Methods("GET")
	return router
}

func decodeResponse(t *testing.T, recorder *httptest.ResponseRecorder) APIResponse {
	t.Helper()
	var response APIResponse
	require.NoError(t, json.NewDecoder(recorder.Body).Decode(&response))
	return response
}

func TestGetInventoryStatusReturnsReport(t *testing.T) {
	repo := newStubRepository()
	repo.hotels = []*inventory.Hotel{
		{ID: "h1", CustomHotelID: "HTL-001", Name: "Grand Plaza",
			Categories: []inventory.RoomCategory{{Name: "deluxe", RoomCount: 10}, {Name: "suite", RoomCount: 5}}},
	}
	queryDay := time.Date(2024, time.June, 10, 0, 0, 0, 0, time.Local)
	for i := 0; i < 6; i++ {
		repo.allotments = append(repo.allotments, &inventory.Allotment{
			HotelID:      "h1",
			Status:       inventory.AllotmentStatusBooked,
			CheckInDate:  queryDay.AddDate(0, 0, -1),
			CheckOutDate: queryDay.AddDate(0, 0, 1),
		})
	}

	router := newTestRouter(newTestHandler(repo))
	recorder := httptest.NewRecorder()
	router.ServeHTTP(recorder, httptest.NewRequest(http.MethodGet, "/api/v1/inventory/status?date=2024-06-10", nil))

	require.Equal(t, http.StatusOK, recorder.Code)
	response := decodeResponse(t, recorder)
	require.True(t, response.Success)

	rows, err := json.Marshal(response.Data)
	require.NoError(t, err)
	var report []inventory.HotelOccupancy
	require.NoError(t, json.Unmarshal(rows, &report))
	require.Len(t, report, 1)
	assert.Equal(t, 15, report[0].TotalRooms)
	assert.Equal(t, 6, report[0].OccupiedRooms)
	assert.Equal(t, 9, report[0].AvailableRooms)
}

func TestGetInventoryStatusRejectsMalformedDate(t *testing.T) {
	router := newTestRouter(newTestHandler(newStubRepository()))
	recorder := httptest.NewRecorder()
	router.ServeHTTP(recorder, httptest.NewRequest(http.MethodGet, "/api/v1/inventory/status?date=10-06-2024", nil))

	require.Equal(t, http.StatusBadRequest, recorder.Code)
	response := decodeResponse(t, recorder)
	assert.False(t, response.Success)
	assert.Contains(t, response.Error, "invalid date")
}

func TestGetRoomOccupancyReportsDrift(t *testing.T) {
	repo := newStubRepository()
	now := time.Now()
	repo.rooms = []*inventory.Room{
		{ID: "r1", HotelID: "h1", RoomNumber: "101",
			Status:   inventory.RoomStatusAvailable,
			Category: &inventory.RoomCategory{Occupancy: 1}},
	}
	repo.allotments = []*inventory.Allotment{
		{RoomID: "r1", HotelID: "h1", Status: inventory.AllotmentStatusCheckedIn, Occupancy: 1,
			CheckInDate: now.AddDate(0, 0, -1), CheckOutDate: now.AddDate(0, 0, 1)},
	}

	router := newTestRouter(newTestHandler(repo))
	recorder := httptest.NewRecorder()
	router.ServeHTTP(recorder, httptest.NewRequest(http.MethodGet, "/api/v1/rooms/101/occupancy", nil))

	require.Equal(t, http.StatusOK, recorder.Code)
	response := decodeResponse(t, recorder)
	require.True(t, response.Success)

	raw, err := json.Marshal(response.Data)
	require.NoError(t, err)
	var inspection usecase.InspectionResult
	require.NoError(t, json.Unmarshal(raw, &inspection))
	assert.Equal(t, inventory.RoomStatusAvailable, inspection.StoredStatus)
	assert.Equal(t, inventory.RoomStatusOccupied, inspection.ComputedStatus)
	assert.False(t, inspection.InSync)

	assert.Empty(t, repo.updated, "inspection must never persist a correction")
}

func TestGetRoomOccupancyUnknownRoom(t *testing.T) {
	router := newTestRouter(newTestHandler(newStubRepository()))
	recorder := httptest.NewRecorder()
	router.ServeHTTP(recorder, httptest.NewRequest(http.MethodGet, "/api/v1/rooms/999/occupancy", nil))

	require.Equal(t, http.StatusNotFound, recorder.Code)
	response := decodeResponse(t, recorder)
	assert.False(t, response.Success)
}

func TestGetRoomOccupancyRepositoryFailureIsServerError(t *testing.T) {
	repo := newStubRepository()
	repo.findRoomErr = errors.New("connection refused")

	router := newTestRouter(newTestHandler(repo))
	recorder := httptest.NewRecorder()
	router.ServeHTTP(recorder, httptest.NewRequest(http.MethodGet, "/api/v1/rooms/101/occupancy", nil))

	require.Equal(t, http.StatusInternalServerError, recorder.Code)
	response := decodeResponse(t, recorder)
	assert.False(t, response.Success)
}

func TestTriggerReconcileCorrectsRooms(t *testing.T) {
	repo := newStubRepository()
	now := time.Now()
	repo.rooms = []*inventory.Room{
		{ID: "r1", HotelID: "h1", RoomNumber: "101",
			Status:   inventory.RoomStatusAvailable,
			Category: &inventory.RoomCategory{Occupancy: 1}},
	}
	repo.allotments = []*inventory.Allotment{
		{RoomID: "r1", HotelID: "h1", Status: inventory.AllotmentStatusBooked, Occupancy: 1,
			CheckInDate: now.AddDate(0, 0, -1), CheckOutDate: now.AddDate(0, 0, 1)},
	}

	router := newTestRouter(newTestHandler(repo))
	recorder := httptest.NewRecorder()
	router.ServeHTTP(recorder, httptest.NewRequest(http.MethodPost, "/api/v1/admin/reconcile", strings.NewReader("{}")))

	require.Equal(t, http.StatusOK, recorder.Code)
	response := decodeResponse(t, recorder)
	require.True(t, response.Success)

	raw, err := json.Marshal(response.Data)
	require.NoError(t, err)
	var result usecase.ReconcileResult
	require.NoError(t, json.Unmarshal(raw, &result))
	assert.Equal(t, 1, result.CheckedRooms)
	assert.Equal(t, 1, result.CorrectedRooms)
	assert.Equal(t, inventory.RoomStatusOccupied, repo.updated["r1"])
}

func TestTriggerReconcileDryRun(t *testing.T) {
	repo := newStubRepository()
	now := time.Now()
	repo.rooms = []*inventory.Room{
		{ID: "r1", HotelID: "h1", RoomNumber: "101",
			Status:   inventory.RoomStatusAvailable,
			Category: &inventory.RoomCategory{Occupancy: 1}},
	}
	repo.allotments = []*inventory.Allotment{
		{RoomID: "r1", HotelID: "h1", Status: inventory.AllotmentStatusBooked, Occupancy: 1,
			CheckInDate: now.AddDate(0, 0, -1), CheckOutDate: now.AddDate(0, 0, 1)},
	}

	router := newTestRouter(newTestHandler(repo))
	recorder := httptest.NewRecorder()
	body := strings.NewReader(`{"dryRun":true}`)
	router.ServeHTTP(recorder, httptest.NewRequest(http.MethodPost, "/api/v1/admin/reconcile", body))

	require.Equal(t, http.StatusOK, recorder.Code)
	assert.Empty(t, repo.updated)
}

func TestHealthCheck(t *testing.T) {
	router := newTestRouter(newTestHandler(newStubRepository()))
	recorder := httptest.NewRecorder()
	router.ServeHTTP(recorder, httptest.NewRequest(http.MethodGet, "/health", nil))

	require.Equal(t, http.StatusOK, recorder.Code)
	response := decodeResponse(t, recorder)
	assert.True(t, response.Success)
}
