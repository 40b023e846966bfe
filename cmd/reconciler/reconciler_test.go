package main

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"

	"github.com/register4u/inventory-service/internal/application/usecase"
	"github.com/register4u/inventory-service/internal/domain/inventory"
	"github.com/register4u/inventory-service/internal/infrastructure/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubRepository struct {
	rooms        []*inventory.Room
	findRoomsErr error
}

func (s *stubRepository) FindRoomByID(_ context.Context, _ string) (*inventory.Room, error) {
	return nil, nil
}

func (s *stubRepository) FindRoomByNumber(_ context.Context, _ string) (*inventory.Room, error) {
	return nil, nil
}

func (s *stubRepository) FindAllRooms(_ context.Context) ([]*inventory.Room, error) {
	if s.findRoomsErr != nil {
		return nil, s.findRoomsErr
	}
	return s.rooms, nil
}

func (s *stubRepository) FindActiveAllotments(_ context.Context, _ string, _ inventory.Window) ([]*inventory.Allotment, error) {
	return nil, nil
}

func (s *stubRepository) CountHotelActiveAllotments(_ context.Context, _ string, _ inventory.Window) (int, error) {
	return 0, nil
}

func (s *stubRepository) FindAllHotels(_ context.Context) ([]*inventory.Hotel, error) {
	return nil, nil
}

func (s *stubRepository) UpdateRoomStatus(_ context.Context, _, _ string) error {
	return nil
}

func newTestReconciler(repo *stubRepository) *Reconciler {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	loadUC := usecase.NewComputeRoomLoadUseCase(repo, logger)
	reconcileUC := usecase.NewReconcileRoomStatusUseCase(repo, loadUC, nil, nil, logger)
	return NewReconciler(&config.Config{}, reconcileUC, logger)
}

// A transient store outage must surface as an error the caller can decide on,
// so the interval scheduler can log it and retry at the next tick.
func TestRunOnceReturnsBatchError(t *testing.T) {
	repo := &stubRepository{findRoomsErr: errors.New("connection refused")}

	err := newTestReconciler(repo).RunOnce(context.Background(), false)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to fetch rooms")
}

func TestRunOnceCompletesOnEmptyRoomList(t *testing.T) {
	repo := &stubRepository{}

	err := newTestReconciler(repo).RunOnce(context.Background(), false)
	require.NoError(t, err)
}
