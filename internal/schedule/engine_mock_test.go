package schedule

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/vrsandeep/showtime-go/internal/apperr"
	"github.com/vrsandeep/showtime-go/internal/models"
)

type mockRepo struct {
	mock.Mock
}

func (m *mockRepo) GetScheduleEntry(id int64) (*models.ScheduleEntry, error) {
	args := m.Called(id)
	e, _ := args.Get(0).(*models.ScheduleEntry)
	return e, args.Error(1)
}

func (m *mockRepo) ListScheduleEntries(profileID int64) ([]*models.ScheduleEntry, error) {
	args := m.Called(profileID)
	e, _ := args.Get(0).([]*models.ScheduleEntry)
	return e, args.Error(1)
}

func (m *mockRepo) ScheduleEntryExists(profileID, trackedTitleID int64, weekday int) (bool, error) {
	args := m.Called(profileID, trackedTitleID, weekday)
	return args.Bool(0), args.Error(1)
}

func (m *mockRepo) MaxSlotOrder(profileID int64, weekday int) (int, bool, error) {
	args := m.Called(profileID, weekday)
	return args.Int(0), args.Bool(1), args.Error(2)
}

func (m *mockRepo) CreateScheduleEntry(e *models.ScheduleEntry) error {
	return m.Called(e).Error(0)
}

func (m *mockRepo) UpdateScheduleEntryPlacement(id int64, weekday, slotOrder int) error {
	return m.Called(id, weekday, slotOrder).Error(0)
}

func (m *mockRepo) UpdateScheduleEntryEnabled(id int64, enabled bool) error {
	return m.Called(id, enabled).Error(0)
}

func (m *mockRepo) DeleteScheduleEntry(id int64) error {
	return m.Called(id).Error(0)
}

func (m *mockRepo) ProfileOwnsTitle(profileID, trackedTitleID int64) (bool, error) {
	args := m.Called(profileID, trackedTitleID)
	return args.Bool(0), args.Error(1)
}

func TestEngineWithMockRepo(t *testing.T) {
	t.Run("Storage failure while adding is surfaced", func(t *testing.T) {
		repo := new(mockRepo)
		repo.On("ProfileOwnsTitle", int64(1), int64(2)).Return(true, nil)
		repo.On("ScheduleEntryExists", int64(1), int64(2), 3).Return(false, nil)
		repo.On("MaxSlotOrder", int64(1), 3).Return(0, false, errors.New("disk full"))

		_, err := NewEngine(repo).AddEntry(1, 2, 3)
		assert.EqualError(t, err, "disk full")
		repo.AssertNotCalled(t, "CreateScheduleEntry", mock.Anything)
	})

	t.Run("Invalid weekday never reaches storage", func(t *testing.T) {
		repo := new(mockRepo)
		_, err := NewEngine(repo).AddEntry(1, 2, 8)
		assert.True(t, apperr.Is(err, apperr.InvalidArgument))
		repo.AssertExpectations(t)
	})

	t.Run("Reorder to the current slot skips the write", func(t *testing.T) {
		repo := new(mockRepo)
		repo.On("GetScheduleEntry", int64(4)).Return(&models.ScheduleEntry{ID: 4, Weekday: 2, SlotOrder: 3}, nil)

		e, err := NewEngine(repo).ReorderSlot(4, 3)
		assert.NoError(t, err)
		assert.Equal(t, 3, e.SlotOrder)
		repo.AssertNotCalled(t, "UpdateScheduleEntryPlacement", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("Move writes the destination max plus one", func(t *testing.T) {
		repo := new(mockRepo)
		repo.On("GetScheduleEntry", int64(4)).Return(&models.ScheduleEntry{ID: 4, ProfileID: 1, TrackedTitleID: 2, Weekday: 2, SlotOrder: 3}, nil)
		repo.On("ScheduleEntryExists", int64(1), int64(2), 5).Return(false, nil)
		repo.On("MaxSlotOrder", int64(1), 5).Return(8, true, nil)
		repo.On("UpdateScheduleEntryPlacement", int64(4), 5, 9).Return(nil)

		e, err := NewEngine(repo).MoveToDay(4, 5)
		assert.NoError(t, err)
		assert.Equal(t, 9, e.SlotOrder)
		repo.AssertExpectations(t)
	})
}
