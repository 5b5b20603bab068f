package validation

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

type scheduleRequest struct {
	TrackedTitleID int64 `json:"tracked_title_id" validate:"gt=0"`
	Weekday        *int  `json:"weekday" validate:"required,gte=0,lte=6"`
}

type show struct {
	ID      int64    `json:"id" validate:"gt=0"`
	Name    string   `json:"name" validate:"required"`
	Seasons []season `json:"seasons" validate:"dive"`
}

type season struct {
	Number   int `json:"season_number" validate:"gte=0"`
	Episodes int `json:"episode_count" validate:"gte=0"`
}

func TestStruct(t *testing.T) {
	day := 3
	assert.NoError(t, Struct(scheduleRequest{TrackedTitleID: 1, Weekday: &day}))

	err := Struct(scheduleRequest{})
	if assert.Error(t, err) {
		assert.Contains(t, err.Error(), "tracked_title_id must be greater than 0")
		assert.Contains(t, err.Error(), "weekday is required")
	}

	bad := 9
	err = Struct(scheduleRequest{TrackedTitleID: 1, Weekday: &bad})
	assert.EqualError(t, err, "weekday must be less than or equal to 6")
}

func TestStructNested(t *testing.T) {
	err := Struct(show{ID: 1, Name: "Dark", Seasons: []season{{Number: 1, Episodes: -2}}})
	assert.EqualError(t, err, "seasons[0].episode_count must be greater than or equal to 0")
}
