package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	appErrors "github.com/MateoMinghi/via-alta-sub001/pkg/errors"
)

func newTestAvailabilityService(availability *mockAvailabilityRepo, professors *mockProfessorReader) *AvailabilityService {
	cacheSvc := NewCacheService(nil, nil, 0, nil, false)
	return NewAvailabilityService(availability, professors, cacheSvc, nil, nil)
}

func TestAvailabilityReplaceBuildsSlots(t *testing.T) {
	_, professors, availability, _, _ := testFixture()
	svc := newTestAvailabilityService(availability, professors)

	view, err := svc.Replace(context.Background(), ReplaceAvailabilityRequest{
		ProfessorID: 7,
		Availability: map[string]bool{
			"MON-09:00": true,
			"MON-09:30": true,
			"TUE-16:00": true,
			"WED-08:00": false,
		},
		Preferences: map[string]int64{
			"MON-09:00": 12,
			"MON-09:30": 12,
		},
	})
	require.NoError(t, err)

	stored := availability.replaced[7]
	require.Len(t, stored, 3)
	// Deterministic order: MON 09:00, MON 09:30, TUE 16:00.
	assert.Equal(t, "MON", stored[0].DayOfWeek)
	assert.Equal(t, 540, stored[0].StartMinute)
	assert.Equal(t, 570, stored[0].EndMinute)
	require.NotNil(t, stored[0].SubjectID)
	assert.Equal(t, int64(12), *stored[0].SubjectID)
	assert.Equal(t, "TUE", stored[2].DayOfWeek)
	assert.Equal(t, 960, stored[2].StartMinute)
	assert.Nil(t, stored[2].SubjectID)

	assert.True(t, view.Availability["MON-09:00"])
	assert.True(t, view.Availability["TUE-16:00"])
	assert.Equal(t, int64(12), view.Preferences["MON-09:00"])
	_, hasWed := view.Availability["WED-08:00"]
	assert.False(t, hasWed)
}

func TestAvailabilityReplaceRejectsMalformedKey(t *testing.T) {
	_, professors, availability, _, _ := testFixture()
	svc := newTestAvailabilityService(availability, professors)

	_, err := svc.Replace(context.Background(), ReplaceAvailabilityRequest{
		ProfessorID:  7,
		Availability: map[string]bool{"MON-09:15": true},
	})
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrValidation.Code, appErrors.FromError(err).Code)
}

func TestAvailabilityReplaceRejectsPreferenceOnUnavailableSlot(t *testing.T) {
	_, professors, availability, _, _ := testFixture()
	svc := newTestAvailabilityService(availability, professors)

	_, err := svc.Replace(context.Background(), ReplaceAvailabilityRequest{
		ProfessorID:  7,
		Availability: map[string]bool{"MON-09:00": true},
		Preferences:  map[string]int64{"TUE-09:00": 12},
	})
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrValidation.Code, appErrors.FromError(err).Code)
}

func TestAvailabilityReplaceUnknownProfessor(t *testing.T) {
	_, professors, availability, _, _ := testFixture()
	svc := newTestAvailabilityService(availability, professors)

	_, err := svc.Replace(context.Background(), ReplaceAvailabilityRequest{
		ProfessorID:  404,
		Availability: map[string]bool{"MON-09:00": true},
	})
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrNotFound.Code, appErrors.FromError(err).Code)
}

func TestAvailabilityGetProjectsGrid(t *testing.T) {
	_, professors, availability, _, _ := testFixture()
	svc := newTestAvailabilityService(availability, professors)

	view, err := svc.Get(context.Background(), 7)
	require.NoError(t, err)
	assert.Equal(t, int64(7), view.ProfessorID)
	assert.True(t, view.Availability["MON-09:00"])
	assert.Equal(t, int64(12), view.Preferences["MON-09:30"])
}

func TestAvailabilityGetUnknownProfessor(t *testing.T) {
	_, professors, availability, _, _ := testFixture()
	svc := newTestAvailabilityService(availability, professors)

	_, err := svc.Get(context.Background(), 404)
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrNotFound.Code, appErrors.FromError(err).Code)
}
