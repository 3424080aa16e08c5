package entity

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewJobStartsPending(t *testing.T) {
	job, err := NewJob("user-1", PlatformGoogleMaps, " Pune ", "Cafes")
	require.NoError(t, err)

	assert.NotEmpty(t, job.ID)
	assert.Equal(t, JobPending, job.Status)
	assert.Equal(t, 0, job.LeadsFound)
	assert.Equal(t, "Pune", job.City)
	assert.Nil(t, job.CompletedAt)
}

func TestNewJobRejectsMissingFields(t *testing.T) {
	_, err := NewJob("user-1", PlatformJustdial, "", "Cafes")
	assert.Error(t, err)

	_, err = NewJob("user-1", PlatformJustdial, "Pune", "  ")
	assert.Error(t, err)

	_, err = NewJob("user-1", Platform("yelp"), "Pune", "Cafes")
	assert.ErrorIs(t, err, ErrUnknownPlatform)
}

func TestJobStatusTransitions(t *testing.T) {
	cases := []struct {
		from, to JobStatus
		ok       bool
	}{
		{JobPending, JobRunning, true},
		{JobPending, JobStopped, true},
		{JobPending, JobFailed, true},
		{JobPending, JobCompleted, false},
		{JobRunning, JobRunning, true},
		{JobRunning, JobCompleted, true},
		{JobRunning, JobFailed, true},
		{JobRunning, JobStopped, true},
		{JobRunning, JobPending, false},
		{JobCompleted, JobRunning, false},
		{JobStopped, JobRunning, false},
		{JobFailed, JobCompleted, false},
	}

	for _, c := range cases {
		assert.Equal(t, c.ok, c.from.CanTransitionTo(c.to), "%s -> %s", c.from, c.to)
	}
}

func TestJobStatusPredecessors(t *testing.T) {
	assert.ElementsMatch(t, []JobStatus{JobPending, JobRunning}, JobStopped.Predecessors())
	assert.ElementsMatch(t, []JobStatus{JobRunning}, JobCompleted.Predecessors())
	assert.ElementsMatch(t, []JobStatus{JobPending, JobRunning}, JobRunning.Predecessors())
	assert.Empty(t, JobPending.Predecessors())
}

func TestParseJobStatus(t *testing.T) {
	st, err := ParseJobStatus("completed")
	require.NoError(t, err)
	assert.Equal(t, JobCompleted, st)

	_, err = ParseJobStatus("done")
	assert.ErrorIs(t, err, ErrUnknownStatus)
}

func TestJobStatusUpdateCompletedAt(t *testing.T) {
	at := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)

	for _, st := range []JobStatus{JobCompleted, JobFailed, JobStopped} {
		got := JobStatusUpdate{Status: st, At: at}.CompletedAt()
		require.NotNil(t, got, st)
		assert.Equal(t, at, *got)
	}

	assert.Nil(t, JobStatusUpdate{Status: JobRunning, At: at}.CompletedAt())
}
