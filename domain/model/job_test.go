package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestJobStatus_CanTransition(t *testing.T) {
	tests := []struct {
		name string
		from JobStatus
		to   JobStatus
		want bool
	}{
		{"pending to uploaded", JobStatusPending, JobStatusUploaded, true},
		{"pending to scheduled", JobStatusPending, JobStatusScheduled, true},
		{"uploaded to scheduled", JobStatusUploaded, JobStatusScheduled, true},
		{"scheduled to published", JobStatusScheduled, JobStatusPublished, true},
		{"scheduled to failed", JobStatusScheduled, JobStatusFailed, true},
		{"pending to failed", JobStatusPending, JobStatusFailed, true},
		{"scheduled to uploaded is backwards", JobStatusScheduled, JobStatusUploaded, false},
		{"published is terminal", JobStatusPublished, JobStatusScheduled, false},
		{"published cannot fail", JobStatusPublished, JobStatusFailed, false},
		{"failed is terminal", JobStatusFailed, JobStatusScheduled, false},
		{"same status is not a transition", JobStatusScheduled, JobStatusScheduled, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.from.CanTransition(tt.to))
		})
	}
}

func TestJobStatus_IsTerminal(t *testing.T) {
	assert.True(t, JobStatusPublished.IsTerminal())
	assert.True(t, JobStatusFailed.IsTerminal())
	assert.False(t, JobStatusPending.IsTerminal())
	assert.False(t, JobStatusUploaded.IsTerminal())
	assert.False(t, JobStatusScheduled.IsTerminal())
}
