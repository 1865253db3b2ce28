package services

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestRefundAllowed(t *testing.T) {
	start := time.Date(2026, 3, 14, 12, 0, 0, 0, time.UTC)

	cases := []struct {
		name string
		now  time.Time
		want bool
	}{
		{"well before the cutoff", start.Add(-24 * time.Hour), true},
		{"one minute before the cutoff", start.Add(-3*time.Hour - time.Minute), true},
		{"exactly at the cutoff", start.Add(-3 * time.Hour), false},
		{"one minute after the cutoff", start.Add(-2*time.Hour - 59*time.Minute), false},
		{"after the workshop started", start.Add(time.Hour), false},
	}

	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			assert.Equal(t, c.want, RefundAllowed(c.now, start))
		})
	}
}

func TestRefundEligibility(t *testing.T) {
	start := time.Date(2026, 3, 14, 12, 0, 0, 0, time.UTC)

	t.Run("hours remaining until the cutoff, one decimal", func(t *testing.T) {
		report := RefundEligibility(start.Add(-10*time.Hour-33*time.Minute), start)
		assert.True(t, report.Allowed)
		assert.Equal(t, 7.6, report.HoursRemaining)
	})

	t.Run("clamped to zero once closed", func(t *testing.T) {
		report := RefundEligibility(start.Add(-time.Hour), start)
		assert.False(t, report.Allowed)
		assert.Equal(t, 0.0, report.HoursRemaining)
	})

	t.Run("boundary reports zero but closed", func(t *testing.T) {
		report := RefundEligibility(start.Add(-3*time.Hour), start)
		assert.False(t, report.Allowed)
		assert.Equal(t, 0.0, report.HoursRemaining)
	})
}
