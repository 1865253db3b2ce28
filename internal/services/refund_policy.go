package services

import (
	"math"
	"time"
)

// Refunds close three hours before the workshop starts.
const refundCutoff = 3 * time.Hour

// RefundAllowed reports whether a refund may still be requested for a
// workshop starting at workshopStart. Pure function of its inputs.
func RefundAllowed(now, workshopStart time.Time) bool {
	return now.Before(workshopStart.Add(-refundCutoff))
}

// EligibilityReport is the display form of the refund window check:
// whether a refund is allowed now and how many hours remain until the
// cutoff, clamped to zero and rounded to one decimal.
type EligibilityReport struct {
	Allowed        bool
	HoursRemaining float64
}

func RefundEligibility(now, workshopStart time.Time) EligibilityReport {
	deadline := workshopStart.Add(-refundCutoff)
	hours := deadline.Sub(now).Hours()
	if hours < 0 {
		hours = 0
	}
	return EligibilityReport{
		Allowed:        now.Before(deadline),
		HoursRemaining: math.Round(hours*10) / 10,
	}
}
