package timeutil

import (
	"testing"
	"time"
)

func TestNow(t *testing.T) {
	now := Now()
	if now.Location() != time.UTC {
		t.Errorf("Now() returned non-UTC: %v", now.Location())
	}
}

func TestToUTC(t *testing.T) {
	est := time.FixedZone("EST", -5*60*60)
	estTime := time.Date(2026, 3, 15, 12, 0, 0, 0, est)

	utcTime := ToUTC(estTime)

	if utcTime.Location() != time.UTC {
		t.Errorf("ToUTC() returned non-UTC: %v", utcTime.Location())
	}
	if utcTime.Hour() != 17 {
		t.Errorf("ToUTC() hour = %d, want 17", utcTime.Hour())
	}
	if !utcTime.Equal(estTime) {
		t.Errorf("ToUTC() changed the instant: %v != %v", utcTime, estTime)
	}
}
