// internal/auction/state_test.go
package auction

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/Aaisha011/E-Auction/internal/models"
)

func TestDeriveStatus(t *testing.T) {
	start := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	end := start.Add(2 * time.Hour)

	tests := []struct {
		name    string
		now     time.Time
		current models.AuctionStatus
		want    models.AuctionStatus
	}{
		{
			name:    "before start is upcoming",
			now:     start.Add(-time.Minute),
			current: models.AuctionStatusUpcoming,
			want:    models.AuctionStatusUpcoming,
		},
		{
			name:    "at start is ongoing",
			now:     start,
			current: models.AuctionStatusUpcoming,
			want:    models.AuctionStatusOngoing,
		},
		{
			name:    "inside window is ongoing",
			now:     start.Add(time.Hour),
			current: models.AuctionStatusUpcoming,
			want:    models.AuctionStatusOngoing,
		},
		{
			name:    "at end is completed",
			now:     end,
			current: models.AuctionStatusOngoing,
			want:    models.AuctionStatusCompleted,
		},
		{
			name:    "after end is completed",
			now:     end.Add(24 * time.Hour),
			current: models.AuctionStatusUpcoming,
			want:    models.AuctionStatusCompleted,
		},
		{
			name:    "completed never reverts even before start",
			now:     start.Add(-time.Hour),
			current: models.AuctionStatusCompleted,
			want:    models.AuctionStatusCompleted,
		},
		{
			name:    "completed never reverts inside window",
			now:     start.Add(time.Minute),
			current: models.AuctionStatusCompleted,
			want:    models.AuctionStatusCompleted,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := DeriveStatus(tt.now, start, end, tt.current)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestDeriveStatusIsDeterministic(t *testing.T) {
	start := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	end := start.Add(time.Hour)
	now := start.Add(30 * time.Minute)

	first := DeriveStatus(now, start, end, models.AuctionStatusUpcoming)
	for i := 0; i < 10; i++ {
		assert.Equal(t, first, DeriveStatus(now, start, end, models.AuctionStatusUpcoming))
	}
}

func TestValidateWindow(t *testing.T) {
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

	tests := []struct {
		name  string
		start time.Time
		end   time.Time
		want  bool
	}{
		{"future window", now.Add(time.Hour), now.Add(2 * time.Hour), true},
		{"start equals end", now.Add(time.Hour), now.Add(time.Hour), false},
		{"start after end", now.Add(2 * time.Hour), now.Add(time.Hour), false},
		{"start in the past", now.Add(-time.Hour), now.Add(time.Hour), false},
		{"start equals now", now, now.Add(time.Hour), false},
		{"whole window in the past", now.Add(-2 * time.Hour), now.Add(-time.Hour), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ValidateWindow(now, tt.start, tt.end))
		})
	}
}
