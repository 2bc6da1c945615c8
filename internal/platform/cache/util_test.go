package cache

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTimeUntilNextMarketClose(t *testing.T) {
	t.Parallel()

	ny, err := time.LoadLocation("America/New_York")
	require.NoError(t, err)

	tests := []struct {
		name string
		now  time.Time
		want time.Duration
	}{
		{"weekday morning", time.Date(2025, 6, 4, 9, 30, 0, 0, ny), 6*time.Hour + 30*time.Minute},
		{"weekday after close", time.Date(2025, 6, 4, 17, 0, 0, 0, ny), 23 * time.Hour},
		{"exactly at close rolls to next day", time.Date(2025, 6, 4, 16, 0, 0, 0, ny), 24 * time.Hour},
		{"friday after close skips weekend", time.Date(2025, 6, 6, 18, 0, 0, 0, ny), 70 * time.Hour},
		{"saturday", time.Date(2025, 6, 7, 12, 0, 0, 0, ny), 52 * time.Hour},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, TimeUntilNextMarketClose(tt.now))
		})
	}
}
