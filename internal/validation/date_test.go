package validation

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ndewijer/Fund-Tracker-Backend/internal/apperrors"
)

func TestParseNavDate(t *testing.T) {
	t.Run("parses DD-Mon-YYYY", func(t *testing.T) {
		d, err := ParseNavDate("15-Jan-2024")
		require.NoError(t, err)
		assert.Equal(t, time.Date(2024, time.January, 15, 0, 0, 0, 0, time.UTC), d)
	})

	t.Run("ignores surrounding whitespace", func(t *testing.T) {
		d, err := ParseNavDate(" 01-Dec-2023 ")
		require.NoError(t, err)
		assert.Equal(t, time.Date(2023, time.December, 1, 0, 0, 0, 0, time.UTC), d)
	})

	for _, in := range []string{"", "2024-01-15", "15/01/2024", "15-January-2024", "31-Feb-2024", "15-Jan-24"} {
		t.Run("rejects "+in, func(t *testing.T) {
			_, err := ParseNavDate(in)
			assert.ErrorIs(t, err, apperrors.ErrInvalidFormat)
		})
	}
}
