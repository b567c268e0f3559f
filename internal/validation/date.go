package validation

import (
	"fmt"
	"strings"
	"time"

	"github.com/ndewijer/Fund-Tracker-Backend/internal/apperrors"
)

// NavDateLayout is the provider's date format, e.g. "15-Jan-2024".
const NavDateLayout = "02-Jan-2006"

// ParseNavDate converts a DD-Mon-YYYY string into a UTC calendar date.
// Any other shape is rejected with apperrors.ErrInvalidFormat; there is no fallback layout.
func ParseNavDate(s string) (time.Time, error) {
	d, err := time.Parse(NavDateLayout, strings.TrimSpace(s))
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: date %q is not DD-Mon-YYYY", apperrors.ErrInvalidFormat, s)
	}
	return d.UTC(), nil
}
