package workhive

import (
	"time"

	"github.com/goliatone/go-errors"
)

// IsOutsideThresholdPeriod reports whether t is further in the past than the
// duration expression, e.g. "24h". Used for login cool-down windows.
func IsOutsideThresholdPeriod(t time.Time, thresholdExpr string) (bool, error) {
	threshold, err := time.ParseDuration(thresholdExpr)
	if err != nil {
		return false, errors.Wrap(err, errors.CategoryBadInput, "invalid threshold expression").
			WithMetadata(map[string]any{"expression": thresholdExpr})
	}

	return time.Since(t) > threshold, nil
}
