package obs

import (
	"context"
	"time"
)

// Time logs how long an operation took. Use as
//
//	defer obs.Time(ctx, "planner.Optimize")(&err)
func Time(ctx context.Context, name string) func(errp *error) {
	start := time.Now()

	return func(errp *error) {
		entry := Logger(ctx).WithField("op", name).WithField("dur_ms", time.Since(start).Milliseconds())

		if errp != nil && *errp != nil {
			entry.WithError(*errp).Info("op failed")
			return
		}
		entry.Debug("op done")
	}
}
