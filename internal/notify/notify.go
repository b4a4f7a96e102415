// Package notify delivers search findings to people. The engine emits
// AvailableCampsite records; notifiers decide where they go.
package notify

import (
	"context"
	"log/slog"

	"github.com/campscout/campscout/internal/providers"
)

type Notifier interface {
	// NotifyAvailability delivers a batch of discoveries. Batches arrive
	// per facility, earliest start date first.
	NotifyAvailability(ctx context.Context, sites []providers.AvailableCampsite) error
}

// LogNotifier reports findings through the process log. It is the fallback
// when no delivery channel is configured.
type LogNotifier struct{}

func (LogNotifier) NotifyAvailability(_ context.Context, sites []providers.AvailableCampsite) error {
	for _, s := range sites {
		slog.Info("campsite available",
			slog.String("facility", s.FacilityName),
			slog.String("site", s.SiteName),
			slog.Time("start", s.StartDate),
			slog.Time("end", s.EndDate),
			slog.Int("nights", s.Nights),
			slog.String("url", s.BookingURL),
		)
	}
	return nil
}
