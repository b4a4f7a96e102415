package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"sync"
	"text/tabwriter"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/robfig/cron/v3"
	"github.com/spf13/cobra"

	"github.com/campscout/campscout/internal/config"
	"github.com/campscout/campscout/internal/notify"
	"github.com/campscout/campscout/internal/providers"
	"github.com/campscout/campscout/internal/search"
)

func newSearchCmd(configPath, providerName *string) *cobra.Command {
	var (
		recAreas     []int
		campgrounds  []int
		campsites    []int
		startDate    string
		endDate      string
		nights       int
		weekends     bool
		equipment    string
		equipLength  int
		partySize    int
		concurrency  int
		watch        bool
		pollInterval time.Duration
	)

	cmd := &cobra.Command{
		Use:   "search",
		Short: "Search for campsites free for N consecutive nights",
		RunE: func(cmd *cobra.Command, args []string) error {
			window, err := parseWindow(startDate, endDate)
			if err != nil {
				return err
			}
			cfg, provider, err := loadProvider(*configPath, *providerName)
			if err != nil {
				return err
			}

			opts := search.Options{
				Windows:           []providers.DateRange{window},
				Nights:            nights,
				WeekendsOnly:      weekends,
				RecreationAreaIDs: recAreas,
				FacilityIDs:       campgrounds,
				CampsiteIDs:       campsites,
				Equipment:         search.EquipmentSpec{Name: equipment, Length: equipLength},
				PartySize:         partySize,
				Concurrency:       concurrency,
			}

			engine := search.New(provider)
			if !watch {
				res, err := engine.Run(cmd.Context(), opts)
				if err != nil {
					return err
				}
				printResult(res)
				return nil
			}
			return runWatch(cmd.Context(), cfg, engine, opts, pollInterval)
		},
	}

	cmd.Flags().IntSliceVar(&recAreas, "rec-area", nil, "recreation area ids to search")
	cmd.Flags().IntSliceVar(&campgrounds, "campground", nil, "limit to these facility ids")
	cmd.Flags().IntSliceVar(&campsites, "campsite", nil, "limit to these campsite ids")
	cmd.Flags().StringVar(&startDate, "start-date", "", "first night, YYYY-MM-DD")
	cmd.Flags().StringVar(&endDate, "end-date", "", "checkout day, YYYY-MM-DD (exclusive)")
	cmd.Flags().IntVar(&nights, "nights", 1, "minimum consecutive free nights")
	cmd.Flags().BoolVar(&weekends, "weekends", false, "only windows touching a Friday or Saturday")
	cmd.Flags().StringVar(&equipment, "equipment", "", "equipment name, e.g. tent or trailer")
	cmd.Flags().IntVar(&equipLength, "equipment-length", 0, "equipment length in feet, 0 for any")
	cmd.Flags().IntVar(&partySize, "party-size", 1, "number of people")
	cmd.Flags().IntVar(&concurrency, "concurrency", 4, "facilities checked in parallel")
	cmd.Flags().BoolVar(&watch, "watch", false, "keep polling and notify on new availability")
	cmd.Flags().DurationVar(&pollInterval, "poll-interval", 5*time.Minute, "time between polls in watch mode")
	cmd.MarkFlagRequired("start-date")
	cmd.MarkFlagRequired("end-date")
	return cmd
}

func parseWindow(start, end string) (providers.DateRange, error) {
	s, err := time.Parse("2006-01-02", start)
	if err != nil {
		return providers.DateRange{}, fmt.Errorf("bad --start-date: %w", err)
	}
	e, err := time.Parse("2006-01-02", end)
	if err != nil {
		return providers.DateRange{}, fmt.Errorf("bad --end-date: %w", err)
	}
	w := providers.NewDateRange(s, e)
	if !w.Start.Before(w.End) {
		return providers.DateRange{}, fmt.Errorf("--end-date must be after --start-date")
	}
	return w, nil
}

func printResult(res *search.Result) {
	if len(res.Campsites) > 0 {
		w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
		fmt.Fprintln(w, "FACILITY\tSITE\tDATES\tNIGHTS\tBOOK")
		for _, s := range res.Campsites {
			fmt.Fprintf(w, "%s\t%s\t%s to %s\t%d\t%s\n",
				s.FacilityName, s.SiteName,
				s.StartDate.Format("2006-01-02"), s.EndDate.Format("2006-01-02"),
				s.Nights, s.BookingURL)
		}
		w.Flush()
	}

	switch {
	case res.Complete() && len(res.Campsites) == 0:
		fmt.Println("No availability found.")
	case res.Complete():
		fmt.Printf("Found %s available windows across %s facilities.\n",
			humanize.Comma(int64(len(res.Campsites))), humanize.Comma(int64(res.FacilitiesChecked)))
	default:
		total := res.FacilitiesChecked + res.FacilitiesSkipped
		fmt.Printf("Search could not complete for %d of %d facilities:\n",
			len(res.FacilityFailures)+res.FacilitiesSkipped, total)
		for _, f := range res.FacilityFailures {
			fmt.Printf("  - %s (facility %d): %v\n", f.Facility.Name, f.Facility.FacilityID, f.Err)
		}
		for _, a := range res.AreaFailures {
			fmt.Printf("  - recreation area %d: %v\n", a.RecreationAreaID, a.Err)
		}
		if res.FacilitiesSkipped > 0 {
			fmt.Printf("  - %d facilities not checked\n", res.FacilitiesSkipped)
		}
	}
}

// runWatch re-runs the search on a schedule and notifies only windows not
// seen in an earlier poll.
func runWatch(ctx context.Context, cfg *config.Config, engine *search.Engine, opts search.Options, interval time.Duration) error {
	var notifier notify.Notifier = notify.LogNotifier{}
	if cfg.Discord.WebhookID != "" {
		d, err := notify.NewDiscordWebhook(cfg.Discord.WebhookID, cfg.Discord.WebhookToken)
		if err != nil {
			return err
		}
		notifier = d
	}

	// seen and lastFound are shared between poll runs; a poll can outlast the
	// interval, so ticks must not overlap and the state needs a lock.
	var mu sync.Mutex
	seen := map[string]bool{}
	var lastFound time.Time
	poll := func() {
		runOpts := opts
		runOpts.OnFound = func(sites []providers.AvailableCampsite) {
			mu.Lock()
			fresh := make([]providers.AvailableCampsite, 0, len(sites))
			for _, s := range sites {
				key := fmt.Sprintf("%d|%s|%s", s.CampsiteID, s.StartDate.Format("2006-01-02"), s.EndDate.Format("2006-01-02"))
				if seen[key] {
					continue
				}
				seen[key] = true
				fresh = append(fresh, s)
			}
			if len(fresh) > 0 {
				lastFound = time.Now()
			}
			mu.Unlock()
			if len(fresh) == 0 {
				return
			}
			if err := notifier.NotifyAvailability(ctx, fresh); err != nil {
				slog.Warn("notify failed", slog.Any("err", err))
			}
		}
		res, err := engine.Run(ctx, runOpts)
		if err != nil && !errors.Is(err, search.ErrSearchCancelled) {
			slog.Error("poll failed", slog.Any("err", err))
			return
		}
		mu.Lock()
		last := lastFound
		mu.Unlock()
		status := "nothing new"
		if !last.IsZero() {
			status = "last find " + humanize.Time(last)
		}
		slog.Info("poll complete",
			slog.Int("found", len(res.Campsites)),
			slog.Int("facilities", res.FacilitiesChecked),
			slog.String("status", status),
		)
	}

	poll()
	c := cron.New(cron.WithChain(cron.SkipIfStillRunning(cron.DiscardLogger)))
	if _, err := c.AddFunc(fmt.Sprintf("@every %s", interval), poll); err != nil {
		return err
	}
	c.Start()
	<-ctx.Done()
	<-c.Stop().Done()
	return nil
}
