package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"availcal/config"
	"availcal/internal/clients/caldav"
	"availcal/internal/domain"
	"availcal/internal/output"
	"availcal/internal/scheduler"
	"availcal/internal/service"
	"availcal/internal/storage"
)

func printHelp() {
	fmt.Fprintf(os.Stderr, `CalDAV Availability Tool

Computes free/busy availability over a calendar period. The calendar is
downloaded from a CalDAV server, each day's active window is partitioned
into fixed-length blocks, event time is attributed to the blocks it
overlaps, and each block is classified by how busy it is.

USAGE:
    %s [OPTIONS]

OPTIONS:
    -h, --help                Show this help message and exit
    --url URL                 CalDAV .ics export URL (or CALDAV_URL env var)
    --username USER           Username for the CalDAV server
    --password PASS           Password for the CalDAV server
    --calendar PATH           CalDAV collection path; when set, events are
                              fetched with a calendar-query instead of a
                              plain download
    --start yyyy-mm-dd        First date of the period (default: today)
    --end yyyy-mm-dd          Last date of the period (default: start + %d days)
    --day-start H             First hour considered each day (default: %d)
    --day-end H               Last hour considered each day (default: %d)
    --block-length H          Block length in hours (default: %d)
    --timezone ZONE           Local timezone (default: %s)
    --format FMT              Output format: json, yml or txt (default: %s)
    --output FILE             Output file; its extension is rewritten to
                              match the format (default: %s)
    --database FILE           SQLite file to record runs in (optional)
    --daemon                  Keep running and refresh on a cron schedule
    --refresh-cron SPEC       Cron spec for daemon refreshes (default: @hourly)

ENVIRONMENT VARIABLES:
    CALDAV_URL, CALDAV_USERNAME, CALDAV_PASSWORD, CALDAV_CALENDAR_PATH,
    TIMEZONE, PERIOD_START, PERIOD_END, DAY_START, DAY_END, BLOCK_LENGTH,
    THRESHOLD_LOW, THRESHOLD_HIGH, OUTPUT_FORMAT, OUTPUT_PATH,
    DATABASE_PATH, REFRESH_CRON

    Command-line flags override environment variables.

DESCRIPTION:
    Blocks are classified "high" when more than the high threshold of the
    block is assigned, "medium" between the thresholds, "low" otherwise,
    and "unavailable" when an overlapping event carries a Leave or Off
    category. Events marked TRANSPARENT ("show me as free") contribute
    location and category metadata but no busy time.

EXAMPLES:
    # One-shot run against a published export
    %s --url https://cal.example.com/export.ics --username me --password app-pass

    # Query a CalDAV collection and write JSON
    %s --url https://caldav.example.com --calendar /me/calendars/work/ \
        --username me --password app-pass --format json --output avail.json

    # Daemon mode, refreshing every 15 minutes
    %s --daemon --refresh-cron "*/15 * * * *" --database ./data/availcal.db

`, os.Args[0], config.DefaultPeriodDays, config.DefaultDayStart, config.DefaultDayEnd,
		config.DefaultBlockLength, config.DefaultTimezone, config.DefaultFormat,
		config.DefaultOutput, os.Args[0], os.Args[0], os.Args[0])
}

func main() {
	helpFlag := flag.Bool("help", false, "Show help message")
	helpFlagShort := flag.Bool("h", false, "Show help message (shorthand)")
	urlFlag := flag.String("url", "", "CalDAV export URL")
	usernameFlag := flag.String("username", "", "CalDAV username")
	passwordFlag := flag.String("password", "", "CalDAV password")
	calendarFlag := flag.String("calendar", "", "CalDAV collection path")
	startFlag := flag.String("start", "", "First date of the period (yyyy-mm-dd)")
	endFlag := flag.String("end", "", "Last date of the period (yyyy-mm-dd)")
	dayStartFlag := flag.Int("day-start", -1, "First hour considered each day")
	dayEndFlag := flag.Int("day-end", -1, "Last hour considered each day")
	blockLengthFlag := flag.Int("block-length", -1, "Block length in hours")
	timezoneFlag := flag.String("timezone", "", "Local timezone name")
	formatFlag := flag.String("format", "", "Output format: json, yml or txt")
	outputFlag := flag.String("output", "", "Output file path")
	databaseFlag := flag.String("database", "", "SQLite database path")
	daemonFlag := flag.Bool("daemon", false, "Keep running and refresh on a schedule")
	refreshCronFlag := flag.String("refresh-cron", "", "Cron spec for daemon refreshes")
	flag.Parse()

	if *helpFlag || *helpFlagShort {
		printHelp()
		os.Exit(0)
	}

	log.SetFlags(log.LstdFlags | log.Lshortfile)

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}
	if err := applyFlags(cfg, *urlFlag, *usernameFlag, *passwordFlag, *calendarFlag,
		*startFlag, *endFlag, *dayStartFlag, *dayEndFlag, *blockLengthFlag,
		*timezoneFlag, *formatFlag, *outputFlag, *databaseFlag, *refreshCronFlag); err != nil {
		log.Fatalf("Invalid flags: %v", err)
	}

	if cfg.CalDAVURL == "" {
		log.Fatalf("CalDAV URL is required (--url or CALDAV_URL). Use --help for more information.")
	}

	client := caldav.NewClient(cfg.CalDAVURL, cfg.Username, cfg.Password)
	if cfg.CalendarPath != "" {
		client.SetCalendarPath(cfg.CalendarPath)
	}

	var store *storage.Storage
	if cfg.DatabasePath != "" {
		store, err = storage.New(cfg.DatabasePath)
		if err != nil {
			log.Fatalf("Failed to init storage: %v", err)
		}
		defer store.Close()
	}

	svc := service.NewAvailabilityService()

	run := func(ctx context.Context) error {
		return computeAndWrite(ctx, cfg, client, svc, store)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	if !*daemonFlag {
		if err := run(ctx); err != nil {
			log.Fatalf("Availability run failed: %v", err)
		}
		return
	}

	// Daemon mode: compute once now, then refresh on the cron spec.
	if err := run(ctx); err != nil {
		log.Printf("Availability run failed: %v", err)
	}

	sched := scheduler.New(cfg.Timezone, cfg.RefreshCron, func() {
		if err := run(ctx); err != nil {
			log.Printf("Availability refresh failed: %v", err)
		}
	})

	go func() {
		if err := sched.Start(ctx); err != nil {
			log.Printf("Scheduler error: %v", err)
		}
	}()

	log.Println("availcal started")

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	<-sigCh

	log.Println("Shutting down...")
	cancel()
	sched.Stop()
	log.Println("availcal stopped")
}

// computeAndWrite runs one end-to-end availability computation.
func computeAndWrite(ctx context.Context, cfg *config.Config, client *caldav.Client,
	svc *service.AvailabilityService, store *storage.Storage) error {

	var (
		lines []string
		err   error
	)
	if cfg.CalendarPath != "" {
		lines, err = client.QueryLines(ctx, cfg.CalendarPath, cfg.Start, cfg.End)
	} else {
		lines, err = client.FetchLines(ctx, cfg.CalDAVURL)
	}
	if err != nil {
		return fmt.Errorf("retrieve calendar: %w", err)
	}

	blocks, err := svc.Compute(lines, service.Params{
		PeriodStart: cfg.Start,
		PeriodEnd:   cfg.End,
		DayStart:    cfg.DayStart,
		DayEnd:      cfg.DayEnd,
		BlockLength: cfg.BlockLength,
		Timezone:    cfg.Timezone,
		Thresholds:  domain.Thresholds{Low: cfg.ThresholdLow, High: cfg.ThresholdHigh},
	})
	if err != nil {
		return fmt.Errorf("compute availability: %w", err)
	}

	if err := output.Write(blocks, cfg.Format, cfg.Output); err != nil {
		return fmt.Errorf("write output: %w", err)
	}

	if store != nil {
		runID, err := store.SaveRun(cfg.Start, cfg.End, blocks)
		if err != nil {
			return fmt.Errorf("save run: %w", err)
		}
		log.Printf("Saved run %d (%d blocks)", runID, len(blocks))
	}

	log.Printf("Computed %d blocks for %s..%s",
		len(blocks), cfg.Start.Format("2006-01-02"), cfg.End.Format("2006-01-02"))
	return nil
}

// applyFlags overrides config values with any flags the user set.
func applyFlags(cfg *config.Config, url, username, password, calendar,
	start, end string, dayStart, dayEnd, blockLength int,
	timezone, format, outputPath, database, refreshCron string) error {

	if url != "" {
		cfg.CalDAVURL = url
	}
	if username != "" {
		cfg.Username = username
	}
	if password != "" {
		cfg.Password = password
	}
	if calendar != "" {
		cfg.CalendarPath = calendar
	}
	if timezone != "" {
		tz, err := time.LoadLocation(timezone)
		if err != nil {
			return fmt.Errorf("invalid --timezone: %w", err)
		}
		cfg.Timezone = tz
	}
	if start != "" {
		t, err := time.ParseInLocation("2006-01-02", start, cfg.Timezone)
		if err != nil {
			return fmt.Errorf("invalid --start: %w", err)
		}
		cfg.Start = t
		if end == "" && !cfg.Start.Before(cfg.End) {
			cfg.End = cfg.Start.AddDate(0, 0, config.DefaultPeriodDays)
		}
	}
	if end != "" {
		t, err := time.ParseInLocation("2006-01-02", end, cfg.Timezone)
		if err != nil {
			return fmt.Errorf("invalid --end: %w", err)
		}
		cfg.End = t
	}
	if cfg.Start.After(cfg.End) {
		return fmt.Errorf("start date %s is after end date %s",
			cfg.Start.Format("2006-01-02"), cfg.End.Format("2006-01-02"))
	}
	if dayStart >= 0 {
		cfg.DayStart = dayStart
	}
	if dayEnd >= 0 {
		cfg.DayEnd = dayEnd
	}
	if blockLength >= 0 {
		cfg.BlockLength = blockLength
	}
	if format != "" {
		cfg.Format = format
	}
	if outputPath != "" {
		cfg.Output = outputPath
	}
	if database != "" {
		cfg.DatabasePath = database
	}
	if refreshCron != "" {
		cfg.RefreshCron = refreshCron
	}
	return nil
}
