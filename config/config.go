package config

import (
	"fmt"
	"os"
	"strconv"
	"time"
)

// Defaults mirror the original calendar deployment.
const (
	DefaultTimezone    = "Australia/Melbourne"
	DefaultDayStart    = 6  // 0600 local time
	DefaultDayEnd      = 22 // 2200 local time
	DefaultBlockLength = 6  // hours
	DefaultPeriodDays  = 14
	DefaultLow         = 0.20
	DefaultHigh        = 0.75
	DefaultFormat      = "txt"
	DefaultOutput      = "availability.txt"
)

type Config struct {
	CalDAVURL     string
	Username      string
	Password      string
	CalendarPath  string
	Timezone      *time.Location
	Start         time.Time
	End           time.Time
	DayStart      int
	DayEnd        int
	BlockLength   int
	ThresholdLow  float64
	ThresholdHigh float64
	Format        string
	Output        string
	DatabasePath  string
	RefreshCron   string
}

func Load() (*Config, error) {
	url := os.Getenv("CALDAV_URL")
	username := os.Getenv("CALDAV_USERNAME")
	password := os.Getenv("CALDAV_PASSWORD")
	calendarPath := os.Getenv("CALDAV_CALENDAR_PATH")

	tzName := os.Getenv("TIMEZONE")
	if tzName == "" {
		tzName = DefaultTimezone
	}
	tz, err := time.LoadLocation(tzName)
	if err != nil {
		return nil, fmt.Errorf("invalid TIMEZONE: %w", err)
	}

	dayStart, err := intEnv("DAY_START", DefaultDayStart)
	if err != nil {
		return nil, err
	}
	dayEnd, err := intEnv("DAY_END", DefaultDayEnd)
	if err != nil {
		return nil, err
	}
	blockLength, err := intEnv("BLOCK_LENGTH", DefaultBlockLength)
	if err != nil {
		return nil, err
	}

	low, err := floatEnv("THRESHOLD_LOW", DefaultLow)
	if err != nil {
		return nil, err
	}
	high, err := floatEnv("THRESHOLD_HIGH", DefaultHigh)
	if err != nil {
		return nil, err
	}

	start, err := dateEnv("PERIOD_START", tz, today(tz))
	if err != nil {
		return nil, err
	}
	end, err := dateEnv("PERIOD_END", tz, start.AddDate(0, 0, DefaultPeriodDays))
	if err != nil {
		return nil, err
	}
	if start.After(end) {
		return nil, fmt.Errorf("PERIOD_START must not be after PERIOD_END")
	}

	format := os.Getenv("OUTPUT_FORMAT")
	if format == "" {
		format = DefaultFormat
	}
	output := os.Getenv("OUTPUT_PATH")
	if output == "" {
		output = DefaultOutput
	}

	dbPath := os.Getenv("DATABASE_PATH")
	refreshCron := os.Getenv("REFRESH_CRON")
	if refreshCron == "" {
		refreshCron = "@hourly"
	}

	return &Config{
		CalDAVURL:     url,
		Username:      username,
		Password:      password,
		CalendarPath:  calendarPath,
		Timezone:      tz,
		Start:         start,
		End:           end,
		DayStart:      dayStart,
		DayEnd:        dayEnd,
		BlockLength:   blockLength,
		ThresholdLow:  low,
		ThresholdHigh: high,
		Format:        format,
		Output:        output,
		DatabasePath:  dbPath,
		RefreshCron:   refreshCron,
	}, nil
}

func today(tz *time.Location) time.Time {
	y, m, d := time.Now().In(tz).Date()
	return time.Date(y, m, d, 0, 0, 0, 0, tz)
}

func intEnv(name string, def int) (int, error) {
	v := os.Getenv(name)
	if v == "" {
		return def, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, fmt.Errorf("%s must be a number: %w", name, err)
	}
	return n, nil
}

func floatEnv(name string, def float64) (float64, error) {
	v := os.Getenv(name)
	if v == "" {
		return def, nil
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		return 0, fmt.Errorf("%s must be a number: %w", name, err)
	}
	return f, nil
}

// dateEnv reads a yyyy-mm-dd date interpreted as midnight in tz.
func dateEnv(name string, tz *time.Location, def time.Time) (time.Time, error) {
	v := os.Getenv(name)
	if v == "" {
		return def, nil
	}
	t, err := time.ParseInLocation("2006-01-02", v, tz)
	if err != nil {
		return time.Time{}, fmt.Errorf("%s must be yyyy-mm-dd: %w", name, err)
	}
	return t, nil
}
