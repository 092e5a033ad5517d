package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/example/gymbook/internal/domain/booking"
	"github.com/example/gymbook/internal/internaltypes"
	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

const defaultConfigFile = "gymbook.yaml"

type Config struct {
	Username string
	Password string

	LoginURL     string
	HomeURL      string
	EventKeyword string
	// DateLayout formats today's date the way event cards print it, lower-cased.
	DateLayout  string
	OpeningTime string // HH:MM, empty disables the gate
	Location    *time.Location

	Schedule  booking.DaySchedule
	Selectors booking.Selectors
	Labels    booking.Labels

	Retry  Retry
	Delays Delays

	BrowserDriver string
	Headless      bool
	ScreenshotDir string
	HistoryDSN    string
	CronSpec      string

	LogLevel    string
	Environment string
}

type Retry struct {
	MaxAttempts     int // 0 retries forever
	Delay           time.Duration
	NoEventDelay    time.Duration
	UnbookableDelay time.Duration
	Login           bool
}

type Delays struct {
	PageLoad       time.Duration
	Login          time.Duration
	EventOpen      time.Duration
	Settle         time.Duration
	Rerender       time.Duration
	ConfirmTimeout time.Duration
	ConfirmPoll    time.Duration
	ElementTimeout time.Duration
}

func Defaults() Config {
	return Config{
		LoginURL:     "https://popr.uni-lj.si/unauth/440877/login",
		HomeURL:      "https://popr.uni-lj.si/user/home.html?currentUserLocale=es",
		EventKeyword: "Fitnes",
		DateLayout:   "02-Jan-2006",
		OpeningTime:  "06:00",
		Location:     time.Local,

		Schedule:  booking.DefaultSchedule(),
		Selectors: booking.DefaultSelectors(),
		Labels:    booking.DefaultLabels(),

		Retry: Retry{
			MaxAttempts: 4,
			Delay:       5 * time.Second,
		},
		Delays: Delays{
			PageLoad:       2 * time.Second,
			Login:          2 * time.Second,
			EventOpen:      3 * time.Second,
			Settle:         2 * time.Second,
			Rerender:       1500 * time.Millisecond,
			ConfirmTimeout: 5 * time.Second,
			ConfirmPoll:    250 * time.Millisecond,
			ElementTimeout: 10 * time.Second,
		},

		BrowserDriver: "playwright",
		Headless:      true,
		CronSpec:      "55 5 * * *",

		LogLevel:    "info",
		Environment: "development",
	}
}

// Load reads .env (without overriding the real environment), then the YAML file
// named by GYMBOOK_CONFIG (gymbook.yaml if present), then environment variables.
// Credentials are not checked here; see RequireCredentials.
func Load() (Config, error) {
	_ = godotenv.Load()

	cfg := Defaults()

	path, explicit := os.LookupEnv("GYMBOOK_CONFIG")
	if !explicit || strings.TrimSpace(path) == "" {
		path = defaultConfigFile
	}
	b, err := os.ReadFile(path)
	switch {
	case err == nil:
		if err := cfg.applyYAML(b); err != nil {
			return Config{}, fmt.Errorf("%s: %w", path, err)
		}
	case errors.Is(err, fs.ErrNotExist) && !explicit:
	default:
		return Config{}, fmt.Errorf("read config: %w", err)
	}

	if err := cfg.applyEnv(); err != nil {
		return Config{}, err
	}
	cfg.finalize()
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c Config) RequireCredentials() error {
	if c.Username == "" || c.Password == "" {
		return internaltypes.ErrMissingCredentials
	}
	return nil
}

func (c Config) Infinite() bool { return c.Retry.MaxAttempts == 0 }

func (c Config) Validate() error {
	if c.OpeningTime != "" {
		if _, err := booking.ParseClock(c.OpeningTime); err != nil {
			return fmt.Errorf("OPENING_TIME: %w", err)
		}
	}
	if c.Retry.MaxAttempts < 0 {
		return fmt.Errorf("MAX_ATTEMPTS must be >= 0")
	}
	for name, d := range map[string]time.Duration{
		"RETRY_DELAY":            c.Retry.Delay,
		"RETRY_NO_EVENT_DELAY":   c.Retry.NoEventDelay,
		"RETRY_UNBOOKABLE_DELAY": c.Retry.UnbookableDelay,
		"SETTLE_DELAY":           c.Delays.Settle,
		"RERENDER_DELAY":         c.Delays.Rerender,
		"CONFIRM_TIMEOUT":        c.Delays.ConfirmTimeout,
	} {
		if d < 0 {
			return fmt.Errorf("%s must not be negative", name)
		}
	}
	if c.Delays.ElementTimeout <= 0 {
		return fmt.Errorf("ELEMENT_TIMEOUT must be positive")
	}
	if c.Delays.ConfirmPoll <= 0 {
		return fmt.Errorf("confirm poll interval must be positive")
	}
	switch c.BrowserDriver {
	case "playwright", "chromedp":
	default:
		return fmt.Errorf("BROWSER_DRIVER must be playwright or chromedp, got %q", c.BrowserDriver)
	}
	if c.EventKeyword == "" {
		return fmt.Errorf("EVENT_KEYWORD is required")
	}
	if err := c.Selectors.Validate(); err != nil {
		return err
	}
	return c.Labels.Validate()
}

// finalize fills the tiered delays used when retrying forever.
func (c *Config) finalize() {
	if c.Infinite() && c.Retry.NoEventDelay == 0 && c.Retry.UnbookableDelay == 0 {
		c.Retry.NoEventDelay = 60 * time.Second
		c.Retry.UnbookableDelay = 10 * time.Second
	}
}

type fileConfig struct {
	LoginURL      string            `yaml:"login_url"`
	HomeURL       string            `yaml:"home_url"`
	EventKeyword  string            `yaml:"event_keyword"`
	DateLayout    string            `yaml:"date_layout"`
	OpeningTime   *string           `yaml:"opening_time"`
	Timezone      string            `yaml:"timezone"`
	ScreenshotDir string            `yaml:"screenshot_dir"`
	HistoryDSN    string            `yaml:"history_dsn"`
	CronSpec      string            `yaml:"cron_spec"`
	Schedule      map[string]string `yaml:"schedule"`

	Retry struct {
		MaxAttempts     *int   `yaml:"max_attempts"`
		Delay           string `yaml:"delay"`
		NoEventDelay    string `yaml:"no_event_delay"`
		UnbookableDelay string `yaml:"unbookable_delay"`
		Login           *bool  `yaml:"login"`
	} `yaml:"retry"`

	Delays struct {
		PageLoad       string `yaml:"page_load"`
		Login          string `yaml:"login"`
		EventOpen      string `yaml:"event_open"`
		Settle         string `yaml:"settle"`
		Rerender       string `yaml:"rerender"`
		ConfirmTimeout string `yaml:"confirm_timeout"`
		ConfirmPoll    string `yaml:"confirm_poll"`
		ElementTimeout string `yaml:"element_timeout"`
	} `yaml:"delays"`

	Browser struct {
		Driver   string `yaml:"driver"`
		Headless *bool  `yaml:"headless"`
	} `yaml:"browser"`

	Selectors booking.Selectors `yaml:"selectors"`
	Labels    booking.Labels    `yaml:"labels"`
}

func (c *Config) applyYAML(b []byte) error {
	fc := fileConfig{Selectors: c.Selectors, Labels: c.Labels}
	if err := yaml.Unmarshal(b, &fc); err != nil {
		return err
	}

	setString(&c.LoginURL, fc.LoginURL)
	setString(&c.HomeURL, fc.HomeURL)
	setString(&c.EventKeyword, fc.EventKeyword)
	setString(&c.DateLayout, fc.DateLayout)
	setString(&c.ScreenshotDir, fc.ScreenshotDir)
	setString(&c.HistoryDSN, fc.HistoryDSN)
	setString(&c.CronSpec, fc.CronSpec)
	setString(&c.BrowserDriver, fc.Browser.Driver)
	if fc.OpeningTime != nil {
		c.OpeningTime = strings.TrimSpace(*fc.OpeningTime)
	}
	if fc.Browser.Headless != nil {
		c.Headless = *fc.Browser.Headless
	}
	if fc.Retry.MaxAttempts != nil {
		c.Retry.MaxAttempts = *fc.Retry.MaxAttempts
	}
	if fc.Retry.Login != nil {
		c.Retry.Login = *fc.Retry.Login
	}
	if fc.Timezone != "" {
		loc, err := time.LoadLocation(fc.Timezone)
		if err != nil {
			return fmt.Errorf("timezone: %w", err)
		}
		c.Location = loc
	}
	if len(fc.Schedule) > 0 {
		s, err := booking.ParseSchedule(fc.Schedule)
		if err != nil {
			return err
		}
		c.Schedule = s
	}
	c.Selectors = fc.Selectors
	c.Labels = fc.Labels

	for _, d := range []struct {
		name string
		raw  string
		dst  *time.Duration
	}{
		{"retry.delay", fc.Retry.Delay, &c.Retry.Delay},
		{"retry.no_event_delay", fc.Retry.NoEventDelay, &c.Retry.NoEventDelay},
		{"retry.unbookable_delay", fc.Retry.UnbookableDelay, &c.Retry.UnbookableDelay},
		{"delays.page_load", fc.Delays.PageLoad, &c.Delays.PageLoad},
		{"delays.login", fc.Delays.Login, &c.Delays.Login},
		{"delays.event_open", fc.Delays.EventOpen, &c.Delays.EventOpen},
		{"delays.settle", fc.Delays.Settle, &c.Delays.Settle},
		{"delays.rerender", fc.Delays.Rerender, &c.Delays.Rerender},
		{"delays.confirm_timeout", fc.Delays.ConfirmTimeout, &c.Delays.ConfirmTimeout},
		{"delays.confirm_poll", fc.Delays.ConfirmPoll, &c.Delays.ConfirmPoll},
		{"delays.element_timeout", fc.Delays.ElementTimeout, &c.Delays.ElementTimeout},
	} {
		if err := parseDuration(d.name, d.raw, d.dst); err != nil {
			return err
		}
	}
	return nil
}

func (c *Config) applyEnv() error {
	c.Username = strings.TrimSpace(os.Getenv("APP_USERNAME"))
	c.Password = os.Getenv("APP_PASSWORD")

	c.LoginURL = envDefault("LOGIN_URL", c.LoginURL)
	c.HomeURL = envDefault("HOME_URL", c.HomeURL)
	c.EventKeyword = envDefault("EVENT_KEYWORD", c.EventKeyword)
	c.DateLayout = envDefault("DATE_LAYOUT", c.DateLayout)
	c.ScreenshotDir = envDefault("SCREENSHOT_DIR", c.ScreenshotDir)
	c.HistoryDSN = envDefault("HISTORY_DSN", c.HistoryDSN)
	c.CronSpec = envDefault("CRON_SPEC", c.CronSpec)
	c.BrowserDriver = strings.ToLower(envDefault("BROWSER_DRIVER", c.BrowserDriver))
	c.LogLevel = strings.ToLower(envDefault("LOG_LEVEL", c.LogLevel))
	c.Environment = strings.ToLower(envDefault("ENVIRONMENT", c.Environment))
	if v, ok := os.LookupEnv("OPENING_TIME"); ok {
		c.OpeningTime = strings.TrimSpace(v)
	}

	if tz := strings.TrimSpace(os.Getenv("TIMEZONE")); tz != "" {
		loc, err := time.LoadLocation(tz)
		if err != nil {
			return fmt.Errorf("invalid TIMEZONE: %w", err)
		}
		c.Location = loc
	}
	if err := envInt("MAX_ATTEMPTS", &c.Retry.MaxAttempts); err != nil {
		return err
	}
	if err := envBool("RETRY_LOGIN", &c.Retry.Login); err != nil {
		return err
	}
	if err := envBool("HEADLESS", &c.Headless); err != nil {
		return err
	}
	for k, dst := range map[string]*time.Duration{
		"RETRY_DELAY":            &c.Retry.Delay,
		"RETRY_NO_EVENT_DELAY":   &c.Retry.NoEventDelay,
		"RETRY_UNBOOKABLE_DELAY": &c.Retry.UnbookableDelay,
		"SETTLE_DELAY":           &c.Delays.Settle,
		"RERENDER_DELAY":         &c.Delays.Rerender,
		"CONFIRM_TIMEOUT":        &c.Delays.ConfirmTimeout,
		"ELEMENT_TIMEOUT":        &c.Delays.ElementTimeout,
	} {
		if err := parseDuration(k, os.Getenv(k), dst); err != nil {
			return err
		}
	}
	return nil
}

func envDefault(k, d string) string {
	v := strings.TrimSpace(os.Getenv(k))
	if v == "" {
		return d
	}
	return v
}

func envInt(k string, dst *int) error {
	v := strings.TrimSpace(os.Getenv(k))
	if v == "" {
		return nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return fmt.Errorf("invalid %s: %w", k, err)
	}
	*dst = n
	return nil
}

func envBool(k string, dst *bool) error {
	v := strings.TrimSpace(os.Getenv(k))
	if v == "" {
		return nil
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return fmt.Errorf("invalid %s: %w", k, err)
	}
	*dst = b
	return nil
}

func parseDuration(name, raw string, dst *time.Duration) error {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil
	}
	d, err := time.ParseDuration(raw)
	if err != nil {
		return fmt.Errorf("invalid %s: %w", name, err)
	}
	*dst = d
	return nil
}

func setString(dst *string, v string) {
	if v = strings.TrimSpace(v); v != "" {
		*dst = v
	}
}
