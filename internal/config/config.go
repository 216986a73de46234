package config

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"strconv"
	"strings"
	"time"

	"grid-mix/internal/data"
	"grid-mix/internal/output"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// DefaultLookbackHours is the window a run covers when nothing else is configured.
const DefaultLookbackHours = 24

// Config is the on-disk configuration shape (YAML). Every field is optional.
type Config struct {
	LookbackHours int          `yaml:"lookback_hours"`
	BMRS          BMRSConfig   `yaml:"bmrs"`
	NESO          NESOConfig   `yaml:"neso"`
	HTTP          HTTPConfig   `yaml:"http"`
	Output        OutputConfig `yaml:"output"`
	Cache         CacheConfig  `yaml:"cache"`

	// Set from the environment only.
	APIPort string `yaml:"-"`
	APIEnv  string `yaml:"-"`
}

type BMRSConfig struct {
	FuelInstURL string `yaml:"fuelinst_url"`
}

type NESOConfig struct {
	DemandURL string `yaml:"demand_url"`
}

type HTTPConfig struct {
	Timeout Duration `yaml:"timeout"`
}

type OutputConfig struct {
	CSVPath  string `yaml:"csv_path"`
	XLSXPath string `yaml:"xlsx_path"`
}

// CacheConfig controls the development response cache.
type CacheConfig struct {
	Enabled bool     `yaml:"enabled"`
	TTL     Duration `yaml:"ttl"`
}

// Duration is a time.Duration that unmarshals from strings like "30s".
type Duration time.Duration

func (d *Duration) UnmarshalYAML(value *yaml.Node) error {
	var s string
	if err := value.Decode(&s); err != nil {
		return err
	}
	parsed, err := time.ParseDuration(strings.TrimSpace(s))
	if err != nil {
		return fmt.Errorf("invalid duration %q: %w", s, err)
	}
	*d = Duration(parsed)
	return nil
}

func (d Duration) Std() time.Duration { return time.Duration(d) }

// Default returns the configuration used when no file or environment is given.
func Default() *Config {
	return &Config{
		LookbackHours: DefaultLookbackHours,
		BMRS:          BMRSConfig{FuelInstURL: data.DefaultFuelInstURL},
		NESO:          NESOConfig{DemandURL: data.DefaultDemandURL},
		HTTP:          HTTPConfig{Timeout: Duration(data.DefaultTimeout)},
		Output:        OutputConfig{CSVPath: output.DefaultCSVPath},
		Cache:         CacheConfig{TTL: Duration(time.Hour)},
		APIPort:       "8080",
	}
}

// Load reads .env (if present), the YAML file at path (if path is non-empty),
// applies environment overrides and validates the result.
func Load(path string) (*Config, error) {
	// .env is optional
	_ = godotenv.Load()

	c, err := LoadUnchecked(path)
	if err != nil {
		return nil, err
	}
	if err := c.ApplyEnv(os.Getenv); err != nil {
		return nil, err
	}
	if err := c.Validate(); err != nil {
		return nil, err
	}
	return c, nil
}

// LoadUnchecked overlays the YAML file onto the defaults without validating.
// Useful for debugging/printing partial configs.
func LoadUnchecked(path string) (*Config, error) {
	c := Default()
	if path == "" {
		return c, nil
	}
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	if err := yaml.Unmarshal(raw, c); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	return c, nil
}

// ApplyEnv overrides fields from environment variables. getenv is usually os.Getenv.
func (c *Config) ApplyEnv(getenv func(string) string) error {
	if v := getenv("MIX_LOOKBACK_HOURS"); v != "" {
		n, err := strconv.Atoi(strings.TrimSpace(v))
		if err != nil {
			return fmt.Errorf("MIX_LOOKBACK_HOURS: %w", err)
		}
		c.LookbackHours = n
	}
	if v := getenv("BMRS_FUELINST_URL"); v != "" {
		c.BMRS.FuelInstURL = v
	}
	if v := getenv("NESO_DEMAND_URL"); v != "" {
		c.NESO.DemandURL = v
	}
	if v := getenv("HTTP_TIMEOUT"); v != "" {
		d, err := time.ParseDuration(strings.TrimSpace(v))
		if err != nil {
			return fmt.Errorf("HTTP_TIMEOUT: %w", err)
		}
		c.HTTP.Timeout = Duration(d)
	}
	if v := getenv("MIX_OUTPUT_PATH"); v != "" {
		c.Output.CSVPath = v
	}
	if v := getenv("MIX_XLSX_PATH"); v != "" {
		c.Output.XLSXPath = v
	}
	if v := getenv("ENABLE_RESPONSE_CACHE"); v != "" {
		c.Cache.Enabled = v == "true"
	}
	if v := getenv("RESPONSE_CACHE_TTL"); v != "" {
		d, err := time.ParseDuration(strings.TrimSpace(v))
		if err != nil {
			return fmt.Errorf("RESPONSE_CACHE_TTL: %w", err)
		}
		c.Cache.TTL = Duration(d)
	}
	if v := getenv("API_PORT"); v != "" {
		c.APIPort = v
	}
	c.APIEnv = getenv("API_ENV")
	return nil
}

func (c *Config) Validate() error {
	if c == nil {
		return errors.New("config is nil")
	}
	if c.LookbackHours < 0 {
		return fmt.Errorf("lookback_hours must be >= 0, got %d", c.LookbackHours)
	}
	if err := validateURL("bmrs.fuelinst_url", c.BMRS.FuelInstURL); err != nil {
		return err
	}
	if err := validateURL("neso.demand_url", c.NESO.DemandURL); err != nil {
		return err
	}
	if c.HTTP.Timeout <= 0 {
		return errors.New("http.timeout must be > 0")
	}
	if strings.TrimSpace(c.Output.CSVPath) == "" {
		return errors.New("output.csv_path is required")
	}
	if c.Cache.Enabled && c.Cache.TTL <= 0 {
		return errors.New("cache.ttl must be > 0 when the cache is enabled")
	}
	return nil
}

// CacheAllowed reports whether the development response cache should be used.
// It is never used in production, whatever the config says.
func (c *Config) CacheAllowed() bool {
	return c.Cache.Enabled && c.APIEnv != "production"
}

func validateURL(field, raw string) error {
	u, err := url.Parse(raw)
	if err != nil {
		return fmt.Errorf("%s: %w", field, err)
	}
	if (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return fmt.Errorf("%s must be an absolute http(s) URL, got %q", field, raw)
	}
	return nil
}

// NewClients builds the upstream clients described by the config. The returned
// cache is shared by both clients and is nil unless CacheAllowed.
func (c *Config) NewClients() (*data.BMRSClient, *data.NESOClient, *data.ResponseCache) {
	bmrs := data.NewBMRSClient(c.BMRS.FuelInstURL, c.HTTP.Timeout.Std())
	neso := data.NewNESOClient(c.NESO.DemandURL, c.HTTP.Timeout.Std())
	if !c.CacheAllowed() {
		return bmrs, neso, nil
	}
	cache := data.NewResponseCache(c.Cache.TTL.Std())
	bmrs.Cache = cache
	neso.Cache = cache
	return bmrs, neso, cache
}
