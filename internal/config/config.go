package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// Default values applied when fields are absent from the config file.
const (
	DefaultHistorianURL  = "http://localhost:4511"
	DefaultDataset       = "Virtual Factory"
	DefaultQueryTimeout  = 10 * time.Second
	DefaultBatchSize     = 5
	DefaultMaxRetries    = 3
	DefaultListenAddr    = ":8080"
	DefaultWatchInterval = 60 * time.Second
	DefaultWatchWindow   = 12 * time.Hour
	DefaultRetention     = 7 * 24 * time.Hour
)

// Config is the top-level configuration for the tagspc CLI and serve mode.
type Config struct {
	Historian Historian       `yaml:"historian"`
	Sites     map[string]Site `yaml:"sites"`
	Serve     Serve           `yaml:"serve"`
	Storage   Storage         `yaml:"storage"`
}

// Historian holds connection settings for the historian data API.
type Historian struct {
	// BaseURL is the historian root, e.g. http://localhost:4511.
	BaseURL string `yaml:"base_url"`

	// Dataset is the historian dataset name queried for all tags.
	Dataset string `yaml:"dataset"`

	// Timeout bounds a single HTTP request.
	Timeout time.Duration `yaml:"timeout"`

	// BatchSize is the number of tag names sent per request, keeping
	// query URLs short.
	BatchSize int `yaml:"batch_size"`

	// MaxRetries is the number of exponential-backoff retries for a
	// failed query before giving up.
	MaxRetries int `yaml:"max_retries"`

	// Auth configures how queries authenticate to the historian.
	Auth Auth `yaml:"auth"`

	// TLS holds optional TLS dial options.
	TLS TLS `yaml:"tls"`
}

// Auth specifies the authentication mode for historian requests.
// Secret material is always resolved from the environment, never stored
// in the config file.
type Auth struct {
	// Mode is one of: apikey | bearer | basic | none.
	Mode string `yaml:"mode"`

	// API key fields, used when Mode == "apikey".
	// Header is the HTTP header name to send the key in.
	Header string `yaml:"header"`
	// KeyEnv is the name of the environment variable that holds the key value.
	KeyEnv string `yaml:"key_env"`

	// Bearer token fields, used when Mode == "bearer".
	TokenEnv string `yaml:"token_env"`

	// Basic auth fields, used when Mode == "basic".
	Username    string `yaml:"username"`
	PasswordEnv string `yaml:"password_env"`
}

// Key returns the API key value resolved from the environment.
func (a Auth) Key() string {
	if a.KeyEnv == "" {
		return ""
	}
	return os.Getenv(a.KeyEnv)
}

// Token returns the bearer token value resolved from the environment.
func (a Auth) Token() string {
	if a.TokenEnv == "" {
		return ""
	}
	return os.Getenv(a.TokenEnv)
}

// Password returns the basic-auth password resolved from the environment.
func (a Auth) Password() string {
	if a.PasswordEnv == "" {
		return ""
	}
	return os.Getenv(a.PasswordEnv)
}

// TLS holds TLS dial options for the historian connection.
type TLS struct {
	// InsecureSkipVerify disables TLS certificate verification.
	// Only use this for internal CAs in development environments.
	InsecureSkipVerify bool `yaml:"insecure_skip_verify"`
}

// Site describes the equipment layout of one site, keyed by the last
// component of the ISA-95 site path (e.g. "Site1").
type Site struct {
	// FillingLines are the line names under <site>/fillerproduction.
	FillingLines []string `yaml:"filling_lines"`

	// Vats are the vessel names under <site>/liquidprocessing/mixroom01.
	Vats []string `yaml:"vats"`
}

// Serve holds settings for the long-running serve mode.
type Serve struct {
	// ListenAddr is the HTTP listen address for the API, websocket stream
	// and metrics endpoint.
	ListenAddr string `yaml:"listen_addr"`

	// Interval is how often each watched tag is re-evaluated. Every tick
	// runs a fresh, independent batch evaluation; no rule state carries
	// over between ticks.
	Interval time.Duration `yaml:"interval"`

	// Window is the trailing time range evaluated on each tick.
	Window time.Duration `yaml:"window"`

	// Tags is the list of tags to watch.
	Tags []WatchTag `yaml:"tags"`
}

// WatchTag is one monitored tag with optional control-limit overrides.
// UCL and LCL are only honored when both are set; a lone value falls back
// to calculated limits, matching the one-shot CLI behavior.
type WatchTag struct {
	Tag    string   `yaml:"tag"`
	UCL    *float64 `yaml:"ucl"`
	LCL    *float64 `yaml:"lcl"`
	Target *float64 `yaml:"target"`
}

// Storage configures the report history backend.
type Storage struct {
	// Path is the filesystem path for the SQLite database file.
	// Empty disables history persistence.
	Path string `yaml:"path"`

	// Retention is how long stored reports are kept before pruning.
	Retention time.Duration `yaml:"retention"`
}

// Load reads and parses the YAML config file at path.
// Missing optional fields are filled with sensible defaults.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("config: read file: %w", err)
	}

	cfg := Default()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("config: parse yaml: %w", err)
	}

	if err := validate(cfg); err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}

	return cfg, nil
}

// Default returns a Config pre-populated with default values, including
// the stock virtual-factory site layout. Usable directly when no config
// file is given.
func Default() *Config {
	return &Config{
		Historian: Historian{
			BaseURL:    DefaultHistorianURL,
			Dataset:    DefaultDataset,
			Timeout:    DefaultQueryTimeout,
			BatchSize:  DefaultBatchSize,
			MaxRetries: DefaultMaxRetries,
		},
		Sites: map[string]Site{
			"Site1": {
				FillingLines: []string{"fillingline01", "fillingline02", "fillingline03"},
				Vats:         []string{"vat01", "vat02", "vat03", "vat04"},
			},
			"Site2": {
				FillingLines: []string{"fillingline01", "fillingline02"},
				Vats:         []string{"vat01", "vat02"},
			},
			"Site3": {
				FillingLines: []string{"fillingline01"},
				Vats:         []string{"vat01"},
			},
		},
		Serve: Serve{
			ListenAddr: DefaultListenAddr,
			Interval:   DefaultWatchInterval,
			Window:     DefaultWatchWindow,
		},
		Storage: Storage{
			Retention: DefaultRetention,
		},
	}
}

// validate checks required fields and structural constraints.
func validate(cfg *Config) error {
	if cfg.Historian.BaseURL == "" {
		return fmt.Errorf("historian.base_url is required")
	}
	if cfg.Historian.Dataset == "" {
		return fmt.Errorf("historian.dataset is required")
	}
	if cfg.Historian.Timeout <= 0 {
		return fmt.Errorf("historian.timeout must be positive")
	}
	if cfg.Historian.BatchSize <= 0 {
		return fmt.Errorf("historian.batch_size must be positive")
	}
	if cfg.Historian.MaxRetries < 0 {
		return fmt.Errorf("historian.max_retries must not be negative")
	}
	switch cfg.Historian.Auth.Mode {
	case "apikey", "bearer", "basic", "none", "":
	default:
		return fmt.Errorf("historian.auth: unknown mode %q", cfg.Historian.Auth.Mode)
	}
	if cfg.Historian.Auth.Mode == "apikey" && cfg.Historian.Auth.Header == "" {
		return fmt.Errorf("historian.auth: header is required for apikey mode")
	}

	for name, site := range cfg.Sites {
		if len(site.FillingLines) == 0 {
			return fmt.Errorf("sites[%s]: at least one filling line is required", name)
		}
	}

	if cfg.Serve.Interval <= 0 {
		return fmt.Errorf("serve.interval must be positive")
	}
	if cfg.Serve.Window <= 0 {
		return fmt.Errorf("serve.window must be positive")
	}
	for i, wt := range cfg.Serve.Tags {
		if wt.Tag == "" {
			return fmt.Errorf("serve.tags[%d]: tag is required", i)
		}
	}

	if cfg.Storage.Path != "" && cfg.Storage.Retention <= 0 {
		return fmt.Errorf("storage.retention must be positive when storage is enabled")
	}
	return nil
}
