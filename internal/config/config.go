// Package config składa konfigurację usługi z pliku .env, opcjonalnego pliku YAML i zmiennych środowiskowych.
// Zmienne środowiskowe mają pierwszeństwo przed plikiem YAML.
package config

import (
	"os"
	"strconv"
	"time"

	"github.com/alapierre/go-efatura-connector/efatura"
	"github.com/alapierre/go-efatura-connector/efatura/soap"
	"github.com/alapierre/go-efatura-connector/efatura/tlsid"
	"github.com/alapierre/go-efatura-connector/efatura/transport"
	"github.com/alapierre/go-efatura-connector/efatura/util"
	"github.com/go-faster/errors"
	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"
	"gopkg.in/yaml.v3"
)

var logger = logrus.WithField("component", "config")

type TLS struct {
	CertFile     string   `yaml:"cert_file"`
	KeyFile      string   `yaml:"key_file"`
	KeyPassword  string   `yaml:"key_password"`
	PFXFile      string   `yaml:"pfx_file"`
	PFXPassword  string   `yaml:"pfx_password"`
	PublicCert   string   `yaml:"at_public_cert"`
	MinVersion   string   `yaml:"min_version"`
	CipherSuites []string `yaml:"cipher_suites"`
}

type Upstream struct {
	PageSize     int           `yaml:"page_size"`
	Timeout      time.Duration `yaml:"timeout"`
	PoolSize     int           `yaml:"pool_size"`
	EndpointTest string        `yaml:"endpoint_test"`
	EndpointProd string        `yaml:"endpoint_prod"`
}

type Config struct {
	Port      int      `yaml:"port"`
	APIToken  string   `yaml:"api_token"`
	LogFormat string   `yaml:"log_format"`
	Debug     bool     `yaml:"debug"`
	TLS       TLS      `yaml:"tls"`
	Upstream  Upstream `yaml:"upstream"`
}

func defaults() *Config {
	return &Config{
		Port:      8080,
		LogFormat: "text",
		TLS:       TLS{MinVersion: "1.2"},
		Upstream: Upstream{
			PageSize: soap.DefaultPageSize,
			Timeout:  transport.DefaultTimeout,
			PoolSize: transport.DefaultPoolSize,
		},
	}
}

// Load czyta .env (jeśli istnieje), plik wskazany przez EFATURA_CONFIG_FILE, a na końcu zmienne środowiskowe.
// Brak wymaganych wartości kończy się *efatura.ConfigError.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil {
		logger.Debug("no .env file loaded, using process environment")
	} else {
		logger.Info("loaded environment variables from .env")
	}

	cfg := defaults()
	if path := os.Getenv("EFATURA_CONFIG_FILE"); path != "" {
		if err := cfg.readFile(path); err != nil {
			return nil, err
		}
	}
	if err := cfg.applyEnv(); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) readFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return &efatura.ConfigError{Field: "EFATURA_CONFIG_FILE", Msg: err.Error()}
	}
	if err := yaml.Unmarshal(data, c); err != nil {
		return &efatura.ConfigError{Field: "EFATURA_CONFIG_FILE", Msg: errors.Wrap(err, "parse yaml").Error()}
	}
	logger.WithField("path", path).Info("configuration file loaded")
	return nil
}

func (c *Config) applyEnv() error {
	var err error

	if c.Port, err = util.GetEnvInt("PORT", c.Port); err != nil {
		return &efatura.ConfigError{Field: "PORT", Msg: err.Error()}
	}
	c.APIToken = util.GetEnv("EFATURA_API_TOKEN", c.APIToken)
	c.LogFormat = util.GetEnv("LOG_FORMAT", c.LogFormat)
	if v, ok := os.LookupEnv("EFATURA_DEBUG"); ok {
		c.Debug, _ = strconv.ParseBool(v)
	}

	c.TLS.CertFile = util.GetEnv("EFATURA_TLS_CERT", c.TLS.CertFile)
	c.TLS.KeyFile = util.GetEnv("EFATURA_TLS_KEY", c.TLS.KeyFile)
	c.TLS.KeyPassword = util.GetEnv("EFATURA_TLS_KEY_PASS", c.TLS.KeyPassword)
	c.TLS.PFXFile = util.GetEnv("EFATURA_TLS_PFX", c.TLS.PFXFile)
	c.TLS.PFXPassword = util.GetEnv("EFATURA_TLS_PFX_PASS", c.TLS.PFXPassword)
	c.TLS.PublicCert = util.GetEnv("EFATURA_AT_PUBLIC_CERT", c.TLS.PublicCert)
	c.TLS.MinVersion = util.GetEnv("EFATURA_TLS_MIN_VERSION", c.TLS.MinVersion)
	if suites := util.GetEnvList("EFATURA_TLS_CIPHERS"); len(suites) > 0 {
		c.TLS.CipherSuites = suites
	}

	if c.Upstream.PageSize, err = util.GetEnvInt("EFATURA_PAGE_SIZE", c.Upstream.PageSize); err != nil {
		return &efatura.ConfigError{Field: "EFATURA_PAGE_SIZE", Msg: err.Error()}
	}
	if c.Upstream.Timeout, err = util.GetEnvDuration("EFATURA_HTTP_TIMEOUT", c.Upstream.Timeout); err != nil {
		return &efatura.ConfigError{Field: "EFATURA_HTTP_TIMEOUT", Msg: err.Error()}
	}
	if c.Upstream.PoolSize, err = util.GetEnvInt("EFATURA_POOL_SIZE", c.Upstream.PoolSize); err != nil {
		return &efatura.ConfigError{Field: "EFATURA_POOL_SIZE", Msg: err.Error()}
	}
	c.Upstream.EndpointTest = util.GetEnv("EFATURA_ENDPOINT_TEST", c.Upstream.EndpointTest)
	c.Upstream.EndpointProd = util.GetEnv("EFATURA_ENDPOINT_PROD", c.Upstream.EndpointProd)
	return nil
}

// Validate sprawdza wartości niezależne od plików na dysku; tożsamość TLS weryfikuje tlsid.Load.
func (c *Config) Validate() error {
	if c.APIToken == "" {
		return &efatura.ConfigError{Field: "EFATURA_API_TOKEN", Msg: "shared bearer secret is required"}
	}
	if c.Port <= 0 || c.Port > 65535 {
		return &efatura.ConfigError{Field: "PORT", Msg: "must be between 1 and 65535"}
	}
	if c.Upstream.PoolSize <= 0 {
		return &efatura.ConfigError{Field: "EFATURA_POOL_SIZE", Msg: "must be positive"}
	}
	if c.Upstream.Timeout <= 0 {
		return &efatura.ConfigError{Field: "EFATURA_HTTP_TIMEOUT", Msg: "must be positive"}
	}
	if c.Upstream.PageSize > soap.MaxPageSize {
		logger.Warnf("page size %d exceeds the limit, using %d", c.Upstream.PageSize, soap.MaxPageSize)
	}
	c.Upstream.PageSize = soap.ClampPageSize(c.Upstream.PageSize)

	switch c.LogFormat {
	case "text", "json":
	default:
		return &efatura.ConfigError{Field: "LOG_FORMAT", Msg: "allowed values: text, json"}
	}
	return nil
}

func (c *Config) TLSSource() tlsid.Source {
	return tlsid.Source{
		CertFile:             c.TLS.CertFile,
		KeyFile:              c.TLS.KeyFile,
		KeyPassword:          c.TLS.KeyPassword,
		PFXFile:              c.TLS.PFXFile,
		PFXPassword:          c.TLS.PFXPassword,
		CounterpartyCertFile: c.TLS.PublicCert,
		MinVersion:           c.TLS.MinVersion,
		CipherSuites:         c.TLS.CipherSuites,
	}
}

func (c *Config) TransportOptions() []transport.Option {
	return []transport.Option{
		transport.WithPoolSize(c.Upstream.PoolSize),
		transport.WithTimeout(c.Upstream.Timeout),
		transport.WithEndpoint(efatura.Test, c.Upstream.EndpointTest),
		transport.WithEndpoint(efatura.Prod, c.Upstream.EndpointProd),
	}
}

func (c *Config) Addr() string {
	return ":" + strconv.Itoa(c.Port)
}
