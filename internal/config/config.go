package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"geothermal_cycles/internal/exchanger"

	"github.com/spf13/viper"
)

const envPrefix = "HX"

// Config is the service configuration read from configs/config.yml and HX_*
// environment variables.
type Config struct {
	Port     string       `mapstructure:"port"`
	LogLevel string       `mapstructure:"log_level"`
	DB       DBConfig     `mapstructure:"db"`
	JWT      JWTConfig    `mapstructure:"jwt"`
	Server   ServerConfig `mapstructure:"server"`

	Exchanger exchanger.Config `mapstructure:"exchanger"`
	// UValues is keyed "hot/cold", e.g. "twophase/liquid", in W/(m²·K).
	// Empty means the built-in table.
	UValues   map[string]float64 `mapstructure:"u_values"`
	UFallback float64            `mapstructure:"u_fallback"`

	FluidCacheSize int `mapstructure:"fluid_cache_size"`
	FeedBuffer     int `mapstructure:"feed_buffer"`
}

type DBConfig struct {
	Path string `mapstructure:"path"`
}

type JWTConfig struct {
	Key string        `mapstructure:"key"`
	TTL time.Duration `mapstructure:"ttl"`
}

type ServerConfig struct {
	ReadHeaderTimeout time.Duration `mapstructure:"read_header_timeout"`
	WriteTimeout      time.Duration `mapstructure:"write_timeout"`
	IdleTimeout       time.Duration `mapstructure:"idle_timeout"`
	ShutdownTimeout   time.Duration `mapstructure:"shutdown_timeout"`
}

func setDefaults(v *viper.Viper) {
	d := exchanger.DefaultConfig()

	v.SetDefault("port", "8080")
	v.SetDefault("log_level", "info")
	v.SetDefault("db.path", "app.db")
	v.SetDefault("jwt.key", "")
	v.SetDefault("jwt.ttl", time.Hour)
	v.SetDefault("server.read_header_timeout", 10*time.Second)
	v.SetDefault("server.write_timeout", 30*time.Second)
	v.SetDefault("server.idle_timeout", 60*time.Second)
	v.SetDefault("server.shutdown_timeout", 10*time.Second)

	v.SetDefault("exchanger.delta_t_pinch", d.DeltaTPinch)
	v.SetDefault("exchanger.delta_p_hot", d.DeltaPHot)
	v.SetDefault("exchanger.delta_p_cold", d.DeltaPCold)
	v.SetDefault("exchanger.n", d.N)
	v.SetDefault("exchanger.t_ambient", d.TAmbient)
	v.SetDefault("exchanger.t_maximum", d.TMaximum)
	v.SetDefault("exchanger.table_mode", string(d.TableMode))
	v.SetDefault("exchanger.epsilon", d.Epsilon)
	v.SetDefault("exchanger.scan_points", d.ScanPoints)
	v.SetDefault("exchanger.tolerance", d.Tolerance)
	v.SetDefault("exchanger.max_iterations", d.MaxIterations)
	v.SetDefault("exchanger.polish_tolerance", d.PolishTolerance)
	v.SetDefault("u_fallback", 500.0)

	v.SetDefault("fluid_cache_size", 4096)
	v.SetDefault("feed_buffer", 16)
}

// Load reads config.yml from the first matching path (default "configs").
// A missing file is not an error: defaults and environment still apply.
func Load(paths ...string) (Config, error) {
	v := viper.New()
	setDefaults(v)

	v.SetConfigName("config")
	v.SetConfigType("yaml")
	if len(paths) == 0 {
		paths = []string{"configs"}
	}
	for _, p := range paths {
		v.AddConfigPath(p)
	}
	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return Config{}, fmt.Errorf("read config: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("decode config: %w", err)
	}
	cfg.Exchanger.TableMode = exchanger.TableMode(strings.ToUpper(string(cfg.Exchanger.TableMode)))
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate checks the parts the services cannot default on their own.
func (c Config) Validate() error {
	var errs []error
	if c.JWT.Key == "" {
		errs = append(errs, errors.New("jwt.key must be set (HX_JWT_KEY)"))
	}
	if err := c.Exchanger.Validate(); err != nil {
		errs = append(errs, fmt.Errorf("exchanger: %w", err))
	}
	for k, u := range c.UValues {
		if u <= 0 {
			errs = append(errs, fmt.Errorf("u_values[%s] must be > 0, got %g", k, u))
		}
	}
	return errors.Join(errs...)
}

// UTable builds the U-value table, falling back to the built-in values.
func (c Config) UTable() *exchanger.UTable {
	if len(c.UValues) == 0 {
		return exchanger.DefaultUTable()
	}
	return exchanger.NewUTable(c.UValues, c.UFallback)
}
