package profile

import (
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/pkg/errors"
	"github.com/spf13/viper"
)

// Profile is the configuration for the server
type Profile struct {
	// Mode can be "prod" or "dev"
	Mode string `mapstructure:"mode"`
	// Addr is the binding address for the server
	Addr string `mapstructure:"addr"`
	// Port is the binding port for the server
	Port int `mapstructure:"port"`
	// APIPrefix is the path prefix of every versioned route
	APIPrefix      string   `mapstructure:"api_prefix"`
	AllowedOrigins []string `mapstructure:"allowed_origins"`

	// DBDriver is the database driver, "mysql" or "sqlite"
	DBDriver string `mapstructure:"db_driver"`
	// DBDSN overrides the DSN assembled from the MySQL settings
	DBDSN         string `mapstructure:"db_dsn"`
	MySQLUser     string `mapstructure:"mysql_user"`
	MySQLPassword string `mapstructure:"mysql_password"`
	MySQLHost     string `mapstructure:"mysql_host"`
	MySQLPort     int    `mapstructure:"mysql_port"`
	MySQLDatabase string `mapstructure:"mysql_database"`

	// CacheDriver is "redis" or "memory"
	CacheDriver   string        `mapstructure:"cache_driver"`
	RedisHost     string        `mapstructure:"redis_host"`
	RedisPort     int           `mapstructure:"redis_port"`
	RedisPassword string        `mapstructure:"redis_password"`
	RedisDB       int           `mapstructure:"redis_db"`
	CacheTTL      time.Duration `mapstructure:"cache_ttl"`

	JWTSecret string        `mapstructure:"jwt_secret"`
	TokenTTL  time.Duration `mapstructure:"token_ttl"`

	LoginRateLimit float64 `mapstructure:"login_rate_limit"`
	LoginRateBurst int     `mapstructure:"login_rate_burst"`

	LogLevel string `mapstructure:"log_level"`

	TracingEnabled bool   `mapstructure:"tracing_enabled"`
	DDService      string `mapstructure:"dd_service"`
	DDEnv          string `mapstructure:"dd_env"`
	DDVersion      string `mapstructure:"dd_version"`
	DDAgentHost    string `mapstructure:"dd_agent_host"`
	DDStatsdPort   int    `mapstructure:"dd_dogstatsd_port"`
}

const devJWTSecret = "dev-only-secret"

// SetDefaults registers the default value of every key on v
func SetDefaults(v *viper.Viper) {
	v.SetDefault("mode", "dev")
	v.SetDefault("addr", "")
	v.SetDefault("port", 8080)
	v.SetDefault("api_prefix", "/v1")
	v.SetDefault("allowed_origins", []string{"*"})
	v.SetDefault("db_driver", "mysql")
	v.SetDefault("db_dsn", "")
	v.SetDefault("mysql_user", "root")
	v.SetDefault("mysql_password", "")
	v.SetDefault("mysql_host", "localhost")
	v.SetDefault("mysql_port", 3306)
	v.SetDefault("mysql_database", "app")
	v.SetDefault("cache_driver", "redis")
	v.SetDefault("redis_host", "localhost")
	v.SetDefault("redis_port", 6379)
	v.SetDefault("redis_password", "")
	v.SetDefault("redis_db", 0)
	v.SetDefault("cache_ttl", 300*time.Second)
	v.SetDefault("jwt_secret", "")
	v.SetDefault("token_ttl", 24*time.Hour)
	v.SetDefault("login_rate_limit", 10.0)
	v.SetDefault("login_rate_burst", 20)
	v.SetDefault("log_level", "info")
	v.SetDefault("tracing_enabled", false)
	v.SetDefault("dd_service", "post-api")
	v.SetDefault("dd_env", "")
	v.SetDefault("dd_version", "")
	v.SetDefault("dd_agent_host", "localhost")
	v.SetDefault("dd_dogstatsd_port", 8125)
}

// Load reads the profile from environment variables (MODE, PORT, DB_DRIVER, ...) and,
// when configFile is set, from that file. Environment wins over the file.
func Load(v *viper.Viper, configFile string) (*Profile, error) {
	SetDefaults(v)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	v.AutomaticEnv()

	if configFile != "" {
		v.SetConfigFile(configFile)
		if err := v.ReadInConfig(); err != nil {
			return nil, errors.Wrapf(err, "failed to read config file %s", configFile)
		}
	}

	p := &Profile{}
	if err := v.Unmarshal(p); err != nil {
		return nil, errors.Wrap(err, "failed to decode profile")
	}
	if p.JWTSecret == "" && p.IsDev() {
		p.JWTSecret = devJWTSecret
	}
	if err := p.Validate(); err != nil {
		return nil, err
	}
	return p, nil
}

// IsDev reports whether the server runs in development mode
func (p *Profile) IsDev() bool {
	return p.Mode != "prod"
}

// Validate checks the profile for inconsistent or missing settings
func (p *Profile) Validate() error {
	if p.Mode != "dev" && p.Mode != "prod" {
		return errors.Errorf("invalid mode %q", p.Mode)
	}
	if p.Port <= 0 || p.Port > 65535 {
		return errors.Errorf("invalid port %d", p.Port)
	}
	if !strings.HasPrefix(p.APIPrefix, "/") {
		return errors.Errorf("api prefix %q must start with /", p.APIPrefix)
	}
	switch p.DBDriver {
	case "mysql":
	case "sqlite":
		if p.DBDSN == "" {
			return errors.New("db_dsn is required for the sqlite driver")
		}
	default:
		return errors.Errorf("unsupported db driver %q", p.DBDriver)
	}
	if p.CacheDriver != "redis" && p.CacheDriver != "memory" {
		return errors.Errorf("unsupported cache driver %q", p.CacheDriver)
	}
	if p.CacheTTL <= 0 {
		return errors.New("cache_ttl must be positive")
	}
	if p.TokenTTL <= 0 {
		return errors.New("token_ttl must be positive")
	}
	if p.JWTSecret == "" {
		return errors.New("jwt_secret is required in prod mode")
	}
	if p.Mode == "prod" && p.JWTSecret == devJWTSecret {
		return errors.New("jwt_secret must not use the development value in prod mode")
	}
	if p.LoginRateLimit < 0 || p.LoginRateBurst < 0 {
		return errors.New("login rate limit settings must not be negative")
	}
	return nil
}

// DSN returns the database DSN, assembling a MySQL DSN when none is configured
func (p *Profile) DSN() string {
	if p.DBDSN != "" {
		return p.DBDSN
	}
	return fmt.Sprintf("%s:%s@tcp(%s:%d)/%s?parseTime=true&loc=UTC",
		p.MySQLUser, url.QueryEscape(p.MySQLPassword), p.MySQLHost, p.MySQLPort, p.MySQLDatabase)
}

// RedisAddr returns host:port of the Redis server
func (p *Profile) RedisAddr() string {
	return fmt.Sprintf("%s:%d", p.RedisHost, p.RedisPort)
}

// StatsdAddr returns host:port of the DogStatsD endpoint
func (p *Profile) StatsdAddr() string {
	return fmt.Sprintf("%s:%d", p.DDAgentHost, p.DDStatsdPort)
}
