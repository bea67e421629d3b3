// Package config provides configuration management for the snooker pricing service.
package config

import (
	"fmt"
	"time"
)

// Config represents the complete application configuration
type Config struct {
	App       AppConfig       `mapstructure:"app" validate:"required"`
	Database  DatabaseConfig  `mapstructure:"database" validate:"required"`
	Server    ServerConfig    `mapstructure:"server" validate:"required"`
	Engine    EngineConfig    `mapstructure:"engine" validate:"required"`
	Cache     CacheConfig     `mapstructure:"cache" validate:"required"`
	Staking   StakingConfig   `mapstructure:"staking"`
	Notify    NotifyConfig    `mapstructure:"notify"`
	Scheduler SchedulerConfig `mapstructure:"scheduler" validate:"required"`
	Metrics   MetricsConfig   `mapstructure:"metrics" validate:"required"`
}

// AppConfig represents application-level configuration
type AppConfig struct {
	Name        string `mapstructure:"name" validate:"required"`
	Environment string `mapstructure:"environment" validate:"required,environment"`
	LogLevel    string `mapstructure:"log_level" validate:"required,loglevel"`
}

// DatabaseConfig represents database connection configuration
type DatabaseConfig struct {
	Host               string `mapstructure:"host" validate:"required"`
	Port               int    `mapstructure:"port" validate:"required,min=1,max=65535"`
	Name               string `mapstructure:"name" validate:"required"`
	User               string `mapstructure:"user" validate:"required"`
	Password           string `mapstructure:"password" validate:"required"`
	SSLMode            string `mapstructure:"ssl_mode" validate:"required,oneof=disable require verify-full"`
	MaxConnections     int    `mapstructure:"max_connections" validate:"required,gt=0"`
	MaxIdleConnections int    `mapstructure:"max_idle_connections" validate:"required,gt=0"`
}

// ServerConfig represents the HTTP API server configuration
type ServerConfig struct {
	Host                   string   `mapstructure:"host"`
	Port                   int      `mapstructure:"port" validate:"required,min=1,max=65535"`
	ReadTimeoutSeconds     int      `mapstructure:"read_timeout_seconds" validate:"required,gt=0"`
	WriteTimeoutSeconds    int      `mapstructure:"write_timeout_seconds" validate:"required,gt=0"`
	ShutdownTimeoutSeconds int      `mapstructure:"shutdown_timeout_seconds" validate:"required,gt=0"`
	AllowedOrigins         []string `mapstructure:"allowed_origins" validate:"required,min=1"`
}

// EngineConfig represents the pricing model coefficients
type EngineConfig struct {
	SeasonWeights SeasonWeightsConfig `mapstructure:"season_weights" validate:"required"`
	LiveWeights   LiveWeightsConfig   `mapstructure:"live_weights" validate:"required"`
	LiveSDs       LiveSDsConfig       `mapstructure:"live_sds" validate:"required"`
	Baselines     BaselinesConfig     `mapstructure:"baselines" validate:"required"`
	Realism       RealismConfig       `mapstructure:"realism" validate:"required"`
	Inversion     InversionConfig     `mapstructure:"inversion"`
	Thresholds    ThresholdsConfig    `mapstructure:"thresholds" validate:"required"`
}

// SeasonWeightsConfig weights the season-form deviations
type SeasonWeightsConfig struct {
	WinRate        float64 `mapstructure:"win_rate" validate:"gte=0"`
	PointsPerMatch float64 `mapstructure:"points_per_match" validate:"gte=0"`
	Fifties        float64 `mapstructure:"fifties" validate:"gte=0"`
	Hundreds       float64 `mapstructure:"hundreds" validate:"gte=0"`
	ShotTime       float64 `mapstructure:"shot_time" validate:"gte=0"`
	GlobalScale    float64 `mapstructure:"global_scale" validate:"required,gt=0"`
}

// LiveWeightsConfig weights the in-play differentials
type LiveWeightsConfig struct {
	PotSuccess   float64 `mapstructure:"pot_success" validate:"gte=0"`
	ShotTime     float64 `mapstructure:"shot_time" validate:"gte=0"`
	Fifties      float64 `mapstructure:"fifties" validate:"gte=0"`
	Hundreds     float64 `mapstructure:"hundreds" validate:"gte=0"`
	HighestBreak float64 `mapstructure:"highest_break" validate:"gte=0"`
	PointsShare  float64 `mapstructure:"points_share" validate:"gte=0"`
	ShotsShare   float64 `mapstructure:"shots_share" validate:"gte=0"`
	TableTime    float64 `mapstructure:"table_time" validate:"gte=0"`
}

// LiveSDsConfig holds the spread estimates used to standardize the
// in-play differentials
type LiveSDsConfig struct {
	PotSuccess   float64 `mapstructure:"pot_success" validate:"gte=0"`
	ShotTime     float64 `mapstructure:"shot_time" validate:"gte=0"`
	Fifties      float64 `mapstructure:"fifties" validate:"gte=0"`
	Hundreds     float64 `mapstructure:"hundreds" validate:"gte=0"`
	HighestBreak float64 `mapstructure:"highest_break" validate:"gte=0"`
	PointsShare  float64 `mapstructure:"points_share" validate:"gte=0"`
	ShotsShare   float64 `mapstructure:"shots_share" validate:"gte=0"`
	TableTime    float64 `mapstructure:"table_time" validate:"gte=0"`
}

// BaselinesConfig holds the league-average centres for season form
type BaselinesConfig struct {
	WinRate          float64 `mapstructure:"win_rate" validate:"required,gt=0,lte=1"`
	PointsPerMatch   float64 `mapstructure:"points_per_match" validate:"required,gt=0"`
	FiftiesPerMatch  float64 `mapstructure:"fifties_per_match" validate:"required,gt=0"`
	HundredsPerMatch float64 `mapstructure:"hundreds_per_match" validate:"required,gt=0"`
	ShotTime         float64 `mapstructure:"shot_time" validate:"required,gt=0"`
}

// RealismConfig dampens and bounds the per-frame probability
type RealismConfig struct {
	LambdaShrink float64 `mapstructure:"lambda_shrink" validate:"gte=0,lte=1"`
	PMin         float64 `mapstructure:"p_min" validate:"gte=0,lte=0.5"`
	PMax         float64 `mapstructure:"p_max" validate:"gte=0.5,lte=1"`
	CapFrameProb bool    `mapstructure:"cap_frame_prob"`
	N0           float64 `mapstructure:"n0" validate:"required,gt=0"`
	BetaLive     float64 `mapstructure:"beta_live" validate:"gte=0"`
	KShots       float64 `mapstructure:"k_shots" validate:"required,gt=0"`
	ZClip        float64 `mapstructure:"z_clip" validate:"required,gt=0"`
}

// InversionConfig bounds the pre-match odds bisection
type InversionConfig struct {
	Tolerance     float64 `mapstructure:"tolerance" validate:"gte=0"`
	MaxIterations int     `mapstructure:"max_iterations" validate:"gte=0"`
}

// ThresholdsConfig classifies the computed edge against book prices
type ThresholdsConfig struct {
	Value    float64 `mapstructure:"value"`
	Marginal float64 `mapstructure:"marginal"`
}

// CacheConfig represents the evaluation cache configuration
type CacheConfig struct {
	TTLSeconds             int `mapstructure:"ttl_seconds" validate:"required,gt=0"`
	CleanupIntervalSeconds int `mapstructure:"cleanup_interval_seconds" validate:"required,gt=0"`
	MaxSize                int `mapstructure:"max_size" validate:"required,gt=0"`
}

// StakingConfig represents tip stake suggestion parameters. A zero
// bankroll disables stake suggestions entirely.
type StakingConfig struct {
	Bankroll      float64 `mapstructure:"bankroll" validate:"gte=0"`
	KellyFraction float64 `mapstructure:"kelly_fraction" validate:"gte=0,lte=1"`
	MaxStake      float64 `mapstructure:"max_stake" validate:"gte=0"`
}

// NotifyConfig represents the tip webhook configuration
type NotifyConfig struct {
	Enabled            bool    `mapstructure:"enabled"`
	WebhookURL         string  `mapstructure:"webhook_url" validate:"omitempty,url"`
	AuthToken          string  `mapstructure:"auth_token"`
	TimeoutSeconds     int     `mapstructure:"timeout_seconds" validate:"omitempty,gt=0"`
	RetryAttempts      int     `mapstructure:"retry_attempts" validate:"gte=0"`
	RateLimitPerSecond float64 `mapstructure:"rate_limit_per_second" validate:"omitempty,gt=0"`
	RateLimitBurst     int     `mapstructure:"rate_limit_burst" validate:"omitempty,gt=0"`
	FailureThreshold   int     `mapstructure:"failure_threshold" validate:"omitempty,gt=0"`
	CooldownSeconds    int     `mapstructure:"cooldown_seconds" validate:"omitempty,gt=0"`
}

// SchedulerConfig represents the background job schedules
type SchedulerConfig struct {
	BaselineRefreshSchedule string `mapstructure:"baseline_refresh_schedule" validate:"required,schedule"`
	RetentionSchedule       string `mapstructure:"retention_schedule" validate:"required,schedule"`
	RetentionDays           int    `mapstructure:"retention_days" validate:"required,gt=0"`
}

// MetricsConfig represents metrics and monitoring configuration
type MetricsConfig struct {
	Enabled bool   `mapstructure:"enabled"`
	Port    int    `mapstructure:"port" validate:"required,min=1,max=65535"`
	Path    string `mapstructure:"path" validate:"required"`
}

// IsDevelopment checks if the application is running in development mode
func (c *Config) IsDevelopment() bool {
	return c.App.Environment == "development"
}

// IsStaging checks if the application is running in staging mode
func (c *Config) IsStaging() bool {
	return c.App.Environment == "staging"
}

// IsProduction checks if the application is running in production mode
func (c *Config) IsProduction() bool {
	return c.App.Environment == "production"
}

// GetDatabaseDSN returns a PostgreSQL DSN string
func (c *Config) GetDatabaseDSN() string {
	return fmt.Sprintf(
		"postgres://%s:%s@%s:%d/%s?sslmode=%s",
		c.Database.User,
		c.Database.Password,
		c.Database.Host,
		c.Database.Port,
		c.Database.Name,
		c.Database.SSLMode,
	)
}

// GetServerAddress returns the listen address for the API server
func (c *Config) GetServerAddress() string {
	return fmt.Sprintf("%s:%d", c.Server.Host, c.Server.Port)
}

// GetCacheTTL returns the evaluation cache TTL as a duration
func (c *Config) GetCacheTTL() time.Duration {
	return time.Duration(c.Cache.TTLSeconds) * time.Second
}

// GetShutdownTimeout returns the graceful shutdown window as a duration
func (c *Config) GetShutdownTimeout() time.Duration {
	return time.Duration(c.Server.ShutdownTimeoutSeconds) * time.Second
}
