package config

import (
	"fmt"
	"os"
	"sort"
	"strconv"
	"strings"
	"time"
	_ "time/tzdata" // zone data for lottery.timezone on hosts without a tz database

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
	"github.com/tidwall/gjson"
)

// Config represents the complete application configuration
type Config struct {
	Lottery  LotteryConfig  `mapstructure:"lottery"`
	Veikkaus VeikkausConfig `mapstructure:"veikkaus"`
	Notify   NotifyConfig   `mapstructure:"notify"`
	Discord  DiscordConfig  `mapstructure:"discord"`
	Telegram TelegramConfig `mapstructure:"telegram"`
	Ledger   LedgerConfig   `mapstructure:"ledger"`
	Journal  JournalConfig  `mapstructure:"journal"`
	Logging  LoggingConfig  `mapstructure:"logging"`
}

// LotteryConfig holds the player's numbers and the ticket economics
type LotteryConfig struct {
	PrimaryNumbers   []string `mapstructure:"primary_numbers"`
	SecondaryNumbers []string `mapstructure:"secondary_numbers"`
	Stake            int64    `mapstructure:"stake"` // cents per draw
	Timezone         string   `mapstructure:"timezone"`
}

// VeikkausConfig holds the results API configuration
type VeikkausConfig struct {
	ResultsURL string        `mapstructure:"results_url"`
	JackpotURL string        `mapstructure:"jackpot_url"`
	Timeout    time.Duration `mapstructure:"timeout"`
}

// NotifyConfig selects the chat channel
type NotifyConfig struct {
	Channel       string `mapstructure:"channel"` // discord, telegram or stdout
	FailureAlerts bool   `mapstructure:"failure_alerts"`
}

// DiscordConfig holds Discord notification configuration
type DiscordConfig struct {
	BotToken  string `mapstructure:"bot_token"`
	ChannelID string `mapstructure:"channel_id"`
	GroupID   string `mapstructure:"group_id"`
}

// TelegramConfig holds Telegram notification configuration
type TelegramConfig struct {
	BotToken string `mapstructure:"bot_token"`
	ChatID   string `mapstructure:"chat_id"`
	Mention  string `mapstructure:"mention"`
}

// LedgerConfig selects where the investment value lives
type LedgerConfig struct {
	Backend  string         `mapstructure:"backend"` // ssm, sqlite, redis or postgres
	Key      string         `mapstructure:"key"`
	SSM      SSMConfig      `mapstructure:"ssm"`
	SQLite   SQLiteConfig   `mapstructure:"sqlite"`
	Redis    RedisConfig    `mapstructure:"redis"`
	Postgres PostgresConfig `mapstructure:"postgres"`
}

type SSMConfig struct {
	Region string `mapstructure:"region"`
}

type SQLiteConfig struct {
	DBPath string `mapstructure:"db_path"`
}

type RedisConfig struct {
	Addr     string `mapstructure:"addr"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
}

type PostgresConfig struct {
	DSN string `mapstructure:"dsn"`
}

// JournalConfig controls the double-booking guard
type JournalConfig struct {
	Enabled    bool   `mapstructure:"enabled"`
	DBPath     string `mapstructure:"db_path"`
	MaxHistory int    `mapstructure:"max_history"`
}

// LoggingConfig holds logging configuration
type LoggingConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

// legacyEnv maps config keys to the environment variables of earlier deployments.
var legacyEnv = map[string]string{
	"discord.bot_token":         "DISCORD_KEY",
	"discord.channel_id":        "DISCORD_CHANNEL_ID",
	"discord.group_id":          "DISCORD_GROUP_ID",
	"ledger.key":                "PARAMETER_STORE_VARIABLE_NAME",
	"lottery.primary_numbers":   "EUROJACKPOT_PRIMARY_NUMBERS",
	"lottery.secondary_numbers": "EUROJACKPOT_SECONDARY_NUMBERS",
}

const envPrefix = "JACKPOT_ORACLE"

// Load reads configuration from an optional file and environment variables.
// An empty path means environment only.
func Load(path string) (*Config, error) {
	// Load .env if present (silently ignore if missing).
	_ = godotenv.Load()

	v := viper.New()

	// Set defaults
	setDefaults(v)

	// Enable environment variable override
	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	for key, legacy := range legacyEnv {
		envKey := envPrefix + "_" + strings.ToUpper(strings.ReplaceAll(key, ".", "_"))
		if err := v.BindEnv(key, envKey, legacy); err != nil {
			return nil, fmt.Errorf("failed to bind %s: %w", key, err)
		}
	}

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	// Unmarshal into Config struct
	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}
	cfg.Lottery.PrimaryNumbers = cleanList(cfg.Lottery.PrimaryNumbers)
	cfg.Lottery.SecondaryNumbers = cleanList(cfg.Lottery.SecondaryNumbers)

	return &cfg, nil
}

// LoadEnvJSON exports the "Variables" object of a Lambda-style env.json file
// into the process environment.
func LoadEnvJSON(path string) (int, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return 0, fmt.Errorf("failed to read %s: %w", path, err)
	}
	if !gjson.ValidBytes(data) {
		return 0, fmt.Errorf("%s is not valid JSON", path)
	}
	var n int
	var setErr error
	gjson.GetBytes(data, "Variables").ForEach(func(key, value gjson.Result) bool {
		if setErr = os.Setenv(key.String(), value.String()); setErr != nil {
			return false
		}
		n++
		return true
	})
	if setErr != nil {
		return n, fmt.Errorf("failed to export %s: %w", path, setErr)
	}
	return n, nil
}

func cleanList(in []string) []string {
	out := make([]string, 0, len(in))
	for _, s := range in {
		if s = strings.TrimSpace(s); s != "" {
			out = append(out, s)
		}
	}
	return out
}

// setDefaults configures default values for all configuration options
func setDefaults(v *viper.Viper) {
	// Lottery defaults
	v.SetDefault("lottery.primary_numbers", []string{})
	v.SetDefault("lottery.secondary_numbers", []string{})
	v.SetDefault("lottery.stake", 200)
	v.SetDefault("lottery.timezone", "Europe/Helsinki")

	// Veikkaus defaults
	v.SetDefault("veikkaus.results_url", "https://www.veikkaus.fi")
	v.SetDefault("veikkaus.jackpot_url", "https://msa.veikkaus.fi")
	v.SetDefault("veikkaus.timeout", "30s")

	// Notification defaults
	v.SetDefault("notify.channel", "discord")
	v.SetDefault("notify.failure_alerts", false)
	v.SetDefault("discord.bot_token", "")
	v.SetDefault("discord.channel_id", "")
	v.SetDefault("discord.group_id", "")
	v.SetDefault("telegram.bot_token", "")
	v.SetDefault("telegram.chat_id", "")
	v.SetDefault("telegram.mention", "")

	// Ledger defaults
	v.SetDefault("ledger.backend", "ssm")
	v.SetDefault("ledger.key", "")
	v.SetDefault("ledger.ssm.region", "eu-west-1")
	v.SetDefault("ledger.sqlite.db_path", "./data/jackpotoracle.db")
	v.SetDefault("ledger.redis.addr", "")
	v.SetDefault("ledger.redis.password", "")
	v.SetDefault("ledger.redis.db", 0)
	v.SetDefault("ledger.postgres.dsn", "")

	// Journal defaults
	v.SetDefault("journal.enabled", false)
	v.SetDefault("journal.db_path", "./data/jackpotoracle.db")
	v.SetDefault("journal.max_history", 0) // 0 = keep everything

	// Logging defaults
	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "json")
}

// MissingFieldsError lists every required setting that is absent.
type MissingFieldsError struct {
	Fields []string
}

func (e *MissingFieldsError) Error() string {
	return fmt.Sprintf("missing required configuration: %s", strings.Join(e.Fields, ", "))
}

// Missing returns the required settings that are empty, sorted.
func (c *Config) Missing() []string {
	var missing []string
	need := func(ok bool, key string) {
		if !ok {
			missing = append(missing, key)
		}
	}

	need(len(c.Lottery.PrimaryNumbers) > 0, "lottery.primary_numbers")
	need(len(c.Lottery.SecondaryNumbers) > 0, "lottery.secondary_numbers")
	need(c.Ledger.Key != "", "ledger.key")

	switch c.Notify.Channel {
	case "discord":
		need(c.Discord.BotToken != "", "discord.bot_token")
		need(c.Discord.ChannelID != "", "discord.channel_id")
		need(c.Discord.GroupID != "", "discord.group_id")
	case "telegram":
		need(c.Telegram.BotToken != "", "telegram.bot_token")
		need(c.Telegram.ChatID != "", "telegram.chat_id")
	}

	switch c.Ledger.Backend {
	case "ssm":
		need(c.Ledger.SSM.Region != "", "ledger.ssm.region")
	case "redis":
		need(c.Ledger.Redis.Addr != "", "ledger.redis.addr")
	case "postgres":
		need(c.Ledger.Postgres.DSN != "", "ledger.postgres.dsn")
	}

	sort.Strings(missing)
	return missing
}

// Validate checks that all configuration values are valid. Absent required
// settings are reported together as a *MissingFieldsError.
func (c *Config) Validate() error {
	if missing := c.Missing(); len(missing) > 0 {
		return &MissingFieldsError{Fields: missing}
	}

	// Validate Lottery config
	for _, n := range append(append([]string{}, c.Lottery.PrimaryNumbers...), c.Lottery.SecondaryNumbers...) {
		if v, err := strconv.Atoi(n); err != nil || v < 0 {
			return fmt.Errorf("lottery numbers must be non-negative integers, got %q", n)
		}
	}
	if c.Lottery.Stake <= 0 {
		return fmt.Errorf("lottery.stake must be positive")
	}
	if _, err := time.LoadLocation(c.Lottery.Timezone); err != nil {
		return fmt.Errorf("lottery.timezone is invalid: %w", err)
	}

	// Validate Veikkaus config
	if c.Veikkaus.ResultsURL == "" {
		return fmt.Errorf("veikkaus.results_url is required")
	}
	if c.Veikkaus.JackpotURL == "" {
		return fmt.Errorf("veikkaus.jackpot_url is required")
	}
	if c.Veikkaus.Timeout < time.Second {
		return fmt.Errorf("veikkaus.timeout must be at least 1 second")
	}

	// Validate Notify config
	validChannels := map[string]bool{"discord": true, "telegram": true, "stdout": true}
	if !validChannels[c.Notify.Channel] {
		return fmt.Errorf("notify.channel must be one of: discord, telegram, stdout")
	}

	// Validate Ledger config
	validBackends := map[string]bool{"ssm": true, "sqlite": true, "redis": true, "postgres": true}
	if !validBackends[c.Ledger.Backend] {
		return fmt.Errorf("ledger.backend must be one of: ssm, sqlite, redis, postgres")
	}
	if c.Journal.MaxHistory < 0 {
		return fmt.Errorf("journal.max_history must not be negative")
	}

	// Validate Logging config
	validLogLevels := map[string]bool{"debug": true, "info": true, "warn": true, "error": true}
	if !validLogLevels[c.Logging.Level] {
		return fmt.Errorf("logging.level must be one of: debug, info, warn, error")
	}
	validFormats := map[string]bool{"json": true, "text": true}
	if !validFormats[c.Logging.Format] {
		return fmt.Errorf("logging.format must be one of: json, text")
	}

	return nil
}

// Location returns the zone used to resolve draw weeks.
func (c *Config) Location() *time.Location {
	loc, err := time.LoadLocation(c.Lottery.Timezone)
	if err != nil {
		return time.UTC
	}
	return loc
}
