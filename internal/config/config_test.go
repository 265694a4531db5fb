package config

import (
	"errors"
	"os"
	"path/filepath"
	"reflect"
	"testing"
	"time"
)

func writeTemp(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestLoadAndValidate(t *testing.T) {
	content := `
lottery:
  primary_numbers: ["3", "15", "22", "31", "44"]
  secondary_numbers: ["2", "9"]

veikkaus:
  timeout: 10s

notify:
  channel: telegram

telegram:
  bot_token: "test_token"
  chat_id: "-1001234"

ledger:
  backend: sqlite
  key: investment
  sqlite:
    db_path: ":memory:"

logging:
  level: "debug"
  format: "text"
`
	cfg, err := Load(writeTemp(t, "config.yaml", content))
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if len(cfg.Lottery.PrimaryNumbers) != 5 {
		t.Errorf("Expected 5 primary numbers, got %d", len(cfg.Lottery.PrimaryNumbers))
	}
	if cfg.Lottery.Stake != 200 {
		t.Errorf("Unexpected default stake: %d", cfg.Lottery.Stake)
	}
	if cfg.Veikkaus.Timeout != 10*time.Second {
		t.Errorf("Unexpected timeout: %v", cfg.Veikkaus.Timeout)
	}
	if cfg.Veikkaus.ResultsURL != "https://www.veikkaus.fi" {
		t.Errorf("Unexpected default results URL: %s", cfg.Veikkaus.ResultsURL)
	}

	if err := cfg.Validate(); err != nil {
		t.Fatalf("Validate failed: %v", err)
	}
}

func TestLoad_LegacyEnvironment(t *testing.T) {
	t.Setenv("DISCORD_KEY", "bot-token")
	t.Setenv("DISCORD_CHANNEL_ID", "111")
	t.Setenv("DISCORD_GROUP_ID", "222")
	t.Setenv("PARAMETER_STORE_VARIABLE_NAME", "/ejackpot/investment")
	t.Setenv("EUROJACKPOT_PRIMARY_NUMBERS", "3, 15,22,31,44")
	t.Setenv("EUROJACKPOT_SECONDARY_NUMBERS", "2,9")

	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg.Discord.BotToken != "bot-token" || cfg.Discord.ChannelID != "111" || cfg.Discord.GroupID != "222" {
		t.Errorf("discord settings not bound: %+v", cfg.Discord)
	}
	if cfg.Ledger.Key != "/ejackpot/investment" {
		t.Errorf("ledger key = %q", cfg.Ledger.Key)
	}
	want := []string{"3", "15", "22", "31", "44"}
	if !reflect.DeepEqual(cfg.Lottery.PrimaryNumbers, want) {
		t.Errorf("primary numbers = %v, want %v", cfg.Lottery.PrimaryNumbers, want)
	}
	if err := cfg.Validate(); err != nil {
		t.Fatalf("Validate failed: %v", err)
	}
}

func TestLoad_PrefixedEnvironmentWins(t *testing.T) {
	t.Setenv("PARAMETER_STORE_VARIABLE_NAME", "/legacy")
	t.Setenv("JACKPOT_ORACLE_LEDGER_KEY", "/prefixed")
	t.Setenv("JACKPOT_ORACLE_LEDGER_BACKEND", "redis")

	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg.Ledger.Key != "/prefixed" {
		t.Errorf("ledger key = %q, want /prefixed", cfg.Ledger.Key)
	}
	if cfg.Ledger.Backend != "redis" {
		t.Errorf("ledger backend = %q, want redis", cfg.Ledger.Backend)
	}
}

func TestValidate_MissingFieldsCollected(t *testing.T) {
	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	err = cfg.Validate()
	var missing *MissingFieldsError
	if !errors.As(err, &missing) {
		t.Fatalf("expected *MissingFieldsError, got %v", err)
	}
	want := []string{
		"discord.bot_token",
		"discord.channel_id",
		"discord.group_id",
		"ledger.key",
		"lottery.primary_numbers",
		"lottery.secondary_numbers",
	}
	if !reflect.DeepEqual(missing.Fields, want) {
		t.Errorf("missing = %v, want %v", missing.Fields, want)
	}
}

func validConfig() *Config {
	return &Config{
		Lottery: LotteryConfig{
			PrimaryNumbers:   []string{"1", "2", "3", "4", "5"},
			SecondaryNumbers: []string{"1", "2"},
			Stake:            200,
			Timezone:         "UTC",
		},
		Veikkaus: VeikkausConfig{
			ResultsURL: "https://example.com",
			JackpotURL: "https://example.com",
			Timeout:    30 * time.Second,
		},
		Notify:  NotifyConfig{Channel: "stdout"},
		Ledger:  LedgerConfig{Backend: "sqlite", Key: "investment"},
		Logging: LoggingConfig{Level: "info", Format: "json"},
	}
}

func TestValidateErrors(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(c *Config)
		wantErr bool
	}{
		{name: "valid", mutate: func(c *Config) {}, wantErr: false},
		{name: "non-numeric guess", mutate: func(c *Config) { c.Lottery.PrimaryNumbers[0] = "x" }, wantErr: true},
		{name: "zero stake", mutate: func(c *Config) { c.Lottery.Stake = 0 }, wantErr: true},
		{name: "bad timezone", mutate: func(c *Config) { c.Lottery.Timezone = "Mars/Olympus" }, wantErr: true},
		{name: "short timeout", mutate: func(c *Config) { c.Veikkaus.Timeout = time.Millisecond }, wantErr: true},
		{name: "unknown channel", mutate: func(c *Config) { c.Notify.Channel = "email" }, wantErr: true},
		{name: "unknown backend", mutate: func(c *Config) { c.Ledger.Backend = "etcd" }, wantErr: true},
		{name: "redis without addr", mutate: func(c *Config) { c.Ledger.Backend = "redis" }, wantErr: true},
		{name: "telegram without chat", mutate: func(c *Config) {
			c.Notify.Channel = "telegram"
			c.Telegram.BotToken = "t"
		}, wantErr: true},
		{name: "bad log level", mutate: func(c *Config) { c.Logging.Level = "trace" }, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := validConfig()
			tt.mutate(cfg)
			err := cfg.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestLoadEnvJSON(t *testing.T) {
	path := writeTemp(t, "env.json", `{"Variables": {"JACKPOT_ORACLE_TEST_A": "1,2", "JACKPOT_ORACLE_TEST_B": "x"}}`)
	t.Setenv("JACKPOT_ORACLE_TEST_A", "")
	t.Setenv("JACKPOT_ORACLE_TEST_B", "")

	n, err := LoadEnvJSON(path)
	if err != nil {
		t.Fatalf("LoadEnvJSON: %v", err)
	}
	if n != 2 {
		t.Errorf("exported %d variables, want 2", n)
	}
	if os.Getenv("JACKPOT_ORACLE_TEST_A") != "1,2" {
		t.Errorf("JACKPOT_ORACLE_TEST_A = %q", os.Getenv("JACKPOT_ORACLE_TEST_A"))
	}
}

func TestLoadEnvJSON_Invalid(t *testing.T) {
	if _, err := LoadEnvJSON(writeTemp(t, "env.json", `{"Variables":`)); err == nil {
		t.Error("expected error for invalid JSON")
	}
	if _, err := LoadEnvJSON(filepath.Join(t.TempDir(), "missing.json")); err == nil {
		t.Error("expected error for missing file")
	}
}
