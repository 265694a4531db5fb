package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/google/uuid"

	"github.com/rewired-gh/jackpotoracle/internal/config"
	"github.com/rewired-gh/jackpotoracle/internal/ledger"
	"github.com/rewired-gh/jackpotoracle/internal/logger"
	"github.com/rewired-gh/jackpotoracle/internal/models"
	"github.com/rewired-gh/jackpotoracle/internal/notify"
	"github.com/rewired-gh/jackpotoracle/internal/reconcile"
	"github.com/rewired-gh/jackpotoracle/internal/runner"
	"github.com/rewired-gh/jackpotoracle/internal/storage"
	"github.com/rewired-gh/jackpotoracle/internal/veikkaus"
)

var (
	configPath  = flag.String("config", "configs/config.yaml", "Path to configuration file (skipped if missing)")
	envJSONPath = flag.String("env-json", "env.json", "Path to a Lambda-style env.json (skipped if missing)")
	year        = flag.Int("year", 0, "ISO year to check (default: current)")
	week        = flag.Int("week", 0, "ISO week to check (default: current)")
	initLedger  = flag.Int64("init-ledger", 0, "Provision the ledger key with this many cents (0 allowed) if it does not exist, then exit")
	dryRun      = flag.Bool("dry-run", false, "Reconcile against a copy of the ledger and print the message instead of sending it")
)

func main() {
	flag.Parse()

	if fileExists(*envJSONPath) {
		if _, err := config.LoadEnvJSON(*envJSONPath); err != nil {
			log.Fatalf("Failed to load %s: %v", *envJSONPath, err)
		}
	}

	path := *configPath
	if !fileExists(path) {
		path = ""
	}
	cfg, err := config.Load(path)
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}
	if err := cfg.Validate(); err != nil {
		log.Fatalf("Invalid configuration: %v", err)
	}

	logger.Init(cfg.Logging.Level, cfg.Logging.Format)
	if path != "" {
		logger.Info("Configuration loaded from %s", path)
	} else {
		logger.Info("Configuration loaded from environment")
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-sigChan
		logger.Info("Shutdown signal received, cancelling run...")
		cancel()
	}()

	closers := &closerStack{}
	defer closers.closeAll()

	store, err := openLedger(ctx, cfg, closers)
	if err != nil {
		closers.closeAll()
		logger.Fatal("Failed to initialize ledger: %v", err)
	}

	if isFlagSet("init-ledger") {
		err := provisionLedger(ctx, store, cfg.Ledger.Key, *initLedger)
		closers.closeAll()
		if err != nil {
			logger.Fatal("%v", err)
		}
		return
	}

	var sender notify.Sender
	if *dryRun {
		sender = notify.WriterSender{W: os.Stdout}
	} else {
		sender, err = newSender(cfg)
		if err != nil {
			closers.closeAll()
			logger.Fatal("Failed to initialize %s sender: %v", cfg.Notify.Channel, err)
		}
	}

	runID := uuid.NewString()
	engine, err := newEngine(ctx, cfg, store, runID, closers)
	if err != nil {
		closers.closeAll()
		logger.Fatal("Failed to initialize reconciler: %v", err)
	}

	client := veikkaus.NewClient(cfg.Veikkaus.ResultsURL, cfg.Veikkaus.JackpotURL, cfg.Veikkaus.Timeout)
	guesses := models.NewGuessSet(cfg.Lottery.PrimaryNumbers, cfg.Lottery.SecondaryNumbers)
	r := runner.New(client, engine, notify.NewComposer(markupFor(sender), cfg.Location()), sender, guesses)

	period := runner.PeriodAt(time.Now(), cfg.Location())
	if *year != 0 {
		period.Year = *year
	}
	if *week != 0 {
		period.Week = *week
	}

	logger.Info("Starting run %s for %s (ledger: %s, channel: %s, dry run: %t)",
		runID, period, cfg.Ledger.Backend, sender.Name(), *dryRun)

	if _, err := r.Run(ctx, period); err != nil {
		if cfg.Notify.FailureAlerts && !*dryRun {
			if alertErr := r.AlertFailure(context.Background(), err); alertErr != nil {
				logger.Warn("Failed to send failure alert: %v", alertErr)
			}
		}
		closers.closeAll()
		logger.Fatal("Run %s failed: %v", runID, err)
	}
	logger.Info("Run %s completed", runID)
}

// isFlagSet reports whether name was given on the command line, so an
// explicit zero can be told apart from the default.
func isFlagSet(name string) bool {
	set := false
	flag.Visit(func(f *flag.Flag) {
		if f.Name == name {
			set = true
		}
	})
	return set
}

// provisionLedger writes cents under key unless the key already exists.
func provisionLedger(ctx context.Context, store ledger.Store, key string, cents int64) error {
	created, err := ledger.Provision(ctx, store, key, cents)
	if err != nil {
		return err
	}
	if created {
		logger.Info("Provisioned ledger key %s with %d", key, cents)
	} else {
		logger.Info("Ledger key %s already exists, left unchanged", key)
	}
	return nil
}

// openLedger connects the configured backend. In dry-run mode the real value is
// copied into a memory store so nothing is written back.
func openLedger(ctx context.Context, cfg *config.Config, closers *closerStack) (ledger.Store, error) {
	var store ledger.Store
	switch cfg.Ledger.Backend {
	case "ssm":
		s, err := ledger.NewSSMStore(ctx, cfg.Ledger.SSM.Region)
		if err != nil {
			return nil, err
		}
		store = s
	case "sqlite":
		s, err := closers.storage(cfg.Ledger.SQLite.DBPath, cfg.Journal.MaxHistory)
		if err != nil {
			return nil, err
		}
		store = s
	case "redis":
		s, err := ledger.NewRedisStore(ctx, ledger.RedisConfig{
			Addr:     cfg.Ledger.Redis.Addr,
			Password: cfg.Ledger.Redis.Password,
			DB:       cfg.Ledger.Redis.DB,
		})
		if err != nil {
			return nil, err
		}
		closers.push(s.Close)
		store = s
	case "postgres":
		s, err := ledger.NewPostgresStore(ctx, cfg.Ledger.Postgres.DSN)
		if err != nil {
			return nil, err
		}
		closers.push(func() error { s.Close(); return nil })
		store = s
	default:
		return nil, fmt.Errorf("unknown ledger backend %q", cfg.Ledger.Backend)
	}

	if !*dryRun {
		return store, nil
	}
	value, err := store.Get(ctx, cfg.Ledger.Key)
	if err != nil {
		return nil, fmt.Errorf("failed to read ledger for dry run: %w", err)
	}
	logger.Debug("Dry run: ledger %s seeded with %d", cfg.Ledger.Key, value)
	return ledger.NewMemory(map[string]int64{cfg.Ledger.Key: value}), nil
}

func newEngine(ctx context.Context, cfg *config.Config, store ledger.Store, runID string, closers *closerStack) (*reconcile.Engine, error) {
	engine := reconcile.New(store, reconcile.Config{
		LedgerKey: cfg.Ledger.Key,
		Stake:     cfg.Lottery.Stake,
		RunID:     runID,
	})
	if !cfg.Journal.Enabled || *dryRun {
		return engine, nil
	}
	journal, err := closers.storage(cfg.Journal.DBPath, cfg.Journal.MaxHistory)
	if err != nil {
		return nil, err
	}
	if history, err := journal.History(ctx, 1); err == nil && len(history) > 0 {
		last := history[0]
		logger.Debug("Last reconciled draw %s at %s (ledger %d)", last.DrawID, last.ReconciledAt.Format(time.RFC3339), last.LedgerAfter)
	}
	return engine.WithJournal(journal), nil
}

func newSender(cfg *config.Config) (notify.Sender, error) {
	switch cfg.Notify.Channel {
	case "discord":
		return notify.NewDiscordSender(cfg.Discord.BotToken, cfg.Discord.ChannelID, cfg.Discord.GroupID)
	case "telegram":
		return notify.NewTelegramSender(cfg.Telegram.BotToken, cfg.Telegram.ChatID, cfg.Telegram.Mention)
	case "stdout":
		return notify.WriterSender{W: os.Stdout}, nil
	}
	return nil, fmt.Errorf("unknown notify channel %q", cfg.Notify.Channel)
}

func markupFor(sender notify.Sender) notify.Markup {
	if _, ok := sender.(*notify.TelegramSender); ok {
		return notify.TelegramMarkup{}
	}
	return notify.DiscordMarkup{}
}

func fileExists(path string) bool {
	if path == "" {
		return false
	}
	_, err := os.Stat(path)
	return !errors.Is(err, os.ErrNotExist)
}

// closerStack releases resources in reverse order. SQLite handles are shared
// by path so the ledger and the journal can live in one file.
type closerStack struct {
	fns     []func() error
	sqlites map[string]*storage.Storage
}

func (c *closerStack) push(fn func() error) {
	c.fns = append(c.fns, fn)
}

func (c *closerStack) storage(path string, maxHistory int) (*storage.Storage, error) {
	if s, ok := c.sqlites[path]; ok {
		return s, nil
	}
	s, err := storage.New(maxHistory, path)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize storage: %w", err)
	}
	if c.sqlites == nil {
		c.sqlites = make(map[string]*storage.Storage)
	}
	c.sqlites[path] = s
	c.push(s.Close)
	return s, nil
}

func (c *closerStack) closeAll() {
	for i := len(c.fns) - 1; i >= 0; i-- {
		if err := c.fns[i](); err != nil {
			logger.Error("Failed to close resource: %v", err)
		}
	}
	c.fns = nil
}
