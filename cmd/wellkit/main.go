package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/spf13/cobra"

	"github.com/pbaille/wellkit/internal/classifier"
	"github.com/pbaille/wellkit/internal/config"
	"github.com/pbaille/wellkit/internal/domain"
	"github.com/pbaille/wellkit/internal/insights"
	"github.com/pbaille/wellkit/internal/journal"
	"github.com/pbaille/wellkit/internal/logger"
	"github.com/pbaille/wellkit/internal/prompts"
	"github.com/pbaille/wellkit/internal/store"
	"github.com/pbaille/wellkit/internal/streak"
)

var (
	configPath string
	dbPath     string
	owner      string
	tzName     string
)

func main() {
	rootCmd := &cobra.Command{
		Use:           "wellkit",
		Short:         "Journal, mood and streak tracking",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "config file (yaml)")
	rootCmd.PersistentFlags().StringVar(&dbPath, "db", "", "database path (default ~/.wellkit/wellkit.db)")
	rootCmd.PersistentFlags().StringVar(&owner, "owner", defaultOwner(), "user the data belongs to")
	rootCmd.PersistentFlags().StringVar(&tzName, "tz", "", "timezone used to decide what \"today\" is")

	rootCmd.AddCommand(journalCmd())
	rootCmd.AddCommand(moodCmd())
	rootCmd.AddCommand(todoCmd())
	rootCmd.AddCommand(streakCmd())
	rootCmd.AddCommand(classifyCmd())
	rootCmd.AddCommand(dailyCmd())
	rootCmd.AddCommand(prefCmd())
	rootCmd.AddCommand(tokenCmd())
	rootCmd.AddCommand(serveCmd())

	if err := rootCmd.ExecuteContext(context.Background()); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

func defaultOwner() string {
	if u := os.Getenv("USER"); u != "" {
		return u
	}
	return "local"
}

// app holds everything a command needs
type app struct {
	cfg      *config.Config
	log      *logger.Logger
	store    *store.Store
	redis    *redis.Client
	model    *classifier.Model
	journals *journal.Service
	insights *insights.Service
	ledger   *streak.Ledger
	prompts  *prompts.Service
	loc      *time.Location
}

func openApp(ctx context.Context) (*app, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, err
	}
	if dbPath != "" {
		cfg.DB = dbPath
	}
	if tzName != "" {
		cfg.Timezone = tzName
	}
	loc, err := cfg.Location()
	if err != nil {
		return nil, err
	}

	log, err := logger.New(cfg.Log.Mode)
	if err != nil {
		return nil, err
	}

	// Ensure directory exists
	if cfg.DB != ":memory:" {
		if err := os.MkdirAll(filepath.Dir(cfg.DB), 0755); err != nil {
			return nil, fmt.Errorf("create db dir: %w", err)
		}
	}
	s, err := store.New(cfg.DB)
	if err != nil {
		return nil, err
	}

	var gen classifier.Generator
	if a, err := classifier.NewAnthropic(cfg.Model.APIKey, cfg.Model.Name); err == nil {
		gen = a
	} else {
		log.Debug("model disabled, using keyword classifier", "reason", err)
	}

	a := &app{cfg: cfg, log: log, store: s, loc: loc}

	var cache insights.Cache = insights.NopCache{}
	if cfg.Redis.Addr != "" {
		client, err := insights.DialRedis(ctx, cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB)
		if err != nil {
			log.Warn("redis unavailable, trend cache disabled", "addr", cfg.Redis.Addr, "error", err)
		} else {
			a.redis = client
			cache = insights.NewRedisCache(client, cfg.Redis.TTL)
		}
	}

	a.model = classifier.NewModel(gen, cfg.Model.Timeout, log)
	a.journals = journal.New(s, a.model, log)
	a.insights = insights.New(s, classifier.NewTrendAnalyzer(gen, cfg.Model.Timeout, loc, log), cache, log)
	a.ledger = streak.NewLedger(s, log)
	a.prompts = prompts.New(s, store.ErrNotFound, log)
	return a, nil
}

func (a *app) Close() {
	if a.redis != nil {
		a.redis.Close()
	}
	a.store.Close()
	a.log.Sync()
}

// today resolves the current date: --tz wins, then the owner's timezone
// preference, then the configured default
func (a *app) today(ctx context.Context) (domain.Date, *time.Location) {
	loc := a.loc
	if tzName == "" {
		if name, err := a.store.GetPreference(ctx, owner, "timezone"); err == nil {
			if l, err := time.LoadLocation(name); err == nil {
				loc = l
			}
		}
	}
	return domain.DateOf(time.Now(), loc), loc
}

// withApp opens the app for the duration of one command
func withApp(fn func(ctx context.Context, a *app, args []string) error) func(*cobra.Command, []string) error {
	return func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		a, err := openApp(ctx)
		if err != nil {
			return err
		}
		defer a.Close()
		return fn(ctx, a, args)
	}
}

// resolveID expands an id prefix against the given ids
func resolveID(prefix string, ids []string) (string, error) {
	var match string
	for _, id := range ids {
		if strings.HasPrefix(id, prefix) {
			if match != "" {
				return "", fmt.Errorf("ambiguous id prefix: %s", prefix)
			}
			match = id
		}
	}
	if match == "" {
		return "", fmt.Errorf("%w: %s", store.ErrNotFound, prefix)
	}
	return match, nil
}

func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}

func truncate(s string, max int) string {
	// Replace newlines with spaces for display
	s = strings.ReplaceAll(s, "\n", " ")
	r := []rune(s)
	if len(r) <= max {
		return s
	}
	return string(r[:max-3]) + "..."
}

// explain turns ledger errors into a friendlier line
func explain(err error) error {
	var incomplete *streak.IncompleteActivitiesError
	if errors.As(err, &incomplete) {
		return fmt.Errorf("not done yet, missing: %s", strings.Join(incomplete.Missing, ", "))
	}
	return err
}
