package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/pbaille/wellkit/internal/api"
	"github.com/pbaille/wellkit/internal/store"
)

func classifyCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "classify [text]",
		Short: "Analyze the mood of some text without saving it",
		Args:  cobra.MinimumNArgs(1),
		RunE: withApp(func(ctx context.Context, a *app, args []string) error {
			r := a.model.Classify(ctx, strings.Join(args, " "))
			fmt.Printf("Mood:       %s (score %d/5)\n", r.Label.Display(), r.Score)
			fmt.Printf("Confidence: %.0f%% (%s)\n", r.Confidence*100, r.Source)
			if len(r.EmotionalTones) > 0 {
				fmt.Printf("Tones:      %s\n", strings.Join(r.EmotionalTones, ", "))
			}
			if len(r.KeyPhrases) > 0 {
				fmt.Printf("Phrases:    %s\n", strings.Join(r.KeyPhrases, ", "))
			}
			fmt.Printf("Tip:        %s\n", r.Suggestion)
			return nil
		}),
	}
}

func dailyCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "daily",
		Short: "Show today's quote and reflection questions",
		RunE: withApp(func(ctx context.Context, a *app, args []string) error {
			today, _ := a.today(ctx)
			d, err := a.prompts.Today(ctx, owner, today)
			if err != nil {
				return err
			}
			fmt.Printf("%s\n\n", d.Quote)
			for i, q := range d.Questions {
				fmt.Printf("%d. %s\n", i+1, q)
			}
			return nil
		}),
	}
}

func prefCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "pref",
		Short: "Read or change preferences",
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "get [key]",
		Short: "Print a preference",
		Args:  cobra.ExactArgs(1),
		RunE: withApp(func(ctx context.Context, a *app, args []string) error {
			v, err := a.store.GetPreference(ctx, owner, args[0])
			if errors.Is(err, store.ErrNotFound) {
				fmt.Printf("%s is not set\n", args[0])
				return nil
			}
			if err != nil {
				return err
			}
			fmt.Println(v)
			return nil
		}),
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "set [key] [value]",
		Short: "Change a preference (e.g. timezone Europe/Paris)",
		Args:  cobra.ExactArgs(2),
		RunE: withApp(func(ctx context.Context, a *app, args []string) error {
			if args[0] == "timezone" {
				if _, err := time.LoadLocation(args[1]); err != nil {
					return fmt.Errorf("unknown timezone %q", args[1])
				}
			}
			return a.store.SetPreference(ctx, owner, args[0], args[1])
		}),
	})

	return cmd
}

func tokenCmd() *cobra.Command {
	var ttl time.Duration

	cmd := &cobra.Command{
		Use:   "token",
		Short: "Issue an API token for --owner",
		RunE: withApp(func(ctx context.Context, a *app, args []string) error {
			tok, err := api.IssueToken(a.cfg.Auth.JWTSecret, owner, ttl)
			if err != nil {
				return err
			}
			fmt.Println(tok)
			return nil
		}),
	}

	cmd.Flags().DurationVar(&ttl, "ttl", 30*24*time.Hour, "token lifetime")
	return cmd
}

func serveCmd() *cobra.Command {
	var addr string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the REST API server",
		RunE: withApp(func(ctx context.Context, a *app, args []string) error {
			if addr == "" {
				addr = a.cfg.Server.Addr
			}
			if a.cfg.Auth.JWTSecret == "" {
				a.log.Warn("auth.jwt_secret not set, trusting X-User-ID headers")
			}

			ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
			defer stop()

			server := api.New(api.Deps{
				Store:      a.store,
				Journals:   a.journals,
				Insights:   a.insights,
				Ledger:     a.ledger,
				Prompts:    a.prompts,
				Classifier: a.model,
			}, api.Options{
				Addr:       addr,
				CORSOrigin: a.cfg.Server.CORSOrigin,
				JWTSecret:  a.cfg.Auth.JWTSecret,
				Location:   a.loc,
				Log:        a.log,
			})
			return server.Run(ctx)
		}),
	}

	cmd.Flags().StringVarP(&addr, "addr", "a", "", "server address (default from config)")
	return cmd
}
