package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/pbaille/wellkit/internal/domain"
	"github.com/pbaille/wellkit/internal/streak"
)

func streakCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "streak",
		Short: "Track daily activities and your streak",
	}
	cmd.AddCommand(streakShowCmd(), streakToggleCmd(), streakSyncCmd(), streakCompleteCmd())
	return cmd
}

func printStreak(s domain.DailyActivityState) {
	done, percent := streak.Progress(s.Today)
	fmt.Printf("Streak:  %d (longest %d, %d days total)\n", s.CurrentStreak, s.LongestStreak, s.TotalDaysActive)
	fmt.Printf("%s\n\n", streak.Milestone(s.CurrentStreak))
	fmt.Printf("Today %s: %d/%d (%d%%)\n", s.Today.Date, done, len(domain.Activities), percent)
	for _, a := range domain.Activities {
		check := " "
		if s.Today.Done(a) {
			check = "x"
		}
		fmt.Printf("  [%s] %s\n", check, a)
	}
	if s.Today.Completed {
		fmt.Println("Day complete.")
	}
}

func streakShowCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "show",
		Short: "Show today's progress and streak",
		RunE: withApp(func(ctx context.Context, a *app, args []string) error {
			today, _ := a.today(ctx)
			s, err := a.ledger.Get(ctx, owner, today)
			if err != nil {
				return err
			}
			printStreak(s)
			return nil
		}),
	}
}

func streakToggleCmd() *cobra.Command {
	return &cobra.Command{
		Use:       "toggle [journal|gratitude|todo]",
		Short:     "Check or uncheck an activity for today",
		Args:      cobra.ExactArgs(1),
		ValidArgs: []string{"journal", "gratitude", "todo"},
		RunE: withApp(func(ctx context.Context, a *app, args []string) error {
			today, _ := a.today(ctx)
			s, err := a.ledger.Toggle(ctx, owner, domain.Activity(args[0]), today)
			if err != nil {
				return err
			}
			printStreak(s)
			return nil
		}),
	}
}

func streakSyncCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "sync",
		Short: "Check activities from today's journal entries and to-dos",
		RunE: withApp(func(ctx context.Context, a *app, args []string) error {
			today, loc := a.today(ctx)
			s, err := a.ledger.Sync(ctx, owner, today, loc)
			if err != nil {
				return err
			}
			printStreak(s)
			return nil
		}),
	}
}

func streakCompleteCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "complete",
		Short: "Mark today complete once every activity is done",
		RunE: withApp(func(ctx context.Context, a *app, args []string) error {
			today, loc := a.today(ctx)
			// pick up anything recorded since the last sync
			if _, err := a.ledger.Sync(ctx, owner, today, loc); err != nil {
				return err
			}
			s, err := a.ledger.Complete(ctx, owner, today)
			if err != nil {
				return explain(err)
			}
			printStreak(s)
			return nil
		}),
	}
}
