package main

import (
	"context"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/pbaille/wellkit/internal/domain"
	"github.com/pbaille/wellkit/internal/insights"
	"github.com/pbaille/wellkit/internal/journal"
)

func journalCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "journal",
		Short: "Write and browse journal entries",
	}
	cmd.AddCommand(journalAddCmd(), journalListCmd(), journalRmCmd())
	return cmd
}

func journalAddCmd() *cobra.Command {
	var (
		gratitude bool
		question  string
	)

	cmd := &cobra.Command{
		Use:   "add [content]",
		Short: "Add a journal entry and analyze its mood",
		Args:  cobra.MinimumNArgs(1),
		RunE: withApp(func(ctx context.Context, a *app, args []string) error {
			req := journal.SaveRequest{
				Kind:     domain.KindJournal,
				Content:  strings.Join(args, " "),
				Question: question,
			}
			if gratitude {
				req.Kind = domain.KindGratitude
			}

			saved, err := a.journals.Save(ctx, owner, req)
			if err != nil {
				return err
			}

			m := saved.Mood
			fmt.Printf("Added %s: %s\n", saved.Entry.Kind, shortID(saved.Entry.ID))
			fmt.Printf("Mood:  %s (confidence %.0f%%, %s)\n", m.Label.Display(), m.Confidence*100, m.Source)
			if len(m.EmotionalTones) > 0 {
				fmt.Printf("Tones: %s\n", strings.Join(m.EmotionalTones, ", "))
			}
			fmt.Printf("Tip:   %s\n", m.Suggestion)
			return nil
		}),
	}

	cmd.Flags().BoolVarP(&gratitude, "gratitude", "g", false, "save as a gratitude entry")
	cmd.Flags().StringVarP(&question, "question", "q", "", "reflection question being answered")
	return cmd
}

func journalListCmd() *cobra.Command {
	var limit int

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List recent entries",
		RunE: withApp(func(ctx context.Context, a *app, args []string) error {
			entries, err := a.journals.List(ctx, owner, limit, 0)
			if err != nil {
				return err
			}
			_, loc := a.today(ctx)

			if len(entries) == 0 {
				fmt.Println("No entries yet. Use 'wellkit journal add' to create one.")
				return nil
			}

			for _, e := range entries {
				fmt.Printf("%s  %s  %-9s %s  %s\n",
					shortID(e.ID),
					e.CreatedAt.In(loc).Format("2006-01-02 15:04"),
					e.Kind,
					e.MoodLabel.Category().Emoji,
					truncate(e.Content, 60))
			}
			return nil
		}),
	}

	cmd.Flags().IntVarP(&limit, "limit", "n", 20, "number of entries to show")
	return cmd
}

func journalRmCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "rm [id]",
		Short: "Delete an entry",
		Args:  cobra.ExactArgs(1),
		RunE: withApp(func(ctx context.Context, a *app, args []string) error {
			entries, err := a.journals.List(ctx, owner, 500, 0)
			if err != nil {
				return err
			}
			ids := make([]string, len(entries))
			for i, e := range entries {
				ids[i] = e.ID
			}

			id, err := resolveID(args[0], ids)
			if err != nil {
				return err
			}
			if err := a.journals.Delete(ctx, owner, id); err != nil {
				return err
			}
			fmt.Printf("Deleted %s\n", shortID(id))
			return nil
		}),
	}
}

func moodCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "mood",
		Short: "Log moods and see trends",
	}
	cmd.AddCommand(moodLogCmd(), moodListCmd(), moodRmCmd(), moodTrendCmd(), moodStatsCmd())
	return cmd
}

func moodLogCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "log [label] [note]",
		Short: "Record how you feel (" + labelNames() + ")",
		Args:  cobra.MinimumNArgs(1),
		RunE: withApp(func(ctx context.Context, a *app, args []string) error {
			label, err := domain.ParseMoodLabel(args[0])
			if err != nil {
				return err
			}

			m, err := a.journals.LogMood(ctx, owner, label, strings.Join(args[1:], " "))
			if err != nil {
				return err
			}
			fmt.Printf("Logged %s (%s)\n", m.Label.Display(), shortID(m.ID))
			return nil
		}),
	}
}

func labelNames() string {
	names := make([]string, len(domain.MoodLabels))
	for i, l := range domain.MoodLabels {
		names[i] = strings.ToLower(string(l))
	}
	return strings.Join(names, ", ")
}

func moodListCmd() *cobra.Command {
	var limit int

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List recent moods",
		RunE: withApp(func(ctx context.Context, a *app, args []string) error {
			moods, err := a.store.ListMoods(ctx, owner, limit)
			if err != nil {
				return err
			}
			_, loc := a.today(ctx)

			if len(moods) == 0 {
				fmt.Println("No moods yet. Write a journal entry or use 'wellkit mood log'.")
				return nil
			}

			for _, m := range moods {
				fmt.Printf("%s  %s  %-14s %d/5  %s\n",
					shortID(m.ID),
					m.CreatedAt.In(loc).Format("2006-01-02 15:04"),
					m.Label.Display(),
					m.Score,
					truncate(m.SourceText, 40))
			}
			return nil
		}),
	}

	cmd.Flags().IntVarP(&limit, "limit", "n", 20, "number of moods to show")
	return cmd
}

func moodRmCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "rm [id]",
		Short: "Delete a mood record",
		Args:  cobra.ExactArgs(1),
		RunE: withApp(func(ctx context.Context, a *app, args []string) error {
			moods, err := a.store.ListMoods(ctx, owner, 500)
			if err != nil {
				return err
			}
			ids := make([]string, len(moods))
			for i, m := range moods {
				ids[i] = m.ID
			}

			id, err := resolveID(args[0], ids)
			if err != nil {
				return err
			}
			if err := a.store.DeleteMood(ctx, owner, id); err != nil {
				return err
			}
			fmt.Printf("Deleted %s\n", shortID(id))
			return nil
		}),
	}
}

func moodTrendCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "trend",
		Short: "Analyze your recent mood trend",
		RunE: withApp(func(ctx context.Context, a *app, args []string) error {
			report, err := a.insights.Trend(ctx, owner)
			if err != nil {
				return err
			}

			fmt.Printf("Trend: %s\n", report.Trend)
			for _, in := range report.Insights {
				fmt.Printf("  - %s\n", in)
			}
			fmt.Printf("\n%s\n", report.Recommendation)
			return nil
		}),
	}
}

func moodStatsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "stats",
		Short: "Show mood distribution and the last 7 days",
		RunE: withApp(func(ctx context.Context, a *app, args []string) error {
			history, err := a.insights.History(ctx, owner)
			if err != nil {
				return err
			}
			today, loc := a.today(ctx)
			sum := insights.Summarize(history, today, loc)

			st := sum.Stats
			fmt.Printf("Happy: %d  Sad: %d  Neutral: %d  (total %d)\n\n", st.Happy, st.Sad, st.Neutral, st.Total)
			for _, d := range sum.Week {
				bar := strings.Repeat("#", int(d.Average*4+0.5))
				fmt.Printf("%s  %4.1f  %s\n", d.Date, d.Average, bar)
			}
			return nil
		}),
	}
}
