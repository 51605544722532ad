package main

import (
	"context"
	"fmt"
	"strings"

	"github.com/spf13/cobra"
)

func todoCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "todo",
		Short: "Manage to-do items",
	}
	cmd.AddCommand(todoAddCmd(), todoListCmd(), todoDoneCmd(), todoRmCmd())
	return cmd
}

func todoAddCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "add [text]",
		Short: "Add a to-do",
		Args:  cobra.MinimumNArgs(1),
		RunE: withApp(func(ctx context.Context, a *app, args []string) error {
			text := strings.TrimSpace(strings.Join(args, " "))
			if text == "" {
				return fmt.Errorf("text is required")
			}
			todo, err := a.store.AddTodo(ctx, owner, text)
			if err != nil {
				return err
			}
			fmt.Printf("Added to-do: %s\n", shortID(todo.ID))
			return nil
		}),
	}
}

func todoListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List to-dos",
		RunE: withApp(func(ctx context.Context, a *app, args []string) error {
			todos, err := a.store.ListTodos(ctx, owner)
			if err != nil {
				return err
			}

			if len(todos) == 0 {
				fmt.Println("Nothing to do. Use 'wellkit todo add' to create one.")
				return nil
			}

			for _, t := range todos {
				check := " "
				if t.Done {
					check = "x"
				}
				fmt.Printf("%s  [%s] %s\n", shortID(t.ID), check, truncate(t.Text, 60))
			}
			return nil
		}),
	}
}

func resolveTodo(ctx context.Context, a *app, prefix string) (string, error) {
	todos, err := a.store.ListTodos(ctx, owner)
	if err != nil {
		return "", err
	}
	ids := make([]string, len(todos))
	for i, t := range todos {
		ids[i] = t.ID
	}
	return resolveID(prefix, ids)
}

func todoDoneCmd() *cobra.Command {
	var undo bool

	cmd := &cobra.Command{
		Use:   "done [id]",
		Short: "Mark a to-do as done",
		Args:  cobra.ExactArgs(1),
		RunE: withApp(func(ctx context.Context, a *app, args []string) error {
			id, err := resolveTodo(ctx, a, args[0])
			if err != nil {
				return err
			}
			if err := a.store.SetTodoDone(ctx, owner, id, !undo); err != nil {
				return err
			}
			fmt.Printf("Updated %s\n", shortID(id))
			return nil
		}),
	}

	cmd.Flags().BoolVar(&undo, "undo", false, "mark as not done")
	return cmd
}

func todoRmCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "rm [id]",
		Short: "Delete a to-do",
		Args:  cobra.ExactArgs(1),
		RunE: withApp(func(ctx context.Context, a *app, args []string) error {
			id, err := resolveTodo(ctx, a, args[0])
			if err != nil {
				return err
			}
			if err := a.store.DeleteTodo(ctx, owner, id); err != nil {
				return err
			}
			fmt.Printf("Deleted %s\n", shortID(id))
			return nil
		}),
	}
}
