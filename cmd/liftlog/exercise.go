package main

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/verte-zerg/liftlog/internal/editor"
	"github.com/verte-zerg/liftlog/internal/exerciselist"
	"github.com/verte-zerg/liftlog/internal/stats"
)

var exerciseRmYes bool

func newExerciseCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "exercise",
		Short: "Manage the exercise registry",
	}

	add := &cobra.Command{
		Use:   "add <name>",
		Short: "Register an exercise",
		Args:  cobra.MinimumNArgs(1),
		RunE:  runExerciseAddCmd,
	}
	rename := &cobra.Command{
		Use:   "rename <id-or-name> <new-name>",
		Short: "Rename an exercise",
		Args:  cobra.MinimumNArgs(2),
		RunE:  runExerciseRenameCmd,
	}
	rm := &cobra.Command{
		Use:   "rm <id-or-name>",
		Short: "Delete an exercise (logged sets are kept)",
		Args:  cobra.ExactArgs(1),
		RunE:  runExerciseRmCmd,
	}
	rm.Flags().BoolVarP(&exerciseRmYes, "yes", "y", false, "do not ask for confirmation")
	ls := &cobra.Command{
		Use:   "ls",
		Short: "List exercises",
		Args:  cobra.NoArgs,
		RunE:  runExerciseLsCmd,
	}

	importCmd := &cobra.Command{
		Use:   "import <file>",
		Short: "Register exercises from a file with one name per line",
		Args:  cobra.ExactArgs(1),
		RunE:  runExerciseImportCmd,
	}

	cmd.AddCommand(add, rename, rm, ls, importCmd)
	return cmd
}

func runExerciseAddCmd(cmd *cobra.Command, args []string) error {
	a, err := openApp(cmd)
	if err != nil {
		return err
	}
	defer a.close()

	ex, err := a.ed.AddExercise(cmd.Context(), strings.Join(args, " "))
	if err != nil {
		return err
	}
	return printf(cmd, "Added exercise %s (%s)\n", ex.Name, ex.ID)
}

func runExerciseRenameCmd(cmd *cobra.Command, args []string) error {
	a, err := openApp(cmd)
	if err != nil {
		return err
	}
	defer a.close()

	ex, err := a.ed.ResolveExercise(cmd.Context(), args[0])
	if err != nil {
		return err
	}
	renamed, err := a.ed.RenameExercise(cmd.Context(), ex.ID, strings.Join(args[1:], " "))
	if err != nil {
		return err
	}
	return printf(cmd, "Renamed %s to %s\n", ex.Name, renamed.Name)
}

func runExerciseRmCmd(cmd *cobra.Command, args []string) error {
	a, err := openApp(cmd)
	if err != nil {
		return err
	}
	defer a.close()

	ctx := cmd.Context()
	ex, err := a.ed.ResolveExercise(ctx, args[0])
	if err != nil {
		return err
	}
	usage, err := a.ed.ExerciseUsage(ctx, ex.ID)
	if err != nil {
		return err
	}
	question := "Delete exercise " + strconv.Quote(ex.Name) + "?"
	if usage > 0 {
		question += " " + strconv.Itoa(usage) + " logged sets will no longer count toward weekly stats."
	}
	ok, err := confirm(cmd, exerciseRmYes, "%s", question)
	if err != nil {
		return err
	}
	if !ok {
		return printf(cmd, "Aborted.\n")
	}
	if err := a.ed.DeleteExercise(ctx, ex.ID); err != nil {
		return err
	}
	return printf(cmd, "Deleted exercise %s\n", ex.Name)
}

func runExerciseLsCmd(cmd *cobra.Command, _ []string) error {
	a, err := openApp(cmd)
	if err != nil {
		return err
	}
	defer a.close()

	ctx := cmd.Context()
	exercises, err := a.ed.ListExercises(ctx)
	if err != nil {
		return err
	}
	if len(exercises) == 0 {
		return printf(cmd, "No exercises yet. Add one with: liftlog exercise add <name>\n")
	}
	rows := make([][]string, 0, len(exercises))
	for _, ex := range exercises {
		usage, err := a.ed.ExerciseUsage(ctx, ex.ID)
		if err != nil {
			return err
		}
		rows = append(rows, []string{ex.ID, ex.Name, strconv.Itoa(usage)})
	}
	return stats.WriteTable(cmd.OutOrStdout(), []string{"ID", "Name", "Sets"}, rows, map[int]bool{2: true})
}

func runExerciseImportCmd(cmd *cobra.Command, args []string) error {
	names, err := exerciselist.LoadNames(args[0])
	if err != nil {
		return fmt.Errorf("failed to load exercise list: %w", err)
	}
	a, err := openApp(cmd)
	if err != nil {
		return err
	}
	defer a.close()

	added := 0
	for _, name := range names {
		if _, err := a.ed.AddExercise(cmd.Context(), name); err != nil {
			if errors.Is(err, editor.ErrInvalidInput) {
				a.log.WithField("name", name).Info("exercise already registered, skipping")
				continue
			}
			return err
		}
		added++
	}
	return printf(cmd, "Imported %d of %d exercises\n", added, len(names))
}
