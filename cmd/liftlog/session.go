package main

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/verte-zerg/liftlog/internal/editor"
	"github.com/verte-zerg/liftlog/internal/model"
	"github.com/verte-zerg/liftlog/internal/stats"
	"github.com/verte-zerg/liftlog/internal/store"
)

var (
	logExercise string
	logWeight   float64
	logReps     int
	logFailure  bool

	setDate     string
	setExercise string
	setWeight   float64
	setReps     int
	setFailure  bool
	setRmYes    bool

	sessionDate  string
	sessionRmYes bool
)

func newLogCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "log",
		Short: "Log a set into the day's session",
		Args:  cobra.NoArgs,
		RunE:  runLogCmd,
	}
	cmd.Flags().StringVarP(&logExercise, "exercise", "e", "", "exercise id or name")
	cmd.Flags().Float64VarP(&logWeight, "weight", "w", 0, "weight per rep")
	cmd.Flags().IntVarP(&logReps, "reps", "r", 0, "repetitions")
	cmd.Flags().BoolVarP(&logFailure, "failure", "f", false, "set was taken near failure")
	cmd.Flags().StringVar(&logDate, "date", "", "session day (YYYY-MM-DD, default today)")
	_ = cmd.MarkFlagRequired("exercise")
	_ = cmd.MarkFlagRequired("reps")
	return cmd
}

func runLogCmd(cmd *cobra.Command, _ []string) error {
	a, err := openApp(cmd)
	if err != nil {
		return err
	}
	defer a.close()

	date, err := parseDate(logDate)
	if err != nil {
		return err
	}
	ctx := cmd.Context()
	session, _, err := a.ed.OpenDay(ctx, date)
	if err != nil {
		return err
	}
	set, err := a.ed.AddSet(ctx, &session, model.WorkoutSet{
		ExerciseID:    logExercise,
		Weight:        logWeight,
		Reps:          logReps,
		IsNearFailure: logFailure,
	})
	if err != nil {
		return err
	}
	ex, err := a.ed.ResolveExercise(ctx, set.ExerciseID)
	if err != nil {
		return err
	}
	if err := printf(cmd, "Logged %s %s x %d on %s (set %s)\n",
		ex.Name, stats.FormatNumber(set.Weight), set.Reps, session.Date.Format(dateLayout), set.ID); err != nil {
		return err
	}

	report, err := stats.LoadReport(ctx, a.repo, session, a.cfg)
	if err != nil {
		return err
	}
	for _, row := range report.Rows {
		if row.Stat.ExerciseID != ex.ID {
			continue
		}
		line := fmt.Sprintf("This week: %s volume", stats.FormatNumber(row.Stat.TotalVolume))
		if change := row.Volume.Change(); change != "" {
			line += fmt.Sprintf(" (%s vs avg of last %d weeks)", change, report.WeeksBack)
		}
		return printf(cmd, "%s\n", line)
	}
	return nil
}

func newSetCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "set",
		Short: "Edit logged sets",
	}

	edit := &cobra.Command{
		Use:   "edit <set-id>",
		Short: "Change a set of the day's session",
		Args:  cobra.ExactArgs(1),
		RunE:  runSetEditCmd,
	}
	edit.Flags().StringVar(&setDate, "date", "", "session day (YYYY-MM-DD, default today)")
	edit.Flags().StringVarP(&setExercise, "exercise", "e", "", "exercise id or name")
	edit.Flags().Float64VarP(&setWeight, "weight", "w", 0, "weight per rep")
	edit.Flags().IntVarP(&setReps, "reps", "r", 0, "repetitions")
	edit.Flags().BoolVarP(&setFailure, "failure", "f", false, "set was taken near failure")

	rm := &cobra.Command{
		Use:   "rm <set-id>",
		Short: "Delete a set of the day's session",
		Args:  cobra.ExactArgs(1),
		RunE:  runSetRmCmd,
	}
	rm.Flags().StringVar(&setDate, "date", "", "session day (YYYY-MM-DD, default today)")
	rm.Flags().BoolVarP(&setRmYes, "yes", "y", false, "do not ask for confirmation")

	cmd.AddCommand(edit, rm)
	return cmd
}

// openPersistedDay returns the stored session for the --date day.
func openPersistedDay(cmd *cobra.Command, a *app, value string) (model.WorkoutSession, error) {
	date, err := parseDate(value)
	if err != nil {
		return model.WorkoutSession{}, err
	}
	session, resumed, err := a.ed.OpenDay(cmd.Context(), date)
	if err != nil {
		return model.WorkoutSession{}, err
	}
	if !resumed {
		return model.WorkoutSession{}, fmt.Errorf("no session on %s: %w", session.Date.Format(dateLayout), editor.ErrSessionNotFound)
	}
	return session, nil
}

func findSet(session model.WorkoutSession, id string) (model.WorkoutSet, error) {
	for _, set := range session.Sets {
		if set.ID == id {
			return set, nil
		}
	}
	return model.WorkoutSet{}, fmt.Errorf("set %s on %s: %w", id, session.Date.Format(dateLayout), editor.ErrSetNotFound)
}

func runSetEditCmd(cmd *cobra.Command, args []string) error {
	a, err := openApp(cmd)
	if err != nil {
		return err
	}
	defer a.close()

	ctx := cmd.Context()
	session, err := openPersistedDay(cmd, a, setDate)
	if err != nil {
		return err
	}
	set, err := findSet(session, args[0])
	if err != nil {
		return err
	}
	flags := cmd.Flags()
	if flags.Changed("exercise") {
		ex, err := a.ed.ResolveExercise(ctx, setExercise)
		if err != nil {
			return err
		}
		set.ExerciseID = ex.ID
	}
	if flags.Changed("weight") {
		set.Weight = setWeight
	}
	if flags.Changed("reps") {
		set.Reps = setReps
	}
	if flags.Changed("failure") {
		set.IsNearFailure = setFailure
	}
	if err := a.ed.UpdateSet(ctx, &session, set); err != nil {
		return err
	}
	note := ""
	if set.IsNearFailure {
		note = " near failure"
	}
	return printf(cmd, "Updated set %s: %s x %d%s\n", set.ID, stats.FormatNumber(set.Weight), set.Reps, note)
}

func runSetRmCmd(cmd *cobra.Command, args []string) error {
	a, err := openApp(cmd)
	if err != nil {
		return err
	}
	defer a.close()

	session, err := openPersistedDay(cmd, a, setDate)
	if err != nil {
		return err
	}
	set, err := findSet(session, args[0])
	if err != nil {
		return err
	}
	ok, err := confirm(cmd, setRmYes, "Delete set %s x %d on %s?",
		stats.FormatNumber(set.Weight), set.Reps, session.Date.Format(dateLayout))
	if err != nil {
		return err
	}
	if !ok {
		return printf(cmd, "Aborted.\n")
	}
	if err := a.ed.DeleteSet(cmd.Context(), &session, set.ID); err != nil {
		return err
	}
	return printf(cmd, "Deleted set %s\n", set.ID)
}

func newSessionCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "session",
		Short: "Show and manage workout sessions",
	}

	show := &cobra.Command{
		Use:   "show",
		Short: "Show the sets of a day",
		Args:  cobra.NoArgs,
		RunE:  runSessionShowCmd,
	}
	show.Flags().StringVar(&sessionDate, "date", "", "session day (YYYY-MM-DD, default today)")

	ls := &cobra.Command{
		Use:   "ls",
		Short: "List sessions, newest first",
		Args:  cobra.NoArgs,
		RunE:  runSessionLsCmd,
	}

	rm := &cobra.Command{
		Use:   "rm <session-id>",
		Short: "Delete a session and all of its sets",
		Args:  cobra.ExactArgs(1),
		RunE:  runSessionRmCmd,
	}
	rm.Flags().BoolVarP(&sessionRmYes, "yes", "y", false, "do not ask for confirmation")

	cmd.AddCommand(show, ls, rm)
	return cmd
}

func runSessionShowCmd(cmd *cobra.Command, _ []string) error {
	a, err := openApp(cmd)
	if err != nil {
		return err
	}
	defer a.close()

	date, err := parseDate(sessionDate)
	if err != nil {
		return err
	}
	ctx := cmd.Context()
	session, resumed, err := a.ed.OpenDay(ctx, date)
	if err != nil {
		return err
	}
	if !resumed || len(session.Sets) == 0 {
		return printf(cmd, "No sets logged on %s.\n", session.Date.Format(dateLayout))
	}
	exercises, err := a.ed.ListExercises(ctx)
	if err != nil {
		return err
	}
	names := make(map[string]string, len(exercises))
	for _, ex := range exercises {
		names[ex.ID] = ex.Name
	}

	if err := printf(cmd, "Session %s on %s\n", session.ID, session.Date.Format(dateLayout)); err != nil {
		return err
	}
	rows := make([][]string, 0, len(session.Sets))
	var volume float64
	for _, set := range session.Sets {
		name, ok := names[set.ExerciseID]
		if !ok {
			name = "(deleted exercise)"
		}
		volume += set.Volume()
		rows = append(rows, []string{
			set.ID,
			name,
			stats.FormatNumber(set.Weight),
			strconv.Itoa(set.Reps),
			stats.FormatNumber(set.Volume()),
			failureMark(set),
		})
	}
	headers := []string{"ID", "Exercise", "Weight", "Reps", "Volume", "Failure"}
	if err := stats.WriteTable(cmd.OutOrStdout(), headers, rows, map[int]bool{2: true, 3: true, 4: true}); err != nil {
		return err
	}
	return printf(cmd, "Total: %d sets, %s volume\n", len(session.Sets), stats.FormatNumber(volume))
}

func runSessionLsCmd(cmd *cobra.Command, _ []string) error {
	a, err := openApp(cmd)
	if err != nil {
		return err
	}
	defer a.close()

	ctx := cmd.Context()
	sessions, err := a.ed.ListSessions(ctx)
	if err != nil {
		return err
	}
	if len(sessions) == 0 {
		return printf(cmd, "No sessions yet.\n")
	}
	rows := make([][]string, 0, len(sessions))
	for _, s := range sessions {
		var volume float64
		failures := 0
		for _, set := range s.Sets {
			volume += set.Volume()
			if set.IsNearFailure {
				failures++
			}
		}
		rows = append(rows, []string{
			s.ID,
			s.Date.Format(dateLayout + " Mon"),
			strconv.Itoa(len(s.Sets)),
			strconv.Itoa(failures),
			stats.FormatNumber(volume),
		})
	}
	headers := []string{"ID", "Date", "Sets", "Failure", "Volume"}
	if err := stats.WriteTable(cmd.OutOrStdout(), headers, rows, map[int]bool{2: true, 3: true, 4: true}); err != nil {
		return err
	}
	saved, ok, err := a.st.UpdatedAt(ctx, store.SessionsKey)
	if err != nil {
		a.log.WithError(err).Warn("failed to read last save time")
		return nil
	}
	if ok {
		return printf(cmd, "Last saved %s\n", saved.Local().Format("2006-01-02 15:04"))
	}
	return nil
}

func runSessionRmCmd(cmd *cobra.Command, args []string) error {
	a, err := openApp(cmd)
	if err != nil {
		return err
	}
	defer a.close()

	ctx := cmd.Context()
	session, err := a.ed.FindSession(ctx, args[0])
	if err != nil {
		return err
	}
	ok, err := confirm(cmd, sessionRmYes, "Delete the session on %s with %d sets?",
		session.Date.Format(dateLayout), len(session.Sets))
	if err != nil {
		return err
	}
	if !ok {
		return printf(cmd, "Aborted.\n")
	}
	if err := a.ed.DeleteSession(ctx, session.ID); err != nil {
		return err
	}
	return printf(cmd, "Deleted session %s\n", session.ID)
}

func failureMark(set model.WorkoutSet) string {
	if set.IsNearFailure {
		return "yes"
	}
	return ""
}
