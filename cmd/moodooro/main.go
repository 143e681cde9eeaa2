package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"moodooro/internal/bootstrap"
	moodinadapter "moodooro/internal/modules/mood/adapter/in"
	mooddto "moodooro/internal/modules/mood/dto"
	sessiondto "moodooro/internal/modules/session/dto"
	"moodooro/internal/platform/config"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err := newRootCmd().ExecuteContext(ctx)
	stop()
	if err != nil {
		_, _ = fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

type rootFlags struct {
	dataDir    string
	configFile string
	logLevel   string
}

func newRootCmd() *cobra.Command {
	flags := &rootFlags{}

	root := &cobra.Command{
		Use:           "moodooro",
		Short:         "Pomodoro study timer with mood tracking",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().StringVar(&flags.dataDir, "data-dir", "", "data directory (default ~/.moodooro)")
	root.PersistentFlags().StringVar(&flags.configFile, "config", "", "config file (default <data-dir>/config.yaml)")
	root.PersistentFlags().StringVar(&flags.logLevel, "log-level", "info", "log level: debug|info|warn|error")

	root.AddCommand(newTUICmd(flags))
	root.AddCommand(newSessionCmd(flags))
	root.AddCommand(newMoodCmd(flags))
	root.AddCommand(newStatsCmd(flags))
	root.AddCommand(newExportCmd(flags))
	root.AddCommand(newServeCmd(flags))
	root.AddCommand(newCueCmd(flags))
	return root
}

// withApp builds the application for cmd, runs fn and closes the app. A
// debug log level also logs to stderr unless the command owns the terminal.
func withApp(cmd *cobra.Command, flags *rootFlags, ownsTerminal bool, fn func(*bootstrap.App) error) error {
	cfg, err := config.Load(config.LoadOptions{
		DataDir:    flags.dataDir,
		ConfigFile: flags.configFile,
		Flags:      cmd.Flags(),
	})
	if err != nil {
		return err
	}
	app, err := bootstrap.New(cmd.Context(), cfg, bootstrap.Options{
		Console: !ownsTerminal && cfg.LogLevel == "debug",
	})
	if err != nil {
		return err
	}
	return errors.Join(fn(app), app.Close())
}

func newTUICmd(flags *rootFlags) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "tui",
		Short: "Run the timer terminal UI",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withApp(cmd, flags, true, func(app *bootstrap.App) error {
				return bootstrap.RunTUI(cmd.Context(), app)
			})
		},
	}
	cmd.Flags().Int("focus-minutes", 25, "focus length in minutes (0 runs a 5 second demo)")
	cmd.Flags().Int("break-minutes", 5, "break length in minutes")
	cmd.Flags().String("subject", "", "subject recorded with each session")
	cmd.Flags().Bool("bell", true, "ring the terminal bell when a countdown ends")
	return cmd
}

func newSessionCmd(flags *rootFlags) *cobra.Command {
	session := &cobra.Command{Use: "session", Short: "Inspect and edit study sessions"}

	var limit, days int
	list := &cobra.Command{
		Use:   "list",
		Short: "List sessions, newest first",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withApp(cmd, flags, false, func(app *bootstrap.App) error {
				sessions, err := app.SessionCLI.List(cmd.Context(), app.Now(), limit, days)
				if err != nil {
					return err
				}
				if len(sessions) == 0 {
					_, _ = fmt.Fprintln(cmd.OutOrStdout(), "no sessions")
					return nil
				}
				for _, s := range sessions {
					printSession(cmd, s)
				}
				return nil
			})
		},
	}
	list.Flags().IntVar(&limit, "limit", 20, "maximum sessions to show (0 for all)")
	list.Flags().IntVar(&days, "days", 0, "only sessions that ended in the last N days")

	show := &cobra.Command{
		Use:   "show <id>",
		Short: "Show one session",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			return withApp(cmd, flags, false, func(app *bootstrap.App) error {
				s, err := app.SessionCLI.Show(cmd.Context(), id)
				if err != nil {
					return err
				}
				w := cmd.OutOrStdout()
				_, _ = fmt.Fprintf(w, "id: %d\nsubject: %s\noutcome: %s\nmood: %s\n", s.ID, s.Subject, s.Outcome, orDash(s.Mood))
				_, _ = fmt.Fprintf(w, "started: %s\nended: %s\n", s.StartedAt.Local().Format(time.DateTime), s.EndedAt.Local().Format(time.DateTime))
				_, _ = fmt.Fprintf(w, "focus: %s\nactual: %s\nbreak: %s\n", s.FocusDuration, s.ActualDuration, s.BreakDuration)
				return nil
			})
		},
	}

	mood := &cobra.Command{
		Use:   "mood <id> <label>",
		Short: "Set the mood of a session",
		Args:  cobra.MinimumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			label := strings.Join(args[1:], " ")
			return withApp(cmd, flags, false, func(app *bootstrap.App) error {
				if err := app.SessionCLI.SetMood(cmd.Context(), id, label); err != nil {
					return err
				}
				_, _ = fmt.Fprintf(cmd.OutOrStdout(), "session %d mood=%q\n", id, label)
				return nil
			})
		},
	}

	var yes bool
	clearCmd := &cobra.Command{
		Use:   "clear --yes",
		Short: "Delete every session; linked moods are kept",
		RunE: func(cmd *cobra.Command, _ []string) error {
			if !yes {
				return fmt.Errorf("refusing to delete all sessions without --yes")
			}
			return withApp(cmd, flags, false, func(app *bootstrap.App) error {
				n, err := app.SessionCLI.Clear(cmd.Context())
				if err != nil {
					return err
				}
				_, _ = fmt.Fprintf(cmd.OutOrStdout(), "deleted %d sessions\n", n)
				return nil
			})
		},
	}
	clearCmd.Flags().BoolVar(&yes, "yes", false, "confirm deletion")

	session.AddCommand(list, show, mood, clearCmd)
	return session
}

func newMoodCmd(flags *rootFlags) *cobra.Command {
	mood := &cobra.Command{Use: "mood", Short: "Record and inspect mood entries"}

	var addSession int64
	var addNote string
	add := &cobra.Command{
		Use:   "add <label>",
		Short: "Record a mood, optionally linked to a session",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(cmd, flags, false, func(app *bootstrap.App) error {
				out, err := app.MoodCLI.Add(cmd.Context(), strings.Join(args, " "), addSession, addNote)
				if err != nil {
					return err
				}
				_, _ = fmt.Fprintf(cmd.OutOrStdout(), "mood recorded: %d\n", out.ID)
				return nil
			})
		},
	}
	add.Flags().Int64Var(&addSession, "session", 0, "session id to link")
	add.Flags().StringVar(&addNote, "note", "", "free-form note")

	var query moodinadapter.ListQuery
	list := &cobra.Command{
		Use:   "list",
		Short: "List mood entries, newest first",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withApp(cmd, flags, false, func(app *bootstrap.App) error {
				entries, err := app.MoodCLI.List(cmd.Context(), app.Now(), query)
				if err != nil {
					return err
				}
				if len(entries) == 0 {
					_, _ = fmt.Fprintln(cmd.OutOrStdout(), "no moods")
					return nil
				}
				for _, e := range entries {
					printMood(cmd, e)
				}
				return nil
			})
		},
	}
	list.Flags().Int64Var(&query.SessionID, "session", 0, "only moods linked to this session")
	list.Flags().IntVar(&query.Days, "days", 0, "only moods from the last N days")
	list.Flags().StringVar(&query.Outcome, "outcome", "", "only moods of sessions with this outcome (Focused|Distracted)")

	var editValue, editNote string
	edit := &cobra.Command{
		Use:   "edit <id>",
		Short: "Change the value or note of a mood entry",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			var value, note *string
			if cmd.Flags().Changed("value") {
				value = &editValue
			}
			if cmd.Flags().Changed("note") {
				note = &editNote
			}
			if value == nil && note == nil {
				return fmt.Errorf("nothing to change: pass --value or --note")
			}
			return withApp(cmd, flags, false, func(app *bootstrap.App) error {
				out, err := app.MoodCLI.Edit(cmd.Context(), id, value, note)
				if err != nil {
					return err
				}
				printMood(cmd, out)
				return nil
			})
		},
	}
	edit.Flags().StringVar(&editValue, "value", "", "new mood label")
	edit.Flags().StringVar(&editNote, "note", "", "new note (empty clears it)")

	del := &cobra.Command{
		Use:   "delete <id>",
		Short: "Delete a mood entry",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			return withApp(cmd, flags, false, func(app *bootstrap.App) error {
				if err := app.MoodCLI.Delete(cmd.Context(), id); err != nil {
					return err
				}
				_, _ = fmt.Fprintf(cmd.OutOrStdout(), "deleted mood %d\n", id)
				return nil
			})
		},
	}

	var yes bool
	clearCmd := &cobra.Command{
		Use:   "clear --yes",
		Short: "Delete every mood entry",
		RunE: func(cmd *cobra.Command, _ []string) error {
			if !yes {
				return fmt.Errorf("refusing to delete all moods without --yes")
			}
			return withApp(cmd, flags, false, func(app *bootstrap.App) error {
				n, err := app.MoodCLI.Clear(cmd.Context())
				if err != nil {
					return err
				}
				_, _ = fmt.Fprintf(cmd.OutOrStdout(), "deleted %d moods\n", n)
				return nil
			})
		},
	}
	clearCmd.Flags().BoolVar(&yes, "yes", false, "confirm deletion")

	mood.AddCommand(add, list, edit, del, clearCmd)
	return mood
}

func newStatsCmd(flags *rootFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "stats",
		Short: "Show weekly insights",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withApp(cmd, flags, false, func(app *bootstrap.App) error {
				stats, err := app.InsightCLI.Weekly(cmd.Context())
				if err != nil {
					return err
				}
				dash, err := app.InsightCLI.Dashboard(cmd.Context())
				if err != nil {
					return err
				}
				printStats(cmd.OutOrStdout(), stats, dash.TodayMinutes)
				return nil
			})
		},
	}
}

func newExportCmd(flags *rootFlags) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "export",
		Short: "Write sessions as markdown notes with a weekly summary",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withApp(cmd, flags, false, func(app *bootstrap.App) error {
				out, err := app.SessionCLI.Export(cmd.Context(), app.Config.JournalDir)
				if err != nil {
					return err
				}
				_, _ = fmt.Fprintf(cmd.OutOrStdout(), "exported %d notes to %s\nsummary: %s\n", len(out.Notes), out.Dir, out.SummaryPath)
				return nil
			})
		},
	}
	cmd.Flags().String("out", "", "journal directory (default <data-dir>/journal)")
	return cmd
}

func newServeCmd(flags *rootFlags) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the local read-only dashboard",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withApp(cmd, flags, false, func(app *bootstrap.App) error {
				_, _ = fmt.Fprintf(cmd.OutOrStdout(), "dashboard on http://%s\n", app.Config.Server.Addr)
				return bootstrap.Serve(cmd.Context(), app, app.Config.Server.Addr)
			})
		},
	}
	cmd.Flags().String("addr", "127.0.0.1:7425", "listen address")
	return cmd
}

func newCueCmd(flags *rootFlags) *cobra.Command {
	cue := &cobra.Command{Use: "cue", Short: "Completion cue plugins"}
	cue.AddCommand(&cobra.Command{
		Use:   "list",
		Short: "List cue plugin manifests",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withApp(cmd, flags, false, func(app *bootstrap.App) error {
				plugins, err := app.CueCLI.List(cmd.Context())
				if err != nil {
					return err
				}
				if len(plugins) == 0 {
					_, _ = fmt.Fprintln(cmd.OutOrStdout(), "no cue plugins configured")
					return nil
				}
				for _, p := range plugins {
					_, _ = fmt.Fprintf(cmd.OutOrStdout(), "%s@%s enabled=%t events=%s binary=%s\n", p.Name, p.Version, p.Enabled, strings.Join(p.Events, ","), p.Binary)
				}
				return nil
			})
		},
	})
	cue.AddCommand(&cobra.Command{
		Use:   "doctor",
		Short: "Validate cue plugin checksums and lifecycle",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withApp(cmd, flags, false, func(app *bootstrap.App) error {
				results, err := app.CueCLI.Doctor(cmd.Context())
				if err != nil {
					return err
				}
				if len(results) == 0 {
					_, _ = fmt.Fprintln(cmd.OutOrStdout(), "no cue plugins configured")
					return nil
				}
				for _, r := range results {
					_, _ = fmt.Fprintf(cmd.OutOrStdout(), "%s checksum=%t binary=%t lifecycle=%t", r.Name, r.ChecksumValid, r.BinaryReachable, r.LifecycleOK)
					if r.Error != "" {
						_, _ = fmt.Fprintf(cmd.OutOrStdout(), " error=%q", r.Error)
					}
					_, _ = fmt.Fprintln(cmd.OutOrStdout())
				}
				return nil
			})
		},
	})
	return cue
}

func parseID(raw string) (int64, error) {
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("invalid id %q", raw)
	}
	return id, nil
}

func printSession(cmd *cobra.Command, s sessiondto.SessionOutput) {
	_, _ = fmt.Fprintf(cmd.OutOrStdout(), "%d\t%s\t%s\t%dm\t%s\t%s\n",
		s.ID, s.EndedAt.Local().Format("2006-01-02 15:04"), s.Outcome,
		int(s.ActualDuration/time.Minute), orDash(s.Mood), s.Subject)
}

func printMood(cmd *cobra.Command, e mooddto.EntryOutput) {
	session := "-"
	if e.SessionID > 0 {
		session = strconv.FormatInt(e.SessionID, 10)
	}
	_, _ = fmt.Fprintf(cmd.OutOrStdout(), "%d\t%s\t%s\tsession=%s", e.ID, e.At.Local().Format("2006-01-02 15:04"), e.Value, session)
	if e.Note != "" {
		_, _ = fmt.Fprintf(cmd.OutOrStdout(), "\tnote=%q", e.Note)
	}
	_, _ = fmt.Fprintln(cmd.OutOrStdout())
}

func orDash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}
