package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"fastlog/internal/bootstrap"
	plugindto "fastlog/internal/modules/plugin/dto"
	"fastlog/internal/platform/config"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		_, _ = fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	var dataPath string
	var profileID string

	root := &cobra.Command{
		Use:           "fastlog",
		Short:         "Intermittent fasting tracker",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().StringVar(&dataPath, "data", ".", "data directory")
	root.PersistentFlags().StringVar(&profileID, "profile", "", "profile id (defaults to the active profile)")

	root.AddCommand(newTUICmd(&dataPath))
	root.AddCommand(newStartCmd(&dataPath, &profileID))
	root.AddCommand(newStopCmd(&dataPath, &profileID))
	root.AddCommand(newStatusCmd(&dataPath, &profileID))
	root.AddCommand(newHistoryCmd(&dataPath, &profileID))
	root.AddCommand(newStatsCmd(&dataPath, &profileID))
	root.AddCommand(newFastCmd(&dataPath, &profileID))
	root.AddCommand(newProfileCmd(&dataPath))
	root.AddCommand(newPhasesCmd(&dataPath))
	root.AddCommand(newExportCmd(&dataPath, &profileID))
	root.AddCommand(newImportCmd(&dataPath, &profileID))
	root.AddCommand(newClearCmd(&dataPath, &profileID))
	root.AddCommand(newReindexCmd(&dataPath, &profileID))
	root.AddCommand(newPluginCmd(&dataPath))
	return root
}

func loadApp(dataPath string) (*bootstrap.App, error) {
	cfg, err := config.New(dataPath)
	if err != nil {
		return nil, err
	}
	return bootstrap.New(cfg)
}

func newTUICmd(dataPath *string) *cobra.Command {
	return &cobra.Command{
		Use:   "tui",
		Short: "Run fastlog terminal UI",
		RunE: func(_ *cobra.Command, _ []string) error {
			app, err := loadApp(*dataPath)
			if err != nil {
				return err
			}
			return bootstrap.RunTUI(*dataPath, app)
		},
	}
}

func newStartCmd(dataPath, profileID *string) *cobra.Command {
	return &cobra.Command{
		Use:   "start",
		Short: "Start a fast",
		RunE: func(cmd *cobra.Command, _ []string) error {
			app, err := loadApp(*dataPath)
			if err != nil {
				return err
			}
			fast, err := app.FastingCLI.Start(context.Background(), *profileID)
			if err != nil {
				return err
			}
			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "fast started: %s at=%s\n", fast.ID, fast.StartedAt.Local().Format(time.RFC3339))
			return nil
		},
	}
}

func newStopCmd(dataPath, profileID *string) *cobra.Command {
	var endAt, notes string
	stop := &cobra.Command{
		Use:   "stop",
		Short: "Stop the in-progress fast",
		RunE: func(cmd *cobra.Command, _ []string) error {
			var endedAt *time.Time
			if strings.TrimSpace(endAt) != "" {
				t, err := parseTime(endAt)
				if err != nil {
					return err
				}
				endedAt = &t
			}
			app, err := loadApp(*dataPath)
			if err != nil {
				return err
			}
			fast, err := app.FastingCLI.Stop(context.Background(), *profileID, endedAt, notes)
			if err != nil {
				return err
			}
			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "fast ended: %s duration=%s\n", fast.ID, formatDuration(fast.Duration))
			return nil
		},
	}
	stop.Flags().StringVar(&endAt, "end", "", "custom end time (RFC3339 or \"2006-01-02 15:04\")")
	stop.Flags().StringVar(&notes, "notes", "", "notes to attach to the fast")
	return stop
}

func newStatusCmd(dataPath, profileID *string) *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Show the in-progress fast and its metabolic phase",
		RunE: func(cmd *cobra.Command, _ []string) error {
			app, err := loadApp(*dataPath)
			if err != nil {
				return err
			}
			status, err := app.PhaseCLI.Status(context.Background(), *profileID)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			_, _ = fmt.Fprintf(out, "fasting for %s (since %s)\n", formatDuration(status.Elapsed), status.StartedAt.Local().Format("2006-01-02 15:04"))
			_, _ = fmt.Fprintf(out, "phase: %s\n", status.Phase.Title)
			_, _ = fmt.Fprintf(out, "%s\n", status.Phase.Message)
			if status.Next != nil {
				until := time.Until(status.Next.At)
				_, _ = fmt.Fprintf(out, "next: %s in %s\n", status.Next.Phase.Title, formatDuration(until))
			}
			return nil
		},
	}
}

func newHistoryCmd(dataPath, profileID *string) *cobra.Command {
	var since, until string
	var asJSON bool
	history := &cobra.Command{
		Use:   "history",
		Short: "List completed fasts, newest first",
		RunE: func(cmd *cobra.Command, _ []string) error {
			var from, to *time.Time
			if strings.TrimSpace(since) != "" {
				t, err := parseTime(since)
				if err != nil {
					return err
				}
				from = &t
			}
			if strings.TrimSpace(until) != "" {
				t, err := parseTime(until)
				if err != nil {
					return err
				}
				to = &t
			}
			app, err := loadApp(*dataPath)
			if err != nil {
				return err
			}
			fasts, err := app.FastingCLI.History(context.Background(), *profileID, from, to)
			if err != nil {
				return err
			}
			if asJSON {
				payload, err := json.MarshalIndent(fasts, "", "  ")
				if err != nil {
					return err
				}
				_, _ = fmt.Fprintln(cmd.OutOrStdout(), string(payload))
				return nil
			}
			if len(fasts) == 0 {
				_, _ = fmt.Fprintln(cmd.OutOrStdout(), "no completed fasts")
				return nil
			}
			for _, fast := range fasts {
				line := fmt.Sprintf("%s\t%s\t%s", fast.ID, fast.StartedAt.Local().Format("2006-01-02 15:04"), formatDuration(fast.Duration))
				if fast.Notes != "" {
					line += "\t" + fast.Notes
				}
				_, _ = fmt.Fprintln(cmd.OutOrStdout(), line)
			}
			return nil
		},
	}
	history.Flags().StringVar(&since, "since", "", "only fasts that started at or after this time")
	history.Flags().StringVar(&until, "until", "", "only fasts that started at or before this time")
	history.Flags().BoolVar(&asJSON, "json", false, "print history as JSON")
	return history
}

func newStatsCmd(dataPath, profileID *string) *cobra.Command {
	return &cobra.Command{
		Use:   "stats",
		Short: "Show aggregate fasting statistics",
		RunE: func(cmd *cobra.Command, _ []string) error {
			app, err := loadApp(*dataPath)
			if err != nil {
				return err
			}
			stats, err := app.FastingCLI.Stats(context.Background(), *profileID)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			_, _ = fmt.Fprintf(out, "total fasts: %d\n", stats.TotalFasts)
			_, _ = fmt.Fprintf(out, "total time: %s\n", formatDuration(stats.TotalFastingTime))
			_, _ = fmt.Fprintf(out, "average: %s\n", formatDuration(stats.AverageFastingTime))
			_, _ = fmt.Fprintf(out, "longest: %s\n", formatDuration(stats.LongestFast))
			return nil
		},
	}
}

func newFastCmd(dataPath, profileID *string) *cobra.Command {
	fast := &cobra.Command{Use: "fast", Short: "Fast record maintenance"}

	var at string
	editStart := &cobra.Command{
		Use:   "edit-start --at <time>",
		Short: "Adjust the start time of the in-progress fast",
		RunE: func(cmd *cobra.Command, _ []string) error {
			if strings.TrimSpace(at) == "" {
				return fmt.Errorf("--at is required")
			}
			startedAt, err := parseTime(at)
			if err != nil {
				return err
			}
			app, err := loadApp(*dataPath)
			if err != nil {
				return err
			}
			updated, err := app.FastingCLI.EditStartTime(context.Background(), *profileID, startedAt)
			if err != nil {
				return err
			}
			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "start time updated: %s now=%s\n", updated.ID, updated.StartedAt.Local().Format(time.RFC3339))
			return nil
		},
	}
	editStart.Flags().StringVar(&at, "at", "", "new start time (RFC3339 or \"2006-01-02 15:04\")")

	deleteCmd := &cobra.Command{
		Use:   "delete <fast-id>",
		Short: "Delete a completed fast",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := loadApp(*dataPath)
			if err != nil {
				return err
			}
			if err := app.FastingCLI.Delete(context.Background(), *profileID, args[0]); err != nil {
				return err
			}
			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "fast deleted: %s\n", args[0])
			return nil
		},
	}

	fast.AddCommand(editStart, deleteCmd)
	return fast
}

func newProfileCmd(dataPath *string) *cobra.Command {
	profile := &cobra.Command{Use: "profile", Short: "Profile management"}

	var email string
	add := &cobra.Command{
		Use:   "add <name>",
		Short: "Add a profile",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := loadApp(*dataPath)
			if err != nil {
				return err
			}
			created, err := app.ProfileCLI.Create(context.Background(), args[0], email)
			if err != nil {
				return err
			}
			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "profile created: %s (%s)\n", created.Name, created.ID)
			return nil
		},
	}
	add.Flags().StringVar(&email, "email", "", "profile email (optional)")

	list := &cobra.Command{
		Use:   "list",
		Short: "List profiles",
		RunE: func(cmd *cobra.Command, _ []string) error {
			app, err := loadApp(*dataPath)
			if err != nil {
				return err
			}
			profiles, err := app.ProfileCLI.List(context.Background())
			if err != nil {
				return err
			}
			for _, p := range profiles {
				marker := " "
				if p.Active {
					marker = "*"
				}
				line := fmt.Sprintf("%s %s\t%s", marker, p.ID, p.Name)
				if p.Email != "" {
					line += "\t" + p.Email
				}
				_, _ = fmt.Fprintln(cmd.OutOrStdout(), line)
			}
			return nil
		},
	}

	use := &cobra.Command{
		Use:   "use <profile-id>",
		Short: "Switch the active profile",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := loadApp(*dataPath)
			if err != nil {
				return err
			}
			if err := app.ProfileCLI.SetActive(context.Background(), args[0]); err != nil {
				return err
			}
			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "active profile: %s\n", args[0])
			return nil
		},
	}

	var newName, newEmail string
	update := &cobra.Command{
		Use:   "update <profile-id>",
		Short: "Update a profile's name or email",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var namePtr, emailPtr *string
			if cmd.Flags().Changed("name") {
				namePtr = &newName
			}
			if cmd.Flags().Changed("email") {
				emailPtr = &newEmail
			}
			if namePtr == nil && emailPtr == nil {
				return fmt.Errorf("nothing to update: pass --name or --email")
			}
			app, err := loadApp(*dataPath)
			if err != nil {
				return err
			}
			updated, err := app.ProfileCLI.Update(context.Background(), args[0], namePtr, emailPtr)
			if err != nil {
				return err
			}
			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "profile updated: %s (%s)\n", updated.Name, updated.ID)
			return nil
		},
	}
	update.Flags().StringVar(&newName, "name", "", "new profile name")
	update.Flags().StringVar(&newEmail, "email", "", "new profile email")

	remove := &cobra.Command{
		Use:   "remove <profile-id>",
		Short: "Remove a profile",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := loadApp(*dataPath)
			if err != nil {
				return err
			}
			if err := app.ProfileCLI.Delete(context.Background(), args[0]); err != nil {
				return err
			}
			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "profile removed: %s\n", args[0])
			return nil
		},
	}

	profile.AddCommand(add, list, use, update, remove)
	return profile
}

func newPhasesCmd(dataPath *string) *cobra.Command {
	phases := &cobra.Command{
		Use:   "phases",
		Short: "List the metabolic phase table",
		RunE: func(cmd *cobra.Command, _ []string) error {
			app, err := loadApp(*dataPath)
			if err != nil {
				return err
			}
			list, err := app.PhaseCLI.List(context.Background())
			if err != nil {
				return err
			}
			for _, phase := range list {
				_, _ = fmt.Fprintf(cmd.OutOrStdout(), "%5.1fh  %s\n       %s\n", phase.Hours, phase.Title, phase.Description)
			}
			return nil
		},
	}

	phases.AddCommand(&cobra.Command{
		Use:   "cite <citation-key>",
		Short: "Resolve a phase citation key to its full reference",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := loadApp(*dataPath)
			if err != nil {
				return err
			}
			reference, err := app.PhaseCLI.Reference(context.Background(), args[0])
			if err != nil {
				return err
			}
			_, _ = fmt.Fprintln(cmd.OutOrStdout(), reference.Reference)
			return nil
		},
	})
	return phases
}

func newExportCmd(dataPath, profileID *string) *cobra.Command {
	var output string
	export := &cobra.Command{
		Use:   "export",
		Short: "Export the profile's fasting log as JSON",
		RunE: func(cmd *cobra.Command, _ []string) error {
			app, err := loadApp(*dataPath)
			if err != nil {
				return err
			}
			payload, err := app.FastingCLI.Export(context.Background(), *profileID)
			if err != nil {
				return err
			}
			if output == "" {
				output = fmt.Sprintf("fastlog-export-%s.json", time.Now().Format("2006-01-02"))
			}
			if output == "-" {
				_, _ = fmt.Fprintln(cmd.OutOrStdout(), string(payload))
				return nil
			}
			if err := os.WriteFile(output, payload, 0o644); err != nil {
				return fmt.Errorf("write export: %w", err)
			}
			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "exported to %s\n", output)
			return nil
		},
	}
	export.Flags().StringVar(&output, "output", "", "output file (default fastlog-export-<date>.json, \"-\" for stdout)")
	return export
}

func newImportCmd(dataPath, profileID *string) *cobra.Command {
	return &cobra.Command{
		Use:   "import <file>",
		Short: "Import a fasting log snapshot, replacing the profile's data",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			payload, err := os.ReadFile(args[0])
			if err != nil {
				return fmt.Errorf("read import file: %w", err)
			}
			app, err := loadApp(*dataPath)
			if err != nil {
				return err
			}
			out, err := app.FastingCLI.Import(context.Background(), *profileID, payload)
			if err != nil {
				return err
			}
			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "imported %d fasts (in progress: %t)\n", out.TotalFasts, out.InProgress)
			return nil
		},
	}
}

func newClearCmd(dataPath, profileID *string) *cobra.Command {
	var yes bool
	clear := &cobra.Command{
		Use:   "clear",
		Short: "Delete all fasting data for the profile",
		RunE: func(cmd *cobra.Command, _ []string) error {
			if !yes {
				return fmt.Errorf("refusing to clear without --yes")
			}
			app, err := loadApp(*dataPath)
			if err != nil {
				return err
			}
			if err := app.FastingCLI.Clear(context.Background(), *profileID); err != nil {
				return err
			}
			_, _ = fmt.Fprintln(cmd.OutOrStdout(), "fasting data cleared")
			return nil
		},
	}
	clear.Flags().BoolVar(&yes, "yes", false, "confirm deletion")
	return clear
}

func newReindexCmd(dataPath, profileID *string) *cobra.Command {
	return &cobra.Command{
		Use:   "reindex",
		Short: "Rebuild the SQLite history index from the JSON log",
		RunE: func(cmd *cobra.Command, _ []string) error {
			app, err := loadApp(*dataPath)
			if err != nil {
				return err
			}
			if err := app.FastingCLI.Reindex(context.Background(), *profileID); err != nil {
				return err
			}
			_, _ = fmt.Fprintln(cmd.OutOrStdout(), "reindex completed")
			return nil
		},
	}
}

func newPluginCmd(dataPath *string) *cobra.Command {
	plugin := &cobra.Command{Use: "plugin", Short: "Plugin operations"}

	plugin.AddCommand(&cobra.Command{
		Use:   "list",
		Short: "List plugin manifests",
		RunE: func(cmd *cobra.Command, _ []string) error {
			app, err := loadApp(*dataPath)
			if err != nil {
				return err
			}
			plugins, err := app.PluginCLI.List(context.Background())
			if err != nil {
				return err
			}
			if len(plugins) == 0 {
				_, _ = fmt.Fprintln(cmd.OutOrStdout(), "no plugins configured")
				return nil
			}
			for _, p := range plugins {
				_, _ = fmt.Fprintf(cmd.OutOrStdout(), "%s@%s enabled=%t binary=%s\n", p.Name, p.Version, p.Enabled, p.Binary)
			}
			return nil
		},
	})

	plugin.AddCommand(&cobra.Command{
		Use:   "doctor",
		Short: "Validate plugin checksums and lifecycle",
		RunE: func(cmd *cobra.Command, _ []string) error {
			app, err := loadApp(*dataPath)
			if err != nil {
				return err
			}
			results, err := app.PluginCLI.Doctor(context.Background())
			if err != nil {
				return err
			}
			if len(results) == 0 {
				_, _ = fmt.Fprintln(cmd.OutOrStdout(), "no plugins configured")
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
		},
	})

	var commandPluginName string
	commandsCmd := &cobra.Command{
		Use:   "commands --plugin <name>",
		Short: "List commands exposed by a plugin",
		RunE: func(cmd *cobra.Command, _ []string) error {
			if strings.TrimSpace(commandPluginName) == "" {
				return fmt.Errorf("--plugin is required")
			}
			app, err := loadApp(*dataPath)
			if err != nil {
				return err
			}
			commands, err := app.PluginCLI.ListCommands(context.Background(), commandPluginName)
			if err != nil {
				return err
			}
			if len(commands) == 0 {
				_, _ = fmt.Fprintln(cmd.OutOrStdout(), "no commands")
				return nil
			}
			for _, item := range commands {
				_, _ = fmt.Fprintf(cmd.OutOrStdout(), "%s kind=%s timeout_ms=%d title=%q\n", item.ID, item.Kind, item.TimeoutMS, item.Title)
			}
			return nil
		},
	}
	commandsCmd.Flags().StringVar(&commandPluginName, "plugin", "", "plugin name")
	plugin.AddCommand(commandsCmd)

	var execPluginName, execCommandID, execInputJSON, execProfileID, execFastID string
	execCmd := &cobra.Command{
		Use:   "exec --plugin <name> --command <id>",
		Short: "Execute a plugin command capability",
		RunE: func(cmd *cobra.Command, _ []string) error {
			if strings.TrimSpace(execPluginName) == "" || strings.TrimSpace(execCommandID) == "" {
				return fmt.Errorf("--plugin and --command are required")
			}
			if err := validateJSONInput(execInputJSON); err != nil {
				return err
			}
			app, err := loadApp(*dataPath)
			if err != nil {
				return err
			}
			out, err := app.PluginCLI.Execute(context.Background(), plugindto.ExecuteInput{
				PluginName: execPluginName,
				CommandID:  execCommandID,
				InputJSON:  execInputJSON,
				ProfileID:  execProfileID,
				FastID:     execFastID,
				DataPath:   *dataPath,
				Cwd:        *dataPath,
			})
			if err != nil {
				return err
			}
			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "plugin=%s command=%s exit=%d\n", out.PluginName, out.CommandID, out.ExitCode)
			if strings.TrimSpace(out.Stdout) != "" {
				_, _ = fmt.Fprintln(cmd.OutOrStdout(), out.Stdout)
			}
			if strings.TrimSpace(out.Stderr) != "" {
				_, _ = fmt.Fprintln(cmd.ErrOrStderr(), out.Stderr)
			}
			if strings.TrimSpace(out.OutputJSON) != "" {
				_, _ = fmt.Fprintln(cmd.OutOrStdout(), out.OutputJSON)
			}
			return nil
		},
	}
	execCmd.Flags().StringVar(&execPluginName, "plugin", "", "plugin name")
	execCmd.Flags().StringVar(&execCommandID, "command", "", "command id")
	execCmd.Flags().StringVar(&execInputJSON, "input-json", "", "JSON input payload")
	execCmd.Flags().StringVar(&execProfileID, "profile-id", "", "optional profile id")
	execCmd.Flags().StringVar(&execFastID, "fast-id", "", "optional fast id")
	plugin.AddCommand(execCmd)

	return plugin
}

func validateJSONInput(payload string) error {
	if strings.TrimSpace(payload) == "" {
		return nil
	}
	if !json.Valid([]byte(payload)) {
		return fmt.Errorf("--input-json must be valid JSON")
	}
	return nil
}

// parseTime accepts RFC3339 or a local "2006-01-02 15:04" timestamp.
func parseTime(value string) (time.Time, error) {
	value = strings.TrimSpace(value)
	if t, err := time.Parse(time.RFC3339, value); err == nil {
		return t, nil
	}
	for _, layout := range []string{"2006-01-02 15:04:05", "2006-01-02 15:04", "2006-01-02T15:04"} {
		if t, err := time.ParseInLocation(layout, value, time.Local); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("cannot parse time %q", value)
}

func formatDuration(d time.Duration) string {
	if d < 0 {
		d = 0
	}
	d = d.Round(time.Second)
	hours := int(d / time.Hour)
	minutes := int(d % time.Hour / time.Minute)
	seconds := int(d % time.Minute / time.Second)
	if hours > 0 {
		return fmt.Sprintf("%dh %02dm %02ds", hours, minutes, seconds)
	}
	return fmt.Sprintf("%dm %02ds", minutes, seconds)
}
