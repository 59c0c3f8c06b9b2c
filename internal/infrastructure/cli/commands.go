package cli

import (
	"fmt"
	"io"
	"runtime"
	"strings"

	"github.com/spf13/cobra"

	"github.com/ricardoamaro/ai-shell-assistant/internal/domain"
	"github.com/ricardoamaro/ai-shell-assistant/internal/infrastructure/config"
	"github.com/ricardoamaro/ai-shell-assistant/internal/infrastructure/history"
	"github.com/ricardoamaro/ai-shell-assistant/internal/services"
	"github.com/ricardoamaro/ai-shell-assistant/internal/version"
)

// Subcommands build their own lightweight dependencies instead of the
// full session container: none of them needs a model gateway, and
// history/doctor must work even when no credential is set.

func newHistoryCommand() *cobra.Command {
	historyCmd := &cobra.Command{
		Use:   "history",
		Short: "Inspect the instruction audit trail",
	}

	var listLimit int
	listCmd := &cobra.Command{
		Use:   "list",
		Short: "List recent interactions",
		RunE: func(cmd *cobra.Command, args []string) error {
			store := history.NewSQLiteStore("")
			defer store.Close()
			records, err := store.Records(listLimit, "")
			if err != nil {
				return err
			}
			writeRecords(cmd.OutOrStdout(), records)
			return nil
		},
	}
	listCmd.Flags().IntVar(&listLimit, "limit", domain.DefaultHistoryLimit, "Max entries to show")

	var searchLimit int
	searchCmd := &cobra.Command{
		Use:   "search <keyword>",
		Short: "Search interactions by instruction or command",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			store := history.NewSQLiteStore("")
			defer store.Close()
			records, err := store.Records(searchLimit, args[0])
			if err != nil {
				return err
			}
			writeRecords(cmd.OutOrStdout(), records)
			return nil
		},
	}
	searchCmd.Flags().IntVar(&searchLimit, "limit", domain.DefaultHistorySearchLimit, "Max entries to show")

	clearCmd := &cobra.Command{
		Use:   "clear",
		Short: "Delete all recorded interactions",
		RunE: func(cmd *cobra.Command, args []string) error {
			store := history.NewSQLiteStore("")
			defer store.Close()
			if err := store.Clear(); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "History cleared.")
			return nil
		},
	}

	historyCmd.AddCommand(listCmd, searchCmd, clearCmd)
	return historyCmd
}

func writeRecords(out io.Writer, records []domain.HistoryRecord) {
	if len(records) == 0 {
		fmt.Fprintln(out, "No interactions recorded yet.")
		return
	}
	for _, rec := range records {
		fmt.Fprintf(out, "%s  [%s]  %s\n",
			rec.Timestamp.Format("2006-01-02 15:04"),
			rec.Intent,
			rec.Instruction)
		if rec.Command != "" {
			fmt.Fprintf(out, "    $ %s  (exit %d)\n", rec.Command, rec.ExitCode)
		}
	}
}

func newDoctorCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "doctor",
		Short: "Diagnose the environment setup",
		RunE: func(cmd *cobra.Command, args []string) error {
			store := history.NewSQLiteStore("")
			defer store.Close()

			svc := &services.DoctorService{
				ConfigProvider: config.NewFileLoader(""),
				History:        store,
			}
			report, err := svc.Run(cmd.Context())
			if err != nil {
				return err
			}
			writeDoctorReport(cmd.OutOrStdout(), report)
			if !report.Healthy() {
				return fmt.Errorf("environment not ready")
			}
			return nil
		},
	}
}

func writeDoctorReport(out io.Writer, report domain.HealthReport) {
	for _, check := range report.Checks {
		fmt.Fprintf(out, "[%s] %s - %s\n", strings.ToUpper(string(check.Status)), check.Name, check.Details)
	}
}

func newVersionCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Show version information",
		Run: func(cmd *cobra.Command, args []string) {
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "ai-shell %s\n", version.Version)
			if version.Commit != "" {
				fmt.Fprintf(out, "  commit: %s\n", version.Commit)
			}
			if version.BuildDate != "" {
				fmt.Fprintf(out, "  built:  %s\n", version.BuildDate)
			}
			fmt.Fprintf(out, "  %s %s/%s\n", runtime.Version(), runtime.GOOS, runtime.GOARCH)
		},
	}
}
