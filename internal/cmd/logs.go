package cmd

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/rivalscan/rivalscan/internal/config"
	"github.com/rivalscan/rivalscan/internal/logging"
	"github.com/spf13/cobra"
)

var logsCmd = &cobra.Command{
	Use:   "logs",
	Short: "View the run log",
	Long: `View and filter rivalscan's run log.

The log collects entries from every analysis run. Use flags to narrow
the output to one run, one stage, a log level, or a time window.

Examples:
  # Show the last 50 entries
  rivalscan logs

  # Show everything from a specific run
  rivalscan logs --run 1a2b3c4d -n 0

  # Follow the log in real time
  rivalscan logs -f

  # Warnings and errors from the last hour
  rivalscan logs --level warn --since 1h

  # Entries mentioning a search problem
  rivalscan logs --grep "search unavailable"

  # Export a run's entries as JSON
  rivalscan logs --run 1a2b3c4d -n 0 --export run.json`,
	RunE: runLogsCmd,
}

var (
	logsRunID  string
	logsStage  string
	logsTail   int
	logsFollow bool
	logsLevel  string
	logsSince  string
	logsGrep   string
	logsExport string
	logsFormat string
)

func init() {
	rootCmd.AddCommand(logsCmd)

	logsCmd.Flags().StringVarP(&logsRunID, "run", "r", "", "filter to one run ID")
	logsCmd.Flags().StringVar(&logsStage, "stage", "", "filter to one pipeline stage (e.g., MarketResearch)")
	logsCmd.Flags().IntVarP(&logsTail, "tail", "n", 50, "number of entries to show (0 for all)")
	logsCmd.Flags().BoolVarP(&logsFollow, "follow", "f", false, "follow log output (like tail -f)")
	logsCmd.Flags().StringVar(&logsLevel, "level", "", "filter by minimum level (debug/info/warn/error)")
	logsCmd.Flags().StringVar(&logsSince, "since", "", "show entries since duration ago (e.g., 1h, 30m)")
	logsCmd.Flags().StringVar(&logsGrep, "grep", "", "filter entries whose message contains a substring")
	logsCmd.Flags().StringVar(&logsExport, "export", "", "write matching entries to a file instead of stdout")
	logsCmd.Flags().StringVar(&logsFormat, "format", "json", "export format: json or text")
}

func runLogsCmd(cmd *cobra.Command, args []string) error {
	cfg := config.Get()
	logPath := cfg.Logging.ResolveLogFile()

	if _, err := os.Stat(logPath); os.IsNotExist(err) {
		fmt.Printf("No log file at %s\n", logPath)
		fmt.Println("Run an analysis first, or check the logging.file setting.")
		return nil
	}

	filter, err := buildLogFilter()
	if err != nil {
		return err
	}

	if logsFollow {
		return followLogs(logPath, filter)
	}

	entries, err := logging.AggregateLogs(logPath)
	if err != nil {
		return err
	}
	entries = logging.FilterLogs(entries, filter)

	// Apply tail limit
	if logsTail > 0 && len(entries) > logsTail {
		entries = entries[len(entries)-logsTail:]
	}

	if logsExport != "" {
		if err := logging.ExportLogEntries(entries, logsExport, logsFormat); err != nil {
			return err
		}
		fmt.Printf("Exported %d entries to %s\n", len(entries), logsExport)
		return nil
	}

	for _, entry := range entries {
		fmt.Println(logging.FormatEntry(entry))
	}

	if len(entries) == 0 {
		fmt.Println("No matching log entries found.")
	}

	return nil
}

// buildLogFilter translates the command flags into a LogFilter.
func buildLogFilter() (logging.LogFilter, error) {
	filter := logging.LogFilter{
		RunID:           logsRunID,
		Stage:           logsStage,
		MessageContains: logsGrep,
	}

	if logsLevel != "" {
		filter.Level = logging.ParseLevel(logsLevel)
	}

	if logsSince != "" {
		duration, err := time.ParseDuration(logsSince)
		if err != nil {
			return logging.LogFilter{}, fmt.Errorf("invalid duration format: %w", err)
		}
		filter.StartTime = time.Now().Add(-duration)
	}

	return filter, nil
}

// followLogs implements tail -f behavior for the log file.
func followLogs(logPath string, filter logging.LogFilter) error {
	file, err := os.Open(logPath)
	if err != nil {
		return fmt.Errorf("failed to open log file: %w", err)
	}
	defer func() { _ = file.Close() }()

	// Seek to end of file
	if _, err := file.Seek(0, io.SeekEnd); err != nil {
		return fmt.Errorf("failed to seek to end: %w", err)
	}

	fmt.Printf("Following %s... (Ctrl+C to stop)\n\n", logPath)

	reader := bufio.NewReader(file)
	for {
		line, err := reader.ReadString('\n')
		if err != nil {
			if err == io.EOF {
				// No new data, wait briefly and try again
				time.Sleep(100 * time.Millisecond)
				continue
			}
			return fmt.Errorf("error reading log file: %w", err)
		}

		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}

		entry, err := logging.ParseLogEntry(line)
		if err != nil {
			// Not JSON, display the raw line
			fmt.Println(line)
			continue
		}

		if len(logging.FilterLogs([]logging.LogEntry{entry}, filter)) == 0 {
			continue
		}

		fmt.Println(logging.FormatEntry(entry))
	}
}
