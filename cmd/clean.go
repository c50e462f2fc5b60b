package cmd

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/zhubert/nelson/internal/config"
	"github.com/zhubert/nelson/internal/logger"
	"github.com/zhubert/nelson/internal/storage"
)

var skipConfirm bool

var cleanCmd = &cobra.Command{
	Use:   "clean",
	Short: "Remove the local database, saved session, and logs",
	Long: `Deletes the local SQLite database (every account, chat and setting stored
in it), signs out by removing the saved session file, and removes log files.

A MySQL database is never touched. The command prompts for confirmation
unless the --yes flag is used.`,
	RunE: runClean,
}

func init() {
	cleanCmd.Flags().BoolVarP(&skipConfirm, "yes", "y", false, "Skip confirmation prompt")
	rootCmd.AddCommand(cleanCmd)
}

func runClean(cmd *cobra.Command, args []string) error {
	if !skipConfirm && !term.IsTerminal(int(os.Stdin.Fd())) {
		return errors.New("refusing to prompt without a terminal; pass --yes to clean anyway")
	}
	cfg, err := loadConfig()
	if err != nil {
		return fmt.Errorf("error loading config: %w", err)
	}
	return runCleanWithReader(cfg, os.Stdin, cmd.OutOrStdout())
}

// cleanTarget is a file clean may remove.
type cleanTarget struct {
	label string
	path  string
	size  int64
}

// cleanTargets lists the local files that exist for cfg.
func cleanTargets(cfg *config.Config) []cleanTarget {
	var candidates []cleanTarget
	if cfg.Storage.Driver == storage.DriverSQLite {
		dsn := cfg.Storage.DSN
		candidates = append(candidates,
			cleanTarget{label: "database", path: dsn},
			cleanTarget{label: "database journal", path: dsn + "-journal"},
			cleanTarget{label: "database WAL", path: dsn + "-wal"},
		)
	}
	if cfg.Auth.SessionFile != "" {
		candidates = append(candidates, cleanTarget{label: "saved session", path: cfg.Auth.SessionFile})
	}

	var out []cleanTarget
	for _, c := range candidates {
		info, err := os.Stat(c.path)
		if err != nil || info.IsDir() {
			continue
		}
		c.size = info.Size()
		out = append(out, c)
	}
	return out
}

// runCleanWithReader allows injecting a reader for testing
func runCleanWithReader(cfg *config.Config, input io.Reader, out io.Writer) error {
	targets := cleanTargets(cfg)
	logs, err := logger.Files()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Warning: error listing log files: %v\n", err)
	}

	if len(targets) == 0 && len(logs) == 0 {
		fmt.Fprintln(out, "Nothing to clean.")
		return nil
	}

	fmt.Fprintln(out, "This will remove:")
	for _, t := range targets {
		fmt.Fprintf(out, "  - %s %s (%s)\n", t.label, t.path, humanize.Bytes(uint64(t.size)))
	}
	if len(logs) > 0 {
		fmt.Fprintf(out, "  - %d log file(s)\n", len(logs))
	}

	if !skipConfirm {
		if !confirm(input, out, "Continue?") {
			fmt.Fprintln(out, "Aborted.")
			return nil
		}
	}

	removed := 0
	for _, t := range targets {
		if err := os.Remove(t.path); err != nil && !os.IsNotExist(err) {
			fmt.Fprintf(os.Stderr, "Warning: error removing %s: %v\n", t.path, err)
			continue
		}
		removed++
	}

	logsCleared, err := logger.ClearLogs()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Warning: error clearing logs: %v\n", err)
	}

	fmt.Fprintln(out)
	fmt.Fprintln(out, "Cleaned:")
	if removed > 0 {
		fmt.Fprintf(out, "  - %d file(s) removed\n", removed)
	}
	if logsCleared > 0 {
		fmt.Fprintf(out, "  - %d log file(s) removed\n", logsCleared)
	}
	return nil
}

// confirm prompts the user for y/n confirmation
func confirm(input io.Reader, out io.Writer, prompt string) bool {
	reader := bufio.NewReader(input)
	fmt.Fprintf(out, "%s [y/N]: ", prompt)
	response, err := reader.ReadString('\n')
	if err != nil {
		return false
	}
	response = strings.ToLower(strings.TrimSpace(response))
	return response == "y" || response == "yes"
}
