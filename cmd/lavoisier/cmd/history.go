package cmd

import (
	"fmt"
	"io"
	"sort"
	"strings"
	"time"

	mdwerror "github.com/msto63/lavoisier/foundation/core/error"
	"github.com/msto63/lavoisier/internal/lavoisier/store"
	"github.com/spf13/cobra"
)

var (
	historyStatus string
	historySource string
	historyLimit  int
	historySince  time.Duration
	pruneOlder    time.Duration
)

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "Show recorded balancing attempts",
	Example: `  lavoisier history --status failed --limit 5
  lavoisier history stats
  lavoisier history prune --older-than 720h`,
	Args: cobra.NoArgs,
	RunE: runHistory,
}

var historyStatsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Summarize the history",
	Args:  cobra.NoArgs,
	RunE:  runHistoryStats,
}

var historyPruneCmd = &cobra.Command{
	Use:   "prune",
	Short: "Delete old history records (local history only)",
	Args:  cobra.NoArgs,
	RunE:  runHistoryPrune,
}

func init() {
	historyCmd.Flags().StringVar(&historyStatus, "status", "", "balanced or failed")
	historyCmd.Flags().StringVar(&historySource, "source", "", "cli, repl, tui, grpc, http or ws")
	historyCmd.Flags().IntVarP(&historyLimit, "limit", "n", 0, "maximum number of records (default from config)")
	historyCmd.Flags().DurationVar(&historySince, "since", 0, "only records newer than this age, e.g. 24h")
	historyPruneCmd.Flags().DurationVar(&pruneOlder, "older-than", 30*24*time.Hour, "age of the records to delete")

	historyCmd.AddCommand(historyStatsCmd)
	historyCmd.AddCommand(historyPruneCmd)
	rootCmd.AddCommand(historyCmd)
}

func historyFilter() (store.Filter, error) {
	filter := store.Filter{Source: historySource, Limit: historyLimit}
	if filter.Limit <= 0 {
		filter.Limit = appConfig.History.Limit
	}
	switch strings.ToLower(historyStatus) {
	case "":
	case "balanced":
		filter.Status = store.StatusBalanced
	case "failed":
		filter.Status = store.StatusFailed
	default:
		return filter, mdwerror.Newf("unknown status %q", historyStatus).
			WithCode(mdwerror.CodeInvalidInput)
	}
	if historySince > 0 {
		filter.Since = time.Now().Add(-historySince)
	}
	return filter, nil
}

func runHistory(cmd *cobra.Command, args []string) error {
	filter, err := historyFilter()
	if err != nil {
		return err
	}

	b, err := openBackend("cli")
	if err != nil {
		return err
	}
	defer b.Close()

	ctx, cancel := commandContext()
	defer cancel()

	records, err := b.History(ctx, filter)
	if err != nil {
		return err
	}
	w := cmd.OutOrStdout()
	if ok, err := printStructured(w, records); ok {
		return err
	}
	if len(records) == 0 {
		fmt.Fprintln(w, dimColor.Sprint("no records"))
		return nil
	}
	for _, r := range records {
		printRecord(w, r)
	}
	return nil
}

func printRecord(w io.Writer, r *store.Record) {
	when := dimColor.Sprint(r.Timestamp.Local().Format("2006-01-02 15:04:05"))
	source := dimColor.Sprintf("%-5s", r.Source)
	if r.Status == store.StatusBalanced {
		fmt.Fprintf(w, "%s %s %s %s\n", when, source, successColor.Sprint("ok  "), r.Balanced)
		return
	}
	fmt.Fprintf(w, "%s %s %s %s  %s\n", when, source, failColor.Sprint("FAIL"), r.Equation, warnColor.Sprint(r.ErrorCode))
}

func runHistoryStats(cmd *cobra.Command, args []string) error {
	b, err := openBackend("cli")
	if err != nil {
		return err
	}
	defer b.Close()

	ctx, cancel := commandContext()
	defer cancel()

	stats, err := b.HistoryStats(ctx)
	if err != nil {
		return err
	}
	w := cmd.OutOrStdout()
	if ok, err := printStructured(w, stats); ok {
		return err
	}

	fmt.Fprintf(w, "%-20s %d\n", "total", stats.Total)
	fmt.Fprintf(w, "%-20s %s\n", "balanced", successColor.Sprint(stats.Balanced))
	fmt.Fprintf(w, "%-20s %s\n", "failed", failColor.Sprint(stats.Failed))
	codes := make([]string, 0, len(stats.ByErrorCode))
	for code := range stats.ByErrorCode {
		codes = append(codes, code)
	}
	sort.Strings(codes)
	for _, code := range codes {
		fmt.Fprintf(w, "  %-18s %d\n", code, stats.ByErrorCode[code])
	}
	return nil
}

func runHistoryPrune(cmd *cobra.Command, args []string) error {
	if remote != "" {
		return mdwerror.New("prune works on the local history only").
			WithCode(mdwerror.CodeInvalidInput)
	}
	if !appConfig.History.Enabled {
		return mdwerror.New("history is disabled").
			WithCode(mdwerror.CodeServiceUnavailable)
	}

	history, err := store.NewSQLiteHistoryStore(store.SQLiteConfig{Path: appConfig.History.Path})
	if err != nil {
		return mdwerror.Wrap(err, "failed to open history").WithCode(mdwerror.CodeStorage)
	}
	defer history.Close()

	ctx, cancel := commandContext()
	defer cancel()

	n, err := history.Prune(ctx, pruneOlder)
	if err != nil {
		return mdwerror.Wrap(err, "failed to prune history").WithCode(mdwerror.CodeStorage)
	}
	fmt.Fprintf(cmd.OutOrStdout(), "deleted %d records older than %s\n", n, pruneOlder)
	return nil
}
