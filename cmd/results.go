package main

import (
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/superpsx/vramdiff/internal/store"
)

var (
	resultsDataDir string
	forceDelete    bool
)

var resultsCmd = &cobra.Command{
	Use:   "results",
	Short: "Manage stored comparison results",
	Long: `Manage comparison results persisted by the serve command or by
compare --save, including listing, inspecting and deleting them.`,
}

var listResultsCmd = &cobra.Command{
	Use:   "list",
	Short: "List all stored results",
	RunE:  runListResults,
}

var showResultCmd = &cobra.Command{
	Use:   "show <result-id>",
	Short: "Show one stored result in detail",
	Args:  cobra.ExactArgs(1),
	RunE:  runShowResult,
}

var deleteResultCmd = &cobra.Command{
	Use:   "delete <result-id>",
	Short: "Delete a stored result and its artifacts",
	Args:  cobra.ExactArgs(1),
	RunE:  runDeleteResult,
}

func init() {
	rootCmd.AddCommand(resultsCmd)

	resultsCmd.AddCommand(listResultsCmd)
	resultsCmd.AddCommand(showResultCmd)
	resultsCmd.AddCommand(deleteResultCmd)

	resultsCmd.PersistentFlags().StringVar(&resultsDataDir, "data-dir", "./data", "Base directory for result storage")
	deleteResultCmd.Flags().BoolVarP(&forceDelete, "force", "f", false, "Skip confirmation prompt")
}

func runListResults(cmd *cobra.Command, args []string) error {
	resultStore, err := store.NewFSStore(resultsDataDir)
	if err != nil {
		return fmt.Errorf("failed to create result store: %w", err)
	}

	infos, err := resultStore.ListResults()
	if err != nil {
		return fmt.Errorf("failed to list results: %w", err)
	}

	if len(infos) == 0 {
		fmt.Println("No results found.")
		return nil
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tCREATED\tDUMP\tMATCH\tDIFF")

	for _, info := range infos {
		displayID := info.ID
		if len(displayID) > 12 {
			displayID = displayID[:12] + "..."
		}
		fmt.Fprintf(w, "%s\t%s\t%s\t%.2f%%\t%d\n",
			displayID,
			info.CreatedAt.Format("2006-01-02 15:04:05"),
			info.DumpPath,
			info.MatchPercent,
			info.DiffCount,
		)
	}
	w.Flush()

	fmt.Printf("\nTotal results: %d\n", len(infos))
	return nil
}

func runShowResult(cmd *cobra.Command, args []string) error {
	resultStore, err := store.NewFSStore(resultsDataDir)
	if err != nil {
		return fmt.Errorf("failed to create result store: %w", err)
	}

	rec, err := resultStore.LoadResult(args[0])
	if err != nil {
		return err
	}

	fmt.Printf("Result: %s\n", rec.ID)
	fmt.Printf("Created: %s\n", rec.CreatedAt.Format("2006-01-02 15:04:05"))
	fmt.Println()

	fmt.Println("Configuration:")
	fmt.Printf("  Dump: %s\n", rec.Config.DumpPath)
	fmt.Printf("  Reference: %s\n", rec.Config.RefPath)
	if rec.Config.Format != "" {
		fmt.Printf("  Format: %s\n", rec.Config.Format)
	}
	if rec.Config.ChannelOrder != "" {
		fmt.Printf("  Channel order: %s\n", rec.Config.ChannelOrder)
	}
	fmt.Printf("  Precision: %d bits/channel\n", rec.PrecisionBits)
	if rec.Config.Tolerance > 0 {
		fmt.Printf("  Tolerance: %d\n", rec.Config.Tolerance)
	}
	if rec.Config.CropVisible {
		fmt.Println("  Crop: visible display area")
	}
	fmt.Println()

	fmt.Println("Outcome:")
	fmt.Printf("  Match: %.2f%% (%d of %d pixels diverge)\n",
		rec.Overall.MatchPercent, rec.Overall.DiffCount(), rec.Overall.Total)
	fmt.Printf("  Missing: %d  Extra: %d  Color: %d\n",
		rec.Overall.Missing, rec.Overall.Extra, rec.Overall.ColorDivergent)
	if rec.Resized {
		fmt.Println("  Note: reference was resized to match the dump")
	}
	if rec.Shape != nil {
		fmt.Printf("  Shape hint: %s\n", rec.Shape)
	}

	if len(rec.Regions) > 0 {
		fmt.Println()
		fmt.Println("Regions:")
		w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
		fmt.Fprintln(w, "  REGION\tMATCH\tDIFF")
		for _, r := range rec.Regions {
			fmt.Fprintf(w, "  %s\t%.2f%%\t%d\n", r.Name, r.MatchPercent, r.DiffCount())
		}
		w.Flush()
	}

	fmt.Println()
	fmt.Printf("Artifacts: %s\n", resultStore.ResultDir(rec.ID))
	return nil
}

func runDeleteResult(cmd *cobra.Command, args []string) error {
	resultStore, err := store.NewFSStore(resultsDataDir)
	if err != nil {
		return fmt.Errorf("failed to create result store: %w", err)
	}

	id := args[0]
	if _, err := resultStore.LoadResult(id); err != nil {
		return err
	}

	if !forceDelete {
		fmt.Printf("Delete result %s and all its artifacts? [y/N] ", id)
		var answer string
		fmt.Scanln(&answer)
		if answer != "y" && answer != "Y" {
			fmt.Println("Aborted.")
			return nil
		}
	}

	if err := resultStore.DeleteResult(id); err != nil {
		return fmt.Errorf("failed to delete result: %w", err)
	}

	fmt.Printf("Deleted %s\n", id)
	return nil
}
