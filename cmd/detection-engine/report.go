// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/plagiasure/detection-engine/internal/detect"
	"github.com/plagiasure/detection-engine/internal/report"
	"github.com/plagiasure/detection-engine/pkg/types"
)

var reportCmd = &cobra.Command{
	Use:   "report",
	Short: "Manage the local detection report history (list, show, export)",
	Long: `Report manages the local SQLite history of saved detections. Use
subcommands to list recent reports, show one report with its matched
passages, or export the full history to YAML.`,
}

// --- list subcommand ---

var reportListCmd = &cobra.Command{
	Use:   "list",
	Short: "List recent detection reports",
	RunE:  runReportList,
}

func runReportList(cmd *cobra.Command, args []string) error {
	store, err := openStore(cmd)
	if err != nil {
		return err
	}
	defer store.Close()

	limit, _ := cmd.Flags().GetInt("limit")
	reports, err := store.List(context.Background(), limit)
	if err != nil {
		return err
	}

	if jsonOutput, _ := cmd.Flags().GetBool("json"); jsonOutput {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(reports)
	}

	if len(reports) == 0 {
		fmt.Println("No reports saved.")
		return nil
	}

	fmt.Fprintf(os.Stdout, "%-4s  %-20s  %-6s  %-8s  %s\n",
		"ID", "Checked", "Score", "Sources", "Excerpt")
	fmt.Fprintln(os.Stdout, strings.Repeat("-", 100))

	for _, r := range reports {
		excerpt := r.Excerpt
		if len(excerpt) > 50 {
			excerpt = excerpt[:47] + "..."
		}
		fmt.Fprintf(os.Stdout, "%-4d  %-20s  %-6.2f  %-8d  %s\n",
			r.ID, r.CreatedAt.Local().Format("2006-01-02 15:04:05"), r.Score, len(r.Sources), excerpt)
	}

	fmt.Fprintf(os.Stdout, "\n%d report(s)\n", len(reports))
	return nil
}

// --- show subcommand ---

var reportShowCmd = &cobra.Command{
	Use:   "show [id]",
	Short: "Show one detection report with its matched passages",
	Args:  cobra.ExactArgs(1),
	RunE:  runReportShow,
}

func runReportShow(cmd *cobra.Command, args []string) error {
	id, err := strconv.ParseInt(args[0], 10, 64)
	if err != nil {
		return fmt.Errorf("invalid report ID %q", args[0])
	}

	store, err := openStore(cmd)
	if err != nil {
		return err
	}
	defer store.Close()

	r, err := store.Get(context.Background(), id)
	if err != nil {
		return err
	}

	if jsonOutput, _ := cmd.Flags().GetBool("json"); jsonOutput {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(r)
	}

	fmt.Printf("Report %d  (%s, %d chars checked)\n", r.ID,
		r.CreatedAt.Local().Format("2006-01-02 15:04:05"), r.Length)
	detect.FormatTable(types.DetectionResult{
		Score:      r.Score,
		Highlights: r.Highlights,
		Sources:    r.Sources,
		Method:     r.Method,
	}, os.Stdout)
	return nil
}

// --- export subcommand ---

var reportExportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export the report history to YAML",
	RunE: func(cmd *cobra.Command, args []string) error {
		store, err := openStore(cmd)
		if err != nil {
			return err
		}
		defer store.Close()

		if err := store.ExportYAML(context.Background()); err != nil {
			return err
		}
		reportsDir, _ := cmd.Flags().GetString("reports-dir")
		fmt.Printf("Exported to %s/index/export.yaml\n", reportsDir)
		return nil
	},
}

// --- shared helpers ---

func openStore(cmd *cobra.Command) (*report.Store, error) {
	reportsDir, _ := cmd.Flags().GetString("reports-dir")
	maxResults, _ := cmd.Flags().GetInt("max-results")

	return report.NewStore(types.ReportStoreConfig{
		ReportsDir: reportsDir,
		MaxResults: maxResults,
	})
}

func init() {
	// Shared flags on the parent command, inherited by subcommands.
	reportCmd.PersistentFlags().String("reports-dir", "reports", "base directory for the report history")
	reportCmd.PersistentFlags().Int("max-results", 20, "default maximum number of listed reports")

	reportListCmd.Flags().Int("limit", 0, "maximum reports to list (0 = use default)")
	reportListCmd.Flags().Bool("json", false, "output reports as JSON")
	reportShowCmd.Flags().Bool("json", false, "output the report as JSON")

	reportCmd.AddCommand(reportListCmd)
	reportCmd.AddCommand(reportShowCmd)
	reportCmd.AddCommand(reportExportCmd)

	rootCmd.AddCommand(reportCmd)
}
