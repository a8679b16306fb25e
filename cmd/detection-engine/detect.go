package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/plagiasure/detection-engine/internal/detect"
	"github.com/plagiasure/detection-engine/internal/provider"
	"github.com/plagiasure/detection-engine/internal/report"
	"github.com/plagiasure/detection-engine/pkg/types"
)

const (
	defaultTimeout    = 10 * time.Second
	defaultProbeDelay = 1 * time.Second
	defaultUserAgent  = "detection-engine/0.1"
)

var detectCmd = &cobra.Command{
	Use:   "detect [file]",
	Short: "Check a document for plagiarized content",
	Long: `Detect reads a document from a file (or --text) and checks it against
free external search and catalog APIs. Providers are queried concurrently;
a provider that fails or has no API key configured simply contributes no
evidence. The result is a single score with matched passages, their
sources, and per-provider diagnostics.`,
	RunE: runDetect,
}

func init() {
	detectCmd.Flags().String("text", "", "literal text to check instead of a file")
	detectCmd.Flags().Bool("json", false, "output the result as JSON")
	detectCmd.Flags().Bool("save", false, "save the detection to the local report history")
	detectCmd.Flags().String("out", "", "write the detection to a YAML result file")
	detectCmd.Flags().Int("max-highlights", 0, "maximum matched passages to keep (default 15)")
	detectCmd.Flags().Duration("timeout", 0, "per-request HTTP timeout (default 10s)")
	detectCmd.Flags().Duration("probe-delay", 0, "delay between probe queries to one provider (default 1s)")
	detectCmd.Flags().Bool("no-duckduckgo", false, "disable the DuckDuckGo provider")
	detectCmd.Flags().Bool("no-crossref", false, "disable the CrossRef provider")
	detectCmd.Flags().Bool("no-arxiv", false, "disable the arXiv provider")
	detectCmd.Flags().String("reports-dir", "reports", "base directory for the report history")

	rootCmd.AddCommand(detectCmd)
}

func runDetect(cmd *cobra.Command, args []string) error {
	text, err := inputText(cmd, args)
	if err != nil {
		return err
	}

	cfg := detectConfigFromFlags(cmd)

	client := &http.Client{
		Timeout: cfg.Timeout,
	}

	providers := provider.Configured(cfg, client)
	result := detect.Detect(context.Background(), text, providers, cfg)

	if save, _ := cmd.Flags().GetBool("save"); save {
		reportsDir, _ := cmd.Flags().GetString("reports-dir")
		store, err := report.NewStore(types.ReportStoreConfig{ReportsDir: reportsDir})
		if err != nil {
			return err
		}
		defer store.Close()

		id, err := store.Save(context.Background(), detect.Excerpt(text), len(text), result)
		if err != nil {
			return err
		}
		fmt.Fprintf(os.Stderr, "Saved report %d\n", id)
	}

	if out, _ := cmd.Flags().GetString("out"); out != "" {
		if err := detect.WriteResultFile(out, text, cfg, result); err != nil {
			return err
		}
		fmt.Fprintf(os.Stderr, "Wrote %s\n", out)
	}

	if jsonOutput, _ := cmd.Flags().GetBool("json"); jsonOutput {
		return detect.FormatJSON(result, os.Stdout)
	}
	detect.FormatTable(result, os.Stdout)
	return nil
}

// inputText reads the document from the file argument or the --text flag.
func inputText(cmd *cobra.Command, args []string) (string, error) {
	literal, _ := cmd.Flags().GetString("text")
	if literal != "" {
		return literal, nil
	}
	if len(args) != 1 {
		return "", fmt.Errorf("provide a file to check or --text")
	}
	data, err := os.ReadFile(args[0])
	if err != nil {
		return "", fmt.Errorf("reading %s: %w", args[0], err)
	}
	return string(data), nil
}

// detectConfigFromFlags assembles the detection config from flags, viper
// config, and loaded secrets.
func detectConfigFromFlags(cmd *cobra.Command) types.DetectConfig {
	timeout, _ := cmd.Flags().GetDuration("timeout")
	if timeout == 0 {
		timeout = defaultTimeout
	}
	probeDelay, _ := cmd.Flags().GetDuration("probe-delay")
	if probeDelay == 0 {
		probeDelay = defaultProbeDelay
	}
	maxHighlights, _ := cmd.Flags().GetInt("max-highlights")

	noDDG, _ := cmd.Flags().GetBool("no-duckduckgo")
	noCrossRef, _ := cmd.Flags().GetBool("no-crossref")
	noArxiv, _ := cmd.Flags().GetBool("no-arxiv")

	return types.DetectConfig{
		HTTPConfig: types.HTTPConfig{
			Timeout:   timeout,
			UserAgent: defaultUserAgent,
		},
		MaxHighlights:      maxHighlights,
		ProbeDelay:         probeDelay,
		EnableDuckDuckGo:   !noDDG,
		EnableCrossRef:     !noCrossRef,
		EnableArxiv:        !noArxiv,
		GoogleAPIKey:       secretDefault("google-search-api-key", ""),
		GoogleEngineID:     secretDefault("google-search-engine-id", ""),
		BingAPIKey:         secretDefault("bing-search-api-key", ""),
		DupliCheckerAPIKey: secretDefault("duplichecker-api-key", ""),
	}
}
