// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package detect

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/plagiasure/detection-engine/pkg/types"
)

// FormatTable writes a detection result as a human-readable table to w.
func FormatTable(result types.DetectionResult, w io.Writer) {
	fmt.Fprintf(w, "Score: %.0f%%  (method: %s)\n\n", result.Score*100, result.Method)

	if len(result.Highlights) == 0 {
		fmt.Fprintln(w, "No matching passages found.")
	} else {
		fmt.Fprintf(w, "%-4s  %-50s  %-6s  %-30s  %s\n",
			"Rank", "Passage", "Score", "Title", "Source")
		fmt.Fprintln(w, strings.Repeat("-", 120))

		for i, h := range result.Highlights {
			fmt.Fprintf(w, "%-4d  %-50s  %-6.2f  %-30s  %s\n",
				i+1, truncate(h.Text, 50), h.Score, truncate(h.Title, 30), h.Source)
		}

		fmt.Fprintf(w, "\n%d passage(s), %d distinct source(s)\n",
			len(result.Highlights), len(result.Sources))
	}

	for _, e := range result.ProviderErrors {
		fmt.Fprintf(w, "warning: provider %s\n", e)
	}
}

// FormatJSON writes a detection result as indented JSON to w.
func FormatJSON(result types.DetectionResult, w io.Writer) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(result)
}

func truncate(s string, max int) string {
	if len(s) <= max {
		return s
	}
	return s[:max-3] + "..."
}
