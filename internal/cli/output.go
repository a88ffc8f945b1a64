// Package cli provides CLI output helpers for Kotae.
package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/hyperjump/kotae/internal/models"
	"github.com/hyperjump/kotae/pkg/utils"
)

// OutputFormat is the format for CLI output.
type OutputFormat string

const (
	// OutputText is human-readable text (default).
	OutputText OutputFormat = "text"
	// OutputJSON is structured JSON for machine consumption.
	OutputJSON OutputFormat = "json"
)

// ParseOutputFormat validates a format string from a flag.
func ParseOutputFormat(s string) (OutputFormat, error) {
	switch s {
	case "text", "":
		return OutputText, nil
	case "json":
		return OutputJSON, nil
	default:
		return "", fmt.Errorf("unknown output format %q; use text or json", s)
	}
}

// WriteAskResult writes one answer to w in the given format.
func WriteAskResult(w io.Writer, result *models.AskResult, format OutputFormat) error {
	if format == OutputJSON {
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(result)
	}
	fmt.Fprintf(w, "session: %s\n\n", result.SessionID)
	fmt.Fprintln(w, result.Answer)
	if len(result.Sources) > 0 {
		fmt.Fprintln(w, "\nSources:")
		for _, src := range result.Sources {
			loc := src.Source
			if src.Locator != "" {
				loc += " (" + src.Locator + ")"
			}
			fmt.Fprintf(w, "  %.4f  %s\n", src.Score, loc)
		}
	}
	return nil
}

// WriteHistory writes a session's entries to w in the given format.
func WriteHistory(w io.Writer, sessionID string, entries []models.ChatEntry, format OutputFormat) error {
	if format == OutputJSON {
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(map[string]interface{}{
			"session_id": sessionID,
			"entries":    entries,
		})
	}
	fmt.Fprintf(w, "session: %s (%d entries)\n", sessionID, len(entries))
	for _, entry := range entries {
		fmt.Fprintf(w, "\nQ: %s\n", entry.Question)
		status := ""
		if entry.Failed {
			status = " [failed]"
		}
		fmt.Fprintf(w, "A:%s %s\n", status, utils.Truncate(entry.Answer, 500))
	}
	return nil
}

// WriteFileList writes ingested source files to w in the given format.
func WriteFileList(w io.Writer, files []*models.SourceFile, total int64, format OutputFormat) error {
	if format == OutputJSON {
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(map[string]interface{}{
			"files": files,
			"total": total,
		})
	}
	fmt.Fprintf(w, "%d ingested file(s)\n", total)
	for _, f := range files {
		fmt.Fprintf(w, "  %-6s %4d chunk(s)  %s\n", strings.TrimPrefix(f.Ext, "."), f.ChunkCount, f.Path)
	}
	return nil
}
