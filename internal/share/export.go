package share

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/nhle/tracker/internal/model"
)

// Export formats.
const (
	FormatText = "text"
	FormatJSON = "json"
	FormatYAML = "yaml"
)

// Export writes records to w in the given format. The text format joins
// the share text of each record with a blank line.
func Export(w io.Writer, records []model.Record, format string) error {
	switch strings.ToLower(format) {
	case "", FormatText:
		parts := make([]string, len(records))
		for i := range records {
			parts[i] = Format(&records[i])
		}
		if _, err := io.WriteString(w, strings.Join(parts, "\n\n")+"\n"); err != nil {
			return fmt.Errorf("writing history: %w", err)
		}
		return nil

	case FormatJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		if err := enc.Encode(records); err != nil {
			return fmt.Errorf("encoding history as json: %w", err)
		}
		return nil

	case FormatYAML:
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(records); err != nil {
			return fmt.Errorf("encoding history as yaml: %w", err)
		}
		return enc.Close()

	default:
		return fmt.Errorf("unknown export format %q", format)
	}
}
