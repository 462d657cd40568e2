package output

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"availcal/internal/domain"
)

// Supported serialization formats.
const (
	FormatJSON = "json"
	FormatYAML = "yml"
	FormatText = "txt"
)

// Record is the stable serialized view of a classified block.
type Record struct {
	Start      time.Time `json:"start" yaml:"start"`
	End        time.Time `json:"end" yaml:"end"`
	Busy       string    `json:"busy" yaml:"busy"`
	Free       string    `json:"free" yaml:"free"`
	Assigned   float64   `json:"assigned" yaml:"assigned"`
	Classes    []string  `json:"classes" yaml:"classes"`
	Locations  []string  `json:"location" yaml:"location"`
	Categories []string  `json:"categories" yaml:"categories"`
}

// NewRecord snapshots a block into its serialized form.
func NewRecord(b *domain.Block) Record {
	return Record{
		Start:      b.Start,
		End:        b.End,
		Busy:       b.Busy.String(),
		Free:       b.Free.String(),
		Assigned:   b.Assigned,
		Classes:    b.Classes,
		Locations:  b.Locations,
		Categories: b.Categories,
	}
}

// Write serializes blocks to a file, rewriting the path's extension to
// match the chosen format.
func Write(blocks []*domain.Block, format, path string) error {
	out := strings.TrimSuffix(path, filepath.Ext(path)) + "." + format
	f, err := os.Create(out)
	if err != nil {
		return fmt.Errorf("create output file: %w", err)
	}
	defer f.Close()

	if err := WriteTo(f, blocks, format); err != nil {
		return err
	}
	return f.Close()
}

// WriteTo serializes blocks to w in the given format: one JSON object
// per line, a single YAML document, or a plain text table row per block.
func WriteTo(w io.Writer, blocks []*domain.Block, format string) error {
	records := make([]Record, len(blocks))
	for i, b := range blocks {
		records[i] = NewRecord(b)
	}

	switch format {
	case FormatJSON:
		enc := json.NewEncoder(w)
		for _, rec := range records {
			if err := enc.Encode(rec); err != nil {
				return fmt.Errorf("encode block: %w", err)
			}
		}
	case FormatYAML:
		enc := yaml.NewEncoder(w)
		if err := enc.Encode(records); err != nil {
			return fmt.Errorf("encode blocks: %w", err)
		}
		return enc.Close()
	case FormatText:
		for _, rec := range records {
			_, err := fmt.Fprintf(w, "%s\t%s\tbusy=%s\tfree=%s\tassigned=%.2f\t%s\n",
				rec.Start.Format(time.RFC3339),
				rec.End.Format(time.RFC3339),
				rec.Busy,
				rec.Free,
				rec.Assigned,
				strings.Join(rec.Classes, ","))
			if err != nil {
				return fmt.Errorf("write block: %w", err)
			}
		}
	default:
		return fmt.Errorf("unsupported output format %q", format)
	}
	return nil
}
