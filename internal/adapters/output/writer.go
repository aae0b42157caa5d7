// Package output provides adapters for writing application output.
package output

import (
	"bytes"
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/drover-cli/drover/internal/domain"
)

// Writer renders records and batch results to the configured output
// destination. By default, it writes to stdout.
type Writer struct {
	out io.Writer
}

// NewWriter creates a new Writer that writes to stdout.
func NewWriter() *Writer {
	return &Writer{out: os.Stdout}
}

// NewWriterWithOutput creates a new Writer with a custom output destination.
// This is useful for testing.
func NewWriterWithOutput(out io.Writer) *Writer {
	return &Writer{out: out}
}

// WriteRecords renders the records as a YAML mapping keyed by URL, in
// the given order, with every field present. An empty slice writes
// nothing.
func (w *Writer) WriteRecords(records []*domain.RepositoryRecord) error {
	if len(records) == 0 {
		return nil
	}

	root := &yaml.Node{Kind: yaml.MappingNode, Tag: "!!map"}
	for _, rec := range records {
		key := &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: rec.URL}
		val := &yaml.Node{}
		if err := val.Encode(rec); err != nil {
			return fmt.Errorf("rendering record %q: %w", rec.URL, err)
		}
		root.Content = append(root.Content, key, val)
	}

	var buf bytes.Buffer
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)
	if err := enc.Encode(root); err != nil {
		return err
	}
	if err := enc.Close(); err != nil {
		return err
	}

	_, err := w.out.Write(buf.Bytes())
	return err
}

// WriteReport writes one line per processed repository: the URL and what
// happened to it.
func (w *Writer) WriteReport(report *domain.BatchReport) error {
	for _, o := range report.Outcomes {
		var err error
		if o.Err != nil {
			_, err = fmt.Fprintf(w.out, "%s: failed: %v\n", o.URL, o.Err)
		} else {
			_, err = fmt.Fprintf(w.out, "%s: %s\n", o.URL, o.Action)
		}
		if err != nil {
			return err
		}
	}
	return nil
}
