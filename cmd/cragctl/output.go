package main

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/Harshitk-cp/crag/internal/domain"
	"gopkg.in/yaml.v3"
)

const (
	outputText = "text"
	outputJSON = "json"
	outputYAML = "yaml"
)

// render writes v in a structured format. For text output it calls text.
func render(w io.Writer, format string, v any, text func(io.Writer)) error {
	switch format {
	case outputJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(v)
	case outputYAML:
		// Round-trip through JSON so YAML keys match the API field names.
		b, err := json.Marshal(v)
		if err != nil {
			return err
		}
		var generic any
		if err := json.Unmarshal(b, &generic); err != nil {
			return err
		}
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(generic); err != nil {
			return err
		}
		return enc.Close()
	default:
		text(w)
		return nil
	}
}

func writeAnswer(w io.Writer, ans *domain.Answer) {
	fmt.Fprintln(w, ans.Text)
	writeSources(w, ans.Sources)
}

func writeSources(w io.Writer, sources []domain.SourceRef) {
	if len(sources) == 0 {
		return
	}
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Sources:")
	for i, s := range sources {
		label := s.Document.Title
		if label == "" {
			label = s.Document.ID
		}
		line := fmt.Sprintf("  [%d] %s (score=%.2f)", i+1, label, s.Score)
		if s.Document.URL != "" {
			line += " " + s.Document.URL
		}
		fmt.Fprintln(w, line)
	}
}

func writeRetrievedAnswer(w io.Writer, ans *domain.RetrievedAnswer) {
	fmt.Fprintln(w, ans.Text)
	sources := make([]domain.SourceRef, len(ans.Retrieved))
	for i, it := range ans.Retrieved {
		sources[i] = it.ReduceWithFallbacks()
	}
	writeSources(w, sources)
}

func writeThread(w io.Writer, th *domain.Thread) {
	for _, m := range th.Messages {
		fmt.Fprintf(w, "%s: %s\n", strings.ToUpper(string(m.Role)), m.Content)
	}
	writeSources(w, th.LastRetrieved)
}
