// Package format renders command results as JSON, YAML or text tables.
package format

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"gopkg.in/yaml.v3"
)

const (
	Text = "text"
	JSON = "json"
	YAML = "yaml"
	EDN  = "edn"
)

// Formats lists the accepted --output values.
var Formats = []string{Text, JSON, YAML, EDN}

func Validate(name string) error {
	for _, f := range Formats {
		if name == f {
			return nil
		}
	}
	return fmt.Errorf("unknown output format %q (want %s)", name, strings.Join(Formats, ", "))
}

// Write encodes v as JSON, YAML or EDN. Text output is rendered by the caller.
func Write(w io.Writer, v any, format string, pretty bool) error {
	switch strings.ToLower(strings.TrimSpace(format)) {
	case JSON, "":
		return WriteJSON(w, v, pretty)
	case YAML, "yml":
		return WriteYAML(w, v)
	case EDN:
		return WriteEDN(w, v, pretty)
	default:
		return fmt.Errorf("unsupported format %q", format)
	}
}

func WriteJSON(w io.Writer, v any, pretty bool) error {
	enc := json.NewEncoder(w)
	enc.SetEscapeHTML(false)
	if pretty {
		enc.SetIndent("", "  ")
	}
	return enc.Encode(v)
}

// toGeneric round-trips v through JSON so keys follow the json tags.
func toGeneric(v any) (any, error) {
	b, err := json.Marshal(v)
	if err != nil {
		return nil, err
	}
	var generic any
	if err := json.Unmarshal(b, &generic); err != nil {
		return nil, err
	}
	return generic, nil
}

func WriteYAML(w io.Writer, v any) error {
	generic, err := toGeneric(v)
	if err != nil {
		return err
	}
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(generic); err != nil {
		return err
	}
	return enc.Close()
}
