// Package display renders command output for terminals and tools: structured
// values as JSON, TOML or YAML, and projected tables through pterm.
package display

import (
	"encoding/json"
	"io"
	"strings"

	"github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"

	"github.com/teranos/resultviz/errors"
)

// Format is an output encoding.
type Format string

const (
	FormatText Format = "text"
	FormatJSON Format = "json"
	FormatTOML Format = "toml"
	FormatYAML Format = "yaml"
)

// ParseFormat accepts a format name, case-insensitively. "yml" is YAML.
func ParseFormat(s string) (Format, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "text":
		return FormatText, nil
	case "json":
		return FormatJSON, nil
	case "toml":
		return FormatTOML, nil
	case "yaml", "yml":
		return FormatYAML, nil
	}
	return "", errors.NewInvalidRequestError("unknown output format %q (want text, json, toml or yaml)", s)
}

// Marshal encodes v in format. Text falls back to indented JSON.
func Marshal(v interface{}, format Format) ([]byte, error) {
	switch format {
	case FormatJSON, FormatText:
		return MarshalJSON(v)
	case FormatTOML:
		data, err := toml.Marshal(v)
		if err != nil {
			return nil, errors.Wrap(err, "failed to marshal TOML")
		}
		return data, nil
	case FormatYAML:
		data, err := yaml.Marshal(v)
		if err != nil {
			return nil, errors.Wrap(err, "failed to marshal YAML")
		}
		return data, nil
	}
	return nil, errors.NewInvalidRequestError("unknown output format %q", format)
}

// MarshalJSON marshals v as indented JSON without HTML escaping.
func MarshalJSON(v interface{}) ([]byte, error) {
	var sb strings.Builder
	enc := json.NewEncoder(&sb)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		return nil, errors.Wrap(err, "failed to marshal JSON")
	}
	return []byte(strings.TrimSuffix(sb.String(), "\n")), nil
}

// Output writes v to w in format, newline terminated.
func Output(w io.Writer, v interface{}, format Format) error {
	data, err := Marshal(v, format)
	if err != nil {
		return err
	}
	if len(data) == 0 || data[len(data)-1] != '\n' {
		data = append(data, '\n')
	}
	_, err = w.Write(data)
	return err
}

// OutputJSON prints v as JSON to w.
func OutputJSON(w io.Writer, v interface{}) error {
	return Output(w, v, FormatJSON)
}
