// Package export renders configurations as json, typescript, yaml, env or toml text.
package export

import (
	"bytes"
	"encoding/json"
	"slices"
	"strings"

	"github.com/cockroachdb/errors"
	"github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"

	internalconfig "github.com/smykla-skalski/uploadkit/internal/config"
	"github.com/smykla-skalski/uploadkit/internal/schema"
	"github.com/smykla-skalski/uploadkit/pkg/config"
)

// Format names an export format.
type Format string

const (
	FormatJSON       Format = "json"
	FormatTypeScript Format = "typescript"
	FormatYAML       Format = "yaml"
	FormatEnv        Format = "env"
	FormatTOML       Format = "toml"
)

// Formats lists every supported format.
var Formats = []Format{FormatJSON, FormatTypeScript, FormatYAML, FormatEnv, FormatTOML}

var (
	// ErrUnsupportedFormat is returned for unknown format names.
	ErrUnsupportedFormat = errors.New("unsupported export format")

	// ErrNilConfig is returned when there is nothing to export.
	ErrNilConfig = errors.New("config is nil")
)

// ParseFormat validates a format name.
func ParseFormat(name string) (Format, error) {
	f := Format(strings.ToLower(strings.TrimSpace(name)))
	if slices.Contains(Formats, f) {
		return f, nil
	}

	return "", errors.Wrapf(ErrUnsupportedFormat, "%q", name)
}

// Export renders cfg in the given format.
func Export(cfg *config.FileUploadConfig, format Format) (string, error) {
	if cfg == nil {
		return "", ErrNilConfig
	}

	switch format {
	case FormatJSON:
		return exportJSON(cfg)
	case FormatTypeScript:
		return exportTypeScript(cfg)
	case FormatYAML:
		return exportYAML(cfg)
	case FormatEnv:
		return exportEnv(cfg)
	case FormatTOML:
		return exportTOML(cfg)
	default:
		return "", errors.Wrapf(ErrUnsupportedFormat, "%q", string(format))
	}
}

func exportJSON(cfg *config.FileUploadConfig) (string, error) {
	data, err := json.MarshalIndent(cfg, "", "  ")
	if err != nil {
		return "", errors.Wrap(err, "failed to encode config to JSON")
	}

	return string(data), nil
}

func exportTypeScript(cfg *config.FileUploadConfig) (string, error) {
	body, err := exportJSON(cfg)
	if err != nil {
		return "", err
	}

	var b strings.Builder

	b.WriteString("import type { FileUploadConfig } from \"@uploadkit/core\";\n\n")
	b.WriteString("export const fileUploadConfig: FileUploadConfig = ")
	b.WriteString(body)
	b.WriteString(" as const;\n")

	return b.String(), nil
}

func exportTOML(cfg *config.FileUploadConfig) (string, error) {
	var buf bytes.Buffer

	buf.WriteString(schema.SchemaDirective())
	buf.WriteByte('\n')

	encoder := toml.NewEncoder(&buf)
	encoder.SetIndentTables(true)

	if err := encoder.Encode(cfg); err != nil {
		return "", errors.Wrap(err, "failed to encode config to TOML")
	}

	return buf.String(), nil
}

// document parses the JSON export into a node tree that keeps the struct
// declaration order of keys.
func document(cfg *config.FileUploadConfig) (*yaml.Node, error) {
	data, err := json.Marshal(cfg)
	if err != nil {
		return nil, errors.Wrap(err, "failed to encode config")
	}

	var doc yaml.Node
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, errors.Wrap(err, "failed to parse encoded config")
	}

	if doc.Kind != yaml.DocumentNode || len(doc.Content) != 1 || doc.Content[0].Kind != yaml.MappingNode {
		return nil, errors.Wrap(internalconfig.ErrNotObject, "encoded config")
	}

	return doc.Content[0], nil
}

// scalarJSON renders a scalar node as JSON text.
func scalarJSON(node *yaml.Node) (string, error) {
	if node.Tag != "!!str" {
		return node.Value, nil
	}

	data, err := json.Marshal(node.Value)
	if err != nil {
		return "", errors.Wrap(err, "failed to encode string")
	}

	return string(data), nil
}

// nodeJSON renders any node as compact JSON text.
func nodeJSON(node *yaml.Node) (string, error) {
	if node.Kind == yaml.ScalarNode {
		return scalarJSON(node)
	}

	var v any
	if err := node.Decode(&v); err != nil {
		return "", errors.Wrap(err, "failed to decode node")
	}

	data, err := json.Marshal(v)
	if err != nil {
		return "", errors.Wrap(err, "failed to encode node")
	}

	return string(data), nil
}
