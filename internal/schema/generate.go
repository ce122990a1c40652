// Package schema generates JSON Schema from the uploadkit config types.
//
// Besides the constraints declared in jsonschema struct tags, every integer
// field without an explicit maximum is capped at config.MaxSafeInteger, the
// same bound the validator enforces.
package schema

import (
	"encoding/json"
	"strconv"

	"github.com/cockroachdb/errors"
	"github.com/invopop/jsonschema"

	"github.com/smykla-skalski/uploadkit/pkg/config"
)

const (
	schemaURI = "https://json-schema.org/draft/2020-12/schema"
	title     = "uploadkit configuration"

	filename = "uploadkit.schema.json"

	description = "Configuration of the uploadkit file upload widget. " +
		"Loaders merge partial documents onto the defaults, so every section may be omitted there."

	// SchemaURL is where the published schema lives.
	SchemaURL = "https://raw.githubusercontent.com/smykla-skalski/uploadkit/main/schema/" + filename
)

// Filename returns the file name the schema is published under.
func Filename() string {
	return filename
}

// Generate produces a JSON Schema from the config.FileUploadConfig struct.
func Generate() *jsonschema.Schema {
	r := &jsonschema.Reflector{
		ExpandedStruct: true,
	}

	s := r.Reflect(&config.FileUploadConfig{})
	s.Version = schemaURI
	s.Title = title
	s.ID = jsonschema.ID(SchemaURL)
	s.Description = description

	boundIntegers(s)

	return s
}

// boundIntegers caps integer properties without a maximum, descending into
// nested properties and definitions.
func boundIntegers(s *jsonschema.Schema) {
	if s == nil {
		return
	}

	if s.Type == "integer" && s.Maximum == "" {
		s.Maximum = json.Number(strconv.FormatInt(config.MaxSafeInteger, 10))
	}

	if s.Properties != nil {
		for pair := s.Properties.Oldest(); pair != nil; pair = pair.Next() {
			boundIntegers(pair.Value)
		}
	}

	for _, def := range s.Definitions {
		boundIntegers(def)
	}
}

// GenerateJSON produces a JSON Schema as bytes.
// When indent is true, the output is pretty-printed.
func GenerateJSON(indent bool) ([]byte, error) {
	s := Generate()

	var (
		data []byte
		err  error
	)

	if indent {
		data, err = json.MarshalIndent(s, "", "  ")
	} else {
		data, err = json.Marshal(s)
	}

	if err != nil {
		return nil, errors.Wrap(err, "marshaling schema to JSON")
	}

	// Append trailing newline for file output.
	return append(data, '\n'), nil
}

// SchemaDirective returns the Taplo schema comment placed at the top of TOML files.
func SchemaDirective() string {
	return "#:schema " + SchemaURL
}
