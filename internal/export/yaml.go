package export

import (
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/smykla-skalski/uploadkit/pkg/config"
)

const yamlIndent = "  "

// exportYAML writes a minimal YAML rendering: mappings nest by indentation,
// sequence items are "- <json>" lines and scalars are "key: <json>".
func exportYAML(cfg *config.FileUploadConfig) (string, error) {
	root, err := document(cfg)
	if err != nil {
		return "", err
	}

	var b strings.Builder
	if err := writeMapping(&b, root, 0); err != nil {
		return "", err
	}

	return b.String(), nil
}

func writeMapping(b *strings.Builder, node *yaml.Node, depth int) error {
	indent := strings.Repeat(yamlIndent, depth)

	for i := 0; i+1 < len(node.Content); i += 2 {
		key, value := node.Content[i].Value, node.Content[i+1]

		switch value.Kind {
		case yaml.MappingNode:
			if len(value.Content) == 0 {
				b.WriteString(indent + key + ": {}\n")

				continue
			}

			b.WriteString(indent + key + ":\n")

			if err := writeMapping(b, value, depth+1); err != nil {
				return err
			}
		case yaml.SequenceNode:
			if len(value.Content) == 0 {
				b.WriteString(indent + key + ": []\n")

				continue
			}

			b.WriteString(indent + key + ":\n")

			for _, item := range value.Content {
				text, err := nodeJSON(item)
				if err != nil {
					return err
				}

				b.WriteString(indent + yamlIndent + "- " + text + "\n")
			}
		default:
			text, err := nodeJSON(value)
			if err != nil {
				return err
			}

			b.WriteString(indent + key + ": " + text + "\n")
		}
	}

	return nil
}
