package export

import (
	"strings"

	"gopkg.in/yaml.v3"

	internalconfig "github.com/smykla-skalski/uploadkit/internal/config"
	"github.com/smykla-skalski/uploadkit/pkg/config"
)

// exportEnv writes one FILE_UPLOAD_<PATH>=<value> line per leaf. Arrays are
// JSON encoded and other scalars are written raw.
func exportEnv(cfg *config.FileUploadConfig) (string, error) {
	root, err := document(cfg)
	if err != nil {
		return "", err
	}

	var lines []string
	if err := collectEnv(root, nil, &lines); err != nil {
		return "", err
	}

	return strings.Join(lines, "\n"), nil
}

func collectEnv(node *yaml.Node, path []string, lines *[]string) error {
	for i := 0; i+1 < len(node.Content); i += 2 {
		segments := append(append([]string{}, path...), node.Content[i].Value)
		value := node.Content[i+1]

		switch value.Kind {
		case yaml.MappingNode:
			if err := collectEnv(value, segments, lines); err != nil {
				return err
			}

			continue
		case yaml.SequenceNode:
			text, err := nodeJSON(value)
			if err != nil {
				return err
			}

			*lines = append(*lines, internalconfig.EnvKey(segments)+"="+text)
		default:
			*lines = append(*lines, internalconfig.EnvKey(segments)+"="+value.Value)
		}
	}

	return nil
}
