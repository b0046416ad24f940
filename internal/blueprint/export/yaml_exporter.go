package export

import (
	"io"

	"gopkg.in/yaml.v3"
)

func MarshalYAML(v any) ([]byte, error) {
	return yaml.Marshal(v)
}

func WriteYAML(w io.Writer, v any) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(v); err != nil {
		return err
	}
	return enc.Close()
}
