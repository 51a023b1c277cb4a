package catalog

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

type catalogFile struct {
	STT           Axis              `yaml:"stt"`
	LLM           Axis              `yaml:"llm"`
	TTS           Axis              `yaml:"tts"`
	LanguageNames map[string]string `yaml:"language_names"`
}

// LoadFile reads a catalog from a YAML file. Model ids contain dots and mixed
// case, so the file is decoded with yaml.v3 directly rather than through viper
// (which splits keys on "." and lower-cases them).
func LoadFile(path string) (*Catalog, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read catalog: %w", err)
	}
	return Parse(raw)
}

// Parse decodes and validates catalog YAML.
func Parse(raw []byte) (*Catalog, error) {
	var f catalogFile
	if err := yaml.Unmarshal(raw, &f); err != nil {
		return nil, fmt.Errorf("decode catalog: %w", err)
	}
	names := f.LanguageNames
	if len(names) == 0 {
		names = Default().names
	}
	c := New(map[Component]Axis{STT: f.STT, LLM: f.LLM, TTS: f.TTS}, names)
	if err := c.Validate(); err != nil {
		return nil, fmt.Errorf("validate catalog: %w", err)
	}
	return c, nil
}
