package yaml

import (
	"fmt"
	"os"

	"github.com/Victor-armando18/azure-connector/internal/domain"

	"gopkg.in/yaml.v3"
)

// LoadRulePack lê e decodifica um pack de guardas em YAML.
func LoadRulePack(path string) (domain.RulePackDefinition, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return domain.RulePackDefinition{}, fmt.Errorf("failed to read rule file %s: %w", path, err)
	}
	return DecodeRulePack(data)
}

func DecodeRulePack(data []byte) (domain.RulePackDefinition, error) {
	var pack domain.RulePackDefinition
	if err := yaml.Unmarshal(data, &pack); err != nil {
		return domain.RulePackDefinition{}, fmt.Errorf("failed to unmarshal yaml rule pack: %w", err)
	}
	return pack, nil
}
