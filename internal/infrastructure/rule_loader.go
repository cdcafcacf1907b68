package infrastructure

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/Victor-armando18/azure-connector/internal/domain"
	"github.com/Victor-armando18/azure-connector/internal/infrastructure/yaml"
	"github.com/Victor-armando18/azure-connector/internal/interfaces"
	"github.com/Victor-armando18/azure-connector/rules"
)

// FileRuleLoader lê o pack de guardas uma vez e reutiliza-o. Sem Path usa o
// pack embutido.
type FileRuleLoader struct {
	Path string

	once sync.Once
	pack *domain.RulePackDefinition
	err  error
}

func NewFileRuleLoader(path string) interfaces.RulePackLoader {
	return &FileRuleLoader{Path: path}
}

func (l *FileRuleLoader) Load(ctx context.Context) (*domain.RulePackDefinition, error) {
	l.once.Do(func() {
		switch {
		case l.Path == "":
			l.pack, l.err = fromYAML(yaml.DecodeRulePack(rules.Default))
		case isYAML(l.Path):
			l.pack, l.err = fromYAML(yaml.LoadRulePack(l.Path))
		default:
			l.pack, l.err = loadJSONRulePack(l.Path)
		}
	})
	return l.pack, l.err
}

func isYAML(path string) bool {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return true
	}
	return false
}

func fromYAML(def domain.RulePackDefinition, err error) (*domain.RulePackDefinition, error) {
	if err != nil {
		return nil, err
	}
	return &def, nil
}

func loadJSONRulePack(path string) (*domain.RulePackDefinition, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read rule file %s: %w", path, err)
	}
	var def domain.RulePackDefinition
	if err := json.Unmarshal(data, &def); err != nil {
		return nil, fmt.Errorf("failed to unmarshal rule definition: %w", err)
	}
	return &def, nil
}
