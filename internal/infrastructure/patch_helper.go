package infrastructure

import (
	"encoding/json"
	"fmt"

	"github.com/Victor-armando18/azure-connector/internal/domain"
	jsonpatch "github.com/evanphx/json-patch/v5"
)

// ApplyRecordPatch aplica um patch RFC 6902 ao registo de compra e devolve o
// registo atualizado e o delta (merge patch RFC 7386). O original não é alterado.
func ApplyRecordPatch(original domain.PurchaseRecord, patchData []byte) (domain.PurchaseRecord, json.RawMessage, error) {
	originalJSON, err := json.Marshal(original)
	if err != nil {
		return nil, nil, fmt.Errorf("falha ao serializar registo: %w", err)
	}

	patch, err := jsonpatch.DecodePatch(patchData)
	if err != nil {
		return nil, nil, fmt.Errorf("falha ao decodificar patch: %w", err)
	}

	modifiedJSON, err := patch.Apply(originalJSON)
	if err != nil {
		return nil, nil, fmt.Errorf("falha ao aplicar patch: %w", err)
	}

	delta, err := jsonpatch.CreateMergePatch(originalJSON, modifiedJSON)
	if err != nil {
		return nil, nil, fmt.Errorf("falha ao calcular delta: %w", err)
	}

	var updated domain.PurchaseRecord
	if err := json.Unmarshal(modifiedJSON, &updated); err != nil {
		return nil, nil, err
	}
	return updated, json.RawMessage(delta), nil
}
