package interfaces

import (
	"context"

	"github.com/Victor-armando18/azure-connector/internal/domain"
)

// Erros do domínio reexportados para quem só depende das portas.
// O transporte, o executor de regras e o HTTP usam estes nomes.
var (
	ErrTransport           = domain.ErrTransport
	ErrRuleExecutionFailed = domain.ErrRuleExecutionFailed
	ErrUnknownEvent        = domain.ErrUnknownEvent
)

// Sender envia uma mensagem JSON para a Logic App e devolve o corpo da resposta.
type Sender interface {
	Send(ctx context.Context, message any, debug bool) ([]byte, error)
}

// RulePackLoader carrega o conjunto de guardas (de disco, embed, etc.).
type RulePackLoader interface {
	Load(ctx context.Context) (*domain.RulePackDefinition, error)
}

// RuleExecutor executa uma regra JsonLogic com operadores customizados.
type RuleExecutor interface {
	Execute(ctx context.Context, ruleData map[string]any, contextVars map[string]any) (any, error)
	RegisterCustomOperator(name string, logic func(args ...any) any)
}

// ForwarderFacade é a porta de entrada usada pelos hooks e pelo HTTP.
type ForwarderFacade interface {
	SendUserRequest(ctx context.Context, record domain.PurchaseRecord)
	SendDebugMessage(ctx context.Context, message any, debug bool) ([]byte, error)
	Preview(ctx context.Context, record domain.PurchaseRecord) (*domain.PreviewResult, error)
}
