package usecase

import (
	"context"
	"log/slog"

	"github.com/Victor-armando18/azure-connector/internal/domain"
	"github.com/Victor-armando18/azure-connector/internal/interfaces"
)

// GuardService avalia o pack de guardas sobre um payload. Uma regra que
// devolve true é uma violação. Uma regra que falha a execução também conta,
// marcada com Failed.
type GuardService struct {
	loader   interfaces.RulePackLoader
	executor interfaces.RuleExecutor
	licenses []string
	logger   *slog.Logger
}

func NewGuardService(loader interfaces.RulePackLoader, executor interfaces.RuleExecutor, knownLicenses []string, logger *slog.Logger) *GuardService {
	if logger == nil {
		logger = slog.Default()
	}
	return &GuardService{loader: loader, executor: executor, licenses: knownLicenses, logger: logger}
}

func (g *GuardService) Check(ctx context.Context, payload domain.OutboundPayload) ([]domain.GuardViolation, error) {
	pack, err := g.loader.Load(ctx)
	if err != nil {
		return nil, err
	}

	licenses := make([]any, len(g.licenses))
	for i, l := range g.licenses {
		licenses[i] = l
	}
	vars := map[string]any{
		"payload":  payload.ToMap(),
		"licenses": licenses,
	}

	violations := []domain.GuardViolation{}
	for _, rule := range pack.Rules {
		out, err := g.executor.Execute(ctx, rule.Logic, vars)
		if err != nil {
			g.logger.Warn("guard rule failed", "rule", rule.ID, "error", err)
			violations = append(violations, domain.GuardViolation{
				RuleID:  rule.ID,
				Field:   rule.Field,
				Context: err.Error(),
				Failed:  true,
			})
			continue
		}
		if v, ok := out.(bool); ok && v {
			msg := rule.ErrorMessage
			if msg == "" {
				msg = "Condição restritiva atingida"
			}
			violations = append(violations, domain.GuardViolation{
				RuleID:  rule.ID,
				Field:   rule.Field,
				Context: msg,
			})
		}
	}
	return violations, nil
}
