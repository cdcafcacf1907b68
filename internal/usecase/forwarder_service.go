package usecase

import (
	"context"
	"errors"
	"log/slog"

	"github.com/Victor-armando18/azure-connector/internal/domain"
	"github.com/Victor-armando18/azure-connector/internal/interfaces"
)

// ForwarderService liga o mapper, as guardas e o transporte.
type ForwarderService struct {
	mapper *PayloadMapper
	guards *GuardService
	sender interfaces.Sender
	strict bool
	logger *slog.Logger
}

type Option func(*ForwarderService)

// WithGuards ativa a validação do payload. Em modo strict as violações
// cancelam o envio; caso contrário são apenas registadas.
func WithGuards(g *GuardService, strict bool) Option {
	return func(s *ForwarderService) {
		s.guards = g
		s.strict = strict
	}
}

func WithLogger(l *slog.Logger) Option {
	return func(s *ForwarderService) { s.logger = l }
}

func NewForwarderService(sender interfaces.Sender, opts ...Option) interfaces.ForwarderFacade {
	s := &ForwarderService{
		mapper: NewPayloadMapper(),
		sender: sender,
		logger: slog.Default(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// SendUserRequest monta o payload e envia-o sem debug. Nada é devolvido ao
// chamador: falhas ficam no log.
func (s *ForwarderService) SendUserRequest(ctx context.Context, record domain.PurchaseRecord) {
	payload, err := s.mapper.Build(record)
	if err != nil {
		s.logger.Error("purchase record not forwarded", "error", err)
		return
	}
	log := s.logger.With("principle", payload.Principle, "license", payload.License)

	if s.guards != nil {
		violations, err := s.guards.Check(ctx, payload)
		if err != nil {
			log.Warn("guards unavailable", "error", err)
		}
		for _, v := range violations {
			log.Warn("payload guard violated", "rule", v.RuleID, "field", v.Field, "reason", v.Context, "failed", v.Failed)
		}
		if s.strict && len(violations) > 0 {
			log.Error("purchase record not forwarded", "error", domain.ErrGuardsRejected, "violations", len(violations))
			return
		}
	}

	if _, err := s.sender.Send(ctx, payload, false); err != nil {
		log.Warn("logic app request failed", "error", err, "transport", errors.Is(err, interfaces.ErrTransport))
		return
	}
	log.Info("purchase forwarded to logic app")
}

// SendDebugMessage reencaminha qualquer valor JSON tal como está.
func (s *ForwarderService) SendDebugMessage(ctx context.Context, message any, debug bool) ([]byte, error) {
	out, err := s.sender.Send(ctx, message, debug)
	if err != nil {
		s.logger.Warn("debug message not delivered", "debug", debug, "error", err)
		return nil, err
	}
	s.logger.Debug("debug message relayed", "debug", debug, "bytes", len(out))
	return out, nil
}

// Preview devolve o payload e as violações sem enviar nada.
func (s *ForwarderService) Preview(ctx context.Context, record domain.PurchaseRecord) (*domain.PreviewResult, error) {
	payload, err := s.mapper.Build(record)
	if err != nil {
		return nil, err
	}
	res := &domain.PreviewResult{Payload: payload, Violations: []domain.GuardViolation{}}
	if s.guards != nil {
		violations, err := s.guards.Check(ctx, payload)
		if err != nil {
			return nil, err
		}
		res.Violations = violations
	}
	return res, nil
}
