package usecase

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"sync"
	"testing"

	"github.com/Victor-armando18/azure-connector/internal/domain"
	"github.com/Victor-armando18/azure-connector/internal/infrastructure"
	"github.com/Victor-armando18/azure-connector/internal/interfaces"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type sentMessage struct {
	Message any
	Debug   bool
}

type fakeSender struct {
	mu    sync.Mutex
	sent  []sentMessage
	reply []byte
	err   error
}

func (f *fakeSender) Send(ctx context.Context, message any, debug bool) ([]byte, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.sent = append(f.sent, sentMessage{Message: message, Debug: debug})
	if f.err != nil {
		return nil, f.err
	}
	return f.reply, nil
}

func quietLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

type staticLoader struct{ pack domain.RulePackDefinition }

func (l staticLoader) Load(ctx context.Context) (*domain.RulePackDefinition, error) {
	return &l.pack, nil
}

type brokenExecutor struct{}

func (brokenExecutor) Execute(ctx context.Context, ruleData, contextVars map[string]any) (any, error) {
	return nil, fmt.Errorf("%w: boom", domain.ErrRuleExecutionFailed)
}

func (brokenExecutor) RegisterCustomOperator(name string, logic func(args ...any) any) {}

func brokenGuards() *GuardService {
	pack := domain.RulePackDefinition{Version: "v1", Rules: []domain.RuleConfig{
		{ID: "vat-required", Field: "vat", Logic: map[string]any{"!": []any{map[string]any{"var": "payload.vat"}}}},
	}}
	return NewGuardService(staticLoader{pack: pack}, brokenExecutor{}, nil, quietLogger())
}

func newGuards(licenses ...string) *GuardService {
	return NewGuardService(infrastructure.NewFileRuleLoader(""), infrastructure.NewJsonLogicExecutor(), licenses, quietLogger())
}

func TestForwarderService_SendUserRequest(t *testing.T) {
	t.Run("Deve enviar o payload mapeado sem debug", func(t *testing.T) {
		sender := &fakeSender{reply: []byte("ok")}
		svc := NewForwarderService(sender, WithLogger(quietLogger()))

		svc.SendUserRequest(context.Background(), purchaseFixture(t, fullPurchase))

		require.Len(t, sender.sent, 1)
		assert.False(t, sender.sent[0].Debug)
		payload, ok := sender.sent[0].Message.(domain.OutboundPayload)
		require.True(t, ok)
		assert.Equal(t, "a@b.com", payload.Email)
		assert.Equal(t, "a_b.com", payload.Principle)
		assert.Equal(t, "Pro License", payload.License)
	})

	t.Run("Falha de transporte nao chega ao chamador", func(t *testing.T) {
		sender := &fakeSender{err: fmt.Errorf("%w: connection refused", domain.ErrTransport)}
		svc := NewForwarderService(sender, WithLogger(quietLogger()))

		assert.NotPanics(t, func() {
			svc.SendUserRequest(context.Background(), purchaseFixture(t, fullPurchase))
		})
		assert.Len(t, sender.sent, 1)
	})

	t.Run("Registo invalido nao e enviado", func(t *testing.T) {
		sender := &fakeSender{}
		svc := NewForwarderService(sender, WithLogger(quietLogger()))

		svc.SendUserRequest(context.Background(), purchaseFixture(t, `{"post_data": {"edd_email": "a@b.com"}}`))
		assert.Empty(t, sender.sent)
	})

	t.Run("Guardas em modo nao strict apenas registam", func(t *testing.T) {
		sender := &fakeSender{}
		svc := NewForwarderService(sender, WithLogger(quietLogger()), WithGuards(newGuards("Gold"), false))

		svc.SendUserRequest(context.Background(), purchaseFixture(t, fullPurchase))
		assert.Len(t, sender.sent, 1)
	})

	t.Run("Guardas em modo strict bloqueiam o envio", func(t *testing.T) {
		sender := &fakeSender{}
		svc := NewForwarderService(sender, WithLogger(quietLogger()), WithGuards(newGuards("Gold"), true))

		svc.SendUserRequest(context.Background(), purchaseFixture(t, fullPurchase))
		assert.Empty(t, sender.sent)
	})

	t.Run("Regra que falha bloqueia em modo strict", func(t *testing.T) {
		sender := &fakeSender{}
		svc := NewForwarderService(sender, WithLogger(quietLogger()), WithGuards(brokenGuards(), true))

		svc.SendUserRequest(context.Background(), purchaseFixture(t, fullPurchase))
		assert.Empty(t, sender.sent)
	})

	t.Run("Regra que falha apenas regista fora de strict", func(t *testing.T) {
		sender := &fakeSender{}
		svc := NewForwarderService(sender, WithLogger(quietLogger()), WithGuards(brokenGuards(), false))

		svc.SendUserRequest(context.Background(), purchaseFixture(t, fullPurchase))
		assert.Len(t, sender.sent, 1)
	})

	t.Run("Payload valido passa em modo strict", func(t *testing.T) {
		sender := &fakeSender{}
		svc := NewForwarderService(sender, WithLogger(quietLogger()), WithGuards(newGuards("Pro License"), true))

		svc.SendUserRequest(context.Background(), purchaseFixture(t, fullPurchase))
		assert.Len(t, sender.sent, 1)
	})
}

func TestForwarderService_SendDebugMessage(t *testing.T) {
	t.Run("Reencaminha a mensagem com a flag", func(t *testing.T) {
		sender := &fakeSender{reply: []byte(`{"ok":true}`)}
		svc := NewForwarderService(sender, WithLogger(quietLogger()))

		out, err := svc.SendDebugMessage(context.Background(), []any{"hello", 1.0}, true)
		require.NoError(t, err)
		assert.JSONEq(t, `{"ok":true}`, string(out))
		require.Len(t, sender.sent, 1)
		assert.True(t, sender.sent[0].Debug)
		assert.Equal(t, []any{"hello", 1.0}, sender.sent[0].Message)
	})

	t.Run("Erro de transporte e devolvido", func(t *testing.T) {
		sender := &fakeSender{err: fmt.Errorf("%w: timeout", domain.ErrTransport)}
		svc := NewForwarderService(sender, WithLogger(quietLogger()))

		_, err := svc.SendDebugMessage(context.Background(), "x", false)
		assert.True(t, errors.Is(err, interfaces.ErrTransport))
	})
}

func TestForwarderService_Preview(t *testing.T) {
	svc := NewForwarderService(&fakeSender{}, WithLogger(quietLogger()), WithGuards(newGuards("Pro License"), false))

	t.Run("Payload valido sem violacoes", func(t *testing.T) {
		res, err := svc.Preview(context.Background(), purchaseFixture(t, fullPurchase))
		require.NoError(t, err)
		assert.Equal(t, "a_b.com", res.Payload.Principle)
		assert.Empty(t, res.Violations)
	})

	t.Run("Erro de mapeamento", func(t *testing.T) {
		_, err := svc.Preview(context.Background(), domain.PurchaseRecord{})
		assert.ErrorIs(t, err, domain.ErrMissingEmail)
	})
}

func TestGuardService_Check(t *testing.T) {
	guards := newGuards("Pro License")
	valid := func() domain.OutboundPayload {
		p, err := NewPayloadMapper().Build(purchaseFixture(t, fullPurchase))
		require.NoError(t, err)
		return p
	}

	ruleIDs := func(vs []domain.GuardViolation) []string {
		out := []string{}
		for _, v := range vs {
			out = append(out, v.RuleID)
		}
		return out
	}

	tests := []struct {
		name   string
		mutate func(p *domain.OutboundPayload)
		want   []string
	}{
		{"payload valido", func(p *domain.OutboundPayload) {}, []string{}},
		{"email sem arroba", func(p *domain.OutboundPayload) { p.Email = "ab.com" }, []string{"email-format"}},
		{"telefone com letras", func(p *domain.OutboundPayload) { p.Phone = "call me" }, []string{"phone-charset"}},
		{"licenca desconhecida", func(p *domain.OutboundPayload) { p.License = "Gold" }, []string{"license-known"}},
		{"pais em minusculas", func(p *domain.OutboundPayload) { p.Country = "au" }, []string{"country-charset"}},
		{"pais com tres letras", func(p *domain.OutboundPayload) { p.Country = "AUS" }, []string{"country-length"}},
		{"codigo postal longo", func(p *domain.OutboundPayload) { p.Postcode = "12345678901" }, []string{"max-length-postcode"}},
		{"empresa em falta", func(p *domain.OutboundPayload) { p.Business = "" }, []string{"required-business"}},
		{"apelido e estado sao opcionais", func(p *domain.OutboundPayload) { p.Surname = ""; p.State = "" }, []string{}},
	}

	t.Run("regra que falha conta como violacao", func(t *testing.T) {
		violations, err := brokenGuards().Check(context.Background(), valid())
		require.NoError(t, err)
		require.Len(t, violations, 1)
		assert.Equal(t, "vat-required", violations[0].RuleID)
		assert.True(t, violations[0].Failed)
		assert.Contains(t, violations[0].Context, "boom")
	})

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := valid()
			tt.mutate(&p)
			violations, err := guards.Check(context.Background(), p)
			require.NoError(t, err)
			assert.Equal(t, tt.want, ruleIDs(violations))
		})
	}
}
