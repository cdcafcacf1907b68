// Package forwarder expõe o conector para quem o quer embutir noutro
// processo sem passar pelo servidor HTTP.
package forwarder

import (
	"context"
	"log/slog"
	"time"

	"github.com/Victor-armando18/azure-connector/internal/domain"
	"github.com/Victor-armando18/azure-connector/internal/infrastructure"
	"github.com/Victor-armando18/azure-connector/internal/infrastructure/hooks"
	"github.com/Victor-armando18/azure-connector/internal/infrastructure/transport"
	"github.com/Victor-armando18/azure-connector/internal/interfaces"
	"github.com/Victor-armando18/azure-connector/internal/usecase"
)

type (
	PurchaseRecord  = domain.PurchaseRecord
	OutboundPayload = domain.OutboundPayload
	PreviewResult   = domain.PreviewResult
	GuardViolation  = domain.GuardViolation
)

const (
	EventSendUserRequest  = domain.EventSendUserRequest
	EventSendDebugMessage = domain.EventSendDebugMessage
)

var ErrTransport = domain.ErrTransport

type Config struct {
	BaseURL    string
	DebugPath  string
	PathSuffix string
	Timeout    time.Duration
	Headers    map[string]string

	RulesPath     string
	KnownLicenses []string
	Strict        bool

	Logger *slog.Logger
}

type Client struct {
	svc      interfaces.ForwarderFacade
	registry *hooks.Registry
}

func New(cfg Config) (*Client, error) {
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}

	sender, err := transport.NewLogicAppClient(transport.Config{
		BaseURL:    cfg.BaseURL,
		DebugPath:  cfg.DebugPath,
		PathSuffix: cfg.PathSuffix,
		Timeout:    cfg.Timeout,
		Headers:    cfg.Headers,
	})
	if err != nil {
		return nil, err
	}

	loader := infrastructure.NewFileRuleLoader(cfg.RulesPath)
	if _, err := loader.Load(context.Background()); err != nil {
		return nil, err
	}
	guards := usecase.NewGuardService(loader, infrastructure.NewJsonLogicExecutor(), cfg.KnownLicenses, logger)
	svc := usecase.NewForwarderService(sender, usecase.WithGuards(guards, cfg.Strict), usecase.WithLogger(logger))

	registry := hooks.NewRegistry(logger)
	interfaces.RegisterForwarderHooks(registry, svc)

	return &Client{svc: svc, registry: registry}, nil
}

func (c *Client) SendUserRequest(ctx context.Context, record PurchaseRecord) {
	c.svc.SendUserRequest(ctx, record)
}

func (c *Client) SendDebugMessage(ctx context.Context, message any, debug bool) ([]byte, error) {
	return c.svc.SendDebugMessage(ctx, message, debug)
}

func (c *Client) Preview(ctx context.Context, record PurchaseRecord) (*PreviewResult, error) {
	return c.svc.Preview(ctx, record)
}

// DoAction dispara um evento pelo registo de hooks do cliente.
func (c *Client) DoAction(ctx context.Context, event string, args ...any) int {
	return c.registry.DoAction(ctx, event, args...)
}

// AddAction acrescenta um handler próprio a um evento, por exemplo para
// auditar compras depois do envio.
func (c *Client) AddAction(event string, priority, acceptedArgs int, h func(ctx context.Context, args ...any) error) {
	c.registry.AddAction(event, priority, acceptedArgs, h)
}
