package transport

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/Victor-armando18/azure-connector/internal/interfaces"
	"github.com/google/uuid"
)

const (
	DefaultDebugPath = "/debug"
	DefaultTimeout   = 30 * time.Second

	HeaderCorrelationID = "X-Correlation-ID"
)

// Config descreve o endpoint da Logic App. PathSuffix guarda a parte final do
// URL (trigger path, api-version, sig) que vem depois do segmento de debug.
type Config struct {
	BaseURL    string
	DebugPath  string
	PathSuffix string
	Timeout    time.Duration // 0 = sem timeout
	Headers    map[string]string
}

type LogicAppClient struct {
	httpClient *http.Client
	cfg        Config
}

func NewLogicAppClient(cfg Config) (interfaces.Sender, error) {
	if cfg.BaseURL == "" {
		return nil, fmt.Errorf("logic app base URL is required")
	}
	if cfg.DebugPath == "" {
		cfg.DebugPath = DefaultDebugPath
	}
	cfg.BaseURL = strings.TrimSuffix(cfg.BaseURL, "/")

	return &LogicAppClient{
		httpClient: &http.Client{Timeout: cfg.Timeout},
		cfg:        cfg,
	}, nil
}

// URL devolve o endpoint alvo para o modo pedido.
func (c *LogicAppClient) URL(debug bool) string {
	url := c.cfg.BaseURL
	if debug {
		url += c.cfg.DebugPath
	}
	return url + c.cfg.PathSuffix
}

// Send faz um único POST JSON. O status HTTP não é inspecionado: qualquer
// resposta completa devolve o corpo. Só falhas de rede devolvem erro.
func (c *LogicAppClient) Send(ctx context.Context, message any, debug bool) ([]byte, error) {
	body, err := json.Marshal(message)
	if err != nil {
		return nil, fmt.Errorf("falha ao serializar mensagem: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.URL(debug), bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", interfaces.ErrTransport, err)
	}
	for k, v := range c.cfg.Headers {
		req.Header.Set(k, v)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set(HeaderCorrelationID, uuid.NewString())

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", interfaces.ErrTransport, err)
	}
	defer resp.Body.Close()

	out, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("%w: reading response: %v", interfaces.ErrTransport, err)
	}
	return out, nil
}
