package main

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/Victor-armando18/azure-connector/internal/domain"
	"github.com/Victor-armando18/azure-connector/internal/infrastructure"
	"github.com/Victor-armando18/azure-connector/internal/infrastructure/hooks"
	"github.com/Victor-armando18/azure-connector/internal/interfaces"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
)

type PatchRequest struct {
	Record domain.PurchaseRecord `json:"record"`
	Patch  json.RawMessage       `json:"patch"`
}

func newServer(registry *hooks.Registry, svc interfaces.ForwarderFacade, logger *slog.Logger) *echo.Echo {
	e := echo.New()
	e.HideBanner = true

	e.Use(middleware.Recover())
	e.Use(middleware.RequestLoggerWithConfig(middleware.RequestLoggerConfig{
		LogMethod:   true,
		LogURI:      true,
		LogStatus:   true,
		LogLatency:  true,
		LogError:    true,
		HandleError: true,
		LogValuesFunc: func(c echo.Context, v middleware.RequestLoggerValues) error {
			attrs := []any{"method", v.Method, "uri", v.URI, "status", v.Status, "latency", v.Latency}
			if v.Error != nil {
				logger.Warn("request", append(attrs, "error", v.Error)...)
				return nil
			}
			logger.Info("request", attrs...)
			return nil
		},
	}))
	e.Use(middleware.CORSWithConfig(middleware.CORSConfig{
		AllowOrigins: []string{"*"},
		AllowMethods: []string{http.MethodPost, http.MethodPatch, http.MethodOptions, http.MethodGet},
		AllowHeaders: []string{echo.HeaderContentType, echo.HeaderAccept},
	}))

	e.GET("/healthz", handleHealth(registry))
	e.POST("/hooks/:event", handleHook(registry))
	e.POST("/purchases", handlePurchase(registry))
	e.PATCH("/purchases", handlePatch(registry))
	e.POST("/purchases/preview", handlePreview(svc))
	e.POST("/debug", handleDebug(svc))
	return e
}

// fireAndForget dispara o evento num contexto que não é cancelado quando o
// cliente HTTP desliga.
func fireAndForget(c echo.Context, registry *hooks.Registry, event string, args ...any) int {
	ctx := context.WithoutCancel(c.Request().Context())
	return registry.DoAction(ctx, event, args...)
}

func decodeBody(c echo.Context, v any) error {
	if err := json.NewDecoder(c.Request().Body).Decode(v); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Payload inválido: "+err.Error())
	}
	return nil
}

func handleHealth(registry *hooks.Registry) echo.HandlerFunc {
	return func(c echo.Context) error {
		return c.JSON(http.StatusOK, map[string]any{"status": "ok", "events": registry.Events()})
	}
}

func handleHook(registry *hooks.Registry) echo.HandlerFunc {
	return func(c echo.Context) error {
		event := c.Param("event")
		if !registry.HasAction(event) {
			return echo.NewHTTPError(http.StatusNotFound, interfaces.ErrUnknownEvent.Error()+": "+event)
		}

		var args []any
		if err := decodeBody(c, &args); err != nil {
			return err
		}
		n := fireAndForget(c, registry, event, args...)
		return c.JSON(http.StatusAccepted, map[string]any{"event": event, "handlers": n})
	}
}

func handlePurchase(registry *hooks.Registry) echo.HandlerFunc {
	return func(c echo.Context) error {
		var record domain.PurchaseRecord
		if err := decodeBody(c, &record); err != nil {
			return err
		}
		n := fireAndForget(c, registry, domain.EventSendUserRequest, record)
		return c.JSON(http.StatusAccepted, map[string]any{"event": domain.EventSendUserRequest, "handlers": n})
	}
}

func handlePatch(registry *hooks.Registry) echo.HandlerFunc {
	return func(c echo.Context) error {
		var req PatchRequest
		if err := decodeBody(c, &req); err != nil {
			return err
		}

		updated, delta, err := infrastructure.ApplyRecordPatch(req.Record, req.Patch)
		if err != nil {
			return c.JSON(http.StatusUnprocessableEntity, map[string]string{"error": err.Error()})
		}

		n := fireAndForget(c, registry, domain.EventSendUserRequest, updated)
		return c.JSON(http.StatusAccepted, map[string]any{
			"event":    domain.EventSendUserRequest,
			"handlers": n,
			"delta":    delta,
		})
	}
}

func handlePreview(svc interfaces.ForwarderFacade) echo.HandlerFunc {
	return func(c echo.Context) error {
		var record domain.PurchaseRecord
		if err := decodeBody(c, &record); err != nil {
			return err
		}

		res, err := svc.Preview(c.Request().Context(), record)
		switch {
		case errors.Is(err, domain.ErrMissingEmail), errors.Is(err, domain.ErrEmptyCart):
			return c.JSON(http.StatusUnprocessableEntity, map[string]string{"error": err.Error()})
		case err != nil:
			return c.JSON(http.StatusInternalServerError, map[string]string{"error": err.Error()})
		}
		return c.JSON(http.StatusOK, res)
	}
}

func handleDebug(svc interfaces.ForwarderFacade) echo.HandlerFunc {
	return func(c echo.Context) error {
		debug := false
		if q := c.QueryParam("debug"); q != "" {
			v, err := strconv.ParseBool(q)
			if err != nil {
				return echo.NewHTTPError(http.StatusBadRequest, "debug must be a boolean")
			}
			debug = v
		}

		var message any
		if err := decodeBody(c, &message); err != nil {
			return err
		}

		out, err := svc.SendDebugMessage(c.Request().Context(), message, debug)
		resp := map[string]any{"delivered": err == nil, "debug": debug, "response": string(out)}
		if err != nil {
			resp["error"] = err.Error()
		}
		return c.JSON(http.StatusOK, resp)
	}
}
