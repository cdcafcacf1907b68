package interfaces

import (
	"context"
	"fmt"

	"github.com/Victor-armando18/azure-connector/internal/domain"
	"github.com/Victor-armando18/azure-connector/internal/infrastructure/hooks"
)

// RegisterForwarderHooks liga os dois eventos do conector ao serviço.
func RegisterForwarderHooks(reg *hooks.Registry, svc ForwarderFacade) {
	reg.AddAction(domain.EventSendUserRequest, hooks.DefaultPriority, 1, func(ctx context.Context, args ...any) error {
		record, err := recordArg(args[0])
		if err != nil {
			return err
		}
		svc.SendUserRequest(ctx, record)
		return nil
	})

	reg.AddAction(domain.EventSendDebugMessage, hooks.DefaultPriority, 2, func(ctx context.Context, args ...any) error {
		debug, _ := args[1].(bool)
		_, err := svc.SendDebugMessage(ctx, args[0], debug)
		return err
	})
}

func recordArg(arg any) (domain.PurchaseRecord, error) {
	switch v := arg.(type) {
	case domain.PurchaseRecord:
		return v, nil
	case map[string]any:
		return domain.PurchaseRecord(v), nil
	}
	return nil, fmt.Errorf("%s expects a purchase record, got %T", domain.EventSendUserRequest, arg)
}
