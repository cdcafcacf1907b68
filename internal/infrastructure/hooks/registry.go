package hooks

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"sync"

	"github.com/mitchellh/copystructure"
)

const DefaultPriority = 10

// Handler recebe apenas os argumentos que declarou aceitar.
type Handler func(ctx context.Context, args ...any) error

type action struct {
	priority     int
	acceptedArgs int
	seq          int
	handler      Handler
}

// Registry associa nomes de eventos a handlers. É montado no arranque e
// partilhado pelos pedidos HTTP.
type Registry struct {
	mu      sync.RWMutex
	actions map[string][]action
	seq     int
	logger  *slog.Logger
}

func NewRegistry(logger *slog.Logger) *Registry {
	if logger == nil {
		logger = slog.Default()
	}
	return &Registry{
		actions: make(map[string][]action),
		logger:  logger,
	}
}

// AddAction regista um handler. Prioridades menores correm primeiro; empates
// respeitam a ordem de registo.
func (r *Registry) AddAction(event string, priority, acceptedArgs int, h Handler) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.seq++
	list := append(r.actions[event], action{
		priority:     priority,
		acceptedArgs: acceptedArgs,
		seq:          r.seq,
		handler:      h,
	})
	sort.SliceStable(list, func(i, j int) bool {
		if list[i].priority != list[j].priority {
			return list[i].priority < list[j].priority
		}
		return list[i].seq < list[j].seq
	})
	r.actions[event] = list
}

func (r *Registry) HasAction(event string) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.actions[event]) > 0
}

// Events devolve os eventos com pelo menos um handler, ordenados.
func (r *Registry) Events() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]string, 0, len(r.actions))
	for ev, list := range r.actions {
		if len(list) > 0 {
			out = append(out, ev)
		}
	}
	sort.Strings(out)
	return out
}

// DoAction corre os handlers do evento de forma síncrona e devolve quantos
// foram invocados. Erros e panics dos handlers são registados e engolidos.
func (r *Registry) DoAction(ctx context.Context, event string, args ...any) int {
	r.mu.RLock()
	list := append([]action(nil), r.actions[event]...)
	r.mu.RUnlock()

	for _, a := range list {
		r.invoke(ctx, event, a, args)
	}
	return len(list)
}

func (r *Registry) invoke(ctx context.Context, event string, a action, args []any) {
	defer func() {
		if p := recover(); p != nil {
			r.logger.Error("hook handler panicked", "event", event, "priority", a.priority, "panic", fmt.Sprint(p))
		}
	}()

	passed, err := copyArgs(args, a.acceptedArgs)
	if err != nil {
		r.logger.Error("hook args copy failed", "event", event, "error", err)
		return
	}
	if err := a.handler(ctx, passed...); err != nil {
		r.logger.Warn("hook handler failed", "event", event, "priority", a.priority, "error", err)
	}
}

// copyArgs corta aos n primeiros argumentos (completando com nil) e faz cópia
// profunda, para que um handler não altere o que o seguinte recebe.
func copyArgs(args []any, n int) ([]any, error) {
	out := make([]any, n)
	for i := 0; i < n && i < len(args); i++ {
		if args[i] == nil {
			continue
		}
		c, err := copystructure.Copy(args[i])
		if err != nil {
			return nil, err
		}
		out[i] = c
	}
	return out, nil
}
