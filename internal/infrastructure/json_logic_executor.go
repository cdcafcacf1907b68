package infrastructure

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"github.com/Victor-armando18/azure-connector/internal/infrastructure/jsonlogic"
	"github.com/Victor-armando18/azure-connector/internal/interfaces"
	jl "github.com/diegoholiveira/jsonlogic/v3"
)

type JsonLogicExecutor struct {
	customOps map[string]func(args ...any) any
}

// NewJsonLogicExecutor já vem com os operadores usados pelas guardas de payload.
func NewJsonLogicExecutor() *JsonLogicExecutor {
	j := &JsonLogicExecutor{
		customOps: make(map[string]func(args ...any) any),
	}
	j.RegisterCustomOperator("exceeds_length", jsonlogic.ExceedsLength)
	j.RegisterCustomOperator("length_not", jsonlogic.LengthNot)
	j.RegisterCustomOperator("outside_charset", jsonlogic.OutsideCharset)
	j.RegisterCustomOperator("not_in_list", jsonlogic.NotInList)
	return j
}

func (j *JsonLogicExecutor) RegisterCustomOperator(name string, logic func(args ...any) any) {
	j.customOps[name] = logic
}

func (j *JsonLogicExecutor) Execute(ctx context.Context, ruleData map[string]any, contextVars map[string]any) (any, error) {
	// 1. Operadores customizados no topo da regra
	for opName, fn := range j.customOps {
		if args, ok := ruleData[opName]; ok {
			return j.handleManualEval(ctx, args, contextVars, fn)
		}
	}

	// 2. Execução Standard JsonLogic
	ruleJSON, err := json.Marshal(wrapUnaryArgs(ruleData))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", interfaces.ErrRuleExecutionFailed, err)
	}
	dataJSON, err := json.Marshal(contextVars)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", interfaces.ErrRuleExecutionFailed, err)
	}

	var resultBuffer bytes.Buffer
	if err := jl.Apply(bytes.NewReader(ruleJSON), bytes.NewReader(dataJSON), &resultBuffer); err != nil {
		return nil, fmt.Errorf("%w: %v", interfaces.ErrRuleExecutionFailed, err)
	}

	resultStr := strings.TrimSpace(resultBuffer.String())
	if resultStr == "" || resultStr == "null" {
		return nil, nil
	}

	var res any
	decoder := json.NewDecoder(strings.NewReader(resultStr))
	decoder.UseNumber()
	if err := decoder.Decode(&res); err != nil {
		return nil, fmt.Errorf("%w: %v", interfaces.ErrRuleExecutionFailed, err)
	}
	return finalizeValue(res), nil
}

func (j *JsonLogicExecutor) handleManualEval(ctx context.Context, args any, data map[string]any, fn func(args ...any) any) (any, error) {
	var params []any
	if list, ok := args.([]any); ok {
		for _, item := range list {
			if subRule, isRule := item.(map[string]any); isRule && !isVar(subRule) {
				res, err := j.Execute(ctx, subRule, data)
				if err != nil {
					return nil, err
				}
				params = append(params, res)
			} else {
				params = append(params, resolveVar(item, data))
			}
		}
	} else {
		params = append(params, resolveVar(args, data))
	}
	return fn(params...), nil
}

// wrapUnaryArgs reescreve {"!": {...}} como {"!": [{...}]}. Com o argumento
// solto a biblioteca devolve null quando o var aponta para uma chave ausente.
// Devolve uma cópia; a regra do pack não é alterada.
func wrapUnaryArgs(node any) any {
	switch t := node.(type) {
	case map[string]any:
		out := make(map[string]any, len(t))
		for k, v := range t {
			if (k == "!" || k == "!!") && !isList(v) {
				v = []any{v}
			}
			out[k] = wrapUnaryArgs(v)
		}
		return out
	case []any:
		out := make([]any, len(t))
		for i, v := range t {
			out[i] = wrapUnaryArgs(v)
		}
		return out
	}
	return node
}

func isList(v any) bool {
	_, ok := v.([]any)
	return ok
}

func isVar(m map[string]any) bool {
	_, ok := m["var"]
	return ok && len(m) == 1
}

// resolveVar resolve {"var": "a.b.0"} sobre mapas e listas.
func resolveVar(arg any, data map[string]any) any {
	m, ok := arg.(map[string]any)
	if !ok {
		return arg
	}
	path, ok := m["var"].(string)
	if !ok {
		return arg
	}

	var current any = data
	for _, part := range strings.Split(path, ".") {
		switch node := current.(type) {
		case map[string]any:
			current = node[part]
		case []any:
			i, err := strconv.Atoi(part)
			if err != nil || i < 0 || i >= len(node) {
				return nil
			}
			current = node[i]
		case []string:
			i, err := strconv.Atoi(part)
			if err != nil || i < 0 || i >= len(node) {
				return nil
			}
			current = node[i]
		default:
			return nil
		}
		if current == nil {
			return nil
		}
	}
	return finalizeValue(current)
}

func finalizeValue(val any) any {
	if n, ok := val.(json.Number); ok {
		if f, err := n.Float64(); err == nil {
			return f
		}
	}
	return val
}
