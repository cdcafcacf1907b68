package domain

import (
	"encoding/json"
	"strconv"
)

// Field é um valor externo opcional. Present é falso para chaves ausentes e null.
type Field struct {
	Value   string
	Present bool
}

func Present(v string) Field { return Field{Value: v, Present: true} }

// OrElse devolve o valor ou o fallback quando ausente.
func (f Field) OrElse(fallback string) string {
	if !f.Present {
		return fallback
	}
	return f.Value
}

// PurchaseRecord é o registo de compra entregue pela plataforma. Só leitura.
type PurchaseRecord map[string]any

// CartDetails devolve o sub-mapa cart_details. Quando chega como array JSON
// os itens ficam indexados por "0", "1", ...
func (r PurchaseRecord) CartDetails() map[string]any {
	return asMap(r[KeyCartDetails])
}

func (r PurchaseRecord) PostData() map[string]any {
	return asMap(r[KeyPostData])
}

func (r PurchaseRecord) CartField(key string) Field {
	return FieldOf(r.CartDetails(), key)
}

func (r PurchaseRecord) PostField(key string) Field {
	return FieldOf(r.PostData(), key)
}

// CartItem devolve o item de índice i, ou nil.
func (r PurchaseRecord) CartItem(i int) map[string]any {
	return asMap(r.CartDetails()[strconv.Itoa(i)])
}

func asMap(v any) map[string]any {
	switch t := v.(type) {
	case map[string]any:
		return t
	case PurchaseRecord:
		return t
	case []any:
		m := make(map[string]any, len(t))
		for i, item := range t {
			m[strconv.Itoa(i)] = item
		}
		return m
	}
	return nil
}

// FieldOf lê uma chave de um mapa como campo opcional.
func FieldOf(m map[string]any, key string) Field {
	v, ok := m[key]
	if !ok || v == nil {
		return Field{}
	}
	return Present(stringify(v))
}

func stringify(v any) string {
	switch t := v.(type) {
	case string:
		return t
	case float64:
		return strconv.FormatFloat(t, 'f', -1, 64)
	case json.Number:
		return t.String()
	case int:
		return strconv.Itoa(t)
	case int64:
		return strconv.FormatInt(t, 10)
	case bool:
		return strconv.FormatBool(t)
	}
	b, err := json.Marshal(v)
	if err != nil {
		return ""
	}
	return string(b)
}
