package jsonlogic

import (
	"fmt"
	"reflect"
	"strings"
	"unicode/utf8"
)

// ExceedsLength: [valor, max] -> len(valor) > max
func ExceedsLength(args ...any) any {
	if len(args) < 2 {
		return false
	}
	return utf8.RuneCountInString(toString(args[0])) > int(toFloat64(args[1]))
}

// LengthNot: [valor, n] -> len(valor) != n
func LengthNot(args ...any) any {
	if len(args) < 2 {
		return false
	}
	return utf8.RuneCountInString(toString(args[0])) != int(toFloat64(args[1]))
}

// OutsideCharset: [valor, permitidos] -> algum carácter fora do conjunto
func OutsideCharset(args ...any) any {
	if len(args) < 2 {
		return false
	}
	allowed := toString(args[1])
	for _, r := range toString(args[0]) {
		if !strings.ContainsRune(allowed, r) {
			return true
		}
	}
	return false
}

// NotInList: [valor, lista] -> lista não vazia e valor fora dela
func NotInList(args ...any) any {
	if len(args) < 2 {
		return false
	}
	list := reflect.ValueOf(args[1])
	if list.Kind() != reflect.Slice || list.Len() == 0 {
		return false
	}
	v := toString(args[0])
	for i := 0; i < list.Len(); i++ {
		if toString(list.Index(i).Interface()) == v {
			return false
		}
	}
	return true
}

func toString(v any) string {
	switch val := v.(type) {
	case nil:
		return ""
	case string:
		return val
	default:
		return fmt.Sprint(val)
	}
}

func toFloat64(v any) float64 {
	switch val := v.(type) {
	case float64:
		return val
	case float32:
		return float64(val)
	case int:
		return float64(val)
	case int64:
		return float64(val)
	case int32:
		return float64(val)
	case uint:
		return float64(val)
	case uint64:
		return float64(val)
	case uint32:
		return float64(val)
	default:
		return 0
	}
}
