package utils

import (
	"reflect"
	"strings"
)

// NormalizeDTO canonicalizes a create DTO in place: string fields are
// whitespace-trimmed and float64 fields rounded to 2 decimals. dto must be a
// pointer to a struct; anything else is a no-op.
func NormalizeDTO(dto any) {
	forEachField(dto, normalizeValue)
}

// NormalizePtrDTO does the same for patch DTOs built from pointer fields.
// Nil pointers are left nil, so "field absent" survives normalization and
// the patch map stays sparse.
func NormalizePtrDTO(dto any) {
	forEachField(dto, func(f reflect.Value) {
		if f.Kind() != reflect.Ptr || f.IsNil() {
			return
		}
		normalizeValue(f.Elem())
	})
}

func normalizeValue(f reflect.Value) {
	if !f.CanSet() {
		return
	}
	switch f.Kind() {
	case reflect.String:
		f.SetString(strings.TrimSpace(f.String()))
	case reflect.Float64:
		f.SetFloat(Round2(f.Float()))
	}
}

func forEachField(dto any, fn func(reflect.Value)) {
	v := reflect.ValueOf(dto)
	if v.Kind() != reflect.Ptr || v.Elem().Kind() != reflect.Struct {
		return
	}
	elem := v.Elem()
	for i := 0; i < elem.NumField(); i++ {
		fn(elem.Field(i))
	}
}
