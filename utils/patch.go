package utils

import (
	"reflect"
	"strconv"
	"strings"
)

// UpdatesFromPtrDTO turns a pointer-field DTO into a gorm Updates map. Only
// fields the client actually sent (non-nil pointers) are included, keyed by
// the json tag name so a PATCH can distinguish "leave alone" from "set to
// zero value". The renames map translates json names to column names where
// they differ.
func UpdatesFromPtrDTO(dto any, renames map[string]string) map[string]any {
	updates := make(map[string]any)

	v := reflect.ValueOf(dto)
	if v.Kind() != reflect.Ptr || v.Elem().Kind() != reflect.Struct {
		return updates
	}
	elem := v.Elem()
	typ := elem.Type()

	for i := 0; i < typ.NumField(); i++ {
		field := elem.Field(i)
		if field.Kind() != reflect.Ptr || field.IsNil() {
			continue
		}

		name := jsonName(typ.Field(i))
		if name == "" {
			continue
		}
		if alt, ok := renames[name]; ok && alt != "" {
			name = alt
		}
		updates[name] = field.Elem().Interface()
	}
	return updates
}

// jsonName extracts the field name from a json tag, dropping comma options.
// Untagged and json:"-" fields yield "".
func jsonName(sf reflect.StructField) string {
	tag := sf.Tag.Get("json")
	if tag == "" || tag == "-" {
		return ""
	}
	if idx := strings.IndexByte(tag, ','); idx >= 0 {
		tag = tag[:idx]
	}
	return tag
}

// ParseIntDefault parses a query-string integer, falling back to def for
// anything missing, malformed or negative.
func ParseIntDefault(s string, def int) int {
	v, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil || v < 0 {
		return def
	}
	return v
}
