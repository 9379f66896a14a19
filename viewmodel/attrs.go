package viewmodel

import (
	"reflect"
	"strings"
)

// Attributer is implemented by domain objects that expose their attributes by name
// themselves instead of through struct fields.
type Attributer interface {
	Attr(name string) (value interface{}, ok bool)
}

var initialisms = map[string]string{
	"id":   "ID",
	"url":  "URL",
	"uuid": "UUID",
	"api":  "API",
	"http": "HTTP",
}

/*
Attr looks up the attribute name on source. The lookup order is:

	1. source.Attr(name) when source is an Attributer
	2. the name key of a map with string keys
	3. the exported struct field called name
	4. the exported struct field whose json or bson tag is name
	5. the exported struct field named after the CamelCase form of a snake_case name,
	   with and without common initialisms ("creation_date" -> CreationDate,
	   "owner_id" -> OwnerId or OwnerID)

Pointers and interfaces are dereferenced first. ok is false when nothing matches.
*/
func Attr(source interface{}, name string) (value interface{}, ok bool) {
	if source == nil || name == "" {
		return nil, false
	}

	if attributer, isAttributer := source.(Attributer); isAttributer {
		return attributer.Attr(name)
	}

	if mapping, isMap := source.(map[string]interface{}); isMap {
		value, ok = mapping[name]
		return value, ok
	}

	sourceValue := reflect.ValueOf(source)
	for sourceValue.Kind() == reflect.Ptr || sourceValue.Kind() == reflect.Interface {
		if sourceValue.IsNil() {
			return nil, false
		}
		sourceValue = sourceValue.Elem()
	}

	switch sourceValue.Kind() {
	case reflect.Map:
		if sourceValue.Type().Key().Kind() != reflect.String {
			return nil, false
		}
		found := sourceValue.MapIndex(reflect.ValueOf(name).Convert(sourceValue.Type().Key()))
		if !found.IsValid() {
			return nil, false
		}
		return found.Interface(), true
	case reflect.Struct:
		return structAttr(sourceValue, name)
	default:
		return nil, false
	}
}

func structAttr(structValue reflect.Value, name string) (interface{}, bool) {
	structType := structValue.Type()

	candidates := []string{name}
	if strings.Contains(name, "_") || strings.ToLower(name) == name {
		candidates = append(candidates, camelCase(name, false), camelCase(name, true))
	}

	for _, candidate := range candidates {
		if field, ok := structType.FieldByName(candidate); ok && field.IsExported() {
			if found, err := structValue.FieldByIndexErr(field.Index); err == nil {
				return found.Interface(), true
			}
		}
	}

	for _, field := range reflect.VisibleFields(structType) {
		if !field.IsExported() || field.Anonymous {
			continue
		}
		if tagName(field, "json") != name && tagName(field, "bson") != name {
			continue
		}
		if found, err := structValue.FieldByIndexErr(field.Index); err == nil {
			return found.Interface(), true
		}
	}

	return nil, false
}

func tagName(field reflect.StructField, key string) string {
	tag := field.Tag.Get(key)
	if tag == "" || tag == "-" {
		return ""
	}
	return strings.Split(tag, ",")[0]
}

func camelCase(name string, useInitialisms bool) string {
	var builder strings.Builder
	for _, part := range strings.Split(name, "_") {
		if part == "" {
			continue
		}
		if upper, ok := initialisms[strings.ToLower(part)]; ok && useInitialisms {
			builder.WriteString(upper)
			continue
		}
		builder.WriteString(strings.ToUpper(part[:1]))
		builder.WriteString(part[1:])
	}
	return builder.String()
}

// isEmpty reports whether data counts as "nothing to serialize".
func isEmpty(data interface{}) bool {
	if data == nil {
		return true
	}
	value := reflect.ValueOf(data)
	switch value.Kind() {
	case reflect.Ptr, reflect.Interface:
		return value.IsNil()
	case reflect.Map, reflect.Slice:
		return value.Len() == 0
	default:
		return false
	}
}
