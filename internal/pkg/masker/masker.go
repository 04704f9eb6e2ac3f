// Package masker logs configuration structs with secret fields hidden.
package masker

import (
	"errors"
	"reflect"

	"go.uber.org/zap"
)

var ErrNotPointer = errors.New("masker: config must be a pointer to a struct")

// LogConfig writes one "Config" entry per struct. String fields tagged
// masked:"true" keep only their first and last character; nested structs
// are expanded in place.
func LogConfig(logger *zap.Logger, configs ...interface{}) error {
	for _, cfg := range configs {
		v := reflect.ValueOf(cfg)
		if v.Kind() != reflect.Ptr || v.Elem().Kind() != reflect.Struct {
			return ErrNotPointer
		}
		v = v.Elem()
		logger.Info("Config", zap.Any(v.Type().Name(), Fields(v)))
	}
	return nil
}

// Fields flattens a struct value into a map with masked secrets.
func Fields(v reflect.Value) map[string]interface{} {
	t := v.Type()
	out := make(map[string]interface{}, v.NumField())
	for i := 0; i < v.NumField(); i++ {
		sf := t.Field(i)
		if !sf.IsExported() {
			continue
		}
		f := v.Field(i)
		switch {
		case f.Kind() == reflect.Struct:
			out[sf.Name] = Fields(f)
		case f.Kind() == reflect.String && sf.Tag.Get("masked") == "true":
			out[sf.Name] = Mask(f.String())
		default:
			out[sf.Name] = f.Interface()
		}
	}
	return out
}

// Mask hides s except for its first and last character. Short or empty
// values are fully hidden.
func Mask(s string) string {
	if len(s) <= 2 {
		return "****"
	}
	return s[:1] + "****" + s[len(s)-1:]
}
