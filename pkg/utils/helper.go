package utils

import (
	"encoding/json"
	"fmt"
	"reflect"
	"strings"

	"github.com/google/go-querystring/query"
	"gopkg.in/yaml.v3"
)

// FormatObject renders obj as YAML, the same shape as the locator profile file. Struct keys
// follow their yaml tags and func fields are shown as "<function>".
func FormatObject(obj interface{}) (string, error) {
	v := reflect.ValueOf(obj)
	if v.Kind() == reflect.Ptr {
		v = v.Elem()
	}

	if v.Kind() != reflect.Struct {
		out, err := yaml.Marshal(obj)
		if err != nil {
			return "", err
		}
		return strings.TrimRight(string(out), "\n"), nil
	}

	loggable := make(map[string]interface{})
	t := v.Type()
	for i := 0; i < v.NumField(); i++ {
		field := v.Field(i)
		fieldType := t.Field(i)

		name := strings.ToLower(fieldType.Name)
		if tag, _, _ := strings.Cut(fieldType.Tag.Get("yaml"), ","); tag == "-" {
			continue
		} else if tag != "" {
			name = tag
		}

		if field.Kind() == reflect.Func {
			loggable[name] = "<function>"
			continue
		}
		if field.CanInterface() {
			loggable[name] = field.Interface()
		}
	}

	out, err := yaml.Marshal(loggable)
	if err != nil {
		return "", err
	}
	return strings.TrimRight(string(out), "\n"), nil
}

func EncodeURLParams(params interface{}) (string, error) {
	v, err := query.Values(params)
	if err != nil {
		return "", fmt.Errorf("failed to encode url param: %w", err)
	}
	return v.Encode(), nil
}

func BeautifyJSON(data []byte) string {
	var raw interface{}
	if err := json.Unmarshal(data, &raw); err != nil {
		return string(data)
	}
	pretty, err := json.MarshalIndent(raw, "", "  ")
	if err != nil {
		return string(data)
	}
	return string(pretty)
}

// ShortenText collapses whitespace and cuts text to max runes.
func ShortenText(text string, max int) string {
	text = strings.Join(strings.Fields(text), " ")
	runes := []rune(text)
	if max <= 0 || len(runes) <= max {
		return text
	}
	return string(runes[:max-1]) + "…"
}
