package hamlint

import (
	"github.com/rs/zerolog"
)

// Parameters are the resolved parameter values of a linter:
// declared defaults overridden by the config section.
type Parameters struct {
	linter string
	values map[string]interface{}
	logger zerolog.Logger
}

func newParameters(info *LinterInfo, overrides map[string]interface{}, logger zerolog.Logger) Parameters {
	values := make(map[string]interface{}, len(info.Params)+len(overrides))
	for key, p := range info.Params {
		values[key] = p.Value
	}
	for key, v := range overrides {
		values[key] = v
	}
	return Parameters{linter: info.Name, values: values, logger: logger}
}

func (p Parameters) mismatch(key, want string) {
	p.logger.Warn().
		Str("linter", p.linter).
		Str("param", key).
		Msgf("incorrect value for `%s`, want %s", key, want)
}

func (p Parameters) Int(key string, defaultValue int) int {
	if value, ok := p.values[key]; ok {
		if value, ok := value.(int); ok {
			return value
		}
		p.mismatch(key, "int")
	}
	return defaultValue
}

func (p Parameters) String(key, defaultValue string) string {
	if value, ok := p.values[key]; ok {
		if value, ok := value.(string); ok {
			return value
		}
		p.mismatch(key, "string")
	}
	return defaultValue
}

func (p Parameters) Bool(key string, defaultValue bool) bool {
	if value, ok := p.values[key]; ok {
		if value, ok := value.(bool); ok {
			return value
		}
		p.mismatch(key, "bool")
	}
	return defaultValue
}

// Strings returns a list of strings.
// Both []string and decoded YAML sequences are accepted.
func (p Parameters) Strings(key string, defaultValue []string) []string {
	value, ok := p.values[key]
	if !ok {
		return defaultValue
	}
	switch value := value.(type) {
	case []string:
		return value
	case []interface{}:
		list := make([]string, 0, len(value))
		for _, v := range value {
			s, ok := v.(string)
			if !ok {
				p.mismatch(key, "list of strings")
				return defaultValue
			}
			list = append(list, s)
		}
		return list
	}
	p.mismatch(key, "list of strings")
	return defaultValue
}

// StringMap returns a string to string mapping.
// Both map[string]string and decoded YAML mappings are accepted.
func (p Parameters) StringMap(key string, defaultValue map[string]string) map[string]string {
	value, ok := p.values[key]
	if !ok {
		return defaultValue
	}
	switch value := value.(type) {
	case map[string]string:
		return value
	case map[string]interface{}:
		m := make(map[string]string, len(value))
		for k, v := range value {
			s, ok := v.(string)
			if !ok {
				p.mismatch(key, "mapping of strings")
				return defaultValue
			}
			m[k] = s
		}
		return m
	}
	p.mismatch(key, "mapping of strings")
	return defaultValue
}
