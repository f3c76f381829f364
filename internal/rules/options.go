package rules

import (
	"time"

	"go-chatmod/internal/errs"
)

// Options is the raw configuration mapping for one condition or action,
// as decoded from JSON. Getters validate types and report ConfigErrors
// so construction failures surface at load time, not at event time.
type Options map[string]interface{}

func (o Options) String(key, def string) (string, error) {
	v, ok := o[key]
	if !ok || v == nil {
		return def, nil
	}
	s, ok := v.(string)
	if !ok {
		return "", errs.Config("option %q must be a string", key)
	}
	return s, nil
}

func (o Options) RequireString(key string) (string, error) {
	v, ok := o[key]
	if !ok {
		return "", errs.Config("missing required option %q", key)
	}
	s, ok := v.(string)
	if !ok || s == "" {
		return "", errs.Config("option %q must be a non-empty string", key)
	}
	return s, nil
}

func (o Options) Bool(key string, def bool) (bool, error) {
	v, ok := o[key]
	if !ok || v == nil {
		return def, nil
	}
	b, ok := v.(bool)
	if !ok {
		return false, errs.Config("option %q must be a boolean", key)
	}
	return b, nil
}

func (o Options) Int(key string, def int) (int, error) {
	v, ok := o[key]
	if !ok || v == nil {
		return def, nil
	}
	switch n := v.(type) {
	case float64:
		return int(n), nil
	case int:
		return n, nil
	default:
		return 0, errs.Config("option %q must be a number", key)
	}
}

// StringList accepts a JSON array of strings. Returns nil when absent.
func (o Options) StringList(key string) ([]string, error) {
	v, ok := o[key]
	if !ok || v == nil {
		return nil, nil
	}
	raw, ok := v.([]interface{})
	if !ok {
		return nil, errs.Config("option %q must be a list of strings", key)
	}
	out := make([]string, 0, len(raw))
	for _, item := range raw {
		s, ok := item.(string)
		if !ok {
			return nil, errs.Config("option %q must contain only strings", key)
		}
		out = append(out, s)
	}
	return out, nil
}

func (o Options) RequireStringList(key string) ([]string, error) {
	list, err := o.StringList(key)
	if err != nil {
		return nil, err
	}
	if len(list) == 0 {
		return nil, errs.Config("option %q must be a non-empty list", key)
	}
	return list, nil
}

// Millis reads a millisecond count.
func (o Options) Millis(key string, def time.Duration) (time.Duration, error) {
	n, err := o.Int(key, int(def/time.Millisecond))
	if err != nil {
		return 0, err
	}
	if n < 0 {
		return 0, errs.Config("option %q must not be negative", key)
	}
	return time.Duration(n) * time.Millisecond, nil
}

// OptionalDuration reads either a number of seconds or a Go duration
// string ("72h"). Returns nil when the key is absent.
func (o Options) OptionalDuration(key string) (*time.Duration, error) {
	v, ok := o[key]
	if !ok || v == nil {
		return nil, nil
	}
	switch n := v.(type) {
	case float64:
		d := time.Duration(n * float64(time.Second))
		return &d, nil
	case string:
		d, err := time.ParseDuration(n)
		if err != nil {
			return nil, errs.Config("option %q is not a valid duration: %v", key, err)
		}
		return &d, nil
	default:
		return nil, errs.Config("option %q must be seconds or a duration string", key)
	}
}
