// Package optschema implements a small schema-driven validator for
// keyword-style option maps. The program builders in programs/ take typed
// parameters and do not call it.
// It generalizes the dynamic-language "declare a schema, validate a map"
// pattern into a registry of ordered field descriptors evaluated against
// a map[string]any.
package optschema

import (
	"fmt"

	"github.com/solforge/svmsdk/internal/config"
	"github.com/solforge/svmsdk/internal/solkey"
)

// Kind discriminates the validation rule applied to a field's value.
type Kind int

const (
	KindInt Kind = iota
	KindNonNegativeInt
	KindPositiveInt
	KindIntRange
	KindString
	KindBool
	KindKey
	KindKeyList
	KindInSet
	KindCustom
)

// Field describes one named option a builder accepts.
type Field struct {
	Name      string
	Kind      Kind
	Required  bool
	Default   any
	Doc       string
	Min, Max  int64           // used by KindIntRange
	Set       []string        // used by KindInSet
	Predicate func(any) error // used by KindCustom
}

// Schema is an ordered list of field descriptors. Order is preserved for
// documentation purposes; validation order does not affect the result.
type Schema []Field

// Validate accepts a caller-supplied option map, applies defaults for
// missing optional fields, and returns a normalized copy or a descriptive
// ErrInvalidSchema naming the offending field. Unknown fields and missing
// required fields are both rejected.
func (s Schema) Validate(input map[string]any) (map[string]any, error) {
	known := make(map[string]Field, len(s))
	for _, f := range s {
		known[f.Name] = f
	}

	for name := range input {
		if _, ok := known[name]; !ok {
			return nil, fmt.Errorf("%w: unknown option %q", config.ErrInvalidSchema, name)
		}
	}

	out := make(map[string]any, len(s))
	for _, f := range s {
		v, present := input[f.Name]
		if !present {
			if f.Required {
				return nil, fmt.Errorf("%w: missing required option %q", config.ErrInvalidSchema, f.Name)
			}
			if f.Default != nil {
				out[f.Name] = f.Default
			}
			continue
		}

		normalized, err := validateField(f, v)
		if err != nil {
			return nil, err
		}
		out[f.Name] = normalized
	}

	return out, nil
}

func validateField(f Field, v any) (any, error) {
	switch f.Kind {
	case KindInt:
		n, ok := asInt64(v)
		if !ok {
			return nil, fieldErr(f, "expected an integer")
		}
		return n, nil

	case KindNonNegativeInt:
		n, ok := asInt64(v)
		if !ok || n < 0 {
			return nil, fieldErr(f, "expected a non-negative integer")
		}
		return n, nil

	case KindPositiveInt:
		n, ok := asInt64(v)
		if !ok || n <= 0 {
			return nil, fieldErr(f, "expected a positive integer")
		}
		return n, nil

	case KindIntRange:
		n, ok := asInt64(v)
		if !ok || n < f.Min || n > f.Max {
			return nil, fieldErr(f, fmt.Sprintf("expected an integer in [%d, %d]", f.Min, f.Max))
		}
		return n, nil

	case KindString:
		s, ok := v.(string)
		if !ok {
			return nil, fieldErr(f, "expected a string")
		}
		return s, nil

	case KindBool:
		b, ok := v.(bool)
		if !ok {
			return nil, fieldErr(f, "expected a bool")
		}
		return b, nil

	case KindKey:
		k, err := asKey(v)
		if err != nil {
			return nil, fieldErr(f, err.Error())
		}
		return k, nil

	case KindKeyList:
		list, ok := v.([]solkey.Key)
		if ok {
			return list, nil
		}
		raw, ok := v.([]any)
		if !ok {
			return nil, fieldErr(f, "expected a list of keys")
		}
		keys := make([]solkey.Key, 0, len(raw))
		for _, item := range raw {
			k, err := asKey(item)
			if err != nil {
				return nil, fieldErr(f, err.Error())
			}
			keys = append(keys, k)
		}
		return keys, nil

	case KindInSet:
		s, ok := v.(string)
		if !ok {
			return nil, fieldErr(f, "expected a string")
		}
		for _, allowed := range f.Set {
			if s == allowed {
				return s, nil
			}
		}
		return nil, fieldErr(f, fmt.Sprintf("expected one of %v", f.Set))

	case KindCustom:
		if f.Predicate == nil {
			return v, nil
		}
		if err := f.Predicate(v); err != nil {
			return nil, fieldErr(f, err.Error())
		}
		return v, nil

	default:
		return nil, fieldErr(f, "unrecognized field kind")
	}
}

func fieldErr(f Field, reason string) error {
	return fmt.Errorf("%w: option %q: %s", config.ErrInvalidSchema, f.Name, reason)
}

func asInt64(v any) (int64, bool) {
	switch n := v.(type) {
	case int:
		return int64(n), true
	case int32:
		return int64(n), true
	case int64:
		return n, true
	case uint8:
		return int64(n), true
	case uint32:
		return int64(n), true
	case uint64:
		return int64(n), true
	default:
		return 0, false
	}
}

func asKey(v any) (solkey.Key, error) {
	switch k := v.(type) {
	case solkey.Key:
		return k, nil
	case []byte:
		if !solkey.Check(k) {
			return solkey.Key{}, fmt.Errorf("invalid key length %d", len(k))
		}
		var out solkey.Key
		copy(out[:], k)
		return out, nil
	case string:
		return solkey.Decode(k)
	default:
		return solkey.Key{}, fmt.Errorf("expected a key, got %T", v)
	}
}
