package dataset

import (
	"maps"
	"reflect"
	"slices"
	"sort"

	"github.com/wmvanvliet/golem/pkg/errors"
)

// ValidateExtra checks that every value in extra is plain data: nil, bool,
// string, an integer or float scalar, a slice of string/float64/int/int64/
// bool, a []any, or a map with string keys holding such values. Plain data
// can be compared, hashed and persisted.
func ValidateExtra(extra map[string]any) error {
	for _, k := range sortedKeys(extra) {
		if err := validateValue("extra."+k, extra[k]); err != nil {
			return err
		}
	}
	return nil
}

func validateValue(path string, v any) error {
	switch t := v.(type) {
	case nil, bool, string,
		int, int8, int16, int32, int64,
		uint, uint8, uint16, uint32, uint64,
		float32, float64:
		return nil
	case []string, []float64, []int, []int64, []bool:
		return nil
	case map[string]string, map[string]float64, map[string]int:
		return nil
	case []any:
		for _, e := range t {
			if err := validateValue(path+"[]", e); err != nil {
				return err
			}
		}
		return nil
	case map[string]any:
		for _, k := range sortedKeys(t) {
			if err := validateValue(path+"."+k, t[k]); err != nil {
				return err
			}
		}
		return nil
	default:
		return errors.NewTypeError("New", path, "plain data (scalars, strings, slices, string-keyed maps)", v)
	}
}

func copyExtra(extra map[string]any) map[string]any {
	out := make(map[string]any, len(extra))
	for k, v := range extra {
		out[k] = copyValue(v)
	}
	return out
}

func copyValue(v any) any {
	switch t := v.(type) {
	case []string:
		return slices.Clone(t)
	case []float64:
		return slices.Clone(t)
	case []int:
		return slices.Clone(t)
	case []int64:
		return slices.Clone(t)
	case []bool:
		return slices.Clone(t)
	case map[string]string:
		return maps.Clone(t)
	case map[string]float64:
		return maps.Clone(t)
	case map[string]int:
		return maps.Clone(t)
	case []any:
		out := make([]any, len(t))
		for i, e := range t {
			out[i] = copyValue(e)
		}
		return out
	case map[string]any:
		return copyExtra(t)
	default:
		return v
	}
}

// valueEqual is reflect.DeepEqual except that nil and empty containers of
// the same type compare equal.
func valueEqual(a, b any) bool {
	va, vb := reflect.ValueOf(a), reflect.ValueOf(b)
	if !va.IsValid() || !vb.IsValid() {
		return va.IsValid() == vb.IsValid()
	}
	if va.Type() != vb.Type() {
		return false
	}
	switch va.Kind() {
	case reflect.Slice:
		if va.Len() != vb.Len() {
			return false
		}
		for i := 0; i < va.Len(); i++ {
			if !valueEqual(va.Index(i).Interface(), vb.Index(i).Interface()) {
				return false
			}
		}
		return true
	case reflect.Map:
		if va.Len() != vb.Len() {
			return false
		}
		iter := va.MapRange()
		for iter.Next() {
			other := vb.MapIndex(iter.Key())
			if !other.IsValid() || !valueEqual(iter.Value().Interface(), other.Interface()) {
				return false
			}
		}
		return true
	default:
		return reflect.DeepEqual(a, b)
	}
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
