package geo

import (
	"fmt"
	"maps"
	"math"
	"slices"
)

// pair is one key/value entry of a GEO pair list.
type pair struct {
	key   string
	value any
}

// pairList is an ordered GEO key/value list. GEO writes these positionally
// and keys may repeat, so it is kept as a slice rather than a map.
type pairList []pair

// toPairList decodes [k0, v0, k1, v1, ...]. JSON objects are accepted too,
// since some fields (info, uniformfields) are written as objects; their
// keys are taken in sorted order.
func toPairList(v any, what string) (pairList, error) {
	switch t := v.(type) {
	case []any:
		if len(t)%2 != 0 {
			return nil, fmt.Errorf("%w: %s has odd length %d", ErrMalformedDocument, what, len(t))
		}
		pl := make(pairList, 0, len(t)/2)
		for i := 0; i < len(t); i += 2 {
			key, ok := t[i].(string)
			if !ok {
				return nil, fmt.Errorf("%w: %s key at position %d is %T, not a string",
					ErrMalformedDocument, what, i, t[i])
			}
			pl = append(pl, pair{key: key, value: t[i+1]})
		}
		return pl, nil
	case map[string]any:
		pl := make(pairList, 0, len(t))
		for _, key := range slices.Sorted(maps.Keys(t)) {
			pl = append(pl, pair{key: key, value: t[key]})
		}
		return pl, nil
	default:
		return nil, fmt.Errorf("%w: %s is %T, not a key/value list", ErrMalformedDocument, what, v)
	}
}

// lookup returns the value of the last entry named key.
func (pl pairList) lookup(key string) (any, bool) {
	for i := len(pl) - 1; i >= 0; i-- {
		if pl[i].key == key {
			return pl[i].value, true
		}
	}
	return nil, false
}

// require is lookup for mandatory fields.
func (pl pairList) require(key, what string) (any, error) {
	v, ok := pl.lookup(key)
	if !ok {
		return nil, fmt.Errorf("%w: %s has no %q field", ErrMalformedDocument, what, key)
	}
	return v, nil
}

// distinctKeys returns the keys in first-seen order without repeats.
func (pl pairList) distinctKeys() []string {
	var keys []string
	for _, p := range pl {
		if !slices.Contains(keys, p.key) {
			keys = append(keys, p.key)
		}
	}
	return keys
}

// number is satisfied by both encoding/json and json-iterator number types.
type number interface {
	Int64() (int64, error)
	Float64() (float64, error)
}

func asArray(v any, what string) ([]any, error) {
	arr, ok := v.([]any)
	if !ok {
		return nil, fmt.Errorf("%w: %s is %T, not a list", ErrMalformedDocument, what, v)
	}
	return arr, nil
}

func asString(v any, what string) (string, error) {
	s, ok := v.(string)
	if !ok {
		return "", fmt.Errorf("%w: %s is %T, not a string", ErrMalformedDocument, what, v)
	}
	return s, nil
}

func asFloat(v any, what string) (float64, error) {
	switch t := v.(type) {
	case float64:
		return t, nil
	case number:
		f, err := t.Float64()
		if err != nil {
			return 0, fmt.Errorf("%w: %s: %v", ErrMalformedDocument, what, err)
		}
		return f, nil
	default:
		return 0, fmt.Errorf("%w: %s is %T, not a number", ErrMalformedDocument, what, v)
	}
}

func asInt(v any, what string) (int, error) {
	if n, ok := v.(number); ok {
		if i, err := n.Int64(); err == nil {
			return int(i), nil
		}
	}

	f, err := asFloat(v, what)
	if err != nil {
		return 0, err
	}
	if f != math.Trunc(f) || math.IsInf(f, 0) {
		return 0, fmt.Errorf("%w: %s is %v, not an integer", ErrMalformedDocument, what, f)
	}
	return int(f), nil
}

// asBool accepts JSON booleans and, as some exporters write them, 0/1.
func asBool(v any, what string) (bool, error) {
	if b, ok := v.(bool); ok {
		return b, nil
	}
	i, err := asInt(v, what)
	if err != nil {
		return false, fmt.Errorf("%w: %s is %T, not a boolean", ErrMalformedDocument, what, v)
	}
	return i != 0, nil
}

func asIntSlice(v any, what string) ([]int, error) {
	arr, err := asArray(v, what)
	if err != nil {
		return nil, err
	}
	out := make([]int, len(arr))
	for i, e := range arr {
		if out[i], err = asInt(e, fmt.Sprintf("%s[%d]", what, i)); err != nil {
			return nil, err
		}
	}
	return out, nil
}

func asTuples(v any, what string) ([][]float64, error) {
	arr, err := asArray(v, what)
	if err != nil {
		return nil, err
	}
	out := make([][]float64, len(arr))
	for i, e := range arr {
		comps, err := asArray(e, fmt.Sprintf("%s[%d]", what, i))
		if err != nil {
			return nil, err
		}
		tuple := make([]float64, len(comps))
		for j, c := range comps {
			if tuple[j], err = asFloat(c, fmt.Sprintf("%s[%d][%d]", what, i, j)); err != nil {
				return nil, err
			}
		}
		out[i] = tuple
	}
	return out, nil
}
