package providers

// nestedLookup walks a path of map keys (string) and sequence indices (int)
// through decoded JSON. It returns the value and true when every segment
// resolves, or nil and false when any segment is absent or the wrong shape.
// It never panics on missing paths.
func nestedLookup(v any, path ...any) (any, bool) {
	cur := v
	for _, seg := range path {
		switch key := seg.(type) {
		case string:
			m, ok := cur.(map[string]any)
			if !ok {
				return nil, false
			}
			cur, ok = m[key]
			if !ok {
				return nil, false
			}
		case int:
			s, ok := cur.([]any)
			if !ok || key < 0 || key >= len(s) {
				return nil, false
			}
			cur = s[key]
		default:
			return nil, false
		}
	}
	return cur, true
}

func nestedString(v any, path ...any) (string, bool) {
	raw, ok := nestedLookup(v, path...)
	if !ok {
		return "", false
	}
	s, ok := raw.(string)
	return s, ok
}

// nestedInt resolves a path to an integer. JSON numbers decode as float64;
// anything with a fractional part is rejected.
func nestedInt(v any, path ...any) (int, bool) {
	raw, ok := nestedLookup(v, path...)
	if !ok {
		return 0, false
	}
	f, ok := raw.(float64)
	if !ok || f != float64(int(f)) {
		return 0, false
	}
	return int(f), true
}

// nestedInts resolves a path to a sequence of integers. Missing paths and
// non-sequence values yield nil, false.
func nestedInts(v any, path ...any) ([]int, bool) {
	raw, ok := nestedLookup(v, path...)
	if !ok {
		return nil, false
	}
	seq, ok := raw.([]any)
	if !ok {
		return nil, false
	}
	out := make([]int, 0, len(seq))
	for _, item := range seq {
		f, ok := item.(float64)
		if !ok || f != float64(int(f)) {
			return nil, false
		}
		out = append(out, int(f))
	}
	return out, true
}
