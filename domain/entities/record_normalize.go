package entities

// NormalizeRecordShape coerces the parsed-but-malshaped investigation fields
// of a raw record into the canonical list-of-objects shape. The generator
// inconsistently emits a single object where a list is expected, or a bare
// string where an object is expected; both are wrapped here. Only structural
// wrapping happens: no extracted factual content is altered or invented
// beyond the minimal placeholder keys of a synthesized object.
//
// The function mutates raw in place and returns it. It is a fixed point:
// normalizing an already-normalized record changes nothing.
func NormalizeRecordShape(raw map[string]any) map[string]any {
	if raw == nil {
		return raw
	}
	inv, ok := raw["investigations"].(map[string]any)
	if !ok {
		return raw
	}

	if v, ok := inv["laboratory"]; ok && v != nil {
		inv["laboratory"] = normalizeEntryList(v, func(s string) any {
			return map[string]any{"test": "test", "result": s}
		})
	}
	if v, ok := inv["imaging"]; ok && v != nil {
		inv["imaging"] = normalizeEntryList(v, func(s string) any {
			return map[string]any{"type": "imaging", "findings": s}
		})
	}
	if v, ok := inv["other"]; ok && v != nil {
		inv["other"] = normalizeEntryList(v, func(s string) any {
			return map[string]any{"type": "other", "findings": s}
		})
	}

	return raw
}

// normalizeEntryList wraps a scalar value into a one-element list and
// replaces bare-string items with the minimal object built by synthesize.
func normalizeEntryList(v any, synthesize func(string) any) any {
	list, ok := v.([]any)
	if !ok {
		// Single object (or bare scalar) where a list is expected.
		list = []any{v}
	}
	for i, item := range list {
		if s, ok := item.(string); ok {
			list[i] = synthesize(s)
		}
	}
	return list
}
