package mechanic

import "encoding/json"

// decodePayload maps an effect's opaque payload onto a mechanic-specific
// struct via a JSON round trip, so each mechanic validates a typed schema
// instead of probing loose fields.
func decodePayload(payload map[string]any, dst any) error {
	raw, err := json.Marshal(payload)
	if err != nil {
		return err
	}
	return json.Unmarshal(raw, dst)
}

// intFromAny reads an integer that may have round-tripped through JSON
// (pending-action data loaded from a store arrives as float64).
func intFromAny(v any) (int, bool) {
	switch n := v.(type) {
	case int:
		return n, true
	case int64:
		return int(n), true
	case float64:
		return int(n), true
	case json.Number:
		i, err := n.Int64()
		if err != nil {
			return 0, false
		}
		return int(i), true
	default:
		return 0, false
	}
}

// stringsFromAny reads a string slice that may have round-tripped through
// JSON as []any.
func stringsFromAny(v any) []string {
	switch vs := v.(type) {
	case []string:
		return vs
	case []any:
		out := make([]string, 0, len(vs))
		for _, item := range vs {
			if s, ok := item.(string); ok {
				out = append(out, s)
			}
		}
		return out
	default:
		return nil
	}
}
