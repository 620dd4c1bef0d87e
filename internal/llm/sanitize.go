package llm

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
)

// StripCodeFences removes the Markdown fences the upstream model wraps its
// JSON in (```json ... ```). This is a documented idiosyncrasy of the
// response format, not incidental noise, so it stays an explicit step.
func StripCodeFences(s string) string {
	s = strings.TrimSpace(s)
	s = strings.TrimPrefix(s, "```json")
	s = strings.TrimPrefix(s, "```")
	s = strings.TrimSuffix(s, "```")
	return strings.TrimSpace(s)
}

// allowedKeys is the closed key set of BillFields. Everything else is
// stripped before validation.
var allowedKeys = map[string]struct{}{
	"description": {}, "amount": {}, "category": {}, "date": {},
	"vendor": {}, "items": {},
}

var allowedItemKeys = map[string]struct{}{
	"name": {}, "quantity": {}, "price": {},
}

// SanitizeFields normalizes the decoded model JSON before schema
// validation:
//   - drops null and empty-string optionals
//   - trims strings
//   - coerces numeric strings in items (quantity, price) to numbers
//   - removes unknown keys
//
// It returns the cleaned document and the list of adjustments made.
func SanitizeFields(raw []byte) ([]byte, []string, error) {
	var m map[string]any
	if err := json.Unmarshal(raw, &m); err != nil {
		return nil, nil, fmt.Errorf("sanitize: decode: %w", err)
	}

	dropped := make([]string, 0, 4)

	for k := range m {
		if _, ok := allowedKeys[k]; !ok {
			delete(m, k)
			dropped = append(dropped, k+"(unknown)")
		}
	}

	for _, k := range []string{"description", "category", "date", "vendor"} {
		switch v := m[k].(type) {
		case nil:
			if _, present := m[k]; present {
				delete(m, k)
				dropped = append(dropped, k+"(null)")
			}
		case string:
			s := strings.TrimSpace(v)
			if s == "" {
				delete(m, k)
				dropped = append(dropped, k+"(empty)")
			} else {
				m[k] = s
			}
		}
	}

	if v, present := m["amount"]; present && v == nil {
		delete(m, "amount")
		dropped = append(dropped, "amount(null)")
	}

	if items, ok := m["items"].([]any); ok {
		cleaned := make([]any, 0, len(items))
		for i, raw := range items {
			item, ok := raw.(map[string]any)
			if !ok {
				dropped = append(dropped, fmt.Sprintf("items[%d](type)", i))
				continue
			}
			for k := range item {
				if _, ok := allowedItemKeys[k]; !ok {
					delete(item, k)
					dropped = append(dropped, fmt.Sprintf("items[%d].%s(unknown)", i, k))
				}
			}
			for _, k := range []string{"quantity", "price"} {
				if s, ok := item[k].(string); ok {
					if f, err := strconv.ParseFloat(strings.TrimSpace(s), 64); err == nil {
						item[k] = f
						dropped = append(dropped, fmt.Sprintf("items[%d].%s(coerced)", i, k))
					} else {
						delete(item, k)
						dropped = append(dropped, fmt.Sprintf("items[%d].%s(unparseable)", i, k))
					}
				}
			}
			cleaned = append(cleaned, item)
		}
		m["items"] = cleaned
	} else if _, present := m["items"]; present {
		delete(m, "items")
		dropped = append(dropped, "items(type)")
	}

	out, err := json.Marshal(m)
	if err != nil {
		return nil, dropped, fmt.Errorf("sanitize: encode: %w", err)
	}
	return out, dropped, nil
}
