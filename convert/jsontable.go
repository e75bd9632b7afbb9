package convert

import (
	"bytes"
	"encoding/json"
	"fmt"
	"html"
	"sort"
	"strings"
)

// renderJSONTable renders a JSON document as nested HTML tables. Objects
// become key/value tables, arrays of uniform objects become tables with a
// header row, other arrays become lists. Object keys are sorted so the
// output is deterministic regardless of input key order.
func renderJSONTable(data []byte) (string, error) {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()

	var value any
	if err := dec.Decode(&value); err != nil {
		return "", fmt.Errorf("%w: %v", ErrMalformedInput, err)
	}
	// Trailing garbage after the first value is malformed too.
	if dec.More() {
		return "", fmt.Errorf("%w: trailing data after JSON value", ErrMalformedInput)
	}

	var sb strings.Builder
	renderJSONValue(&sb, value)
	return sb.String(), nil
}

func renderJSONValue(sb *strings.Builder, value any) {
	switch v := value.(type) {
	case map[string]any:
		renderJSONObject(sb, v)
	case []any:
		renderJSONArray(sb, v)
	case nil:
		sb.WriteString("null")
	case string:
		sb.WriteString(html.EscapeString(v))
	case bool:
		fmt.Fprintf(sb, "%t", v)
	case json.Number:
		sb.WriteString(html.EscapeString(v.String()))
	default:
		sb.WriteString(html.EscapeString(fmt.Sprint(v)))
	}
}

func renderJSONObject(sb *strings.Builder, obj map[string]any) {
	keys := make([]string, 0, len(obj))
	for k := range obj {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	sb.WriteString("<table border=\"1\"><tbody>")
	for _, k := range keys {
		sb.WriteString("<tr><th>")
		sb.WriteString(html.EscapeString(k))
		sb.WriteString("</th><td>")
		renderJSONValue(sb, obj[k])
		sb.WriteString("</td></tr>")
	}
	sb.WriteString("</tbody></table>")
}

func renderJSONArray(sb *strings.Builder, arr []any) {
	if keys, ok := uniformObjectKeys(arr); ok {
		sb.WriteString("<table border=\"1\"><thead><tr>")
		for _, k := range keys {
			sb.WriteString("<th>")
			sb.WriteString(html.EscapeString(k))
			sb.WriteString("</th>")
		}
		sb.WriteString("</tr></thead><tbody>")
		for _, elem := range arr {
			obj := elem.(map[string]any)
			sb.WriteString("<tr>")
			for _, k := range keys {
				sb.WriteString("<td>")
				renderJSONValue(sb, obj[k])
				sb.WriteString("</td>")
			}
			sb.WriteString("</tr>")
		}
		sb.WriteString("</tbody></table>")
		return
	}

	sb.WriteString("<ul>")
	for _, elem := range arr {
		sb.WriteString("<li>")
		renderJSONValue(sb, elem)
		sb.WriteString("</li>")
	}
	sb.WriteString("</ul>")
}

// uniformObjectKeys reports whether every element of arr is an object with
// the same key set, returning those keys sorted. Such arrays render as one
// table with a shared header row.
func uniformObjectKeys(arr []any) ([]string, bool) {
	if len(arr) == 0 {
		return nil, false
	}
	first, ok := arr[0].(map[string]any)
	if !ok {
		return nil, false
	}
	keys := make([]string, 0, len(first))
	for k := range first {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	for _, elem := range arr[1:] {
		obj, ok := elem.(map[string]any)
		if !ok || len(obj) != len(keys) {
			return nil, false
		}
		for _, k := range keys {
			if _, ok := obj[k]; !ok {
				return nil, false
			}
		}
	}
	return keys, true
}
