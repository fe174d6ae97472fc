package policy

import (
	"fmt"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/nmstate/nmstate-go/pkg/nmerror"
)

// toValue round-trips v through YAML to obtain a generic document tree
// (map[string]interface{} / []interface{} / scalars) addressable by
// the same kebab-case property names the capture/template languages
// use, since the data model's yaml struct tags already are that
// vocabulary.
func toValue(v interface{}) (interface{}, error) {
	raw, err := yaml.Marshal(v)
	if err != nil {
		return nil, err
	}
	var out interface{}
	if err := yaml.Unmarshal(raw, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// fromValue decodes a generic document tree back into dst.
func fromValue(v interface{}, dst interface{}) error {
	raw, err := yaml.Marshal(v)
	if err != nil {
		return err
	}
	return yaml.Unmarshal(raw, dst)
}

// asMap asserts v is a document object, used when walking into a
// non-leaf path segment.
func asMap(v interface{}) (map[string]interface{}, bool) {
	m, ok := v.(map[string]interface{})
	return m, ok
}

// getValueFromDocument resolves propPath against data, supporting
// plain object keys and numeric array indices (e.g.
// "interfaces.0.name"), matching the original tokeniser's property
// path grammar.
func getValueFromDocument(propPath []string, data map[string]interface{}, line string, pos int) (interface{}, error) {
	if len(propPath) == 0 {
		return nil, nmerror.Bug("got zero length property path")
	}

	v, ok := data[propPath[0]]
	if !ok {
		return nil, nmerror.Policy(1, pos, "failed to find property %q, existing properties are %s",
			propPath[0], strings.Join(mapKeys(data), ","))
	}

	if len(propPath) == 1 {
		return v, nil
	}

	if idx, err := strconv.Atoi(propPath[1]); err == nil {
		return getLeafArrayValue(propPath[0], propPath[2:], v, idx, line, pos+len(propPath[0])+len(propPath[1])+2)
	}

	leaf, ok := asMap(v)
	if !ok {
		return nil, nmerror.Policy(1, pos, "the %s leaf data is not an object", propPath[0])
	}
	return getValueFromDocument(propPath[1:], leaf, line, pos+len(propPath[0])+1)
}

func getLeafArrayValue(itemName string, rest []string, v interface{}, idx int, line string, pos int) (interface{}, error) {
	arr, ok := v.([]interface{})
	if !ok || idx < 0 || idx >= len(arr) {
		return nil, nmerror.Policy(1, pos, "failed to find index %d from %s", idx, itemName)
	}
	leaf := arr[idx]
	if len(rest) == 0 {
		return leaf, nil
	}
	leafMap, ok := asMap(leaf)
	if !ok {
		return nil, nmerror.Policy(1, pos, "the %s index %d leaf data is not an object", itemName, idx)
	}
	return getValueFromDocument(rest, leafMap, line, pos+len(strconv.Itoa(idx))+1)
}

func mapKeys(m map[string]interface{}) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	return keys
}

// valueToString renders a document scalar as the string the capture
// language compares against; strings pass through unquoted, anything
// else uses its natural formatting.
func valueToString(v interface{}) string {
	switch t := v.(type) {
	case nil:
		return ""
	case string:
		return t
	case bool:
		return strconv.FormatBool(t)
	case int:
		return strconv.Itoa(t)
	default:
		return fmt.Sprintf("%v", t)
	}
}

// retainOnly trims a document object down to the single top-level key
// the property path names, recursing one level for each further path
// segment, mirroring the capture command with no action (bare
// property path: "keep only this").
func retainOnly(data map[string]interface{}, propPath []string) {
	if len(propPath) == 0 {
		return
	}
	for k := range data {
		if k != propPath[0] {
			delete(data, k)
		}
	}
	if len(propPath) >= 2 {
		if leaf, ok := asMap(data[propPath[0]]); ok {
			retainOnly(leaf, propPath[1:])
		}
	}
}

// searchItems returns the subset of items whose value at propPath
// renders to value, grounded on the original's generic search_item.
func searchItems[T any](itemName string, propPath []string, value string, items []T, line string, pos int) ([]T, error) {
	var matched []T
	for _, item := range items {
		doc, err := toValue(item)
		if err != nil {
			continue
		}
		m, ok := asMap(doc)
		if !ok {
			continue
		}
		cur, err := getValueFromDocument(propPath, m, line, pos)
		if err != nil {
			continue
		}
		if valueToString(cur) == value {
			matched = append(matched, item)
		}
	}
	if len(matched) == 0 {
		return nil, nmerror.Policy(1, pos, "%s with '%s=%s' not found", itemName, strings.Join(propPath, "."), value)
	}
	return matched, nil
}

// updateItems rewrites the value at propPath on every item (a nil
// value clears the field to null), round-tripping each item through
// the generic document representation.
func updateItems[T any](propPath []string, value *string, items []T) ([]T, error) {
	out := make([]T, len(items))
	for i, item := range items {
		doc, err := toValue(item)
		if err != nil {
			return nil, err
		}
		m, ok := asMap(doc)
		if !ok {
			out[i] = item
			continue
		}
		if err := updateDocumentValue(propPath, value, m); err != nil {
			return nil, err
		}
		var updated T
		if err := fromValue(m, &updated); err != nil {
			return nil, nmerror.Bug("failed to decode updated item: %v", err)
		}
		out[i] = updated
	}
	return out, nil
}

// updateDocumentValue sets data[propPath] to value (nil clears to
// null), creating intermediate objects as needed.
func updateDocumentValue(propPath []string, value *string, data map[string]interface{}) error {
	if len(propPath) == 0 {
		return nmerror.Bug("got zero length property path")
	}
	if len(propPath) == 1 {
		if value == nil {
			data[propPath[0]] = nil
		} else {
			data[propPath[0]] = *value
		}
		return nil
	}
	leaf, ok := asMap(data[propPath[0]])
	if !ok {
		leaf = map[string]interface{}{}
		data[propPath[0]] = leaf
	}
	return updateDocumentValue(propPath[1:], value, leaf)
}
