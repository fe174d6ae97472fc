package policy

import (
	"strings"

	"github.com/nmstate/nmstate-go/pkg/model"
	"github.com/nmstate/nmstate-go/pkg/nmerror"
)

// ApplyTemplate substitutes a single `{{ capture.<name>.<path> }}`
// reference in value with the rendered property it points at,
// resolved against the given capture results. A
// string with no reference is returned unchanged.
func ApplyTemplate(value string, captures map[string]*model.NetworkState) (string, error) {
	tokens, err := parseTemplateTokens(value)
	if err != nil {
		return "", err
	}

	startIdx := indexOfTemplateKind(tokens, templateTokenReferenceStart)
	if startIdx < 0 {
		return value, nil
	}
	pathToken := tokens[startIdx+1]
	if pathToken.kind != templateTokenPath || len(pathToken.path) < 2 || pathToken.path[0] != "capture" {
		return "", nmerror.Policy(1, pathToken.pos,
			"a template reference must be in the form 'capture.<name>.<path>'")
	}

	capName := pathToken.path[1]
	propPath := pathToken.path[2:]
	if len(propPath) == 0 {
		return "", nmerror.Policy(1, pathToken.pos, "no property path after the capture name")
	}

	state, ok := captures[capName]
	if !ok {
		return "", nmerror.Policy(1, pathToken.pos, "capture %q not found", capName)
	}

	doc, err := stateToDocument(state)
	if err != nil {
		return "", err
	}
	resolved, err := getValueFromDocument(propPath, doc, value, pathToken.pos)
	if err != nil {
		return "", err
	}

	return replaceReference(value, valueToString(resolved)), nil
}

// ApplyTemplates walks a desired-state document, rewriting every
// string leaf through ApplyTemplate against captures. Maps, slices and
// scalars are otherwise copied as-is.
func ApplyTemplates(doc interface{}, captures map[string]*model.NetworkState) (interface{}, error) {
	switch v := doc.(type) {
	case string:
		return ApplyTemplate(v, captures)
	case map[string]interface{}:
		out := make(map[string]interface{}, len(v))
		for key, val := range v {
			resolved, err := ApplyTemplates(val, captures)
			if err != nil {
				return nil, err
			}
			out[key] = resolved
		}
		return out, nil
	case []interface{}:
		out := make([]interface{}, len(v))
		for i, val := range v {
			resolved, err := ApplyTemplates(val, captures)
			if err != nil {
				return nil, err
			}
			out[i] = resolved
		}
		return out, nil
	default:
		return v, nil
	}
}

// replaceReference replaces the single `{{ ... }}` span in template
// with rendered, trimming the surrounding whitespace the tokeniser
// skips while parsing the reference.
func replaceReference(template, rendered string) string {
	start := strings.Index(template, "{{")
	end := strings.Index(template, "}}")
	if start < 0 || end < 0 || end < start {
		return template
	}
	return template[:start] + rendered + template[end+2:]
}
