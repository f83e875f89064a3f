// Package query evaluates JSONPath expressions against saved run artifacts.
package query

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/PaesslerAG/jsonpath"

	"github.com/Bnei-Baruch/apiurlfix/internal/domain"
)

// Select evaluates expr against a JSON document.
//
// Policy:
// - An empty expression is a config error.
// - A document that is not JSON is an execution error.
// - No match returns nil without error.
func Select(doc []byte, expr string) (any, error) {
	expr = strings.TrimSpace(expr)
	if expr == "" {
		return nil, &domain.OpError{
			Op:   "query.select",
			Kind: domain.KindInvalidConfig,
			Err:  fmt.Errorf("empty jsonpath expression: %w", domain.ErrInvalidConfig),
		}
	}

	var v any
	if err := json.Unmarshal(doc, &v); err != nil {
		return nil, &domain.OpError{
			Op:   "query.select",
			Kind: domain.KindExecution,
			Err:  fmt.Errorf("document is not valid JSON: %w", err),
		}
	}

	out, err := jsonpath.Get(expr, v)
	if err != nil {
		if strings.Contains(err.Error(), "unknown key") || strings.Contains(err.Error(), "out of bounds") {
			return nil, nil
		}
		return nil, &domain.OpError{
			Op:   "query.select",
			Kind: domain.KindInvalidConfig,
			Err:  fmt.Errorf("jsonpath %q: %w", expr, err),
		}
	}
	return out, nil
}

// Format renders a selected value: strings as-is, slices one item per line,
// everything else as indented JSON.
func Format(v any) (string, error) {
	switch t := v.(type) {
	case nil:
		return "", nil
	case string:
		return t, nil
	case []any:
		lines := make([]string, 0, len(t))
		for _, it := range t {
			s, err := Format(it)
			if err != nil {
				return "", err
			}
			lines = append(lines, s)
		}
		return strings.Join(lines, "\n"), nil
	default:
		b, err := json.MarshalIndent(t, "", "  ")
		if err != nil {
			return "", err
		}
		return string(b), nil
	}
}
