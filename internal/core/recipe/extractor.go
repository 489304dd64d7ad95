package recipe

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"secure-recipe/internal/pkg/common"
)

// ExtractionKind classifies why a generated response could not be used
type ExtractionKind string

const (
	KindNoArrayFound ExtractionKind = "no-array-found"
	KindInvalidJSON  ExtractionKind = "invalid-json"
	KindNotAList     ExtractionKind = "not-a-list"
	KindMissingField ExtractionKind = "missing-field"
)

// Sentinels for errors.Is against an *ExtractionError
var (
	ErrNoArrayFound = &ExtractionError{Kind: KindNoArrayFound}
	ErrInvalidJSON  = &ExtractionError{Kind: KindInvalidJSON}
	ErrNotAList     = &ExtractionError{Kind: KindNotAList}
	ErrMissingField = &ExtractionError{Kind: KindMissingField}
)

// ExtractionError reports a generated response that does not hold a usable recipe array
type ExtractionError struct {
	Kind   ExtractionKind
	Index  int    // element index, missing-field only
	Field  string // missing field name, missing-field only
	Detail string
	Err    error
}

func (e *ExtractionError) Error() string {
	msg := "extract recipes: " + string(e.Kind)
	if e.Kind == KindMissingField && e.Field != "" {
		msg += fmt.Sprintf(": element %d has no %q", e.Index, e.Field)
	}
	if e.Detail != "" {
		msg += ": " + e.Detail
	}
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *ExtractionError) Unwrap() error {
	return e.Err
}

// Is matches by kind
func (e *ExtractionError) Is(target error) bool {
	t, ok := target.(*ExtractionError)
	if !ok {
		return false
	}
	return e.Kind == t.Kind
}

// ExtractRecipes pulls the recipe array out of free text. It takes the span
// from the first '[' to the last ']' and parses that as JSON, so prose around
// the array is ignored but brackets inside the prose are not.
func ExtractRecipes(raw string) ([]common.Recipe, error) {
	start := strings.Index(raw, "[")
	end := strings.LastIndex(raw, "]")
	if start == -1 || end == -1 {
		return nil, &ExtractionError{Kind: KindNoArrayFound}
	}
	if end < start {
		return nil, &ExtractionError{Kind: KindInvalidJSON, Detail: "closing bracket precedes opening bracket"}
	}

	var parsed interface{}
	if err := common.ParseJSON(raw[start:end+1], &parsed); err != nil {
		return nil, &ExtractionError{Kind: KindInvalidJSON, Err: err}
	}

	items, ok := parsed.([]interface{})
	if !ok {
		return nil, &ExtractionError{Kind: KindNotAList, Detail: fmt.Sprintf("got %T", parsed)}
	}

	recipes := make([]common.Recipe, 0, len(items))
	for i, item := range items {
		obj, ok := item.(map[string]interface{})
		if !ok {
			return nil, &ExtractionError{Kind: KindMissingField, Index: i, Detail: "element is not an object"}
		}

		values := make(map[string]string, len(common.RecipeFields))
		for _, field := range common.RecipeFields {
			v, ok := fieldText(obj[field], field)
			if !ok {
				return nil, &ExtractionError{Kind: KindMissingField, Index: i, Field: field}
			}
			values[field] = v
		}

		recipes = append(recipes, common.Recipe{
			Name:         values[common.FieldRecipeName],
			Ingredients:  values[common.FieldIngredients],
			Instructions: values[common.FieldInstructions],
			CookTime:     values[common.FieldCookTime],
		})
	}

	return recipes, nil
}

// fieldText turns a decoded JSON value into the record's text form.
// Models sometimes answer with lists of ingredients or steps instead of a
// single string; those are joined. Objects and null count as absent.
func fieldText(v interface{}, field string) (string, bool) {
	var text string
	switch val := v.(type) {
	case string:
		text = val
	case json.Number:
		text = val.String()
	case bool:
		text = fmt.Sprintf("%t", val)
	case []interface{}:
		sep := " "
		if field == common.FieldIngredients {
			sep = ", "
		}
		parts := make([]string, 0, len(val))
		for _, elem := range val {
			s, ok := scalarText(elem)
			if !ok {
				return "", false
			}
			if s = strings.TrimSpace(s); s != "" {
				parts = append(parts, s)
			}
		}
		text = strings.Join(parts, sep)
	default:
		return "", false
	}

	if strings.TrimSpace(text) == "" {
		return "", false
	}
	return text, true
}

func scalarText(v interface{}) (string, bool) {
	switch val := v.(type) {
	case string:
		return val, true
	case json.Number:
		return val.String(), true
	case bool:
		return fmt.Sprintf("%t", val), true
	default:
		return "", false
	}
}

// IsExtractionError reports whether err came from ExtractRecipes
func IsExtractionError(err error) bool {
	var ee *ExtractionError
	return errors.As(err, &ee)
}
