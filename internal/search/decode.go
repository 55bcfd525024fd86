package search

import (
	"fmt"
	"reflect"
	"strconv"
	"strings"

	"github.com/mitchellh/mapstructure"
)

// decodeResponse maps the loosely typed backend payload onto Response.
// Numbers, booleans and lists are rendered as strings.
func decodeResponse(raw map[string]any) (*Response, error) {
	var resp Response

	cfg := &mapstructure.DecoderConfig{
		DecodeHook:       stringifyHook,
		WeaklyTypedInput: true,
		Result:           &resp,
	}
	decoder, err := mapstructure.NewDecoder(cfg)
	if err != nil {
		return nil, err
	}

	if err := decoder.Decode(raw); err != nil {
		return nil, fmt.Errorf("decode search response: %w", err)
	}

	return &resp, nil
}

func stringifyHook(_ reflect.Kind, to reflect.Kind, data any) (any, error) {
	if to != reflect.String {
		return data, nil
	}
	return stringify(data), nil
}

func stringify(data any) any {
	switch v := data.(type) {
	case bool:
		if v {
			return "Yes"
		}
		return "No"
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)
	case []any:
		parts := make([]string, 0, len(v))
		for _, item := range v {
			if item == nil {
				continue
			}
			parts = append(parts, fmt.Sprint(stringify(item)))
		}
		return strings.Join(parts, ", ")
	default:
		return data
	}
}
