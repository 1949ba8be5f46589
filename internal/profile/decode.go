package profile

import (
	"encoding/json"
	"fmt"
	"reflect"
	"regexp"
	"strconv"
	"strings"

	"github.com/mitchellh/mapstructure"
)

var leadingNumber = regexp.MustCompile(`-?\d+(?:[.,]\d+)?`)

// Decode copies a parsed model payload into out using the json tags of the
// section structs. Loose model output is accepted: numbers may arrive as
// strings ("5 years"), scalars where lists are expected, and nested objects
// where text is expected.
func Decode(data map[string]any, out any) error {
	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		TagName:          "json",
		WeaklyTypedInput: true,
		DecodeHook:       mapstructure.DecodeHookFuncKind(looseValue),
		Result:           out,
	})
	if err != nil {
		return fmt.Errorf("create decoder: %w", err)
	}
	if err := decoder.Decode(data); err != nil {
		return fmt.Errorf("decode payload: %w", err)
	}
	return nil
}

func looseValue(from, to reflect.Kind, data any) (any, error) {
	switch to {
	case reflect.Float32, reflect.Float64, reflect.Int, reflect.Int32, reflect.Int64:
		if from != reflect.String {
			return data, nil
		}
		match := leadingNumber.FindString(data.(string))
		if match == "" {
			return 0, nil
		}
		f, err := strconv.ParseFloat(strings.ReplaceAll(match, ",", "."), 64)
		if err != nil {
			return 0, nil
		}
		return f, nil
	case reflect.String:
		if from == reflect.Map || from == reflect.Slice {
			raw, err := json.Marshal(data)
			if err != nil {
				return "", nil
			}
			return string(raw), nil
		}
	}
	return data, nil
}
