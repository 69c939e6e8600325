package api

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"reflect"
	"strings"
	"time"

	"github.com/mitchellh/mapstructure"
)

const maxBodyBytes = 1 << 20

// dateLayouts are tried in order for time fields. Forms send plain dates.
var dateLayouts = []string{time.RFC3339Nano, time.RFC3339, time.DateOnly}

// decodeBody reads a JSON object and decodes it into out with mapstructure,
// so numeric strings land in int fields and "3" in a count is accepted the
// way the web forms send it. Unknown keys are ignored.
func decodeBody(r *http.Request, out any) error {
	body := http.MaxBytesReader(nil, r.Body, maxBodyBytes)
	defer func() { _ = body.Close() }()

	var raw map[string]any
	dec := json.NewDecoder(body)
	if err := dec.Decode(&raw); err != nil {
		if err == io.EOF {
			return fmt.Errorf("%w: request body is empty", ErrBadRequest)
		}
		return fmt.Errorf("%w: decode request body: %v", ErrBadRequest, err)
	}
	if raw == nil {
		return fmt.Errorf("%w: request body must be a JSON object", ErrBadRequest)
	}

	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		Result:           out,
		TagName:          "json",
		Squash:           true,
		WeaklyTypedInput: true,
		DecodeHook: mapstructure.ComposeDecodeHookFunc(
			trimStringsHook,
			dateHook,
		),
	})
	if err != nil {
		return fmt.Errorf("build request decoder: %w", err)
	}

	if err := decoder.Decode(raw); err != nil {
		return fmt.Errorf("%w: %v", ErrBadRequest, err)
	}
	return nil
}

func trimStringsHook(from, to reflect.Type, data any) (any, error) {
	if from.Kind() != reflect.String || to.Kind() != reflect.String {
		return data, nil
	}
	return strings.TrimSpace(data.(string)), nil
}

func dateHook(from, to reflect.Type, data any) (any, error) {
	if to != reflect.TypeOf(time.Time{}) || from.Kind() != reflect.String {
		return data, nil
	}

	s := strings.TrimSpace(data.(string))
	if s == "" {
		return time.Time{}, nil
	}
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t.UTC(), nil
		}
	}
	return nil, fmt.Errorf("invalid date %q: expected RFC 3339 or YYYY-MM-DD", s)
}
