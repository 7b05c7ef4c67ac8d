package upload

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/lehigh-university-libraries/letterbox/internal/models"
)

// EnvelopeVersion is the only response envelope version understood
const EnvelopeVersion = 1

// Envelope is the versioned response body. The format field decides how
// Results is decoded.
type Envelope struct {
	Version int                 `json:"version"`
	Format  models.ResultFormat `json:"format"`
	Results json.RawMessage     `json:"results"`
}

// NewEnvelope wraps results for encoding
func NewEnvelope(res models.Results) (*Envelope, error) {
	var (
		raw []byte
		err error
	)
	switch res.Format {
	case models.FormatFlat:
		raw, err = json.Marshal(nonNil(res.Flat))
	case models.FormatGrouped:
		raw, err = json.Marshal(nonNil(res.Grouped))
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedResponse, res.Format)
	}
	if err != nil {
		return nil, err
	}
	return &Envelope{Version: EnvelopeVersion, Format: res.Format, Results: raw}, nil
}

func nonNil[T any](s []T) []T {
	if s == nil {
		return []T{}
	}
	return s
}

// DecodeResults parses a response body. An object is treated as an Envelope;
// a bare array is a legacy body decoded with the configured legacy format.
func DecodeResults(body []byte, legacy models.ResultFormat) (models.Results, error) {
	trimmed := bytes.TrimSpace(body)
	if len(trimmed) == 0 {
		return models.Results{}, &DecodeError{Err: fmt.Errorf("empty body")}
	}

	if bytes.Equal(trimmed, []byte("null")) {
		// Legacy servers encode an empty result list as null
		return models.Results{Format: legacy}, validFormat(legacy)
	}

	switch trimmed[0] {
	case '{':
		var env Envelope
		if err := json.Unmarshal(trimmed, &env); err != nil {
			return models.Results{}, &DecodeError{Err: err}
		}
		if env.Version != EnvelopeVersion {
			return models.Results{}, fmt.Errorf("%w: version %d", ErrUnsupportedResponse, env.Version)
		}
		if len(env.Results) == 0 {
			return models.Results{Format: env.Format}, validFormat(env.Format)
		}
		return decodeAs(env.Results, env.Format)
	case '[':
		return decodeAs(trimmed, legacy)
	default:
		return models.Results{}, &DecodeError{Err: fmt.Errorf("unexpected response body starting with %q", trimmed[0])}
	}
}

func validFormat(f models.ResultFormat) error {
	if _, ok := models.ParseResultFormat(string(f)); !ok {
		return fmt.Errorf("%w: %q", ErrUnsupportedResponse, f)
	}
	return nil
}

// decodeStrict rejects fields the target shape does not have, so a flat body
// never passes as grouped or the other way round
func decodeStrict(raw []byte, v any) error {
	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil {
		return err
	}
	if dec.More() {
		return fmt.Errorf("unexpected data after results")
	}
	return nil
}

func decodeAs(raw []byte, format models.ResultFormat) (models.Results, error) {
	res := models.Results{Format: format}
	switch format {
	case models.FormatFlat:
		if err := decodeStrict(raw, &res.Flat); err != nil {
			return models.Results{}, &DecodeError{Err: err}
		}
	case models.FormatGrouped:
		if err := decodeStrict(raw, &res.Grouped); err != nil {
			return models.Results{}, &DecodeError{Err: err}
		}
	default:
		return models.Results{}, fmt.Errorf("%w: %q", ErrUnsupportedResponse, format)
	}
	return res, nil
}
