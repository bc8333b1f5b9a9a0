package result

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strconv"

	"github.com/samber/lo"
)

var (
	ErrNotAnObject    = errors.New("payload is not a JSON object")
	ErrMalformedRows  = errors.New("rows must be an array of arrays")
	ErrMalformedHeads = errors.New("headers must be an array of strings")
	ErrMalformedTime  = errors.New("time_taken must be a number")
	ErrTrailingData   = errors.New("unexpected data after the payload")
)

// Decode parses a success body. Numbers are kept as json.Number so cell
// values are shown exactly as the service sent them.
func Decode(body []byte) (Payload, error) {
	dec := json.NewDecoder(bytes.NewReader(body))
	dec.UseNumber()

	var raw any
	if err := dec.Decode(&raw); err != nil {
		return Payload{}, fmt.Errorf("decode payload: %w", err)
	}
	if _, err := dec.Token(); !errors.Is(err, io.EOF) {
		return Payload{}, fmt.Errorf("decode payload: %w", ErrTrailingData)
	}

	fields, ok := raw.(map[string]any)
	if !ok {
		return Payload{}, ErrNotAnObject
	}

	payload := Payload{Fields: fields}

	if v, ok := fields["rows"]; ok && v != nil {
		rows, err := decodeRows(v)
		if err != nil {
			return Payload{}, err
		}
		payload.Rows = rows
		payload.HasRows = true
	}

	if v, ok := fields["headers"]; ok && v != nil {
		headers, err := decodeHeaders(v)
		if err != nil {
			return Payload{}, err
		}
		payload.Headers = headers
		payload.HasHeaders = true
	}

	if v, ok := fields["time_taken"]; ok && v != nil {
		n, ok := v.(json.Number)
		if !ok {
			return Payload{}, ErrMalformedTime
		}
		f, err := n.Float64()
		if err != nil {
			return Payload{}, fmt.Errorf("%w: %w", ErrMalformedTime, err)
		}
		payload.TimeTaken = f
		payload.HasTimeTaken = true
	}

	return payload, nil
}

func decodeRows(v any) ([][]any, error) {
	list, ok := v.([]any)
	if !ok {
		return nil, ErrMalformedRows
	}

	rows := make([][]any, 0, len(list))
	for _, item := range list {
		row, ok := item.([]any)
		if !ok {
			return nil, ErrMalformedRows
		}
		rows = append(rows, row)
	}

	return rows, nil
}

func decodeHeaders(v any) ([]string, error) {
	list, ok := v.([]any)
	if !ok {
		return nil, ErrMalformedHeads
	}

	headers := make([]string, 0, len(list))
	for _, item := range list {
		s, ok := item.(string)
		if !ok {
			return nil, ErrMalformedHeads
		}
		headers = append(headers, s)
	}

	return headers, nil
}

// Normalize turns a payload into a Result. A payload with rows becomes
// Tabular, with headers synthesized from the first row when the service
// omitted them. Anything else passes through as Opaque.
func Normalize(payload Payload) Result {
	if !payload.HasRows {
		return Opaque{
			Payload:   payload.Fields,
			TimeTaken: payload.TimeTaken,
		}
	}

	headers := payload.Headers
	if !payload.HasHeaders {
		headers = SynthesizeHeaders(payload.Rows)
	}

	return Tabular{
		Headers:   headers,
		Rows:      payload.Rows,
		TimeTaken: payload.TimeTaken,
	}
}

// SynthesizeHeaders returns "?0" … "?(w-1)" where w is the width of the
// first row. No rows means no headers.
func SynthesizeHeaders(rows [][]any) []string {
	if len(rows) == 0 {
		return []string{}
	}

	return lo.Times(len(rows[0]), func(i int) string {
		return SynthesizedPrefix + strconv.Itoa(i)
	})
}
