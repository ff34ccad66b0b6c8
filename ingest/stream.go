package ingest

import (
	"encoding/json"
	"io"

	"github.com/teranos/starmatch/errors"
)

// streamArray decodes a top-level JSON array one element at a time. fn
// gets each element's raw bytes; an error from fn stops the stream.
func streamArray(r io.Reader, fn func(raw json.RawMessage) error) error {
	dec := json.NewDecoder(r)

	tok, err := dec.Token()
	if err != nil {
		return errors.NewMalformedRecordError("read array start: %v", err)
	}
	if d, ok := tok.(json.Delim); !ok || d != '[' {
		return errors.NewMalformedRecordError("expected a JSON array, got %v", tok)
	}

	for dec.More() {
		var raw json.RawMessage
		if err := dec.Decode(&raw); err != nil {
			return errors.WithDetailf(
				errors.NewMalformedRecordError("decode element: %v", err),
				"input offset %d", dec.InputOffset())
		}
		if err := fn(raw); err != nil {
			return err
		}
	}

	if _, err := dec.Token(); err != nil {
		return errors.NewMalformedRecordError("read array end: %v", err)
	}
	return nil
}

// coords accepts either [x, y, z] or {"x": .., "y": .., "z": ..}.
type coords struct {
	X, Y, Z float64
	set     bool
}

func (c *coords) UnmarshalJSON(data []byte) error {
	if string(data) == "null" {
		return nil
	}
	var arr []float64
	if err := json.Unmarshal(data, &arr); err == nil {
		if len(arr) != 3 {
			return errors.Newf("coords array has %d elements", len(arr))
		}
		c.X, c.Y, c.Z, c.set = arr[0], arr[1], arr[2], true
		return nil
	}
	var obj struct {
		X *float64 `json:"x"`
		Y *float64 `json:"y"`
		Z *float64 `json:"z"`
	}
	if err := json.Unmarshal(data, &obj); err != nil {
		return errors.Wrap(err, "coords")
	}
	if obj.X == nil || obj.Y == nil || obj.Z == nil {
		return errors.New("coords object is missing an axis")
	}
	c.X, c.Y, c.Z, c.set = *obj.X, *obj.Y, *obj.Z, true
	return nil
}
