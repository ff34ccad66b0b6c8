// Package feed listens to the live journal relay and resolves every system
// a commander jumps to.
//
// Payloads are zlib-compressed JSON envelopes. A Pipeline reads them from a
// Source into a bounded queue and a single dispatcher decodes each one and
// hands FSDJump events to the registry.
package feed

import (
	"bytes"
	"encoding/json"
	"io"

	"github.com/klauspost/compress/zlib"

	"github.com/teranos/starmatch/errors"
	"github.com/teranos/starmatch/galaxy"
)

// Kind is a journal event name.
type Kind string

const (
	KindFSDJump Kind = "FSDJump"
	KindScan    Kind = "Scan"
	KindDocked  Kind = "Docked"
)

// Journal schema references. The legacy one is what the relay used before
// it moved to edcd.io.
const (
	JournalSchema       = "https://eddn.edcd.io/schemas/journal/1"
	LegacyJournalSchema = "http://schemas.elite-markets.net/eddn/journal/1"
)

// maxPayload caps the decompressed size of one message.
const maxPayload = 1 << 20

// Header is the relay's envelope header.
type Header struct {
	UploaderID       string `json:"uploaderID"`
	SoftwareName     string `json:"softwareName"`
	SoftwareVersion  string `json:"softwareVersion"`
	GatewayTimestamp string `json:"gatewayTimestamp,omitempty"`
}

type envelope struct {
	SchemaRef string          `json:"$schemaRef"`
	Header    Header          `json:"header"`
	Message   json.RawMessage `json:"message"`
}

type journalMessage struct {
	Event         string    `json:"event"`
	Timestamp     string    `json:"timestamp"`
	StarSystem    string    `json:"StarSystem"`
	StarPos       []float64 `json:"StarPos"`
	SystemAddress uint64    `json:"SystemAddress"`
	BodyName      string    `json:"BodyName"`
	StationName   string    `json:"StationName"`
}

// Event is a decoded journal message. StarPos is only meaningful for
// FSDJump; BodyName for Scan and StationName for Docked.
type Event struct {
	Kind          Kind
	Schema        string
	Header        Header
	Timestamp     string
	StarSystem    string
	StarPos       galaxy.Position
	SystemAddress uint64
	BodyName      string
	StationName   string
}

// Decoder turns relay payloads into events, keeping only journal schemas
// it was configured with.
type Decoder struct {
	schemas map[string]bool
}

// NewDecoder accepts envelopes whose $schemaRef is one of schemas.
func NewDecoder(schemas []string) *Decoder {
	d := &Decoder{schemas: make(map[string]bool, len(schemas))}
	for _, s := range schemas {
		d.schemas[s] = true
	}
	return d
}

// Decode decompresses and decodes one payload. ok is false, with a nil
// error, for envelopes of other schemas and for journal events other than
// FSDJump, Scan and Docked. Uncompressed JSON payloads are accepted too.
func (d *Decoder) Decode(payload []byte) (Event, bool, error) {
	r, err := payloadReader(payload)
	if err != nil {
		return Event{}, false, err
	}
	defer r.Close()

	var env envelope
	if err := json.NewDecoder(io.LimitReader(r, maxPayload)).Decode(&env); err != nil {
		return Event{}, false, errors.NewMalformedRecordError("decode envelope: %v", err)
	}
	if !d.schemas[env.SchemaRef] {
		return Event{}, false, nil
	}
	if len(env.Message) == 0 {
		return Event{}, false, errors.WithDetailf(
			errors.NewMalformedRecordError("envelope has no message"),
			"schema %s", env.SchemaRef)
	}

	var msg journalMessage
	if err := json.Unmarshal(env.Message, &msg); err != nil {
		return Event{}, false, errors.NewMalformedRecordError("decode journal message: %v", err)
	}

	ev := Event{
		Kind:          Kind(msg.Event),
		Schema:        env.SchemaRef,
		Header:        env.Header,
		Timestamp:     msg.Timestamp,
		StarSystem:    msg.StarSystem,
		SystemAddress: msg.SystemAddress,
		BodyName:      msg.BodyName,
		StationName:   msg.StationName,
	}
	switch ev.Kind {
	case KindFSDJump:
		if ev.StarSystem == "" || len(msg.StarPos) != 3 {
			return Event{}, false, errors.WithDetailf(
				errors.NewMalformedRecordError("FSDJump without StarSystem or StarPos"),
				"uploader %s", env.Header.UploaderID)
		}
		ev.StarPos = galaxy.Position{X: msg.StarPos[0], Y: msg.StarPos[1], Z: msg.StarPos[2]}
	case KindScan, KindDocked:
	default:
		return Event{}, false, nil
	}
	return ev, true, nil
}

func payloadReader(payload []byte) (io.ReadCloser, error) {
	trimmed := bytes.TrimLeft(payload, " \t\r\n")
	if len(trimmed) > 0 && trimmed[0] == '{' {
		return io.NopCloser(bytes.NewReader(trimmed)), nil
	}
	zr, err := zlib.NewReader(bytes.NewReader(payload))
	if err != nil {
		return nil, errors.NewMalformedRecordError("zlib header: %v", err)
	}
	return zr, nil
}

// Compress zlib-compresses an envelope the way the relay sends it.
func Compress(v interface{}) ([]byte, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return nil, errors.Wrap(err, "marshal envelope")
	}
	var buf bytes.Buffer
	zw := zlib.NewWriter(&buf)
	if _, err := zw.Write(data); err != nil {
		return nil, errors.Wrap(err, "compress envelope")
	}
	if err := zw.Close(); err != nil {
		return nil, errors.Wrap(err, "compress envelope")
	}
	return buf.Bytes(), nil
}
