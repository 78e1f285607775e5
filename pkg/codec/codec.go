// Package codec holds the wire encodings of the fragments endpoint and the
// CLI.
package codec

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
)

type Codec interface {
	Marshal(v any) ([]byte, error)
	Unmarshal(data []byte, v any) error
	ContentType() string
}

type jsonStrict struct{ indent string }

// JSONStrict emits compact JSON without HTML escaping (fragment markup is
// already escaped by its templates) and rejects unknown fields and trailing
// data on decode.
var JSONStrict Codec = jsonStrict{}

// JSONIndent is JSONStrict with two-space indentation, for terminals.
var JSONIndent Codec = jsonStrict{indent: "  "}

func (c jsonStrict) Marshal(v any) ([]byte, error) {
	buf := &bytes.Buffer{}
	enc := json.NewEncoder(buf)
	enc.SetEscapeHTML(false)
	if c.indent != "" {
		enc.SetIndent("", c.indent)
	}
	if err := enc.Encode(v); err != nil {
		return nil, err
	}
	return bytes.TrimRight(buf.Bytes(), "\n"), nil
}

func (jsonStrict) Unmarshal(data []byte, v any) error {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil {
		return fmt.Errorf("json decode: %w", err)
	}
	var extra any
	if err := dec.Decode(&extra); err != io.EOF {
		return fmt.Errorf("json trailing content")
	}
	return nil
}

func (jsonStrict) ContentType() string { return "application/json" }
