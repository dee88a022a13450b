package parser

import (
	"bytes"
	"encoding/json"
	"errors"
	"io"
	"os"
)

// JSONParser re-serializes a JSON document with two-space indentation.
// Object keys come out sorted, numbers keep their original literal.
type JSONParser struct{}

func NewJSONParser() *JSONParser {
	return &JSONParser{}
}

func (p *JSONParser) Extension() string {
	return "json"
}

func (p *JSONParser) Parse(path string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", parseError("JSON", err)
	}

	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()

	var v any
	if err := dec.Decode(&v); err != nil {
		return "", parseError("JSON", err)
	}
	if _, err := dec.Token(); !errors.Is(err, io.EOF) {
		return "", parseError("JSON", errors.New("unexpected data after top-level value"))
	}

	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		return "", parseError("JSON", err)
	}
	return string(bytes.TrimRight(buf.Bytes(), "\n")), nil
}
