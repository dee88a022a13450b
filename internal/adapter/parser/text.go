package parser

import (
	"errors"
	"os"
	"unicode/utf8"
)

// TextParser reads UTF-8 text files verbatim.
type TextParser struct{}

func NewTextParser() *TextParser {
	return &TextParser{}
}

func (p *TextParser) Extension() string {
	return "txt"
}

func (p *TextParser) Parse(path string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", parseError("TXT", err)
	}
	if !utf8.Valid(data) {
		return "", parseError("TXT", errors.New("file is not valid UTF-8"))
	}
	return string(data), nil
}
