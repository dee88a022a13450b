package parser

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"neurabase/internal/domain"
)

func TestTextParser(t *testing.T) {
	path := writeFile(t, "notes.txt", []byte("The capital of France is Paris.\nÇa va?"))

	text, err := Default().Parse(path)
	require.NoError(t, err)
	assert.Equal(t, "The capital of France is Paris.\nÇa va?", text)
}

func TestTextParser_InvalidUTF8(t *testing.T) {
	path := writeFile(t, "latin1.txt", []byte{0x43, 0x61, 0xe7, 0x61})

	_, err := Default().Parse(path)
	assert.ErrorIs(t, err, domain.ErrParse)
}

func TestTextParser_MissingFile(t *testing.T) {
	_, err := NewTextParser().Parse("/nonexistent/notes.txt")
	assert.ErrorIs(t, err, domain.ErrParse)
}

func TestCSVParser(t *testing.T) {
	path := writeFile(t, "cities.csv", []byte("city,country\nParis,France\n\"Berlin, Mitte\",Germany,EU\n"))

	text, err := Default().Parse(path)
	require.NoError(t, err)
	assert.Equal(t, "city | country\nParis | France\nBerlin, Mitte | Germany | EU", text)
}

func TestCSVParser_Empty(t *testing.T) {
	path := writeFile(t, "empty.csv", nil)

	_, err := Default().Parse(path)
	assert.ErrorIs(t, err, domain.ErrParse)
	assert.Contains(t, err.Error(), "CSV file is empty")
}

func TestJSONParser(t *testing.T) {
	path := writeFile(t, "data.json", []byte(`{"name":"Paris","tags":["capital","<city>"],"population":2161000.0}`))

	text, err := Default().Parse(path)
	require.NoError(t, err)

	expected := `{
  "name": "Paris",
  "population": 2161000.0,
  "tags": [
    "capital",
    "<city>"
  ]
}`
	assert.Equal(t, expected, text)
}

func TestJSONParser_Invalid(t *testing.T) {
	tests := map[string]string{
		"truncated": `{"name": "Paris"`,
		"trailing":  `{"a":1} {"b":2}`,
	}
	for name, body := range tests {
		t.Run(name, func(t *testing.T) {
			path := writeFile(t, "bad.json", []byte(body))
			_, err := Default().Parse(path)
			assert.ErrorIs(t, err, domain.ErrParse)
		})
	}
}

func TestDocxParser(t *testing.T) {
	body := `<w:p><w:r><w:t>The capital</w:t></w:r><w:hyperlink><w:r><w:t xml:space="preserve"> of France</w:t></w:r></w:hyperlink></w:p>` +
		`<w:p><w:r><w:t>is</w:t><w:tab/><w:t>Paris.</w:t></w:r></w:p>` +
		`<w:tbl><w:tr><w:tc><w:p><w:r><w:t>table cell</w:t></w:r></w:p></w:tc></w:tr></w:tbl>` +
		`<w:p/>` +
		`<w:p><w:r><w:t>Last</w:t></w:r></w:p>`
	path := writeFile(t, "report.docx", buildDocx(t, body))

	text, err := Default().Parse(path)
	require.NoError(t, err)
	assert.Equal(t, "The capital of France\nis\tParis.\n\nLast", text)
}

func TestDocxParser_NotAZip(t *testing.T) {
	path := writeFile(t, "fake.docx", []byte("plain text pretending to be docx"))

	_, err := Default().Parse(path)
	assert.ErrorIs(t, err, domain.ErrParse)
	assert.Contains(t, err.Error(), "DOCX")
}

func TestPDFParser(t *testing.T) {
	path := writeFile(t, "two-pages.pdf", buildPDF([]string{"First page", "Second page"}))

	text, err := Default().Parse(path)
	require.NoError(t, err)

	first := strings.Index(text, "First page")
	second := strings.Index(text, "Second page")
	require.GreaterOrEqual(t, first, 0, "missing first page in %q", text)
	require.GreaterOrEqual(t, second, 0, "missing second page in %q", text)
	assert.Less(t, first, second)
}

func TestPDFParser_Garbage(t *testing.T) {
	path := writeFile(t, "garbage.pdf", []byte("this is not a pdf"))

	_, err := Default().Parse(path)
	assert.ErrorIs(t, err, domain.ErrParse)
}
