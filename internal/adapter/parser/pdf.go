package parser

import (
	"strings"

	"github.com/ledongthuc/pdf"
)

// PDFParser concatenates the plain text of every page in page order.
type PDFParser struct{}

func NewPDFParser() *PDFParser {
	return &PDFParser{}
}

func (p *PDFParser) Extension() string {
	return "pdf"
}

func (p *PDFParser) Parse(path string) (string, error) {
	f, reader, err := pdf.Open(path)
	if err != nil {
		return "", parseError("PDF", err)
	}
	defer f.Close()

	var sb strings.Builder
	for i := 1; i <= reader.NumPage(); i++ {
		page := reader.Page(i)
		if page.V.IsNull() {
			continue
		}
		text, err := page.GetPlainText(nil)
		if err != nil {
			return "", parseError("PDF", err)
		}
		sb.WriteString(text)
	}
	return sb.String(), nil
}
