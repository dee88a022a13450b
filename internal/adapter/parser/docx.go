package parser

import (
	"archive/zip"
	"encoding/xml"
	"errors"
	"io"
	"strings"
)

// DocxParser extracts body paragraphs from word/document.xml, one paragraph
// per line.
type DocxParser struct{}

func NewDocxParser() *DocxParser {
	return &DocxParser{}
}

func (p *DocxParser) Extension() string {
	return "docx"
}

func (p *DocxParser) Parse(path string) (string, error) {
	reader, err := zip.OpenReader(path)
	if err != nil {
		return "", parseError("DOCX", err)
	}
	defer reader.Close()

	for _, file := range reader.File {
		if file.Name != "word/document.xml" {
			continue
		}

		rc, err := file.Open()
		if err != nil {
			return "", parseError("DOCX", err)
		}
		text, err := parseDocumentXML(rc)
		rc.Close()
		if err != nil {
			return "", parseError("DOCX", err)
		}
		return text, nil
	}
	return "", parseError("DOCX", errors.New("word/document.xml not found"))
}

// parseDocumentXML walks the document token stream and collects the text of
// every paragraph that is a direct child of the body. Runs nested in
// hyperlinks, smart tags and similar wrappers keep their document order.
func parseDocumentXML(r io.Reader) (string, error) {
	dec := xml.NewDecoder(r)

	var (
		paragraphs []string
		current    strings.Builder
		stack      []string
		inPara     bool
	)

	parent := func() string {
		if len(stack) < 2 {
			return ""
		}
		return stack[len(stack)-2]
	}

	for {
		tok, err := dec.Token()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return "", err
		}

		switch t := tok.(type) {
		case xml.StartElement:
			stack = append(stack, t.Name.Local)
			switch t.Name.Local {
			case "p":
				if parent() == "body" {
					inPara = true
					current.Reset()
				}
			case "tab":
				if inPara {
					current.WriteByte('\t')
				}
			case "br", "cr":
				if inPara {
					current.WriteByte('\n')
				}
			}
		case xml.CharData:
			if inPara && len(stack) > 0 && stack[len(stack)-1] == "t" {
				current.Write(t)
			}
		case xml.EndElement:
			if t.Name.Local == "p" && inPara && parent() == "body" {
				paragraphs = append(paragraphs, current.String())
				inPara = false
			}
			if len(stack) > 0 {
				stack = stack[:len(stack)-1]
			}
		}
	}

	return strings.Join(paragraphs, "\n"), nil
}
