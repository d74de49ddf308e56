package extract

import (
	"bytes"
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"unicode"

	"github.com/ledongthuc/pdf"
	"github.com/nguyenthenguyen/docx"
)

// ErrExtraction is the uniform failure returned for any decoder error.
// Callers never see decoder-specific error shapes.
var ErrExtraction = errors.New("failed to extract text from document")

// ErrUnsupported is returned for extensions outside the supported set.
var ErrUnsupported = errors.New("unsupported file type")

// Text pulls plain text from the file at path according to its declared extension.
// Supported: .pdf, .doc, .docx, .txt (case-insensitive).
// Libraries used: github.com/ledongthuc/pdf (PDF) and github.com/nguyenthenguyen/docx (DOCX).
func Text(path string, ext string) (string, error) {
	switch strings.ToLower(strings.TrimSpace(ext)) {
	case ".pdf":
		return wrap(extractPDF(path))
	case ".docx":
		return wrap(extractDOCX(path))
	case ".doc":
		return wrap(extractDOC(path))
	case ".txt":
		return wrap(extractTXT(path))
	default:
		return "", fmt.Errorf("%w: %s", ErrUnsupported, ext)
	}
}

func wrap(text string, err error) (string, error) {
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrExtraction, err)
	}
	return text, nil
}

func extractPDF(path string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", err
	}
	reader := bytes.NewReader(data)
	pdfReader, err := pdf.NewReader(reader, int64(len(data)))
	if err != nil {
		return "", err
	}
	plain, err := pdfReader.GetPlainText()
	if err != nil {
		return "", err
	}
	var buf bytes.Buffer
	if _, err := io.Copy(&buf, plain); err != nil {
		return "", err
	}
	return buf.String(), nil
}

func extractDOCX(path string) (string, error) {
	f, err := docx.ReadDocxFile(path)
	if err != nil {
		return "", err
	}
	defer f.Close()
	return stripDocxXML(f.Editable().GetContent()), nil
}

// extractDOC handles the legacy binary Word container. There is no dedicated
// decoder for it in the stack, so this salvages readable runs from the raw
// bytes, which is enough for the downstream model to work with.
func extractDOC(path string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", err
	}
	if len(data) == 0 {
		return "", errors.New("empty doc data")
	}

	var buf strings.Builder
	var run []rune
	flush := func() {
		if len(run) >= 4 {
			buf.WriteString(string(run))
			buf.WriteString(" ")
		}
		run = run[:0]
	}
	for _, b := range data {
		r := rune(b)
		if r == '\r' || r == '\n' || r == '\t' || (unicode.IsPrint(r) && r < unicode.MaxASCII) {
			run = append(run, r)
			continue
		}
		flush()
	}
	flush()

	text := strings.TrimSpace(buf.String())
	if text == "" {
		return "", errors.New("no readable text in doc file")
	}
	return text, nil
}

func extractTXT(path string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", err
	}
	return string(data), nil
}

func stripDocxXML(raw string) string {
	decoder := xml.NewDecoder(strings.NewReader(raw))
	var buf strings.Builder
	for {
		tok, err := decoder.Token()
		if err == io.EOF {
			break
		}
		if err != nil {
			return raw
		}
		switch t := tok.(type) {
		case xml.CharData:
			buf.WriteString(string(t))
		case xml.EndElement:
			if t.Name.Local == "p" || t.Name.Local == "br" {
				if last := buf.Len(); last > 0 {
					buf.WriteString("\n")
				}
			}
		}
	}
	return strings.TrimSpace(buf.String())
}
