package ingest

import (
	"archive/zip"
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/ledongthuc/pdf"
)

// ErrNoText reports a source that yielded no words.
var ErrNoText = errors.New("no extractable text")

// Document is a source file reduced to its whitespace-separated words.
type Document struct {
	Title string
	Path  string
	Words []string
}

type extractor func(path string) (string, error)

var extractors = map[string]extractor{
	".pdf":  extractPDF,
	".docx": extractDOCX,
	".txt":  extractPlain,
	".md":   extractPlain,
}

// Load extracts the word stream of a .pdf, .docx, .txt or .md file.
func Load(path string) (*Document, error) {
	ext := strings.ToLower(filepath.Ext(path))
	extract, ok := extractors[ext]
	if !ok {
		return nil, fmt.Errorf("unsupported file type %q: %s", ext, filepath.Base(path))
	}
	text, err := extract(path)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", filepath.Base(path), err)
	}
	words := strings.Fields(text)
	if len(words) == 0 {
		return nil, fmt.Errorf("%s: %w", filepath.Base(path), ErrNoText)
	}
	return &Document{
		Title: strings.TrimSuffix(filepath.Base(path), filepath.Ext(path)),
		Path:  path,
		Words: words,
	}, nil
}

func extractPlain(path string) (string, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("read file: %w", err)
	}
	return string(raw), nil
}

func extractDOCX(path string) (string, error) {
	zr, err := zip.OpenReader(path)
	if err != nil {
		return "", fmt.Errorf("open docx zip: %w", err)
	}
	defer zr.Close()

	body, err := zr.Open("word/document.xml")
	if err != nil {
		return "", fmt.Errorf("open document.xml: %w", err)
	}
	defer body.Close()
	return docxText(body)
}

// docxText collects <w:t> runs. Paragraphs, tabs and breaks become spaces so
// adjacent runs in different paragraphs never fuse into one word.
func docxText(r io.Reader) (string, error) {
	decoder := xml.NewDecoder(r)
	var b strings.Builder
	inText := false
	for {
		tok, err := decoder.Token()
		if err == io.EOF {
			return b.String(), nil
		}
		if err != nil {
			return "", fmt.Errorf("decode document.xml: %w", err)
		}

		switch t := tok.(type) {
		case xml.StartElement:
			switch t.Name.Local {
			case "t":
				inText = true
			case "p", "tab", "br", "cr":
				b.WriteByte(' ')
			}
		case xml.EndElement:
			if t.Name.Local == "t" {
				inText = false
			}
		case xml.CharData:
			if inText {
				b.Write(t)
			}
		}
	}
}

func extractPDF(path string) (string, error) {
	f, r, err := pdf.Open(path)
	if err != nil {
		return "", fmt.Errorf("open pdf: %w", err)
	}
	defer f.Close()

	var b strings.Builder
	for i := range r.NumPage() {
		page := r.Page(i + 1)
		if page.V.IsNull() {
			continue
		}
		content, err := page.GetPlainText(nil)
		if err != nil {
			continue
		}
		b.WriteString(content)
		b.WriteByte('\n')
	}
	return b.String(), nil
}
