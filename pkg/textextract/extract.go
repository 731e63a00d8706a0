package textextract

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/ledongthuc/pdf"
)

// Extracted is the plain text pulled out of a corpus document.
type Extracted struct {
	Content string
	Pages   int
	Type    string
}

// SupportedExtensions lists the corpus file types ExtractFile understands.
func SupportedExtensions() []string {
	return []string{".pdf", ".txt"}
}

// ExtractFile reads a corpus document from disk and returns its plain text.
func ExtractFile(path string) (*Extracted, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil {
		return nil, fmt.Errorf("stat %s: %w", path, err)
	}
	return Extract(f, info.Size(), filepath.Ext(path))
}

// Extract pulls plain text out of a document by type.
func Extract(data io.ReaderAt, size int64, fileType string) (*Extracted, error) {
	switch strings.ToLower(strings.TrimPrefix(fileType, ".")) {
	case "pdf", "application/pdf":
		return extractPDF(data, size)
	case "txt", "text/plain":
		return extractTXT(data, size)
	default:
		return nil, fmt.Errorf("unsupported file type: %s", fileType)
	}
}

func extractPDF(data io.ReaderAt, size int64) (*Extracted, error) {
	reader, err := pdf.NewReader(data, size)
	if err != nil {
		return nil, fmt.Errorf("open PDF: %w", err)
	}

	var buf strings.Builder
	numPages := reader.NumPage()
	for i := 1; i <= numPages; i++ {
		page := reader.Page(i)
		if page.V.IsNull() {
			continue
		}
		text, err := page.GetPlainText(nil)
		if err != nil {
			continue
		}
		buf.WriteString(text)
		buf.WriteString("\n")
	}

	return &Extracted{Content: buf.String(), Pages: numPages, Type: "pdf"}, nil
}

func extractTXT(data io.ReaderAt, size int64) (*Extracted, error) {
	buf := make([]byte, size)
	if _, err := data.ReadAt(buf, 0); err != nil && err != io.EOF {
		return nil, fmt.Errorf("read TXT: %w", err)
	}
	return &Extracted{Content: string(bytes.TrimSpace(buf)), Pages: 1, Type: "txt"}, nil
}
