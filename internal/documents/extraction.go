package documents

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/dslipak/pdf"
	"github.com/lu4p/cat"
)

type fileType int

const (
	typeUnsupported fileType = iota
	typePlainText
	typePDF
	typeRichDoc
)

func docType(name string) fileType {
	switch strings.ToLower(filepath.Ext(name)) {
	case ".txt", ".md":
		return typePlainText
	case ".pdf":
		return typePDF
	case ".docx", ".rtf", ".odt":
		return typeRichDoc
	default:
		return typeUnsupported
	}
}

func extractText(path string) (string, error) {
	switch docType(path) {
	case typePlainText:
		raw, err := os.ReadFile(path)
		if err != nil {
			return "", err
		}
		return string(raw), nil
	case typePDF:
		return extractPDF(path)
	case typeRichDoc:
		return extractRichDoc(path)
	default:
		return "", fmt.Errorf("unsupported file type %q", filepath.Ext(path))
	}
}

func extractPDF(path string) (string, error) {
	f, err := pdf.Open(path)
	if err != nil {
		return "", fmt.Errorf("failed to open pdf: %w", err)
	}

	var sb strings.Builder
	numPages := f.NumPage()
	for i := 1; i <= numPages; i++ {
		page := f.Page(i)
		if page.V.IsNull() {
			continue
		}

		content, err := protectExtract(page)
		if err != nil {
			// one bad page should not sink the document
			continue
		}
		if sb.Len() > 0 {
			sb.WriteString("\n\n")
		}
		sb.WriteString(content)
	}
	return sb.String(), nil
}

// extractRichDoc reads a .odt, .docx or .rtf file and returns the content as a string
func extractRichDoc(path string) (string, error) {
	text, err := cat.File(path)
	if err != nil {
		return "", fmt.Errorf("failed to extract document: %w", err)
	}
	return text, nil
}

// protectExtract guards against pdf pages whose text extraction never returns.
func protectExtract(page pdf.Page) (string, error) {
	type result struct {
		content string
		err     error
	}
	resChan := make(chan result, 1)

	go func() {
		content, err := page.GetPlainText(nil)
		resChan <- result{content, err}
	}()
	select {
	case r := <-resChan:
		return r.content, r.err
	case <-time.After(time.Second * 10):
		return "", errors.New("timeout")
	}
}
