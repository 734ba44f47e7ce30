package chat

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/ledongthuc/pdf"
)

// Document is one page of a PDF or a whole text file.
type Document struct {
	Source  string
	Page    int
	Content string
}

// LoadDocuments walks folder and reads every .pdf (per page), .txt and .md file.
// A missing folder yields no documents.
func LoadDocuments(folder string) ([]Document, error) {
	var docs []Document
	err := filepath.WalkDir(folder, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			if errors.Is(err, fs.ErrNotExist) && path == folder {
				return filepath.SkipAll
			}
			return err
		}
		if d.IsDir() {
			return nil
		}

		switch strings.ToLower(filepath.Ext(path)) {
		case ".pdf":
			pages, err := loadPDF(path)
			if err != nil {
				return err
			}
			docs = append(docs, pages...)
		case ".txt", ".md":
			raw, err := os.ReadFile(path)
			if err != nil {
				return fmt.Errorf("failed to read %s: %w", path, err)
			}
			docs = append(docs, Document{Source: path, Page: 1, Content: string(raw)})
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to load documents from %s: %w", folder, err)
	}
	return docs, nil
}

func loadPDF(path string) (pages []Document, err error) {
	defer recoverPDF(path, &err)

	f, r, err := pdf.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open pdf %s: %w", path, err)
	}
	defer f.Close()

	for i := 1; i <= r.NumPage(); i++ {
		p := r.Page(i)
		if p.V.IsNull() {
			continue
		}
		text, err := p.GetPlainText(nil)
		if err != nil {
			return nil, fmt.Errorf("failed to extract page %d of %s: %w", i, path, err)
		}
		if strings.TrimSpace(text) == "" {
			continue
		}
		pages = append(pages, Document{Source: path, Page: i, Content: text})
	}
	return pages, nil
}

// recoverPDF turns a panic of the pdf parser on a malformed file into an error.
func recoverPDF(path string, err *error) {
	if r := recover(); r != nil {
		*err = fmt.Errorf("malformed pdf %s: %v", path, r)
	}
}
