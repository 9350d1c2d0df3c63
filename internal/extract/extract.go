package extract

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/ledongthuc/pdf"

	"policy-backend/internal/shared/storage/object"
)

const mimePDF = "application/pdf"

// MinTextChars is the minimum amount of extracted text considered readable.
// Policy PDFs below this are almost always scanned images with no text layer.
const MinTextChars = 50

// ErrNoText indicates the document produced too little text to analyze.
var ErrNoText = errors.New("no readable text found; the document may be a scanned image")

// ExtractText pulls text from a stored object and persists a derived .extracted.txt copy.
// Library used: github.com/ledongthuc/pdf.
func ExtractText(ctx context.Context, store object.ObjectStore, fileKey string, mimeType string, fileName string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	body, err := store.Open(ctx, fileKey)
	if err != nil {
		return "", fmt.Errorf("extract text key=%s mime=%s: %w", fileKey, mimeType, err)
	}
	defer body.Close()

	raw, err := io.ReadAll(body)
	if err != nil {
		return "", fmt.Errorf("extract text key=%s mime=%s: read: %w", fileKey, mimeType, err)
	}

	text, err := ExtractTextFromBytes(ctx, raw, mimeType, fileName)
	if err != nil {
		return "", fmt.Errorf("extract text key=%s mime=%s: %w", fileKey, mimeType, err)
	}

	extractedKey := fileKey + ".extracted.txt"
	if err := saveExtracted(ctx, store, extractedKey, text); err != nil {
		return "", fmt.Errorf("extract text key=%s mime=%s: %w", fileKey, mimeType, err)
	}

	return text, nil
}

// ExtractTextFromBytes extracts text from an in-memory PDF payload.
func ExtractTextFromBytes(ctx context.Context, data []byte, mimeType string, fileName string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	normalized := normalizeMimeType(mimeType, fileName)
	if normalized != mimePDF {
		return "", fmt.Errorf("unsupported mime type: %s", normalized)
	}
	text, err := extractPDF(data)
	if err != nil {
		return "", err
	}
	if err := CheckReadable(text); err != nil {
		return "", err
	}
	return text, nil
}

// CheckReadable rejects text too short to have come from a real text layer.
func CheckReadable(text string) error {
	if len(strings.TrimSpace(text)) < MinTextChars {
		return ErrNoText
	}
	return nil
}

type keySaver interface {
	SaveWithKey(ctx context.Context, storageKey string, contentType string, r io.Reader) (int64, error)
}

func saveExtracted(ctx context.Context, store object.ObjectStore, key string, text string) error {
	saver, ok := store.(keySaver)
	if !ok {
		return errors.New("object store does not support SaveWithKey")
	}
	reader := strings.NewReader(text)
	_, err := saver.SaveWithKey(ctx, key, "text/plain; charset=utf-8", reader)
	return err
}

// extractPDF walks the document page by page so page boundaries survive as
// blank lines in the output.
func extractPDF(data []byte) (string, error) {
	reader := bytes.NewReader(data)
	pdfReader, err := pdf.NewReader(reader, int64(len(data)))
	if err != nil {
		return "", err
	}

	var pages []string
	for i := 1; i <= pdfReader.NumPage(); i++ {
		page := pdfReader.Page(i)
		if page.V.IsNull() {
			continue
		}
		content, err := page.GetPlainText(nil)
		if err != nil {
			continue
		}
		if trimmed := strings.TrimSpace(content); trimmed != "" {
			pages = append(pages, trimmed)
		}
	}
	return strings.Join(pages, "\n\n"), nil
}

func normalizeMimeType(mimeType string, fileName string) string {
	clean := strings.ToLower(strings.TrimSpace(strings.Split(mimeType, ";")[0]))
	if clean != "" && clean != "application/octet-stream" {
		return clean
	}
	if strings.ToLower(filepath.Ext(fileName)) == ".pdf" {
		return mimePDF
	}
	return clean
}
