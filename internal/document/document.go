// Package document defines the two steps that turn an uploaded PDF into
// plain text: storing the file somewhere reachable by URL, and extracting
// its text from that URL.
package document

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/dmitrijs2005/cardiq/internal/common"
)

// Uploader stores a document and returns a URL the Extractor can fetch.
// Failures wrap common.ErrUploadFailure.
type Uploader interface {
	Upload(ctx context.Context, name string, r io.Reader) (string, error)
}

// Extractor returns the plain text of the document at url.
// Failures wrap common.ErrExtractionFailure.
type Extractor interface {
	ExtractText(ctx context.Context, url string) (string, error)
}

// Pipeline runs an upload followed by an extraction.
type Pipeline struct {
	Uploader  Uploader
	Extractor Extractor
}

// Text uploads the document and returns its extracted, non-blank text.
func (p Pipeline) Text(ctx context.Context, name string, r io.Reader) (string, error) {
	url, err := p.Uploader.Upload(ctx, name, r)
	if err != nil {
		return "", err
	}

	text, err := p.Extractor.ExtractText(ctx, url)
	if err != nil {
		return "", err
	}
	if strings.TrimSpace(text) == "" {
		return "", fmt.Errorf("%s: %w", name, common.ErrExtractionFailure)
	}
	return text, nil
}
