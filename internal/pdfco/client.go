// Package pdfco is a small client of the PDF.co REST API covering file
// upload and PDF to text conversion.
package pdfco

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"mime/multipart"
	"net/http"
	"path/filepath"
	"strings"
	"time"

	"github.com/dmitrijs2005/cardiq/internal/common"
	"github.com/dmitrijs2005/cardiq/internal/config"
	"github.com/dmitrijs2005/cardiq/internal/document"
	"github.com/dmitrijs2005/cardiq/internal/logging"
	"github.com/pkg/errors"
)

const (
	uploadPath  = "/file/upload"
	convertPath = "/pdf/convert/to/text-simple"
	apiKeyHdr   = "x-api-key"
)

// Client talks to PDF.co. It implements both document.Uploader and
// document.Extractor.
type Client struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
	log        logging.Logger
}

var (
	_ document.Uploader  = (*Client)(nil)
	_ document.Extractor = (*Client)(nil)
)

// NewClient builds a client from the documents section of the config.
func NewClient(cfg config.DocumentsConfig, log logging.Logger) *Client {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 60 * time.Second
	}
	return &Client{
		baseURL:    strings.TrimRight(cfg.PDFcoBaseURL, "/"),
		apiKey:     cfg.PDFcoAPIKey,
		httpClient: &http.Client{Timeout: timeout},
		log:        log,
	}
}

// apiResponse covers the fields of both endpoints used here.
type apiResponse struct {
	URL     string `json:"url"`
	Body    string `json:"body"`
	Error   bool   `json:"error"`
	Message string `json:"message"`
	Status  int    `json:"status"`
}

// Upload posts the document as multipart form data and returns the
// temporary URL assigned by PDF.co.
func (c *Client) Upload(ctx context.Context, name string, r io.Reader) (string, error) {
	if name == "" {
		name = "upload.pdf"
	}

	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	part, err := mw.CreateFormFile("file", filepath.Base(name))
	if err != nil {
		return "", errors.Wrapf(common.ErrUploadFailure, "create form file: %v", err)
	}
	if _, err := io.Copy(part, r); err != nil {
		return "", errors.Wrapf(common.ErrUploadFailure, "read document: %v", err)
	}
	if err := mw.Close(); err != nil {
		return "", errors.Wrapf(common.ErrUploadFailure, "close form: %v", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+uploadPath, &buf)
	if err != nil {
		return "", errors.Wrap(common.ErrUploadFailure, err.Error())
	}
	req.Header.Set("Content-Type", mw.FormDataContentType())

	res, err := c.do(req)
	if err != nil {
		return "", errors.Wrapf(common.ErrUploadFailure, "upload %s: %v", name, err)
	}
	if res.URL == "" {
		return "", errors.Wrapf(common.ErrUploadFailure, "upload %s: no url in response", name)
	}

	c.log.Debug(ctx, "document uploaded", "name", name)
	return res.URL, nil
}

// ExtractText converts the PDF at url to plain text synchronously.
// A document without readable text is an extraction failure.
func (c *Client) ExtractText(ctx context.Context, url string) (string, error) {
	payload, err := json.Marshal(map[string]any{
		"url":    url,
		"inline": true,
		"async":  false,
	})
	if err != nil {
		return "", errors.Wrap(common.ErrExtractionFailure, err.Error())
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+convertPath, bytes.NewReader(payload))
	if err != nil {
		return "", errors.Wrap(common.ErrExtractionFailure, err.Error())
	}
	req.Header.Set("Content-Type", "application/json")

	res, err := c.do(req)
	if err != nil {
		return "", errors.Wrapf(common.ErrExtractionFailure, "convert: %v", err)
	}
	if strings.TrimSpace(res.Body) == "" {
		return "", errors.Wrap(common.ErrExtractionFailure, "no readable text found in the document")
	}

	c.log.Debug(ctx, "document text extracted", "chars", len(res.Body))
	return res.Body, nil
}

// do sends req with the API key and decodes the JSON envelope. PDF.co may
// report failures with a 200 status and "error": true.
func (c *Client) do(req *http.Request) (*apiResponse, error) {
	req.Header.Set(apiKeyHdr, c.apiKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, errors.Wrap(err, "request failed")
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, errors.Wrap(err, "read response")
	}

	var out apiResponse
	if err := json.Unmarshal(raw, &out); err != nil {
		return nil, errors.Errorf("status %d: undecodable response: %.200s", resp.StatusCode, raw)
	}
	if out.Error || resp.StatusCode >= http.StatusBadRequest {
		msg := out.Message
		if msg == "" {
			msg = http.StatusText(resp.StatusCode)
		}
		return nil, errors.Errorf("status %d: %s", resp.StatusCode, msg)
	}
	return &out, nil
}
