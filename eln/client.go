// Package eln is a client for the RSpace electronic lab notebook API.
//
// It covers the three capabilities the toolkit needs: uploading gallery
// attachments, creating structured documents, and listing existing
// documents. Authentication is a per-user API key sent as the apiKey header;
// treat it like a password.
package eln

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"mime/multipart"
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"
)

// maxResponseBody caps the amount of response data read from the remote
// service to prevent memory exhaustion (10 MiB).
const maxResponseBody int64 = 10 << 20

// APIError is a non-2xx response from the ELN service.
type APIError struct {
	StatusCode int
	Body       string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("eln: status %d: %s", e.StatusCode, e.Body)
}

// Client talks to one RSpace instance on behalf of one user.
type Client struct {
	baseURL string
	apiKey  string
	http    *http.Client
	logger  *slog.Logger
}

// Option customizes a Client.
type Option func(*Client)

// WithHTTPClient replaces the default HTTP client (30s timeout).
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.http = hc }
}

// WithLogger sets the client logger.
func WithLogger(logger *slog.Logger) Option {
	return func(c *Client) { c.logger = logger }
}

// New creates a Client for the RSpace instance at baseURL.
func New(baseURL, apiKey string, opts ...Option) *Client {
	c := &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		apiKey:  apiKey,
		http:    &http.Client{Timeout: 30 * time.Second},
		logger:  slog.Default(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// FileInfo describes an uploaded gallery file.
type FileInfo struct {
	ID          int64  `json:"id"`
	GlobalID    string `json:"globalId"`
	Name        string `json:"name"`
	Size        int64  `json:"size"`
	ContentType string `json:"contentType"`
	Created     string `json:"created"`
}

// Field is one content field of a document.
type Field struct {
	Content string `json:"content"`
}

// Document is a full document including its fields.
type Document struct {
	ID       int64   `json:"id"`
	GlobalID string  `json:"globalId"`
	Name     string  `json:"name"`
	Created  string  `json:"created"`
	Tags     string  `json:"tags"`
	Fields   []Field `json:"fields"`
}

// DocumentInfo is the per-document summary returned by listings.
type DocumentInfo struct {
	ID       int64  `json:"id"`
	GlobalID string `json:"globalId"`
	Name     string `json:"name"`
	Created  string `json:"created"`
}

// DocumentList is one page of a document listing.
type DocumentList struct {
	TotalHits int            `json:"totalHits"`
	PageNum   int            `json:"pageNumber"`
	Documents []DocumentInfo `json:"documents"`
}

// DocumentRequest describes a document to create.
type DocumentRequest struct {
	Name string
	// Tags to attach; the API stores them as one comma-separated string.
	Tags []string
	// Fields in order; most documents have a single content field.
	Fields []Field
	// ParentFolderID places the document in a folder or notebook. Zero
	// leaves placement to the server default (the user's workspace).
	ParentFolderID int64
}

// UploadFile uploads the file at path to the gallery with the given caption.
// The file is streamed; it is never buffered in memory as a whole.
func (c *Client) UploadFile(ctx context.Context, path, caption string) (*FileInfo, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("eln: open %s: %w", path, err)
	}
	defer f.Close()

	pr, pw := io.Pipe()
	mw := multipart.NewWriter(pw)

	go func() {
		err := func() error {
			if caption != "" {
				if err := mw.WriteField("caption", caption); err != nil {
					return err
				}
			}
			part, err := mw.CreateFormFile("file", filepath.Base(path))
			if err != nil {
				return err
			}
			if _, err := io.Copy(part, f); err != nil {
				return err
			}
			return mw.Close()
		}()
		pw.CloseWithError(err)
	}()

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/api/v1/files", pr)
	if err != nil {
		return nil, fmt.Errorf("eln: create upload request: %w", err)
	}
	req.Header.Set("Content-Type", mw.FormDataContentType())

	var info FileInfo
	if err := c.do(req, &info); err != nil {
		return nil, fmt.Errorf("eln: upload %s: %w", path, err)
	}
	c.logger.Debug("uploaded file", "path", path, "id", info.ID, "global_id", info.GlobalID)
	return &info, nil
}

// CreateDocument creates a document and returns the server's view of it.
func (c *Client) CreateDocument(ctx context.Context, dr DocumentRequest) (*Document, error) {
	// Wire format: tags travel as one comma-separated string.
	body := struct {
		Name           string  `json:"name"`
		Tags           string  `json:"tags,omitempty"`
		Fields         []Field `json:"fields"`
		ParentFolderID int64   `json:"parentFolderId,omitempty"`
	}{
		Name:           dr.Name,
		Tags:           strings.Join(dr.Tags, ","),
		Fields:         dr.Fields,
		ParentFolderID: dr.ParentFolderID,
	}

	data, err := json.Marshal(body)
	if err != nil {
		return nil, fmt.Errorf("eln: marshal document: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/api/v1/documents", bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("eln: create document request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	var doc Document
	if err := c.do(req, &doc); err != nil {
		return nil, fmt.Errorf("eln: create document %q: %w", dr.Name, err)
	}
	c.logger.Debug("created document", "name", dr.Name, "id", doc.ID)
	return &doc, nil
}

// GetDocuments returns one page of the user's documents.
func (c *Client) GetDocuments(ctx context.Context, pageNumber int) (*DocumentList, error) {
	u := c.baseURL + "/api/v1/documents?pageNumber=" + strconv.Itoa(pageNumber)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, fmt.Errorf("eln: list request: %w", err)
	}

	var list DocumentList
	if err := c.do(req, &list); err != nil {
		return nil, fmt.Errorf("eln: list documents page %d: %w", pageNumber, err)
	}
	return &list, nil
}

// ListAllDocuments pages through the listing until an empty page.
func (c *Client) ListAllDocuments(ctx context.Context) ([]DocumentInfo, error) {
	var all []DocumentInfo
	for page := 0; ; page++ {
		list, err := c.GetDocuments(ctx, page)
		if err != nil {
			return nil, err
		}
		if len(list.Documents) == 0 {
			return all, nil
		}
		all = append(all, list.Documents...)
	}
}

// GetDocument fetches a single document including its field content.
func (c *Client) GetDocument(ctx context.Context, id int64) (*Document, error) {
	u := c.baseURL + "/api/v1/documents/" + url.PathEscape(strconv.FormatInt(id, 10))
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, fmt.Errorf("eln: get request: %w", err)
	}

	var doc Document
	if err := c.do(req, &doc); err != nil {
		return nil, fmt.Errorf("eln: get document %d: %w", id, err)
	}
	return &doc, nil
}

// do sends the request with auth headers and decodes the JSON response into
// out. Non-2xx statuses become an *APIError carrying the response body.
func (c *Client) do(req *http.Request, out any) error {
	req.Header.Set("apiKey", c.apiKey)
	req.Header.Set("Accept", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("do request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBody))
	if err != nil {
		return fmt.Errorf("read response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return &APIError{StatusCode: resp.StatusCode, Body: strings.TrimSpace(string(body))}
	}

	if out != nil {
		if err := json.Unmarshal(body, out); err != nil {
			return fmt.Errorf("decode response: %w", err)
		}
	}
	return nil
}
