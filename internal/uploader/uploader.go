// Package uploader is the single-file upload primitive used by the admin
// tooling: one multipart request per call, byte-level progress reported
// through a callback, JSON response decoded on success. Callers that need
// many uploads call Upload repeatedly; nothing here batches or parallelizes.
package uploader

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"time"
)

// Response is the image endpoint's reply: an opaque reference id and, when
// thumbnail derivation is configured server-side, a thumbnail URL.
type Response struct {
	ID       string `json:"id"`
	ThumbURL string `json:"thumbUrl,omitempty"`
}

type Client struct {
	endpoint string
	username string
	password string
	client   *http.Client
}

// New builds a client for the image upload endpoint, authenticated with the
// admin basic-auth credentials.
func New(endpoint, username, password string) *Client {
	return &Client{
		endpoint: endpoint,
		username: username,
		password: password,
		client:   &http.Client{Timeout: 2 * time.Minute},
	}
}

// progressReader counts bytes as the request body is consumed and reports
// integer percentages. The callback fires on every read, including the
// final 100.
type progressReader struct {
	r          io.Reader
	total      int64
	loaded     int64
	onProgress func(percent int)
}

func (p *progressReader) Read(buf []byte) (int, error) {
	n, err := p.r.Read(buf)
	if n > 0 {
		p.loaded += int64(n)
		if p.total > 0 && p.onProgress != nil {
			p.onProgress(int(p.loaded * 100 / p.total))
		}
	}
	return n, err
}

// Upload sends one file as the multipart `file` field. It resolves with the
// decoded response on any 2xx status and fails on network errors or any
// other status. Exactly one upload is in flight per call.
func (c *Client) Upload(ctx context.Context, filename string, payload *bytes.Reader, onProgress func(percent int)) (*Response, error) {
	body := new(bytes.Buffer)
	form := multipart.NewWriter(body)

	part, err := form.CreateFormFile("file", filename)
	if err != nil {
		return nil, err
	}
	if _, err := io.Copy(part, payload); err != nil {
		return nil, fmt.Errorf("copy payload: %w", err)
	}
	if err := form.Close(); err != nil {
		return nil, err
	}

	reader := &progressReader{
		r:          body,
		total:      int64(body.Len()),
		onProgress: onProgress,
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, reader)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", form.FormDataContentType())
	if c.username != "" {
		req.SetBasicAuth(c.username, c.password)
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("upload request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("upload failed with status %d", resp.StatusCode)
	}

	var out Response
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return nil, fmt.Errorf("decode upload response: %w", err)
	}
	return &out, nil
}

// UploadRef adapts Upload to the draft submission pipeline, which only needs
// the opaque reference.
func (c *Client) UploadRef(ctx context.Context, filename string, payload *bytes.Reader, onProgress func(percent int)) (string, error) {
	resp, err := c.Upload(ctx, filename, payload, onProgress)
	if err != nil {
		return "", err
	}
	return resp.ID, nil
}
