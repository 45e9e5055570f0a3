package api

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
)

// Upload posts a file as multipart form data (field name "file") and
// returns the URL the backend stored it under.
func (c *Client) Upload(ctx context.Context, filename string, content io.Reader) (string, error) {
	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)
	part, err := writer.CreateFormFile("file", filename)
	if err != nil {
		return "", fmt.Errorf("upload %s: %w", filename, err)
	}
	if _, err := io.Copy(part, content); err != nil {
		return "", fmt.Errorf("upload %s: read content: %w", filename, err)
	}
	if err := writer.Close(); err != nil {
		return "", fmt.Errorf("upload %s: %w", filename, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/upload", &buf)
	if err != nil {
		return "", fmt.Errorf("upload %s: %w", filename, err)
	}
	req.Header.Set("Content-Type", writer.FormDataContentType())
	if err := c.authorize(req); err != nil {
		return "", err
	}

	resp, err := c.doer.Do(req)
	if err != nil {
		return "", fmt.Errorf("upload %s: %w", filename, err)
	}
	defer resp.Body.Close()

	env, err := decodeEnvelope(resp)
	if err != nil {
		return "", fmt.Errorf("upload %s: %w", filename, err)
	}
	if env.URL == "" {
		return "", fmt.Errorf("upload %s: backend returned no url", filename)
	}
	return env.URL, nil
}
