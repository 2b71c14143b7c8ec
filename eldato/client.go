package eldato

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"mime/multipart"
	"net/http"
	"sort"
	"strings"
	"time"

	"eldato-web/apperrors"
)

const maxErrorBody = 64 << 10

// Client talks to the El Dato REST API.
// A Client is safe for concurrent use; WithToken returns a copy bound to one session.
type Client struct {
	baseURL    string
	httpClient *http.Client
	token      string
}

// NewClient creates a client for the API rooted at baseURL
func NewClient(baseURL string, timeout time.Duration) *Client {
	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: timeout},
	}
}

// WithToken returns a copy of the client that authenticates with token
func (c *Client) WithToken(token string) *Client {
	cp := *c
	cp.token = token
	return &cp
}

func (c *Client) do(ctx context.Context, method, path string, body, out interface{}, fallback string) error {
	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encoding %s %s: %w", method, path, err)
		}
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return fmt.Errorf("building %s %s: %w", method, path, err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	return c.send(req, out, fallback)
}

func (c *Client) doMultipart(ctx context.Context, path, field, filename string, file io.Reader, out interface{}, fallback string) error {
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	part, err := mw.CreateFormFile(field, filename)
	if err != nil {
		return fmt.Errorf("building form for %s: %w", path, err)
	}
	if _, err := io.Copy(part, file); err != nil {
		return apperrors.Transient(err, fallback)
	}
	if err := mw.Close(); err != nil {
		return fmt.Errorf("closing form for %s: %w", path, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, &buf)
	if err != nil {
		return fmt.Errorf("building POST %s: %w", path, err)
	}
	req.Header.Set("Content-Type", mw.FormDataContentType())
	return c.send(req, out, fallback)
}

func (c *Client) send(req *http.Request, out interface{}, fallback string) error {
	req.Header.Set("Accept", "application/json")
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		log.Printf("❌ El Dato API %s %s failed: %v", req.Method, req.URL.Path, err)
		return apperrors.Transient(err, fallback)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= http.StatusBadRequest {
		raw, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		message, fields := decodeProblem(raw)
		appErr := apperrors.FromStatus(resp.StatusCode, message, fallback)
		if len(fields) > 0 {
			appErr.WithFields(fields)
		}
		if appErr.Kind == apperrors.KindTransient {
			log.Printf("❌ El Dato API %s %s returned %d", req.Method, req.URL.Path, resp.StatusCode)
		}
		return appErr
	}

	if out == nil {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil
	}
	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return apperrors.Transient(err, fallback)
	}
	if len(bytes.TrimSpace(raw)) == 0 {
		return nil
	}
	if err := json.Unmarshal(raw, out); err != nil {
		log.Printf("❌ El Dato API %s %s sent an undecodable body: %v", req.Method, req.URL.Path, err)
		return apperrors.Transient(err, fallback)
	}
	return nil
}

// maxProblemRunes caps plain-text error bodies shown to users
const maxProblemRunes = 300

// decodeProblem extracts the human message from an error body.
// The API answers with a bare string, {message}, {error}, {title} or a
// validation problem document carrying an errors map.
func decodeProblem(raw []byte) (string, map[string]string) {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 {
		return "", nil
	}

	var generic interface{}
	if err := json.Unmarshal(raw, &generic); err != nil {
		text := string(raw)
		if strings.HasPrefix(text, "<") {
			return "", nil
		}
		if runes := []rune(text); len(runes) > maxProblemRunes {
			text = string(runes[:maxProblemRunes])
		}
		return text, nil
	}

	switch v := generic.(type) {
	case string:
		return strings.TrimSpace(v), nil
	case map[string]interface{}:
		fields := problemFields(v["errors"])
		for _, key := range []string{"message", "error", "detail", "title"} {
			if s := stringField(v[key]); s != "" {
				if key == "title" && len(fields) > 0 {
					return joinFields(fields), fields
				}
				return s, fields
			}
		}
		if len(fields) > 0 {
			return joinFields(fields), fields
		}
	}
	return "", nil
}

func stringField(v interface{}) string {
	switch t := v.(type) {
	case string:
		return strings.TrimSpace(t)
	case map[string]interface{}:
		return stringField(t["message"])
	}
	return ""
}

func problemFields(v interface{}) map[string]string {
	m, ok := v.(map[string]interface{})
	if !ok || len(m) == 0 {
		return nil
	}
	fields := make(map[string]string, len(m))
	for field, msgs := range m {
		switch t := msgs.(type) {
		case []interface{}:
			parts := make([]string, 0, len(t))
			for _, msg := range t {
				if s, ok := msg.(string); ok && s != "" {
					parts = append(parts, s)
				}
			}
			if len(parts) > 0 {
				fields[field] = strings.Join(parts, " ")
			}
		case string:
			fields[field] = t
		}
	}
	return fields
}

func joinFields(fields map[string]string) string {
	keys := make([]string, 0, len(fields))
	for k := range fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	msgs := make([]string, 0, len(keys))
	for _, k := range keys {
		msgs = append(msgs, fields[k])
	}
	return strings.Join(msgs, " ")
}
