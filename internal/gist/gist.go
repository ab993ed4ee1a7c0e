// Package gist overwrites the content of a GitHub gist.
package gist

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"sort"
	"strings"
	"time"

	"github.com/verte-zerg/wakagist/internal/model"
)

const (
	acceptHeader = "application/vnd.github+json"
	apiVersion   = "2022-11-28"
	maxErrorBody = 512
)

// ErrNoFiles is returned when the target gist has no file to overwrite.
var ErrNoFiles = errors.New("gist has no files")

// StatusError is returned for non-2xx responses.
type StatusError struct {
	StatusCode int
	Status     string
	Body       string
}

func (e *StatusError) Error() string {
	if e.Body == "" {
		return fmt.Sprintf("unexpected gist status: %s", e.Status)
	}
	return fmt.Sprintf("unexpected gist status: %s: %s", e.Status, e.Body)
}

// Client updates a single gist.
type Client struct {
	baseURL     string
	token       string
	gistID      string
	description string
	filename    string
	http        *http.Client
}

// Options configure a Client.
type Options struct {
	BaseURL     string
	Token       string
	GistID      string
	Description string
	// Filename selects the file to overwrite. Empty means the first file of the gist.
	Filename string
	Timeout  time.Duration
}

type gistFile struct {
	Filename string `json:"filename,omitempty"`
	Content  string `json:"content"`
}

type gistPayload struct {
	Description string              `json:"description,omitempty"`
	Files       map[string]gistFile `json:"files"`
}

// New returns a publisher for opts.GistID.
func New(opts Options) *Client {
	timeout := opts.Timeout
	if timeout <= 0 {
		timeout = 60 * time.Second
	}
	return &Client{
		baseURL:     strings.TrimRight(opts.BaseURL, "/"),
		token:       opts.Token,
		gistID:      opts.GistID,
		description: opts.Description,
		filename:    opts.Filename,
		http:        &http.Client{Timeout: timeout},
	}
}

// Publish replaces the gist file content with content.
func (c *Client) Publish(ctx context.Context, content string) (model.PublishResult, error) {
	if c.gistID == "" {
		return model.PublishResult{}, fmt.Errorf("gist id is required")
	}
	filename := c.filename
	if filename == "" {
		name, err := c.firstFilename(ctx)
		if err != nil {
			return model.PublishResult{}, err
		}
		filename = name
	}

	body, err := json.Marshal(gistPayload{
		Description: c.description,
		Files:       map[string]gistFile{filename: {Filename: filename, Content: content}},
	})
	if err != nil {
		return model.PublishResult{}, fmt.Errorf("failed to encode gist payload: %w", err)
	}

	resp, err := c.do(ctx, http.MethodPatch, bytes.NewReader(body))
	if err != nil {
		return model.PublishResult{}, err
	}
	defer func() {
		_ = resp.Body.Close()
	}()
	if err := checkStatus(resp); err != nil {
		return model.PublishResult{}, err
	}

	var stored gistPayload
	if err := json.NewDecoder(resp.Body).Decode(&stored); err != nil {
		return model.PublishResult{}, fmt.Errorf("failed to decode gist response: %w", err)
	}
	return model.PublishResult{
		StatusCode: resp.StatusCode,
		Filename:   filename,
		Content:    stored.Files[filename].Content,
	}, nil
}

func (c *Client) firstFilename(ctx context.Context) (string, error) {
	resp, err := c.do(ctx, http.MethodGet, http.NoBody)
	if err != nil {
		return "", err
	}
	defer func() {
		_ = resp.Body.Close()
	}()
	if err := checkStatus(resp); err != nil {
		return "", err
	}
	var current gistPayload
	if err := json.NewDecoder(resp.Body).Decode(&current); err != nil {
		return "", fmt.Errorf("failed to decode gist response: %w", err)
	}
	if len(current.Files) == 0 {
		return "", ErrNoFiles
	}
	names := make([]string, 0, len(current.Files))
	for name := range current.Files {
		names = append(names, name)
	}
	sort.Strings(names)
	return names[0], nil
}

func (c *Client) do(ctx context.Context, method string, body io.Reader) (*http.Response, error) {
	endpoint := c.baseURL + "/gists/" + url.PathEscape(c.gistID)
	req, err := http.NewRequestWithContext(ctx, method, endpoint, body)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.token)
	req.Header.Set("Accept", acceptHeader)
	req.Header.Set("X-GitHub-Api-Version", apiVersion)
	if method != http.MethodGet {
		req.Header.Set("Content-Type", "application/json")
	}
	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("gist request failed: %w", err)
	}
	return resp, nil
}

func checkStatus(resp *http.Response) error {
	if resp.StatusCode >= 200 && resp.StatusCode < 300 {
		return nil
	}
	body, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
	return &StatusError{
		StatusCode: resp.StatusCode,
		Status:     resp.Status,
		Body:       strings.TrimSpace(string(body)),
	}
}
