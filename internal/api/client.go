package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/url"
	"strings"
)

// Client talks to the Captain backend. It never retries.
type Client struct {
	baseURL    string
	httpClient *http.Client
}

// New creates a client from cfg
func New(cfg Config) (*Client, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &Client{
		baseURL:    strings.TrimRight(cfg.BaseURL, "/"),
		httpClient: cfg.HTTPClient,
	}, nil
}

// BaseURL returns the backend address
func (c *Client) BaseURL() string {
	return c.baseURL
}

// Chat posts one message for the given session key and returns the reply.
// A non-ok response yields a *StatusError whose Message is the body's reply.
func (c *Client) Chat(ctx context.Context, message, user string) (string, error) {
	var resp chatResponse
	status, err := c.postJSON(ctx, chatPath, chatRequest{Message: message, User: user}, &resp)
	if err != nil {
		return "", err
	}
	if status < 200 || status > 299 {
		return "", &StatusError{Endpoint: chatPath, StatusCode: status, Message: resp.Reply}
	}
	return resp.Reply, nil
}

// History returns the server-side transcript for a session key. An empty or
// non-array body is reported as no history.
func (c *Client) History(ctx context.Context, user string) ([]Message, error) {
	endpoint := c.baseURL + historyPath + "?user=" + url.QueryEscape(user)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, &TransportError{Endpoint: historyPath, Err: err}
	}
	req.Header.Set("Accept", jsonMimeType)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, &TransportError{Endpoint: historyPath, Err: err}
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &TransportError{Endpoint: historyPath, Err: err}
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, &StatusError{Endpoint: historyPath, StatusCode: resp.StatusCode, Message: strings.TrimSpace(string(body))}
	}

	var messages []Message
	if err := json.Unmarshal(body, &messages); err != nil {
		return nil, nil
	}
	return messages, nil
}

// AskCompliance sends a RAG query and returns the answer text
func (c *Client) AskCompliance(ctx context.Context, r RAGRequest) (string, error) {
	var resp ragResponse
	status, err := c.postJSON(ctx, ragPath, r, &resp)
	if err != nil {
		return "", err
	}
	if status < 200 || status > 299 || resp.Error != "" {
		return "", &StatusError{Endpoint: ragPath, StatusCode: status, Message: firstNonEmpty(resp.Error, resp.Response)}
	}
	return resp.Response, nil
}

// UploadCompliance posts a PDF as multipart field "file"
func (c *Client) UploadCompliance(ctx context.Context, fileName string, content io.Reader) (*ComplianceReport, error) {
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	part, err := mw.CreateFormFile(uploadField, fileName)
	if err != nil {
		return nil, fmt.Errorf("captain api: failed to create form file: %w", err)
	}
	if _, err := io.Copy(part, content); err != nil {
		return nil, fmt.Errorf("captain api: failed to read %s: %w", fileName, err)
	}
	if err := mw.Close(); err != nil {
		return nil, fmt.Errorf("captain api: failed to finish multipart body: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+uploadPath, &buf)
	if err != nil {
		return nil, &TransportError{Endpoint: uploadPath, Err: err}
	}
	req.Header.Set("Content-Type", mw.FormDataContentType())

	var report ComplianceReport
	status, err := c.do(req, uploadPath, &report)
	if err != nil {
		return nil, err
	}
	if status < 200 || status > 299 || report.Error != "" {
		return nil, &StatusError{Endpoint: uploadPath, StatusCode: status, Message: report.Error}
	}
	return &report, nil
}

// GenerateBill asks the backend to render a bill of lading
func (c *Client) GenerateBill(ctx context.Context, r BillRequest) (*BillResult, error) {
	var result BillResult
	status, err := c.postJSON(ctx, billPath, r, &result)
	if err != nil {
		return nil, err
	}
	if status < 200 || status > 299 || result.Error != "" {
		return nil, &StatusError{Endpoint: billPath, StatusCode: status, Message: result.Error}
	}
	return &result, nil
}

func (c *Client) postJSON(ctx context.Context, path string, payload, out interface{}) (int, error) {
	body, err := json.Marshal(payload)
	if err != nil {
		return 0, fmt.Errorf("captain api: failed to marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewBuffer(body))
	if err != nil {
		return 0, &TransportError{Endpoint: path, Err: err}
	}
	req.Header.Set("Content-Type", jsonMimeType)

	return c.do(req, path, out)
}

// do sends req and decodes the body into out. Failure statuses are still
// decoded so callers can surface the server's text; an undecodable body is
// only an error when the status was ok.
func (c *Client) do(req *http.Request, path string, out interface{}) (int, error) {
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return 0, &TransportError{Endpoint: path, Err: err}
	}
	defer resp.Body.Close()

	ok := resp.StatusCode >= 200 && resp.StatusCode <= 299
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil && ok {
		return resp.StatusCode, &TransportError{Endpoint: path, Err: fmt.Errorf("failed to decode response: %w", err)}
	}
	return resp.StatusCode, nil
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
