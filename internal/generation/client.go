// Package generation talks to the external image-generation service.
package generation

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"studio-service/internal/config"
	apperrors "studio-service/pkg/errors"
)

const (
	statusSuccess     = "success"
	maxResponseBytes  = 1 << 20
	// errorSnippetBytes caps how much of a failed response ends up in the error.
	errorSnippetBytes = 512
	headerContentType = "Content-Type"
	headerAuth        = "Authorization"
	contentTypeJSON   = "application/json"
	bearerPrefix      = "Bearer "

	msgGenerationFailed        = "generation service failed"
	msgGenerationNotSet        = "generation service is not configured"
	errUnexpectedStatusFmt     = "unexpected status %d: %s"
	errUnsuccessfulFmt         = "status %q: %s"
	errMissingImageURL         = "success response without image_url"
	errFailedEncodeRequestFmt  = "failed to encode generation request: %w"
	errFailedBuildRequestFmt   = "failed to build generation request: %w"
	errFailedDecodeResponseFmt = "failed to decode generation response: %w"
)

type Request struct {
	ImageRefs []string `json:"image_refs"`
	Style     string   `json:"style"`
	Prompt    string   `json:"prompt"`
}

type Result struct {
	ImageURL string `json:"image_url"`
}

type response struct {
	Status   string `json:"status"`
	ImageURL string `json:"image_url"`
	Error    string `json:"error"`
	Message  string `json:"message"`
}

type Client struct {
	url    string
	apiKey string
	http   *http.Client
}

func NewClient(cfg *config.GenerationConfig) *Client {
	return &Client{
		url:    cfg.URL,
		apiKey: cfg.APIKey,
		http:   &http.Client{Timeout: cfg.Timeout},
	}
}

// Generate posts req and returns the generated image. Every failure,
// including timeouts and non-success payloads, is an ExternalService error.
func (c *Client) Generate(ctx context.Context, req Request) (*Result, error) {
	if c.url == "" {
		return nil, apperrors.ExternalService(msgGenerationNotSet, nil)
	}
	if req.ImageRefs == nil {
		req.ImageRefs = []string{}
	}

	body, err := json.Marshal(req)
	if err != nil {
		return nil, fmt.Errorf(errFailedEncodeRequestFmt, err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.url, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf(errFailedBuildRequestFmt, err)
	}
	httpReq.Header.Set(headerContentType, contentTypeJSON)
	if c.apiKey != "" {
		httpReq.Header.Set(headerAuth, bearerPrefix+c.apiKey)
	}

	resp, err := c.http.Do(httpReq)
	if err != nil {
		return nil, apperrors.ExternalService(msgGenerationFailed, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		snippet, _ := io.ReadAll(io.LimitReader(resp.Body, errorSnippetBytes))
		return nil, apperrors.ExternalService(msgGenerationFailed,
			fmt.Errorf(errUnexpectedStatusFmt, resp.StatusCode, strings.TrimSpace(string(snippet))))
	}

	var out response
	if err := json.NewDecoder(io.LimitReader(resp.Body, maxResponseBytes)).Decode(&out); err != nil {
		return nil, apperrors.ExternalService(msgGenerationFailed, fmt.Errorf(errFailedDecodeResponseFmt, err))
	}
	if out.Status != statusSuccess {
		detail := out.Error
		if detail == "" {
			detail = out.Message
		}
		return nil, apperrors.ExternalService(msgGenerationFailed, fmt.Errorf(errUnsuccessfulFmt, out.Status, detail))
	}
	if out.ImageURL == "" {
		return nil, apperrors.ExternalService(msgGenerationFailed, fmt.Errorf(errMissingImageURL))
	}

	return &Result{ImageURL: out.ImageURL}, nil
}
