// Package client talks to the survey HTTP API on behalf of a respondent front end.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/lshigami/fieldsurvey/internal/apperror"
	"github.com/lshigami/fieldsurvey/internal/dto"
)

// APIError is a non-2xx reply from the survey API. It unwraps to the
// apperror sentinel named by its code, when there is one.
type APIError struct {
	Status  int
	Code    string
	Message string
	Details []string
}

func (e *APIError) Error() string {
	msg := fmt.Sprintf("survey api: %d %s", e.Status, e.Message)
	if len(e.Details) > 0 {
		msg += " (" + strings.Join(e.Details, ", ") + ")"
	}
	return msg
}

func (e *APIError) Unwrap() error {
	return apperror.FromCode(e.Code)
}

type Client struct {
	baseURL    string
	httpClient *http.Client
}

// New returns a client for the API rooted at baseURL, e.g. http://localhost:8080/api/v1.
func New(baseURL string, timeout time.Duration) *Client {
	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: timeout},
	}
}

func (c *Client) GetSurvey(ctx context.Context, surveyID string) (*dto.SurveyDTO, error) {
	var survey dto.SurveyDTO
	if err := c.do(ctx, http.MethodGet, "/surveys/"+url.PathEscape(surveyID), nil, &survey); err != nil {
		return nil, err
	}
	return &survey, nil
}

func (c *Client) GetProgress(ctx context.Context, respondentID, surveyID string) (*dto.ProgressDTO, error) {
	path := "/surveys/" + url.PathEscape(surveyID) + "/progress?respondent_id=" + url.QueryEscape(respondentID)
	var progress dto.ProgressDTO
	if err := c.do(ctx, http.MethodGet, path, nil, &progress); err != nil {
		return nil, err
	}
	return &progress, nil
}

func (c *Client) SaveResponse(ctx context.Context, req dto.UpsertResponseRequest) error {
	return c.do(ctx, http.MethodPost, "/responses", req, nil)
}

func (c *Client) CompleteSession(ctx context.Context, req dto.CompleteSessionRequest) error {
	return c.do(ctx, http.MethodPost, "/sessions/complete", req, nil)
}

func (c *Client) do(ctx context.Context, method, path string, in, out any) error {
	var body io.Reader
	if in != nil {
		raw, err := json.Marshal(in)
		if err != nil {
			return fmt.Errorf("failed to encode request: %w", err)
		}
		body = bytes.NewReader(raw)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return err
	}
	req.Header.Set("Accept", "application/json")
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= http.StatusBadRequest {
		return decodeError(resp)
	}
	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("failed to decode %s %s: %w", method, path, err)
	}
	return nil
}

func decodeError(resp *http.Response) error {
	apiErr := &APIError{Status: resp.StatusCode, Message: http.StatusText(resp.StatusCode)}
	var body dto.ErrorResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err == nil {
		if body.Message != "" {
			apiErr.Message = body.Message
		}
		apiErr.Code = body.Code
		apiErr.Details = body.Details
	}
	if apiErr.Code == "" && resp.StatusCode == http.StatusNotFound {
		apiErr.Code = apperror.CodeNotFound
	}
	return apiErr
}

// IsRetryable reports whether err is worth retrying: transport failures and
// 5xx replies are, rejected requests are not.
func IsRetryable(err error) bool {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr.Status >= http.StatusInternalServerError
	}
	return err != nil
}
