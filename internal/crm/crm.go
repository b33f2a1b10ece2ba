// Package crm looks up the contact details a survey respondent is asked to verify.
package crm

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"github.com/lshigami/fieldsurvey/config"
	"github.com/lshigami/fieldsurvey/internal/model"
	"github.com/rs/zerolog/log"
)

var ErrContactNotFound = errors.New("crm contact not found")

// Contact is the CRM record for a respondent.
type Contact struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	Email     string `json:"email"`
	Phone     string `json:"phone"`
	PhoneType string `json:"phone_type"`
}

// Prefill turns the record into an unconfirmed contact verification answer.
func (c Contact) Prefill() model.ContactVerification {
	return model.ContactVerification{
		Name:      c.Name,
		Email:     c.Email,
		Phone:     c.Phone,
		PhoneType: c.PhoneType,
	}
}

type Lookup interface {
	FindContact(ctx context.Context, contactID string) (*Contact, error)
}

type Client struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
}

// NewClient returns nil when no CRM is configured.
func NewClient(cfg config.CRM) *Client {
	if cfg.BaseURL == "" {
		log.Info().Msg("CRM_BASE_URL not set, contact verification starts empty")
		return nil
	}
	return &Client{
		baseURL:    strings.TrimRight(cfg.BaseURL, "/"),
		apiKey:     cfg.APIKey,
		httpClient: &http.Client{Timeout: cfg.Timeout},
	}
}

func (c *Client) FindContact(ctx context.Context, contactID string) (*Contact, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/contacts/"+url.PathEscape(contactID), nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "application/json")
	if c.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+c.apiKey)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("crm lookup %s: %w", contactID, err)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusNotFound:
		return nil, ErrContactNotFound
	case resp.StatusCode >= http.StatusBadRequest:
		return nil, fmt.Errorf("crm lookup %s: unexpected status %d", contactID, resp.StatusCode)
	}

	var contact Contact
	if err := json.NewDecoder(resp.Body).Decode(&contact); err != nil {
		return nil, fmt.Errorf("crm lookup %s: %w", contactID, err)
	}
	return &contact, nil
}
