package crm

import (
	"context"
	"testing"
	"time"

	"github.com/lshigami/fieldsurvey/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/h2non/gock.v1"
)

func TestNewClientWithoutBaseURL(t *testing.T) {
	assert.Nil(t, NewClient(config.CRM{}))
}

func TestFindContact(t *testing.T) {
	defer gock.Off()
	gock.New("http://crm.test").
		Get("/v2/contacts/contact-42").
		MatchHeader("Authorization", "^Bearer secret$").
		Reply(200).
		JSON(map[string]string{"id": "contact-42", "name": "Jo Smith", "email": "jo@example.com", "phone": "555-0100", "phone_type": "mobile"})

	c := NewClient(config.CRM{BaseURL: "http://crm.test/v2/", APIKey: "secret", Timeout: time.Second})
	contact, err := c.FindContact(context.Background(), "contact-42")
	require.NoError(t, err)
	assert.Equal(t, "Jo Smith", contact.Name)

	prefill := contact.Prefill()
	assert.Equal(t, "jo@example.com", prefill.Email)
	assert.Equal(t, "mobile", prefill.PhoneType)
	assert.Nil(t, prefill.NameCorrect)
	assert.True(t, gock.IsDone())
}

func TestFindContactErrors(t *testing.T) {
	defer gock.Off()
	gock.New("http://crm.test").Get("/contacts/missing").Reply(404)
	gock.New("http://crm.test").Get("/contacts/flaky").Reply(502)

	c := NewClient(config.CRM{BaseURL: "http://crm.test", Timeout: time.Second})
	_, err := c.FindContact(context.Background(), "missing")
	assert.ErrorIs(t, err, ErrContactNotFound)

	_, err = c.FindContact(context.Background(), "flaky")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "502")
}
