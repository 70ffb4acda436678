package main

import (
	"errors"
	"net/http"
	"net/url"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/designfolio/designfolio/internal/mailer"
)

func contactForm(name, email, message string) url.Values {
	return url.Values{"fullName": {name}, "email": {email}, "message": {message}}
}

func TestContactSends(t *testing.T) {
	s, mail := newTestServer(t)
	b := newBrowser(s.routes())

	w := b.do(http.MethodPost, "/contact", contactForm(" Ada ", "ada@example.com", "Loved the FocusFlow case study."))
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "Thank you for your message!")

	require.Len(t, mail.sent, 1)
	assert.Equal(t, "Ada", mail.sent[0].FullName)
	assert.Equal(t, 1.0, testutil.ToFloat64(s.metrics.ContactMessages.WithLabelValues("sent")))
}

func TestContactRejectsInvalidInput(t *testing.T) {
	s, mail := newTestServer(t)
	b := newBrowser(s.routes())

	tests := map[string]url.Values{
		"bad email":     contactForm("Ada", "not-an-email", "hi"),
		"blank name":    contactForm("   ", "ada@example.com", "hi"),
		"empty message": contactForm("Ada", "ada@example.com", ""),
	}
	for name, form := range tests {
		t.Run(name, func(t *testing.T) {
			w := b.do(http.MethodPost, "/contact", form)
			require.Equal(t, http.StatusOK, w.Code)
			assert.Contains(t, w.Body.String(), "Please enter your name")
		})
	}
	assert.Empty(t, mail.sent)
}

func TestContactDeliveryFailures(t *testing.T) {
	s, mail := newTestServer(t)
	b := newBrowser(s.routes())

	mail.err = mailer.ErrUnavailable
	w := b.do(http.MethodPost, "/contact", contactForm("Ada", "ada@example.com", "hi"))
	assert.Contains(t, w.Body.String(), "delivered right now")

	mail.err = errors.New("dial tcp: connection refused")
	w = b.do(http.MethodPost, "/contact", contactForm("Ada", "ada@example.com", "hi"))
	assert.Contains(t, w.Body.String(), "there was an error sending your message")
}
