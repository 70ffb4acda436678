package main

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/designfolio/designfolio/internal/mailer"
)

func (s *server) setupContactRoutes(r *gin.RouterGroup) {
	// HTMX contact form endpoint, returns just the form HTML
	r.GET("/contact-form", func(c *gin.Context) {
		c.HTML(http.StatusOK, "contact.html", gin.H{
			"title": "Let's Chat",
		})
	})
	r.POST("/contact", s.contact)
}

// contact answers with a fragment and status 200 either way so HTMX swaps it
// in.
func (s *server) contact(c *gin.Context) {
	var msg mailer.Message
	if err := c.ShouldBind(&msg); err != nil {
		s.contactError(c, "invalid", "Please fill in every field.")
		return
	}
	if err := msg.Validate(); err != nil {
		s.contactError(c, "invalid", "Please enter your name, a valid email address and a message.")
		return
	}

	err := s.mail.Send(c.Request.Context(), msg)
	switch {
	case err == nil:
		s.metrics.ContactMessage("sent")
		s.logger.Info("contact message sent", zap.String("from", msg.Email))
		c.HTML(http.StatusOK, "contact-success.html", gin.H{
			"success": "Thank you for your message! I'll get back to you soon.",
		})
	case errors.Is(err, mailer.ErrUnavailable):
		s.contactError(c, "unavailable", "Sorry, messages can't be delivered right now. Please try again later.")
	default:
		s.logger.Error("sending contact message", zap.Error(err))
		s.contactError(c, "failed", "Sorry, there was an error sending your message. Please try again later.")
	}
}

func (s *server) contactError(c *gin.Context, outcome, msg string) {
	s.metrics.ContactMessage(outcome)
	c.HTML(http.StatusOK, "contact-error.html", gin.H{
		"error": msg,
	})
}
