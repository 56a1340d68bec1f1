package email

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"eventmaster/internal/domain"
)

func TestTemplateComposer_GuestQR(t *testing.T) {
	c := NewTemplateComposer()
	subject, body, err := c.Compose("guest_qr", domain.GuestQRMailData{
		GuestName:  "John Smith",
		EventName:  "Launch Party",
		EventDate:  "6/1/2025",
		EventTime:  "TBD",
		EventVenue: "Rooftop",
		QRCode:     "QR123456",
	})
	require.NoError(t, err)
	assert.Equal(t, "QR Code for Launch Party", subject)
	assert.True(t, strings.HasPrefix(body, "Hi John Smith,\n\nThank you for your RSVP!"))
	assert.Contains(t, body, "Date: 6/1/2025\nTime: TBD\nVenue: Rooftop\n\nYour QR Code: QR123456")
	assert.True(t, strings.HasSuffix(body, "Best regards,\nEventMaster Team"))
}

func TestTemplateComposer_UnknownTemplate(t *testing.T) {
	_, _, err := NewTemplateComposer().Compose("welcome", nil)
	assert.Error(t, err)
}
