package mailer

import (
	"bytes"
	"io"
	"mime"
	"mime/multipart"
	"mime/quotedprintable"
	"net/mail"
	"strings"
	"testing"
	"time"

	"github.com/coachevelyne/coachevelyne-api/config"
	"github.com/coachevelyne/coachevelyne-api/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testSite = config.SiteConfig{
	Name:         "Coach Evelyne",
	ContactPhone: "+1 555 0100",
	ContactEmail: "hello@coachevelyne.com",
	Location:     "Lisbon",
}

func testSubmission() *models.ContactSubmission {
	return &models.ContactSubmission{
		FirstName: "Jane",
		LastName:  "Doe",
		Email:     "jane@example.com",
		Phone:     models.PhoneNotProvided,
		Goal:      models.GoalNotSpecified,
		Message:   "I would like to start training <twice> a week.",
	}
}

func testEnvelope() Envelope {
	return Envelope{Sender: "coach@gmail.com", Recipient: "inbox@coachevelyne.com"}
}

func TestBuildMessage(t *testing.T) {
	msg, err := BuildMessage(testSubmission(), testEnvelope(), testSite)
	require.NoError(t, err)

	assert.Equal(t, "Jane Doe", msg.From.Name)
	assert.Equal(t, "coach@gmail.com", msg.From.Address)
	assert.Equal(t, "inbox@coachevelyne.com", msg.To.Address)
	assert.Equal(t, "jane@example.com", msg.ReplyTo.Address)
	assert.Equal(t, DefaultSubject, msg.Subject)

	assert.Contains(t, msg.TextBody, "Name: Jane Doe")
	assert.Contains(t, msg.TextBody, "Phone: Not provided")
	assert.Contains(t, msg.TextBody, "Fitness Goal: Not specified")
	assert.Contains(t, msg.TextBody, "Coach Evelyne | +1 555 0100")

	// html bodies escape submitter content
	assert.Contains(t, msg.HTMLBody, "&lt;twice&gt;")
	assert.NotContains(t, msg.HTMLBody, "<twice>")
	assert.Contains(t, msg.HTMLBody, "mailto:jane@example.com")
}

func TestBuildMessage_AnonymousAndCustomSubject(t *testing.T) {
	sub := testSubmission()
	sub.FirstName = ""
	sub.LastName = ""
	env := testEnvelope()
	env.Subject = "Website enquiry"

	msg, err := BuildMessage(sub, env, testSite)
	require.NoError(t, err)

	assert.Equal(t, models.AnonymousName, msg.From.Name)
	assert.Equal(t, "Website enquiry", msg.Subject)
}

func TestOutboundMessage_Bytes(t *testing.T) {
	msg, err := BuildMessage(testSubmission(), testEnvelope(), testSite)
	require.NoError(t, err)

	date := time.Date(2024, 3, 1, 10, 0, 0, 0, time.UTC)
	raw, err := msg.Bytes("<abc@gmail.com>", date)
	require.NoError(t, err)

	parsed, err := mail.ReadMessage(bytes.NewReader(raw))
	require.NoError(t, err)

	from, err := parsed.Header.AddressList("From")
	require.NoError(t, err)
	require.Len(t, from, 1)
	assert.Equal(t, "Jane Doe", from[0].Name)
	assert.Equal(t, "coach@gmail.com", from[0].Address)

	replyTo, err := parsed.Header.AddressList("Reply-To")
	require.NoError(t, err)
	assert.Equal(t, "jane@example.com", replyTo[0].Address)

	subject, err := new(mime.WordDecoder).DecodeHeader(parsed.Header.Get("Subject"))
	require.NoError(t, err)
	assert.Equal(t, DefaultSubject, subject)
	assert.Equal(t, "<abc@gmail.com>", parsed.Header.Get("Message-ID"))

	sent, err := parsed.Header.Date()
	require.NoError(t, err)
	assert.True(t, sent.Equal(date))

	mediaType, params, err := mime.ParseMediaType(parsed.Header.Get("Content-Type"))
	require.NoError(t, err)
	assert.Equal(t, "multipart/alternative", mediaType)

	reader := multipart.NewReader(parsed.Body, params["boundary"])
	var types, bodies []string
	for {
		part, err := reader.NextPart()
		if err == io.EOF {
			break
		}
		require.NoError(t, err)
		types = append(types, part.Header.Get("Content-Type"))
		body, err := io.ReadAll(quotedprintable.NewReader(part))
		require.NoError(t, err)
		bodies = append(bodies, string(body))
	}

	assert.Equal(t, []string{"text/plain; charset=UTF-8", "text/html; charset=UTF-8"}, types)
	assert.Equal(t, msg.TextBody, bodies[0])
	assert.Equal(t, msg.HTMLBody, bodies[1])
}

func TestOutboundMessage_BytesEncodesNonASCIIName(t *testing.T) {
	sub := testSubmission()
	sub.FirstName = "Zoë"
	msg, err := BuildMessage(sub, testEnvelope(), testSite)
	require.NoError(t, err)

	raw, err := msg.Bytes("<id@gmail.com>", time.Now())
	require.NoError(t, err)

	head, _, _ := strings.Cut(string(raw), "\r\n\r\n")
	assert.NotContains(t, head, "Zoë")

	parsed, err := mail.ReadMessage(bytes.NewReader(raw))
	require.NoError(t, err)
	from, err := parsed.Header.AddressList("From")
	require.NoError(t, err)
	assert.Equal(t, "Zoë Doe", from[0].Name)
}
