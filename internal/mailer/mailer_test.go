package mailer

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	mail "gopkg.in/mail.v2"
	"seungpyo.lee/PersonalBlog/internal/domain"
)

type recordingDialer struct {
	sent []*mail.Message
	err  error
}

func (d *recordingDialer) DialAndSend(m ...*mail.Message) error {
	d.sent = append(d.sent, m...)
	return d.err
}

func TestSMTPMailer_Send(t *testing.T) {
	d := &recordingDialer{}
	m := &SMTPMailer{dialer: d, sender: "noreply@blog.example.com"}

	err := m.Send(context.Background(), domain.Message{
		To:      "corey@example.com",
		Subject: "Password Reset Request",
		Body:    "visit http://localhost/reset_password/abc",
	})
	require.NoError(t, err)
	require.Len(t, d.sent, 1)

	msg := d.sent[0]
	assert.Equal(t, []string{"noreply@blog.example.com"}, msg.GetHeader("From"))
	assert.Equal(t, []string{"corey@example.com"}, msg.GetHeader("To"))
	assert.Equal(t, []string{"Password Reset Request"}, msg.GetHeader("Subject"))

	var buf bytes.Buffer
	_, err = msg.WriteTo(&buf)
	require.NoError(t, err)
	assert.Contains(t, buf.String(), "reset_password/abc")
}

func TestSMTPMailer_SendError(t *testing.T) {
	boom := errors.New("connection refused")
	m := &SMTPMailer{dialer: &recordingDialer{err: boom}, sender: "a@b.c"}

	err := m.Send(context.Background(), domain.Message{To: "x@y.z"})
	assert.ErrorIs(t, err, boom)
}

func TestSMTPMailer_CancelledContext(t *testing.T) {
	d := &recordingDialer{}
	m := &SMTPMailer{dialer: d, sender: "a@b.c"}
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	assert.ErrorIs(t, m.Send(ctx, domain.Message{To: "x@y.z"}), context.Canceled)
	assert.Empty(t, d.sent)
}

func TestLogMailer_KeepsBodyOutOfInfo(t *testing.T) {
	var buf bytes.Buffer
	m := NewLogMailer(zerolog.New(&buf).Level(zerolog.InfoLevel))

	require.NoError(t, m.Send(context.Background(), domain.Message{
		To:      "x@y.z",
		Subject: "Password Reset Request",
		Body:    "visit https://blog.example.com/reset_password/eyJsecret.token",
	}))
	assert.True(t, strings.Contains(buf.String(), `"to":"x@y.z"`))
	assert.NotContains(t, buf.String(), "eyJsecret.token")
	assert.NotContains(t, buf.String(), "reset_password")
}

func TestLogMailer_BodyAtDebug(t *testing.T) {
	var buf bytes.Buffer
	m := NewLogMailer(zerolog.New(&buf).Level(zerolog.DebugLevel))

	require.NoError(t, m.Send(context.Background(), domain.Message{To: "x@y.z", Body: "link"}))
	assert.Contains(t, buf.String(), `"body":"link"`)
}
