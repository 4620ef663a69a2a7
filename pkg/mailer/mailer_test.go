package mailer

import (
	"bytes"
	"context"
	"mime"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/wneessen/go-mail"
)

func TestBuild(t *testing.T) {
	m, err := Build("no-reply@example.com", Message{
		To:      []string{"ops@example.com"},
		ReplyTo: "reader@example.com",
		Subject: "[問い合わせ] hello",
		Body:    "line1\nline2",
	})
	require.NoError(t, err)

	rcpts, err := m.GetRecipients()
	require.NoError(t, err)
	assert.Equal(t, []string{"ops@example.com"}, rcpts)
	subject := m.GetGenHeader(mail.HeaderSubject)
	require.Len(t, subject, 1)
	decoded, err := new(mime.WordDecoder).DecodeHeader(subject[0])
	require.NoError(t, err)
	assert.Equal(t, "[問い合わせ] hello", decoded)
	assert.Equal(t, []string{"<reader@example.com>"}, m.GetGenHeader(mail.HeaderReplyTo))

	var buf bytes.Buffer
	_, err = m.WriteTo(&buf)
	require.NoError(t, err)
	assert.Contains(t, buf.String(), "line1")
	assert.Contains(t, buf.String(), "Content-Type: text/plain; charset=UTF-8")
}

func TestBuildRejectsBadAddress(t *testing.T) {
	_, err := Build("no-reply@example.com", Message{To: []string{"not an address"}})
	assert.Error(t, err)

	_, err = Build("no-reply@example.com", Message{To: []string{"ops@example.com"}, ReplyTo: "??"})
	assert.Error(t, err)
}

func TestSMTPMailerRequiresRecipient(t *testing.T) {
	m, err := NewSMTPMailer("localhost", 2525, "", "", "no-reply@example.com", 0)
	require.NoError(t, err)
	assert.Error(t, m.Send(context.Background(), Message{Subject: "s"}))
}

func TestSMTPMailerHonoursContext(t *testing.T) {
	// 不可路由地址，依赖ctx超时返回
	m, err := NewSMTPMailer("10.255.255.1", 25, "", "", "no-reply@example.com", time.Minute)
	require.NoError(t, err)

	ctx, cancel := context.WithTimeout(context.Background(), 200*time.Millisecond)
	defer cancel()
	start := time.Now()
	err = m.Send(ctx, Message{To: []string{"ops@example.com"}, Subject: "s", Body: "b"})
	assert.Error(t, err)
	assert.Less(t, time.Since(start), 10*time.Second)
}
