package services

import (
	"context"
	"net/smtp"
	"testing"

	"blogadmin/internal/config"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestMailServiceSend(t *testing.T) {
	cfg := config.MailConfig{Host: "smtp.test", Port: "587", User: "u", Pass: "p", From: "blog@x.com"}
	s := NewMailService(cfg, zap.NewNop())

	var (
		gotAddr string
		gotTo   []string
		gotMsg  string
	)
	s.sendMail = func(addr string, a smtp.Auth, from string, to []string, msg []byte) error {
		gotAddr, gotTo, gotMsg = addr, to, string(msg)
		return nil
	}

	require.NoError(t, s.Send(context.Background(), Message{To: "a@x.com", Subject: "hello", HTML: "<p>hi</p>"}))
	assert.Equal(t, "smtp.test:587", gotAddr)
	assert.Equal(t, []string{"a@x.com"}, gotTo)
	assert.Contains(t, gotMsg, "Subject: hello")
	assert.Contains(t, gotMsg, "text/html")
	assert.Contains(t, gotMsg, "<p>hi</p>")

	assert.Error(t, s.Send(context.Background(), Message{Subject: "nobody"}))
}

func TestMailServiceDisabled(t *testing.T) {
	s := NewMailService(config.MailConfig{}, zap.NewNop())
	called := false
	s.sendMail = func(string, smtp.Auth, string, []string, []byte) error {
		called = true
		return nil
	}

	assert.False(t, s.Enabled())
	require.NoError(t, s.Send(context.Background(), Message{To: "a@x.com"}))
	assert.False(t, called)
}

func TestCommentMails(t *testing.T) {
	html, err := NewCommentHTML("Go & Gin", "see [docs](/docs) <script>alert(1)</script>", "A", "https://a.test", "https://blog.test")
	require.NoError(t, err)
	assert.Contains(t, html, "Go &amp; Gin")
	assert.Contains(t, html, `href="https://blog.test/docs"`)
	assert.NotContains(t, html, "<script>")

	reply, err := ReplyCommentHTML("B", "original", "answer", "", "")
	require.NoError(t, err)
	assert.Contains(t, reply, "original")
	assert.Contains(t, reply, "answer")
	assert.Contains(t, reply, "<strong>B</strong>")
}

func TestTotalPages(t *testing.T) {
	assert.Equal(t, 1, TotalPages(0, 12))
	assert.Equal(t, 1, TotalPages(12, 12))
	assert.Equal(t, 2, TotalPages(13, 12))
	assert.Equal(t, 5, TotalPages(5, 1))
}
