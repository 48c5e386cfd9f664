package services

import (
	"bytes"
	"context"
	"embed"
	"fmt"
	"html/template"
	"net/smtp"
	"strings"

	"blogadmin/internal/config"
	"blogadmin/internal/utils"

	"go.uber.org/zap"
)

type Message struct {
	To      string
	Subject string
	HTML    string
}

type MailService struct {
	cfg      config.MailConfig
	log      *zap.Logger
	sendMail func(addr string, a smtp.Auth, from string, to []string, msg []byte) error
}

func NewMailService(cfg config.MailConfig, log *zap.Logger) *MailService {
	if !cfg.Enabled() {
		log.Warn("MailService disabled: missing SMTP settings")
	}
	return &MailService{cfg: cfg, log: log, sendMail: smtp.SendMail}
}

func (s *MailService) Enabled() bool {
	return s.cfg.Enabled()
}

// Send delivers one HTML mail. A disabled service accepts and drops it.
func (s *MailService) Send(ctx context.Context, m Message) error {
	if !s.Enabled() {
		s.log.Debug("mail dropped, SMTP disabled", zap.String("to", m.To), zap.String("subject", m.Subject))
		return nil
	}
	if m.To == "" {
		return fmt.Errorf("mail %q has no recipient", m.Subject)
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	auth := smtp.PlainAuth("", s.cfg.User, s.cfg.Pass, s.cfg.Host)
	addr := s.cfg.Host + ":" + s.cfg.Port

	mime := "MIME-version: 1.0;\nContent-Type: text/html; charset=\"UTF-8\";\n\n"
	msg := []byte(fmt.Sprintf("To: %s\r\n"+
		"From: Blog <%s>\r\n"+
		"Subject: %s\r\n"+
		"%s\r\n%s", m.To, s.cfg.From, m.Subject, mime, m.HTML))

	if err := s.sendMail(addr, auth, s.cfg.From, []string{m.To}, msg); err != nil {
		return fmt.Errorf("send mail to %s: %w", m.To, err)
	}
	return nil
}

//go:embed templates/*.html
var mailTemplates embed.FS

var mailTmpl = template.Must(template.ParseFS(mailTemplates, "templates/*.html"))

const (
	SubjectNewComment = "New comment on your blog"
	SubjectReply      = "Someone replied to your comment"
)

type newCommentMail struct {
	ArticleTitle string
	Name         string
	Site         string
	Content      template.HTML
	SiteURL      string
}

type replyMail struct {
	Name          string
	Site          string
	ParentContent template.HTML
	Content       template.HTML
	SiteURL       string
}

// mailBody renders comment markdown for a mail client.
func mailBody(content, siteURL string) template.HTML {
	return utils.EnhanceMailHTML(utils.RenderMarkdown(content), siteURL)
}

func renderMail(name string, data any) (string, error) {
	var buf bytes.Buffer
	if err := mailTmpl.ExecuteTemplate(&buf, name, data); err != nil {
		return "", fmt.Errorf("failed to execute template %s: %w", name, err)
	}
	return strings.TrimSpace(buf.String()), nil
}

func NewCommentHTML(articleTitle, content, name, site, siteURL string) (string, error) {
	return renderMail("new_comment.html", newCommentMail{
		ArticleTitle: articleTitle,
		Name:         name,
		Site:         site,
		Content:      mailBody(content, siteURL),
		SiteURL:      siteURL,
	})
}

func ReplyCommentHTML(name, parentContent, content, site, siteURL string) (string, error) {
	return renderMail("reply_comment.html", replyMail{
		Name:          name,
		Site:          site,
		ParentContent: mailBody(parentContent, siteURL),
		Content:       mailBody(content, siteURL),
		SiteURL:       siteURL,
	})
}
