package email

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testSMTPConfig() *SMTPConfig {
	cfg := DefaultConfig()
	cfg.Host = "smtp.example.com"
	cfg.FromEmail = "noreply@users.local"
	return cfg
}

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()
	assert.Equal(t, "localhost", cfg.Host)
	assert.Equal(t, 587, cfg.Port)
	assert.True(t, cfg.UseTLS)
}

func TestNewSMTPProvider_Dialer(t *testing.T) {
	p := NewSMTPProvider(testSMTPConfig(), NewTemplateManager())
	require.NotNil(t, p.dialer)
	assert.Equal(t, "smtp.example.com", p.dialer.Host)
	assert.Equal(t, 587, p.dialer.Port)
	// UseTLS задает ServerName для проверки сертификата
	require.NotNil(t, p.dialer.TLSConfig)
	assert.Equal(t, "smtp.example.com", p.dialer.TLSConfig.ServerName)

	plain := testSMTPConfig()
	plain.UseTLS = false
	p = NewSMTPProvider(plain, NewTemplateManager())
	assert.Nil(t, p.dialer.TLSConfig)
}

func TestSMTPProvider_BuildMessage(t *testing.T) {
	cfg := testSMTPConfig()
	cfg.FromName = "Users service"
	p := NewSMTPProvider(cfg, NewTemplateManager())

	m := p.buildMessage(&Email{
		To:       []string{"user@example.com"},
		Subject:  "Verification message",
		HTMLBody: "<p><b>XyZ789</b></p>",
	})

	// From берется из конфига, когда письмо его не задает
	require.Len(t, m.GetHeader("From"), 1)
	assert.Contains(t, m.GetHeader("From")[0], "noreply@users.local")
	assert.Contains(t, m.GetHeader("From")[0], "Users service")
	assert.Equal(t, []string{"user@example.com"}, m.GetHeader("To"))
	assert.Equal(t, []string{"Verification message"}, m.GetHeader("Subject"))

	var buf bytes.Buffer
	_, err := m.WriteTo(&buf)
	require.NoError(t, err)
	assert.Contains(t, buf.String(), "text/html")
	assert.Contains(t, buf.String(), "XyZ789")
}

func TestSMTPProvider_BuildMessage_PlainText(t *testing.T) {
	p := NewSMTPProvider(testSMTPConfig(), NewTemplateManager())

	m := p.buildMessage(&Email{
		From:    "custom@users.local",
		To:      []string{"user@example.com"},
		Subject: "Plain",
		Body:    "plain body",
	})
	assert.Equal(t, []string{"custom@users.local"}, m.GetHeader("From"))

	var buf bytes.Buffer
	_, err := m.WriteTo(&buf)
	require.NoError(t, err)
	assert.Contains(t, buf.String(), "text/plain")
	assert.Contains(t, buf.String(), "plain body")
}

func TestSMTPProvider_Validate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*SMTPConfig)
	}{
		{"missing host", func(c *SMTPConfig) { c.Host = "" }},
		{"bad port", func(c *SMTPConfig) { c.Port = 0 }},
		{"missing from", func(c *SMTPConfig) { c.FromEmail = "" }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := testSMTPConfig()
			tt.mutate(cfg)
			p := NewSMTPProvider(cfg, NewTemplateManager())
			assert.Error(t, p.Validate())
		})
	}

	p := NewSMTPProvider(testSMTPConfig(), NewTemplateManager())
	assert.NoError(t, p.Validate())
}

func TestSMTPProvider_SendVerification_InvalidConfig(t *testing.T) {
	cfg := testSMTPConfig()
	cfg.Host = ""
	p := NewSMTPProvider(cfg, NewTemplateManager())

	// Ошибка конфигурации отлавливается до попытки соединения
	assert.Error(t, p.SendVerification("user@example.com", "XyZ789"))
}
