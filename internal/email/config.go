package email

// SMTPConfig содержит конфигурацию SMTP сервера
type SMTPConfig struct {
	Host      string
	Port      int
	Username  string
	Password  string
	FromEmail string
	FromName  string
	UseTLS    bool
}

// DefaultConfig - базовая конфигурация, поверх которой приложение
// накладывает значения из своего конфига
func DefaultConfig() *SMTPConfig {
	return &SMTPConfig{
		Host:   "localhost",
		Port:   587,
		UseTLS: true,
	}
}
