package workers

import (
	"context"

	"users_backend/internal/email"
	"users_backend/internal/logger"
)

// verificationMessage - одно задание на отправку кода
type verificationMessage struct {
	To   string
	Code string
}

// EmailWorker разгребает очередь писем верификации в фоне.
// Отправка fire-and-forget: поток-инициатор кладет задание и
// сразу возвращается, сбои доставки логируются и не ретраятся.
type EmailWorker struct {
	provider email.Provider
	queue    chan verificationMessage
}

func NewEmailWorker(provider email.Provider, queueSize int) *EmailWorker {
	if queueSize <= 0 {
		queueSize = 64
	}
	return &EmailWorker{
		provider: provider,
		queue:    make(chan verificationMessage, queueSize),
	}
}

// Start запускает фоновую обработку очереди
func (w *EmailWorker) Start(ctx context.Context) {
	go w.run(ctx)
}

func (w *EmailWorker) run(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			logger.Info("Email worker stopped")
			return
		case msg := <-w.queue:
			if err := w.provider.SendVerification(msg.To, msg.Code); err != nil {
				logger.Error("Failed to send verification email", "to", msg.To, "error", err)
			} else {
				logger.Debug("Verification email sent", "to", msg.To)
			}
		}
	}
}

// EnqueueVerification ставит письмо с кодом в очередь.
// Никогда не блокирует обработчик запроса: при переполненной
// очереди задание отбрасывается с предупреждением в логе.
func (w *EmailWorker) EnqueueVerification(to string, code string) {
	select {
	case w.queue <- verificationMessage{To: to, Code: code}:
	default:
		logger.Warn("Email queue is full, dropping verification message", "to", to)
	}
}

// Len возвращает текущую глубину очереди
func (w *EmailWorker) Len() int {
	return len(w.queue)
}
