package services

import (
	"context"
	"sync"
	"time"

	"bookshelf/internal/logger"
	"bookshelf/internal/metrics"
	"bookshelf/internal/utils/helpers"

	"go.uber.org/zap"
)

type EmailJob struct {
	To      []string
	Subject string
	Body    string
	IsHTML  bool
}

// EmailSender — то, что нужно AuthService для писем о сбросе пароля.
type EmailSender interface {
	SendPasswordReset(ctx context.Context, to, resetLink string, expiresAt time.Time) error
}

// Enqueue кладёт письмо в очередь. Если очередь заполнена, письмо теряется.
func (s *EmailService) Enqueue(job EmailJob) bool {
	select {
	case s.queue <- job:
		return true
	default:
		metrics.RecordEmail("dropped")
		logger.Log.Warn("Очередь писем переполнена, письмо отброшено", zap.Strings("to", job.To))
		return false
	}
}

func (s *EmailService) SendPasswordReset(ctx context.Context, to, resetLink string, expiresAt time.Time) error {
	logger.WithCtx(ctx).Info("Письмо о сбросе пароля поставлено в очередь", zap.String("email", to))
	s.Enqueue(EmailJob{
		To:      []string{to},
		Subject: "Password reset",
		Body:    helpers.BuildPasswordResetHTML(resetLink, expiresAt),
		IsHTML:  true,
	})
	return nil
}

// StartWorkers запускает n воркеров. Они работают до отмены ctx;
// возвращённый WaitGroup позволяет дождаться их завершения.
func (s *EmailService) StartWorkers(ctx context.Context, n int) *sync.WaitGroup {
	if n <= 0 {
		n = 1
	}
	var wg sync.WaitGroup
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func(id int) {
			defer wg.Done()
			s.worker(ctx, id)
		}(i)
	}
	return &wg
}

func (s *EmailService) worker(ctx context.Context, id int) {
	for {
		select {
		case <-ctx.Done():
			return
		case job := <-s.queue:
			s.deliver(id, job)
		}
	}
}

func (s *EmailService) deliver(worker int, job EmailJob) {
	if !s.Configured() {
		metrics.RecordEmail("dropped")
		logger.Log.Warn("SMTP не настроен, письмо не отправлено", zap.Strings("to", job.To), zap.String("subject", job.Subject))
		return
	}

	var err error
	if job.IsHTML {
		err = s.SendHTML(job.To, job.Subject, job.Body)
	} else {
		err = s.Send(job.To, job.Subject, job.Body)
	}
	if err != nil {
		metrics.RecordEmail("failed")
		logger.Log.Error("Не удалось отправить письмо", zap.Int("worker", worker), zap.Strings("to", job.To), zap.Error(err))
		return
	}
	metrics.RecordEmail("sent")
	logger.Log.Info("Письмо отправлено", zap.Int("worker", worker), zap.Strings("to", job.To))
}
