package jobs

import (
	"context"
	"time"

	"go.uber.org/zap"
)

// QuoteExpiryJobName is the scheduler name of the expiry sweep
const QuoteExpiryJobName = "quote-expiry"

// QuoteExpirer is the part of the quote service the sweep needs
type QuoteExpirer interface {
	ExpireStale(ctx context.Context) (int64, error)
}

// QuoteExpiryJob marks open quotes past their validity window as expired.
// Reads already treat such quotes as expired; the sweep keeps stored statuses and stats honest.
type QuoteExpiryJob struct {
	quotes  QuoteExpirer
	logger  *zap.Logger
	timeout time.Duration
}

func NewQuoteExpiryJob(quotes QuoteExpirer, logger *zap.Logger, timeout time.Duration) *QuoteExpiryJob {
	if timeout <= 0 {
		timeout = time.Minute
	}
	return &QuoteExpiryJob{quotes: quotes, logger: logger, timeout: timeout}
}

// Run performs one sweep. It is safe to call directly, e.g. on startup.
func (j *QuoteExpiryJob) Run() {
	ctx, cancel := context.WithTimeout(context.Background(), j.timeout)
	defer cancel()

	start := time.Now()
	n, err := j.quotes.ExpireStale(ctx)
	if err != nil {
		j.logger.Error("quote expiry sweep failed",
			zap.Error(err),
			zap.Duration("duration", time.Since(start)))
		return
	}

	if n > 0 {
		j.logger.Info("quote expiry sweep completed",
			zap.Int64("expired", n),
			zap.Duration("duration", time.Since(start)))
	}
}

// Register adds the sweep to the scheduler under QuoteExpiryJobName
func (j *QuoteExpiryJob) Register(s *Scheduler, cronExpr string) error {
	return s.AddJob(QuoteExpiryJobName, cronExpr, j.Run)
}
