package app

import (
	"context"
	"log/slog"
	"time"

	"go.uber.org/fx"

	"github.com/samarthyatrust/samarthya_backend/config"
	"github.com/samarthyatrust/samarthya_backend/internal/notifier"
	"github.com/samarthyatrust/samarthya_backend/pkg/email"
)

// WorkerModule provides the background email dispatcher and drains it
// on shutdown, so accepted submissions don't lose their notifications
// when the process stops.
var WorkerModule = fx.Module("workers",
	fx.Provide(ProvideNotifier),
)

func ProvideNotifier(lc fx.Lifecycle, cfg *config.Config, mailer *email.Client) *notifier.Notifier {
	n := notifier.New(mailer, notifier.Config{
		OrgName: "Samarthya Trust",
		BaseURL: cfg.Server.Domain,
		Region:  "IN",
		Timeout: 15 * time.Second,
	}, slog.Default())

	lc.Append(fx.Hook{
		OnStop: func(ctx context.Context) error {
			slog.Debug("waiting for in-flight notification emails")
			done := make(chan struct{})
			go func() {
				n.Close()
				close(done)
			}()
			select {
			case <-done:
				return nil
			case <-ctx.Done():
				return ctx.Err()
			}
		},
	})

	return n
}
