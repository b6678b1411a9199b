package app

import (
	"log/slog"

	"github.com/redis/go-redis/v9"
	"go.uber.org/fx"

	"github.com/samarthyatrust/samarthya_backend/config"
	"github.com/samarthyatrust/samarthya_backend/internal/notifier"
	"github.com/samarthyatrust/samarthya_backend/internal/repo"
	"github.com/samarthyatrust/samarthya_backend/internal/service/auth"
	"github.com/samarthyatrust/samarthya_backend/internal/service/newsletter"
	"github.com/samarthyatrust/samarthya_backend/internal/service/submission"
	"github.com/samarthyatrust/samarthya_backend/pkg/database"
	"github.com/samarthyatrust/samarthya_backend/pkg/token"
)

// ServiceModule provides all application service dependencies.
var ServiceModule = fx.Module("services",
	fx.Provide(
		ProvideRepository,
		ProvideTokenManager,
		ProvideSubmissionService,
		ProvideNewsletterService,
		ProvideAuthService,
	),
)

func ProvideRepository(db *database.DB) *repo.Repository {
	return repo.New(db.Conn())
}

func ProvideTokenManager(cfg *config.Config) (*token.Manager, error) {
	return token.NewFromCentral(cfg.Auth)
}

func ProvideSubmissionService(store *repo.Repository, n *notifier.Notifier) submission.Service {
	return submission.New(store, n, slog.Default())
}

func ProvideNewsletterService(store *repo.Repository, n *notifier.Notifier) newsletter.Service {
	return newsletter.New(store, n, slog.Default())
}

func ProvideAuthService(cfg *config.Config, tokens *token.Manager, rdb *redis.Client) auth.Service {
	return auth.New(cfg.Auth, tokens, auth.NewRedisSessions(rdb), slog.Default())
}
