package app

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/rs/zerolog"
	"seungpyo.lee/PersonalBlog/internal/config"
	"seungpyo.lee/PersonalBlog/internal/domain"
	"seungpyo.lee/PersonalBlog/internal/mailer"
	"seungpyo.lee/PersonalBlog/internal/media"
	"seungpyo.lee/PersonalBlog/internal/repository"
	"seungpyo.lee/PersonalBlog/internal/service"
	"seungpyo.lee/PersonalBlog/pkg/jwt"
	"seungpyo.lee/PersonalBlog/pkg/session"
)

// PicturePrefix is the URL path profile pictures are served under.
const PicturePrefix = "/static/profile_pics"

type Services struct {
	Auth     domain.AuthService
	Accounts domain.AccountService
	Posts    domain.PostService
	Sessions *session.Manager
}

// NewServices wires repositories, stores and services over infra.
func NewServices(ctx context.Context, infra *Infra, cfg *config.BlogConfig, log zerolog.Logger) (*Services, error) {
	users := repository.NewUserRepository(infra.DB)
	posts := repository.NewPostRepository(infra.DB)

	// the default picture is always served locally, whichever store holds uploads
	if err := media.EnsureDefaultPicture(cfg.Picture.Dir); err != nil {
		return nil, err
	}
	store, err := newPictureStore(ctx, cfg.Picture)
	if err != nil {
		return nil, err
	}
	pictures := media.NewPipeline(store, PicturePrefix+"/"+domain.DefaultImageFile)

	tokens := jwt.NewTokenManager(cfg.TokenSecretKey, cfg.ResetTokenTTL, infra.Redis)

	var sessionStore session.Store = session.NewMemoryStore()
	if infra.Redis != nil {
		sessionStore = session.NewRedisStore(infra.Redis)
	}
	sessions := session.NewManager(sessionStore, session.Config{
		Secret:      cfg.SecretKey,
		TTL:         cfg.SessionTTL,
		RememberTTL: cfg.RememberTTL,
		Cookie: session.CookieOptions{
			Path:     "/",
			Secure:   cfg.CookieSecure,
			SameSite: http.SameSiteLaxMode,
		},
	})

	mail, err := newMailer(cfg.Mail, cfg.IsProduction(), log)
	if err != nil {
		return nil, err
	}

	return &Services{
		Auth:     service.NewAuthService(users),
		Accounts: service.NewAccountService(users, tokens, mail, pictures, cfg.BaseURL, log),
		Posts:    service.NewPostService(posts, users),
		Sessions: sessions,
	}, nil
}

func newPictureStore(ctx context.Context, cfg config.PictureConfig) (media.Store, error) {
	switch cfg.Store {
	case "", "local":
		return media.NewLocalStore(cfg.Dir, PicturePrefix)
	case "s3":
		return media.NewS3Store(ctx, media.S3Config{
			Region:    cfg.S3Region,
			Endpoint:  cfg.S3Endpoint,
			Bucket:    cfg.S3Bucket,
			AccessKey: cfg.S3AccessKey,
			SecretKey: cfg.S3SecretKey,
			PublicURL: cfg.S3PublicURL,
		})
	default:
		return nil, fmt.Errorf("unknown PICTURE_STORE %q", cfg.Store)
	}
}

// newMailer picks SMTP when configured. Production refuses to start without
// it rather than drop reset emails.
func newMailer(cfg config.MailConfig, production bool, log zerolog.Logger) (mailer.Mailer, error) {
	if !cfg.Enabled() {
		if production {
			return nil, errors.New("MAIL_SERVER is required in production")
		}
		log.Warn().Msg("MAIL_SERVER not set, reset emails are not sent; links are logged at debug level")
		return mailer.NewLogMailer(log), nil
	}
	return mailer.NewSMTPMailer(mailer.SMTPConfig{
		Host:     cfg.Server,
		Port:     cfg.Port,
		Username: cfg.Username,
		Password: cfg.Password,
		Sender:   cfg.Sender,
	}), nil
}
