package handlers

import (
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/fixlyhq/fixly-api/internal/auth"
	"github.com/fixlyhq/fixly-api/internal/config"
	"github.com/fixlyhq/fixly-api/internal/mail"
	"github.com/fixlyhq/fixly-api/internal/store"
)

// Handler carries every collaborator the route handlers need. Auth flows go
// through the store interfaces so they can be exercised against in-memory
// fakes; the service and booking handlers talk to Mongo collections
// directly.
type Handler struct {
	DB  *mongo.Database
	Cfg *config.Config

	Clients   store.ClientStore
	Providers store.ProviderStore
	Admins    store.AdminStore

	Locator   *auth.Locator
	Tokens    *auth.TokenIssuer
	Passwords auth.PasswordHasher
	Reset     *auth.ResetManager

	Mailer mail.Mailer
}

func NewHandler(db *mongo.Database, cfg *config.Config, mailer mail.Mailer) (*Handler, error) {
	tokens, err := auth.NewTokenIssuer(cfg.JWTSecret, cfg.JWTExpiry)
	if err != nil {
		return nil, err
	}

	clients := store.NewMongoClientStore(db)
	providers := store.NewMongoProviderStore(db)
	admins := store.NewMongoAdminStore(db)
	hasher := auth.NewPasswordHasher(cfg.BcryptCost)

	return &Handler{
		DB:        db,
		Cfg:       cfg,
		Clients:   clients,
		Providers: providers,
		Admins:    admins,
		Locator:   &auth.Locator{Clients: clients, Providers: providers, Admins: admins},
		Tokens:    tokens,
		Passwords: hasher,
		Reset:     auth.NewResetManager(clients, hasher, cfg.ResetTokenTTL),
		Mailer:    mailer,
	}, nil
}
