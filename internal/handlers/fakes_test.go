package handlers

import (
	"context"
	"errors"
	"sync"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/fixlyhq/fixly-api/internal/auth"
	"github.com/fixlyhq/fixly-api/internal/config"
	"github.com/fixlyhq/fixly-api/internal/models"
	"github.com/fixlyhq/fixly-api/internal/store"
)

type fakeClientStore struct {
	mu      sync.Mutex
	clients map[string]*models.Client
}

func newFakeClientStore() *fakeClientStore {
	return &fakeClientStore{clients: make(map[string]*models.Client)}
}

func (f *fakeClientStore) Insert(_ context.Context, c *models.Client) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.clients[c.Email]; ok {
		return store.ErrDuplicateEmail
	}
	if c.ID.IsZero() {
		c.ID = primitive.NewObjectID()
	}
	cp := *c
	f.clients[c.Email] = &cp
	return nil
}

func (f *fakeClientStore) FindByEmail(_ context.Context, email string) (*models.Client, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if c, ok := f.clients[email]; ok {
		cp := *c
		return &cp, nil
	}
	return nil, store.ErrNotFound
}

func (f *fakeClientStore) FindByID(_ context.Context, id primitive.ObjectID) (*models.Client, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, c := range f.clients {
		if c.ID == id {
			cp := *c
			return &cp, nil
		}
	}
	return nil, store.ErrNotFound
}

func (f *fakeClientStore) List(_ context.Context) ([]models.Client, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]models.Client, 0, len(f.clients))
	for _, c := range f.clients {
		out = append(out, *c)
	}
	return out, nil
}

func (f *fakeClientStore) SetResetToken(_ context.Context, id primitive.ObjectID, tokenHash string, expire int64) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, c := range f.clients {
		if c.ID == id {
			c.ResetPasswordToken = tokenHash
			c.ResetPasswordExpire = expire
			return nil
		}
	}
	return store.ErrNotFound
}

func (f *fakeClientStore) ConsumeResetToken(_ context.Context, tokenHash string, now int64, passwordHash string) (*models.Client, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, c := range f.clients {
		if c.ResetPasswordToken == tokenHash && c.ResetPasswordExpire > now {
			c.Password = passwordHash
			c.ResetPasswordToken = ""
			c.ResetPasswordExpire = 0
			cp := *c
			return &cp, nil
		}
	}
	return nil, store.ErrNotFound
}

// expireResetToken backdates a pending token, simulating an elapsed window.
func (f *fakeClientStore) expireResetToken(email string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if c, ok := f.clients[email]; ok {
		c.ResetPasswordExpire = time.Now().Add(-time.Minute).UnixMilli()
	}
}

type fakeProviderStore struct {
	mu        sync.Mutex
	providers map[string]*models.Provider
}

func newFakeProviderStore() *fakeProviderStore {
	return &fakeProviderStore{providers: make(map[string]*models.Provider)}
}

func (f *fakeProviderStore) Insert(_ context.Context, p *models.Provider) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.providers[p.Email]; ok {
		return store.ErrDuplicateEmail
	}
	if p.ID.IsZero() {
		p.ID = primitive.NewObjectID()
	}
	cp := *p
	f.providers[p.Email] = &cp
	return nil
}

func (f *fakeProviderStore) FindByEmail(_ context.Context, email string) (*models.Provider, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if p, ok := f.providers[email]; ok {
		cp := *p
		return &cp, nil
	}
	return nil, store.ErrNotFound
}

func (f *fakeProviderStore) FindByID(_ context.Context, id primitive.ObjectID) (*models.Provider, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, p := range f.providers {
		if p.ID == id {
			cp := *p
			return &cp, nil
		}
	}
	return nil, store.ErrNotFound
}

func (f *fakeProviderStore) List(_ context.Context) ([]models.Provider, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]models.Provider, 0, len(f.providers))
	for _, p := range f.providers {
		out = append(out, *p)
	}
	return out, nil
}

func (f *fakeProviderStore) UpdateStatus(_ context.Context, id primitive.ObjectID, status string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, p := range f.providers {
		if p.ID == id {
			p.Status = status
			return nil
		}
	}
	return store.ErrNotFound
}

type fakeAdminStore struct {
	mu     sync.Mutex
	admins map[string]*models.Admin
}

func newFakeAdminStore() *fakeAdminStore {
	return &fakeAdminStore{admins: make(map[string]*models.Admin)}
}

func (f *fakeAdminStore) Insert(_ context.Context, a *models.Admin) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.admins[a.Email]; ok {
		return store.ErrDuplicateEmail
	}
	if a.ID.IsZero() {
		a.ID = primitive.NewObjectID()
	}
	cp := *a
	f.admins[a.Email] = &cp
	return nil
}

func (f *fakeAdminStore) FindByEmail(_ context.Context, email string) (*models.Admin, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if a, ok := f.admins[email]; ok {
		cp := *a
		return &cp, nil
	}
	return nil, store.ErrNotFound
}

type sentMail struct {
	To      string
	Subject string
	Body    string
}

type fakeMailer struct {
	mu   sync.Mutex
	sent []sentMail
	fail bool
}

func (m *fakeMailer) Send(to, subject, htmlBody string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.fail {
		return errors.New("smtp unreachable")
	}
	m.sent = append(m.sent, sentMail{To: to, Subject: subject, Body: htmlBody})
	return nil
}

func (m *fakeMailer) count() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.sent)
}

func (m *fakeMailer) last() sentMail {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.sent[len(m.sent)-1]
}

type testEnv struct {
	handler   *Handler
	clients   *fakeClientStore
	providers *fakeProviderStore
	admins    *fakeAdminStore
	mailer    *fakeMailer
}

func newTestEnv() *testEnv {
	clients := newFakeClientStore()
	providers := newFakeProviderStore()
	admins := newFakeAdminStore()
	mailer := &fakeMailer{}
	hasher := auth.NewPasswordHasher(auth.MinHashCost)
	tokens, err := auth.NewTokenIssuer("test-secret", time.Hour)
	if err != nil {
		panic(err)
	}

	h := &Handler{
		Cfg:       &config.Config{FrontendURL: "http://localhost:5173", ResetTokenTTL: 15 * time.Minute},
		Clients:   clients,
		Providers: providers,
		Admins:    admins,
		Locator:   &auth.Locator{Clients: clients, Providers: providers, Admins: admins},
		Tokens:    tokens,
		Passwords: hasher,
		Reset:     auth.NewResetManager(clients, hasher, 15*time.Minute),
		Mailer:    mailer,
	}
	return &testEnv{handler: h, clients: clients, providers: providers, admins: admins, mailer: mailer}
}
