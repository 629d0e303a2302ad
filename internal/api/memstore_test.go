package api

import (
	"bytes"
	"context"
	"io"
	"sync"
	"time"

	"github.com/storefront/gateway/internal/core/domain"
)

// In-memory Store and Blob Service used to drive the router end to end.

type memStore struct {
	mu       sync.Mutex
	users    map[int64]*domain.FrontUser
	admins   map[int64]*domain.AdminUser
	sessions map[string]*domain.Session
	products []*domain.Product
	orders   []*domain.Order
	nextID   int64
	faultErr error
}

func newMemStore() *memStore {
	return &memStore{
		users:    make(map[int64]*domain.FrontUser),
		admins:   make(map[int64]*domain.AdminUser),
		sessions: make(map[string]*domain.Session),
	}
}

func (m *memStore) id() int64 {
	m.nextID++
	return m.nextID
}

type memUsers struct{ *memStore }

func (r memUsers) FindByEmail(_ context.Context, email string) (*domain.FrontUser, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, u := range r.users {
		if u.Email == email {
			c := *u
			return &c, nil
		}
	}
	return nil, domain.ErrUserNotFound
}

func (r memUsers) FindByID(_ context.Context, id int64) (*domain.FrontUser, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.users[id]
	if !ok {
		return nil, domain.ErrUserNotFound
	}
	c := *u
	return &c, nil
}

func (r memUsers) Create(_ context.Context, u *domain.FrontUser) (*domain.FrontUser, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, existing := range r.users {
		if existing.Email == u.Email {
			return nil, domain.ErrEmailTaken
		}
	}
	c := *u
	c.ID = r.id()
	r.users[c.ID] = &c
	out := c
	return &out, nil
}

func (r memUsers) List(_ context.Context) ([]*domain.FrontUser, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]*domain.FrontUser, 0, len(r.users))
	for _, u := range r.users {
		c := *u
		out = append(out, &c)
	}
	return out, nil
}

type memAdmins struct{ *memStore }

func (r memAdmins) FindByUsername(_ context.Context, username string) (*domain.AdminUser, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, a := range r.admins {
		if a.Username == username {
			c := *a
			return &c, nil
		}
	}
	return nil, domain.ErrAdminNotFound
}

func (r memAdmins) FindByID(_ context.Context, id int64) (*domain.AdminUser, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	a, ok := r.admins[id]
	if !ok {
		return nil, domain.ErrAdminNotFound
	}
	c := *a
	return &c, nil
}

func (r memAdmins) Create(_ context.Context, a *domain.AdminUser) (*domain.AdminUser, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, existing := range r.admins {
		if existing.Username == a.Username {
			return nil, domain.ErrUsernameTaken
		}
	}
	c := *a
	c.ID = r.id()
	r.admins[c.ID] = &c
	out := c
	return &out, nil
}

func (r memAdmins) Count(_ context.Context) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return int64(len(r.admins)), nil
}

func (r memAdmins) TouchLastLogin(_ context.Context, id int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if a, ok := r.admins[id]; ok {
		now := time.Now().UTC()
		a.LastLogin = &now
	}
	return nil
}

type memSessions struct{ *memStore }

func (r memSessions) Insert(_ context.Context, s *domain.Session) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	c := *s
	r.sessions[s.ID] = &c
	return nil
}

func (r memSessions) FindActive(_ context.Context, id string, now time.Time) (*domain.Session, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	s, ok := r.sessions[id]
	if !ok || !s.ExpiresAt.After(now) {
		return nil, domain.ErrSessionNotFound
	}
	c := *s
	return &c, nil
}

type memCatalog struct{ *memStore }

func (r memCatalog) ListActiveProducts(_ context.Context) ([]*domain.Product, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.faultErr != nil {
		return nil, r.faultErr
	}
	out := make([]*domain.Product, 0, len(r.products))
	for _, p := range r.products {
		if p.Active {
			out = append(out, p)
		}
	}
	return out, nil
}

func (r memCatalog) CreateProduct(_ context.Context, p *domain.Product) (*domain.Product, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	c := *p
	c.ID = r.id()
	r.products = append(r.products, &c)
	return &c, nil
}

func (r memCatalog) ListOrders(_ context.Context) ([]*domain.Order, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]*domain.Order{}, r.orders...), nil
}

func (r memCatalog) ListOrdersByUser(_ context.Context, userID int64) ([]*domain.Order, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]*domain.Order, 0)
	for _, o := range r.orders {
		if o.UserID == userID {
			out = append(out, o)
		}
	}
	return out, nil
}

type memBlobs struct {
	mu    sync.Mutex
	blobs map[string]memBlob
}

type memBlob struct {
	contentType string
	data        []byte
}

func newMemBlobs() *memBlobs {
	return &memBlobs{blobs: make(map[string]memBlob)}
}

func (b *memBlobs) Put(_ context.Context, key, contentType string, _ int64, r io.Reader) error {
	data, err := io.ReadAll(r)
	if err != nil {
		return err
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	b.blobs[key] = memBlob{contentType: contentType, data: data}
	return nil
}

func (b *memBlobs) Get(_ context.Context, key string) (*domain.Blob, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	blob, ok := b.blobs[key]
	if !ok {
		return nil, domain.ErrBlobNotFound
	}
	return &domain.Blob{
		Key:         key,
		ContentType: blob.contentType,
		Size:        int64(len(blob.data)),
		Body:        io.NopCloser(bytes.NewReader(blob.data)),
	}, nil
}

func (b *memBlobs) Ping(context.Context) error { return nil }
