package service

import (
	"context"
	"sort"
	"sync"
	"time"

	"seungpyo.lee/PersonalBlog/internal/domain"
)

type stubUserRepo struct {
	mu     sync.Mutex
	users  map[uint]*domain.User
	nextID uint
	err    error
}

func newStubUserRepo() *stubUserRepo {
	return &stubUserRepo{users: map[uint]*domain.User{}, nextID: 1}
}

func cloneUser(u *domain.User) *domain.User {
	c := *u
	return &c
}

func (r *stubUserRepo) Create(_ context.Context, user *domain.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.err != nil {
		return r.err
	}
	user.ID = r.nextID
	r.nextID++
	r.users[user.ID] = cloneUser(user)
	return nil
}

func (r *stubUserRepo) find(match func(*domain.User) bool) (*domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.err != nil {
		return nil, r.err
	}
	for _, u := range r.users {
		if match(u) {
			return cloneUser(u), nil
		}
	}
	return nil, domain.ErrNotFound
}

func (r *stubUserRepo) GetByID(_ context.Context, id uint) (*domain.User, error) {
	return r.find(func(u *domain.User) bool { return u.ID == id })
}

func (r *stubUserRepo) GetByUsername(_ context.Context, username string) (*domain.User, error) {
	return r.find(func(u *domain.User) bool { return u.Username == username })
}

func (r *stubUserRepo) GetByEmail(_ context.Context, email string) (*domain.User, error) {
	return r.find(func(u *domain.User) bool { return u.Email == email })
}

func (r *stubUserRepo) Update(_ context.Context, user *domain.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.err != nil {
		return r.err
	}
	if _, ok := r.users[user.ID]; !ok {
		return domain.ErrNotFound
	}
	r.users[user.ID] = cloneUser(user)
	return nil
}

func (r *stubUserRepo) UpdatePassword(_ context.Context, id uint, hash string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.users[id]
	if !ok {
		return domain.ErrNotFound
	}
	u.Password = hash
	return nil
}

type stubPostRepo struct {
	posts  map[uint]*domain.Post
	nextID uint
	clock  time.Time
}

func newStubPostRepo() *stubPostRepo {
	return &stubPostRepo{posts: map[uint]*domain.Post{}, nextID: 1, clock: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)}
}

func (r *stubPostRepo) Create(_ context.Context, post *domain.Post) error {
	post.ID = r.nextID
	r.nextID++
	r.clock = r.clock.Add(time.Minute)
	post.CreatedAt = r.clock
	c := *post
	r.posts[post.ID] = &c
	return nil
}

func (r *stubPostRepo) GetByID(_ context.Context, id uint) (*domain.Post, error) {
	p, ok := r.posts[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	c := *p
	return &c, nil
}

func (r *stubPostRepo) List(_ context.Context, filter domain.PostFilter) ([]*domain.Post, int64, error) {
	var all []*domain.Post
	for _, p := range r.posts {
		if filter.UserID != nil && p.UserID != *filter.UserID {
			continue
		}
		c := *p
		all = append(all, &c)
	}
	sort.Slice(all, func(i, j int) bool { return all[i].CreatedAt.After(all[j].CreatedAt) })
	total := int64(len(all))
	if filter.Offset >= len(all) {
		return []*domain.Post{}, total, nil
	}
	all = all[filter.Offset:]
	if filter.Limit > 0 && len(all) > filter.Limit {
		all = all[:filter.Limit]
	}
	return all, total, nil
}

func (r *stubPostRepo) Update(_ context.Context, post *domain.Post) error {
	if _, ok := r.posts[post.ID]; !ok {
		return domain.ErrNotFound
	}
	c := *post
	r.posts[post.ID] = &c
	return nil
}

func (r *stubPostRepo) Delete(_ context.Context, id uint) error {
	if _, ok := r.posts[id]; !ok {
		return domain.ErrNotFound
	}
	delete(r.posts, id)
	return nil
}

type stubMailer struct {
	sent []domain.Message
	err  error
}

func (m *stubMailer) Send(_ context.Context, msg domain.Message) error {
	if m.err != nil {
		return m.err
	}
	m.sent = append(m.sent, msg)
	return nil
}

type stubPictures struct {
	saved   []string
	removed []string
	err     error
}

func (p *stubPictures) Save(_ context.Context, upload domain.Upload) (string, error) {
	if p.err != nil {
		return "", p.err
	}
	name := "0123456789abcdef.png"
	p.saved = append(p.saved, name)
	return name, nil
}

func (p *stubPictures) Remove(_ context.Context, name string) error {
	if name == domain.DefaultImageFile {
		return nil
	}
	p.removed = append(p.removed, name)
	return nil
}

func (p *stubPictures) URL(name string) string { return "/static/profile_pics/" + name }
