package handler

import (
	"context"
	"fmt"
	"io"
	"sort"
	"sync"
	"time"

	"seungpyo.lee/PersonalBlog/internal/domain"
)

// fakeBlog implements the three domain services over in-memory maps.
type fakeBlog struct {
	mu        sync.Mutex
	users     map[uint]*domain.User
	passwords map[uint]string
	posts     map[uint]*domain.Post
	tokens    map[string]uint
	resets    []string
	uploads   []string
	nextUser  uint
	nextPost  uint
	clock     time.Time
	failList  error
	failUser  error
}

func newFakeBlog() *fakeBlog {
	return &fakeBlog{
		users:     map[uint]*domain.User{},
		passwords: map[uint]string{},
		posts:     map[uint]*domain.Post{},
		tokens:    map[string]uint{},
		nextUser:  1,
		nextPost:  1,
		clock:     time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
	}
}

func (f *fakeBlog) addUser(username, email, password string) *domain.User {
	f.mu.Lock()
	defer f.mu.Unlock()
	u := &domain.User{ID: f.nextUser, Username: username, Email: email, ImageFile: domain.DefaultImageFile}
	f.nextUser++
	f.users[u.ID] = u
	f.passwords[u.ID] = password
	return u
}

func (f *fakeBlog) addPost(title, content string, owner *domain.User) *domain.Post {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.clock = f.clock.Add(time.Minute)
	p := &domain.Post{ID: f.nextPost, Title: title, Content: content, UserID: owner.ID, Author: *owner, CreatedAt: f.clock}
	f.nextPost++
	f.posts[p.ID] = p
	return p
}

func (f *fakeBlog) byEmail(email string) *domain.User {
	for _, u := range f.users {
		if u.Email == email {
			return u
		}
	}
	return nil
}

func (f *fakeBlog) Register(_ context.Context, req domain.RegisterRequest) (*domain.User, error) {
	return f.addUser(req.Username, req.Email, req.Password), nil
}

func (f *fakeBlog) Login(_ context.Context, req domain.LoginRequest) (*domain.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	u := f.byEmail(req.Email)
	if u == nil || f.passwords[u.ID] != req.Password {
		return nil, domain.ErrInvalidCredentials
	}
	return u, nil
}

func (f *fakeBlog) UsernameTaken(_ context.Context, username string) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, u := range f.users {
		if u.Username == username {
			return true, nil
		}
	}
	return false, nil
}

func (f *fakeBlog) EmailTaken(_ context.Context, email string) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.byEmail(email) != nil, nil
}

func (f *fakeBlog) GetUser(_ context.Context, id uint) (*domain.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failUser != nil {
		return nil, f.failUser
	}
	u, ok := f.users[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	c := *u
	return &c, nil
}

func (f *fakeBlog) UpdateAccount(_ context.Context, userID uint, req domain.UpdateAccountRequest) (*domain.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	u, ok := f.users[userID]
	if !ok {
		return nil, domain.ErrNotFound
	}
	if req.Picture != nil {
		data, err := io.ReadAll(req.Picture.Body)
		if err != nil {
			return nil, err
		}
		if string(data) != "image" {
			return nil, domain.ErrUnsupportedImage
		}
		f.uploads = append(f.uploads, req.Picture.Filename)
		u.ImageFile = "0123456789abcdef.png"
	}
	u.Username = req.Username
	u.Email = req.Email
	c := *u
	return &c, nil
}

func (f *fakeBlog) PictureURL(user *domain.User) string {
	return "/static/profile_pics/" + user.ImageFile
}

func (f *fakeBlog) RequestReset(ctx context.Context, email string) error {
	link, err := f.ResetURL(ctx, email)
	if err != nil {
		return err
	}
	f.mu.Lock()
	f.resets = append(f.resets, link)
	f.mu.Unlock()
	return nil
}

func (f *fakeBlog) ResetURL(_ context.Context, email string) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	u := f.byEmail(email)
	if u == nil {
		return "", domain.ErrNotFound
	}
	token := fmt.Sprintf("token-%d", u.ID)
	f.tokens[token] = u.ID
	return "http://localhost/reset_password/" + token, nil
}

func (f *fakeBlog) VerifyResetToken(_ context.Context, token string) (*domain.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	id, ok := f.tokens[token]
	if !ok {
		return nil, domain.ErrInvalidToken
	}
	return f.users[id], nil
}

func (f *fakeBlog) ResetPassword(ctx context.Context, token, password string) (*domain.User, error) {
	u, err := f.VerifyResetToken(ctx, token)
	if err != nil {
		return nil, err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.passwords[u.ID] = password
	delete(f.tokens, token)
	return u, nil
}

func (f *fakeBlog) CreatePost(_ context.Context, req domain.PostRequest, authorID uint) (*domain.Post, error) {
	f.mu.Lock()
	owner, ok := f.users[authorID]
	f.mu.Unlock()
	if !ok {
		return nil, domain.ErrNotFound
	}
	return f.addPost(req.Title, req.Content, owner), nil
}

func (f *fakeBlog) GetPost(_ context.Context, id uint) (*domain.Post, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	p, ok := f.posts[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	c := *p
	return &c, nil
}

func (f *fakeBlog) GetOwnedPost(ctx context.Context, id, userID uint) (*domain.Post, error) {
	p, err := f.GetPost(ctx, id)
	if err != nil {
		return nil, err
	}
	if p.UserID != userID {
		return nil, domain.ErrForbidden
	}
	return p, nil
}

func (f *fakeBlog) page(match func(*domain.Post) bool, page int) (*domain.PostPage, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failList != nil {
		return nil, f.failList
	}
	var all []*domain.Post
	for _, p := range f.posts {
		if match(p) {
			all = append(all, p)
		}
	}
	sort.Slice(all, func(i, j int) bool { return all[i].CreatedAt.After(all[j].CreatedAt) })
	total := len(all)
	start := (page - 1) * domain.PostsPerPage
	if start > total {
		start = total
	}
	end := start + domain.PostsPerPage
	if end > total {
		end = total
	}
	return &domain.PostPage{
		Posts:      all[start:end],
		Page:       page,
		TotalPosts: int64(total),
		TotalPages: (total + domain.PostsPerPage - 1) / domain.PostsPerPage,
	}, nil
}

func (f *fakeBlog) ListPosts(_ context.Context, page int) (*domain.PostPage, error) {
	return f.page(func(*domain.Post) bool { return true }, page)
}

func (f *fakeBlog) ListUserPosts(_ context.Context, username string, page int) (*domain.User, *domain.PostPage, error) {
	f.mu.Lock()
	var user *domain.User
	for _, u := range f.users {
		if u.Username == username {
			user = u
		}
	}
	f.mu.Unlock()
	if user == nil {
		return nil, nil, domain.ErrNotFound
	}
	p, err := f.page(func(p *domain.Post) bool { return p.UserID == user.ID }, page)
	return user, p, err
}

func (f *fakeBlog) UpdatePost(ctx context.Context, id uint, req domain.PostRequest, userID uint) (*domain.Post, error) {
	if _, err := f.GetOwnedPost(ctx, id, userID); err != nil {
		return nil, err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	p := f.posts[id]
	p.Title, p.Content = req.Title, req.Content
	c := *p
	return &c, nil
}

func (f *fakeBlog) DeletePost(ctx context.Context, id, userID uint) error {
	if _, err := f.GetOwnedPost(ctx, id, userID); err != nil {
		return err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	delete(f.posts, id)
	return nil
}
