package service

import (
	"context"
	"fmt"

	"seungpyo.lee/PersonalBlog/internal/domain"
	"seungpyo.lee/PersonalBlog/internal/metrics"
)

type postService struct {
	posts domain.PostRepository
	users domain.UserRepository
}

// NewPostService creates a new PostService with the given repositories.
func NewPostService(posts domain.PostRepository, users domain.UserRepository) domain.PostService {
	return &postService{posts: posts, users: users}
}

// CreatePost stores a post owned by authorID. Title and content arrive
// already sanitized by the post form.
func (s *postService) CreatePost(ctx context.Context, req domain.PostRequest, authorID uint) (*domain.Post, error) {
	post := &domain.Post{
		Title:   req.Title,
		Content: req.Content,
		UserID:  authorID,
	}
	if err := s.posts.Create(ctx, post); err != nil {
		return nil, err
	}
	metrics.PostsTotal.WithLabelValues("created").Inc()
	return post, nil
}

func (s *postService) GetPost(ctx context.Context, id uint) (*domain.Post, error) {
	return s.posts.GetByID(ctx, id)
}

func (s *postService) GetOwnedPost(ctx context.Context, id, userID uint) (*domain.Post, error) {
	post, err := s.posts.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if post.UserID != userID {
		return nil, fmt.Errorf("post %d: %w", id, domain.ErrForbidden)
	}
	return post, nil
}

func (s *postService) ListPosts(ctx context.Context, page int) (*domain.PostPage, error) {
	return s.list(ctx, nil, page)
}

func (s *postService) ListUserPosts(ctx context.Context, username string, page int) (*domain.User, *domain.PostPage, error) {
	user, err := s.users.GetByUsername(ctx, username)
	if err != nil {
		return nil, nil, err
	}
	p, err := s.list(ctx, &user.ID, page)
	if err != nil {
		return nil, nil, err
	}
	return user, p, nil
}

// UpdatePost changes title and content. Only the owner may do so.
func (s *postService) UpdatePost(ctx context.Context, id uint, req domain.PostRequest, userID uint) (*domain.Post, error) {
	post, err := s.GetOwnedPost(ctx, id, userID)
	if err != nil {
		return nil, err
	}
	post.Title = req.Title
	post.Content = req.Content
	if err := s.posts.Update(ctx, post); err != nil {
		return nil, err
	}
	metrics.PostsTotal.WithLabelValues("updated").Inc()
	return post, nil
}

// DeletePost removes a post. Only the owner may do so.
func (s *postService) DeletePost(ctx context.Context, id, userID uint) error {
	if _, err := s.GetOwnedPost(ctx, id, userID); err != nil {
		return err
	}
	if err := s.posts.Delete(ctx, id); err != nil {
		return err
	}
	metrics.PostsTotal.WithLabelValues("deleted").Inc()
	return nil
}

func (s *postService) list(ctx context.Context, userID *uint, page int) (*domain.PostPage, error) {
	if page < 1 {
		page = 1
	}
	posts, total, err := s.posts.List(ctx, domain.PostFilter{
		UserID: userID,
		Limit:  domain.PostsPerPage,
		Offset: (page - 1) * domain.PostsPerPage,
	})
	if err != nil {
		return nil, err
	}
	return &domain.PostPage{
		Posts:      posts,
		Page:       page,
		TotalPosts: total,
		TotalPages: int((total + domain.PostsPerPage - 1) / domain.PostsPerPage),
	}, nil
}
