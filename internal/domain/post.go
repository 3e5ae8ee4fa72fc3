package domain

import (
	"context"
	"time"
)

// PostsPerPage is the fixed page size of every post listing.
const PostsPerPage = 5

type Post struct {
	ID        uint      `json:"id" gorm:"primaryKey"`
	Title     string    `json:"title" gorm:"size:100;not null"`
	Content   string    `json:"content" gorm:"type:text;not null"`
	UserID    uint      `json:"user_id" gorm:"index;not null"`
	Author    User      `json:"author" gorm:"foreignKey:UserID"`
	CreatedAt time.Time `json:"created_at" gorm:"index"`
	UpdatedAt time.Time `json:"updated_at"`
}

type PostRequest struct {
	Title   string
	Content string
}

type PostFilter struct {
	UserID *uint
	Limit  int
	Offset int
}

// PostPage is one page of a listing ordered newest first.
type PostPage struct {
	Posts      []*Post
	Page       int
	TotalPosts int64
	TotalPages int
}

func (p PostPage) HasPrev() bool { return p.Page > 1 }
func (p PostPage) HasNext() bool { return p.Page < p.TotalPages }
func (p PostPage) PrevPage() int { return p.Page - 1 }
func (p PostPage) NextPage() int { return p.Page + 1 }

// PageNumbers lists the pages to link, with 0 marking an elided gap.
func (p PostPage) PageNumbers() []int {
	const edge, around = 1, 2
	var pages []int
	last := 0
	for i := 1; i <= p.TotalPages; i++ {
		if i <= edge || i > p.TotalPages-edge || (i >= p.Page-around && i <= p.Page+around) {
			if last != 0 && i-last > 1 {
				pages = append(pages, 0)
			}
			pages = append(pages, i)
			last = i
		}
	}
	return pages
}

type PostRepository interface {
	Create(ctx context.Context, post *Post) error
	GetByID(ctx context.Context, id uint) (*Post, error)
	List(ctx context.Context, filter PostFilter) ([]*Post, int64, error)
	Update(ctx context.Context, post *Post) error
	Delete(ctx context.Context, id uint) error
}

type PostService interface {
	CreatePost(ctx context.Context, req PostRequest, authorID uint) (*Post, error)
	GetPost(ctx context.Context, id uint) (*Post, error)
	// GetOwnedPost returns ErrForbidden when userID does not own the post.
	GetOwnedPost(ctx context.Context, id, userID uint) (*Post, error)
	ListPosts(ctx context.Context, page int) (*PostPage, error)
	ListUserPosts(ctx context.Context, username string, page int) (*User, *PostPage, error)
	UpdatePost(ctx context.Context, id uint, req PostRequest, userID uint) (*Post, error)
	DeletePost(ctx context.Context, id, userID uint) error
}
