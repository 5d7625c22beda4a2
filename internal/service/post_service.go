package service

import (
	"context"
	"strings"
	"time"

	"inkwell/internal/models"
	"inkwell/internal/observability"
	"inkwell/internal/repository"
)

// PostService handles blog post reads and admin-gated mutations.
type PostService struct {
	postRepo repository.PostRepository
	adminID  uint
	now      func() time.Time
}

type CreatePostInput struct {
	UserID   uint
	Title    string
	Subtitle string
	Body     string
	ImageURL string
}

type EditPostInput struct {
	UserID   uint
	PostID   uint
	Title    string
	Subtitle string
	Body     string
	ImageURL string
}

type DeletePostInput struct {
	UserID uint
	PostID uint
}

func NewPostService(postRepo repository.PostRepository, adminID uint) *PostService {
	return &PostService{
		postRepo: postRepo,
		adminID:  adminID,
		now:      time.Now,
	}
}

func (s *PostService) ListPosts(ctx context.Context) ([]*models.BlogPost, error) {
	return s.postRepo.List(ctx)
}

func (s *PostService) GetPost(ctx context.Context, id uint) (*models.BlogPost, error) {
	return s.postRepo.GetByID(ctx, id)
}

// requireAdmin rejects everyone but the site admin, anonymous callers
// included.
func (s *PostService) requireAdmin(userID uint) error {
	if userID != s.adminID {
		return models.NewForbiddenError()
	}
	return nil
}

// CreatePost publishes a new post authored by the caller. Only the
// admin may create posts. The display date is stamped at creation time
// and never changes afterwards.
func (s *PostService) CreatePost(ctx context.Context, input CreatePostInput) (*models.BlogPost, error) {
	if err := s.requireAdmin(input.UserID); err != nil {
		return nil, err
	}
	if err := validatePostFields(input.Title, input.Subtitle, input.Body, input.ImageURL); err != nil {
		return nil, err
	}

	existing, err := s.postRepo.GetByTitle(ctx, input.Title)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, models.NewDuplicateTitleError(input.Title)
	}

	post := &models.BlogPost{
		Title:    input.Title,
		Subtitle: input.Subtitle,
		Body:     input.Body,
		ImageURL: input.ImageURL,
		Date:     s.now().Format(models.PostDateLayout),
		AuthorID: input.UserID,
	}
	if err := s.postRepo.Create(ctx, post); err != nil {
		return nil, err
	}

	observability.PostMutations.WithLabelValues("create").Inc()
	return post, nil
}

// EditPost updates a post's content fields. The original publication
// date is preserved. An authenticated caller becomes the new author; an
// anonymous edit keeps the existing one.
func (s *PostService) EditPost(ctx context.Context, input EditPostInput) (*models.BlogPost, error) {
	post, err := s.postRepo.GetByID(ctx, input.PostID)
	if err != nil {
		return nil, err
	}
	if err := validatePostFields(input.Title, input.Subtitle, input.Body, input.ImageURL); err != nil {
		return nil, err
	}

	if input.Title != post.Title {
		existing, err := s.postRepo.GetByTitle(ctx, input.Title)
		if err != nil {
			return nil, err
		}
		if existing != nil {
			return nil, models.NewDuplicateTitleError(input.Title)
		}
	}

	post.Title = input.Title
	post.Subtitle = input.Subtitle
	post.Body = input.Body
	post.ImageURL = input.ImageURL
	if input.UserID != 0 {
		post.AuthorID = input.UserID
		post.Author = models.User{}
	}

	if err := s.postRepo.Update(ctx, post); err != nil {
		return nil, err
	}

	observability.PostMutations.WithLabelValues("edit").Inc()
	return post, nil
}

// DeletePost removes a post and its comments. Admin only.
func (s *PostService) DeletePost(ctx context.Context, input DeletePostInput) error {
	if err := s.requireAdmin(input.UserID); err != nil {
		return err
	}
	if err := s.postRepo.Delete(ctx, input.PostID); err != nil {
		return err
	}

	observability.PostMutations.WithLabelValues("delete").Inc()
	return nil
}

func validatePostFields(title, subtitle, body, imageURL string) error {
	if strings.TrimSpace(title) == "" {
		return models.NewValidationError("Title is required")
	}
	if len(title) > 250 {
		return models.NewValidationError("Title must not exceed 250 characters")
	}
	if strings.TrimSpace(subtitle) == "" {
		return models.NewValidationError("Subtitle is required")
	}
	if strings.TrimSpace(body) == "" {
		return models.NewValidationError("Body is required")
	}
	if strings.TrimSpace(imageURL) == "" {
		return models.NewValidationError("Image URL is required")
	}
	return nil
}
