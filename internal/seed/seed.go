// Package seed provides helpers to create demo data for the blog
// database. These helpers are intended for development and testing only.
package seed

import (
	"fmt"
	"log"
	"time"

	"inkwell/internal/models"

	"github.com/brianvoe/gofakeit/v6"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// Factory builds domain entities and persists them to the database.
type Factory struct {
	db *gorm.DB
}

// NewFactory creates a new Factory bound to the provided Gorm DB.
func NewFactory(db *gorm.DB) *Factory {
	gofakeit.Seed(time.Now().UnixNano())
	return &Factory{db: db}
}

// EnsureAdmin makes sure the first account exists and returns it. Run
// this before any other seeding so the admin lands on the admin user ID.
func (f *Factory) EnsureAdmin(email, password, name string) (*models.User, error) {
	var existing models.User
	if err := f.db.Where("email = ?", email).First(&existing).Error; err == nil {
		return &existing, nil
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}
	admin := &models.User{
		Email:    email,
		Password: string(hashed),
		Name:     name,
	}
	if err := f.db.Create(admin).Error; err != nil {
		return nil, err
	}
	log.Printf("Seeded admin user %q (id=%d)", email, admin.ID)
	return admin, nil
}

// CreateUser constructs and persists a sample reader account.
// Optional override functions may modify the generated user before saving.
func (f *Factory) CreateUser(overrides ...func(*models.User)) (*models.User, error) {
	hashed, _ := bcrypt.GenerateFromPassword([]byte("password123"), bcrypt.MinCost)
	user := &models.User{
		Email:    gofakeit.Email(),
		Password: string(hashed),
		Name:     gofakeit.Name(),
	}
	for _, override := range overrides {
		override(user)
	}
	if err := f.db.Create(user).Error; err != nil {
		return nil, err
	}
	return user, nil
}

// CreatePost constructs and persists a sample blog post by the author.
func (f *Factory) CreatePost(author *models.User, overrides ...func(*models.BlogPost)) (*models.BlogPost, error) {
	post := &models.BlogPost{
		Title:    gofakeit.Sentence(5),
		Subtitle: gofakeit.Sentence(8),
		Body:     gofakeit.Paragraph(3, 4, 8, "\n\n"),
		ImageURL: fmt.Sprintf("https://picsum.photos/seed/%s/1200/600", gofakeit.UUID()),
		Date:     time.Now().Format(models.PostDateLayout),
		AuthorID: author.ID,
	}
	for _, override := range overrides {
		override(post)
	}
	if err := f.db.Create(post).Error; err != nil {
		return nil, err
	}
	return post, nil
}

// CreateComment constructs and persists a sample comment on the post.
func (f *Factory) CreateComment(author *models.User, post *models.BlogPost) (*models.Comment, error) {
	comment := &models.Comment{
		Text:     gofakeit.Sentence(12),
		AuthorID: author.ID,
		PostID:   post.ID,
	}
	if err := f.db.Create(comment).Error; err != nil {
		return nil, err
	}
	return comment, nil
}

// Demo populates the database with a small demo dataset: the admin,
// a handful of readers, a few posts, and scattered comments.
func (f *Factory) Demo() error {
	admin, err := f.EnsureAdmin("admin@example.com", "changeme123", "Site Admin")
	if err != nil {
		return err
	}

	readers := make([]*models.User, 0, 5)
	for i := 0; i < 5; i++ {
		reader, err := f.CreateUser()
		if err != nil {
			return err
		}
		readers = append(readers, reader)
	}

	for i := 0; i < 4; i++ {
		post, err := f.CreatePost(admin)
		if err != nil {
			return err
		}
		for _, reader := range readers[:gofakeit.Number(1, len(readers))] {
			if _, err := f.CreateComment(reader, post); err != nil {
				return err
			}
		}
	}

	log.Println("Demo data seeded")
	return nil
}
