// Package seed provides database seeding utilities for development and testing.
package seed

import (
	"fmt"
	"log"
	"math/rand"
	"time"

	"github.com/fujocoded/guestbook-appview/internal/models"

	"github.com/brianvoe/gofakeit/v6"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Options configuration for the seeder
type Options struct {
	NumUsers           int
	BooksPerUser       int
	SubmissionsPerBook int
	ShouldClean        bool
}

const guestbookCollection = "com.fujocoded.guestbook.book"
const submissionCollection = "com.fujocoded.guestbook.submission"

// Seed populates the database with test data
func Seed(db *gorm.DB, opts Options) error {
	gofakeit.Seed(time.Now().UnixNano())

	log.Printf("Starting database seeding with %d users, %d books each...", opts.NumUsers, opts.BooksPerUser)

	if opts.ShouldClean {
		if err := clearData(db); err != nil {
			log.Println("Warning: could not clear all existing data, continuing anyway...")
		}
	}

	users, err := createUsers(db, opts.NumUsers)
	if err != nil {
		return fmt.Errorf("failed to create users: %w", err)
	}
	log.Printf("%d test users created", len(users))

	guestbooks, err := createGuestbooks(db, users, opts.BooksPerUser)
	if err != nil {
		return fmt.Errorf("failed to create guestbooks: %w", err)
	}
	log.Printf("%d guestbooks created", len(guestbooks))

	submissions, err := createSubmissions(db, users, guestbooks, opts.SubmissionsPerBook)
	if err != nil {
		return fmt.Errorf("failed to create submissions: %w", err)
	}
	log.Printf("%d submissions created", len(submissions))

	if err := createModeration(db, users, submissions); err != nil {
		return fmt.Errorf("failed to create moderation data: %w", err)
	}
	log.Println("hide markers and blocks created")

	return nil
}

func clearData(db *gorm.DB) error {
	for _, model := range []any{
		&models.HideMarker{},
		&models.BlockedUser{},
		&models.Submission{},
		&models.Guestbook{},
		&models.User{},
	} {
		if err := db.Session(&gorm.Session{AllowGlobalUpdate: true}).Delete(model).Error; err != nil {
			return err
		}
	}
	return nil
}

func createUsers(db *gorm.DB, n int) ([]models.User, error) {
	users := make([]models.User, 0, n)
	for i := 0; i < n; i++ {
		user := models.User{
			// Real PLC identifiers are base32 hashes; a UUID is close enough
			// for local development.
			Did: "did:plc:" + uuid.NewString(),
		}
		if err := db.Create(&user).Error; err != nil {
			return nil, err
		}
		users = append(users, user)
	}
	return users, nil
}

func createGuestbooks(db *gorm.DB, users []models.User, perUser int) ([]models.Guestbook, error) {
	guestbooks := make([]models.Guestbook, 0, len(users)*perUser)
	for _, user := range users {
		for i := 0; i < perUser; i++ {
			title := ""
			if rand.Intn(4) > 0 {
				title = gofakeit.Sentence(3)
			}
			book := models.Guestbook{
				RecordKey:  gofakeit.LetterN(13),
				Collection: guestbookCollection,
				OwnerID:    user.ID,
				Title:      title,
				Record:     fmt.Sprintf(`{"$type":%q,"title":%q}`, guestbookCollection, title),
				IsDeleted:  rand.Intn(10) == 0,
			}
			if err := db.Create(&book).Error; err != nil {
				return nil, err
			}
			guestbooks = append(guestbooks, book)
		}
	}
	return guestbooks, nil
}

func createSubmissions(db *gorm.DB, users []models.User, guestbooks []models.Guestbook, perBook int) ([]models.Submission, error) {
	submissions := make([]models.Submission, 0, len(guestbooks)*perBook)
	for _, book := range guestbooks {
		for i := 0; i < perBook; i++ {
			author := users[rand.Intn(len(users))]
			submission := models.Submission{
				RecordKey:   gofakeit.LetterN(13),
				Collection:  submissionCollection,
				AuthorID:    author.ID,
				GuestbookID: book.ID,
				Text:        gofakeit.HipsterSentence(8),
				CreatedAt:   gofakeit.DateRange(time.Now().AddDate(0, -3, 0), time.Now()),
			}
			if err := db.Create(&submission).Error; err != nil {
				return nil, err
			}
			submissions = append(submissions, submission)
		}
	}
	return submissions, nil
}

func createModeration(db *gorm.DB, users []models.User, submissions []models.Submission) error {
	// Hide roughly one submission in ten.
	for _, submission := range submissions {
		if rand.Intn(10) != 0 {
			continue
		}
		marker := models.HideMarker{SubmissionID: submission.ID}
		if err := db.Create(&marker).Error; err != nil {
			return err
		}
	}

	// A few block edges between random user pairs.
	for i := 0; i < len(users)/4; i++ {
		blocking := users[rand.Intn(len(users))]
		blocked := users[rand.Intn(len(users))]
		if blocking.ID == blocked.ID {
			continue
		}
		edge := models.BlockedUser{
			BlockingUserID: blocking.ID,
			BlockedUserID:  blocked.ID,
		}
		if err := db.Where(&edge).FirstOrCreate(&edge).Error; err != nil {
			return err
		}
	}
	return nil
}
