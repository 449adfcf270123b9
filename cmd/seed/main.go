// Command seed runs the database seeder for the guestbook AppView.
package main

import (
	"flag"
	"log"

	"github.com/fujocoded/guestbook-appview/internal/config"
	"github.com/fujocoded/guestbook-appview/internal/database"
	"github.com/fujocoded/guestbook-appview/internal/seed"
)

func main() {
	numUsers := flag.Int("users", 20, "Number of users to create")
	booksPerUser := flag.Int("books", 2, "Guestbooks per user")
	submissionsPerBook := flag.Int("submissions", 10, "Submissions per guestbook")
	shouldClean := flag.Bool("clean", true, "Clean database before seeding")
	flag.Parse()

	log.Println("Database Seeder")
	log.Printf("Target: %d users, %d books each, %d submissions per book, clean=%v\n",
		*numUsers, *booksPerUser, *submissionsPerBook, *shouldClean)

	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	db, err := database.Connect(cfg)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}

	if err := seed.Seed(db, seed.Options{
		NumUsers:           *numUsers,
		BooksPerUser:       *booksPerUser,
		SubmissionsPerBook: *submissionsPerBook,
		ShouldClean:        *shouldClean,
	}); err != nil {
		log.Fatalf("Seeding failed: %v", err)
	}

	log.Println("All done! Your database is now populated with test data.")
}
