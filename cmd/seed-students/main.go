package main

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/stemsi/college-registration/internal/config"
	"github.com/stemsi/college-registration/internal/database"
	"github.com/stemsi/college-registration/internal/logger"
	"github.com/stemsi/college-registration/internal/model"
	"github.com/stemsi/college-registration/internal/repository"
	"github.com/stemsi/college-registration/internal/service"
	"github.com/stemsi/college-registration/internal/validator"
)

func main() {
	cfg := config.Load()
	log := logger.Setup(cfg.LogLevel, cfg.LogFormat)
	validator.Setup()

	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()

	if err := database.Initialize(cfg.DatabasePath, log); err != nil {
		log.Fatal().Err(err).Msg("Failed to initialize database")
	}

	db, err := database.NewSQLitePool(ctx, cfg, log)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to connect to SQLite")
	}
	defer db.Close()

	studentService := service.NewStudentService(repository.NewStudentRepository(), log)

	names := []string{
		"Aarav Sharma", "Ananya Iyer", "Bhavya Reddy", "Chirag Patel", "Deepika Nair",
		"Farhan Qureshi", "Gauri Kulkarni", "Harsh Vardhan", "Ishita Banerjee", "Jatin Mehta",
		"Kavya Menon", "Lakshay Gupta", "Meera Joshi", "Nikhil Rao", "Pooja Desai",
		"Rahul Verma", "Sneha Pillai", "Tanvi Shah", "Uday Kiran", "Zoya Khan",
	}
	streams := []string{"Science", "Commerce", "Arts", "Computer Science"}

	fmt.Printf("=== Seeding %d Students ===\n", len(names))

	created, skipped := 0, 0
	for i, name := range names {
		req := &model.CreateStudentRequest{
			Name:                name,
			CollegeID:           fmt.Sprintf("DEMO-%03d", i+1),
			IDCardNumber:        fmt.Sprintf("IDC-%05d", 10000+i+1),
			Stream:              streams[i%len(streams)],
			MobileNumber:        fmt.Sprintf("98%08d", 10000000+i),
			ParentsMobileNumber: fmt.Sprintf("97%08d", 10000000+i),
		}

		if _, err := studentService.Register(ctx, db, req); err != nil {
			if errors.Is(err, repository.ErrDuplicateKey) {
				fmt.Printf("Skipping %s (%s): already registered\n", name, req.CollegeID)
				skipped++
				continue
			}
			log.Fatal().Err(err).Str("name", name).Msg("Failed to seed student")
		}
		created++
	}

	fmt.Printf("Done. Created %d, skipped %d.\n", created, skipped)
}
