package main

import (
	"context"
	"fmt"
	"time"

	"github.com/ramit8508/Teacher-managment-system-sub000/internal/config"
	"github.com/ramit8508/Teacher-managment-system-sub000/internal/database"
	"github.com/ramit8508/Teacher-managment-system-sub000/internal/logger"
	"github.com/ramit8508/Teacher-managment-system-sub000/internal/model"
	"github.com/ramit8508/Teacher-managment-system-sub000/internal/repository"
	"github.com/ramit8508/Teacher-managment-system-sub000/internal/rules"
	"golang.org/x/crypto/bcrypt"
)

// Seeds one teacher account and a roster of demo students spread across
// three classes. Intended for local development only.
func main() {
	cfg := config.Load()
	log := logger.Setup(cfg.LogLevel, cfg.LogFormat)
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Minute)
	defer cancel()

	pool, err := database.NewPostgresPool(ctx, cfg, log)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to connect to PostgreSQL")
	}
	defer pool.Close()

	userRepo := repository.NewUserRepository(pool)
	studentRepo := repository.NewStudentRepository(pool)
	assignmentRepo := repository.NewClassAssignmentRepository(pool)

	fmt.Println("=== Seeding Demo Data ===")

	// Demo teacher, password "teach123".
	hash, err := bcrypt.GenerateFromPassword([]byte("teach123"), cfg.BcryptCost)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to hash password")
	}

	teacher := &model.User{
		Username:     "demo.teacher",
		Email:        "demo.teacher@example.com",
		FullName:     "Demo Teacher",
		PasswordHash: string(hash),
		Role:         rules.RoleTeacher,
	}
	if err := userRepo.Create(ctx, teacher); err != nil {
		if err == repository.ErrDuplicateUser {
			existing, lookupErr := userRepo.GetByLogin(ctx, teacher.Username)
			if lookupErr != nil {
				log.Fatal().Err(lookupErr).Msg("Failed to look up existing demo teacher")
			}
			teacher = existing
			fmt.Printf("Found existing demo teacher with ID: %d\n", teacher.ID)
		} else {
			log.Fatal().Err(err).Msg("Failed to create demo teacher")
		}
	} else {
		fmt.Printf("Created demo teacher with ID: %d\n", teacher.ID)
	}

	// The raw labels deliberately use the messy spellings the API accepts.
	classLabels := []string{"Class 9 - Section A", "10-B", "11a"}
	for _, raw := range classLabels {
		assignment := &model.ClassAssignment{
			ClassLabel: rules.CanonicalClassLabel(raw),
			TeacherIDs: []int{teacher.ID},
		}
		if err := assignmentRepo.Upsert(ctx, assignment); err != nil {
			log.Fatal().Err(err).Str("class", raw).Msg("Failed to assign class")
		}
	}
	fmt.Printf("Assigned %d classes to the demo teacher.\n", len(classLabels))

	names := []string{
		"Aarav Sharma", "Diya Patel", "Vihaan Gupta", "Ananya Singh", "Arjun Mehta",
		"Ishita Verma", "Kabir Joshi", "Myra Reddy", "Reyansh Kumar", "Saanvi Nair",
		"Advait Rao", "Kiara Malhotra", "Vivaan Kapoor", "Anika Iyer", "Shaurya Das",
		"Navya Choudhary", "Atharv Bhatt", "Aadhya Menon", "Dhruv Saxena", "Pari Agarwal",
		"Ayaan Khan", "Riya Desai", "Krishna Pillai", "Tara Bose", "Ved Trivedi",
		"Zara Sheikh", "Rudra Mishra", "Avni Kulkarni", "Yuvraj Sinha", "Meera Banerjee",
	}

	successCount := 0
	for i, name := range names {
		student := &model.Student{
			Name:         name,
			RollNumber:   fmt.Sprintf("R%03d", i+1),
			ClassLabel:   rules.CanonicalClassLabel(classLabels[i%len(classLabels)]),
			GuardianName: "Guardian of " + name,
			CreatedBy:    teacher.ID,
		}
		if err := studentRepo.Create(ctx, student); err != nil {
			fmt.Printf("Error creating student %s: %v\n", student.Name, err)
			continue
		}
		successCount++
		if (i+1)%10 == 0 {
			fmt.Printf("Created %d students...\n", i+1)
		}
	}

	fmt.Printf("\nSeed completed! Successfully added %d/%d students.\n", successCount, len(names))
}
