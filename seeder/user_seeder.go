package seeder

import (
	"context"
	"log"
	"time"

	"School-Administration-System/models"
	"School-Administration-System/pkg/password"
	"School-Administration-System/repository"
)

// SeedUsers inserts a default admin and a few sample teachers when they
// do not exist yet. Safe to run on every start of the seed command.
func SeedUsers(userRepo repository.UserRepository) {
	log.Println("Seeding users...")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	hashedPassword, err := password.HashPassword("Password123")
	if err != nil {
		log.Fatalf("Failed to hash password: %v", err)
	}

	adminEmail := "admin@school.local"
	admin, err := userRepo.FindUserByEmail(ctx, adminEmail)
	if err == nil && admin != nil {
		log.Println("Admin user already exists, skipping")
	} else {
		newAdmin := &models.User{
			Name:     "Principal Admin",
			Email:    adminEmail,
			Password: hashedPassword,
			Role:     models.RoleAdmin,
			IsActive: true,
		}
		if _, err := userRepo.CreateUser(ctx, newAdmin); err != nil {
			log.Printf("Failed to seed admin user: %v", err)
		} else {
			log.Printf("Admin user (%s) added", newAdmin.Email)
		}
	}

	teachers := []models.User{
		{Name: "Asha Sharma", Email: "asha.sharma@school.local", EmployeeID: "EMP001", Subject: "Mathematics"},
		{Name: "Rahul Mehta", Email: "rahul.mehta@school.local", EmployeeID: "EMP002", Subject: "Science"},
		{Name: "Priya Desai", Email: "priya.desai@school.local", EmployeeID: "EMP003", Subject: "English"},
	}

	for _, t := range teachers {
		existing, err := userRepo.FindUserByEmail(ctx, t.Email)
		if err == nil && existing != nil {
			continue
		}

		teacher := t
		teacher.Password = hashedPassword
		teacher.Role = models.RoleTeacher
		teacher.IsActive = true

		if _, err := userRepo.CreateUser(ctx, &teacher); err != nil {
			log.Printf("Failed to seed teacher %s: %v", teacher.Email, err)
		} else {
			log.Printf("Teacher (%s) added", teacher.Email)
		}
	}

	log.Println("User seeding finished")
}
