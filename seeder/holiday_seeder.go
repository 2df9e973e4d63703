package seeder

import (
	"context"
	"log"
	"time"

	"School-Administration-System/models"
	"School-Administration-System/repository"
)

// SeedHolidays inserts the recurring national holidays once.
func SeedHolidays(holidayRepo repository.HolidayRepository) {
	log.Println("Seeding holidays...")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	existing, err := holidayRepo.List(ctx)
	if err != nil {
		log.Printf("Failed to list holidays: %v", err)
		return
	}
	if len(existing) > 0 {
		log.Println("Holidays already seeded, skipping")
		return
	}

	holidays := []models.Holiday{
		{Date: "2025-01-26", Name: "Republic Day", IsRecurring: true},
		{Date: "2025-08-15", Name: "Independence Day", IsRecurring: true},
		{Date: "2025-10-02", Name: "Gandhi Jayanti", IsRecurring: true},
		{Date: "2025-12-25", Name: "Christmas", IsRecurring: true},
	}

	for _, h := range holidays {
		holiday := h
		if _, err := holidayRepo.Create(ctx, &holiday); err != nil {
			log.Printf("Failed to seed holiday %s: %v", holiday.Name, err)
		} else {
			log.Printf("Holiday (%s) added", holiday.Name)
		}
	}

	log.Println("Holiday seeding finished")
}
