package main

import (
	"encoding/csv"
	"log"
	"os"
	"strconv"
	"strings"

	"coursedesk/config"
	"coursedesk/database"
	"coursedesk/models"
)

// Seeds the course catalog from Courses.csv. Existing courses are matched
// by name and updated in place.
func main() {
	cfg := config.Load()
	db := database.Connect(cfg)

	file, err := os.Open("Courses.csv")
	if err != nil {
		log.Fatalf("Failed to open CSV file: %v", err)
	}
	defer file.Close()

	reader := csv.NewReader(file)

	records, err := reader.ReadAll()
	if err != nil {
		log.Fatalf("Failed to read CSV: %v", err)
	}

	if len(records) < 2 {
		log.Fatal("CSV file is empty or has only headers")
	}

	header := records[0]
	log.Printf("CSV Headers: %v", header)
	log.Printf("Total rows to import: %d", len(records)-1)

	headerIndex := make(map[string]int)
	for i, h := range header {
		headerIndex[strings.TrimSpace(h)] = i
	}

	inserted := 0
	updated := 0
	skipped := 0

	for _, row := range records[1:] {
		course := models.Course{
			Name:        getField(row, headerIndex, "name"),
			Teacher:     getField(row, headerIndex, "teacher"),
			Image:       getField(row, headerIndex, "image"),
			PricingType: getField(row, headerIndex, "pricingType"),
			Price: models.Price{
				Original: parseFloat(getField(row, headerIndex, "priceOriginal")),
				Sale:     parseFloat(getField(row, headerIndex, "priceSale")),
			},
			Overview:   getField(row, headerIndex, "overview"),
			CourseType: getField(row, headerIndex, "courseType"),
			Category:   getField(row, headerIndex, "category"),
		}
		if course.CourseType == "" {
			course.CourseType = "regular"
		}
		if course.PricingType == "" {
			course.PricingType = "free"
		}

		if course.Name == "" {
			skipped++
			continue
		}

		if err := course.RecomputeDerived(); err != nil {
			log.Printf("Error computing derived fields for %s: %v", course.Name, err)
			skipped++
			continue
		}

		var existing models.Course
		result := db.Where("name = ?", course.Name).First(&existing)

		if result.Error != nil {
			if err := db.Create(&course).Error; err != nil {
				log.Printf("Error inserting course %s: %v", course.Name, err)
				continue
			}
			inserted++
		} else {
			existing.Teacher = course.Teacher
			existing.Image = course.Image
			existing.PricingType = course.PricingType
			existing.Price = course.Price
			existing.Overview = course.Overview
			existing.CourseType = course.CourseType
			existing.Category = course.Category

			if err := db.Save(&existing).Error; err != nil {
				log.Printf("Error updating course %s: %v", course.Name, err)
				continue
			}
			updated++
		}
	}

	log.Printf("=== Import Complete ===")
	log.Printf("Inserted: %d", inserted)
	log.Printf("Updated: %d", updated)
	log.Printf("Skipped: %d", skipped)
}

// getField safely gets a field from the row by header name
func getField(row []string, headerIndex map[string]int, field string) string {
	if idx, ok := headerIndex[field]; ok && idx < len(row) {
		return strings.TrimSpace(row[idx])
	}
	return ""
}

// parseFloat converts string to float64
func parseFloat(s string) float64 {
	if s == "" {
		return 0
	}
	val, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0
	}
	return val
}
