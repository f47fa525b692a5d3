package models

import (
	"encoding/json"
	"math"

	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// Duration is an hours/minutes pair as entered by the course author.
type Duration struct {
	Hours   float64 `json:"hours"`
	Minutes float64 `json:"minutes"`
}

// Chapter is one unit of a lecture.
type Chapter struct {
	Name         string   `json:"name"`
	Topic        string   `json:"topic"`
	VideoURL     string   `json:"videoUrl"`
	Duration     Duration `json:"duration"`
	TotalMinutes float64  `json:"totalMinutes"`
}

// Lecture is an ordered section of a course with its own chapters.
type Lecture struct {
	Title        string    `json:"title"`
	Duration     Duration  `json:"duration"`
	Chapters     []Chapter `json:"chapters"`
	TotalMinutes float64   `json:"totalMinutes"`
}

// Price holds the original and sale price of a course.
type Price struct {
	Original float64 `json:"original"`
	Sale     float64 `json:"sale"`
}

// Course is a catalog entry. Lectures are kept as a JSON column since they
// are always read and written as one ordered tree.
type Course struct {
	gorm.Model
	Name          string         `json:"name"`
	Teacher       string         `json:"teacher"`
	Image         string         `json:"image"`
	AvgRating     float64        `json:"avgRating" gorm:"default:0"`
	TotalRatings  int            `json:"totalRatings" gorm:"default:0"`
	PricingType   string         `json:"pricingType" gorm:"default:'free'"`
	Price         Price          `json:"price" gorm:"embedded;embeddedPrefix:price_"`
	Overview      string         `json:"overview" gorm:"type:text"`
	TotalDuration Duration       `json:"totalDuration" gorm:"embedded;embeddedPrefix:total_duration_"`
	TotalLectures int            `json:"totalLectures" gorm:"default:0"`
	Lectures      datatypes.JSON `json:"lectures"`
	CourseType    string         `json:"courseType" gorm:"default:'regular'"` // top, regular
	Category      string         `json:"category"`
	CreatedBy     string         `json:"createdBy"`
}

// DecodeLectures unmarshals the stored lecture tree. A missing or broken
// column yields an empty slice, never an error.
func (c *Course) DecodeLectures() []Lecture {
	if len(c.Lectures) == 0 {
		return []Lecture{}
	}
	var lectures []Lecture
	if err := json.Unmarshal(c.Lectures, &lectures); err != nil {
		return []Lecture{}
	}
	return lectures
}

// SetLectures marshals the lecture tree back into the JSON column.
func (c *Course) SetLectures(lectures []Lecture) error {
	b, err := json.Marshal(lectures)
	if err != nil {
		return err
	}
	c.Lectures = datatypes.JSON(b)
	return nil
}

// RecomputeDerived normalizes the lecture tree and refreshes every derived
// field: chapter and lecture totalMinutes, course totalDuration and
// totalLectures. Applying it twice yields the same result.
func (c *Course) RecomputeDerived() error {
	lectures := c.DecodeLectures()

	totalCourseMinutes := 0.0
	for i := range lectures {
		lec := &lectures[i]
		if lec.Title == "" {
			lec.Title = "Untitled lecture"
		}
		if lec.Chapters == nil {
			lec.Chapters = []Chapter{}
		}

		chaptersMinutes := 0.0
		for j := range lec.Chapters {
			ch := &lec.Chapters[j]
			ch.Duration.Hours = nonNegative(ch.Duration.Hours)
			ch.Duration.Minutes = nonNegative(ch.Duration.Minutes)
			// An explicitly supplied totalMinutes wins over the rollup.
			if ch.TotalMinutes == 0 {
				ch.TotalMinutes = ch.Duration.Hours*60 + ch.Duration.Minutes
			}
			chaptersMinutes += ch.TotalMinutes
		}

		lec.Duration.Hours = nonNegative(lec.Duration.Hours)
		lec.Duration.Minutes = nonNegative(lec.Duration.Minutes)
		lectureOwnMinutes := lec.Duration.Hours*60 + lec.Duration.Minutes
		lec.TotalMinutes = lectureOwnMinutes + chaptersMinutes

		totalCourseMinutes += lec.TotalMinutes
	}

	c.TotalDuration.Hours = math.Floor(totalCourseMinutes / 60)
	c.TotalDuration.Minutes = math.Mod(totalCourseMinutes, 60)
	c.TotalLectures = len(lectures)

	return c.SetLectures(lectures)
}

// Round2 rounds a float to two decimal places.
func Round2(v float64) float64 {
	return math.Round(v*100) / 100
}

func nonNegative(v float64) float64 {
	if v < 0 || math.IsNaN(v) || math.IsInf(v, 0) {
		return 0
	}
	return v
}
