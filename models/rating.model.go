package models

import "gorm.io/gorm"

// CourseRating is one user's rating of a course. A user has at most one row
// per course; submitting again replaces the previous value.
type CourseRating struct {
	gorm.Model
	CourseID uint    `json:"courseId" gorm:"uniqueIndex:idx_course_user;not null"`
	UserID   string  `json:"userId" gorm:"uniqueIndex:idx_course_user;not null"`
	Rating   float64 `json:"rating" gorm:"not null;check:rating >= 1 AND rating <= 5"`
	Comment  string  `json:"comment" gorm:"type:text;default:''"`
}
