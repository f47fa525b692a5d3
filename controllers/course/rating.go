package courseController

import (
	"log"

	"coursedesk/middleware"
	"coursedesk/models"
	courseValidator "coursedesk/validators/course"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

// RateCourse upserts the caller's rating for a course and refreshes the
// aggregate in the same transaction, so avgRating and totalRatings always
// reflect exactly one entry per user.
func (ctrl *Controller) RateCourse(c *fiber.Ctx) error {
	userID := middleware.AuthUserID(c)
	if userID == "" {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
			"success": false,
			"error":   "Unauthorized Access",
		})
	}

	reqData, ok := c.Locals("validatedRating").(*courseValidator.RateCourseRequest)
	if !ok {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"success": false,
			"error":   "Invalid rating",
		})
	}

	courseID, err := c.ParamsInt("courseId")
	if err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"success": false,
			"error":   "Course not found",
		})
	}

	var course models.Course
	if err := ctrl.DB.First(&course, courseID).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"success": false,
			"error":   "Course not found",
		})
	}

	txErr := ctrl.DB.Transaction(func(tx *gorm.DB) error {
		var existing models.CourseRating
		err := tx.Where("course_id = ? AND user_id = ?", course.ID, userID).First(&existing).Error
		if err == nil {
			existing.Rating = reqData.Rating
			if reqData.Comment != "" {
				existing.Comment = reqData.Comment
			}
			if err := tx.Save(&existing).Error; err != nil {
				return err
			}
		} else {
			rating := models.CourseRating{
				CourseID: course.ID,
				UserID:   userID,
				Rating:   reqData.Rating,
				Comment:  reqData.Comment,
			}
			if err := tx.Create(&rating).Error; err != nil {
				return err
			}
		}

		var totalRatings int64
		if err := tx.Model(&models.CourseRating{}).Where("course_id = ?", course.ID).Count(&totalRatings).Error; err != nil {
			return err
		}
		var sum float64
		if err := tx.Model(&models.CourseRating{}).Where("course_id = ?", course.ID).
			Select("COALESCE(SUM(rating), 0)").Scan(&sum).Error; err != nil {
			return err
		}

		avg := 0.0
		if totalRatings > 0 {
			avg = models.Round2(sum / float64(totalRatings))
		}

		course.AvgRating = avg
		course.TotalRatings = int(totalRatings)
		return tx.Model(&course).Updates(map[string]interface{}{
			"avg_rating":    avg,
			"total_ratings": totalRatings,
		}).Error
	})
	if txErr != nil {
		log.Printf("[COURSE] Error rating course %d: %v", course.ID, txErr)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"success": false,
			"message": "Server error",
		})
	}

	return c.JSON(fiber.Map{
		"success":      true,
		"avgRating":    course.AvgRating,
		"totalRatings": course.TotalRatings,
		"myRating": fiber.Map{
			"userId": userID,
			"rating": reqData.Rating,
		},
	})
}

// GetMyRating returns the caller's rating for a course, or null when they
// have not rated it.
func (ctrl *Controller) GetMyRating(c *fiber.Ctx) error {
	userID := middleware.AuthUserID(c)
	if userID == "" {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
			"success": false,
			"error":   "Unauthorized Access",
		})
	}

	courseID, err := c.ParamsInt("courseId")
	if err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"success": false,
			"error":   "Course not found",
		})
	}

	var course models.Course
	if err := ctrl.DB.First(&course, courseID).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"success": false,
			"error":   "Course not found",
		})
	}

	var rating models.CourseRating
	if err := ctrl.DB.Where("course_id = ? AND user_id = ?", course.ID, userID).First(&rating).Error; err != nil {
		return c.JSON(fiber.Map{
			"success":  true,
			"myRating": nil,
		})
	}

	return c.JSON(fiber.Map{
		"success": true,
		"myRating": fiber.Map{
			"rating":  rating.Rating,
			"comment": rating.Comment,
		},
	})
}
