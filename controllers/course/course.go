package courseController

import (
	"log"
	"os"
	"path/filepath"
	"strings"

	"coursedesk/config"
	"coursedesk/models"
	"coursedesk/utils"
	courseValidator "coursedesk/validators/course"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

// Controller serves the course catalog: listing, creation, deletion and
// ratings.
type Controller struct {
	DB  *gorm.DB
	Cfg *config.Config
}

func New(db *gorm.DB, cfg *config.Config) *Controller {
	return &Controller{DB: db, Cfg: cfg}
}

// GetPublicCourses lists courses for the storefront. home=true narrows to
// top courses with a default limit of 8; type=top|regular filters by kind.
func (ctrl *Controller) GetPublicCourses(c *fiber.Ctx) error {
	home := c.Query("home")
	courseType := c.Query("type", "all")
	limit := c.QueryInt("limit")

	db := ctrl.DB.Model(&models.Course{})
	if home == "true" || courseType == "top" {
		db = db.Where("course_type = ?", "top")
	} else if courseType == "regular" {
		db = db.Where("course_type = ?", "regular")
	}
	if home == "true" && limit <= 0 {
		limit = 8
	}
	if limit > 0 {
		db = db.Limit(limit)
	}

	var courses []models.Course
	if err := db.Order("created_at DESC").Find(&courses).Error; err != nil {
		log.Printf("[COURSE] Error fetching public courses: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"success": false,
			"error":   "Internal Server Error",
		})
	}

	absolutizeImages(courses, c.BaseURL())
	return c.JSON(fiber.Map{
		"success": true,
		"items":   courses,
	})
}

// GetCourses lists every course, newest first. Admin console use.
func (ctrl *Controller) GetCourses(c *fiber.Ctx) error {
	var courses []models.Course
	if err := ctrl.DB.Order("created_at DESC").Find(&courses).Error; err != nil {
		log.Printf("[COURSE] Error fetching courses: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"success": false,
			"error":   "Internal Server Error",
		})
	}

	absolutizeImages(courses, c.BaseURL())
	return c.JSON(fiber.Map{
		"success": true,
		"items":   courses,
	})
}

// GetCourseByID fetches one course.
func (ctrl *Controller) GetCourseByID(c *fiber.Ctx) error {
	id, err := c.ParamsInt("id")
	if err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"success": false,
			"error":   "Course not found",
		})
	}

	var course models.Course
	if err := ctrl.DB.First(&course, id).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"success": false,
			"error":   "Course not found",
		})
	}

	course.Image = utils.AbsoluteImageURL(course.Image, c.BaseURL())
	return c.JSON(fiber.Map{
		"success": true,
		"course":  course,
	})
}

// CreateCourse persists a new course from the validated input, recomputing
// every derived field first. An optional `image` multipart file is stored
// under the uploads directory.
func (ctrl *Controller) CreateCourse(c *fiber.Ctx) error {
	reqData, ok := c.Locals("validatedCourse").(*courseValidator.CreateCourseRequest)
	if !ok {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"success": false,
			"error":   "Invalid request data",
		})
	}

	image := reqData.Image
	if file, err := c.FormFile("image"); err == nil && file != nil {
		filename, err := utils.SaveUploadedFile(file, ctrl.Cfg.UploadDir)
		if err != nil {
			log.Printf("[COURSE] Error saving course image: %v", err)
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
				"success": false,
				"error":   "Internal Server Error",
			})
		}
		image = "/uploads/" + filename
	}

	course := models.Course{
		Name:          reqData.Name,
		Teacher:       reqData.Teacher,
		Image:         image,
		PricingType:   reqData.PricingType,
		Price:         reqData.Price,
		Overview:      reqData.Overview,
		TotalDuration: reqData.TotalDuration,
		TotalLectures: reqData.TotalLectures,
		CourseType:    reqData.CourseType,
		Category:      reqData.Category,
		CreatedBy:     reqData.CreatedBy,
	}
	if err := course.SetLectures(reqData.Lectures); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"success": false,
			"error":   "Invalid lectures payload",
		})
	}
	if err := course.RecomputeDerived(); err != nil {
		log.Printf("[COURSE] Error computing derived fields: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"success": false,
			"error":   "Internal Server Error",
		})
	}

	if err := ctrl.DB.Create(&course).Error; err != nil {
		log.Printf("[COURSE] Error creating course: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"success": false,
			"error":   "Internal Server Error",
		})
	}

	course.Image = utils.AbsoluteImageURL(course.Image, c.BaseURL())
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"success": true,
		"message": "Course created successfully",
		"course":  course,
	})
}

// DeleteCourse removes a course. Its uploaded image is deleted first when
// it is a local file; if that fails the course is left intact so the file
// never becomes orphaned.
func (ctrl *Controller) DeleteCourse(c *fiber.Ctx) error {
	id, err := c.ParamsInt("id")
	if err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"success": false,
			"error":   "Course not found",
		})
	}

	var course models.Course
	if err := ctrl.DB.First(&course, id).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"success": false,
			"error":   "Course not found",
		})
	}

	if course.Image != "" && !strings.HasPrefix(course.Image, "http") {
		filePath := filepath.Join(".", strings.TrimPrefix(course.Image, "/"))
		if _, statErr := os.Stat(filePath); statErr == nil {
			if err := os.Remove(filePath); err != nil {
				log.Printf("[COURSE] Error deleting course image %s: %v", filePath, err)
				return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
					"success": false,
					"error":   "Course image could not be deleted",
				})
			}
		}
	}

	if err := ctrl.DB.Delete(&course).Error; err != nil {
		log.Printf("[COURSE] Error deleting course %d: %v", course.ID, err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"success": false,
			"error":   "Internal Server Error",
		})
	}

	return c.JSON(fiber.Map{
		"success": true,
		"message": "Course deleted successfully",
	})
}

func absolutizeImages(courses []models.Course, baseURL string) {
	for i := range courses {
		courses[i].Image = utils.AbsoluteImageURL(courses[i].Image, baseURL)
	}
}
