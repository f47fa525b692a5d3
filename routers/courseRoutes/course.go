package courseRoutes

import (
	courseController "coursedesk/controllers/course"
	courseValidator "coursedesk/validators/course"

	"github.com/gofiber/fiber/v2"
)

// SetupCourseRoutes wires the course catalog endpoints.
func SetupCourseRoutes(app *fiber.App, ctrl *courseController.Controller) {
	group := app.Group("/api/v1/courses")

	group.Get("/public", ctrl.GetPublicCourses)
	group.Get("/", ctrl.GetCourses)
	group.Post("/", courseValidator.CreateCourse(), ctrl.CreateCourse)
	group.Get("/:id", ctrl.GetCourseByID)
	group.Delete("/:id", ctrl.DeleteCourse)

	group.Post("/:courseId/rate", courseValidator.RateCourse(), ctrl.RateCourse)
	group.Get("/:courseId/rating", ctrl.GetMyRating)
}
