package courseRoutes

import (
	controllers "lms/controllers/course"
	"lms/middleware"
	validators "lms/validators/course"

	"github.com/gofiber/fiber/v2"
)

// SetupCourseRoutes sets up all user-facing course routes
func SetupCourseRoutes(app *fiber.App) {
	userGroup := app.Group("/course")

	// Course listing and details (published courses)
	userGroup.Get("/list", middleware.JWTMiddleware, validators.CourseList(), controllers.GetAllCourses)
	userGroup.Get("/:id", middleware.JWTMiddleware, validators.GetCourseDetail(), controllers.GetCourseDetails)

	// Enrollment
	userGroup.Post("/:id/enroll", middleware.JWTMiddleware, validators.EnrollCourse(), controllers.EnrollInCourse)

	// Lesson completion
	userGroup.Post("/:course_id/lesson/:lesson_id/complete", middleware.JWTMiddleware, validators.MarkLessonComplete(), controllers.MarkLessonComplete)

	// Progress tracking and certificate eligibility
	userGroup.Get("/:course_id/progress", middleware.JWTMiddleware, validators.GetCourseProgress(), controllers.GetUserProgress)
	userGroup.Get("/:course_id/eligibility", middleware.JWTMiddleware, validators.GetCourseProgress(), controllers.GetCertificateEligibility)

	// Certificate generation
	userGroup.Post("/:course_id/certificate", middleware.JWTMiddleware, validators.GenerateCertificate(), controllers.GenerateCertificate)
	userGroup.Post("/:course_id/certificate/force", middleware.JWTMiddleware, validators.GenerateCertificate(), controllers.ForceGenerateCertificate)

	// User enrollments and certificates
	userEnrollGroup := app.Group("/user")
	userEnrollGroup.Get("/enrollments", middleware.JWTMiddleware, controllers.GetUserEnrollmentsList)
	userEnrollGroup.Get("/certificates", middleware.JWTMiddleware, controllers.GetUserCertificates)
	userEnrollGroup.Post("/certificates/backfill", middleware.JWTMiddleware, validators.BackfillCertificates(), controllers.BackfillCertificates)

	// Admin-only strict recompute
	adminGroup := app.Group("/admin")
	adminGroup.Post("/course/:course_id/user/:user_id/recompute", middleware.JWTMiddleware, middleware.AdminOnly, validators.RecomputeProgress(), controllers.RecomputeProgressStrict)
}
