package courseRoutes

import (
	controllers "lms/controllers/course"
	"lms/middleware"
	validators "lms/validators/course"

	"github.com/gofiber/fiber/v2"
)

// SetupCourseRoutes sets up all student-facing course routes
func SetupCourseRoutes(app *fiber.App) {
	userGroup := app.Group("/course")

	// Course listing and details (public published courses)
	userGroup.Get("/list", middleware.JWTMiddleware, validators.CourseList(), controllers.GetAllCourses)
	userGroup.Get("/:id", middleware.JWTMiddleware, validators.GetCourseDetail(), controllers.GetCourseDetails)

	// Enrollment
	userGroup.Post("/:id/enroll", middleware.JWTMiddleware, validators.EnrollCourse(), controllers.EnrollInCourse)

	// Batches
	userGroup.Get("/:id/batches", middleware.JWTMiddleware, validators.CourseBatches(), controllers.GetCourseBatches)

	// Lesson progress
	userGroup.Post("/:id/lesson/:lessonId/progress", middleware.JWTMiddleware, validators.RecordProgress(), controllers.RecordLessonProgress)
	userGroup.Get("/:id/progress", middleware.JWTMiddleware, validators.GetCourseProgress(), controllers.GetUserProgress)

	// Quizzes
	userGroup.Get("/:id/quizzes", middleware.JWTMiddleware, validators.CourseQuizzes(), controllers.GetCourseQuizzes)
	userGroup.Post("/:id/quiz/:quizId/submit", middleware.JWTMiddleware, validators.SubmitQuiz(), controllers.SubmitQuizAttempt)
	userGroup.Get("/:id/quiz/:quizId/attempts", middleware.JWTMiddleware, validators.QuizAttempts(), controllers.GetQuizAttempts)

	// Assignments
	userGroup.Get("/:id/assignments", middleware.JWTMiddleware, validators.CourseAssignments(), controllers.GetCourseAssignments)

	assignmentGroup := app.Group("/assignment")
	assignmentGroup.Post("/:assignmentId/submit", middleware.JWTMiddleware, validators.SubmitAssignment(), controllers.SubmitAssignment)

	// User enrollments and certificates
	userEnrollGroup := app.Group("/user")
	userEnrollGroup.Get("/enrollments", middleware.JWTMiddleware, validators.GetUserEnrollments(), controllers.GetEnrollments)
	userEnrollGroup.Get("/enrollments/all", middleware.JWTMiddleware, controllers.GetUserEnrollmentsList)
	userEnrollGroup.Get("/certificates", middleware.JWTMiddleware, controllers.GetUserCertificates)

	// Certificate request
	userGroup.Post("/:id/certificate/request", middleware.JWTMiddleware, validators.RequestCertificateValidator(), controllers.RequestCertificate)
}
