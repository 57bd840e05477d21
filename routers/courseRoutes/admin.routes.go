package courseRoutes

import (
	controllers "lms/controllers/course"
	"lms/middleware"
	validators "lms/validators/course"

	"github.com/gofiber/fiber/v2"
)

// SetupAdminCourseRoutes sets up all instructor course management routes
func SetupAdminCourseRoutes(app *fiber.App) {
	instructorOnly := middleware.RequireRole("INSTRUCTOR", "ADMIN")

	adminGroup := app.Group("/admin/course", middleware.JWTMiddleware, instructorOnly)

	// Course CRUD
	adminGroup.Post("/create", validators.CreateCourseAdmin(), controllers.AdminCreateCourse)
	adminGroup.Get("/list", validators.AdminList(), controllers.AdminGetAllCourses)
	adminGroup.Put("/:id", validators.UpdateCourseAdmin(), controllers.AdminUpdateCourse)
	adminGroup.Delete("/:id", validators.DeleteCourse(), controllers.AdminDeleteCourse)
	adminGroup.Post("/:id/publish", validators.PublishCourse(), controllers.AdminPublishCourse)
	adminGroup.Get("/:id/enrollments", validators.GetCourseDetail(), controllers.AdminGetCourseEnrollments)

	// Lesson Management
	adminGroup.Post("/:id/lesson", validators.CreateLesson(), controllers.AdminCreateLesson)
	adminGroup.Get("/:id/lessons", validators.ListLessons(), controllers.AdminListLessons)
	adminGroup.Put("/:id/lesson/:lessonId", validators.UpdateLesson(), controllers.AdminUpdateLesson)
	adminGroup.Delete("/:id/lesson/:lessonId", validators.DeleteLesson(), controllers.AdminDeleteLesson)

	// Quiz Management
	adminGroup.Post("/:id/quiz", validators.CreateQuiz(), controllers.AdminCreateQuiz)

	// Assignment Management
	adminGroup.Post("/:id/assignment", validators.CreateAssignment(), controllers.AdminCreateAssignment)

	// Batch Management
	adminGroup.Post("/:id/batch", validators.CreateBatch(), controllers.AdminCreateBatch)
	adminGroup.Get("/:id/batches", validators.CourseBatches(), controllers.GetCourseBatches)

	// Assessment endpoints (separate from course group for easier access)
	assessmentGroup := app.Group("/admin", middleware.JWTMiddleware, instructorOnly)
	assessmentGroup.Post("/quiz/:quizId/publish", validators.PublishQuiz(), controllers.AdminPublishQuiz)
	assessmentGroup.Post("/assignment/:assignmentId/publish", validators.PublishAssignment(), controllers.AdminPublishAssignment)
	assessmentGroup.Get("/assignment/:assignmentId/submissions", validators.AssignmentSubmissions(), controllers.GetAssignmentSubmissions)
	assessmentGroup.Post("/submission/:submissionId/grade", validators.GradeSubmission(), controllers.GradeSubmission)
	assessmentGroup.Put("/batch/:batchId", validators.UpdateBatch(), controllers.AdminUpdateBatch)
	assessmentGroup.Delete("/batch/:batchId", validators.DeleteBatch(), controllers.AdminDeleteBatch)

	// Dashboard
	assessmentGroup.Get("/dashboard/stats", controllers.AdminDashboardStats)
	assessmentGroup.Get("/student/:userId/progress", validators.GetStudentProgress(), controllers.AdminGetStudentProgress)

	// Certificate Management
	assessmentGroup.Get("/certificate/requests", controllers.AdminListCertificateRequests)
	assessmentGroup.Post("/certificate/:requestId/approve", validators.ApproveCertificate(), controllers.AdminApproveCertificate)
	assessmentGroup.Post("/certificate/:requestId/reject", validators.RejectCertificate(), controllers.AdminRejectCertificate)
}
