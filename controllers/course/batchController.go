package controllers

import (
	"time"

	"lms/database"
	"lms/middleware"
	courseModels "lms/models/course"

	"github.com/gofiber/fiber/v2"
)

// GetCourseBatches lists batches of a course. Stored statuses are a cache of
// the date-derived value, so they are recomputed lazily on read for batches
// that crossed a boundary purely due to elapsed time.
func GetCourseBatches(c *fiber.Ctx) error {
	if _, ok := c.Locals("userId").(uint); !ok {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Unauthorized!", nil)
	}

	courseID := c.Locals("courseID").(int)

	var course courseModels.Course
	if err := database.Database.Db.Where("id = ? AND is_deleted = ?", courseID, false).First(&course).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Course not found!", nil)
	}

	var batches []courseModels.Batch
	if err := database.Database.Db.Where("course_id = ? AND is_deleted = ?", courseID, false).Order("start_date asc").Find(&batches).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to fetch batches!", nil)
	}

	now := timeNow()
	for i := range batches {
		status := courseModels.DeriveBatchStatus(batches[i].StartDate, batches[i].EndDate, now)
		if status != batches[i].Status {
			database.Database.Db.Model(&batches[i]).Update("status", status)
			batches[i].Status = status
		}
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Batches fetched successfully!", fiber.Map{
		"batches": batches,
	})
}

// AdminCreateBatch creates a new batch for a course
func AdminCreateBatch(c *fiber.Ctx) error {
	instructor, ok := instructorFromContext(c)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Unauthorized!", nil)
	}

	courseID := c.Locals("courseID").(int)

	var course courseModels.Course
	if err := database.Database.Db.Where("id = ? AND is_deleted = ?", courseID, false).First(&course).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Course not found!", nil)
	}

	if !ownsCourse(instructor, course) {
		return middleware.JsonResponse(c, fiber.StatusForbidden, false, "You do not own this course!", nil)
	}

	reqData, ok := c.Locals("validatedBatch").(*struct {
		Name        string    `json:"name"`
		StartDate   time.Time `json:"start_date"`
		EndDate     time.Time `json:"end_date"`
		MaxStudents int       `json:"max_students"`
	})
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request data!", nil)
	}

	// The date-range invariant is validated here, not by the database; the
	// validator has already checked end_date > start_date
	batch := courseModels.Batch{
		CourseID:    uint(courseID),
		Name:        reqData.Name,
		StartDate:   reqData.StartDate,
		EndDate:     reqData.EndDate,
		MaxStudents: reqData.MaxStudents,
		Status:      courseModels.DeriveBatchStatus(reqData.StartDate, reqData.EndDate, timeNow()),
	}

	if err := database.Database.Db.Create(&batch).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to create batch!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusCreated, true, "Batch created successfully!", batch)
}

// AdminUpdateBatch updates a batch; status is recomputed whenever either
// date changes, even if the caller did not touch status
func AdminUpdateBatch(c *fiber.Ctx) error {
	instructor, ok := instructorFromContext(c)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Unauthorized!", nil)
	}

	batchID := c.Locals("batchID").(int)

	var batch courseModels.Batch
	if err := database.Database.Db.Where("id = ? AND is_deleted = ?", batchID, false).First(&batch).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Batch not found!", nil)
	}

	var course courseModels.Course
	if err := database.Database.Db.Where("id = ? AND is_deleted = ?", batch.CourseID, false).First(&course).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Course not found!", nil)
	}

	if !ownsCourse(instructor, course) {
		return middleware.JsonResponse(c, fiber.StatusForbidden, false, "You do not own this course!", nil)
	}

	reqData, ok := c.Locals("validatedBatchUpdate").(*struct {
		Name        string     `json:"name"`
		StartDate   *time.Time `json:"start_date"`
		EndDate     *time.Time `json:"end_date"`
		MaxStudents *int       `json:"max_students"`
	})
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request data!", nil)
	}

	datesChanged := false
	if reqData.Name != "" {
		batch.Name = reqData.Name
	}
	if reqData.MaxStudents != nil {
		batch.MaxStudents = *reqData.MaxStudents
	}
	if reqData.StartDate != nil {
		batch.StartDate = *reqData.StartDate
		datesChanged = true
	}
	if reqData.EndDate != nil {
		batch.EndDate = *reqData.EndDate
		datesChanged = true
	}

	if datesChanged {
		// A one-sided date change can still break the range once merged
		// with the stored batch
		if !batch.EndDate.After(batch.StartDate) {
			return middleware.ValidationErrorResponse(c, map[string]string{
				"end_date": "End date must be after start date!",
			})
		}
		batch.Status = courseModels.DeriveBatchStatus(batch.StartDate, batch.EndDate, timeNow())
	}

	if err := database.Database.Db.Save(&batch).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to update batch!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Batch updated successfully!", batch)
}

// AdminDeleteBatch soft deletes a batch. Deletion is blocked, not cascaded,
// while enrollments still reference the batch.
func AdminDeleteBatch(c *fiber.Ctx) error {
	instructor, ok := instructorFromContext(c)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Unauthorized!", nil)
	}

	batchID := c.Locals("batchID").(int)

	var batch courseModels.Batch
	if err := database.Database.Db.Where("id = ? AND is_deleted = ?", batchID, false).First(&batch).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Batch not found!", nil)
	}

	var course courseModels.Course
	if err := database.Database.Db.Where("id = ? AND is_deleted = ?", batch.CourseID, false).First(&course).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Course not found!", nil)
	}

	if !ownsCourse(instructor, course) {
		return middleware.JsonResponse(c, fiber.StatusForbidden, false, "You do not own this course!", nil)
	}

	var enrollmentCount int64
	database.Database.Db.Model(&courseModels.Enrollment{}).Where("batch_id = ?", batch.ID).Count(&enrollmentCount)
	if enrollmentCount > 0 {
		return middleware.JsonResponse(c, fiber.StatusConflict, false, "Batch has active enrollments and cannot be deleted!", fiber.Map{
			"enrollments": enrollmentCount,
		})
	}

	batch.IsDeleted = true
	if err := database.Database.Db.Save(&batch).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to delete batch!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Batch deleted successfully!", nil)
}
