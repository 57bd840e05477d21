package controllers

import (
	"fmt"
	"os"
	"strings"
	"testing"
	"time"

	"lms/config"
	"lms/database"
	"lms/models"
	courseModels "lms/models/course"

	"github.com/glebarez/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func TestMain(m *testing.M) {
	config.LoadConfig()
	os.Exit(m.Run())
}

// setupTestDB opens a fresh in-memory database, migrates it and installs it
// as the global instance the controllers read from.
func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	name := strings.ReplaceAll(t.Name(), "/", "_")
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", name)
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("failed to open test database: %v", err)
	}

	database.RunMigrations(db)
	database.Database = database.DbInstance{Db: db}
	return db
}

// freezeTime pins timeNow for the duration of the test
func freezeTime(t *testing.T, at time.Time) {
	t.Helper()
	timeNow = func() time.Time { return at }
	t.Cleanup(func() { timeNow = time.Now })
}

func createUser(t *testing.T, db *gorm.DB, name, email, role string) models.User {
	t.Helper()
	user := models.User{Name: name, Email: email, Password: "hashed", Role: role}
	if err := db.Create(&user).Error; err != nil {
		t.Fatalf("failed to create user: %v", err)
	}
	return user
}

func createPublishedCourse(t *testing.T, db *gorm.DB, instructorID uint, lessonCount int) (courseModels.Course, []courseModels.Lesson) {
	t.Helper()
	course := courseModels.Course{
		InstructorID: instructorID,
		Title:        "Test Course",
		Description:  "A course used in tests",
		Status:       "ACTIVE",
		IsPublished:  true,
	}
	if err := db.Create(&course).Error; err != nil {
		t.Fatalf("failed to create course: %v", err)
	}

	lessons := make([]courseModels.Lesson, lessonCount)
	for i := 0; i < lessonCount; i++ {
		lessons[i] = courseModels.Lesson{
			CourseID:    course.ID,
			Title:       fmt.Sprintf("Lesson %d", i+1),
			ContentType: "TEXT",
			OrderIndex:  i,
			IsPublished: true,
		}
		if err := db.Create(&lessons[i]).Error; err != nil {
			t.Fatalf("failed to create lesson: %v", err)
		}
	}
	return course, lessons
}

func enroll(t *testing.T, db *gorm.DB, userID, courseID uint, totalLessons int) courseModels.Enrollment {
	t.Helper()
	enrollment := courseModels.Enrollment{
		UserID:       userID,
		CourseID:     courseID,
		Status:       courseModels.EnrollmentEnrolled,
		TotalLessons: totalLessons,
		EnrolledAt:   time.Now(),
	}
	if err := db.Create(&enrollment).Error; err != nil {
		t.Fatalf("failed to create enrollment: %v", err)
	}
	return enrollment
}
