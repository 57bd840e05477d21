package main

import (
	"encoding/json"
	"log"
	"time"

	"lms/config"
	"lms/database"
	"lms/models"
	courseModels "lms/models/course"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/datatypes"
)

// Seeds a demo instructor, student, course, lessons, quiz, assignment and batch.
func main() {
	// Load config and connect to database
	config.LoadConfig()
	database.ConnectDb()

	db := database.Database.Db

	hash, err := bcrypt.GenerateFromPassword([]byte("password123"), config.AppConfig.SaltRound)
	if err != nil {
		log.Fatalf("Failed to hash seed password: %v", err)
	}

	instructor := models.User{
		Name:     "Demo Instructor",
		Email:    "instructor@learnhub.dev",
		Password: string(hash),
		Role:     "INSTRUCTOR",
	}
	if err := db.Where("email = ?", instructor.Email).FirstOrCreate(&instructor).Error; err != nil {
		log.Fatalf("Failed to seed instructor: %v", err)
	}

	student := models.User{
		Name:     "Demo Student",
		Email:    "student@learnhub.dev",
		Password: string(hash),
		Role:     "STUDENT",
	}
	if err := db.Where("email = ?", student.Email).FirstOrCreate(&student).Error; err != nil {
		log.Fatalf("Failed to seed student: %v", err)
	}

	course := courseModels.Course{
		InstructorID: instructor.ID,
		Title:        "Introduction to Go",
		Description:  "A hands-on introduction to the Go programming language.",
		Category:     "Programming",
		Duration:     12,
		Status:       "ACTIVE",
		IsPublished:  true,
	}
	if err := db.Where("title = ? AND instructor_id = ?", course.Title, instructor.ID).FirstOrCreate(&course).Error; err != nil {
		log.Fatalf("Failed to seed course: %v", err)
	}

	lessons := []courseModels.Lesson{
		{CourseID: course.ID, Title: "Getting Started", ContentType: "TEXT", TextContent: "Installing Go and writing your first program.", DurationMinutes: 30, OrderIndex: 0, IsPublished: true},
		{CourseID: course.ID, Title: "Types and Functions", ContentType: "TEXT", TextContent: "Structs, interfaces and functions.", DurationMinutes: 45, OrderIndex: 1, IsPublished: true},
		{CourseID: course.ID, Title: "Concurrency", ContentType: "VIDEO", VideoURL: "https://videos.learnhub.dev/go-concurrency", DurationMinutes: 60, OrderIndex: 2, IsPublished: true},
	}
	for i := range lessons {
		if err := db.Where("course_id = ? AND title = ?", course.ID, lessons[i].Title).FirstOrCreate(&lessons[i]).Error; err != nil {
			log.Fatalf("Failed to seed lesson: %v", err)
		}
	}

	quiz := courseModels.Quiz{
		CourseID:     course.ID,
		Title:        "Go Basics Quiz",
		Description:  "Covers the first two lessons.",
		PassingScore: 60,
		IsPublished:  true,
	}
	if err := db.Where("course_id = ? AND title = ?", course.ID, quiz.Title).FirstOrCreate(&quiz).Error; err != nil {
		log.Fatalf("Failed to seed quiz: %v", err)
	}

	var questionCount int64
	db.Model(&courseModels.QuizQuestion{}).Where("quiz_id = ?", quiz.ID).Count(&questionCount)
	if questionCount == 0 {
		type seedQuestion struct {
			Text    string
			Options []string
			Correct int
			Points  int
		}
		seedQuestions := []seedQuestion{
			{"Which keyword declares a variable?", []string{"var", "let", "def", "dim"}, 0, 5},
			{"What does go fmt do?", []string{"Runs tests", "Formats source code", "Builds binaries", "Fetches modules"}, 1, 5},
			{"Which type holds a sequence of bytes?", []string{"int", "rune", "[]byte", "bool"}, 2, 10},
		}
		for i, q := range seedQuestions {
			optionsJSON, _ := json.Marshal(q.Options)
			question := courseModels.QuizQuestion{
				QuizID:        quiz.ID,
				QuestionText:  q.Text,
				Options:       datatypes.JSON(optionsJSON),
				CorrectAnswer: q.Correct,
				Points:        q.Points,
				OrderIndex:    i,
			}
			if err := db.Create(&question).Error; err != nil {
				log.Fatalf("Failed to seed quiz question: %v", err)
			}
		}
	}

	dueDate := time.Now().AddDate(0, 1, 0)
	assignment := courseModels.Assignment{
		CourseID:     course.ID,
		Title:        "Build a CLI Tool",
		Instructions: "Write a small command line tool and submit the repository URL.",
		DueDate:      &dueDate,
		MaxScore:     100,
		IsPublished:  true,
	}
	if err := db.Where("course_id = ? AND title = ?", course.ID, assignment.Title).FirstOrCreate(&assignment).Error; err != nil {
		log.Fatalf("Failed to seed assignment: %v", err)
	}

	start := time.Now().AddDate(0, 0, 7)
	end := start.AddDate(0, 2, 0)
	batch := courseModels.Batch{
		CourseID:    course.ID,
		Name:        "Autumn Cohort",
		StartDate:   start,
		EndDate:     end,
		MaxStudents: 50,
		Status:      courseModels.DeriveBatchStatus(start, end, time.Now()),
	}
	if err := db.Where("course_id = ? AND name = ?", course.ID, batch.Name).FirstOrCreate(&batch).Error; err != nil {
		log.Fatalf("Failed to seed batch: %v", err)
	}

	log.Println("Seed data created successfully")
}
