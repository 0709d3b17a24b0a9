package courseService

import (
	"fmt"
	"testing"

	"lms/models"
	courseModels "lms/models/course"

	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// newTestDB opens an in-memory database with the durable schema. A
// single connection keeps in-memory sqlite coherent across goroutines.
func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		TranslateError: true,
		Logger:         logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	require.NoError(t, db.AutoMigrate(
		&models.User{},
		&courseModels.Course{},
		&courseModels.Module{},
		&courseModels.Lesson{},
		&courseModels.LessonProgress{},
		&courseModels.Enrollment{},
		&courseModels.Certificate{},
		&courseModels.CertificateHistory{},
	))
	return db
}

// newLocalStore opens an in-memory stand-in for the local fallback store.
func newLocalStore(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		TranslateError: true,
		Logger:         logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	require.NoError(t, db.AutoMigrate(&courseModels.VirtualCertificate{}))
	return db
}

func seedUser(t *testing.T, db *gorm.DB, name, fullName, email string) uint {
	t.Helper()

	user := models.User{
		Name:     name,
		FullName: fullName,
		Email:    email,
		Password: "x",
	}
	require.NoError(t, db.Create(&user).Error)
	return user.ID
}

// seedCourse creates a published course with one module and the given
// number of published lessons.
func seedCourse(t *testing.T, db *gorm.DB, title string, lessonCount int) (uint, []uint) {
	t.Helper()

	course := courseModels.Course{
		Title:       title,
		Status:      "ACTIVE",
		IsPublished: true,
	}
	require.NoError(t, db.Create(&course).Error)

	module := courseModels.Module{
		CourseID: course.ID,
		Title:    title + " module",
	}
	require.NoError(t, db.Create(&module).Error)

	lessonIDs := make([]uint, 0, lessonCount)
	for i := 0; i < lessonCount; i++ {
		lesson := courseModels.Lesson{
			CourseID:    course.ID,
			ModuleID:    module.ID,
			Title:       fmt.Sprintf("%s lesson %d", title, i+1),
			OrderIndex:  i,
			IsPublished: true,
		}
		require.NoError(t, db.Create(&lesson).Error)
		lessonIDs = append(lessonIDs, lesson.ID)
	}
	return course.ID, lessonIDs
}

func seedEnrollment(t *testing.T, db *gorm.DB, userID, courseID uint) {
	t.Helper()

	enrollment := courseModels.Enrollment{
		UserID:   userID,
		CourseID: courseID,
		Status:   "ENROLLED",
	}
	require.NoError(t, db.Create(&enrollment).Error)
}

func getEnrollment(t *testing.T, db *gorm.DB, userID, courseID uint) courseModels.Enrollment {
	t.Helper()

	var enrollment courseModels.Enrollment
	require.NoError(t, db.Where("user_id = ? AND course_id = ?", userID, courseID).First(&enrollment).Error)
	return enrollment
}

// blockCertificateInserts makes durable certificate inserts fail with a
// non-duplicate error while leaving reads intact.
func blockCertificateInserts(t *testing.T, db *gorm.DB) {
	t.Helper()
	require.NoError(t, db.Exec(`CREATE TRIGGER block_cert_insert BEFORE INSERT ON certificates
		BEGIN SELECT RAISE(ABORT, 'certificates unavailable'); END`).Error)
}

func unblockCertificateInserts(t *testing.T, db *gorm.DB) {
	t.Helper()
	require.NoError(t, db.Exec(`DROP TRIGGER block_cert_insert`).Error)
}
