package courseService

import (
	"time"

	courseModels "lms/models/course"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// MarkLessonCompleted records that a user finished a lesson. The write is
// an upsert on the (user_id, lesson_id) natural key, so repeated calls
// leave exactly one completed record.
func MarkLessonCompleted(db *gorm.DB, userID, lessonID uint) error {
	var lesson courseModels.Lesson
	if err := db.Where("id = ? AND is_deleted = ? AND is_published = ?", lessonID, false, true).First(&lesson).Error; err != nil {
		return err
	}

	now := time.Now()
	progress := courseModels.LessonProgress{
		UserID:      userID,
		LessonID:    lessonID,
		CourseID:    lesson.CourseID,
		Completed:   true,
		CompletedAt: &now,
	}

	return db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "user_id"}, {Name: "lesson_id"}},
		DoUpdates: clause.AssignmentColumns([]string{"completed", "completed_at", "updated_at"}),
	}).Create(&progress).Error
}

// CompletedLessonIDs returns the subset of lessonIDs the user has
// completed. An empty input never touches the database.
func CompletedLessonIDs(db *gorm.DB, userID uint, lessonIDs []uint) ([]uint, error) {
	if len(lessonIDs) == 0 {
		return []uint{}, nil
	}

	var completed []uint
	err := db.Model(&courseModels.LessonProgress{}).
		Where("user_id = ? AND lesson_id IN ? AND completed = ?", userID, lessonIDs, true).
		Pluck("lesson_id", &completed).Error
	if err != nil {
		return nil, err
	}
	return completed, nil
}

// CourseLessonIDs lists the published lessons of a course through its
// modules, in course order.
func CourseLessonIDs(db *gorm.DB, courseID uint) ([]uint, error) {
	var moduleIDs []uint
	err := db.Model(&courseModels.Module{}).
		Where("course_id = ? AND is_deleted = ?", courseID, false).
		Order("order_index asc").
		Pluck("id", &moduleIDs).Error
	if err != nil {
		return nil, err
	}
	if len(moduleIDs) == 0 {
		return []uint{}, nil
	}

	var lessonIDs []uint
	err = db.Model(&courseModels.Lesson{}).
		Where("module_id IN ? AND is_deleted = ? AND is_published = ?", moduleIDs, false, true).
		Order("order_index asc").
		Pluck("id", &lessonIDs).Error
	if err != nil {
		return nil, err
	}
	return lessonIDs, nil
}
