package courseService

import (
	"errors"
	"math"
	"time"

	courseModels "lms/models/course"

	"gorm.io/gorm"
)

// ComputeCourseProgress recomputes the lesson-level completion percentage
// for a user in a course. A course with no lessons is 0%, never 100%.
func ComputeCourseProgress(db *gorm.DB, userID, courseID uint) (pct, completed, total int, err error) {
	lessonIDs, err := CourseLessonIDs(db, courseID)
	if err != nil {
		return 0, 0, 0, err
	}

	completedIDs, err := CompletedLessonIDs(db, userID, lessonIDs)
	if err != nil {
		return 0, 0, 0, err
	}

	total = len(lessonIDs)
	completed = len(completedIDs)
	if total == 0 {
		return 0, 0, 0, nil
	}

	pct = int(math.Round(float64(completed) / float64(total) * 100))
	return pct, completed, total, nil
}

// ReconcileEnrollment writes the freshly computed percentage onto the
// enrollment row, upward only: a stored value is never lowered, and a
// stored 100% is sticky even if recomputation disagrees (see
// RecomputeStrict for the administrative override). Returns the stored
// percentage and whether this call moved the enrollment to COMPLETED.
func ReconcileEnrollment(db *gorm.DB, userID, courseID uint) (int, bool, error) {
	pct, completedCount, totalCount, err := ComputeCourseProgress(db, userID, courseID)
	if err != nil {
		return 0, false, err
	}

	var enrollment courseModels.Enrollment
	err = db.Where("user_id = ? AND course_id = ? AND is_deleted = ?", userID, courseID, false).First(&enrollment).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		enrollment = courseModels.Enrollment{
			UserID:   userID,
			CourseID: courseID,
			Status:   "ENROLLED",
		}
		if err := db.Create(&enrollment).Error; err != nil {
			return 0, false, err
		}
	} else if err != nil {
		return 0, false, err
	}

	wasCompleted := enrollment.Progress >= 100

	enrollment.CompletedLessons = completedCount
	enrollment.TotalLessons = totalCount

	if pct > enrollment.Progress {
		enrollment.Progress = pct
	}

	if enrollment.Progress >= 100 {
		enrollment.Status = "COMPLETED"
		if enrollment.CompletedAt == nil {
			now := time.Now()
			enrollment.CompletedAt = &now
		}
	} else if enrollment.Progress > 0 {
		enrollment.Status = "IN_PROGRESS"
	}

	if err := db.Save(&enrollment).Error; err != nil {
		return 0, false, err
	}

	justCompleted := !wasCompleted && enrollment.Progress >= 100
	return enrollment.Progress, justCompleted, nil
}

// RecomputeStrict overwrites the enrollment with the exact recomputed
// percentage, downward included. Admin-only escape hatch for data
// corrections such as lessons added after completion.
func RecomputeStrict(db *gorm.DB, userID, courseID uint) (int, error) {
	pct, completedCount, totalCount, err := ComputeCourseProgress(db, userID, courseID)
	if err != nil {
		return 0, err
	}

	var enrollment courseModels.Enrollment
	if err := db.Where("user_id = ? AND course_id = ? AND is_deleted = ?", userID, courseID, false).First(&enrollment).Error; err != nil {
		return 0, err
	}

	enrollment.Progress = pct
	enrollment.CompletedLessons = completedCount
	enrollment.TotalLessons = totalCount

	switch {
	case pct >= 100:
		enrollment.Status = "COMPLETED"
		if enrollment.CompletedAt == nil {
			now := time.Now()
			enrollment.CompletedAt = &now
		}
	case pct > 0:
		enrollment.Status = "IN_PROGRESS"
		enrollment.CompletedAt = nil
	default:
		enrollment.Status = "ENROLLED"
		enrollment.CompletedAt = nil
	}

	if err := db.Save(&enrollment).Error; err != nil {
		return 0, err
	}
	return pct, nil
}
