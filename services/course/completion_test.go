package courseService

import (
	"testing"

	courseModels "lms/models/course"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReconcileEnrollmentWritesProgress(t *testing.T) {
	db := newTestDB(t)
	userID := seedUser(t, db, "Jane", "", "jane@example.com")
	courseID, lessonIDs := seedCourse(t, db, "Intro", 4)
	seedEnrollment(t, db, userID, courseID)

	require.NoError(t, MarkLessonCompleted(db, userID, lessonIDs[0]))

	pct, justCompleted, err := ReconcileEnrollment(db, userID, courseID)
	require.NoError(t, err)
	assert.Equal(t, 25, pct)
	assert.False(t, justCompleted)

	enrollment := getEnrollment(t, db, userID, courseID)
	assert.Equal(t, 25, enrollment.Progress)
	assert.Equal(t, "IN_PROGRESS", enrollment.Status)
	assert.Equal(t, 1, enrollment.CompletedLessons)
	assert.Equal(t, 4, enrollment.TotalLessons)
}

func TestReconcileEnrollmentCreatesMissingRow(t *testing.T) {
	db := newTestDB(t)
	userID := seedUser(t, db, "Jane", "", "jane@example.com")
	courseID, lessonIDs := seedCourse(t, db, "Intro", 2)

	require.NoError(t, MarkLessonCompleted(db, userID, lessonIDs[0]))

	pct, _, err := ReconcileEnrollment(db, userID, courseID)
	require.NoError(t, err)
	assert.Equal(t, 50, pct)

	enrollment := getEnrollment(t, db, userID, courseID)
	assert.Equal(t, 50, enrollment.Progress)
}

func TestReconcileEnrollmentNeverLowersProgress(t *testing.T) {
	db := newTestDB(t)
	userID := seedUser(t, db, "Jane", "", "jane@example.com")
	courseID, lessonIDs := seedCourse(t, db, "Intro", 4)
	seedEnrollment(t, db, userID, courseID)

	// Stored value ahead of lesson-level truth (lagging completion data).
	require.NoError(t, db.Model(&courseModels.Enrollment{}).
		Where("user_id = ? AND course_id = ?", userID, courseID).
		Update("progress", 60).Error)

	require.NoError(t, MarkLessonCompleted(db, userID, lessonIDs[0]))

	pct, _, err := ReconcileEnrollment(db, userID, courseID)
	require.NoError(t, err)
	assert.Equal(t, 60, pct)

	enrollment := getEnrollment(t, db, userID, courseID)
	assert.Equal(t, 60, enrollment.Progress)
}

func TestReconcileEnrollmentSignalsCompletion(t *testing.T) {
	db := newTestDB(t)
	userID := seedUser(t, db, "Jane", "", "jane@example.com")
	courseID, lessonIDs := seedCourse(t, db, "Intro", 2)
	seedEnrollment(t, db, userID, courseID)

	for _, id := range lessonIDs {
		require.NoError(t, MarkLessonCompleted(db, userID, id))
	}

	pct, justCompleted, err := ReconcileEnrollment(db, userID, courseID)
	require.NoError(t, err)
	assert.Equal(t, 100, pct)
	assert.True(t, justCompleted)

	enrollment := getEnrollment(t, db, userID, courseID)
	assert.Equal(t, "COMPLETED", enrollment.Status)
	assert.NotNil(t, enrollment.CompletedAt)

	// Signal fires only on the transition.
	_, justCompleted, err = ReconcileEnrollment(db, userID, courseID)
	require.NoError(t, err)
	assert.False(t, justCompleted)
}

func TestCompletedStateIsSticky(t *testing.T) {
	db := newTestDB(t)
	userID := seedUser(t, db, "Jane", "", "jane@example.com")
	courseID, lessonIDs := seedCourse(t, db, "Intro", 2)
	seedEnrollment(t, db, userID, courseID)

	for _, id := range lessonIDs {
		require.NoError(t, MarkLessonCompleted(db, userID, id))
	}
	_, _, err := ReconcileEnrollment(db, userID, courseID)
	require.NoError(t, err)

	// A lesson added after completion would recompute below 100.
	var module courseModels.Module
	require.NoError(t, db.Where("course_id = ?", courseID).First(&module).Error)
	extra := courseModels.Lesson{
		CourseID:    courseID,
		ModuleID:    module.ID,
		Title:       "Late addition",
		IsPublished: true,
	}
	require.NoError(t, db.Create(&extra).Error)

	pct, _, err := ReconcileEnrollment(db, userID, courseID)
	require.NoError(t, err)
	assert.Equal(t, 100, pct)

	enrollment := getEnrollment(t, db, userID, courseID)
	assert.Equal(t, 100, enrollment.Progress)
	assert.Equal(t, "COMPLETED", enrollment.Status)
}

func TestRecomputeStrictLowersProgress(t *testing.T) {
	db := newTestDB(t)
	userID := seedUser(t, db, "Jane", "", "jane@example.com")
	courseID, lessonIDs := seedCourse(t, db, "Intro", 4)
	seedEnrollment(t, db, userID, courseID)

	for _, id := range lessonIDs {
		require.NoError(t, MarkLessonCompleted(db, userID, id))
	}
	_, _, err := ReconcileEnrollment(db, userID, courseID)
	require.NoError(t, err)

	var module courseModels.Module
	require.NoError(t, db.Where("course_id = ?", courseID).First(&module).Error)
	extra := courseModels.Lesson{
		CourseID:    courseID,
		ModuleID:    module.ID,
		Title:       "Late addition",
		IsPublished: true,
	}
	require.NoError(t, db.Create(&extra).Error)

	pct, err := RecomputeStrict(db, userID, courseID)
	require.NoError(t, err)
	assert.Equal(t, 80, pct)

	enrollment := getEnrollment(t, db, userID, courseID)
	assert.Equal(t, 80, enrollment.Progress)
	assert.Equal(t, "IN_PROGRESS", enrollment.Status)
	assert.Nil(t, enrollment.CompletedAt)
}
