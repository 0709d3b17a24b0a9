package courseService

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEligibilityInProgress(t *testing.T) {
	db := newTestDB(t)
	local := newLocalStore(t)
	userID := seedUser(t, db, "Jane", "", "jane@example.com")
	courseID, lessonIDs := seedCourse(t, db, "Intro", 2)
	seedEnrollment(t, db, userID, courseID)

	require.NoError(t, MarkLessonCompleted(db, userID, lessonIDs[0]))

	eligibility, err := CertificateEligibility(db, local, userID, courseID)
	require.NoError(t, err)
	assert.Equal(t, StateInProgress, eligibility.State)
	assert.Equal(t, 50, eligibility.Progress)
	assert.False(t, eligibility.Eligible)
	assert.False(t, eligibility.ShowCongrats)
	assert.Empty(t, eligibility.CertificateID)
}

func TestEligibilityCompletesAndGenerates(t *testing.T) {
	db := newTestDB(t)
	local := newLocalStore(t)
	userID := seedUser(t, db, "Jane", "", "jane@example.com")
	courseID, lessonIDs := seedCourse(t, db, "Intro", 4)
	seedEnrollment(t, db, userID, courseID)

	// Lessons 1-3: still in progress.
	for _, id := range lessonIDs[:3] {
		require.NoError(t, MarkLessonCompleted(db, userID, id))
	}
	eligibility, err := CertificateEligibility(db, local, userID, courseID)
	require.NoError(t, err)
	assert.Equal(t, 75, eligibility.Progress)
	assert.Equal(t, StateInProgress, eligibility.State)

	// Final lesson completes the course and issues within the same flow.
	require.NoError(t, MarkLessonCompleted(db, userID, lessonIDs[3]))
	eligibility, err = CertificateEligibility(db, local, userID, courseID)
	require.NoError(t, err)
	assert.Equal(t, 100, eligibility.Progress)
	assert.True(t, eligibility.Eligible)
	assert.Equal(t, StateCompleteWithCert, eligibility.State)
	assert.NotEmpty(t, eligibility.CertificateID)
	assert.True(t, eligibility.ShowCongrats)

	// Subsequent polls keep the certificate but never re-show congrats.
	again, err := CertificateEligibility(db, local, userID, courseID)
	require.NoError(t, err)
	assert.Equal(t, StateCompleteWithCert, again.State)
	assert.Equal(t, eligibility.CertificateID, again.CertificateID)
	assert.False(t, again.ShowCongrats)
}

func TestEligibilityCompleteNoCertificateWhenGenerationFails(t *testing.T) {
	db := newTestDB(t)
	userID := seedUser(t, db, "Jane", "", "jane@example.com")
	courseID, lessonIDs := seedCourse(t, db, "Intro", 1)
	seedEnrollment(t, db, userID, courseID)
	completeCourse(t, db, userID, lessonIDs)

	blockCertificateInserts(t, db)

	eligibility, err := CertificateEligibility(db, nil, userID, courseID)
	require.NoError(t, err)
	assert.True(t, eligibility.Eligible)
	assert.Equal(t, StateCompleteNoCertificate, eligibility.State)
	assert.Empty(t, eligibility.CertificateID)
}
