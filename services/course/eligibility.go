package courseService

import (
	"log"
	"time"

	courseModels "lms/models/course"

	"gorm.io/gorm"
)

// Eligibility states consumed by the course player.
const (
	StateInProgress            = "IN_PROGRESS"
	StateCompleteNoCertificate = "COMPLETE_NO_CERTIFICATE"
	StateCompleteWithCert      = "COMPLETE_WITH_CERTIFICATE"
)

// Eligibility is the read model the course player polls to decide
// whether to show the completion prompt and certificate action.
type Eligibility struct {
	State         string `json:"state"`
	Progress      int    `json:"progress"`
	Eligible      bool   `json:"eligible"`
	CertificateID string `json:"certificate_id,omitempty"`
	IsVirtual     bool   `json:"is_virtual,omitempty"`
	ShowCongrats  bool   `json:"show_congrats"`
}

// CertificateEligibility reconciles progress and projects the current
// state. Reaching 100% consults the ledger and, when no certificate
// exists yet, generation runs within the same flow. ShowCongrats fires
// exactly once per enrollment: the first read after completion sets
// CongratsShownAt so the prompt is never repeated.
func CertificateEligibility(db, local *gorm.DB, userID, courseID uint) (*Eligibility, error) {
	progress, _, err := ReconcileEnrollment(db, userID, courseID)
	if err != nil {
		return nil, err
	}

	result := &Eligibility{
		State:    StateInProgress,
		Progress: progress,
	}
	if progress < 100 {
		return result, nil
	}

	result.Eligible = true
	result.State = StateCompleteNoCertificate

	cert, err := FindCertificate(db, userID, courseID)
	if err != nil {
		// Lookup failure leaves the state unresolved rather than wrongly
		// claiming a certificate; the player retries on its next poll.
		return result, nil
	}

	if cert != nil {
		result.State = StateCompleteWithCert
		result.CertificateID = issuedFromRow(cert).ID
	} else {
		issued, genErr := GenerateCertificate(db, local, userID, courseID)
		if genErr != nil {
			log.Printf("[CERTIFICATE] Eligibility-triggered generation failed for user %d course %d: %v", userID, courseID, genErr)
		} else {
			result.State = StateCompleteWithCert
			result.CertificateID = issued.ID
			result.IsVirtual = issued.IsVirtual
		}
	}

	result.ShowCongrats = claimCongrats(db, userID, courseID)
	return result, nil
}

// claimCongrats marks the one-shot congratulations flag. Returns true
// only for the call that claims it.
func claimCongrats(db *gorm.DB, userID, courseID uint) bool {
	var enrollment courseModels.Enrollment
	err := db.Where("user_id = ? AND course_id = ? AND is_deleted = ?", userID, courseID, false).First(&enrollment).Error
	if err != nil {
		return false
	}
	if enrollment.CongratsShownAt != nil {
		return false
	}

	now := time.Now()
	enrollment.CongratsShownAt = &now
	if err := db.Save(&enrollment).Error; err != nil {
		return false
	}
	return true
}
