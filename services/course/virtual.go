package courseService

import (
	"fmt"
	"log"
	"time"

	courseModels "lms/models/course"

	"gorm.io/gorm"
)

// SynthesizeVirtual writes a non-durable certificate into the local
// store. The temporary identifier is prefixed so downstream consumers
// can tell it apart from a durable id.
func SynthesizeVirtual(local *gorm.DB, userID, courseID uint, userName, courseName string) (*courseModels.VirtualCertificate, error) {
	now := time.Now()
	virtual := courseModels.VirtualCertificate{
		TempID:     fmt.Sprintf("temp_%d_%d_%d", userID, courseID, now.Unix()),
		UserID:     userID,
		CourseID:   courseID,
		UserName:   userName,
		CourseName: courseName,
		IssuedAt:   now,
		IsVirtual:  true,
	}
	if err := local.Create(&virtual).Error; err != nil {
		return nil, err
	}
	return &virtual, nil
}

func issuedFromVirtual(virtual *courseModels.VirtualCertificate) *IssuedCertificate {
	return &IssuedCertificate{
		ID:         virtual.TempID,
		UserID:     virtual.UserID,
		CourseID:   virtual.CourseID,
		UserName:   virtual.UserName,
		CourseName: virtual.CourseName,
		IssuedAt:   virtual.IssuedAt,
		IsVirtual:  true,
	}
}

// ListVirtualCertificates returns the user's unreconciled virtual
// certificates from the local store.
func ListVirtualCertificates(local *gorm.DB, userID uint) ([]courseModels.VirtualCertificate, error) {
	var virtuals []courseModels.VirtualCertificate
	err := local.Where("user_id = ? AND reconciled = ?", userID, false).
		Order("issued_at desc").Find(&virtuals).Error
	if err != nil {
		return nil, err
	}
	return virtuals, nil
}

// PromoteVirtualCertificates replays unreconciled virtual certificates
// against the durable store. A duplicate on insert means the durable row
// already exists (another session issued it), which counts as promoted.
// The local row is deleted only after the durable side is confirmed.
func PromoteVirtualCertificates(db, local *gorm.DB, limit int) int {
	var virtuals []courseModels.VirtualCertificate
	query := local.Where("reconciled = ?", false).Order("issued_at asc")
	if limit > 0 {
		query = query.Limit(limit)
	}
	if err := query.Find(&virtuals).Error; err != nil {
		log.Printf("[CERT-RECONCILER] Failed to list virtual certificates: %v", err)
		return 0
	}

	promoted := 0
	for _, virtual := range virtuals {
		cert, err := insertCertificate(db, virtual.UserID, virtual.CourseID, virtual.UserName, virtual.CourseName)
		if err != nil {
			log.Printf("[CERT-RECONCILER] Still cannot promote %s: %v", virtual.TempID, err)
			continue
		}

		if err := local.Delete(&virtual).Error; err != nil {
			// Durable row exists; the leftover local row resolves as a
			// duplicate on the next sweep.
			log.Printf("[CERT-RECONCILER] Promoted %s to certificate %d but failed to clear local row: %v", virtual.TempID, cert.ID, err)
		}
		promoted++
	}
	return promoted
}
