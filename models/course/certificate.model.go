package course

import (
	"time"

	"gorm.io/gorm"
)

// Certificate represents an issued certificate for course completion.
// The composite unique index on (user_id, course_id) is the at-most-one
// guarantee; concurrent duplicate inserts fail there and are resolved by
// re-reading the winning row.
type Certificate struct {
	gorm.Model
	UserID            uint      `json:"user_id" gorm:"not null;uniqueIndex:idx_certificates_user_course"`
	CourseID          uint      `json:"course_id" gorm:"not null;uniqueIndex:idx_certificates_user_course"`
	UserName          string    `json:"user_name"`   // denormalized snapshot at issuance
	CourseName        string    `json:"course_name"` // denormalized snapshot at issuance
	CertificateNumber string    `json:"certificate_number" gorm:"unique"`
	IssuedAt          time.Time `json:"issued_at"`
	IsDeleted         bool      `gorm:"default:false"`
}

// CertificateHistory is a denormalized copy kept for the "recent
// certificates" listing. Writes are best-effort; a failed history row
// never blocks issuance.
type CertificateHistory struct {
	gorm.Model
	CertificateID     uint      `json:"certificate_id" gorm:"index;not null"`
	UserID            uint      `json:"user_id" gorm:"index;not null"`
	CourseID          uint      `json:"course_id" gorm:"index;not null"`
	UserName          string    `json:"user_name"`
	CourseName        string    `json:"course_name"`
	CertificateNumber string    `json:"certificate_number"`
	IssuedAt          time.Time `json:"issued_at"`
}

// VirtualCertificate is the degraded-path fallback. It lives only in the
// local store, never in the durable database, and is invisible to other
// sessions until the reconciliation sweep promotes it.
type VirtualCertificate struct {
	gorm.Model
	TempID     string    `json:"temp_id" gorm:"unique;not null"` // temp_<user>_<course>_<unix>
	UserID     uint      `json:"user_id" gorm:"index;not null"`
	CourseID   uint      `json:"course_id" gorm:"index;not null"`
	UserName   string    `json:"user_name"`
	CourseName string    `json:"course_name"`
	IssuedAt   time.Time `json:"issued_at"`
	IsVirtual  bool      `json:"is_virtual" gorm:"default:true"`
	Reconciled bool      `json:"reconciled" gorm:"default:false"`
}
