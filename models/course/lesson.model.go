package course

import (
	"time"

	"gorm.io/gorm"
)

// Lesson represents a single unit of content within a module
type Lesson struct {
	gorm.Model
	CourseID    uint   `json:"course_id" gorm:"index;not null"`
	ModuleID    uint   `json:"module_id" gorm:"index;not null"`
	Title       string `json:"title"`
	Description string `json:"description"`
	ContentType string `json:"content_type" gorm:"default:'TEXT'"` // TEXT, VIDEO, IMAGE
	TextContent string `json:"text_content" gorm:"type:text"`
	VideoURL    string `json:"video_url"`
	OrderIndex  int    `json:"order_index" gorm:"default:0"` // Order within module
	IsPublished bool   `json:"is_published" gorm:"default:false"`
	IsDeleted   bool   `gorm:"default:false"`
}

// LessonProgress marks a user's completion of a single lesson.
// The composite unique index on (user_id, lesson_id) makes the
// completion write an upsert on its natural key.
type LessonProgress struct {
	gorm.Model
	UserID      uint       `json:"user_id" gorm:"not null;uniqueIndex:idx_lesson_progress_user_lesson"`
	LessonID    uint       `json:"lesson_id" gorm:"not null;uniqueIndex:idx_lesson_progress_user_lesson"`
	CourseID    uint       `json:"course_id" gorm:"index;not null"`
	Completed   bool       `json:"completed" gorm:"default:false"`
	CompletedAt *time.Time `json:"completed_at"`
}
