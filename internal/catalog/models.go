package catalog

import "time"

// Course owns an ordered set of disciplines. Codes are short labels like
// "ADS" and must be unique across the catalog.
type Course struct {
	ID        string    `gorm:"primaryKey;type:varchar(36)" json:"id"`
	Name      string    `gorm:"type:varchar(255);not null" json:"name"`
	Code      string    `gorm:"type:varchar(32);uniqueIndex;not null" json:"code"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (Course) TableName() string { return "courses" }

// Discipline is scoped to exactly one course; (course_id, code) is unique.
// Semester orders disciplines for display only.
type Discipline struct {
	ID        string    `gorm:"primaryKey;type:varchar(36)" json:"id"`
	CourseID  string    `gorm:"type:varchar(36);not null;index;index:uniq_course_code,unique,priority:1" json:"courseId"`
	Name      string    `gorm:"type:varchar(255);not null" json:"name"`
	Code      string    `gorm:"type:varchar(32);not null;index:uniq_course_code,unique,priority:2" json:"code"`
	Semester  int       `gorm:"not null" json:"semester"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (Discipline) TableName() string { return "disciplines" }

// CourseUpdate carries a partial update; nil fields are left untouched.
type CourseUpdate struct {
	Name *string `json:"name"`
	Code *string `json:"code"`
}

type DisciplineUpdate struct {
	Name     *string `json:"name"`
	Code     *string `json:"code"`
	Semester *int    `json:"semester"`
}
