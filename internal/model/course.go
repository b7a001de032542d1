package model

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"time"
)

// Course represents one catalog entry, identified by its unique course code.
// Nested structures (fees, syllabus, certificate and the string lists) are
// stored as JSONB document columns and implement driver.Valuer / sql.Scanner.
type Course struct {
	Category    string      `db:"category" json:"category" validate:"required"`
	CourseCode  string      `db:"course_code" json:"courseCode" validate:"required"`
	CourseName  string      `db:"course_name" json:"courseName" validate:"required"`
	Subtitle    string      `db:"subtitle" json:"subtitle"`
	Image       string      `db:"image" json:"image"`
	Banner      string      `db:"banner" json:"banner"`
	Details     string      `db:"details" json:"details"`
	Description string      `db:"description" json:"description"`
	Preview     string      `db:"preview" json:"preview"`
	Duration    string      `db:"duration" json:"duration"`
	Instructor  string      `db:"instructor" json:"instructor"`
	Students    int         `db:"students" json:"students" validate:"gte=0"`
	Rating      float64     `db:"rating" json:"rating" validate:"gte=0,lte=5"`
	Reviews     int         `db:"reviews" json:"reviews" validate:"gte=0"`
	Fees        Fees        `db:"fees" json:"fees"`
	Skills      StringList  `db:"skills" json:"skills"`
	Eligibility StringList  `db:"eligibility" json:"eligibility"`
	Benefits    StringList  `db:"benefits" json:"benefits"`
	Features    StringList  `db:"features" json:"features"`
	Syllabus    Syllabus    `db:"syllabus" json:"syllabus"`
	Certificate Certificate `db:"certificate" json:"certificate"`
	CreatedAt   time.Time   `db:"created_at" json:"createdAt"`
	UpdatedAt   time.Time   `db:"updated_at" json:"updatedAt"`
}

// Fees holds the commercial pricing of a course. The discounted price may
// never exceed the original price.
type Fees struct {
	Original   float64 `json:"original" validate:"gte=0"`
	Discounted float64 `json:"discounted" validate:"gte=0,ltefield=Original"`
	Currency   string  `json:"currency"`
}

// SyllabusModule is one unit in a course syllabus; topic order is significant
// for display.
type SyllabusModule struct {
	Module   string     `json:"module"`
	Topics   StringList `json:"topics"`
	Duration string     `json:"duration"`
}

// Syllabus is the ordered list of modules making up a course.
type Syllabus []SyllabusModule

// Certificate describes the completion certificate shown on a course page.
type Certificate struct {
	Image    string     `json:"image"`
	Criteria StringList `json:"criteria"`
}

// StringList is an ordered list of display strings. Order is significant and
// duplicates are permitted.
type StringList []string

// Normalize replaces nil slices with empty ones so that every array field
// serializes as [] rather than null, all the way down.
func (c *Course) Normalize() {
	if c.Skills == nil {
		c.Skills = StringList{}
	}
	if c.Eligibility == nil {
		c.Eligibility = StringList{}
	}
	if c.Benefits == nil {
		c.Benefits = StringList{}
	}
	if c.Features == nil {
		c.Features = StringList{}
	}
	if c.Syllabus == nil {
		c.Syllabus = Syllabus{}
	}
	for i := range c.Syllabus {
		if c.Syllabus[i].Topics == nil {
			c.Syllabus[i].Topics = StringList{}
		}
	}
	if c.Certificate.Criteria == nil {
		c.Certificate.Criteria = StringList{}
	}
}

// CategoryGroup is one entry of the derived catalog view: a category name and
// the courses filed under it.
type CategoryGroup struct {
	Category string   `json:"category"`
	Courses  []Course `json:"courses"`
}

// SummaryStats are the dashboard totals computed over the whole catalog.
// Student counts are summed in int64 so catalog-wide totals cannot wrap.
type SummaryStats struct {
	TotalCourses    int   `json:"totalCourses"`
	TotalStudents   int64 `json:"totalStudents"`
	TotalCategories int   `json:"totalCategories"`
}

// AdminIdentity is the authenticated principal derived from a verified
// credential. It lives only for the duration of a request.
type AdminIdentity struct {
	Subject string
	IsAdmin bool
}

func jsonValue(v any) (driver.Value, error) {
	return json.Marshal(v)
}

func jsonScan(src, dst any) error {
	switch s := src.(type) {
	case []byte:
		return json.Unmarshal(s, dst)
	case string:
		return json.Unmarshal([]byte(s), dst)
	case nil:
		return nil
	default:
		return fmt.Errorf("unsupported scan type %T", src)
	}
}

func (l StringList) Value() (driver.Value, error) {
	if l == nil {
		l = StringList{}
	}
	return jsonValue(l)
}

func (l *StringList) Scan(src any) error { return jsonScan(src, l) }

func (s Syllabus) Value() (driver.Value, error) {
	if s == nil {
		s = Syllabus{}
	}
	return jsonValue(s)
}

func (s *Syllabus) Scan(src any) error { return jsonScan(src, s) }

func (f Fees) Value() (driver.Value, error) { return jsonValue(f) }

func (f *Fees) Scan(src any) error { return jsonScan(src, f) }

func (c Certificate) Value() (driver.Value, error) { return jsonValue(c) }

func (c *Certificate) Scan(src any) error { return jsonScan(src, c) }
