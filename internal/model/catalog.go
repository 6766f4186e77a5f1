package model

// Catalog rows are read-only and fetched verbatim; db tags name the columns.

type Dept struct {
	DeptID        string  `json:"dept_id" db:"dept_id"`
	Title         string  `json:"title" db:"title"`
	GPA           float64 `json:"gpa" db:"gpa"`
	PastClasses   int     `json:"past_classes" db:"past_classes"`
	UniqueClasses int     `json:"unique_classes" db:"unique_classes"`
	NewClasses    int     `json:"new_classes" db:"new_classes"`
}

type Course struct {
	CourseID    string  `json:"course_id" db:"course_id"`
	Dept        string  `json:"dept" db:"dept"`
	Title       string  `json:"title" db:"title"`
	Credits     int     `json:"credits" db:"credits"`
	GPA         float64 `json:"gpa" db:"gpa"`
	Enrollment  int     `json:"enrollment" db:"enrollment"`
	Withdraw    int     `json:"withdraw" db:"withdraw"`
	PastClasses int     `json:"past_classes" db:"past_classes"`
	NewClasses  int     `json:"new_classes" db:"new_classes"`
}

type Instructor struct {
	InstructorID string  `json:"instructor_id" db:"instructor_id"`
	LastName     string  `json:"last_name" db:"last_name"`
	Dept         string  `json:"dept" db:"dept"`
	GPA          float64 `json:"gpa" db:"gpa"`
	Enrollment   int     `json:"enrollment" db:"enrollment"`
	Withdraw     int     `json:"withdraw" db:"withdraw"`
	PastClasses  int     `json:"past_classes" db:"past_classes"`
	NewClasses   int     `json:"new_classes" db:"new_classes"`
}

// PastInstance is a historical offering of a course with its grade outcome
type PastInstance struct {
	InstanceID   string  `json:"instance_id" db:"instance_id"`
	CourseID     string  `json:"course_id" db:"course_id"`
	InstructorID string  `json:"instructor_id" db:"instructor_id"`
	Year         string  `json:"year" db:"year"`
	Term         string  `json:"term" db:"term"`
	CRN          string  `json:"crn" db:"crn"`
	GPA          float64 `json:"gpa" db:"gpa"`
	Withdraw     int     `json:"withdraw" db:"withdraw"`
	Enrollment   int     `json:"enrollment" db:"enrollment"`
}

// NewInstance is an upcoming offering; its CRN is what schedules reference
type NewInstance struct {
	CRN          string `json:"crn" db:"crn"`
	Dept         string `json:"dept" db:"dept"`
	CourseID     string `json:"course_id" db:"course_id"`
	InstructorID string `json:"instructor_id" db:"instructor_id"`
	Title        string `json:"title" db:"title"`
	Modality     string `json:"modality" db:"modality"`
	Credits      int    `json:"credits" db:"credits"`
	Capacity     int    `json:"capacity" db:"capacity"`
	Days         string `json:"days" db:"days"`
	StartTime    string `json:"start_time" db:"start_time"`
	EndTime      string `json:"end_time" db:"end_time"`
	Location     string `json:"location" db:"location"`
}

type InstructorCourseStat struct {
	StatID       string  `json:"stat_id" db:"stat_id"`
	CourseID     string  `json:"course_id" db:"course_id"`
	InstructorID string  `json:"instructor_id" db:"instructor_id"`
	GPA          float64 `json:"gpa" db:"gpa"`
	Enrollment   int     `json:"enrollment" db:"enrollment"`
	Withdraw     int     `json:"withdraw" db:"withdraw"`
	PastClasses  int     `json:"past_classes" db:"past_classes"`
}
