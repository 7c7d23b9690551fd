package models

// Role constants
const (
	RoleTeacher = "teacher"
	RoleStudent = "student"
)

// Attendance status constants. StatusUnmarked is never stored; it is the
// value reported to a student who has not been marked yet.
const (
	StatusPresent  = "present"
	StatusAbsent   = "absent"
	StatusUnmarked = "not yet updated"
)

// Identity is the resolved owner of a credential: the subset of a user
// record needed for authorization decisions.
type Identity struct {
	UserID string `json:"userId"`
	Name   string `json:"name"`
	Email  string `json:"email"`
	Role   string `json:"role"`
}

// Summary holds attendance counts for a session. Total is always
// Present + Absent.
type Summary struct {
	Present int `json:"present"`
	Absent  int `json:"absent"`
	Total   int `json:"total"`
}

func (i *Identity) IsTeacher() bool {
	return i.Role == RoleTeacher
}

func (i *Identity) IsStudent() bool {
	return i.Role == RoleStudent
}
