package models

import "time"

type UserProfile struct {
	Email      string    `json:"email"`
	StudentID  string    `json:"studentId"`
	Degree     Degree    `json:"degree"`
	DegreeName *string   `json:"degreeName"`
	Goals      *string   `json:"goals"`
	CreatedAt  time.Time `json:"createdAt"`
	UpdatedAt  time.Time `json:"updatedAt"`
}

type SubjectLevel struct {
	UserEmail string    `json:"userEmail"`
	Subject   Subject   `json:"subject"`
	Level     Level     `json:"level"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// LevelFor returns the stored level for subject, or def when absent.
func LevelFor(levels []SubjectLevel, subject Subject, def Level) Level {
	for _, l := range levels {
		if l.Subject == subject {
			return l.Level
		}
	}
	return def
}

type SaveProfileRequest struct {
	StudentID  string            `json:"studentId"`
	Degree     Degree            `json:"degree"`
	DegreeName string            `json:"degreeName"`
	Goals      *string           `json:"goals"`
	Levels     map[Subject]Level `json:"levels"`
}

type ProfileView struct {
	StudentID  string            `json:"studentId"`
	Degree     Degree            `json:"degree"`
	DegreeName string            `json:"degreeName"`
	Goals      string            `json:"goals"`
	Levels     map[Subject]Level `json:"levels"`
}

type ProfileResponse struct {
	Completed bool        `json:"completed"`
	Profile   ProfileView `json:"profile"`
}
