package models

type SubjectMastery struct {
	Subject Subject `json:"subject"`
	Level   Level   `json:"level"`
	Mastery int     `json:"mastery"` // percent
	Score   int     `json:"score"`
	Max     int     `json:"max"`
}

type DashboardResponse struct {
	Email        string           `json:"email"`
	StudentID    string           `json:"studentId"`
	Degree       Degree           `json:"degree"`
	DegreeName   string           `json:"degreeName"`
	AverageScore int              `json:"averageScore"`
	TotalQuizzes int              `json:"totalQuizzes"`
	Subjects     []SubjectMastery `json:"subjects"`
	Focus        []SubjectMastery `json:"focus"`
}
