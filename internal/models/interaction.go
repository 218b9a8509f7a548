package models

import (
	"time"

	"github.com/google/uuid"
)

type Interaction struct {
	ID         uuid.UUID   `json:"id"`
	UserEmail  string      `json:"userEmail"`
	Subject    Subject     `json:"subject"`
	Level      Level       `json:"level"`
	Prompt     string      `json:"prompt"`
	Answer     string      `json:"answer"`
	UsedDocIDs []uuid.UUID `json:"usedDocIds"`
	CreatedAt  time.Time   `json:"createdAt"`
}
