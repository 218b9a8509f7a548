package models

import "strings"

type Subject string

const (
	SubjectMaths           Subject = "MATHS"
	SubjectMidge           Subject = "MIDGE"
	SubjectDatabaseSystems Subject = "DATABASE_SYSTEMS"
)

// Subjects lists the closed set of subjects in display order.
var Subjects = []Subject{SubjectMaths, SubjectMidge, SubjectDatabaseSystems}

func (s Subject) Valid() bool {
	for _, v := range Subjects {
		if s == v {
			return true
		}
	}
	return false
}

// DisplayName turns DATABASE_SYSTEMS into "DATABASE SYSTEMS".
func (s Subject) DisplayName() string {
	return strings.Replace(string(s), "_", " ", 1)
}

// ParseSubject upper-cases raw and falls back to def for unknown values.
func ParseSubject(raw string, def Subject) Subject {
	s := Subject(strings.ToUpper(strings.TrimSpace(raw)))
	if s.Valid() {
		return s
	}
	return def
}

type Level string

const (
	LevelBeginner     Level = "BEGINNER"
	LevelIntermediate Level = "INTERMEDIATE"
	LevelAdvanced     Level = "ADVANCED"
)

// Levels is ordered from easiest to hardest.
var Levels = []Level{LevelBeginner, LevelIntermediate, LevelAdvanced}

func (l Level) Valid() bool {
	return l.Rank() >= 0
}

// Rank returns the position of l in Levels, or -1.
func (l Level) Rank() int {
	for i, v := range Levels {
		if l == v {
			return i
		}
	}
	return -1
}

func ParseLevel(raw string, def Level) Level {
	l := Level(strings.ToUpper(strings.TrimSpace(raw)))
	if l.Valid() {
		return l
	}
	return def
}

type Degree string

const (
	DegreeBachelors Degree = "BACHELORS"
	DegreeMasters   Degree = "MASTERS"
	DegreePhD       Degree = "PHD"
)

func (d Degree) Valid() bool {
	switch d {
	case DegreeBachelors, DegreeMasters, DegreePhD:
		return true
	}
	return false
}
