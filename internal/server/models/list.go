package models

import "time"

// TaskList belongs to exactly one board. Cards holds the ids of its cards.
type TaskList struct {
	ID      int64
	BoardID int64
	Name    string
	Cards   []int64
}

type SimpleList struct {
	ID      int64
	BoardID int64
	Name    string
}

func (l TaskList) Simple() SimpleList {
	return SimpleList{ID: l.ID, BoardID: l.BoardID, Name: l.Name}
}

// Card is a unit of work inside a list. BoardID mirrors the board of the
// list the card currently sits in. Dates carry no time-of-day component.
type Card struct {
	ID          int64
	BoardID     int64
	ListID      int64
	Name        string
	Description string
	InitDate    time.Time
	DueDate     time.Time
}

// Date truncates t to midnight UTC of its calendar day.
func Date(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
