package models

// Board is the detailed board view; Lists holds the ids of its task lists in
// ascending order.
type Board struct {
	ID          int64
	Name        string
	Description string
	Lists       []int64
}

// SimpleBoard is a board without its lists.
type SimpleBoard struct {
	ID          int64
	Name        string
	Description string
}

func (b Board) Simple() SimpleBoard {
	return SimpleBoard{ID: b.ID, Name: b.Name, Description: b.Description}
}

// UserBoard is a membership record granting UserID access to BoardID.
type UserBoard struct {
	ID      int64
	UserID  int64
	BoardID int64
}
