package domain

import "time"

// User is the local record of an authenticated subject.
// Rows are created the first time a subject votes or asks for a personal view.
type User struct {
	ID        int64
	Subject   string
	CreatedAt time.Time
}
