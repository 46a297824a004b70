package domain

import "time"

type TodoId = int64

type TodoStatus string

const (
	StatusNotStarted TodoStatus = "NOT_STARTED"
	StatusInProgress TodoStatus = "IN_PROGRESS"
	StatusDone       TodoStatus = "DONE"
)

func (s TodoStatus) Valid() bool {
	switch s {
	case StatusNotStarted, StatusInProgress, StatusDone:
		return true
	}
	return false
}

type Todo struct {
	Id         TodoId
	Title      string
	Status     TodoStatus
	CategoryId CategoryId
	UserId     UserId
	CreatedAt  time.Time
}
