package domain

type CategoryId = int64

// Category is shared across all users and managed by admins.
type Category struct {
	Id   CategoryId
	Name string
}
