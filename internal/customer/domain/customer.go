package domain

type ID string

type Customer struct {
	ID       ID
	Name     string
	Email    string
	ImageURL string
}
