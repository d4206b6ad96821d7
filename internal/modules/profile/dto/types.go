package dto

import "time"

type Profile struct {
	ID        string
	Name      string
	Email     string
	CreatedAt time.Time
	Active    bool
}

type CreateInput struct {
	Name  string
	Email string
}

type UpdateInput struct {
	ID    string
	Name  *string
	Email *string
}
