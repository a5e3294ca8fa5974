// Package domain defines the company (tenant) read model
package domain

import (
	"context"
	"time"
)

// Company is one tenant of the site
// the code doubles as the public URL segment
type Company struct {
	ID             int64     `json:"id"`
	Code           string    `json:"code"`
	Name           string    `json:"name"`
	Description    string    `json:"description,omitempty"`
	LogoURL        string    `json:"logoUrl,omitempty"`
	PrimaryColor   string    `json:"primaryColor,omitempty"`
	SecondaryColor string    `json:"secondaryColor,omitempty"`
	Address        string    `json:"address,omitempty"`
	Phone          string    `json:"phone,omitempty"`
	Email          string    `json:"email,omitempty"`
	Active         bool      `json:"active"`
	CreatedAt      time.Time `json:"createdAt"`
	UpdatedAt      time.Time `json:"updatedAt"`
}

// Repo is the storage surface for companies
// lookups return perr NotFound on a miss
type Repo interface {
	FindActiveByCode(ctx context.Context, code string) (Company, error)
	FindByID(ctx context.Context, id int64) (Company, error)
	ListAll(ctx context.Context) ([]Company, error)
}

// ReaderPort is what transports use to read companies
type ReaderPort interface {
	Repo
}
