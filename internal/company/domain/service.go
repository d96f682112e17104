package domain

import (
	"context"
	"errors"
)

type Service interface {
	// ResolveOrCreate returns the owner's company with the given name,
	// creating it when it does not exist yet.
	ResolveOrCreate(ctx context.Context, name string) (*Company, error)
	Get(ctx context.Context, id string) (*Company, error)
	// GetByName returns the owner's company with the given name, or
	// ErrCompanyNotFound.
	GetByName(ctx context.Context, name string) (*Company, error)
	List(ctx context.Context) ([]Company, error)
	Delete(ctx context.Context, id string) error
}

var (
	ErrInvalidOwner    = errors.New("invalid_owner")
	ErrInvalidCompany  = errors.New("invalid_company")
	ErrInvalidName     = errors.New("invalid_company_name")
	ErrCompanyNotFound = errors.New("company_not_found")
)
