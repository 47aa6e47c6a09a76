package user

import "context"

// UserRepository is served by the payroll backend's user administration endpoints.
type UserRepository interface {
	List(ctx context.Context) ([]User, error)
	Create(ctx context.Context, req CreateUserRequest) (User, error)
	Delete(ctx context.Context, id string) error
}
