package employee

import "context"

type EmployeeService interface {
	List(ctx context.Context, filter EmployeeFilter) ([]Employee, error)
	GetByID(ctx context.Context, id string) (Employee, error)
	Create(ctx context.Context, req CreateEmployeeRequest) (Employee, error)
	Update(ctx context.Context, req UpdateEmployeeRequest) (Employee, error)
	ToggleStatus(ctx context.Context, id string) (Employee, error)
	Delete(ctx context.Context, id string, confirmed bool) error
	Stats(ctx context.Context, id string) (Stats, error)
}
