package company

import "context"

type CompanyRepository interface {
	List(ctx context.Context) ([]Company, error)
	GetByID(ctx context.Context, id string) (Company, error)
	Create(ctx context.Context, req CreateCompanyRequest) (Company, error)
	Update(ctx context.Context, req UpdateCompanyRequest) (Company, error)
	Delete(ctx context.Context, id string) error
}
