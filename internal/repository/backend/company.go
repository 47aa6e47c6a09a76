package backend

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/paydesk/payroll-console/internal/domain/company"
	"github.com/paydesk/payroll-console/internal/pkg/restclient"
)

type companyRepository struct {
	client *restclient.Client
}

func NewCompanyRepository(client *restclient.Client) company.CompanyRepository {
	return &companyRepository{client: client}
}

func (r *companyRepository) List(ctx context.Context) ([]company.Company, error) {
	var companies []company.Company
	if err := get(ctx, r.client, "/companies", nil, "companies", &companies); err != nil {
		return nil, fmt.Errorf("list companies: %w", err)
	}
	return companies, nil
}

func (r *companyRepository) GetByID(ctx context.Context, id string) (company.Company, error) {
	var c company.Company
	if err := get(ctx, r.client, "/companies/"+escape(id), nil, "company", &c); err != nil {
		return company.Company{}, translate(err, company.ErrCompanyNotFound)
	}
	return c, nil
}

// Create is sent as multipart/form-data so the logo travels with the fields.
func (r *companyRepository) Create(ctx context.Context, req company.CreateCompanyRequest) (company.Company, error) {
	var raw json.RawMessage
	if err := r.client.PostMultipart(ctx, "/companies", req.Fields(), logoPart(req.Logo), &raw); err != nil {
		return company.Company{}, fmt.Errorf("create company: %w", err)
	}
	var c company.Company
	if err := unwrap(raw, "company", &c); err != nil {
		return company.Company{}, err
	}
	return c, nil
}

func (r *companyRepository) Update(ctx context.Context, req company.UpdateCompanyRequest) (company.Company, error) {
	var raw json.RawMessage
	if err := r.client.PutMultipart(ctx, "/companies/"+escape(req.ID), req.Fields(), logoPart(req.Logo), &raw); err != nil {
		return company.Company{}, translate(err, company.ErrCompanyNotFound)
	}
	var c company.Company
	if err := unwrap(raw, "company", &c); err != nil {
		return company.Company{}, err
	}
	return c, nil
}

func (r *companyRepository) Delete(ctx context.Context, id string) error {
	return translate(r.client.Delete(ctx, "/companies/"+escape(id)), company.ErrCompanyNotFound)
}

func logoPart(logo *company.Logo) *restclient.FilePart {
	if logo == nil || len(logo.Content) == 0 {
		return nil
	}
	return &restclient.FilePart{Field: "logo", Filename: logo.Filename, Content: logo.Content}
}
