package company

import (
	"context"
	"errors"
	"log/slog"
	"path"
	"strings"

	"github.com/paydesk/payroll-console/internal/domain/auth"
	"github.com/paydesk/payroll-console/internal/domain/company"
	"github.com/paydesk/payroll-console/internal/domain/dashboard"
	"github.com/paydesk/payroll-console/internal/domain/user"
	"github.com/paydesk/payroll-console/internal/pkg/confirm"
	"github.com/paydesk/payroll-console/internal/pkg/imaging"
)

// MaxLogoBytes bounds the raw upload before it is decoded.
const MaxLogoBytes = 5 << 20

type CompanyServiceImpl struct {
	company.CompanyRepository
	invalidator dashboard.Invalidator
}

func NewCompanyService(companyRepo company.CompanyRepository, invalidator dashboard.Invalidator) company.CompanyService {
	if invalidator == nil {
		invalidator = dashboard.Nop
	}
	return &CompanyServiceImpl{
		CompanyRepository: companyRepo,
		invalidator:       invalidator,
	}
}

// List returns every company to a super admin and only the own company to others.
func (c *CompanyServiceImpl) List(ctx context.Context) ([]company.Company, error) {
	companies, err := c.CompanyRepository.List(ctx)
	if err != nil {
		return nil, err
	}

	sess, err := auth.SessionFromContext(ctx)
	if err != nil || sess.Role == user.RoleSuperAdmin {
		return companies, nil
	}
	visible := make([]company.Company, 0, 1)
	for _, co := range companies {
		if sess.CompanyID != nil && co.ID == *sess.CompanyID {
			visible = append(visible, co)
		}
	}
	return visible, nil
}

func (c *CompanyServiceImpl) GetByID(ctx context.Context, id string) (company.Company, error) {
	if err := auth.EnsureCompany(ctx, id); err != nil {
		return company.Company{}, err
	}
	return c.CompanyRepository.GetByID(ctx, id)
}

func (c *CompanyServiceImpl) Create(ctx context.Context, req company.CreateCompanyRequest) (company.Company, error) {
	if err := requireSuperAdmin(ctx); err != nil {
		return company.Company{}, err
	}
	if err := req.Validate(); err != nil {
		return company.Company{}, err
	}
	logo, err := normalizeLogo(req.Logo)
	if err != nil {
		return company.Company{}, err
	}
	req.Logo = logo

	created, err := c.CompanyRepository.Create(ctx, req)
	if err != nil {
		slog.Error("failed to create company", "name", req.Name, "error", err)
		return company.Company{}, err
	}

	slog.Info("company created", "company_id", created.ID, "name", created.Name)
	c.invalidate(ctx, created.ID, "company.create")
	return created, nil
}

func (c *CompanyServiceImpl) Update(ctx context.Context, req company.UpdateCompanyRequest) (company.Company, error) {
	if err := requireSuperAdmin(ctx); err != nil {
		return company.Company{}, err
	}
	if err := req.Validate(); err != nil {
		return company.Company{}, err
	}
	logo, err := normalizeLogo(req.Logo)
	if err != nil {
		return company.Company{}, err
	}
	req.Logo = logo

	updated, err := c.CompanyRepository.Update(ctx, req)
	if err != nil {
		return company.Company{}, err
	}

	c.invalidate(ctx, updated.ID, "company.update")
	return updated, nil
}

func (c *CompanyServiceImpl) Delete(ctx context.Context, id string, confirmed bool) error {
	if err := requireSuperAdmin(ctx); err != nil {
		return err
	}
	if err := confirm.Require(confirmed); err != nil {
		return err
	}

	if err := c.CompanyRepository.Delete(ctx, id); err != nil {
		return err
	}

	slog.Info("company deleted", "company_id", id)
	c.invalidate(ctx, id, "company.delete")
	return nil
}

func (c *CompanyServiceImpl) invalidate(ctx context.Context, companyID, action string) {
	c.invalidator.Invalidate(ctx, dashboard.NewInvalidation(ctx, companyID, action, companyID,
		dashboard.AggregateCompanies, dashboard.AggregateOverview))
}

func requireSuperAdmin(ctx context.Context) error {
	sess, err := auth.SessionFromContext(ctx)
	if err != nil {
		return err
	}
	if sess.Role != user.RoleSuperAdmin {
		return user.ErrInsufficientPermissions
	}
	return nil
}

// normalizeLogo downscales the upload and fixes its extension to the detected format.
func normalizeLogo(logo *company.Logo) (*company.Logo, error) {
	if logo == nil || len(logo.Content) == 0 {
		return nil, nil
	}
	if len(logo.Content) > MaxLogoBytes {
		return nil, company.ErrLogoTooLarge
	}

	content, contentType, err := imaging.Downscale(logo.Content, imaging.MaxLogoSide)
	if errors.Is(err, imaging.ErrUnsupportedFormat) {
		return nil, company.ErrInvalidLogoFormat
	}
	if err != nil {
		return nil, err
	}

	ext := ".png"
	if contentType == "image/jpeg" {
		ext = ".jpg"
	}
	name := strings.TrimSuffix(path.Base(logo.Filename), path.Ext(logo.Filename))
	if name == "" || name == "." || name == "/" {
		name = "logo"
	}
	return &company.Logo{Filename: name + ext, Content: content}, nil
}
