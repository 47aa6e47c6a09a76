package http

import (
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"strings"

	"github.com/paydesk/payroll-console/internal/domain/company"
	"github.com/paydesk/payroll-console/internal/handler/http/response"
	"github.com/paydesk/payroll-console/internal/pkg/confirm"
	companySvc "github.com/paydesk/payroll-console/internal/service/company"
)

type CompanyHandler interface {
	List(w http.ResponseWriter, r *http.Request)
	GetByID(w http.ResponseWriter, r *http.Request)
	Create(w http.ResponseWriter, r *http.Request)
	Update(w http.ResponseWriter, r *http.Request)
	Delete(w http.ResponseWriter, r *http.Request)
}

type companyHandlerImpl struct {
	companyService company.CompanyService
}

func NewCompanyHandler(companyService company.CompanyService) CompanyHandler {
	return &companyHandlerImpl{
		companyService: companyService,
	}
}

// List implements CompanyHandler.
func (c *companyHandlerImpl) List(w http.ResponseWriter, r *http.Request) {
	companies, err := c.companyService.List(r.Context())
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, companies)
}

// GetByID implements CompanyHandler.
func (c *companyHandlerImpl) GetByID(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id", "Company ID")
	if !ok {
		return
	}

	result, err := c.companyService.GetByID(r.Context(), id)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, result)
}

// Create implements CompanyHandler. It accepts plain JSON, or a multipart form with
// the JSON payload in 'data' and an optional 'logo' file.
func (c *companyHandlerImpl) Create(w http.ResponseWriter, r *http.Request) {
	var req company.CreateCompanyRequest

	logo, ok := decodeCompanyForm(w, r, &req)
	if !ok {
		return
	}
	req.Logo = logo

	created, err := c.companyService.Create(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Created(w, "Company created successfully", created)
}

// Update implements CompanyHandler.
func (c *companyHandlerImpl) Update(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id", "Company ID")
	if !ok {
		return
	}

	var req company.UpdateCompanyRequest
	logo, ok := decodeCompanyForm(w, r, &req)
	if !ok {
		return
	}
	req.ID = id
	req.Logo = logo

	updated, err := c.companyService.Update(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Company updated successfully", updated)
}

// Delete implements CompanyHandler.
func (c *companyHandlerImpl) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id", "Company ID")
	if !ok {
		return
	}

	if err := c.companyService.Delete(r.Context(), id, confirm.FromRequest(r)); err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Company deleted successfully", nil)
}

func decodeCompanyForm(w http.ResponseWriter, r *http.Request, dst any) (*company.Logo, bool) {
	if !strings.HasPrefix(r.Header.Get("Content-Type"), "multipart/form-data") {
		return nil, decodeJSON(w, r, dst, "Company")
	}

	// Parse multipart form (max 10MB)
	if err := r.ParseMultipartForm(10 << 20); err != nil {
		slog.Error("Failed to parse multipart form", "error", err)
		response.BadRequest(w, "Failed to parse form data", nil)
		return nil, false
	}

	dataJSON := r.FormValue("data")
	if dataJSON == "" {
		response.BadRequest(w, "Field 'data' is required", nil)
		return nil, false
	}
	if err := json.Unmarshal([]byte(dataJSON), dst); err != nil {
		slog.Error("Failed to unmarshal JSON data", "error", err)
		response.BadRequest(w, "Invalid request format", nil)
		return nil, false
	}

	file, header, err := r.FormFile("logo")
	if err != nil {
		return nil, true
	}
	defer file.Close()

	content, err := io.ReadAll(io.LimitReader(file, companySvc.MaxLogoBytes+1))
	if err != nil {
		response.BadRequest(w, "Failed to read logo", nil)
		return nil, false
	}
	if len(content) > companySvc.MaxLogoBytes {
		response.HandleError(w, company.ErrLogoTooLarge)
		return nil, false
	}

	return &company.Logo{Filename: header.Filename, Content: content}, true
}
