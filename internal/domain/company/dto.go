package company

import (
	"regexp"

	"github.com/paydesk/payroll-console/internal/pkg/validator"
)

var colorRegex = regexp.MustCompile(`^#([0-9a-fA-F]{3}|[0-9a-fA-F]{6})$`)

// Logo is an uploaded company logo
type Logo struct {
	Filename string
	Content  []byte
}

type CreateCompanyRequest struct {
	Name    string  `json:"name"`
	Address *string `json:"address,omitempty"`
	Phone   *string `json:"phone,omitempty"`
	Email   *string `json:"email,omitempty"`
	Color   *string `json:"color,omitempty"`
	Logo    *Logo   `json:"-"`
}

func (r *CreateCompanyRequest) Validate() error {
	var errs validator.ValidationErrors

	if validator.IsEmpty(r.Name) {
		errs.Add("name", "name is required")
	} else if len(r.Name) > 255 {
		errs.Add("name", "name must not exceed 255 characters")
	}
	validateContact(&errs, r.Email, r.Color)

	return errs.OrNil()
}

type UpdateCompanyRequest struct {
	ID      string  `json:"-"`
	Name    *string `json:"name,omitempty"`
	Address *string `json:"address,omitempty"`
	Phone   *string `json:"phone,omitempty"`
	Email   *string `json:"email,omitempty"`
	Color   *string `json:"color,omitempty"`
	Logo    *Logo   `json:"-"`
}

func (r *UpdateCompanyRequest) Validate() error {
	var errs validator.ValidationErrors

	if validator.IsEmpty(r.ID) {
		errs.Add("id", "company id is required")
	}
	if r.Name != nil && validator.IsEmpty(*r.Name) {
		errs.Add("name", "name must not be empty")
	}
	validateContact(&errs, r.Email, r.Color)

	return errs.OrNil()
}

func validateContact(errs *validator.ValidationErrors, email, color *string) {
	if email != nil && *email != "" && !validator.IsValidEmail(*email) {
		errs.Add("email", "invalid email format")
	}
	if color != nil && *color != "" && !colorRegex.MatchString(*color) {
		errs.Add("color", "color must be a hex value such as #1d4ed8")
	}
}

// Fields flattens the request into multipart form fields.
func (r *CreateCompanyRequest) Fields() map[string]string {
	fields := map[string]string{"name": r.Name}
	putOptional(fields, "address", r.Address)
	putOptional(fields, "phone", r.Phone)
	putOptional(fields, "email", r.Email)
	putOptional(fields, "color", r.Color)
	return fields
}

// Fields flattens the request into multipart form fields.
func (r *UpdateCompanyRequest) Fields() map[string]string {
	fields := map[string]string{}
	putOptional(fields, "name", r.Name)
	putOptional(fields, "address", r.Address)
	putOptional(fields, "phone", r.Phone)
	putOptional(fields, "email", r.Email)
	putOptional(fields, "color", r.Color)
	return fields
}

func putOptional(fields map[string]string, key string, v *string) {
	if v != nil {
		fields[key] = *v
	}
}
