package company

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func strPtr(s string) *string { return &s }

func TestCreateCompanyRequest_Validate(t *testing.T) {
	req := CreateCompanyRequest{Name: "Boulangerie du Port", Email: strPtr("contact@port.sn"), Color: strPtr("#1d4ed8")}
	assert.NoError(t, req.Validate())

	req = CreateCompanyRequest{Name: " ", Email: strPtr("contact"), Color: strPtr("blue")}
	err := req.Validate()
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "name")
	assert.Contains(t, err.Error(), "email")
	assert.Contains(t, err.Error(), "color")
}

func TestCompany_Branding(t *testing.T) {
	c := Company{Name: "Boulangerie du Port", Address: strPtr("Rue 10, Dakar"), Logo: strPtr("/uploads/logo.png")}
	b := c.Branding()
	assert.Equal(t, "Boulangerie du Port", b.Name)
	assert.Equal(t, "Rue 10, Dakar", b.Address)
	assert.Equal(t, "/uploads/logo.png", b.Logo)
	assert.Empty(t, b.Color)
}

func TestCreateCompanyRequest_Fields(t *testing.T) {
	req := CreateCompanyRequest{Name: "Atelier", Phone: strPtr("+221770000000")}
	assert.Equal(t, map[string]string{"name": "Atelier", "phone": "+221770000000"}, req.Fields())
}
