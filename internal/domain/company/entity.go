package company

import "time"

type Company struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Address   *string   `json:"address,omitempty"`
	Phone     *string   `json:"phone,omitempty"`
	Email     *string   `json:"email,omitempty"`
	Logo      *string   `json:"logo,omitempty"`
	Color     *string   `json:"color,omitempty"`
	Currency  string    `json:"currency,omitempty"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// Branding is the part of a company that appears on rendered documents.
type Branding struct {
	Name    string `json:"name"`
	Address string `json:"address,omitempty"`
	Logo    string `json:"logo,omitempty"`
	Color   string `json:"color,omitempty"`
}

func (c *Company) Branding() Branding {
	b := Branding{Name: c.Name}
	if c.Address != nil {
		b.Address = *c.Address
	}
	if c.Logo != nil {
		b.Logo = *c.Logo
	}
	if c.Color != nil {
		b.Color = *c.Color
	}
	return b
}
