package backendtest

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/paydesk/payroll-console/internal/domain/company"
)

const maxUpload = 5 << 20

func (s *Server) listCompanies(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]company.Company, 0, len(s.companies))
	for _, c := range s.companies {
		out = append(out, *c)
	}
	writeJSON(w, http.StatusOK, map[string]any{"companies": out})
}

func (s *Server) getCompany(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()
	c := s.company(chi.URLParam(r, "id"))
	if c == nil {
		writeError(w, http.StatusNotFound, "Entreprise non trouvée")
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"company": c})
}

func (s *Server) createCompany(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseMultipartForm(maxUpload); err != nil {
		writeError(w, http.StatusBadRequest, "Formulaire invalide")
		return
	}
	name := r.FormValue("name")
	if name == "" {
		writeError(w, http.StatusBadRequest, "Le nom est requis")
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	now := s.now()
	c := &company.Company{
		ID:        s.nextID("co"),
		Name:      name,
		Currency:  "XOF",
		CreatedAt: now,
		UpdatedAt: now,
	}
	applyCompanyForm(c, r)
	s.companies = append(s.companies, c)
	writeJSON(w, http.StatusCreated, map[string]any{"company": c})
}

func (s *Server) updateCompany(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseMultipartForm(maxUpload); err != nil {
		writeError(w, http.StatusBadRequest, "Formulaire invalide")
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	c := s.company(chi.URLParam(r, "id"))
	if c == nil {
		writeError(w, http.StatusNotFound, "Entreprise non trouvée")
		return
	}
	if name := r.FormValue("name"); name != "" {
		c.Name = name
	}
	applyCompanyForm(c, r)
	c.UpdatedAt = s.now()
	writeJSON(w, http.StatusOK, map[string]any{"company": c})
}

func applyCompanyForm(c *company.Company, r *http.Request) {
	for field, dst := range map[string]**string{
		"address": &c.Address,
		"phone":   &c.Phone,
		"email":   &c.Email,
		"color":   &c.Color,
	} {
		if v := r.FormValue(field); v != "" {
			*dst = ptr(v)
		}
	}
	if _, header, err := r.FormFile("logo"); err == nil {
		c.Logo = ptr("/uploads/" + header.Filename)
	}
}

func (s *Server) deleteCompany(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	s.mu.Lock()
	defer s.mu.Unlock()
	for i, c := range s.companies {
		if c.ID == id {
			s.companies = append(s.companies[:i], s.companies[i+1:]...)
			writeJSON(w, http.StatusOK, map[string]string{"message": "Entreprise supprimée"})
			return
		}
	}
	writeError(w, http.StatusNotFound, "Entreprise non trouvée")
}
