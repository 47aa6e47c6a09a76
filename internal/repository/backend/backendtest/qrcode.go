package backendtest

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/paydesk/payroll-console/internal/domain/qrcode"
)

// CredentialTTL is how long an issued QR credential stays valid.
const CredentialTTL = 365 * 24 * time.Hour

// issueQR replaces the employee's credential; s.mu must be held.
func (s *Server) issueQR(employeeID string) *qrcode.QRCode {
	now := s.now()
	code := &qrcode.QRCode{
		ID:         s.nextID("qr"),
		EmployeeID: employeeID,
		Data:       "EMP:" + employeeID + ":" + uuid.NewString(),
		ExpiresAt:  now.Add(CredentialTTL),
		CreatedAt:  now,
	}
	s.qrCodes[employeeID] = code
	if e := s.employee(employeeID); e != nil {
		e.QRCodeID = &code.ID
	}
	return code
}

func (s *Server) generateQR(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.employee(id) == nil {
		writeError(w, http.StatusNotFound, "Employé non trouvé")
		return
	}
	code, ok := s.qrCodes[id]
	if !ok {
		code = s.issueQR(id)
	}
	writeJSON(w, http.StatusOK, map[string]any{"qrCode": code})
}

func (s *Server) regenerateQR(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.employee(id) == nil {
		writeError(w, http.StatusNotFound, "Employé non trouvé")
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"qrCode": s.issueQR(id)})
}

func (s *Server) getQR(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()
	code, ok := s.qrCodes[chi.URLParam(r, "id")]
	if !ok {
		writeError(w, http.StatusNotFound, "QR code non trouvé")
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"qrCode": code})
}

func (s *Server) bulkQR(w http.ResponseWriter, r *http.Request) {
	companyID := chi.URLParam(r, "id")

	s.mu.Lock()
	defer s.mu.Unlock()
	results := []qrcode.BulkResult{}
	for _, e := range s.employees {
		if e.CompanyID != companyID {
			continue
		}
		if !e.IsActive {
			results = append(results, qrcode.BulkResult{EmployeeID: e.ID, Error: "Employé inactif"})
			continue
		}
		code := s.issueQR(e.ID)
		results = append(results, qrcode.BulkResult{EmployeeID: e.ID, Success: true, QRCodeID: code.ID})
	}
	writeJSON(w, http.StatusOK, map[string]any{"results": results})
}

func (s *Server) validateQR(w http.ResponseWriter, r *http.Request) {
	var body struct {
		QRData string `json:"qrData"`
	}
	if err := decode(r, &body); err != nil || body.QRData == "" {
		writeError(w, http.StatusBadRequest, "qrData requis")
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	now := s.now()
	for _, code := range s.qrCodes {
		if code.Data != body.QRData {
			continue
		}
		e := s.employee(code.EmployeeID)
		if e == nil || !e.IsActive || now.After(code.ExpiresAt) {
			break
		}
		ee := *e
		writeJSON(w, http.StatusOK, qrcode.Validation{IsValid: true, EmployeeID: e.ID, Employee: &ee})
		return
	}
	writeJSON(w, http.StatusOK, qrcode.Validation{IsValid: false})
}

// QRCode returns the employee's current credential data, empty when none.
func (s *Server) QRCode(employeeID string) string {
	s.mu.Lock()
	defer s.mu.Unlock()
	if code, ok := s.qrCodes[employeeID]; ok {
		return code.Data
	}
	return ""
}
