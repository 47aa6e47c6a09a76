package backendtest

import (
	"net/http"
	"sort"

	"github.com/go-chi/chi/v5"
	"github.com/paydesk/payroll-console/internal/domain/attendance"
	"github.com/paydesk/payroll-console/internal/domain/employee"
	"github.com/paydesk/payroll-console/internal/domain/payroll"
	"github.com/shopspring/decimal"
)

type payRunBody struct {
	Name      *string `json:"name"`
	StartDate string  `json:"startDate"`
	EndDate   string  `json:"endDate"`
	CompanyID string  `json:"companyId"`
}

func (s *Server) listPayRuns(w http.ResponseWriter, r *http.Request) {
	companyID := r.URL.Query().Get("companyId")

	s.mu.Lock()
	defer s.mu.Unlock()
	out := []payroll.PayRun{}
	for _, p := range s.payRuns {
		if companyID == "" || p.CompanyID == companyID {
			out = append(out, s.payRunView(p))
		}
	}
	writeJSON(w, http.StatusOK, map[string]any{"payRuns": out})
}

func (s *Server) getPayRun(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()
	p := s.payRun(chi.URLParam(r, "id"))
	if p == nil {
		writeError(w, http.StatusNotFound, "Cycle de paie non trouvé")
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"payRun": s.payRunView(p)})
}

func (s *Server) createPayRun(w http.ResponseWriter, r *http.Request) {
	var body payRunBody
	if err := decode(r, &body); err != nil {
		writeError(w, http.StatusBadRequest, "Données invalides")
		return
	}
	start, errStart := parseDay(body.StartDate)
	end, errEnd := parseDay(body.EndDate)
	if errStart != nil || errEnd != nil || start.After(end) {
		writeError(w, http.StatusBadRequest, "Période invalide")
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	now := s.now()
	p := &payroll.PayRun{
		ID:        s.nextID("pr"),
		Name:      body.Name,
		StartDate: start,
		EndDate:   end,
		Status:    payroll.PayRunDraft,
		CompanyID: body.CompanyID,
		CreatedAt: now,
		UpdatedAt: now,
	}
	s.payRuns = append(s.payRuns, p)
	writeJSON(w, http.StatusCreated, map[string]any{"payRun": s.payRunView(p)})
}

func (s *Server) updatePayRun(w http.ResponseWriter, r *http.Request) {
	var body payRunBody
	if err := decode(r, &body); err != nil {
		writeError(w, http.StatusBadRequest, "Données invalides")
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	p := s.payRun(chi.URLParam(r, "id"))
	if p == nil {
		writeError(w, http.StatusNotFound, "Cycle de paie non trouvé")
		return
	}
	if p.Status != payroll.PayRunDraft {
		writeError(w, http.StatusConflict, "Seuls les cycles en brouillon peuvent être modifiés")
		return
	}
	if d, err := parseDay(body.StartDate); err == nil {
		p.StartDate = d
	}
	if d, err := parseDay(body.EndDate); err == nil {
		p.EndDate = d
	}
	if body.Name != nil {
		p.Name = body.Name
	}
	p.UpdatedAt = s.now()
	writeJSON(w, http.StatusOK, map[string]any{"payRun": s.payRunView(p)})
}

func (s *Server) deletePayRun(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	s.mu.Lock()
	defer s.mu.Unlock()
	for i, p := range s.payRuns {
		if p.ID != id {
			continue
		}
		if p.Status != payroll.PayRunDraft {
			writeError(w, http.StatusConflict, "Seuls les cycles en brouillon peuvent être supprimés")
			return
		}
		s.payRuns = append(s.payRuns[:i], s.payRuns[i+1:]...)
		writeJSON(w, http.StatusOK, map[string]string{"message": "Cycle supprimé"})
		return
	}
	writeError(w, http.StatusNotFound, "Cycle de paie non trouvé")
}

// generatePayslips issues one payslip per active employee: the monthly rate for
// FIXE, rate x present days for JOURNALIER and rate x hours for HONORAIRE.
func (s *Server) generatePayslips(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()
	p := s.payRun(chi.URLParam(r, "id"))
	if p == nil {
		writeError(w, http.StatusNotFound, "Cycle de paie non trouvé")
		return
	}
	if p.Status != payroll.PayRunDraft {
		writeError(w, http.StatusConflict, "Le cycle n'est plus en brouillon")
		return
	}

	count := 0
	for _, e := range s.employees {
		if e.CompanyID != p.CompanyID || !e.IsActive {
			continue
		}
		gross := s.grossFor(e, p.ID)
		s.payslips = append(s.payslips, &payroll.Payslip{
			ID:         s.nextID("ps"),
			PayRunID:   p.ID,
			EmployeeID: e.ID,
			Gross:      gross,
			Deductions: decimal.Zero,
			Net:        gross,
			Status:     payroll.PayslipPending,
			CreatedAt:  s.now(),
		})
		count++
	}
	writeJSON(w, http.StatusOK, map[string]any{"count": count})
}

func (s *Server) grossFor(e *employee.Employee, payRunID string) decimal.Decimal {
	switch e.ContractType {
	case employee.ContractDaily:
		days := 0
		for _, a := range s.attendances {
			if a.EmployeeID == e.ID && a.PayRunID == payRunID && a.Type == attendance.TypePresent {
				days++
			}
		}
		return e.Rate.Mul(decimal.NewFromInt(int64(days)))
	case employee.ContractHonorarium:
		hours := 0.0
		for _, a := range s.attendances {
			if a.EmployeeID == e.ID && a.PayRunID == payRunID && a.Hours != nil {
				hours += *a.Hours
			}
		}
		return e.Rate.Mul(decimal.NewFromFloat(hours))
	}
	return e.Rate
}

func (s *Server) approvePayRun(w http.ResponseWriter, r *http.Request) {
	s.transition(w, r, payroll.PayRunDraft, payroll.PayRunApproved)
}

func (s *Server) closePayRun(w http.ResponseWriter, r *http.Request) {
	s.transition(w, r, payroll.PayRunApproved, payroll.PayRunClosed)
}

func (s *Server) transition(w http.ResponseWriter, r *http.Request, from, to payroll.PayRunStatus) {
	s.mu.Lock()
	defer s.mu.Unlock()
	p := s.payRun(chi.URLParam(r, "id"))
	if p == nil {
		writeError(w, http.StatusNotFound, "Cycle de paie non trouvé")
		return
	}
	if p.Status != from {
		writeError(w, http.StatusConflict, "Transition de statut invalide")
		return
	}
	p.Status = to
	p.UpdatedAt = s.now()
	writeJSON(w, http.StatusOK, map[string]any{"payRun": s.payRunView(p)})
}

type paymentBody struct {
	PayslipID string                 `json:"payslipId"`
	Amount    *float64               `json:"amount"`
	Method    *payroll.PaymentMethod `json:"method"`
	Reference *string                `json:"reference"`
}

func (s *Server) listPayments(w http.ResponseWriter, r *http.Request) {
	companyID := r.URL.Query().Get("companyId")

	s.mu.Lock()
	defer s.mu.Unlock()
	out := []payroll.Payment{}
	for _, p := range s.payments {
		if companyID == "" || s.paymentCompany(p) == companyID {
			out = append(out, s.paymentView(p))
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	writeJSON(w, http.StatusOK, map[string]any{"payments": out})
}

func (s *Server) getPayment(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()
	p := s.payment(chi.URLParam(r, "id"))
	if p == nil {
		writeError(w, http.StatusNotFound, "Paiement non trouvé")
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"payment": s.paymentView(p)})
}

func (s *Server) createPayment(w http.ResponseWriter, r *http.Request) {
	var body paymentBody
	if err := decode(r, &body); err != nil || body.Amount == nil || *body.Amount <= 0 {
		writeError(w, http.StatusBadRequest, "Montant invalide")
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.payslip(body.PayslipID) == nil {
		writeError(w, http.StatusNotFound, "Bulletin non trouvé")
		return
	}
	method := payroll.MethodCash
	if body.Method != nil {
		method = *body.Method
	}
	p := &payroll.Payment{
		ID:        s.nextID("pay"),
		PayslipID: body.PayslipID,
		Amount:    decimal.NewFromFloat(*body.Amount),
		Method:    method,
		Reference: body.Reference,
		CreatedAt: s.now(),
	}
	s.payments = append(s.payments, p)
	s.foldPayslipStatus(p.PayslipID)
	writeJSON(w, http.StatusCreated, map[string]any{"payment": s.paymentView(p)})
}

func (s *Server) updatePayment(w http.ResponseWriter, r *http.Request) {
	var body paymentBody
	if err := decode(r, &body); err != nil {
		writeError(w, http.StatusBadRequest, "Données invalides")
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	p := s.payment(chi.URLParam(r, "id"))
	if p == nil {
		writeError(w, http.StatusNotFound, "Paiement non trouvé")
		return
	}
	if body.Amount != nil {
		p.Amount = decimal.NewFromFloat(*body.Amount)
	}
	if body.Method != nil {
		p.Method = *body.Method
	}
	if body.Reference != nil {
		p.Reference = body.Reference
	}
	s.foldPayslipStatus(p.PayslipID)
	writeJSON(w, http.StatusOK, map[string]any{"payment": s.paymentView(p)})
}

func (s *Server) deletePayment(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	s.mu.Lock()
	defer s.mu.Unlock()
	for i, p := range s.payments {
		if p.ID == id {
			s.payments = append(s.payments[:i], s.payments[i+1:]...)
			s.foldPayslipStatus(p.PayslipID)
			writeJSON(w, http.StatusOK, map[string]string{"message": "Paiement supprimé"})
			return
		}
	}
	writeError(w, http.StatusNotFound, "Paiement non trouvé")
}

func (s *Server) paymentStats(w http.ResponseWriter, r *http.Request) {
	companyID := r.URL.Query().Get("companyId")

	s.mu.Lock()
	defer s.mu.Unlock()
	stats := payroll.PaymentStats{TotalAmount: decimal.Zero}
	byMonth := map[string]decimal.Decimal{}
	var months []string
	for _, p := range s.payments {
		if companyID != "" && s.paymentCompany(p) != companyID {
			continue
		}
		stats.TotalAmount = stats.TotalAmount.Add(p.Amount)
		key := p.CreatedAt.Format("2006-01")
		if _, seen := byMonth[key]; !seen {
			months = append(months, key)
		}
		byMonth[key] = byMonth[key].Add(p.Amount)
	}
	sort.Strings(months)
	for _, m := range months {
		stats.MonthlyPayments = append(stats.MonthlyPayments, payroll.MonthlyAmount{Month: m, Amount: byMonth[m]})
	}
	writeJSON(w, http.StatusOK, map[string]any{"stats": stats})
}
