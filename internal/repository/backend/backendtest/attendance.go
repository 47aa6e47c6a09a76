package backendtest

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/paydesk/payroll-console/internal/domain/attendance"
	"github.com/paydesk/payroll-console/internal/domain/payroll"
)

// insertAttendance enforces the (employee, day) uniqueness of the real schema; s.mu must be held.
func (s *Server) insertAttendance(na attendance.NewAttendance) (*attendance.Attendance, int, string) {
	if s.employee(na.EmployeeID) == nil {
		return nil, http.StatusNotFound, "Employé non trouvé"
	}
	pr := s.payRun(na.PayRunID)
	if pr == nil {
		return nil, http.StatusNotFound, "Cycle de paie non trouvé"
	}
	if pr.Status == payroll.PayRunClosed {
		return nil, http.StatusBadRequest, "Le cycle de paie est clôturé"
	}
	day, err := parseDay(na.Date)
	if err != nil {
		return nil, http.StatusBadRequest, "Date invalide"
	}
	key := attendance.NewKey(na.EmployeeID, day)
	for _, a := range s.attendances {
		if a.Key() == key {
			return nil, http.StatusConflict, "Un pointage existe déjà pour cette date"
		}
	}

	now := s.now()
	a := &attendance.Attendance{
		ID:         s.nextID("att"),
		EmployeeID: na.EmployeeID,
		PayRunID:   na.PayRunID,
		Date:       day.UTC(),
		Type:       na.Type,
		Hours:      na.Hours,
		IsPresent:  na.IsPresent,
		Notes:      na.Notes,
		CreatedAt:  now,
		UpdatedAt:  now,
	}
	s.attendances = append(s.attendances, a)
	return a, http.StatusCreated, ""
}

func (s *Server) attendanceView(a *attendance.Attendance) attendance.Attendance {
	view := *a
	if e := s.employee(a.EmployeeID); e != nil {
		ee := *e
		view.Employee = &ee
	}
	return view
}

func (s *Server) createAttendance(w http.ResponseWriter, r *http.Request) {
	var na attendance.NewAttendance
	if err := decode(r, &na); err != nil {
		writeError(w, http.StatusBadRequest, "Données invalides")
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	a, status, msg := s.insertAttendance(na)
	if a == nil {
		writeError(w, status, msg)
		return
	}
	writeJSON(w, status, map[string]any{"attendance": s.attendanceView(a)})
}

// bulkAttendances is all-or-nothing: one duplicate rejects the whole batch.
func (s *Server) bulkAttendances(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Attendances []attendance.NewAttendance `json:"attendances"`
	}
	if err := decode(r, &body); err != nil {
		writeError(w, http.StatusBadRequest, "Données invalides")
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	snapshot := append([]*attendance.Attendance(nil), s.attendances...)
	for _, na := range body.Attendances {
		if a, status, msg := s.insertAttendance(na); a == nil {
			s.attendances = snapshot
			writeError(w, status, msg)
			return
		}
	}
	writeJSON(w, http.StatusCreated, map[string]any{"count": len(body.Attendances)})
}

func (s *Server) attendancesByPayRun(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	s.mu.Lock()
	defer s.mu.Unlock()
	out := []attendance.Attendance{}
	for _, a := range s.attendances {
		if a.PayRunID == id {
			out = append(out, s.attendanceView(a))
		}
	}
	writeJSON(w, http.StatusOK, map[string]any{"attendances": out})
}

func (s *Server) attendancesByEmployee(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	payRunID := r.URL.Query().Get("payRunId")

	s.mu.Lock()
	defer s.mu.Unlock()
	out := []attendance.Attendance{}
	for _, a := range s.attendances {
		if a.EmployeeID == id && (payRunID == "" || a.PayRunID == payRunID) {
			out = append(out, s.attendanceView(a))
		}
	}
	writeJSON(w, http.StatusOK, map[string]any{"attendances": out})
}

func (s *Server) attendanceStats(w http.ResponseWriter, r *http.Request) {
	employeeID := chi.URLParam(r, "employeeID")
	payRunID := chi.URLParam(r, "payRunID")

	s.mu.Lock()
	defer s.mu.Unlock()
	var stats attendance.EmployeeStats
	for _, a := range s.attendances {
		if a.EmployeeID != employeeID || a.PayRunID != payRunID {
			continue
		}
		stats.TotalDays++
		switch a.Type {
		case attendance.TypePresent:
			stats.PresentDays++
		case attendance.TypeExcusedAbsence:
			stats.ExcusedAbsences++
		case attendance.TypeUnexcusedAbsence:
			stats.UnexcusedAbsences++
		case attendance.TypeLeave:
			stats.LeaveDays++
		case attendance.TypeSick:
			stats.SickDays++
		}
		if a.Hours != nil {
			stats.TotalHours += *a.Hours
		}
	}
	writeJSON(w, http.StatusOK, map[string]any{"stats": stats})
}

func (s *Server) getAttendance(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()
	a := s.attendance(chi.URLParam(r, "id"))
	if a == nil {
		writeError(w, http.StatusNotFound, "Pointage non trouvé")
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"attendance": s.attendanceView(a)})
}

func (s *Server) updateAttendance(w http.ResponseWriter, r *http.Request) {
	var p attendance.Patch
	if err := decode(r, &p); err != nil {
		writeError(w, http.StatusBadRequest, "Données invalides")
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	a := s.attendance(chi.URLParam(r, "id"))
	if a == nil {
		writeError(w, http.StatusNotFound, "Pointage non trouvé")
		return
	}
	a.Type = p.Type
	a.Hours = p.Hours
	a.IsPresent = p.IsPresent
	a.Notes = p.Notes
	a.UpdatedAt = s.now()
	writeJSON(w, http.StatusOK, map[string]any{"attendance": s.attendanceView(a)})
}

func (s *Server) deleteAttendance(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	s.mu.Lock()
	defer s.mu.Unlock()
	for i, a := range s.attendances {
		if a.ID == id {
			s.attendances = append(s.attendances[:i], s.attendances[i+1:]...)
			writeJSON(w, http.StatusOK, map[string]string{"message": "Pointage supprimé"})
			return
		}
	}
	writeError(w, http.StatusNotFound, "Pointage non trouvé")
}

func (s *Server) markAutomatic(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()
	writeJSON(w, http.StatusOK, s.markAbsences(chi.URLParam(r, "id"), s.now()))
}

func (s *Server) markForDate(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Date string `json:"date"`
	}
	if err := decode(r, &body); err != nil {
		writeError(w, http.StatusBadRequest, "Données invalides")
		return
	}
	day, err := parseDay(body.Date)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Date invalide")
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	writeJSON(w, http.StatusOK, s.markAbsences(chi.URLParam(r, "id"), day))
}

// markAbsences writes an unexcused absence for every daily or hourly employee
// without a record on day, inside open cycles covering day.
func (s *Server) markAbsences(companyID string, day time.Time) attendance.AbsenceRun {
	run := attendance.AbsenceRun{Date: attendance.DayString(day)}
	if !attendance.IsWorkingDay(day) {
		run.Message = "Jour non ouvré"
		return run
	}
	for _, pr := range s.payRuns {
		if pr.CompanyID != companyID || pr.Status == payroll.PayRunClosed || !pr.Covers(day) {
			continue
		}
		for _, e := range s.employees {
			if e.CompanyID != companyID || !e.IsActive || !e.ContractType.TracksDailyAttendance() {
				continue
			}
			a, _, _ := s.insertAttendance(attendance.NewAttendance{
				EmployeeID: e.ID,
				PayRunID:   pr.ID,
				Date:       run.Date,
				Type:       attendance.TypeUnexcusedAbsence,
				Notes:      ptr("Absence automatique"),
			})
			if a == nil {
				run.Skipped++
				continue
			}
			run.Marked++
		}
	}
	return run
}

func (s *Server) absenceStatistics(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	s.mu.Lock()
	defer s.mu.Unlock()
	stats := attendance.AbsenceStatistics{PayRunID: id, ByType: map[attendance.Type]int{}}
	for _, a := range s.attendances {
		if a.PayRunID != id || a.IsPresent {
			continue
		}
		stats.TotalAbsences++
		stats.ByType[a.Type]++
		if a.Notes != nil && *a.Notes == "Absence automatique" {
			stats.AutomaticAbsences++
		}
	}
	writeJSON(w, http.StatusOK, map[string]any{"statistics": stats})
}
