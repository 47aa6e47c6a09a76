package backendtest

import (
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/paydesk/payroll-console/internal/domain/user"
)

// currentUser resolves the bearer token issued by login; s.mu must be held.
func (s *Server) currentUser(r *http.Request) *user.User {
	token := strings.TrimPrefix(r.Header.Get("Authorization"), "Bearer ")
	id, ok := s.tokens[token]
	if !ok {
		return nil
	}
	for _, a := range s.accounts {
		if a.user.ID == id {
			u := a.user
			return &u
		}
	}
	return nil
}

func (s *Server) login(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if err := decode(r, &body); err != nil {
		writeError(w, http.StatusBadRequest, "Requête invalide")
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	for _, a := range s.accounts {
		if a.user.Email == body.Email && a.password == body.Password {
			token := "tok-" + a.user.ID
			s.tokens[token] = a.user.ID
			writeJSON(w, http.StatusOK, map[string]any{"token": token, "user": a.user})
			return
		}
	}
	writeError(w, http.StatusUnauthorized, "Identifiants invalides")
}

func (s *Server) profile(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()
	u := s.currentUser(r)
	if u == nil {
		writeError(w, http.StatusUnauthorized, "Token invalide")
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"user": u})
}

func (s *Server) listUsers(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()
	users := make([]user.User, 0, len(s.accounts))
	for _, a := range s.accounts {
		users = append(users, a.user)
	}
	writeJSON(w, http.StatusOK, map[string]any{"users": users})
}

func (s *Server) createUser(w http.ResponseWriter, r *http.Request) {
	var req user.CreateUserRequest
	if err := decode(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "Requête invalide")
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	for _, a := range s.accounts {
		if a.user.Email == req.Email {
			writeError(w, http.StatusConflict, "Email déjà utilisé")
			return
		}
	}
	u := user.User{
		ID:        s.nextID("usr"),
		Email:     req.Email,
		Name:      req.Name,
		Role:      req.Role,
		CompanyID: req.CompanyID,
		CreatedAt: s.now(),
	}
	s.accounts = append(s.accounts, &account{user: u, password: req.Password})
	writeJSON(w, http.StatusCreated, map[string]any{"user": u})
}

func (s *Server) deleteUser(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	s.mu.Lock()
	defer s.mu.Unlock()
	for i, a := range s.accounts {
		if a.user.ID == id {
			s.accounts = append(s.accounts[:i], s.accounts[i+1:]...)
			writeJSON(w, http.StatusOK, map[string]string{"message": "Utilisateur supprimé"})
			return
		}
	}
	writeError(w, http.StatusNotFound, "Utilisateur non trouvé")
}
