package handler

import (
	"net/http"

	"github.com/mmeshcher/loanbook/internal/model"
	"github.com/mmeshcher/loanbook/internal/service"
)

type registerRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type userResponse struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
	Role  string `json:"role"`
	Token string `json:"token,omitempty"`
}

func newUserResponse(u *model.User) userResponse {
	return userResponse{
		ID:    u.ID.String(),
		Name:  u.Name,
		Email: u.Email,
		Role:  string(u.Role),
	}
}

// Register обрабатывает регистрацию нового пользователя и выдаёт ему токен.
func (h *Handler) Register(w http.ResponseWriter, r *http.Request) {
	var req registerRequest
	if err := decodeJSON(r, &req, false); err != nil {
		h.fail(w, http.StatusBadRequest, "invalid request body")
		return
	}

	u, err := h.service.RegisterUser(r.Context(), service.RegisterInput{
		Name:     req.Name,
		Email:    req.Email,
		Password: req.Password,
	})
	if err != nil {
		h.writeError(w, r, "register user", err)
		return
	}

	h.respondWithToken(w, r, http.StatusCreated, "User registered successfully", u)
}

// Login выполняет аутентификацию пользователя по почте и паролю.
func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := decodeJSON(r, &req, false); err != nil {
		h.fail(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if req.Email == "" || req.Password == "" {
		h.fail(w, http.StatusBadRequest, "email and password are required")
		return
	}

	u, err := h.service.AuthenticateUser(r.Context(), req.Email, req.Password)
	if err != nil {
		h.writeError(w, r, "login user", err)
		return
	}

	h.respondWithToken(w, r, http.StatusOK, "Login successful", u)
}

func (h *Handler) respondWithToken(w http.ResponseWriter, r *http.Request, status int, msg string, u *model.User) {
	token, err := h.authMiddleware.IssueToken(u.ID, u.Role)
	if err != nil {
		h.writeError(w, r, "issue token", err)
		return
	}

	resp := newUserResponse(u)
	resp.Token = token
	h.success(w, status, msg, resp)
}

// Me возвращает текущего пользователя.
func (h *Handler) Me(w http.ResponseWriter, r *http.Request) {
	ident, ok := h.identity(w, r)
	if !ok {
		return
	}

	u, err := h.service.GetUser(r.Context(), ident.UserID)
	if err != nil {
		h.writeError(w, r, "get user", err)
		return
	}

	h.success(w, http.StatusOK, "User retrieved successfully", newUserResponse(u))
}
