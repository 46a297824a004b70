package handler

import (
	"net/http"

	"github.com/taskward-dev/taskward/internal/domain"
	"github.com/taskward-dev/taskward/internal/errors"
)

type registerRequest struct {
	Email    string `validate:"required" json:"email"`
	Password string `validate:"required" json:"password"`
	Name     string `json:"name"`
	Surname  string `json:"surname"`
}

type credentials struct {
	Email    string `validate:"required" json:"email"`
	Password string `validate:"required" json:"password"`
}

type forgotPasswordRequest struct {
	Email string `validate:"required" json:"email"`
}

type resetPasswordRequest struct {
	Email          string `validate:"required" json:"email"`
	Password       string `validate:"required" json:"password"`
	PasswordRepeat string `validate:"required" json:"password_repeat"`
}

func (h *Handler) Register(w http.ResponseWriter, r *http.Request) {
	var req registerRequest
	if err := decodeValidate(r.Body, &req); err != nil {
		writeErrorAndStatusCode(w, err)
		return
	}

	user, err := h.accounts.Register(domain.Credentials{Email: req.Email, Password: req.Password}, req.Name, req.Surname)
	if err != nil {
		writeErrorAndStatusCode(w, err)
		return
	}

	writeJSONStatus(w, http.StatusCreated, userResponseFrom(&user))
}

// VerifyEmail consumes the ticket from the link in the verification email.
func (h *Handler) VerifyEmail(w http.ResponseWriter, r *http.Request) {
	email := r.URL.Query().Get("email")
	ticket := r.URL.Query().Get("ticket")
	if email == "" || ticket == "" {
		writeErrorAndStatusCode(w, errors.BadRequest("email and ticket are required"))
		return
	}

	user, err := h.accounts.VerifyEmail(email, ticket)
	if err != nil {
		writeErrorAndStatusCode(w, err)
		return
	}

	writeJSON(w, userResponseFrom(&user))
}

func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	var creds credentials
	if err := decodeValidate(r.Body, &creds); err != nil {
		writeErrorAndStatusCode(w, err)
		return
	}

	accessToken, err := h.auth.Login(domain.Credentials{Email: creds.Email, Password: creds.Password})
	if err != nil {
		writeErrorAndStatusCode(w, err)
		return
	}

	cookie := &http.Cookie{
		Path:     "/",
		Name:     "accessToken",
		Value:    accessToken,
		MaxAge:   int(h.cfg.JwtTTL().Seconds()),
		HttpOnly: true,
		Secure:   h.cfg.Public.SecureCookies,
		SameSite: http.SameSiteLaxMode,
	}
	http.SetCookie(w, cookie)

	writeJSON(w, map[string]string{"token": accessToken})
}

func (h *Handler) Logout(w http.ResponseWriter, r *http.Request) {
	cookie := &http.Cookie{
		Path:     "/",
		Name:     "accessToken",
		Value:    "",
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   h.cfg.Public.SecureCookies,
		SameSite: http.SameSiteLaxMode,
	}
	http.SetCookie(w, cookie)

	w.WriteHeader(http.StatusOK)
}

// ForgotPassword issues a reset ticket and mails the confirmation link.
func (h *Handler) ForgotPassword(w http.ResponseWriter, r *http.Request) {
	var req forgotPasswordRequest
	if err := decodeValidate(r.Body, &req); err != nil {
		writeErrorAndStatusCode(w, err)
		return
	}

	if err := h.accounts.RequestPasswordReset(req.Email); err != nil {
		writeErrorAndStatusCode(w, err)
		return
	}

	w.WriteHeader(http.StatusOK)
	w.Write([]byte("Reset instructions sent"))
}

// ConfirmResetTicket consumes the ticket from the link in the reset email,
// unlocking the final password change.
func (h *Handler) ConfirmResetTicket(w http.ResponseWriter, r *http.Request) {
	email := r.URL.Query().Get("email")
	ticket := r.URL.Query().Get("ticket")
	if email == "" || ticket == "" {
		writeErrorAndStatusCode(w, errors.BadRequest("email and ticket are required"))
		return
	}

	if err := h.accounts.ConfirmResetTicket(email, ticket); err != nil {
		writeErrorAndStatusCode(w, err)
		return
	}

	w.WriteHeader(http.StatusOK)
	w.Write([]byte("Ticket confirmed. You can set a new password now"))
}

func (h *Handler) ResetPassword(w http.ResponseWriter, r *http.Request) {
	var req resetPasswordRequest
	if err := decodeValidate(r.Body, &req); err != nil {
		writeErrorAndStatusCode(w, err)
		return
	}

	if err := h.accounts.CompletePasswordReset(req.Email, req.Password, req.PasswordRepeat); err != nil {
		writeErrorAndStatusCode(w, err)
		return
	}

	w.WriteHeader(http.StatusOK)
	w.Write([]byte("Password changed. You can login now"))
}
