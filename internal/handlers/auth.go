package handlers

import (
	"net/http"

	"bookshelf/internal/apperrors"
	"bookshelf/internal/logger"
	"bookshelf/internal/models"
	"bookshelf/internal/reqctx"
	"bookshelf/internal/services"
	"bookshelf/internal/utils/helpers"

	"github.com/gorilla/mux"
	"go.uber.org/zap"
)

type AuthHandler struct {
	authService *services.AuthService
}

func NewAuthHandler(authService *services.AuthService) *AuthHandler {
	return &AuthHandler{authService: authService}
}

type signupRequest struct {
	Email     string `json:"email" validate:"required,email,max=254"`
	Password  string `json:"password" validate:"required"`
	FirstName string `json:"firstName" validate:"max=100"`
	LastName  string `json:"lastName" validate:"max=100"`
}

type loginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type forgotPasswordRequest struct {
	Email string `json:"email" validate:"required,email"`
}

type resetPasswordRequest struct {
	Email       string `json:"email" validate:"required,email"`
	OldPassword string `json:"oldPassword"`
	NewPassword string `json:"newPassword" validate:"required"`
}

type userResponse struct {
	Data    *models.User `json:"data"`
	Message string       `json:"message"`
	Status  bool         `json:"status"`
}

type loginResponse struct {
	Data    *models.User       `json:"data"`
	Access  services.TokenData `json:"access"`
	Message string             `json:"message"`
	Status  bool               `json:"status"`
}

type messageResponse struct {
	Data    any    `json:"data"`
	Message string `json:"message"`
}

// Signup godoc
// @Summary Регистрация
// @Tags auth
// @Accept json
// @Produce json
// @Param input body signupRequest true "Данные регистрации"
// @Success 201 {object} userResponse
// @Failure 400 {object} helpers.ErrorResponse
// @Failure 409 {object} helpers.ErrorResponse
// @Router /signup [post]
func (h *AuthHandler) Signup(w http.ResponseWriter, r *http.Request) {
	var req signupRequest
	if appErr := decodeJSON(w, r, &req); appErr != nil {
		logger.WithCtx(r.Context()).Warn("Невалидный запрос в Signup", zap.String("reason", appErr.Message))
		helpers.WriteError(w, appErr)
		return
	}

	user, err := h.authService.Signup(r.Context(), services.SignupInput{
		Email:     req.Email,
		Password:  req.Password,
		FirstName: req.FirstName,
		LastName:  req.LastName,
	})
	if err != nil {
		helpers.WriteError(w, err)
		return
	}

	helpers.JSON(w, http.StatusCreated, userResponse{Data: user, Message: "Signup success", Status: true})
}

// Login godoc
// @Summary Вход
// @Tags auth
// @Accept json
// @Produce json
// @Param input body loginRequest true "Email и пароль"
// @Success 200 {object} loginResponse
// @Failure 400 {object} helpers.ErrorResponse
// @Failure 401 {object} helpers.ErrorResponse
// @Router /login [post]
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if appErr := decodeJSON(w, r, &req); appErr != nil {
		helpers.WriteError(w, appErr)
		return
	}

	res, err := h.authService.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		helpers.WriteError(w, err)
		return
	}

	w.Header().Set("Set-Cookie", res.Cookie)
	helpers.JSON(w, http.StatusOK, loginResponse{
		Data:    res.User,
		Access:  res.TokenData,
		Message: "Login success",
		Status:  true,
	})
}

// Logout godoc
// @Summary Выход
// @Tags auth
// @Produce json
// @Security ApiKeyAuth
// @Success 200 {object} messageResponse
// @Failure 401 {object} helpers.ErrorResponse
// @Failure 409 {object} helpers.ErrorResponse
// @Router /logout [post]
func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	user, ok := reqctx.GetUser(r.Context())
	if !ok {
		helpers.WriteError(w, apperrors.NewUnauthorized("Authentication token missing"))
		return
	}

	out, err := h.authService.Logout(r.Context(), user)
	if err != nil {
		helpers.WriteError(w, err)
		return
	}

	w.Header().Set("Set-Cookie", h.authService.Tokens().ClearCookie())
	helpers.JSON(w, http.StatusOK, messageResponse{Data: out, Message: "logout"})
}

// ForgotPassword godoc
// @Summary Запрос сброса пароля
// @Description Ответ одинаковый, есть такой email или нет. Ссылка со сбросом уходит письмом.
// @Tags auth
// @Accept json
// @Produce json
// @Param input body forgotPasswordRequest true "Email"
// @Success 200 {object} messageResponse
// @Failure 400 {object} helpers.ErrorResponse
// @Router /forgot-password [post]
func (h *AuthHandler) ForgotPassword(w http.ResponseWriter, r *http.Request) {
	var req forgotPasswordRequest
	if appErr := decodeJSON(w, r, &req); appErr != nil {
		helpers.WriteError(w, appErr)
		return
	}

	if err := h.authService.ForgotPassword(r.Context(), req.Email); err != nil {
		helpers.WriteError(w, err)
		return
	}

	helpers.JSON(w, http.StatusOK, messageResponse{Data: "token", Message: "token generated"})
}

// ResetPassword godoc
// @Summary Сброс пароля по токену
// @Tags auth
// @Accept json
// @Produce json
// @Param token path string true "Токен из письма"
// @Param input body resetPasswordRequest true "Email и новый пароль"
// @Success 201 {object} messageResponse
// @Failure 400 {object} helpers.ErrorResponse
// @Failure 409 {object} helpers.ErrorResponse
// @Router /reset-password/{token} [post]
func (h *AuthHandler) ResetPassword(w http.ResponseWriter, r *http.Request) {
	token := mux.Vars(r)["token"]

	var req resetPasswordRequest
	if appErr := decodeJSON(w, r, &req); appErr != nil {
		helpers.WriteError(w, appErr)
		return
	}

	user, err := h.authService.ResetPassword(r.Context(), token, services.ResetPasswordInput{
		Email:       req.Email,
		OldPassword: req.OldPassword,
		NewPassword: req.NewPassword,
	})
	if err != nil {
		helpers.WriteError(w, err)
		return
	}

	helpers.JSON(w, http.StatusCreated, messageResponse{Data: user, Message: "password has been successfully updated"})
}
