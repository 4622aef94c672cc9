package helpers

import (
	"encoding/json"
	"net/http"

	"bookshelf/internal/apperrors"
)

type ErrorResponse struct {
	Status  bool   `json:"status"`
	Message string `json:"message"`
}

const internalErrorMessage = "Something went wrong"

func JSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	err := json.NewEncoder(w).Encode(payload)
	if err != nil {
		return
	}
}

func Error(w http.ResponseWriter, status int, errMsg string) {
	JSON(w, status, ErrorResponse{Status: false, Message: errMsg})
}

// WriteError рендерит ошибку сервиса в общий конверт {status:false, message}.
// Детали внутренних ошибок наружу не отдаются.
func WriteError(w http.ResponseWriter, err error) {
	ae, ok := apperrors.As(err)
	if !ok || ae.Status >= http.StatusInternalServerError {
		Error(w, apperrors.StatusOf(err), internalErrorMessage)
		return
	}
	Error(w, ae.Status, ae.Message)
}
