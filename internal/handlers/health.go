package handlers

import (
	"context"
	"net/http"
	"time"

	"bookshelf/internal/logger"
	"bookshelf/internal/utils/helpers"

	"go.uber.org/zap"
)

type HealthHandler struct {
	ping func(ctx context.Context) error
}

// NewHealthHandler — ping проверяет хранилище; nil значит «проверять нечего».
func NewHealthHandler(ping func(ctx context.Context) error) *HealthHandler {
	return &HealthHandler{ping: ping}
}

type healthResponse struct {
	Status string `json:"status"`
}

// Health godoc
// @Summary Проверка живости
// @Tags system
// @Produce json
// @Success 200 {object} healthResponse
// @Failure 503 {object} healthResponse
// @Router /health [get]
func (h *HealthHandler) Health(w http.ResponseWriter, r *http.Request) {
	if h.ping != nil {
		ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		defer cancel()
		if err := h.ping(ctx); err != nil {
			logger.Log.Error("Хранилище недоступно", zap.Error(err))
			helpers.JSON(w, http.StatusServiceUnavailable, healthResponse{Status: "unavailable"})
			return
		}
	}
	helpers.JSON(w, http.StatusOK, healthResponse{Status: "ok"})
}
