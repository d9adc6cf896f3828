package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"mime"
	"net/http"
	"strings"

	"go.uber.org/zap"

	"github.com/Totarae/FaleProxy/internal/model"
	"github.com/Totarae/FaleProxy/internal/service"
)

const (
	// FetchErrorPrefix предшествует исходному сообщению об ошибке в ответе 500.
	FetchErrorPrefix = "Failed to fetch content: "

	maxRequestBody = 1 << 20
)

//go:generate mockgen -source=handlers.go -destination=mocks/mock_processor.go -package=mocks

// Processor загружает страницу и заменяет в ней текст.
type Processor interface {
	Process(ctx context.Context, rawURL string) (model.RewriteResult, error)
}

// Handler обслуживает HTTP-запросы прокси.
type Handler struct {
	Service Processor
	Logger  *zap.Logger
}

// NewHandler создаёт Handler.
func NewHandler(svc Processor, logger *zap.Logger) *Handler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Handler{Service: svc, Logger: logger}
}

// FetchPage обрабатывает POST /fetch: {"url": "..."}.
func (h *Handler) FetchPage(res http.ResponseWriter, req *http.Request) {
	rawURL, err := decodeURL(res, req)
	if err != nil {
		h.Logger.Debug("bad request body", zap.Error(err))
		writeJSON(res, http.StatusBadRequest, model.ErrorResponse{Error: "invalid request body"})
		return
	}

	if strings.TrimSpace(rawURL) == "" {
		writeJSON(res, http.StatusBadRequest, model.ErrorResponse{Error: service.ErrURLRequired.Error()})
		return
	}

	result, err := h.Service.Process(req.Context(), rawURL)
	if err != nil {
		if service.IsValidation(err) {
			writeJSON(res, http.StatusBadRequest, model.ErrorResponse{Error: err.Error()})
			return
		}
		h.Logger.Error("Error fetching URL",
			zap.String("url", rawURL),
			zap.Error(err),
		)
		writeJSON(res, http.StatusInternalServerError, model.ErrorResponse{Error: FetchErrorPrefix + err.Error()})
		return
	}

	writeJSON(res, http.StatusOK, model.FetchResponse{
		Success:     true,
		Content:     result.Content,
		Title:       result.Title,
		OriginalURL: rawURL,
	})
}

// Health отвечает {"status":"ok"}.
func (h *Handler) Health(res http.ResponseWriter, _ *http.Request) {
	writeJSON(res, http.StatusOK, map[string]string{"status": "ok"})
}

// decodeURL достаёт url из JSON или из формы.
// Пустое тело не ошибка: это запрос без url.
func decodeURL(res http.ResponseWriter, req *http.Request) (string, error) {
	req.Body = http.MaxBytesReader(res, req.Body, maxRequestBody)

	mediaType, _, _ := mime.ParseMediaType(req.Header.Get("Content-Type"))
	if mediaType == "application/x-www-form-urlencoded" {
		if err := req.ParseForm(); err != nil {
			return "", err
		}
		return req.PostForm.Get("url"), nil
	}

	var body model.FetchRequest
	if err := json.NewDecoder(req.Body).Decode(&body); err != nil {
		if errors.Is(err, io.EOF) {
			return "", nil
		}
		return "", err
	}
	return body.URL, nil
}

func writeJSON(res http.ResponseWriter, code int, v any) {
	res.Header().Set("Content-Type", "application/json")
	res.WriteHeader(code)
	_ = json.NewEncoder(res).Encode(v)
}
