package service

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/Totarae/FaleProxy/internal/model"
)

// ErrURLRequired возвращается, если URL не передан или пуст.
var ErrURLRequired = errors.New("URL is required")

// ValidationError описывает ошибку клиента: запрос не прошёл проверку.
type ValidationError struct {
	Err error
}

func (e *ValidationError) Error() string {
	return e.Err.Error()
}

func (e *ValidationError) Unwrap() error {
	return e.Err
}

// IsValidation проверяет, что ошибка является ValidationError.
func IsValidation(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}

// Fetcher загружает удалённую страницу.
type Fetcher interface {
	Fetch(ctx context.Context, url string) (model.FetchResult, error)
}

// Rewriter переписывает HTML.
type Rewriter interface {
	Rewrite(html string) (model.RewriteResult, error)
}

// ProxyService связывает загрузку страницы и замену текста.
type ProxyService struct {
	Fetcher  Fetcher
	Rewriter Rewriter
	Logger   *zap.Logger
}

func NewProxyService(fetcher Fetcher, rewriter Rewriter, logger *zap.Logger) *ProxyService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ProxyService{
		Fetcher:  fetcher,
		Rewriter: rewriter,
		Logger:   logger,
	}
}

var schemeRe = regexp.MustCompile(`(?i)^(https?|ftp)://`)

// NormalizeURL обрезает пробелы и добавляет http://, если схема не указана.
func NormalizeURL(raw string) (string, error) {
	u := strings.TrimSpace(raw)
	if u == "" {
		return "", &ValidationError{Err: ErrURLRequired}
	}
	if !schemeRe.MatchString(u) {
		u = "http://" + u
	}
	return u, nil
}

// Process загружает страницу по rawURL и заменяет в ней текст.
// Частичного результата не бывает: либо полный ответ, либо ошибка.
func (s *ProxyService) Process(ctx context.Context, rawURL string) (model.RewriteResult, error) {
	target, err := NormalizeURL(rawURL)
	if err != nil {
		return model.RewriteResult{}, err
	}

	start := time.Now()
	page, err := s.Fetcher.Fetch(ctx, target)
	if err != nil {
		s.Logger.Debug("fetch failed", zap.String("url", target), zap.Error(err))
		return model.RewriteResult{}, err
	}

	res, err := s.Rewriter.Rewrite(page.Body)
	if err != nil {
		return model.RewriteResult{}, fmt.Errorf("rewrite page: %w", err)
	}

	s.Logger.Debug("page rewritten",
		zap.String("url", target),
		zap.String("final_url", page.FinalURL),
		zap.String("title", res.Title),
		zap.Int("bytes", len(res.Content)),
		zap.Duration("duration", time.Since(start)),
	)
	return res, nil
}
