// Package fetcher загружает HTML удалённых страниц.
package fetcher

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"time"

	"go.uber.org/zap"
	"golang.org/x/net/html/charset"

	"github.com/Totarae/FaleProxy/internal/model"
)

const (
	acceptHeader = "text/html,application/xhtml+xml,application/xml;q=0.9,*/*;q=0.8"

	// DefaultMaxBodyBytes ограничивает размер читаемого тела ответа (5 МБ).
	DefaultMaxBodyBytes int64 = 5 * 1024 * 1024
)

// Options настраивает HTTPFetcher.
type Options struct {
	Timeout      time.Duration
	MaxBodyBytes int64
	UserAgent    string
	Transport    http.RoundTripper
}

// HTTPFetcher выполняет единственный GET-запрос без повторов.
type HTTPFetcher struct {
	client       *http.Client
	maxBodyBytes int64
	userAgent    string
	logger       *zap.Logger
}

// New создаёт HTTPFetcher. Нулевой Timeout отключает таймаут клиента,
// при этом контекст запроса продолжает действовать.
func New(opts Options, logger *zap.Logger) *HTTPFetcher {
	if logger == nil {
		logger = zap.NewNop()
	}
	if opts.MaxBodyBytes <= 0 {
		opts.MaxBodyBytes = DefaultMaxBodyBytes
	}

	transport := opts.Transport
	if transport == nil {
		transport = &http.Transport{
			Proxy: http.ProxyFromEnvironment,
			DialContext: (&net.Dialer{
				Timeout:   5 * time.Second,
				KeepAlive: 30 * time.Second,
			}).DialContext,
			MaxIdleConns:        100,
			IdleConnTimeout:     90 * time.Second,
			TLSHandshakeTimeout: 10 * time.Second,
		}
	}

	return &HTTPFetcher{
		client: &http.Client{
			Transport: transport,
			Timeout:   opts.Timeout,
		},
		maxBodyBytes: opts.MaxBodyBytes,
		userAgent:    opts.UserAgent,
		logger:       logger,
	}
}

// Fetch загружает страницу по rawURL. Тело декодируется в UTF-8,
// тип содержимого на обработку не влияет.
func (f *HTTPFetcher) Fetch(ctx context.Context, rawURL string) (model.FetchResult, error) {
	start := time.Now()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return model.FetchResult{}, &FetchError{URL: rawURL, Err: err}
	}
	req.Header.Set("Accept", acceptHeader)
	if f.userAgent != "" {
		req.Header.Set("User-Agent", f.userAgent)
	}

	resp, err := f.client.Do(req)
	if err != nil {
		return model.FetchResult{}, &FetchError{URL: rawURL, Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return model.FetchResult{}, &FetchError{
			URL:        rawURL,
			StatusCode: resp.StatusCode,
			Err:        fmt.Errorf("unexpected status %s", resp.Status),
		}
	}

	contentType := resp.Header.Get("Content-Type")
	body, err := readBody(io.LimitReader(resp.Body, f.maxBodyBytes), contentType)
	if err != nil {
		return model.FetchResult{}, &FetchError{URL: rawURL, Err: fmt.Errorf("read body: %w", err)}
	}

	f.logger.Debug("page fetched",
		zap.String("url", rawURL),
		zap.Int("status", resp.StatusCode),
		zap.Int("bytes", len(body)),
		zap.Duration("duration", time.Since(start)),
	)

	return model.FetchResult{
		Body:        body,
		ContentType: contentType,
		FinalURL:    resp.Request.URL.String(),
		StatusCode:  resp.StatusCode,
	}, nil
}

func readBody(r io.Reader, contentType string) (string, error) {
	utf8Reader, err := charset.NewReader(r, contentType)
	if errors.Is(err, io.EOF) {
		// пустое тело
		return "", nil
	}
	if err != nil {
		return "", err
	}
	data, err := io.ReadAll(utf8Reader)
	if err != nil {
		return "", err
	}
	return string(data), nil
}
