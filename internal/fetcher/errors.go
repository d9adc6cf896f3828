package fetcher

import (
	"context"
	"errors"
	"fmt"
	"net"
)

// FetchError описывает неудачную попытку загрузить удалённую страницу:
// сетевую ошибку, ошибку DNS, таймаут или ответ с не-2xx статусом.
type FetchError struct {
	URL        string
	StatusCode int
	Err        error
}

func (e *FetchError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("request failed with status code %d", e.StatusCode)
	}
	if e.Timeout() {
		return fmt.Sprintf("timeout fetching %s: %v", e.URL, e.Err)
	}
	return e.Err.Error()
}

func (e *FetchError) Unwrap() error {
	return e.Err
}

// Timeout сообщает, что запрос был прерван по таймауту.
func (e *FetchError) Timeout() bool {
	if e.Err == nil {
		return false
	}
	if errors.Is(e.Err, context.DeadlineExceeded) {
		return true
	}
	var netErr net.Error
	return errors.As(e.Err, &netErr) && netErr.Timeout()
}

// IsFetchError проверяет, что ошибка является FetchError.
func IsFetchError(err error) bool {
	var fe *FetchError
	return errors.As(err, &fe)
}
