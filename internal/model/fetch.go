package model

// FetchRequest представляет тело запроса POST /fetch.
type FetchRequest struct {
	URL string `json:"url" form:"url"`
}

// FetchResponse представляет успешный ответ с переписанной страницей.
type FetchResponse struct {
	Success     bool   `json:"success"`
	Content     string `json:"content"`
	Title       string `json:"title"`
	OriginalURL string `json:"originalUrl"`
}

// ErrorResponse представляет ответ с ошибкой.
type ErrorResponse struct {
	Error string `json:"error"`
}
