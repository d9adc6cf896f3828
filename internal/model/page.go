package model

// FetchResult хранит результат загрузки удалённой страницы.
// ContentType носит справочный характер: тело всегда обрабатывается как HTML.
type FetchResult struct {
	Body        string
	ContentType string
	FinalURL    string
	StatusCode  int
}

// RewriteResult хранит переписанный HTML и заголовок документа.
type RewriteResult struct {
	Content string
	Title   string
}

// NoTitle возвращается, если в документе нет элемента <title>.
const NoTitle = "No Title"
