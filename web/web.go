// Package web содержит клиентскую часть: страницу ввода URL, стили и скрипт,
// который показывает переписанную страницу в изолированном iframe.
package web

import (
	"embed"
	"io/fs"
)

//go:embed static
var static embed.FS

// Static возвращает встроенные статические файлы с корнем в каталоге static.
func Static() fs.FS {
	sub, err := fs.Sub(static, "static")
	if err != nil {
		panic(err)
	}
	return sub
}
