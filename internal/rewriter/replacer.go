package rewriter

import (
	"strings"
	"unicode"
	"unicode/utf8"
)

// Pair описывает одну литеральную замену.
type Pair struct {
	Match   string
	Replace string
}

// Replacer выполняет регистрозависимую замену одного слова другим.
// Поддерживаются ровно три варианта написания: строчный, прописной и
// с заглавной буквы. Смешанный регистр ("yAlE") не заменяется.
type Replacer struct {
	pairs []Pair
}

// NewReplacer строит упорядоченный список замен для пары from -> to.
func NewReplacer(from, to string) *Replacer {
	r := &Replacer{}
	if from == "" {
		return r
	}

	candidates := []Pair{
		{Match: strings.ToLower(from), Replace: strings.ToLower(to)},
		{Match: strings.ToUpper(from), Replace: strings.ToUpper(to)},
		{Match: capitalize(from), Replace: capitalize(to)},
	}

	seen := make(map[string]struct{}, len(candidates))
	for _, p := range candidates {
		if _, ok := seen[p.Match]; ok {
			continue
		}
		seen[p.Match] = struct{}{}
		r.pairs = append(r.pairs, p)
	}
	return r
}

// Pairs возвращает копию списка замен в порядке применения.
func (r *Replacer) Pairs() []Pair {
	out := make([]Pair, len(r.pairs))
	copy(out, r.pairs)
	return out
}

// Replace применяет все замены последовательно.
func (r *Replacer) Replace(s string) string {
	for _, p := range r.pairs {
		if strings.Contains(s, p.Match) {
			s = strings.ReplaceAll(s, p.Match, p.Replace)
		}
	}
	return s
}

func capitalize(s string) string {
	first, size := utf8.DecodeRuneInString(s)
	if size == 0 {
		return s
	}
	return string(unicode.ToUpper(first)) + strings.ToLower(s[size:])
}
