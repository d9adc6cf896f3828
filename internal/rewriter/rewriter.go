// Package rewriter заменяет бренд в видимом тексте HTML-документа,
// не трогая адреса ссылок и структуру разметки.
package rewriter

import (
	"fmt"
	"net/url"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"

	"github.com/Totarae/FaleProxy/internal/model"
)

// Policy задаёт, что ещё кроме видимого текста и <title> подлежит замене.
// По умолчанию все флаги выключены.
type Policy struct {
	// Meta включает замену в content у <meta name=...> и <meta property=...>.
	Meta bool
	// DataAttrs включает замену в значениях data-* атрибутов.
	DataAttrs bool
	// Comments включает замену в HTML-комментариях.
	Comments bool
	// Scripts включает замену внутри <script> и <style>.
	Scripts bool
}

// urlAttributes никогда не переписываются, при любой политике.
var urlAttributes = map[string]struct{}{
	"href":       {},
	"src":        {},
	"srcset":     {},
	"action":     {},
	"formaction": {},
	"poster":     {},
	"cite":       {},
	"data":       {},
	"background": {},
	"manifest":   {},
	"xlink:href": {},
}

// Rewriter разбирает HTML, заменяет текст и сериализует документ обратно.
type Rewriter struct {
	replacer *Replacer
	policy   Policy
}

// New создаёт Rewriter.
func New(replacer *Replacer, policy Policy) *Rewriter {
	return &Rewriter{replacer: replacer, policy: policy}
}

// Rewrite выполняет замену и возвращает документ вместе с заголовком.
// Некорректная разметка не является ошибкой: парсер восстанавливает
// дерево так же, как это делает браузер.
func (rw *Rewriter) Rewrite(src string) (model.RewriteResult, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(src))
	if err != nil {
		return model.RewriteResult{}, fmt.Errorf("parse html: %w", err)
	}

	for _, n := range doc.Nodes {
		rw.walk(n, false)
	}

	content, err := doc.Html()
	if err != nil {
		return model.RewriteResult{}, fmt.Errorf("render html: %w", err)
	}

	return model.RewriteResult{
		Content: content,
		Title:   extractTitle(doc),
	}, nil
}

func extractTitle(doc *goquery.Document) string {
	title := doc.Find("title").First()
	if title.Length() == 0 {
		return model.NoTitle
	}
	return title.Text()
}

// walk обходит дерево один раз, поэтому каждый узел меняется не более одного раза,
// даже если <title> оказался внутри <body>.
func (rw *Rewriter) walk(n *html.Node, inBody bool) {
	switch n.Type {
	case html.TextNode:
		if rw.rewritesText(n, inBody) {
			n.Data = rw.replacer.Replace(n.Data)
		}
		return
	case html.CommentNode:
		if rw.policy.Comments {
			n.Data = rw.replacer.Replace(n.Data)
		}
		return
	case html.ElementNode:
		if n.DataAtom == atom.Body {
			inBody = true
		}
		rw.rewriteAttrs(n)
	}

	for c := n.FirstChild; c != nil; c = c.NextSibling {
		rw.walk(c, inBody)
	}
}

func (rw *Rewriter) rewritesText(n *html.Node, inBody bool) bool {
	p := n.Parent
	if p == nil || p.Type != html.ElementNode {
		return inBody
	}
	switch p.DataAtom {
	case atom.Title:
		return true
	case atom.Script, atom.Style:
		return rw.policy.Scripts
	case atom.Noscript, atom.Iframe, atom.Noembed, atom.Noframes, atom.Xmp, atom.Plaintext:
		// сырой текст: внутри может быть разметка с адресами
		return false
	}
	return inBody
}

func (rw *Rewriter) rewriteAttrs(n *html.Node) {
	if !rw.policy.Meta && !rw.policy.DataAttrs {
		return
	}

	isProseMeta := rw.policy.Meta && n.DataAtom == atom.Meta &&
		(hasAttr(n, "name") || hasAttr(n, "property")) && !hasAttr(n, "http-equiv")

	for i := range n.Attr {
		a := &n.Attr[i]
		if a.Namespace != "" {
			continue
		}
		key := strings.ToLower(a.Key)
		switch {
		case isProseMeta && key == "content":
			a.Val = rw.replacer.Replace(a.Val)
		case rw.policy.DataAttrs && strings.HasPrefix(key, "data-"):
			if isURLAttribute(strings.TrimPrefix(key, "data-")) || looksLikeURL(a.Val) {
				continue
			}
			a.Val = rw.replacer.Replace(a.Val)
		}
	}
}

func isURLAttribute(key string) bool {
	_, ok := urlAttributes[key]
	return ok
}

func hasAttr(n *html.Node, key string) bool {
	for _, a := range n.Attr {
		if a.Namespace == "" && strings.EqualFold(a.Key, key) {
			return true
		}
	}
	return false
}

func looksLikeURL(v string) bool {
	u, err := url.Parse(strings.TrimSpace(v))
	return err == nil && u.Host != ""
}
