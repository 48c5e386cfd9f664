package utils

import (
	"html/template"
	"net/url"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// EnhanceMailHTML prepares rendered comment HTML for an email client: relative
// links and images are resolved against siteURL and links open in a new tab.
func EnhanceMailHTML(htmlStr template.HTML, siteURL string) template.HTML {
	if htmlStr == "" {
		return ""
	}

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(string(htmlStr)))
	if err != nil {
		return htmlStr
	}

	base, err := url.Parse(siteURL)
	if err != nil || siteURL == "" {
		base = nil
	}
	resolve := func(s *goquery.Selection, attr string) {
		ref, ok := s.Attr(attr)
		if !ok || base == nil {
			return
		}
		u, err := url.Parse(ref)
		if err != nil || u.IsAbs() {
			return
		}
		s.SetAttr(attr, base.ResolveReference(u).String())
	}

	doc.Find("a").Each(func(i int, s *goquery.Selection) {
		resolve(s, "href")
		s.SetAttr("target", "_blank")
		s.SetAttr("rel", "noopener noreferrer")
	})
	doc.Find("img").Each(func(i int, s *goquery.Selection) {
		resolve(s, "src")
		s.SetAttr("style", "max-width:100%")
	})

	// goquery renders full document tags if missing, we just want the body content
	out, _ := doc.Find("body").Html()
	if out == "" {
		out, _ = doc.Html()
	}
	return template.HTML(out)
}

// Excerpt returns the first n runes of the text content of an HTML fragment.
func Excerpt(htmlStr string, n int) string {
	text := htmlStr
	if doc, err := goquery.NewDocumentFromReader(strings.NewReader(htmlStr)); err == nil {
		text = doc.Text()
	}
	text = strings.Join(strings.Fields(text), " ")
	runes := []rune(text)
	if len(runes) > n {
		return string(runes[:n]) + "..."
	}
	return text
}
