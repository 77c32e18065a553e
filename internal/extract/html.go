package extract

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

func readHTML(path string) (string, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", fmt.Errorf("open html document: %w", err)
	}
	defer f.Close()

	return HTMLText(f)
}

// HTMLText returns the visible text of an HTML document with whitespace
// collapsed. Script, style and noscript elements are dropped.
func HTMLText(r io.Reader) (string, error) {
	doc, err := goquery.NewDocumentFromReader(r)
	if err != nil {
		return "", fmt.Errorf("parse html: %w", err)
	}

	doc.Find("script, style, noscript, template").Remove()

	// Block elements are glued together by Text(), so give each one a trailing space.
	doc.Find("p, div, li, br, h1, h2, h3, h4, h5, h6, td, th, tr, section, article").Each(func(_ int, s *goquery.Selection) {
		s.AppendHtml(" ")
	})

	return strings.Join(strings.Fields(doc.Text()), " "), nil
}
