package screenshot

import (
	"context"
	"fmt"
	"html"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

const galleryTemplate = `<!DOCTYPE html>
<html>
<head>
<meta charset="utf-8">
<title>Screenshots</title>
<style>
.pager { display: flex; overflow-x: hidden; scroll-snap-type: x mandatory; height: 90vh; }
.page { flex: 0 0 85%; margin: 0 8px; scroll-snap-align: center; }
.page img { width: 100%; height: 100%; object-fit: contain; }
</style>
</head>
<body>
<section id="screenshots" class="pager" data-current-index="0"></section>
<script>
var current = document.querySelector(".page.current");
if (current) { current.scrollIntoView({behavior: "instant", inline: "center"}); }
</script>
</body>
</html>`

// HTMLGrid renders the pages as a static gallery document and hands the full
// document to write after every change.
type HTMLGrid struct {
	write func(doc string) error
	doc   *goquery.Document
	err   error
}

// NewHTMLGrid builds a grid emitting documents through write.
func NewHTMLGrid(write func(doc string) error) *HTMLGrid {
	return &HTMLGrid{write: write}
}

// FileWriter returns a write func that replaces path with each document.
func FileWriter(path string) func(string) error {
	return func(doc string) error {
		if dir := filepath.Dir(path); dir != "" && dir != "." {
			if err := os.MkdirAll(dir, 0o755); err != nil {
				return fmt.Errorf("create html output directory: %w", err)
			}
		}
		return os.WriteFile(path, []byte(doc), 0o644)
	}
}

// Bind is a no-op: the HTML grid does all its work inside Reload and ScrollTo.
func (g *HTMLGrid) Bind(context.Context) {}

// Reload rebuilds the gallery document with one page per url and writes it.
func (g *HTMLGrid) Reload(urls []string) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(galleryTemplate))
	if err != nil {
		g.err = fmt.Errorf("parse gallery template: %w", err)
		return
	}

	section := doc.Find("#screenshots")
	for i, u := range urls {
		section.AppendHtml(fmt.Sprintf(
			`<figure class="page" data-index="%d"><img src="%s" alt="Screenshot %d"></figure>`,
			i, html.EscapeString(u), i+1,
		))
	}
	g.doc = doc
	g.err = nil
	g.flush()
}

// ScrollTo marks page index as current and writes the document.
func (g *HTMLGrid) ScrollTo(index int, _ bool) {
	if g.doc == nil {
		return
	}
	pages := g.doc.Find("figure.page")
	if index < 0 || index >= pages.Length() {
		return
	}
	g.doc.Find("#screenshots").SetAttr("data-current-index", strconv.Itoa(index))
	pages.RemoveClass("current")
	pages.Eq(index).AddClass("current")
	g.flush()
}

func (g *HTMLGrid) flush() {
	if g.write == nil {
		return
	}
	out, err := g.doc.Html()
	if err != nil {
		g.err = fmt.Errorf("render gallery: %w", err)
		return
	}
	if err := g.write(out); err != nil {
		g.err = fmt.Errorf("write gallery: %w", err)
	}
}

// Err returns the last render or write failure.
func (g *HTMLGrid) Err() error { return g.err }
