// Package assets embeds the web UI and builds the minified index page.
package assets

import (
	"bytes"
	_ "embed"
	"encoding/base64"
	"fmt"
	"text/template"

	"github.com/tdewolff/minify/v2"
	"github.com/tdewolff/minify/v2/css"
	"github.com/tdewolff/minify/v2/html"
	"github.com/tdewolff/minify/v2/js"
	"github.com/tdewolff/minify/v2/svg"
)

var (
	//go:embed index.html.tpl
	indexTemplate string
	//go:embed style.css
	styleCSS string
	//go:embed script.js
	scriptJS string
	//go:embed favicon.svg
	faviconSVG string
)

// PageData is substituted into the index template.
type PageData struct {
	CSS  string
	JS   string
	Icon string
}

// Minifier returns a minifier for every asset type the UI uses.
func Minifier() *minify.M {
	m := minify.New()
	m.AddFunc("text/css", css.Minify)
	m.AddFunc("text/html", html.Minify)
	m.AddFunc("text/javascript", js.Minify)
	m.AddFunc("image/svg+xml", svg.Minify)
	return m
}

// Favicon returns the minified SVG icon.
func Favicon() ([]byte, error) {
	s, err := Minifier().String("image/svg+xml", faviconSVG)
	if err != nil {
		return nil, fmt.Errorf("minify SVG: %w", err)
	}

	return []byte(s), nil
}

// Index renders the index page with inlined, minified CSS, JS and icon.
func Index() ([]byte, error) {
	m := Minifier()

	cssMin, err := m.String("text/css", styleCSS)
	if err != nil {
		return nil, fmt.Errorf("minify CSS: %w", err)
	}

	jsMin, err := m.String("text/javascript", scriptJS)
	if err != nil {
		return nil, fmt.Errorf("minify JS: %w", err)
	}

	icon, err := Favicon()
	if err != nil {
		return nil, err
	}

	tmpl, err := template.New("index").Parse(indexTemplate)
	if err != nil {
		return nil, fmt.Errorf("parse template: %w", err)
	}

	var buf bytes.Buffer
	err = tmpl.Execute(&buf, PageData{
		CSS:  cssMin,
		JS:   jsMin,
		Icon: base64.StdEncoding.EncodeToString(icon),
	})
	if err != nil {
		return nil, fmt.Errorf("execute template: %w", err)
	}

	var out bytes.Buffer
	if err := m.Minify("text/html", &out, &buf); err != nil {
		return nil, fmt.Errorf("minify HTML: %w", err)
	}

	return out.Bytes(), nil
}
