package report

import (
	_ "embed"
	"fmt"
	"html"
	"strings"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
	gmhtml "github.com/yuin/goldmark/renderer/html"
)

//go:embed style.css
var styleCSS string

var markdown = goldmark.New(
	goldmark.WithExtensions(extension.GFM),
	// Table cells carry color swatch spans; data values are escaped in cell().
	goldmark.WithRendererOptions(gmhtml.WithUnsafe()),
)

// RenderHTMLFragment converts report markdown to an HTML fragment.
func RenderHTMLFragment(md string) (string, error) {
	var out strings.Builder
	if err := markdown.Convert([]byte(md), &out); err != nil {
		return "", fmt.Errorf("markdown convert: %w", err)
	}
	return out.String(), nil
}

// RenderHTML wraps the converted markdown in a standalone, styled document.
func RenderHTML(title, md string) (string, error) {
	content, err := RenderHTMLFragment(md)
	if err != nil {
		return "", err
	}
	return "<!doctype html><html><head><meta charset='utf-8'><title>" + html.EscapeString(title) + "</title>" +
		"<style>" + styleCSS + "\n" +
		"html,body,*{-webkit-print-color-adjust:exact !important;print-color-adjust:exact !important;} " +
		"@media print{ @page{size:auto;margin:12mm;} body{padding:0;} .report{max-width:none;} }" +
		"</style></head><body><main class='report'>" + content + "</main></body></html>", nil
}
