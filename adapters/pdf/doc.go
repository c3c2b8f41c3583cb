// Package docpdf renders document definitions into PDF bytes.
//
// NativeEngine lays out the document tree directly with gofpdf. HTMLEngine
// renders the tree to HTML and converts it with a pluggable converter
// (headless Chromium via chromedp, or wkhtmltopdf). HTML rendering is gated
// by HTMLEngine.Enabled.
package docpdf
