// Package dochtml renders document definitions as standalone HTML pages.
//
// Named styles become CSS classes, inline styles become style attributes and
// the font set is embedded through @font-face data URIs, so the page renders
// identically without network access. The page shell is a pongo2 template.
package dochtml
