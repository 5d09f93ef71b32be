// Package plaintext renders catalog HTML as plain text for the metadata generator.
package plaintext

import (
	"fmt"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// FromHTML strips markup and returns the text content with surrounding whitespace trimmed.
// Entities are decoded.
func FromHTML(html string) (string, error) {
	if strings.TrimSpace(html) == "" {
		return "", nil
	}
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return "", fmt.Errorf("parse description html: %w", err)
	}
	doc.Find("script, style").Remove()
	return strings.TrimSpace(doc.Text()), nil
}
