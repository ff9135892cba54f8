package pdf

import (
	"bytes"
	"fmt"
	"regexp"
	"strings"

	"github.com/ledongthuc/pdf"
)

var reNewlines = regexp.MustCompile(`\n{3,}`)

// Parse extracts the plain text of every page of a PDF document.
// Pages that fail text extraction are skipped; a document where no page
// yields text is an error, since the pipeline has no partial-text
// fallback.
func Parse(content []byte) (string, error) {
	reader, err := pdf.NewReader(bytes.NewReader(content), int64(len(content)))
	if err != nil {
		return "", fmt.Errorf("failed to open pdf: %w", err)
	}

	var sb strings.Builder
	extracted := 0

	totalPages := reader.NumPage()
	for i := 1; i <= totalPages; i++ {
		page := reader.Page(i)
		if page.V.IsNull() {
			continue
		}

		text, err := page.GetPlainText(nil)
		if err != nil {
			continue
		}
		text = strings.TrimSpace(text)
		if text == "" {
			continue
		}

		sb.WriteString(text)
		sb.WriteString("\n")
		extracted++
	}

	if extracted == 0 {
		return "", fmt.Errorf("no extractable text in pdf (%d pages)", totalPages)
	}

	text := strings.TrimSpace(sb.String())
	text = reNewlines.ReplaceAllString(text, "\n\n")

	return text, nil
}
