// Package export serializes roadmaps into downloadable files.
package export

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/go-pdf/fpdf"
)

// Text returns the roadmap as UTF-8 plain text, verbatim.
func Text(roadmap string) []byte {
	return []byte(roadmap)
}

// PDF renders the roadmap as a paginated A4 document with the job title as a
// heading. An empty body still yields a valid single-page document.
func PDF(jobTitle string, roadmap string) ([]byte, error) {
	doc := fpdf.New("P", "mm", "A4", "")
	doc.SetTitle(fmt.Sprintf("Career Roadmap: %s", jobTitle), true)
	doc.SetAutoPageBreak(true, 15)
	doc.AddPage()

	tr := doc.UnicodeTranslatorFromDescriptor("")

	doc.SetFont("Helvetica", "B", 16)
	doc.MultiCell(0, 8, tr(fmt.Sprintf("Career Roadmap: %s", jobTitle)), "", "L", false)
	doc.Ln(4)

	doc.SetFont("Helvetica", "", 11)
	for _, line := range strings.Split(roadmap, "\n") {
		if strings.TrimSpace(line) == "" {
			doc.Ln(4)
			continue
		}
		doc.MultiCell(0, 6, tr(line), "", "L", false)
	}

	var buf bytes.Buffer
	if err := doc.Output(&buf); err != nil {
		return nil, fmt.Errorf("render pdf: %w", err)
	}
	return buf.Bytes(), nil
}

// Filename builds a download file name from a job title, e.g.
// "Data_Engineer_Career_Roadmap.txt".
func Filename(jobTitle string, ext string) string {
	title := strings.TrimSpace(jobTitle)
	if title == "" {
		title = "Career"
	}
	title = strings.ReplaceAll(title, " ", "_")

	var b strings.Builder
	for _, r := range title {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '_', r == '-':
			b.WriteRune(r)
		}
	}
	name := b.String()
	if name == "" {
		name = "Career"
	}
	return fmt.Sprintf("%s_Career_Roadmap.%s", name, ext)
}
