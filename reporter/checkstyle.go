package reporter

import (
	"encoding/xml"
	"io"

	"github.com/go-hamlint/hamlint"
)

// Checkstyle prints an XML checkstyle document.
type Checkstyle struct{}

type checkstyleReport struct {
	XMLName xml.Name         `xml:"checkstyle"`
	Version string           `xml:"version,attr"`
	Files   []checkstyleFile `xml:"file"`
}

type checkstyleFile struct {
	Name   string            `xml:"name,attr"`
	Errors []checkstyleError `xml:"error"`
}

type checkstyleError struct {
	Line     int    `xml:"line,attr"`
	Severity string `xml:"severity,attr"`
	Message  string `xml:"message,attr"`
	Source   string `xml:"source,attr"`
}

// Report implements Reporter.
func (r *Checkstyle) Report(w io.Writer, report *hamlint.Report) error {
	doc := checkstyleReport{Version: "5.7"}
	index := make(map[string]int)
	for _, lint := range report.Lints {
		i, ok := index[lint.Filename]
		if !ok {
			i = len(doc.Files)
			index[lint.Filename] = i
			doc.Files = append(doc.Files, checkstyleFile{Name: lint.Filename})
		}
		doc.Files[i].Errors = append(doc.Files[i].Errors, checkstyleError{
			Line:     lint.Line,
			Severity: lint.Severity.String(),
			Message:  lint.Message,
			Source:   lint.Linter,
		})
	}

	if _, err := io.WriteString(w, `<?xml version="1.0" encoding="utf-8"?>`+"\n"); err != nil {
		return err
	}
	enc := xml.NewEncoder(w)
	enc.Indent("", "  ")
	if err := enc.Encode(doc); err != nil {
		return err
	}
	_, err := io.WriteString(w, "\n")
	return err
}
