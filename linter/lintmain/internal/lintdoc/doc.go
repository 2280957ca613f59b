package lintdoc

import (
	"fmt"
	"io"
	"sort"
	"text/template"

	"github.com/go-hamlint/hamlint"
)

// Main implements sub-command entry point.
func Main(w io.Writer, reg *hamlint.Registry, args []string) error {
	switch len(args) {
	case 0:
		return printShortDoc(w, reg)
	case 1:
		return printDoc(w, reg, args[0])
	default:
		return fmt.Errorf("expected 0 or 1 positional arguments")
	}
}

func printShortDoc(w io.Writer, reg *hamlint.Registry) error {
	for _, name := range reg.Names() {
		l, _ := reg.Lookup(name)
		if _, err := fmt.Fprintf(w, "%s %v\n", name, l.Info.Tags); err != nil {
			return err
		}
	}
	return nil
}

var docTemplate = template.Must(template.New("doc").Parse(`{{.Linter.Name}} linter documentation
Tags: {{.Linter.Tags}}

{{.Linter.Summary}}.
{{ if .Linter.Details }}
{{.Linter.Details}}
{{ end }}
Non-compliant code:
{{.Linter.Before}}

Compliant code:
{{.Linter.After}}
{{- if .Linter.Note }}

{{.Linter.Note}}
{{- end }}
{{- if .Params }}

Linter parameters:
{{- range .Params }}
  {{.Name}} {{.Type}}
    	{{.Usage}} (default {{.Value}})
{{- end }}
{{- end }}
`))

type paramDoc struct {
	Name  string
	Type  string
	Usage string
	Value interface{}
}

func printDoc(w io.Writer, reg *hamlint.Registry, name string) error {
	l, err := reg.Lookup(name)
	if err != nil {
		return err
	}

	var templateData struct {
		Linter *hamlint.LinterInfo
		Params []paramDoc
	}
	templateData.Linter = l.Info
	for pname, p := range l.Info.Params {
		templateData.Params = append(templateData.Params, paramDoc{
			Name:  pname,
			Type:  fmt.Sprintf("%T", p.Value),
			Usage: p.Usage,
			Value: p.Value,
		})
	}
	sort.Slice(templateData.Params, func(i, j int) bool {
		return templateData.Params[i].Name < templateData.Params[j].Name
	})

	if err := docTemplate.Execute(w, templateData); err != nil {
		return fmt.Errorf("executing linter doc template: %w", err)
	}
	return nil
}
