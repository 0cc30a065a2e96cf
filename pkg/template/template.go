package template

import (
	"bytes"
	"strings"
	"text/template"
)

type Template struct {
	tmpl *template.Template
}

func NewTemplate(text string) (*Template, error) {
	funcs := template.FuncMap{
		"join":  strings.Join,
		"trim":  strings.TrimSpace,
		"upper": strings.ToUpper,
	}

	tmpl, err := template.New("prompt").Funcs(funcs).Option("missingkey=error").Parse(text)

	if err != nil {
		return nil, err
	}

	return &Template{
		tmpl: tmpl,
	}, nil
}

func (t *Template) Execute(data any) (string, error) {
	var buf bytes.Buffer

	if err := t.tmpl.Execute(&buf, data); err != nil {
		return "", err
	}

	return strings.TrimSpace(buf.String()), nil
}
