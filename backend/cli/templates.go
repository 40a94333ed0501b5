package cli

import (
	"strings"
	"text/template"
)

const stampTemplate = `{{define "stamp"}}// ----------------------------------------------------------------------------
// <auto-generated>
// This is autogenerated code by cxxbind.
// Do not edit this file or all your changes will be lost after re-generation.
// </auto-generated>
// Source file: {{.File}}
{{if .Version}}// Source version: {{.Version}}
{{end}}// ----------------------------------------------------------------------------
{{end}}`

const headerTemplate = `{{template "stamp" .Stamp}}
#pragma once

#include <{{.NativeHeader}}>

namespace {{.Namespace}}
{
{{- range .Forwards}}
    {{.}}
{{- end}}
{{- range .Delegates}}

    public {{.}};
{{- end}}
{{- range .Enums}}

{{summary .Comment "    "}}    public enum struct {{.Name}}{{with .Underlying}} : {{.}}{{end}}
    {
{{- range .Items}}
        {{.}}
{{- end}}
    };
{{- end}}
{{- range .Classes}}

{{summary .Comment "    "}}    public {{.Keyword}} {{.Name}}
    {
    public:
{{- range .Members}}
{{summary .Comment "        "}}        {{.Decl}}
{{- end}}
    };
{{- end}}
{{- with .Functions}}

    public ref class {{.Name}}
    {
    public:
{{- range .Members}}
{{summary .Comment "        "}}        {{.Decl}}
{{- end}}
    };
{{- end}}
}
`

const sourceTemplate = `{{template "stamp" .Stamp}}
#include "{{.Header}}"
{{- range .Bodies}}

{{.Signature}}
{
{{- range .Lines}}
    {{.}}
{{- end}}
}
{{- end}}
`

var templates = template.Must(
	template.New("cli").Funcs(template.FuncMap{"summary": summary}).Parse(stampTemplate))

var (
	header = template.Must(template.Must(templates.Clone()).New("header").Parse(headerTemplate))
	source = template.Must(template.Must(templates.Clone()).New("source").Parse(sourceTemplate))
)

// summary renders a brief comment as a /// <summary> block, one line per
// comment line. An empty comment renders nothing.
func summary(comment, indent string) string {
	comment = strings.TrimSpace(comment)
	if comment == "" {
		return ""
	}

	var sb strings.Builder
	sb.WriteString(indent + "/// <summary>\n")
	for _, line := range strings.Split(comment, "\n") {
		sb.WriteString(indent + "/// " + strings.TrimSpace(line) + "\n")
	}
	sb.WriteString(indent + "/// </summary>\n")
	return sb.String()
}

type stampData struct {
	File    string
	Version string
}

type headerData struct {
	Stamp        stampData
	NativeHeader string
	Namespace    string
	Forwards     []string
	Delegates    []string
	Enums        []enumData
	Classes      []classData
	Functions    *classData
}

type enumData struct {
	Comment    string
	Name       string
	Underlying string
	Items      []string
}

type classData struct {
	Comment string
	Keyword string
	Name    string
	Members []memberData
}

type memberData struct {
	Comment string
	Decl    string
}

type sourceData struct {
	Stamp  stampData
	Header string
	Bodies []bodyData
}

type bodyData struct {
	Signature string
	Lines     []string
}
