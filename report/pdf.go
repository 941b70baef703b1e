package report

import (
	"bytes"
	"context"
	"fmt"
	"html/template"
	"time"
)

// HTMLConverter converts an HTML document into PDF bytes. The production
// implementation posts to a Gotenberg service (see gotenberg.go); tests
// substitute a fake.
type HTMLConverter interface {
	ConvertHTML(ctx context.Context, html string) ([]byte, error)
}

// PDFRenderer lays the statement out as an HTML table per account and
// hands the document to an HTMLConverter.
type PDFRenderer struct {
	Converter HTMLConverter
}

func NewPDFRenderer(converter HTMLConverter) *PDFRenderer {
	return &PDFRenderer{Converter: converter}
}

func (r *PDFRenderer) Render(ctx context.Context, report *ClientReport) (Rendered, error) {
	html, err := StatementHTML(report)
	if err != nil {
		return Rendered{}, err
	}

	payload, err := r.Converter.ConvertHTML(ctx, html)
	if err != nil {
		return Rendered{}, fmt.Errorf("pdf conversion failed: %w", err)
	}
	return Rendered{Payload: payload, ContentType: "application/pdf"}, nil
}

// StatementHTML renders the printable statement document: a title, the
// client and period lines, and one movements table per account.
func StatementHTML(report *ClientReport) (string, error) {
	var buf bytes.Buffer
	if err := statementTmpl.Execute(&buf, report); err != nil {
		return "", fmt.Errorf("failed to render statement html: %w", err)
	}
	return buf.String(), nil
}

var statementTmpl = template.Must(template.New("statement").Funcs(template.FuncMap{
	"date": func(t time.Time) string { return t.Format("2006-01-02 15:04") },
	"active": func(b bool) string {
		if b {
			return "Active"
		}
		return "Inactive"
	},
}).Parse(`<!DOCTYPE html>
<html>
<head>
<meta charset="utf-8">
<style>
body { font-family: sans-serif; font-size: 12px; }
h1 { text-align: center; font-size: 18px; }
h2 { font-size: 13px; }
table { border-collapse: collapse; width: 100%; margin-bottom: 16px; }
th, td { border: 1px solid #444; padding: 4px 6px; font-size: 10px; }
</style>
</head>
<body>
<h1>Account Statement</h1>
<p>Client: {{.ClientName}}</p>
<p>Period: {{.From}} - {{.To}}</p>
{{range .Accounts}}
<h2>Account {{.AccountNumber}} ({{.AccountType}})</h2>
<table>
<tr>
<th>Date</th><th>Client</th><th>Account</th><th>Type</th>
<th>Initial Balance</th><th>Status</th><th>Movement</th><th>Available Balance</th>
</tr>
{{$acct := .}}
{{range .Movements}}
<tr>
<td>{{date .Date}}</td>
<td>{{$.ClientName}}</td>
<td>{{$acct.AccountNumber}}</td>
<td>{{$acct.AccountType}}</td>
<td>${{$acct.InitialBalance}}</td>
<td>{{active $acct.Active}}</td>
<td>{{.Value}}</td>
<td>${{.Balance}}</td>
</tr>
{{end}}
</table>
{{end}}
</body>
</html>`))
