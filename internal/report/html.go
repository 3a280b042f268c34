package report

import (
	"fmt"
	"html/template"
	"io"
)

const htmlTemplate = `<!DOCTYPE html>
<html lang="en">
<head>
<meta charset="utf-8">
<title>{{.Title}} — {{.Year}}</title>
<style>
body { font-family: -apple-system, "Segoe UI", sans-serif; margin: 1.5rem; color: #222; }
h1 { font-size: 1.4rem; }
table { border-collapse: collapse; font-size: 0.78rem; margin-bottom: 2rem; }
th, td { border: 1px solid #ccc; padding: 2px 6px; text-align: right; white-space: nowrap; }
th { background: #f0f0f0; }
td.account { text-align: left; font-weight: 600; }
td.child { text-align: left; padding-left: 1.4rem; font-weight: 400; font-style: italic; }
td.neg, span.neg { color: #b00020; }
td.confirmed { background: #e6f4ea; }
td.zero { color: #999; }
tr.totals td { font-weight: 700; background: #fafafa; }
.meta { color: #666; font-size: 0.8rem; margin-bottom: 1rem; }
</style>
</head>
<body>
<h1>{{.Title}} — {{.Year}}</h1>
<p class="meta">Months {{.Start}}–{{.End}}, {{.DaysOf}} slots per month. Generated {{.GeneratedAt.Format "2006-01-02 15:04"}}.</p>

<table>
<thead>
<tr>
<th rowspan="2">Account</th>
<th rowspan="2">Category</th>
{{range .Months}}<th colspan="{{len .Days}}">{{.Name}}</th>{{end}}
<th rowspan="2">Final</th>
</tr>
<tr>
{{range .Months}}{{range .Days}}<th>{{.}}</th>{{end}}{{end}}
</tr>
</thead>
<tbody>
{{range .Rows}}
<tr>
{{if .Child}}<td class="child">{{.Account}}</td>{{else}}<td class="account">{{.Account}}</td>{{end}}
<td>{{.Category}}</td>
{{range .Cells}}<td class="{{if .Confirmed}}confirmed {{end}}{{if .Negative}}neg{{end}}{{if .Zero}}zero{{end}}">{{.Amount}}</td>{{end}}
{{if .FinalNegative}}<td class="neg">{{.Final}}</td>{{else}}<td>{{.Final}}</td>{{end}}
</tr>
{{end}}
<tr class="totals">
<td class="account">Month total</td>
<td></td>
{{range .MonthTotals}}<td colspan="{{$.DaysOf}}">{{.}}</td>{{end}}
{{if .FinalNegative}}<td class="neg">{{.Final}}</td>{{else}}<td>{{.Final}}</td>{{end}}
</tr>
<tr class="totals">
<td class="account">Running</td>
<td></td>
{{range .RunningTotals}}<td colspan="{{$.DaysOf}}">{{.}}</td>{{end}}
<td></td>
</tr>
</tbody>
</table>

<h2>Categories</h2>
<table>
<thead><tr><th>Category</th><th>Balance</th></tr></thead>
<tbody>
{{range .Categories}}
<tr><td class="account">{{.Name}}</td>{{if .Negative}}<td class="neg">{{.Balance}}</td>{{else}}<td>{{.Balance}}</td>{{end}}</tr>
{{end}}
</tbody>
</table>

{{if .NegativeMonths}}
<h2>Months in the red</h2>
<table>
<thead><tr><th>Month</th><th>Running balance</th></tr></thead>
<tbody>
{{range .NegativeMonths}}
<tr><td class="account">{{.Month}}</td><td class="neg">{{.Balance}}</td></tr>
{{end}}
</tbody>
</table>
{{end}}

<p>Potential savings if optional spending stops: <strong>{{.PotentialSavings}}</strong></p>
</body>
</html>
`

var planTemplate = template.Must(template.New("plan").Parse(htmlTemplate))

// RenderHTML writes the plan report as a standalone HTML page.
func RenderHTML(w io.Writer, r *PlanReport) error {
	if err := planTemplate.Execute(w, r); err != nil {
		return fmt.Errorf("render plan report: %w", err)
	}
	return nil
}
