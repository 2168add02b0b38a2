package notify

import (
	"fmt"
	"html/template"
	"strings"
	"time"

	"github.com/trendwise/options-scanner/internal/scan"
	"github.com/trendwise/options-scanner/internal/signal"
)

// Report is the notification payload built from one scan run.
type Report struct {
	Date    string
	Result  *scan.BatchResult
	Signals []signal.Signal
}

// NewReport builds a report for a completed scan.
func NewReport(date string, result *scan.BatchResult) *Report {
	return &Report{Date: date, Result: result, Signals: result.Signals}
}

// Subject returns the email subject line for the report.
func (r *Report) Subject() string {
	return fmt.Sprintf("Options scan %s: %d signal(s)", r.Date, len(r.Signals))
}

// Summary renders a short plain-text digest, used for push notifications.
func (r *Report) Summary() string {
	var sb strings.Builder

	sb.WriteString(fmt.Sprintf("Scanned: %d tickers\n", r.Result.Total))
	sb.WriteString(fmt.Sprintf("Signals: %d\n", len(r.Signals)))
	for _, s := range r.Signals {
		sb.WriteString(fmt.Sprintf("- %s %s %s", s.Ticker, s.Trend, s.Contract.Symbol))
		if s.Projection != nil {
			sb.WriteString(fmt.Sprintf(" (proj %.1f%%)", s.Projection.ReturnPct))
		}
		sb.WriteString("\n")
	}
	if r.Result.Failed > 0 {
		sb.WriteString(fmt.Sprintf("Failed: %d\n", r.Result.Failed))
	}
	sb.WriteString(fmt.Sprintf("Duration: %s", r.Result.Duration.Round(time.Second)))

	return sb.String()
}

var reportTemplate = template.Must(template.New("report").Funcs(template.FuncMap{
	"money": func(p *float64) string {
		if p == nil {
			return "n/a"
		}
		return fmt.Sprintf("%.2f", *p)
	},
	"delta": func(p *float64) string {
		if p == nil {
			return "n/a"
		}
		return fmt.Sprintf("%.2f", *p)
	},
	"pct": func(p *signal.Projection) string {
		if p == nil {
			return "n/a"
		}
		return fmt.Sprintf("%.1f%%", p.ReturnPct)
	},
}).Parse(`<html>
  <body>
    <h2>Options Signal Scan {{.Date}}</h2>
    <p>{{len .Signals}} candidate(s) from {{.Result.Total}} tickers scanned.</p>
    <table border="1" cellpadding="4" cellspacing="0">
      <thead>
        <tr>
          <th>Ticker</th>
          <th>Trend</th>
          <th>Underlying</th>
          <th>Option</th>
          <th>Type</th>
          <th>Strike</th>
          <th>Expiry</th>
          <th>Delta</th>
          <th>OI</th>
          <th>Mark</th>
          <th>Projected Return</th>
        </tr>
      </thead>
      <tbody>
        {{range .Signals}}
        <tr>
          <td>{{.Ticker}}</td>
          <td>{{.Trend}}</td>
          <td>{{money .UnderlyingPrice}}</td>
          <td>{{.Contract.Symbol}}</td>
          <td>{{.Contract.Type}}</td>
          <td>{{money .Contract.Strike}}</td>
          <td>{{.Contract.Expiration}}</td>
          <td>{{delta .Contract.Delta}}</td>
          <td>{{.Contract.OpenInterest}}</td>
          <td>{{money .Contract.Mark}}</td>
          <td>{{pct .Projection}}</td>
        </tr>
        {{end}}
      </tbody>
    </table>
  </body>
</html>
`))

// HTML renders the full signal table for email delivery.
func (r *Report) HTML() (string, error) {
	var sb strings.Builder
	if err := reportTemplate.Execute(&sb, r); err != nil {
		return "", fmt.Errorf("rendering report: %w", err)
	}
	return sb.String(), nil
}
