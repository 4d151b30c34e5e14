package http

import (
	"bytes"
	"embed"
	"html/template"
	"io/fs"
	"net/http"
	"strconv"

	"go.uber.org/zap"
	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"hfcalc/calculator"
	"hfcalc/ml"
)

//go:embed templates/*.html
var templateFS embed.FS

//go:embed static
var staticFS embed.FS

var pageTemplate = template.Must(template.ParseFS(templateFS, "templates/index.html"))

type fieldView struct {
	Name  string
	Label string
	Min   string
	Max   string
	Step  string
	Value string
}

type resultView struct {
	PositiveName string
	NegativeName string
	PPositive    string
	PNegative    string
	Label        string
	Positive     bool
	Threshold    string
}

type page struct {
	Title    string
	Subtitle template.HTML
	Fields   []fieldView
	Result   *resultView
	Error    string
}

func newPage(values map[string]string, result *calculator.Result, errMsg string, locale language.Tag) page {
	p := page{
		Title: "Online Model-Based Calculator to Differentiate Heart Failure from Pneumonia",
		Subtitle: template.HTML("Model-based estimates for <b>Heart Failure</b> (y=1) versus <b>Pneumonia</b> " +
			"using Age, AG, CREA, UA, RDW, and PDW."),
		Error: errMsg,
	}
	for _, f := range ml.Fields {
		p.Fields = append(p.Fields, fieldView{
			Name:  f.Name,
			Label: f.Label(),
			Min:   formatBound(f.Min),
			Max:   formatBound(f.Max),
			Step:  formatBound(f.Step),
			Value: values[f.Name],
		})
	}
	if result != nil {
		p.Result = newResultView(result, locale)
	}
	return p
}

// newResultView formats probabilities with two decimals and the threshold
// with three, using the configured locale's number format.
func newResultView(result *calculator.Result, locale language.Tag) *resultView {
	printer := message.NewPrinter(locale)
	return &resultView{
		PositiveName: ml.PositiveClassName,
		NegativeName: ml.NegativeClassName,
		PPositive:    printer.Sprintf("%.2f", result.PPositive),
		PNegative:    printer.Sprintf("%.2f", result.PNegative),
		Label:        result.Label,
		Positive:     result.IsPositive(),
		Threshold:    printer.Sprintf("%.3f", result.Threshold),
	}
}

func formatBound(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

func (h *Handler) renderPage(w http.ResponseWriter, status int, p page) {
	var buf bytes.Buffer
	if err := pageTemplate.Execute(&buf, p); err != nil {
		h.logger.Error("render page", zap.Error(err))
		http.Error(w, "internal server error", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	buf.WriteTo(w)
}

func staticHandler() http.Handler {
	sub, err := fs.Sub(staticFS, "static")
	if err != nil {
		panic(err)
	}
	return http.StripPrefix("/static/", http.FileServer(http.FS(sub)))
}
