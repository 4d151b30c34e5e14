package http

import (
	"encoding/json"
	"fmt"
	"net/http"
	"sort"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
	"golang.org/x/text/language"

	"hfcalc/calculator"
	"hfcalc/ml"
)

// Handler serves the calculator page and the JSON API. It only reads from
// the calculator, so one instance is shared by all requests.
type Handler struct {
	calc   *calculator.Calculator
	locale language.Tag
	logger *zap.Logger
}

func NewHandler(calc *calculator.Calculator, locale language.Tag, logger *zap.Logger) *Handler {
	return &Handler{calc: calc, locale: locale, logger: logger}
}

func (h *Handler) Register(r chi.Router) {
	r.Get("/", h.handleIndex)
	r.Post("/", h.handleSubmit)
	r.Handle("/static/*", staticHandler())

	r.Route("/api", func(r chi.Router) {
		r.Get("/health", handleHealth)
		r.Get("/fields", handleFields)
		r.Get("/model", h.handleModel)
		r.Post("/predict", h.handlePredict)
	})
}

func handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func handleFields(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]interface{}{"fields": ml.Fields})
}

func (h *Handler) handleModel(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.calc.Info())
}

func (h *Handler) handleIndex(w http.ResponseWriter, r *http.Request) {
	h.renderPage(w, http.StatusOK, newPage(defaultValues(), nil, "", h.locale))
}

func (h *Handler) handleSubmit(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		h.renderPage(w, http.StatusBadRequest, newPage(defaultValues(), nil, "Could not read the form.", h.locale))
		return
	}

	raw := make(map[string]string, len(ml.Fields))
	for _, f := range ml.Fields {
		raw[f.Name] = strings.TrimSpace(r.PostForm.Get(f.Name))
	}
	in, err := parseFormInputs(raw)
	if err != nil {
		h.renderPage(w, http.StatusBadRequest, newPage(raw, nil, err.Error(), h.locale))
		return
	}

	result, err := h.calc.Predict(r.Context(), in)
	if err != nil {
		h.logger.Error("prediction failed", zap.String("request_id", GetRequestID(r.Context())), zap.Error(err))
		h.renderPage(w, http.StatusInternalServerError, newPage(formatInputs(in), nil, "The model could not score these values.", h.locale))
		return
	}
	h.renderPage(w, http.StatusOK, newPage(formatInputs(in), result, "", h.locale))
}

func (h *Handler) handlePredict(w http.ResponseWriter, r *http.Request) {
	var body map[string]*float64
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeError(w, http.StatusBadRequest, fmt.Sprintf("invalid request body: %v", err))
		return
	}
	in, err := jsonInputs(body)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	result, err := h.calc.Predict(r.Context(), in)
	if err != nil {
		h.logger.Error("prediction failed", zap.String("request_id", GetRequestID(r.Context())), zap.Error(err))
		writeError(w, http.StatusInternalServerError, "prediction failed")
		return
	}
	writeJSON(w, http.StatusOK, result)
}

// parseFormInputs reads the six widget values. Empty fields keep their
// default and every value is clamped to its widget range.
func parseFormInputs(raw map[string]string) (ml.Inputs, error) {
	in := ml.DefaultInputs()
	for _, f := range ml.Fields {
		text := raw[f.Name]
		if text == "" {
			continue
		}
		v, err := strconv.ParseFloat(text, 64)
		if err != nil {
			return ml.Inputs{}, fmt.Errorf("%s %w", f.Label(), ml.ErrNotANumber)
		}
		if err := f.Check(v); err != nil {
			return ml.Inputs{}, err
		}
		if err := in.Set(f.Name, v); err != nil {
			return ml.Inputs{}, err
		}
	}
	return in.Clamped(), nil
}

// jsonInputs applies the request fields over the defaults. Field names match
// case-insensitively; the same field twice or a null value is rejected.
func jsonInputs(body map[string]*float64) (ml.Inputs, error) {
	names := make([]string, 0, len(body))
	for name := range body {
		names = append(names, name)
	}
	sort.Strings(names)

	in := ml.DefaultInputs()
	seen := make(map[string]string, len(body))
	for _, name := range names {
		f, ok := ml.LookupField(name)
		if !ok {
			return ml.Inputs{}, fmt.Errorf("unknown feature %q", name)
		}
		if prev, dup := seen[f.Name]; dup {
			return ml.Inputs{}, fmt.Errorf("%s given twice (%q and %q)", f.Name, prev, name)
		}
		seen[f.Name] = name

		v := body[name]
		if v == nil {
			return ml.Inputs{}, fmt.Errorf("%s %w", f.Label(), ml.ErrNotANumber)
		}
		if err := in.Set(f.Name, *v); err != nil {
			return ml.Inputs{}, err
		}
	}
	return in.Clamped(), nil
}

func defaultValues() map[string]string {
	return formatInputs(ml.DefaultInputs())
}

func formatInputs(in ml.Inputs) map[string]string {
	values := make(map[string]string, len(ml.Fields))
	for _, f := range ml.Fields {
		v, _ := in.Get(f.Name)
		values[f.Name] = f.Format(v)
	}
	return values
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{"error": message})
}
