package http

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"math/rand"
	"net/http"
	"strconv"
	"strings"
	"time"

	"budgetai/internal/insights"
	"budgetai/internal/parse"
	"budgetai/internal/predict"
)

const maxUtteranceBody = 4 << 10

type createUtteranceRequest struct {
	Text string `json:"text"`
}

func (s *Server) handleCreateUtterance(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		w.Header().Set("Allow", "POST")
		writeError(w, http.StatusMethodNotAllowed, "method not allowed", "")
		return
	}

	var req createUtteranceRequest
	r.Body = http.MaxBytesReader(w, r.Body, maxUtteranceBody)
	if strings.HasPrefix(r.Header.Get("Content-Type"), "application/x-www-form-urlencoded") {
		if err := r.ParseForm(); err != nil {
			slog.ErrorContext(r.Context(), "Parse form error", "error", err, "url", r.URL.Path)
			writeError(w, http.StatusBadRequest, "invalid request body", "")
			return
		}
		req.Text = r.Form.Get("text")
	} else {
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			slog.ErrorContext(r.Context(), "Decode request error", "error", err, "url", r.URL.Path)
			writeError(w, http.StatusBadRequest, "invalid request body", "")
			return
		}
	}

	tx, err := s.parser.Parse(req.Text)
	if err != nil {
		if kind, ok := parse.FailureKindOf(err); ok {
			slog.InfoContext(r.Context(), "Utterance rejected",
				"kind", string(kind),
				"text_len", len(req.Text))
			writeError(w, http.StatusUnprocessableEntity, err.Error(), string(kind))
			return
		}
		slog.ErrorContext(r.Context(), "Parse error", "error", err)
		writeError(w, http.StatusInternalServerError, "internal error", "")
		return
	}

	ref, err := s.backend.Append(r.Context(), tx)
	if err != nil {
		slog.ErrorContext(r.Context(), "Append transaction error", "error", err)
		writeError(w, http.StatusInternalServerError, "failed to record transaction", "")
		return
	}

	// A new transaction changes every aggregate.
	s.summaryCache.Purge()
	s.forecastCache.Purge()

	writeJSON(w, http.StatusCreated, createdResponse{
		Ref:          ref,
		Confirmation: tx.Confirmation(),
		Transaction:  toTransactionDTO(tx),
	})
}

func (s *Server) handleListTransactions(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		w.Header().Set("Allow", "GET")
		writeError(w, http.StatusMethodNotAllowed, "method not allowed", "")
		return
	}

	year, month, err := yearMonthParams(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error(), "")
		return
	}

	txs, err := s.backend.ListTransactions(r.Context(), year, month)
	if err != nil {
		slog.ErrorContext(r.Context(), "List transactions error", "error", err)
		writeError(w, http.StatusInternalServerError, "failed to list transactions", "")
		return
	}

	out := make([]transactionDTO, 0, len(txs))
	for _, tx := range txs {
		out = append(out, toTransactionDTO(tx))
	}
	writeJSON(w, http.StatusOK, out)
}

func (s *Server) handleSummary(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		w.Header().Set("Allow", "GET")
		writeError(w, http.StatusMethodNotAllowed, "method not allowed", "")
		return
	}

	year, month, err := yearMonthParams(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error(), "")
		return
	}

	key := fmt.Sprintf("%04d-%02d", year, month)
	if cached, ok := s.summaryCache.Get(key); ok {
		writeJSON(w, http.StatusOK, toSummaryDTO(cached))
		return
	}

	summary, err := s.backend.ReadMonthSummary(r.Context(), year, month)
	if err != nil {
		slog.ErrorContext(r.Context(), "Read month summary error", "error", err)
		writeError(w, http.StatusInternalServerError, "failed to read summary", "")
		return
	}

	s.summaryCache.Set(key, summary)
	writeJSON(w, http.StatusOK, toSummaryDTO(summary))
}

func (s *Server) handleForecast(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		w.Header().Set("Allow", "GET")
		writeError(w, http.StatusMethodNotAllowed, "method not allowed", "")
		return
	}

	const key = "forecast"
	if cached, ok := s.forecastCache.Get(key); ok {
		writeJSON(w, http.StatusOK, toForecastDTO(cached))
		return
	}

	history, err := s.backend.ReadHistory(r.Context())
	if err != nil {
		slog.ErrorContext(r.Context(), "Read history error", "error", err)
		writeError(w, http.StatusInternalServerError, "failed to read history", "")
		return
	}

	forecast, err := s.forecaster.Forecast(history)
	if err != nil {
		if errors.Is(err, predict.ErrInsufficientHistory) {
			writeError(w, http.StatusUnprocessableEntity,
				"not enough history for a forecast", "insufficient_history")
			return
		}
		slog.ErrorContext(r.Context(), "Forecast error", "error", err)
		writeError(w, http.StatusInternalServerError, "failed to compute forecast", "")
		return
	}

	s.forecastCache.Set(key, forecast)
	writeJSON(w, http.StatusOK, toForecastDTO(forecast))
}

func (s *Server) handleAnalysis(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		w.Header().Set("Allow", "GET")
		writeError(w, http.StatusMethodNotAllowed, "method not allowed", "")
		return
	}

	history, err := s.backend.ListAll(r.Context())
	if err != nil {
		slog.ErrorContext(r.Context(), "List history error", "error", err)
		writeError(w, http.StatusInternalServerError, "failed to read history", "")
		return
	}

	// An empty history is a valid analysis: zero totals, no months.
	analysis, _ := insights.Analyze(history)
	writeJSON(w, http.StatusOK, toAnalysisDTO(analysis))
}

type tipResponse struct {
	Tip         string `json:"tip"`
	TopCategory string `json:"top_category,omitempty"`
}

func (s *Server) handleTip(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		w.Header().Set("Allow", "GET")
		writeError(w, http.StatusMethodNotAllowed, "method not allowed", "")
		return
	}

	history, err := s.backend.ListAll(r.Context())
	if err != nil {
		slog.ErrorContext(r.Context(), "List history error", "error", err)
		writeError(w, http.StatusInternalServerError, "failed to read history", "")
		return
	}

	analysis, ok := insights.Analyze(history)
	if !ok {
		writeJSON(w, http.StatusOK, tipResponse{Tip: insights.FirstTip})
		return
	}

	rng := rand.New(rand.NewSource(time.Now().UnixNano()))
	writeJSON(w, http.StatusOK, tipResponse{
		Tip:         insights.Tip(analysis.TopCategory, rng),
		TopCategory: string(analysis.TopCategory),
	})
}

// yearMonthParams reads optional year and month query params, defaulting
// to the current month.
func yearMonthParams(r *http.Request) (int, int, error) {
	now := time.Now()
	year := now.Year()
	month := int(now.Month())

	if v := r.URL.Query().Get("year"); v != "" {
		y, err := strconv.Atoi(v)
		if err != nil || y < 1970 || y > 9999 {
			return 0, 0, fmt.Errorf("invalid year %q", v)
		}
		year = y
	}
	if v := r.URL.Query().Get("month"); v != "" {
		m, err := strconv.Atoi(v)
		if err != nil || m < 1 || m > 12 {
			return 0, 0, fmt.Errorf("invalid month %q", v)
		}
		month = m
	}

	return year, month, nil
}
