package http

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"budgetai/internal/core"
	"budgetai/internal/insights"
	"budgetai/internal/predict"
)

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("Failed to encode response", "error", err)
	}
}

type errorResponse struct {
	Error string `json:"error"`
	Kind  string `json:"kind,omitempty"`
}

func writeError(w http.ResponseWriter, status int, msg, kind string) {
	writeJSON(w, status, errorResponse{Error: msg, Kind: kind})
}

type transactionDTO struct {
	Amount      string `json:"amount"`
	AmountCents int64  `json:"amount_cents"`
	Category    string `json:"category"`
	RawText     string `json:"raw_text"`
	CreatedAt   string `json:"created_at"`
}

func toTransactionDTO(tx core.Transaction) transactionDTO {
	return transactionDTO{
		Amount:      tx.Amount.String(),
		AmountCents: tx.Amount.Cents,
		Category:    string(tx.Category),
		RawText:     tx.RawText,
		CreatedAt:   tx.CreatedAt.UTC().Format(time.RFC3339Nano),
	}
}

type createdResponse struct {
	Ref          string         `json:"ref"`
	Confirmation string         `json:"confirmation"`
	Transaction  transactionDTO `json:"transaction"`
}

type categoryAmountDTO struct {
	Category   string `json:"category"`
	Total      string `json:"total"`
	TotalCents int64  `json:"total_cents"`
}

type summaryDTO struct {
	Year       int                 `json:"year"`
	Month      int                 `json:"month"`
	Total      string              `json:"total"`
	TotalCents int64               `json:"total_cents"`
	Count      int                 `json:"count"`
	ByCategory []categoryAmountDTO `json:"by_category"`
}

func toSummaryDTO(s core.MonthSummary) summaryDTO {
	out := summaryDTO{
		Year:       s.Year,
		Month:      s.Month,
		Total:      s.Total.String(),
		TotalCents: s.Total.Cents,
		Count:      s.Count,
		ByCategory: make([]categoryAmountDTO, 0, len(s.ByCategory)),
	}
	for _, ca := range s.ByCategory {
		out.ByCategory = append(out.ByCategory, categoryAmountDTO{
			Category:   string(ca.Category),
			Total:      ca.Amount.String(),
			TotalCents: ca.Amount.Cents,
		})
	}
	return out
}

type monthTotalDTO struct {
	Year       int    `json:"year"`
	Month      int    `json:"month"`
	Total      string `json:"total"`
	TotalCents int64  `json:"total_cents"`
}

type analysisDTO struct {
	Total       string          `json:"total"`
	TotalCents  int64           `json:"total_cents"`
	Count       int             `json:"count"`
	TopCategory string          `json:"top_category,omitempty"`
	Monthly     []monthTotalDTO `json:"monthly"`
}

func toAnalysisDTO(a insights.Analysis) analysisDTO {
	out := analysisDTO{
		Total:       a.Total.String(),
		TotalCents:  a.Total.Cents,
		Count:       a.Count,
		TopCategory: string(a.TopCategory),
		Monthly:     make([]monthTotalDTO, 0, len(a.Monthly)),
	}
	for _, m := range a.Monthly {
		out.Monthly = append(out.Monthly, monthTotalDTO{
			Year:       m.Year,
			Month:      int(m.Month),
			Total:      m.Total.String(),
			TotalCents: m.Total.Cents,
		})
	}
	return out
}

type forecastDTO struct {
	Next      string  `json:"next"`
	NextCents int64   `json:"next_cents"`
	Slope     float64 `json:"slope"`
	Trend     string  `json:"trend"`
	Samples   int     `json:"samples"`
}

func toForecastDTO(f predict.Forecast) forecastDTO {
	return forecastDTO{
		Next:      f.Next.String(),
		NextCents: f.Next.Cents,
		Slope:     f.Slope,
		Trend:     string(f.Trend),
		Samples:   f.Samples,
	}
}
