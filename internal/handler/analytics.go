package handler

import (
	"net/http"

	"github.com/mmeshcher/loanbook/internal/model"
)

type summaryResponse struct {
	Customers       int64            `json:"customers"`
	Loans           map[string]int64 `json:"loans"`
	ExpectedAmount  float64          `json:"expectedAmount"`
	CollectedAmount float64          `json:"collectedAmount"`
	Outstanding     float64          `json:"outstandingAmount"`
	DueToday        int64            `json:"dueToday"`
	CollectedToday  int64            `json:"collectedToday"`
}

type collectorStatsResponse struct {
	UserID          string  `json:"userId"`
	Name            string  `json:"name"`
	Collected       int64   `json:"collected"`
	CollectedAmount float64 `json:"collectedAmount"`
}

// Summary возвращает сводку по портфелю займов.
func (h *Handler) Summary(w http.ResponseWriter, r *http.Request) {
	s, err := h.service.Summary(r.Context())
	if err != nil {
		h.writeError(w, r, "analytics summary", err)
		return
	}

	loans := make(map[string]int64, len(s.LoansByStatus))
	for _, st := range model.LoanStatuses {
		loans[string(st)] = s.LoansByStatus[st]
	}

	h.success(w, http.StatusOK, "Summary retrieved successfully", summaryResponse{
		Customers:       s.Customers,
		Loans:           loans,
		ExpectedAmount:  s.ExpectedAmount.InexactFloat64(),
		CollectedAmount: s.CollectedAmount.InexactFloat64(),
		Outstanding:     s.Outstanding.InexactFloat64(),
		DueToday:        s.DueToday,
		CollectedToday:  s.CollectedToday,
	})
}

// CollectorStats возвращает показатели сборов по инкассаторам.
func (h *Handler) CollectorStats(w http.ResponseWriter, r *http.Request) {
	stats, err := h.service.CollectorStats(r.Context())
	if err != nil {
		h.writeError(w, r, "analytics collectors", err)
		return
	}

	resp := make([]collectorStatsResponse, 0, len(stats))
	for _, cs := range stats {
		resp = append(resp, collectorStatsResponse{
			UserID:          cs.UserID.String(),
			Name:            cs.Name,
			Collected:       cs.Collected,
			CollectedAmount: cs.CollectedAmount.InexactFloat64(),
		})
	}

	h.success(w, http.StatusOK, "Collector stats retrieved successfully", map[string]any{
		"collectors": resp,
	})
}
