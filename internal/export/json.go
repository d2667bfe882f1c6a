package export

import (
	"encoding/json"
	"fmt"
	"io"
	"time"

	"github.com/ajwhitelaw/exclusion-dashboard/internal/domain"
)

// JSONDocument mirrors the filtered collection, optionally with the
// aggregated statistics attached.
type JSONDocument struct {
	ExportedAt   time.Time                 `json:"exported_at"`
	Count        int                       `json:"count"`
	Requests     []domain.ExclusionRequest `json:"requests"`
	SummaryStats *domain.Stats             `json:"summary_stats,omitempty"`
}

// WriteJSON writes the collection as an indented JSON document. Pass nil
// stats to omit the summary block.
func WriteJSON(w io.Writer, records []domain.ExclusionRequest, stats *domain.Stats, exportedAt time.Time) error {
	doc := JSONDocument{
		ExportedAt:   exportedAt,
		Count:        len(records),
		Requests:     records,
		SummaryStats: stats,
	}
	if doc.Requests == nil {
		doc.Requests = []domain.ExclusionRequest{}
	}

	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(doc); err != nil {
		return fmt.Errorf("encode export document: %w", err)
	}
	return nil
}
