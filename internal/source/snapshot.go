package source

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"sort"
	"time"

	"github.com/ajwhitelaw/exclusion-dashboard/internal/domain"
	"github.com/ajwhitelaw/exclusion-dashboard/internal/normalize"
	"github.com/ajwhitelaw/exclusion-dashboard/internal/pkg/logger"
)

// Document is the cached snapshot shape: a record array plus the time the
// cache was generated.
type Document struct {
	Data        []normalize.Record `json:"data"`
	LastUpdated string             `json:"last_updated,omitempty"`
}

// SnapshotStore reads and writes the local cached-JSON file, the only
// persisted artifact the dashboard keeps. The file holds either a full
// Document or, in its oldest form, a bare array of simplified entries.
type SnapshotStore struct {
	path   string
	limit  int
	logger *logger.Logger
}

func NewSnapshotStore(path string, limit int, log *logger.Logger) *SnapshotStore {
	return &SnapshotStore{
		path:   path,
		limit:  limit,
		logger: log.Component("source/snapshot"),
	}
}

func (s *SnapshotStore) Path() string { return s.path }

// Load reads and normalizes the snapshot file, whichever of the two
// on-disk shapes it holds.
func (s *SnapshotStore) Load() ([]domain.ExclusionRequest, error) {
	raw, err := os.ReadFile(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s", domain.ErrSnapshotNotFound, s.path)
		}
		return nil, fmt.Errorf("read snapshot: %w", err)
	}
	return s.decode(raw)
}

func (s *SnapshotStore) decode(raw []byte) ([]domain.ExclusionRequest, error) {
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 {
		return nil, fmt.Errorf("snapshot %s is empty", s.path)
	}

	// A bare array is the simplified entry list; an object is a Document.
	if trimmed[0] == '[' {
		var entries []normalize.Entry
		if err := json.Unmarshal(trimmed, &entries); err != nil {
			return nil, fmt.Errorf("decode snapshot entries: %w", err)
		}
		s.logger.Info("loaded simplified snapshot", "entries", len(entries))
		return normalize.FromEntries(entries, time.Now()), nil
	}

	doc, err := DecodeDocument(trimmed)
	if err != nil {
		return nil, err
	}
	records := make([]domain.ExclusionRequest, 0, len(doc.Data))
	for _, rec := range doc.Data {
		records = append(records, normalize.FromRecord(rec))
	}
	s.logger.Info("loaded cached snapshot",
		"records", len(records),
		"last_updated", doc.LastUpdated,
	)
	return records, nil
}

// DecodeDocument parses a cached snapshot document and rejects payloads
// without the expected data array.
func DecodeDocument(raw []byte) (*Document, error) {
	var doc Document
	if err := json.Unmarshal(raw, &doc); err != nil {
		return nil, fmt.Errorf("decode snapshot document: %w", err)
	}
	if doc.Data == nil {
		return nil, fmt.Errorf("snapshot document has no data array")
	}
	return &doc, nil
}

// Write replaces the snapshot file with a fresh document, merging in any
// surviving local-only records first.
func (s *SnapshotStore) Write(fresh []normalize.Record, generatedAt time.Time) error {
	existing := s.existingRecords()
	merged := MergeRecords(fresh, existing, s.limit)

	doc := Document{
		Data:        merged,
		LastUpdated: generatedAt.UTC().Format(time.RFC3339),
	}
	raw, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return fmt.Errorf("encode snapshot: %w", err)
	}
	if err := os.WriteFile(s.path, raw, 0o644); err != nil {
		return fmt.Errorf("write snapshot: %w", err)
	}

	s.logger.Info("snapshot written",
		"path", s.path,
		"records", len(merged),
	)
	return nil
}

func (s *SnapshotStore) existingRecords() []normalize.Record {
	raw, err := os.ReadFile(s.path)
	if err != nil {
		return nil
	}
	doc, err := DecodeDocument(bytes.TrimSpace(raw))
	if err != nil {
		return nil
	}
	return doc.Data
}

// MergeRecords combines freshly fetched tracker records with whatever the
// previous snapshot held. Tracker data wins by issue number; local-only
// records survive the merge when they carry the essential fields. The
// result is sorted newest first and capped to keep the file manageable.
func MergeRecords(fresh, existing []normalize.Record, limit int) []normalize.Record {
	byNumber := make(map[int]bool, len(fresh))
	merged := make([]normalize.Record, 0, len(fresh)+len(existing))
	for _, rec := range fresh {
		if complete(rec) {
			merged = append(merged, rec)
			byNumber[rec.IssueNumber] = true
		}
	}
	for _, rec := range existing {
		if rec.IssueNumber != 0 && byNumber[rec.IssueNumber] {
			continue
		}
		if complete(rec) {
			merged = append(merged, rec)
		}
	}

	sort.SliceStable(merged, func(i, j int) bool {
		return merged[i].CreatedAt.After(merged[j].CreatedAt)
	})
	if limit > 0 && len(merged) > limit {
		merged = merged[:limit]
	}
	return merged
}

// complete reports whether a record carries the fields a snapshot entry is
// useless without.
func complete(rec normalize.Record) bool {
	return rec.TeamName != "" && rec.StartDate != "" && rec.BusinessArea != ""
}
