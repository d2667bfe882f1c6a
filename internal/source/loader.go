package source

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	gocache "github.com/patrickmn/go-cache"

	"github.com/ajwhitelaw/exclusion-dashboard/internal/domain"
	"github.com/ajwhitelaw/exclusion-dashboard/internal/normalize"
	"github.com/ajwhitelaw/exclusion-dashboard/internal/pkg/logger"
)

// Collection is one loaded, immutable set of normalized records together
// with where it came from. Everything downstream treats it as a value.
type Collection struct {
	Records     []domain.ExclusionRequest `json:"records"`
	Source      string                    `json:"source"` // "github", "snapshot-url", "snapshot-file"
	LastUpdated time.Time                 `json:"last_updated"`
}

const collectionCacheKey = "collection"

// Loader resolves the record collection: one try at the primary source,
// one fallback to the local snapshot file, nothing more. Successful loads
// are cached for the configured TTL so repeated dashboard calls within a
// session window see the same immutable collection.
type Loader struct {
	github      *GithubClient // nil when no tracker repo is configured
	snapshotURL string
	store       *SnapshotStore
	http        *http.Client
	cache       *gocache.Cache
	logger      *logger.Logger
	now         func() time.Time
}

func NewLoader(
	github *GithubClient,
	snapshotURL string,
	store *SnapshotStore,
	ttl time.Duration,
	log *logger.Logger,
) *Loader {
	return &Loader{
		github:      github,
		snapshotURL: snapshotURL,
		store:       store,
		http:        &http.Client{Timeout: 30 * time.Second},
		cache:       gocache.New(ttl, 2*ttl),
		logger:      log.Component("source/loader"),
		now:         time.Now,
	}
}

// Load returns the current collection, reusing the cached one while it is
// fresh. On a cache miss the primary source is tried once; if it fails the
// local snapshot file is tried once; if both fail the primary error is the
// one surfaced.
func (l *Loader) Load(ctx context.Context) (*Collection, error) {
	if cached, ok := l.cache.Get(collectionCacheKey); ok {
		return cached.(*Collection), nil
	}

	col, primaryErr := l.loadPrimary(ctx)
	if primaryErr != nil {
		l.logger.Warn("primary source failed, trying snapshot file",
			"error", primaryErr,
		)
		records, fallbackErr := l.store.Load()
		if fallbackErr != nil {
			return nil, fmt.Errorf("%w: primary: %v; fallback: %v",
				domain.ErrSourceUnavailable, primaryErr, fallbackErr)
		}
		col = &Collection{
			Records:     records,
			Source:      "snapshot-file",
			LastUpdated: l.now(),
		}
	}

	l.cache.Set(collectionCacheKey, col, gocache.DefaultExpiration)
	l.logger.Info("collection loaded",
		"source", col.Source,
		"records", len(col.Records),
	)
	return col, nil
}

// Invalidate flushes the cached collection so the next Load re-fetches.
func (l *Loader) Invalidate() {
	l.cache.Flush()
}

func (l *Loader) loadPrimary(ctx context.Context) (*Collection, error) {
	switch {
	case l.github != nil:
		records, err := l.github.Requests(ctx)
		if err != nil {
			return nil, err
		}
		l.refreshSnapshot(records)
		return &Collection{
			Records:     records,
			Source:      "github",
			LastUpdated: l.now(),
		}, nil

	case l.snapshotURL != "":
		return l.fetchSnapshotURL(ctx)

	default:
		// no remote source configured: the snapshot file IS the primary
		records, err := l.store.Load()
		if err != nil {
			return nil, err
		}
		return &Collection{
			Records:     records,
			Source:      "snapshot-file",
			LastUpdated: l.now(),
		}, nil
	}
}

func (l *Loader) fetchSnapshotURL(ctx context.Context) (*Collection, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, l.snapshotURL, nil)
	if err != nil {
		return nil, fmt.Errorf("build snapshot request: %w", err)
	}
	resp, err := l.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch snapshot: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("snapshot fetch: unexpected status %d", resp.StatusCode)
	}
	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read snapshot body: %w", err)
	}

	doc, err := DecodeDocument(raw)
	if err != nil {
		return nil, err
	}
	records := make([]domain.ExclusionRequest, 0, len(doc.Data))
	for _, rec := range doc.Data {
		records = append(records, normalize.FromRecord(rec))
	}

	lastUpdated := l.now()
	if t := normalize.ParseDate(doc.LastUpdated); t != nil {
		lastUpdated = *t
	}
	return &Collection{
		Records:     records,
		Source:      "snapshot-url",
		LastUpdated: lastUpdated,
	}, nil
}

// refreshSnapshot rewrites the local cache after a successful tracker
// fetch so the fallback path stays current. Best effort only.
func (l *Loader) refreshSnapshot(records []domain.ExclusionRequest) {
	if l.store == nil {
		return
	}
	fresh := make([]normalize.Record, 0, len(records))
	for _, r := range records {
		fresh = append(fresh, normalize.ToRecord(r))
	}
	if err := l.store.Write(fresh, l.now()); err != nil {
		l.logger.Warn("snapshot refresh failed", "error", err)
	}
}
