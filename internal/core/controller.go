package core

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	"storen/internal/imaging"
)

// Phase is the controller's lifecycle state. Idle before the first load,
// Loading while a fetch is in flight, Ready after a published result, Error
// after a failed load. Only a fresh trigger leaves Error.
type Phase string

const (
	PhaseIdle    Phase = "idle"
	PhaseLoading Phase = "loading"
	PhaseReady   Phase = "ready"
	PhaseError   Phase = "error"
)

const (
	// DefaultDebounce is the quiet period after the last keystroke before a
	// search-triggered refetch fires.
	DefaultDebounce = 500 * time.Millisecond
	// DefaultMaxImageBytes is the upload byte budget enforced by the image
	// pipeline before an asset reaches the object store.
	DefaultMaxImageBytes = 300 << 10
)

// View is the read-only model published to the UI collaborator after each
// load cycle. Error is a single message slot: the last failure wins and stays
// until dismissed or overwritten.
type View struct {
	Items      []EnrichedStockItem `json:"items"`
	TotalCount int                 `json:"total_count"`
	Page       int                 `json:"page"`
	TotalPages int                 `json:"total_pages"`
	Loading    bool                `json:"loading"`
	Error      string              `json:"error,omitempty"`
}

// ControllerConfig tunes the SyncController. Zero values fall back to the
// defaults above; tests shrink Debounce to keep the suite fast.
type ControllerConfig struct {
	PageSize      int
	MaxImageBytes int
	Debounce      time.Duration
}

// SyncController orchestrates catalog refresh, query building, enrichment,
// and mutations for the stock view. Filter and page changes fetch
// immediately; search keystrokes are debounced. Every fetch carries a
// sequence number and responses older than the last applied one are
// discarded, so an early-issued request that resolves late cannot overwrite
// newer data.
type SyncController struct {
	tables        TableStore
	blobs         BlobStore
	catalog       *ReferenceCatalog
	maxImageBytes int
	debounceAfter time.Duration

	mu      sync.Mutex
	state   QueryState
	phase   Phase
	view    View
	seq     uint64
	applied uint64
	pending *time.Timer
}

func NewSyncController(tables TableStore, blobs BlobStore, cfg ControllerConfig) *SyncController {
	if cfg.PageSize <= 0 {
		cfg.PageSize = DefaultPageSize
	}
	if cfg.MaxImageBytes <= 0 {
		cfg.MaxImageBytes = DefaultMaxImageBytes
	}
	if cfg.Debounce <= 0 {
		cfg.Debounce = DefaultDebounce
	}
	return &SyncController{
		tables:        tables,
		blobs:         blobs,
		catalog:       NewReferenceCatalog(tables),
		maxImageBytes: cfg.MaxImageBytes,
		debounceAfter: cfg.Debounce,
		state:         QueryState{Page: 1, PageSize: cfg.PageSize},
		phase:         PhaseIdle,
	}
}

// Catalog exposes the reference snapshot for listing and resolution.
func (c *SyncController) Catalog() *ReferenceCatalog {
	return c.catalog
}

// Load runs one full load cycle: refresh the reference catalog, fetch the
// current page, enrich each row, publish. A catalog half that fails to
// refresh keeps its stale snapshot and only surfaces the error; a failed
// stock fetch moves the controller to PhaseError without touching the
// previous item list.
func (c *SyncController) Load(ctx context.Context) {
	c.mu.Lock()
	c.seq++
	seq := c.seq
	state := c.state
	c.phase = PhaseLoading
	c.view.Loading = true
	c.mu.Unlock()

	refreshErr := c.catalog.Refresh(ctx)
	rows, total, err := c.tables.SelectStock(ctx, BuildQuery(state))

	c.mu.Lock()
	defer c.mu.Unlock()
	if seq < c.applied {
		// A newer response has already been applied.
		return
	}
	c.applied = seq

	if err != nil {
		c.phase = PhaseError
		c.view.Loading = false
		c.view.Error = err.Error()
		return
	}

	items := make([]EnrichedStockItem, 0, len(rows))
	for _, row := range rows {
		items = append(items, Enrich(row, c.catalog))
	}
	c.phase = PhaseReady
	c.view = View{
		Items:      items,
		TotalCount: total,
		Page:       state.Page,
		TotalPages: TotalPages(total, state.PageSize),
		Loading:    false,
	}
	if refreshErr != nil {
		c.view.Error = refreshErr.Error()
	}
}

// SetFilters replaces the category/warehouse filters, resets to the first
// page, and fetches immediately.
func (c *SyncController) SetFilters(ctx context.Context, category, warehouse string) {
	c.mu.Lock()
	c.state = c.state.WithFilters(category, warehouse)
	c.mu.Unlock()
	c.Load(ctx)
}

// SetPage moves to page n and fetches immediately. Pages past the end come
// back empty rather than failing.
func (c *SyncController) SetPage(ctx context.Context, n int) {
	if n < 1 {
		n = 1
	}
	c.mu.Lock()
	c.state = c.state.WithPage(n)
	c.mu.Unlock()
	c.Load(ctx)
}

// SetSearch updates the visible search term immediately but defers the
// refetch until the debounce period has passed without another keystroke.
// A superseding keystroke cancels the pending refetch and reschedules it.
func (c *SyncController) SetSearch(term string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.state = c.state.WithSearch(term)
	if c.pending != nil {
		c.pending.Stop()
	}
	c.pending = time.AfterFunc(c.debounceAfter, func() {
		c.Load(context.Background())
	})
}

// QueryStateSnapshot returns the current (possibly not yet fetched) query
// state, reflecting search keystrokes before their debounced refetch fires.
func (c *SyncController) QueryStateSnapshot() QueryState {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

// SubmitCreate uploads the form's pending asset (if any), writes the new row,
// and re-runs the full load cycle. There is no optimistic local patch: the
// published list always comes from a fresh fetch.
func (c *SyncController) SubmitCreate(ctx context.Context, form ItemForm) error {
	if err := c.attachAsset(ctx, &form); err != nil {
		c.surface(err)
		return err
	}
	row := ToStorageRow(form, c.catalog)
	if _, err := c.tables.InsertStock(ctx, row); err != nil {
		c.surface(err)
		return err
	}
	c.Load(ctx)
	return nil
}

// SubmitUpdate reconciles the edit form back into a storage row and replaces
// the stored record, then reloads. On failure the prior view is untouched.
func (c *SyncController) SubmitUpdate(ctx context.Context, id int64, form ItemForm) error {
	if err := c.attachAsset(ctx, &form); err != nil {
		c.surface(err)
		return err
	}
	row := ToStorageRow(form, c.catalog)
	if err := c.tables.UpdateStock(ctx, id, row); err != nil {
		c.surface(err)
		return err
	}
	c.Load(ctx)
	return nil
}

// SubmitDelete removes a row and reloads.
func (c *SyncController) SubmitDelete(ctx context.Context, id int64) error {
	if err := c.tables.DeleteStock(ctx, id); err != nil {
		c.surface(err)
		return err
	}
	c.Load(ctx)
	return nil
}

// AddCategory appends a category to the reference catalog.
func (c *SyncController) AddCategory(ctx context.Context, name string) (Entry, error) {
	return c.addEntry(ctx, RefCategory, name)
}

// AddWarehouse appends a warehouse to the reference catalog.
func (c *SyncController) AddWarehouse(ctx context.Context, name string) (Entry, error) {
	return c.addEntry(ctx, RefWarehouse, name)
}

func (c *SyncController) addEntry(ctx context.Context, kind RefKind, name string) (Entry, error) {
	entry, err := c.catalog.Append(ctx, kind, name)
	if err != nil {
		c.surface(err)
		return Entry{}, err
	}
	return entry, nil
}

// Snapshot returns a copy of the published view model.
func (c *SyncController) Snapshot() View {
	c.mu.Lock()
	defer c.mu.Unlock()
	view := c.view
	view.Items = make([]EnrichedStockItem, len(c.view.Items))
	copy(view.Items, c.view.Items)
	return view
}

// State returns the controller's lifecycle phase.
func (c *SyncController) State() Phase {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.phase
}

// DismissError clears the user-visible error slot.
func (c *SyncController) DismissError() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.view.Error = ""
}

// attachAsset compresses and uploads the form's pending asset, replacing it
// with the resulting public thumbnail URL. Object names are random and
// independent of the original filename; the extension follows the encoded
// output. Compression and upload are single-shot: a failure is terminal for
// this asset and surfaces to the caller, never retried.
func (c *SyncController) attachAsset(ctx context.Context, form *ItemForm) error {
	if form.Asset == nil {
		return nil
	}
	asset, err := imaging.Compress(form.Asset.Data, c.maxImageBytes)
	if err != nil {
		return err
	}
	objectName := uuid.NewString() + asset.Ext
	if err := c.blobs.Upload(ctx, objectName, asset.Data, asset.ContentType); err != nil {
		return err
	}
	url := c.blobs.PublicURL(objectName)
	form.Thumbnail = &url
	form.Asset = nil
	return nil
}

// surface records a mutation failure in the error slot without disturbing the
// published items. Last error wins.
func (c *SyncController) surface(err error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.view.Error = err.Error()
}
