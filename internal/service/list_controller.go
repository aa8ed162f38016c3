package service

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/noah-isme/employee-admin-client/internal/dto"
	"github.com/noah-isme/employee-admin-client/internal/models"
	"github.com/noah-isme/employee-admin-client/pkg/config"
	"github.com/noah-isme/employee-admin-client/pkg/debounce"
	appErrors "github.com/noah-isme/employee-admin-client/pkg/errors"
)

// DefaultSearchDebounce is the quiet period before a typed search is applied.
const DefaultSearchDebounce = 400 * time.Millisecond

type employeeLister interface {
	List(ctx context.Context, params dto.ListParams) ([]models.Employee, error)
}

type errorNotifier interface {
	Error(message string) models.Notification
}

// ListConfig tunes a ListController.
type ListConfig struct {
	PageSize int
	Debounce time.Duration
}

// ListSnapshot is what a list view renders.
type ListSnapshot struct {
	State       models.ListQueryState
	Loading     bool
	Err         error
	Items       []models.Employee
	HasNextPage bool
}

// ListController owns the query state of one employee list view. Every
// effective state change issues a fresh query; responses to superseded
// queries are dropped.
type ListController struct {
	repo     employeeLister
	notifier errorNotifier
	search   *debounce.Debouncer
	logger   *zap.Logger

	mu          sync.Mutex
	ctx         context.Context
	mounted     bool
	closed      bool
	state       models.ListQueryState
	generation  uint64
	loading     bool
	err         error
	items       []models.Employee
	hasNextPage bool

	subscribers listeners[ListSnapshot]
}

// NewListController constructs a ListController. A nil scheduler uses
// wall-clock timers.
func NewListController(repo employeeLister, notifier errorNotifier, cfg ListConfig, scheduler debounce.Scheduler, logger *zap.Logger) *ListController {
	if logger == nil {
		logger = zap.NewNop()
	}
	if !config.IsAllowedPageSize(cfg.PageSize) {
		cfg.PageSize = config.DefaultPageSize
	}
	if cfg.Debounce <= 0 {
		cfg.Debounce = DefaultSearchDebounce
	}
	return &ListController{
		repo:     repo,
		notifier: notifier,
		search:   debounce.NewDebouncer(cfg.Debounce, scheduler),
		logger:   logger,
		ctx:      context.Background(),
		state:    models.DefaultListQueryState(cfg.PageSize),
		items:    []models.Employee{},
	}
}

// Mount issues the initial query. State changes made before Mount only
// update state. ctx is also used by debounced searches.
func (c *ListController) Mount(ctx context.Context) error {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return appErrors.Clone(appErrors.ErrInvalidState, "list controller is closed")
	}
	c.ctx = ctx
	c.mounted = true
	state := c.state
	c.mu.Unlock()
	return c.fetch(ctx, state)
}

// Close cancels any pending search and ignores in-flight responses.
func (c *ListController) Close() {
	c.search.Cancel()
	c.mu.Lock()
	c.closed = true
	c.loading = false
	c.mu.Unlock()
}

// SetPage moves to zero-based page n.
func (c *ListController) SetPage(ctx context.Context, n int) error {
	if n < 0 {
		return appErrors.Clone(appErrors.ErrInvalidState, "page must not be negative")
	}
	return c.apply(ctx, func(s *models.ListQueryState) { s.Page = n })
}

// NextPage advances one page when the last response suggested more exist.
func (c *ListController) NextPage(ctx context.Context) error {
	c.mu.Lock()
	hasNext, page := c.hasNextPage, c.state.Page
	c.mu.Unlock()
	if !hasNext {
		return appErrors.Clone(appErrors.ErrInvalidState, "already on the last page")
	}
	return c.SetPage(ctx, page+1)
}

// PrevPage goes back one page.
func (c *ListController) PrevPage(ctx context.Context) error {
	c.mu.Lock()
	page := c.state.Page
	c.mu.Unlock()
	if page == 0 {
		return appErrors.Clone(appErrors.ErrInvalidState, "already on the first page")
	}
	return c.SetPage(ctx, page-1)
}

// SetPageSize changes the page size and returns to the first page.
func (c *ListController) SetPageSize(ctx context.Context, size int) error {
	if !config.IsAllowedPageSize(size) {
		return appErrors.Clone(appErrors.ErrInvalidState, fmt.Sprintf("page size must be one of %v", config.AllowedPageSizes))
	}
	return c.apply(ctx, func(s *models.ListQueryState) {
		s.PageSize = size
		s.Page = 0
	})
}

// SetSort orders the list by field in direction order.
func (c *ListController) SetSort(ctx context.Context, field models.SortField, order models.SortOrder) error {
	if !field.Valid() {
		return appErrors.Clone(appErrors.ErrInvalidState, fmt.Sprintf("unknown sort field %q", field))
	}
	if !order.Valid() {
		return appErrors.Clone(appErrors.ErrInvalidState, fmt.Sprintf("unknown sort order %q", order))
	}
	return c.apply(ctx, func(s *models.ListQueryState) {
		s.SortBy = field
		s.SortOrder = order
	})
}

// SetSearch records typed text immediately and applies it after the quiet
// period. Each call replaces the pending application. Before Mount there is
// nothing to debounce, so the text is applied to the state at once.
func (c *ListController) SetSearch(text string) {
	c.mu.Lock()
	if c.state.SearchText == text {
		c.mu.Unlock()
		return
	}
	c.state.SearchText = text
	mounted := c.mounted
	if !mounted && c.state.AppliedSearch != text {
		c.state.AppliedSearch = text
		c.state.Page = 0
	}
	c.mu.Unlock()
	c.publish()

	if !mounted {
		return
	}
	c.search.Debounce(c.applySearch)
}

// SearchNow applies text without waiting for the quiet period.
func (c *ListController) SearchNow(ctx context.Context, text string) error {
	c.search.Cancel()
	return c.apply(ctx, func(s *models.ListQueryState) {
		s.SearchText = text
		if s.AppliedSearch != text {
			s.Page = 0
		}
		s.AppliedSearch = text
	})
}

func (c *ListController) applySearch() {
	c.mu.Lock()
	ctx := c.ctx
	c.mu.Unlock()
	err := c.apply(ctx, func(s *models.ListQueryState) {
		s.AppliedSearch = s.SearchText
		s.Page = 0
	})
	if err != nil {
		c.logger.Debug("debounced search failed", zap.Error(err))
	}
}

// SetAttributeFilter narrows the list by class and age range. Empty class and
// nil bounds clear the respective criterion.
func (c *ListController) SetAttributeFilter(ctx context.Context, class string, minAge, maxAge *int) error {
	if minAge != nil && maxAge != nil && *minAge > *maxAge {
		return appErrors.Validation("invalid age range", map[string]string{"minAge": "minAge must not exceed maxAge"})
	}
	return c.apply(ctx, func(s *models.ListQueryState) {
		s.Class = class
		s.MinAge = copyInt(minAge)
		s.MaxAge = copyInt(maxAge)
		s.Page = 0
	})
}

// Refetch re-issues the query for the current state. It is a no-op until the
// controller is mounted.
func (c *ListController) Refetch(ctx context.Context) error {
	c.mu.Lock()
	state := c.state
	mounted := c.mounted && !c.closed
	c.mu.Unlock()
	if !mounted {
		return nil
	}
	return c.fetch(ctx, state)
}

// Params returns the query variables the current state produces.
func (c *ListController) Params() dto.ListParams {
	c.mu.Lock()
	defer c.mu.Unlock()
	return dto.ParamsFromState(c.state)
}

// Snapshot returns the current view.
func (c *ListController) Snapshot() ListSnapshot {
	c.mu.Lock()
	defer c.mu.Unlock()
	items := make([]models.Employee, len(c.items))
	copy(items, c.items)
	return ListSnapshot{
		State:       c.state,
		Loading:     c.loading,
		Err:         c.err,
		Items:       items,
		HasNextPage: c.hasNextPage,
	}
}

// Subscribe registers fn for state changes and returns an unsubscribe func.
func (c *ListController) Subscribe(fn func(ListSnapshot)) func() {
	return c.subscribers.add(fn)
}

func (c *ListController) publish() {
	c.subscribers.emit(c.Snapshot())
}

// apply mutates state and queries only when the query variables changed.
func (c *ListController) apply(ctx context.Context, mutate func(*models.ListQueryState)) error {
	c.mu.Lock()
	prev := c.state
	next := c.state
	mutate(&next)
	c.state = next
	mounted := c.mounted && !c.closed
	c.mu.Unlock()

	if !mounted || dto.ParamsFromState(prev).Equal(dto.ParamsFromState(next)) {
		c.publish()
		return nil
	}
	return c.fetch(ctx, next)
}

func (c *ListController) fetch(ctx context.Context, state models.ListQueryState) error {
	c.mu.Lock()
	c.generation++
	gen := c.generation
	c.loading = true
	c.mu.Unlock()
	c.publish()

	params := dto.ParamsFromState(state)
	c.logger.Debug("querying employees",
		zap.Uint64("generation", gen),
		zap.Int("page", params.Page),
		zap.Int("limit", params.Limit),
		zap.String("sort_by", string(params.SortBy)),
		zap.String("sort_order", string(params.SortOrder)),
		zap.Bool("filtered", params.Filter != nil),
	)
	items, err := c.repo.List(ctx, params)

	c.mu.Lock()
	if gen != c.generation || c.closed {
		c.mu.Unlock()
		c.logger.Debug("dropping stale employee list response", zap.Uint64("generation", gen))
		return nil
	}
	c.loading = false
	if err != nil {
		c.err = err
		c.items = []models.Employee{}
		c.hasNextPage = false
	} else {
		c.err = nil
		c.items = items
		// no total count is available, a full page is taken to mean more may follow
		c.hasNextPage = len(items) == state.PageSize
	}
	c.mu.Unlock()
	c.publish()

	if err != nil {
		if errors.Is(err, context.Canceled) {
			return err
		}
		if c.notifier != nil {
			c.notifier.Error(appErrors.UserMessage(err))
		}
		return err
	}
	return nil
}

func copyInt(v *int) *int {
	if v == nil {
		return nil
	}
	out := *v
	return &out
}
