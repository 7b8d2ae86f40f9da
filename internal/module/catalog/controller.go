package catalog

import (
	"context"
	"sync"
	"time"

	"github.com/plexcars/catalog/internal/domain"
)

// NoProductsMessage is the soft error shown when a valid query matches
// nothing. It shares the error channel with transport failures but is
// always recoverable by further interaction.
const NoProductsMessage = "No products found"

// DefaultSearchDebounce is how long search input must stay idle before
// a fetch is issued.
const DefaultSearchDebounce = 500 * time.Millisecond

// ListState is a snapshot of the controller's view state. Items is
// owned by the receiver of the snapshot; the controller never mutates
// a slice it has handed out.
type ListState struct {
	Search  string
	Page    int
	Items   []domain.Car
	Total   int64
	Loading bool
	Err     string
	Sort    domain.SortOrder
}

// PageCount returns the number of pagination entries for this state.
func (s ListState) PageCount(perPage int) int {
	if perPage <= 0 || s.Total <= 0 {
		return 0
	}
	return int((s.Total + int64(perPage) - 1) / int64(perPage))
}

// ListController owns the catalog list view state: search text, current
// page, the fetched item set, and the loading/error flags. It
// coordinates debounced search input, page navigation, in-memory price
// resort, and gateway fetches.
//
// Fetches run on their own goroutine. Every issued fetch carries a
// generation number; a completion whose generation is no longer the
// latest issued is discarded, so two in-flight fetches can never apply
// out of order.
//
// All methods are safe for concurrent use.
type ListController struct {
	svc      domain.CatalogService
	debounce time.Duration
	onChange func(ListState)

	ctx    context.Context
	cancel context.CancelFunc

	mu          sync.Mutex
	state       ListState
	timer       *time.Timer
	debounceGen uint64 // identifies the live debounce timer
	fetchGen    uint64 // latest issued fetch
	closed      bool
}

// ControllerOption configures a ListController.
type ControllerOption func(*ListController)

// WithDebounce overrides the search debounce interval.
func WithDebounce(d time.Duration) ControllerOption {
	return func(c *ListController) {
		if d > 0 {
			c.debounce = d
		}
	}
}

// WithOnChange registers a callback invoked with a state snapshot after
// every transition. The callback runs while no controller lock is held
// and may call back into the controller.
func WithOnChange(fn func(ListState)) ControllerOption {
	return func(c *ListController) { c.onChange = fn }
}

// NewListController creates a controller over the given service. Call
// Refresh to issue the initial fetch and Close to tear the controller
// down.
func NewListController(svc domain.CatalogService, opts ...ControllerOption) *ListController {
	if svc == nil {
		panic("catalog.NewListController: service must not be nil")
	}
	ctx, cancel := context.WithCancel(context.Background())
	c := &ListController{
		svc:      svc,
		debounce: DefaultSearchDebounce,
		ctx:      ctx,
		cancel:   cancel,
		state:    ListState{Page: 1, Sort: domain.SortNone},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Snapshot returns a copy of the current view state.
func (c *ListController) Snapshot() ListState {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.snapshotLocked()
}

// Refresh issues a fetch for the current search text and page.
func (c *ListController) Refresh() {
	c.mu.Lock()
	search, page := c.state.Search, c.state.Page
	c.mu.Unlock()
	c.requestPage(search, page)
}

// SetSearch stores text immediately so the input echoes, then
// cancels-and-reschedules the single pending debounce timer. When the
// timer fires the page resets to 1 and one fetch is issued with the
// last value typed; rapid edits inside the debounce window collapse
// into that single fetch.
func (c *ListController) SetSearch(text string) {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return
	}
	c.state.Search = text
	c.stopTimerLocked()
	c.debounceGen++
	gen := c.debounceGen
	c.timer = time.AfterFunc(c.debounce, func() {
		c.mu.Lock()
		// A reschedule or cancel may have raced the firing timer.
		if c.closed || gen != c.debounceGen {
			c.mu.Unlock()
			return
		}
		c.timer = nil
		c.mu.Unlock()
		c.requestPage(text, 1)
	})
	snapshot := c.snapshotLocked()
	c.mu.Unlock()
	c.notify(snapshot)
}

// ClearSearch empties the search text, resets to page 1, and fetches
// immediately, bypassing any pending debounce.
func (c *ListController) ClearSearch() {
	c.cancelDebounce()
	c.requestPage("", 1)
}

// SubmitSearch fetches immediately with the current search text and
// current page, bypassing any pending debounce. The page is not reset.
func (c *ListController) SubmitSearch() {
	c.cancelDebounce()
	c.mu.Lock()
	search, page := c.state.Search, c.state.Page
	c.mu.Unlock()
	c.requestPage(search, page)
}

// SelectPage navigates to the zero-based page index (pagination widgets
// are zero-indexed; the domain is 1-indexed) and issues exactly one
// fetch. Like every fetch, it drops an active client-side price sort:
// the new page arrives in server order.
func (c *ListController) SelectPage(index int) {
	if index < 0 {
		index = 0
	}
	c.mu.Lock()
	search := c.state.Search
	c.mu.Unlock()
	c.requestPage(search, index+1)
}

// Sort applies the given order. SortNone refetches the current query so
// the gateway's own ordering is restored; asc/desc stably resort the
// in-memory items by price without any network call, leaving the total
// count and current page untouched.
func (c *ListController) Sort(order domain.SortOrder) {
	if order == domain.SortNone {
		c.mu.Lock()
		c.state.Sort = domain.SortNone
		search, page := c.state.Search, c.state.Page
		c.mu.Unlock()
		c.requestPage(search, page)
		return
	}

	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return
	}
	c.state.Items = sortedByPrice(c.state.Items, order)
	c.state.Sort = order
	snapshot := c.snapshotLocked()
	c.mu.Unlock()
	c.notify(snapshot)
}

// Close cancels the pending debounce timer and invalidates any
// in-flight fetch so late completions cannot touch state. The
// controller is unusable afterwards.
func (c *ListController) Close() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return
	}
	c.closed = true
	c.stopTimerLocked()
	c.fetchGen++
	c.cancel()
}

// requestPage commits search/page, resets Sort to SortNone (fetched
// pages arrive in server order), flips to the loading state, and
// issues the fetch on its own goroutine. The success path replaces
// items and total wholesale; the failure path zeroes them and records a
// message. Loading is cleared on every path.
func (c *ListController) requestPage(search string, page int) {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return
	}
	c.fetchGen++
	gen := c.fetchGen

	c.state.Search = search
	c.state.Page = page
	c.state.Loading = true
	c.state.Err = ""
	c.state.Sort = domain.SortNone
	snapshot := c.snapshotLocked()
	c.mu.Unlock()
	c.notify(snapshot)

	go func() {
		result, err := c.svc.ListCars(c.ctx, domain.ListQuery{Page: page, Search: search}, domain.SortNone)

		c.mu.Lock()
		if c.closed || gen != c.fetchGen {
			// A newer fetch was issued (or the controller shut down)
			// while this one was in flight; its result is stale.
			c.mu.Unlock()
			return
		}
		c.state.Loading = false
		if err != nil {
			c.state.Err = err.Error()
			c.state.Items = nil
			c.state.Total = 0
		} else {
			c.state.Items = result.Items
			c.state.Total = result.Total
			if len(result.Items) == 0 {
				c.state.Err = NoProductsMessage
			}
		}
		done := c.snapshotLocked()
		c.mu.Unlock()
		c.notify(done)
	}()
}

// cancelDebounce drops the pending debounce timer, if any.
func (c *ListController) cancelDebounce() {
	c.mu.Lock()
	c.stopTimerLocked()
	c.debounceGen++
	c.mu.Unlock()
}

func (c *ListController) stopTimerLocked() {
	if c.timer != nil {
		c.timer.Stop()
		c.timer = nil
	}
}

func (c *ListController) snapshotLocked() ListState {
	s := c.state
	if c.state.Items != nil {
		s.Items = make([]domain.Car, len(c.state.Items))
		copy(s.Items, c.state.Items)
	}
	return s
}

func (c *ListController) notify(s ListState) {
	if c.onChange != nil {
		c.onChange(s)
	}
}
