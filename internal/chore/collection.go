// Package chore keeps paginated collections (tasks, projects) synchronized
// with the server that owns the authoritative dataset, and runs the side
// effects owed when a work interval completes.
package chore

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/beocaca/pomo.do/internal/api"
)

// Item is anything the server lists with an id and a human-readable label.
type Item interface {
	ItemID() int64
	Label() string
}

// Source is one remote collection endpoint. List returns the requested page
// window and the total count of matching items across all pages.
type Source[T Item] interface {
	List(ctx context.Context, page, pageSize int) ([]T, int, error)
	Create(ctx context.Context, item T) (T, error)
	Delete(ctx context.Context, id int64) error
}

// Notifier is the user-facing message sink. Implementations must not block.
type Notifier interface {
	Success(message string)
	Info(message string)
	Error(message string)
}

// Collection caches the current page window of one remote collection and
// re-derives page state after every mutation so the cursor never points past
// the end of the data. All mutation waits for server confirmation; nothing
// is applied optimistically.
type Collection[T Item] struct {
	source Source[T]
	notify Notifier
	kind   string // "Task" or "Project", used in notifications

	items    []T
	page     int // 1-based
	pageSize int
	total    int // server-reported count across all pages
}

func NewCollection[T Item](source Source[T], notify Notifier, kind string, pageSize int) *Collection[T] {
	return &Collection[T]{
		source:   source,
		notify:   notify,
		kind:     kind,
		page:     1,
		pageSize: pageSize,
	}
}

func (c *Collection[T]) Items() []T    { return c.items }
func (c *Collection[T]) Page() int     { return c.page }
func (c *Collection[T]) PageSize() int { return c.pageSize }
func (c *Collection[T]) Total() int    { return c.total }

// TotalPages derives the page count from the server-reported total; zero
// when the collection is empty.
func (c *Collection[T]) TotalPages() int {
	return (c.total + c.pageSize - 1) / c.pageSize
}

// FetchPage replaces the window and total wholesale from the server. On any
// failure the previous window stays untouched: stale but consistent. An
// empty result for an out-of-range page is not an error.
func (c *Collection[T]) FetchPage(ctx context.Context) error {
	items, total, err := c.source.List(ctx, c.page, c.pageSize)
	if err != nil {
		return fmt.Errorf("fetch %ss page %d: %w", c.kind, c.page, err)
	}
	c.items = items
	c.total = total
	return nil
}

// Create submits the item and, once the server confirms, jumps back to the
// first page so the new item (sorted by recency) is visible.
func (c *Collection[T]) Create(ctx context.Context, item T) error {
	created, err := c.source.Create(ctx, item)
	if err != nil {
		return fmt.Errorf("create %s: %w", c.kind, err)
	}
	c.page = 1
	if c.notify != nil {
		c.notify.Success(fmt.Sprintf("%s '%s' created!", c.kind, created.Label()))
	}
	return c.FetchPage(ctx)
}

// Delete removes the item on the server, then reconciles the window. When
// the deletion empties the whole collection the item is pruned locally with
// no extra round trip; otherwise the page is refetched, rewinding first if
// the cursor would point past the new last page.
func (c *Collection[T]) Delete(ctx context.Context, id int64) error {
	label := fmt.Sprintf("#%d", id)
	for _, item := range c.items {
		if item.ItemID() == id {
			label = item.Label()
			break
		}
	}

	if err := c.source.Delete(ctx, id); err != nil {
		// The server not knowing the id means someone else already deleted
		// it; there is nothing to undo locally.
		var statusErr *api.StatusError
		if errors.As(err, &statusErr) && statusErr.Code == http.StatusNotFound {
			return nil
		}
		return fmt.Errorf("delete %s %d: %w", c.kind, id, err)
	}
	c.total--
	if c.notify != nil {
		c.notify.Info(fmt.Sprintf("%s '%s' deleted", c.kind, label))
	}

	if len(c.items) == 1 && c.total <= 0 {
		// Whole collection is gone: prune locally, skip the round trip.
		c.items = nil
		c.total = 0
		c.page = 1
		return nil
	}

	// Deleting the sole item of the last page leaves the cursor past the
	// end; rewind before refetching.
	if len(c.items) == 1 && c.page > 1 && c.page > c.TotalPages() {
		c.page--
	}
	return c.FetchPage(ctx)
}

// SetPage moves the cursor without fetching; callers follow up with
// FetchPage to materialize the window.
func (c *Collection[T]) SetPage(n int) {
	if n >= 1 {
		c.page = n
	}
}

// NextPage is a no-op on the last page.
func (c *Collection[T]) NextPage() {
	if c.page < c.TotalPages() {
		c.page++
	}
}

// PreviousPage is a no-op on the first page.
func (c *Collection[T]) PreviousPage() {
	if c.page > 1 {
		c.page--
	}
}
