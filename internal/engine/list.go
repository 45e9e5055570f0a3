package engine

import (
	"context"
	"fmt"

	"admin-console/internal/api"
	"admin-console/internal/resource"
)

// DefaultPageSize is the page size a fresh list controller starts with.
const DefaultPageSize = 10

// PageSizes are the selectable page sizes.
var PageSizes = []int{5, 10, 20, 50}

// ListController drives paginated listing for one resource: it owns page,
// page size, total and the current page's rows, and re-fetches on demand.
// Every successful load replaces the row set wholesale.
type ListController struct {
	client *api.Client
	desc   *resource.Descriptor

	page     int
	pageSize int
	total    int

	rows    []api.Row
	loading bool
	filter  Filter
}

func NewListController(client *api.Client, desc *resource.Descriptor) *ListController {
	return &ListController{
		client:   client,
		desc:     desc,
		page:     1,
		pageSize: DefaultPageSize,
	}
}

// Load fetches the current page. On failure the rows are cleared and the
// error is returned for the caller to surface; the controller stays usable
// and a retry is just another Load.
func (l *ListController) Load(ctx context.Context) error {
	l.loading = true
	defer func() { l.loading = false }()

	rows, meta, err := l.client.List(ctx, l.desc.Path, l.page, l.pageSize)
	if err != nil {
		l.rows = nil
		l.total = 0
		return err
	}

	l.rows = rows
	l.total = meta.Total
	l.clamp()
	return nil
}

// Rows returns the fetched page with the client-side filter applied.
func (l *ListController) Rows() []api.Row {
	return ApplyClientFilter(l.rows, l.desc, l.filter)
}

// RawRows returns the fetched page without filtering.
func (l *ListController) RawRows() []api.Row {
	return l.rows
}

func (l *ListController) Loading() bool { return l.loading }
func (l *ListController) Page() int     { return l.page }
func (l *ListController) PageSize() int { return l.pageSize }
func (l *ListController) Total() int    { return l.total }
func (l *ListController) Filter() Filter {
	return l.filter
}

// TotalPages is always at least 1, even for an empty collection.
func (l *ListController) TotalPages() int {
	if l.pageSize <= 0 {
		return 1
	}
	pages := (l.total + l.pageSize - 1) / l.pageSize
	if pages < 1 {
		return 1
	}
	return pages
}

// SetPage moves to the given page, clamped into [1, TotalPages].
func (l *ListController) SetPage(page int) {
	l.page = page
	l.clamp()
}

func (l *ListController) NextPage() { l.SetPage(l.page + 1) }
func (l *ListController) PrevPage() { l.SetPage(l.page - 1) }

// SetPageSize changes the page size and re-clamps the current page.
func (l *ListController) SetPageSize(size int) error {
	for _, allowed := range PageSizes {
		if size == allowed {
			l.pageSize = size
			l.clamp()
			return nil
		}
	}
	return fmt.Errorf("page size %d not in %v", size, PageSizes)
}

// SetFilter replaces the client-side filter. Filtering never re-fetches;
// it narrows the already-loaded page.
func (l *ListController) SetFilter(f Filter) {
	l.filter = f
}

func (l *ListController) clamp() {
	if max := l.TotalPages(); l.page > max {
		l.page = max
	}
	if l.page < 1 {
		l.page = 1
	}
}
