package pagescope

import (
	"github.com/samber/lo"
)

// PageSpec is an immutable description of a page window. Every With* method
// returns a modified copy, so a spec can be shared between goroutines and
// branched freely.
//
// The zero value is not useful; build one with NewPageSpec.
type PageSpec struct {
	page    int
	padding int

	// per is the last usable per-page requested. nil selects defaultPerPage.
	per *int
	// maxPerPage set on the chain wins over the model's cap.
	maxPerPage *int
	maxPages   *int

	defaultPerPage  int
	modelMaxPerPage int
	modelMaxPages   int
}

// PageInfo is the page metadata reported next to a fetched page.
type PageInfo struct {
	CurrentPage int   `json:"currentPage"`
	PerPage     int   `json:"perPage"`
	TotalPages  int   `json:"totalPages"`
	TotalCount  int64 `json:"totalCount"`
	NextPage    *int  `json:"nextPage,omitempty"`
	PrevPage    *int  `json:"prevPage,omitempty"`
	FirstPage   bool  `json:"firstPage"`
	LastPage    bool  `json:"lastPage"`
	OutOfRange  bool  `json:"outOfRange"`
}

// NewPageSpec returns a spec for the first page using the defaults of cfg.
func NewPageSpec(cfg Config) PageSpec {
	return PageSpec{
		page:            FirstPage,
		defaultPerPage:  lo.Ternary(cfg.DefaultPerPage > 0, cfg.DefaultPerPage, DefaultPerPage),
		modelMaxPerPage: max(cfg.MaxPerPage, 0),
		modelMaxPages:   max(cfg.MaxPages, 0),
	}
}

// WithPage selects the page. Values below 1 and values that are not numbers
// select the first page.
func (s PageSpec) WithPage(page any) PageSpec {
	s.page = NormalizePage(page)

	return s
}

// WithPer sets the number of records per page. nil, negative and non-numeric
// values leave the per-page as it is, so a chain that never set one keeps the
// default. 0 is kept and makes every page dependent accessor fail with
// ErrZeroPerPageOperation.
func (s PageSpec) WithPer(perPage any) PageSpec {
	n, ok := normalizePerPage(perPage)
	if !ok {
		return s
	}
	s.per = &n

	return s
}

// WithPadding shifts the window by n extra records. Negative values are
// treated as 0.
func (s PageSpec) WithPadding(n int) PageSpec {
	s.padding = max(n, 0)

	return s
}

// WithMaxPerPage caps the per-page for this chain regardless of whether it
// is called before or after WithPer. nil falls back to the model's cap.
func (s PageSpec) WithMaxPerPage(maxPerPage any) PageSpec {
	n, ok := normalizeCap(maxPerPage)
	s.maxPerPage = lo.Ternary(ok, lo.ToPtr(n), nil)

	return s
}

// WithMaxPages caps TotalPages. nil falls back to the model's cap.
func (s PageSpec) WithMaxPages(maxPages any) PageSpec {
	n, ok := normalizeCap(maxPages)
	s.maxPages = lo.Ternary(ok, lo.ToPtr(n), nil)

	return s
}

// RequestedPage returns the page as requested, after clamping to 1.
func (s PageSpec) RequestedPage() int {
	return max(s.page, FirstPage)
}

// Padding returns the extra offset.
func (s PageSpec) Padding() int {
	return s.padding
}

// EffectivePerPage returns the per-page after the default fallback and the
// max-per-page clamp. It may be 0.
func (s PageSpec) EffectivePerPage() int {
	perPage := s.defaultPerPage
	if s.per != nil {
		perPage = *s.per
	}

	if maxPerPage := s.effectiveMaxPerPage(); maxPerPage > 0 && maxPerPage < perPage {
		return maxPerPage
	}

	return perPage
}

func (s PageSpec) effectiveMaxPerPage() int {
	if s.maxPerPage != nil {
		return *s.maxPerPage
	}

	return s.modelMaxPerPage
}

func (s PageSpec) effectiveMaxPages() int {
	if s.maxPages != nil {
		return *s.maxPages
	}

	return s.modelMaxPages
}

// IsZeroPerPage reports whether the effective per-page is exactly 0.
func (s PageSpec) IsZeroPerPage() bool {
	return s.EffectivePerPage() == 0
}

// Window returns LIMIT and OFFSET for the execution boundary. Unlike Limit
// and Offset it never fails: a zero per-page gives an empty window.
func (s PageSpec) Window() (limit int, offset int) {
	perPage := s.EffectivePerPage()

	return perPage, (s.RequestedPage()-1)*perPage + s.padding
}

// Offset returns (page-1)*perPage + padding.
func (s PageSpec) Offset() (int, error) {
	if s.IsZeroPerPage() {
		return 0, ErrZeroPerPageOperation
	}

	_, offset := s.Window()

	return offset, nil
}

// Limit returns the effective per-page.
func (s PageSpec) Limit() (int, error) {
	if s.IsZeroPerPage() {
		return 0, ErrZeroPerPageOperation
	}

	return s.EffectivePerPage(), nil
}

// CurrentPage returns the page this spec points at.
func (s PageSpec) CurrentPage() (int, error) {
	if s.IsZeroPerPage() {
		return 0, ErrZeroPerPageOperation
	}

	return s.RequestedPage(), nil
}

// TotalPages returns ceil((totalCount-padding)/perPage), capped by max pages.
// Padded records are not part of any page.
func (s PageSpec) TotalPages(totalCount int64) (int, error) {
	perPage := s.EffectivePerPage()
	if perPage == 0 {
		return 0, ErrZeroPerPageOperation
	}

	count := max(totalCount-int64(s.padding), 0)
	pages := int((count + int64(perPage) - 1) / int64(perPage))

	if maxPages := s.effectiveMaxPages(); maxPages > 0 && maxPages < pages {
		return maxPages, nil
	}

	return pages, nil
}

// IsFirstPage reports whether the current page is 1.
func (s PageSpec) IsFirstPage() (bool, error) {
	page, err := s.CurrentPage()
	if err != nil {
		return false, err
	}

	return page == FirstPage, nil
}

// IsLastPage reports whether the current page equals totalPages. Pages past
// the end are not the last page.
func (s PageSpec) IsLastPage(totalPages int) (bool, error) {
	page, err := s.CurrentPage()
	if err != nil {
		return false, err
	}

	return page == totalPages, nil
}

// IsOutOfRange reports whether the current page is past totalPages.
func (s PageSpec) IsOutOfRange(totalPages int) (bool, error) {
	page, err := s.CurrentPage()
	if err != nil {
		return false, err
	}

	return page > totalPages, nil
}

// NextPage returns the following page number, or nil on the last page and
// beyond. A zero per-page has no next page.
func (s PageSpec) NextPage(totalPages int) *int {
	page, err := s.CurrentPage()
	if err != nil || page >= totalPages {
		return nil
	}

	return lo.ToPtr(page + 1)
}

// PrevPage returns the preceding page number, or nil on the first page and
// on pages past the end.
func (s PageSpec) PrevPage(totalPages int) *int {
	page, err := s.CurrentPage()
	if err != nil || page <= FirstPage || page > totalPages {
		return nil
	}

	return lo.ToPtr(page - 1)
}

// Info computes the whole PageInfo for totalCount records.
func (s PageSpec) Info(totalCount int64) (PageInfo, error) {
	totalPages, err := s.TotalPages(totalCount)
	if err != nil {
		return PageInfo{}, err
	}

	// TotalPages already rejected a zero per-page, the accessors below
	// cannot fail.
	page := s.RequestedPage()

	return PageInfo{
		CurrentPage: page,
		PerPage:     s.EffectivePerPage(),
		TotalPages:  totalPages,
		TotalCount:  totalCount,
		NextPage:    s.NextPage(totalPages),
		PrevPage:    s.PrevPage(totalPages),
		FirstPage:   page == FirstPage,
		LastPage:    page == totalPages,
		OutOfRange:  page > totalPages,
	}, nil
}
