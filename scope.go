package pagescope

import (
	"context"
	"fmt"
	"sync"

	"github.com/rs/zerolog"
	"github.com/samber/lo"
	"gorm.io/gorm"
)

// Scope decorates a lazily built gorm query over model T with page-number
// pagination. Scopes are immutable: every chaining method returns a new
// Scope with its own copy of the gorm statement and an empty total count
// memo, so a base scope can be shared between requests.
//
// Nothing is executed until Find, Result or one of the count based
// accessors is called.
type Scope[T any] struct {
	// db holds filters, joins, grouping and user ordering. It never carries
	// LIMIT/OFFSET; those are added by Apply.
	db     *gorm.DB
	spec   PageSpec
	sort   Orderings
	logger zerolog.Logger
	cache  *CountCache
	memo   *memo
}

type memo struct {
	mu         sync.Mutex
	totalCount *int64
	// loaded is the number of rows returned by the last Find on this scope.
	loaded *int
}

type options struct {
	cfg    *Config
	logger zerolog.Logger
	cache  *CountCache
}

type Option func(*options)

// WithConfig replaces the global and model defaults for the scope.
func WithConfig(cfg Config) Option {
	return func(o *options) {
		o.cfg = &cfg
	}
}

// WithLogger enables debug logging of applied windows and count lookups.
func WithLogger(l zerolog.Logger) Option {
	return func(o *options) {
		o.logger = l
	}
}

// WithCountCache shares total counts between scopes through c.
func WithCountCache(c *CountCache) Option {
	return func(o *options) {
		o.cache = c
	}
}

// New starts a pagination chain over model T on the first page. db is not
// modified.
//
// Usage:
//
//	users, err := pagescope.New[User](db).
//		Where("active = ?", true).
//		Page(r.URL.Query().Get("page")).
//		Per(20).
//		Find(ctx)
func New[T any](db *gorm.DB, opts ...Option) *Scope[T] {
	o := options{logger: zerolog.Nop()}
	for _, opt := range opts {
		opt(&o)
	}

	cfg := lo.FromPtrOr(o.cfg, modelConfig[T]())

	return &Scope[T]{
		db:     db.Session(&gorm.Session{}).Model(new(T)),
		spec:   NewPageSpec(cfg),
		logger: o.logger,
		cache:  o.cache,
		memo:   new(memo),
	}
}

// Page is shorthand for New[T](db, opts...).Page(page).
func Page[T any](db *gorm.DB, page any, opts ...Option) *Scope[T] {
	return New[T](db, opts...).Page(page)
}

func (s *Scope[T]) clone() *Scope[T] {
	c := *s
	c.memo = new(memo)

	return &c
}

// fork returns an independent copy of the underlying statement.
func (s *Scope[T]) fork() *gorm.DB {
	return s.db.Session(&gorm.Session{})
}

func (s *Scope[T]) withSpec(spec PageSpec) *Scope[T] {
	c := s.clone()
	c.spec = spec

	return c
}

func (s *Scope[T]) chain(fn func(db *gorm.DB) *gorm.DB) *Scope[T] {
	c := s.clone()
	c.db = fn(s.fork())

	return c
}

// Page selects the page. Values below 1 and values that are not numbers
// select the first page.
func (s *Scope[T]) Page(page any) *Scope[T] {
	return s.withSpec(s.spec.WithPage(page))
}

// Per sets the number of records per page. nil, negative and non-numeric
// values are ignored; 0 gives an empty page and makes page dependent
// accessors fail with ErrZeroPerPageOperation.
func (s *Scope[T]) Per(perPage any) *Scope[T] {
	if _, ok := normalizePerPage(perPage); !ok && perPage != nil {
		s.logger.Debug().
			Interface("per_page", perPage).
			Int("per_page_kept", s.spec.EffectivePerPage()).
			Msg("per page is not a non-negative number, ignoring")
	}

	return s.withSpec(s.spec.WithPer(perPage))
}

// Padding skips n records in front of the page window.
func (s *Scope[T]) Padding(n int) *Scope[T] {
	return s.withSpec(s.spec.WithPadding(n))
}

// MaxPerPage caps the per-page of this chain, before or after Per alike.
func (s *Scope[T]) MaxPerPage(maxPerPage any) *Scope[T] {
	return s.withSpec(s.spec.WithMaxPerPage(maxPerPage))
}

// MaxPages caps TotalPages of this chain.
func (s *Scope[T]) MaxPages(maxPages any) *Scope[T] {
	return s.withSpec(s.spec.WithMaxPages(maxPages))
}

// Sort appends validated orderings. Repeated columns replace earlier ones.
func (s *Scope[T]) Sort(orderBy ...OrderBy) *Scope[T] {
	c := s.clone()
	c.sort = s.sort.Merge(orderBy...)

	return c
}

func (s *Scope[T]) Where(query any, args ...any) *Scope[T] {
	return s.chain(func(db *gorm.DB) *gorm.DB { return db.Where(query, args...) })
}

func (s *Scope[T]) Not(query any, args ...any) *Scope[T] {
	return s.chain(func(db *gorm.DB) *gorm.DB { return db.Not(query, args...) })
}

func (s *Scope[T]) Or(query any, args ...any) *Scope[T] {
	return s.chain(func(db *gorm.DB) *gorm.DB { return db.Or(query, args...) })
}

func (s *Scope[T]) Order(value any) *Scope[T] {
	return s.chain(func(db *gorm.DB) *gorm.DB { return db.Order(value) })
}

// Group groups the records. TotalCount then counts groups, not rows.
func (s *Scope[T]) Group(name string) *Scope[T] {
	return s.chain(func(db *gorm.DB) *gorm.DB { return db.Group(name) })
}

func (s *Scope[T]) Having(query any, args ...any) *Scope[T] {
	return s.chain(func(db *gorm.DB) *gorm.DB { return db.Having(query, args...) })
}

func (s *Scope[T]) Joins(query string, args ...any) *Scope[T] {
	return s.chain(func(db *gorm.DB) *gorm.DB { return db.Joins(query, args...) })
}

func (s *Scope[T]) Select(query any, args ...any) *Scope[T] {
	return s.chain(func(db *gorm.DB) *gorm.DB { return db.Select(query, args...) })
}

func (s *Scope[T]) Distinct(args ...any) *Scope[T] {
	return s.chain(func(db *gorm.DB) *gorm.DB { return db.Distinct(args...) })
}

func (s *Scope[T]) Preload(query string, args ...any) *Scope[T] {
	return s.chain(func(db *gorm.DB) *gorm.DB { return db.Preload(query, args...) })
}

// Scopes applies gorm scope functions, e.g. shared tenant filters.
func (s *Scope[T]) Scopes(funcs ...func(*gorm.DB) *gorm.DB) *Scope[T] {
	return s.chain(func(db *gorm.DB) *gorm.DB { return db.Scopes(funcs...) })
}

// Spec returns the page window description.
func (s *Scope[T]) Spec() PageSpec {
	return s.spec
}

// DB returns a copy of the underlying query without the page window.
func (s *Scope[T]) DB() *gorm.DB {
	return s.fork()
}

// Apply returns the query with ordering, LIMIT and OFFSET applied. This is
// the execution boundary; the returned *gorm.DB is independent of s.
func (s *Scope[T]) Apply() (*gorm.DB, error) {
	if err := s.sort.validate(); err != nil {
		return nil, fmt.Errorf("cannot paginate: %w", err)
	}

	limit, offset := s.spec.Window()
	s.logger.Debug().
		Int("page", s.spec.RequestedPage()).
		Int("limit", limit).
		Int("offset", offset).
		Msg("applying page window")

	return s.sort.Apply(s.fork()).Limit(limit).Offset(offset), nil
}

// Find loads the records of the current page.
func (s *Scope[T]) Find(ctx context.Context) ([]T, error) {
	db, err := s.Apply()
	if err != nil {
		return nil, err
	}

	var items []T
	if err = db.WithContext(ctx).Find(&items).Error; err != nil {
		return nil, fmt.Errorf("cannot fetch page: %w", err)
	}

	s.memo.mu.Lock()
	s.memo.loaded = lo.ToPtr(len(items))
	s.memo.mu.Unlock()

	return items, nil
}

// Result loads the current page together with its metadata.
func (s *Scope[T]) Result(ctx context.Context) (*PaginationResult[T], error) {
	items, err := s.Find(ctx)
	if err != nil {
		return nil, err
	}

	info, err := s.Info(ctx)
	if err != nil {
		return nil, err
	}

	return &PaginationResult[T]{
		Items:        items,
		Total:        info.TotalCount,
		AppliedLimit: info.PerPage,
		Info:         info,
	}, nil
}

// TotalCount returns the number of records matching the scope, ignoring the
// page window. Under GROUP BY it returns the number of groups. The value is
// memoized on s; scopes derived from s count again.
func (s *Scope[T]) TotalCount(ctx context.Context) (int64, error) {
	s.memo.mu.Lock()
	defer s.memo.mu.Unlock()

	if s.memo.totalCount != nil {
		return *s.memo.totalCount, nil
	}

	if count, ok := s.countFromLoaded(); ok {
		s.logger.Debug().Int64("total_count", count).Msg("total count derived from loaded page")
		s.memo.totalCount = &count
		return count, nil
	}

	var key string
	if s.cache != nil {
		key = s.fingerprint()
		if count, ok := s.cache.Get(key); ok {
			s.logger.Debug().Int64("total_count", count).Msg("total count cache hit")
			s.memo.totalCount = &count
			return count, nil
		}
	}

	var count int64
	if err := s.fork().WithContext(ctx).Count(&count).Error; err != nil {
		return 0, fmt.Errorf("cannot count records: %w", err)
	}
	s.logger.Debug().Int64("total_count", count).Msg("total count queried")

	s.cache.Add(key, count)
	s.memo.totalCount = &count

	return count, nil
}

// countFromLoaded deduces the total from a page loaded by Find: an empty
// first page means no records, a short page is the last one.
func (s *Scope[T]) countFromLoaded() (int64, bool) {
	if s.memo.loaded == nil || s.spec.IsZeroPerPage() {
		return 0, false
	}

	loaded := *s.memo.loaded
	limit, offset := s.spec.Window()

	switch {
	case loaded == 0 && offset == 0:
		return 0, true
	case loaded > 0 && loaded < limit:
		return int64(offset + loaded), true
	default:
		return 0, false
	}
}

// fingerprint is the SQL of the count statement with arguments inlined.
func (s *Scope[T]) fingerprint() string {
	return s.db.ToSQL(func(tx *gorm.DB) *gorm.DB {
		var count int64
		return tx.Count(&count)
	})
}

// Count returns the number of records on the current page.
func (s *Scope[T]) Count(ctx context.Context) (int64, error) {
	s.memo.mu.Lock()
	loaded := s.memo.loaded
	s.memo.mu.Unlock()

	if loaded != nil {
		return int64(*loaded), nil
	}

	total, err := s.TotalCount(ctx)
	if err != nil {
		return 0, err
	}

	limit, offset := s.spec.Window()

	return lo.Clamp(total-int64(offset), 0, int64(limit)), nil
}

// Limit returns the effective per-page.
func (s *Scope[T]) Limit() (int, error) {
	return s.spec.Limit()
}

// Offset returns the number of records skipped before the page.
func (s *Scope[T]) Offset() (int, error) {
	return s.spec.Offset()
}

// CurrentPage returns the page number.
func (s *Scope[T]) CurrentPage() (int, error) {
	return s.spec.CurrentPage()
}

// IsFirstPage reports whether this is page 1.
func (s *Scope[T]) IsFirstPage() (bool, error) {
	return s.spec.IsFirstPage()
}

// TotalPages returns the number of pages, capped by the max pages setting.
func (s *Scope[T]) TotalPages(ctx context.Context) (int, error) {
	// Fail before querying the database.
	if s.spec.IsZeroPerPage() {
		return 0, ErrZeroPerPageOperation
	}

	total, err := s.TotalCount(ctx)
	if err != nil {
		return 0, err
	}

	return s.spec.TotalPages(total)
}

// NextPage returns the next page number or nil on the last page and beyond.
func (s *Scope[T]) NextPage(ctx context.Context) (*int, error) {
	totalPages, err := s.TotalPages(ctx)
	if err != nil {
		return nil, err
	}

	return s.spec.NextPage(totalPages), nil
}

// PrevPage returns the previous page number or nil on the first page and on
// pages past the end.
func (s *Scope[T]) PrevPage(ctx context.Context) (*int, error) {
	totalPages, err := s.TotalPages(ctx)
	if err != nil {
		return nil, err
	}

	return s.spec.PrevPage(totalPages), nil
}

// IsLastPage reports whether this is the last page.
func (s *Scope[T]) IsLastPage(ctx context.Context) (bool, error) {
	totalPages, err := s.TotalPages(ctx)
	if err != nil {
		return false, err
	}

	return s.spec.IsLastPage(totalPages)
}

// IsOutOfRange reports whether the page is past the last page.
func (s *Scope[T]) IsOutOfRange(ctx context.Context) (bool, error) {
	totalPages, err := s.TotalPages(ctx)
	if err != nil {
		return false, err
	}

	return s.spec.IsOutOfRange(totalPages)
}

// Info returns all page metadata at the cost of at most one count query.
func (s *Scope[T]) Info(ctx context.Context) (PageInfo, error) {
	if s.spec.IsZeroPerPage() {
		return PageInfo{}, ErrZeroPerPageOperation
	}

	total, err := s.TotalCount(ctx)
	if err != nil {
		return PageInfo{}, err
	}

	return s.spec.Info(total)
}

// Paginate returns a gorm scope function applying the window of spec, for
// code that builds plain gorm queries:
//
//	db.Model(&User{}).Scopes(pagescope.Paginate(spec, pagescope.Asc("id"))).Find(&users)
//
// Invalid orderings are reported through the query error.
func Paginate(spec PageSpec, orderBy ...OrderBy) func(*gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		sort := Orderings(nil).Merge(orderBy...)
		if err := sort.validate(); err != nil {
			_ = db.AddError(fmt.Errorf("cannot paginate: %w", err))
			return db
		}

		limit, offset := spec.Window()

		return sort.Apply(db).Limit(limit).Offset(offset)
	}
}
