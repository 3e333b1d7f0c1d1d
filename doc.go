// Package pagescope provides page-number pagination for GORM.
//
// Overview
//
// A Scope wraps a lazily built *gorm.DB for one model and adds chainable
// pagination controls:
//   - Page, Per, Padding: select the window of records.
//   - MaxPerPage, MaxPages: cap the window regardless of call order.
//
// and page metadata computed on demand: TotalCount, TotalPages, CurrentPage,
// NextPage, PrevPage, IsFirstPage, IsLastPage, IsOutOfRange. Scopes are
// immutable; every chaining call returns a new Scope whose memoized total
// count starts empty.
//
// Key concepts
//   - PageSpec: the pure page/offset/limit arithmetic. Usable without a Scope.
//   - Config: default and maximum per-page, maximum pages. Set globally with
//     Configure, per model by implementing Configurer, per scope with
//     WithConfig, or load it with LoadConfig.
//   - ErrZeroPerPageOperation: the only pagination error. Returned by page
//     dependent accessors when per-page is exactly 0. Every other malformed
//     input (negative, non-numeric, missing) falls back to defaults.
//   - RawPager and Bind: request binding for HTTP handlers.
//   - CountCache: optional total count cache shared between requests.
package pagescope
