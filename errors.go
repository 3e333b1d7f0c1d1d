package pagescope

import "errors"

// ErrZeroPerPageOperation is returned by page dependent accessors (offset,
// limit, current page, total pages) when the effective per-page is exactly
// zero. Fetching such a scope is still allowed and yields an empty page.
var ErrZeroPerPageOperation = errors.New("zero per page operation")
