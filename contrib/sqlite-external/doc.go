// Package sqliteexternal registers the optional CGO SQLite driver.
//
// Large MySword modules read noticeably faster through the C library. To use
// the CGO driver (github.com/mattn/go-sqlite3) build with:
//
//	CGO_ENABLED=1 go build -tags cgo_sqlite ./cmd/footnotes
//
// Without the tag the footnotes tool uses modernc.org/sqlite through
// github.com/FocuswithJustin/JuniperFootnotes/core/sqlite and needs no C
// toolchain.
package sqliteexternal
