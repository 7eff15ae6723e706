// Package server exposes the review dashboard over HTTP: an embedded
// single-page viewer plus a JSON API for row views, image passthrough,
// annotated renders, session state, and overall statistics. A file lock
// under the reports directory keeps it to one dashboard per store.
package server
