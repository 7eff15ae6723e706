// Package dataset loads the CSV a review session works on.
//
// A dataset is a header row plus data rows. The payload column (default
// "output") carries record JSON and is required; the image column (default
// "image_url") is a fallback locator source and only warns when missing.
// Column selectors accept header names case-insensitively or 1-based "#N"
// indexes. Cells are trimmed and stripped of a UTF-8 BOM before use.
package dataset
