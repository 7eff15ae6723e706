// Package record models the JSON payload carried in a dataset row.
//
// A payload is an envelope of up to three parts: an image locator, the
// structured info extracted from the delivery proof, and the reference info it
// is checked against. Extracted fields resolve at parse time into either a
// scalar payload or a located text with an optional box_2d detection box;
// downstream code switches on the resolved kind instead of re-inspecting JSON
// shapes.
//
// Box components are kept exactly as they appeared, including wrong arities
// and non-numeric entries, so the renderer can report precisely why a box was
// skipped.
package record
