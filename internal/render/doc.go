// Package render draws detection boxes and labels onto delivery-proof images.
//
// Boxes arrive in a 0-1000 normalized coordinate space and are mapped onto
// the target image by scaling each component against its axis, truncating
// toward zero, reordering corners, and clamping to the image bounds. Boxes
// that end up with no area, carry the wrong number of components, or are not
// numeric are skipped and reported, never fatal.
//
// Colors cycle through a fixed eight-entry palette, advancing only when a box
// is actually drawn, so adjacent drawn boxes always differ in color.
package render
