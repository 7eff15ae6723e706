// Package imagesource resolves dataset image locators to decoded images.
//
// Locators with an http or https scheme are fetched with a single bounded
// GET; anything else is opened as a local file. Remote responses must carry a
// 2xx status and an image/* content type before decoding is attempted.
// Failures are tagged with the faults sentinels so callers can tell missing
// files, upstream errors, and undecodable payloads apart.
package imagesource
