// Package main hosts the podverify CLI entrypoint and command graph.
//
// The cobra command tree loads extraction datasets, scores rows against
// reference values, renders annotated images, manages saved benchmark
// reports, and serves the browser review dashboard. It centralizes
// configuration resolution and logger setup so subcommands stay declarative
// while the heavy lifting lives in the internal packages.
package main
