// Package paths maps works, volumes, and pages to on-disk locations.
//
// A Resolver is an immutable value built from the configured output and
// backup roots plus a normalizer. Normalization always applies to one path
// component at a time, never to a joined path, so a separator produced by
// sanitizing a title can never split the path. Storage relocation builds a
// whole new Resolver and swaps it in; nothing mutates a live one.
package paths
