// Package sites holds the built-in site analyzers. Each file registers
// one analyzer in the static table from init, so importing this package
// for side effects is all a binary needs to make every built-in site
// available. Analyzers here are deliberately thin translators from raw
// HTML to the common record shape; anything clever belongs in the
// orchestration layers.
package sites
