// Package fetch is the HTTP primitive shared by every site analyzer and the
// page downloader. It wraps a single client with a uniform retry policy so
// individual analyzers never touch net/http directly.
package fetch
