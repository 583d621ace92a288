// Package analyzer defines the site-plugin contract and the registry that
// resolves subscription entries to plugin instances.
//
// Every supported site ships one Analyzer implementation. Implementations
// register a Factory in a static table (see Register); the registry is
// built at startup from that table plus the persisted disabled set and
// per-analyzer custom data. A factory returns a tri-state Result so "bad
// custom data" and "analyzer asked to be skipped" are ordinary values, not
// panics.
//
// Work ids are always "<codename>/<local id>". The codename is a permanent
// contract: it is embedded in every persisted work id for that site, so
// renaming one orphans existing subscriptions.
package analyzer
