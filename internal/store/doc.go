// Package store persists subscriptions in a single SQLite database.
//
// Three tables back the whole system: works, volumes, and options. The
// volumes table doubles as the download state machine; its two flag
// columns admit four states:
//
//	is_downloaded=0 gone=0  pending, will be picked up by download
//	is_downloaded=1 gone=0  downloaded and still present on the site
//	is_downloaded=0 gone=1  vanished from the site before being fetched
//	is_downloaded=1 gone=1  downloaded copy of a vanished volume
//
// A refresh only ever toggles gone; is_downloaded changes through explicit
// download completion or a mark-as-new reset.
//
// Title comparisons are normalization-aware: the store keeps a folded
// title_key shadow column computed with the normalizer injected at Open,
// which stands in for a registered SQL collation. The fold is independent
// of the user-facing Han conversion mode, so keys stay valid across
// reconfiguration and connection reopens.
package store
