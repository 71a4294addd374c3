// Package persist keeps a core.ViewState in sync with two external surfaces:
// a URL fragment and a durable key/value store.
//
// Fragment encoding (flat query string, percent-encoded):
//
//	q=site&tag=CLI&tag=Rust&sort=title
//
// One "tag" key is written per active facet. Fields holding their default
// value are omitted, so the default state encodes as the empty fragment.
//
// Durable encoding is a single JSON object under "<namespace>:<catalog>:view":
//
//	{"version":1,"query":"site","tags":["CLI","Rust"],"sort":"title"}
//
// On load each field is resolved independently: fragment, then durable store,
// then the default. Malformed fields are treated as absent.
package persist
