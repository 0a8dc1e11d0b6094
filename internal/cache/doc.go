// Package cache stores generation results on disk so unchanged inputs are
// not regenerated.
//
// Entries are msgpack encoded and keyed by a SHA-256 digest of the tool
// version, the configuration fingerprint, the input path and its content.
// Writes go through a temporary file and a rename, so readers never see a
// partial entry. A nil *Cache is valid and caches nothing.
package cache
