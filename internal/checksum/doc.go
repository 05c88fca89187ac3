// Package checksum resolves the SHA-256 digest of a release tarball.
//
// # Resolution Order
//
// A digest is taken from the first source that yields one:
//
//  1. Sidecar file: "<tarball>.sha256" next to the tarball, in any of the
//     common shasum layouts (bare digest, "sha256:<digest>",
//     "<digest>  <file>" from sha256sum, "SHA256 (<file>) = <digest>"
//     from BSD shasum). Unparseable sidecars are ignored.
//  2. Local tarball: the tarball itself is hashed.
//  3. Remote download: the release URL is fetched and the body hashed.
//
// Only the remote tier reports errors; the local tiers fall through
// silently. Digests are always 64 lowercase hex characters.
//
// Callers holding a digest reported by the release API should use that
// and skip the Resolver entirely.
package checksum
