// Package github is a small client for the GitHub REST endpoints brewform
// needs: reading the latest release of a repository and its assets.
//
// Requests carry a bearer token, the pinned API version header and the
// GitHub JSON media type. Only HTTPS base URLs are accepted. A response
// that reports rate limiting (429, or 403 with a rate limit message) is
// retried once after the wait GitHub asks for.
package github
