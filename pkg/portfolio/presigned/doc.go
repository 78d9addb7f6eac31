// Package presigned issues and checks HMAC-signed, time-limited URLs for
// blob stores that have no native presigning (memory and filesystem).
//
// A URLBuilder turns object keys into upload and download URLs under the
// server's /files routes. Handlers serves those routes and rejects requests
// whose signature is missing, wrong or expired. The signed payload is
//
//	METHOD|PATH|EXPIRES
//
// so an upload URL cannot be replayed as a download URL. When no secret key
// is configured URLs are issued unsigned and every request is accepted; that
// mode is meant for local development only.
//
// Client uploads bytes to an upload target and reads back the storage id.
package presigned
