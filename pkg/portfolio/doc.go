// Package portfolio provides the content layer of a personal portfolio site:
// a singleton profile, a skills list, projects grouped by category, and a
// contact inbox, plus the file references those records point at.
//
// The Service interface is the single entry point for presentation code. It
// composes four repositories (profile, skills, projects, messages) that
// persist through one pluggable Repository and resolve file references
// through a Resolver backed by a BlobStore. Implementations of Repository
// (memory, Postgres) and BlobStore (memory, filesystem, S3) live under
// subpackages.
//
// Default Content
//
// An empty store is not an error on read paths. GetProfile and GetSkills
// materialize the configured Defaults instead, and every materialized record
// carries IsDefault so callers can tell "no data" apart from "stored data".
// WithoutDefaults disables the fallback.
package portfolio
