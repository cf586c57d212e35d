// Package params defines the simulation parameter set and its cache key.
//
// A [Parameters] value describes one hit_sim configuration. Every field is
// always populated: callers start from [Default] and override what they
// need, so two parameter sets that differ only in how they were written
// down produce the same [Key].
//
// # Fingerprints
//
// [Fingerprint] hashes the canonical JSON encoding of a parameter set. The
// key names the run artifact and the command script in the scratch
// directory, which makes the directory itself the cache:
//
//	p := params.Default().WithGapPosition(0.5)
//	key := params.Fingerprint(p)
//
// The encoding is not versioned. Adding a field changes every key, and
// artifacts produced under the old layout are never revisited.
package params
