// Package versions holds the fallback version table and the shared version
// document format.
//
// # Table
//
// [Table] maps a version key (e.g. "SPRING_BOOT_VERSION") to a version
// string. It is constructed once during startup and passed by reference into
// the feature builders, the resolver and the extractor:
//
//	table := versions.NewDefault()
//	if err := table.Err(); err != nil {
//	    return err
//	}
//	v := table.GetOrDefault(versions.KeySpringBoot, "3.0.0")
//
// The bundled defaults are parsed lazily on first access. First access may
// happen concurrently from independent configuration units; seeding is
// guarded by sync.Once. After seeding, [Table.Put] and [Table.Merge] only
// add keys that are not present yet (first writer wins).
//
// # Shared version document
//
// The shared version document is a line-oriented KEY=VALUE file:
//
//	# comments are ignored
//	SPRING_BOOT_VERSION=3.2.5
//	WEB_STARTER_VERSION=1.2.3
//
// [ParseDocument] and [RenderDocument] read and write it. [MergeDocument]
// merges extracted versions into an existing document with last-writer-wins
// semantics, reporting collisions (which require a backup before rewriting)
// and semantic-version downgrades.
package versions
