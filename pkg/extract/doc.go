// Package extract turns a dependency already declared by a host build into
// a reusable feature.
//
// Given a name fragment, [Extractor.Extract]:
//
//  1. asks the [FactsProvider] for every declared dependency whose name
//     contains the fragment ("No result" when none does);
//  2. derives the feature id (camelCase of the fragment) and description
//     (Title Case of the id);
//  3. derives a version key (SPRING_BOOT_VERSION) and version property
//     (springBootVersion) per dependency and one line per declaring
//     configuration;
//  4. merges the found versions into the shared version document, or writes
//     a local one;
//  5. writes the feature document;
//  6. when a shared repository is given, publishes it and rewrites the
//     build script: the raw dependency lines are removed and
//     `enable '<id>'` is added to the feature selection block.
//
// Every document is copied to <path>.bak before it is rewritten in place.
// Local documents are never overwritten without Request.Force. Rewrites are
// not transactional: a failed write leaves the backup as the only intact
// copy.
//
// Document conflicts and file-system failures are reported to the
// [Reporter] and skip only the affected step. Extracting the same feature
// twice leaves a single enable statement in the build script.
package extract
