// Package host implements the collaborators the engine consumes at its
// boundary: a file-system [FileStore], [ScriptFacts] read from a build
// script, a Gradle-wrapper [CommandPublisher], and the [Recorder] and
// [Printer] dependency handlers.
package host
