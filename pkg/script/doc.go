// Package script reads and rewrites narrowly scoped sections of a Gradle
// build script.
//
// It is not a parser. [FindBlock] walks the script line by line, matching
// `marker {` headers and tracking brace depth, and every other function is
// built on it:
//
//	buildFeatures {
//	    features {
//	        enable 'web'        <- ReadSelection, InsertEnable
//	    }
//	}
//
//	dependencies {
//	    implementation 'org.example:web-starter:1.2.3'   <- ReadDependencies,
//	}                                                     RemoveDependencies
//
// Known limits: single-line blocks, coordinates split across lines, and
// braces inside block comments are not handled.
package script
