// Package config resolves the buildfeatures settings of a project.
//
// Settings come from four layers, highest precedence first: command-line
// flags, the environment (BUILD_FEATURES_REPO, BUILD_FEATURES_SCRIPT,
// BUILD_FEATURES_EXTENSION, with a project .env file filling unset
// variables), the buildfeatures.toml project file and built-in defaults.
//
//	extension      = "buildFeatures"
//	build_script   = "build.gradle"
//	repo           = "../shared-features"
//	feature_dirs   = ["src/main/resources/buildFeatures"]
//	versions_files = ["features-versions.properties"]
//
//	[properties]
//	tomcatVersion = "10.1.19"
//
//	[selection]
//	enable  = ["web"]
//	disable = ["jetty"]
//	status  = { security = true }
package config
