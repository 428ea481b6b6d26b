// Package feature implements the feature registry and resolution engine.
//
// A feature is a named bundle of dependency declarations that a build can
// enable or disable. Features are defined through callback-configured
// builders, selected on a [Registry], and turned into declarations by a
// [Resolver]:
//
//	reg := feature.NewRegistry(logger)
//	err := reg.Definitions(table, func(d *feature.Definitions) {
//	    d.Feature("web", "Web", func(f *feature.FeatureBuilder) {
//	        f.Implementation("org.example:web-starter:1.2.3", nil)
//	        f.Implementation("org.example:metrics", func(dep *feature.DependencyBuilder) {
//	            dep.ConditionalOnFeatureNotEnabled("observability")
//	        })
//	    })
//	})
//	reg.Enable("web")
//	decls, err := feature.NewResolver(reg, handler, feature.Options{Versions: table}).Apply(ctx)
//
// # Identity
//
// Values are compared through key projections, not full-field equality.
// A [Feature] is identified by its key. A [Dependency] is identified by
// [Dependency.Key], its (configuration, group, name) triple: a feature holds
// at most one declaration per triple, and the first one added wins. [Set]
// implements these projections.
//
// # Activation conditions
//
// A dependency may carry an activation condition: a feature key (active when
// that feature is enabled) or the key prefixed with "!" (active when it is
// not). Conditions are evaluated against the set of all enabled features at
// resolution time.
//
// # Versions
//
// A coordinate version is resolved with the precedence literal version,
// then Dependency.VersionProperty looked up in [Options.Properties], then
// none (a bare group:name for managed versions). Versions written as "%KEY"
// are replaced from the version table when the feature is defined.
package feature
