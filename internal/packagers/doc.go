// Package packagers turns a compiled application into OS-native
// distributables. The Packager drives a platform-independent pipeline
// (structure, resources, runnable jar, dependencies, bundled runtime,
// assembly, bundles) and delegates the platform-specific pieces to one of
// three variants. Installer artifacts are produced by ordered
// ArtifactGenerator sweeps on top of an assembled app.
package packagers
