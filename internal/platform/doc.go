// Package platform resolves the abstract "auto" target selection to the
// concrete execution platform and answers whether a target platform equals
// the one the pipeline is running on. Pure functions of the environment,
// no side effects.
package platform
