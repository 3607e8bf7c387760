// Package xmlutil normalizes generated markup descriptors (installer
// descriptors, plists, manifests) before they are handed to external
// compilers. Formatting never changes semantic content.
package xmlutil
