// ABOUTME: Root package of the Scheme interpreter memory manager
// ABOUTME: Carries version information and package documentation

// Package schemeheap is the memory manager of a small Scheme interpreter. The
// heap package allocates values, lambdas and environments and collects them
// with a mark-and-sweep pass over roots the evaluator supplies. The graph and
// heapdump packages snapshot the heap and explain why objects stay alive.
package schemeheap

// Version is the semantic version of the module
const Version = "0.2.0-dev"
