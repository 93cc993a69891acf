// Package job composes the fetcher and the loader into one sync cycle.
package job
