// Package scheduler coordinates concurrent site crawls over a shared
// frontier of (hostname, depth) tasks.
package scheduler
