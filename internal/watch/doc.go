// Package watch triggers regeneration on file changes (Watcher) or on a
// fixed interval (Scheduler). Both run at most one regeneration at a time.
package watch
