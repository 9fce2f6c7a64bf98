package picker

import "sync"

// lastPaths remembers the last visited directory per path context so a
// reopened picker starts where the previous one left off. The store is
// process-wide and last-write-wins; sessions sharing a context simply
// overwrite each other.
var lastPaths sync.Map

// rememberPath records the last visited path for a context. Empty
// contexts are not persisted.
func rememberPath(pathContext, path string) {
	if pathContext == "" {
		return
	}
	lastPaths.Store(pathContext, path)
}

// recallPath returns the remembered path for a context, or fallback
// when nothing was recorded yet.
func recallPath(pathContext, fallback string) string {
	if pathContext == "" {
		return fallback
	}
	if v, ok := lastPaths.Load(pathContext); ok {
		if p, ok := v.(string); ok && p != "" {
			return p
		}
	}
	return fallback
}
