// Package state persists small key-value entries across invocations.
//
// [SQLiteStore] keeps them in $XDG_STATE_HOME/suggestmsg/state.db using the
// pure-Go modernc.org/sqlite driver; the file is created with owner-only
// permissions because it stores the API key. [MemoryStore] serves tests.
package state
