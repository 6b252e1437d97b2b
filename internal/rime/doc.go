// Package rime wraps the input-method engine behind an explicitly owned
// instance: callers construct it with New, feed it key input, and tear it
// down with Close. There is no ambient singleton.
//
// Construction order matters and mirrors the engine's contract:
//
//  1. The shared data directory is checked for the schema file and the
//     dictionary database; either missing is a fatal init error.
//  2. Config patch files derived from user settings are regenerated in
//     the user-data directory. Stale patches are deleted first. Write
//     failures here are logged and swallowed: the engine initializes
//     best-effort with whatever patch files exist.
//  3. The dictionary store is opened and the engine becomes ready.
package rime
