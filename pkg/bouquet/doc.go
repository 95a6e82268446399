// Package bouquet defines the shareable bouquet state and the field-level
// edits an editor applies to it.
//
// # Overview
//
// A [State] is the single unit that travels inside a share link: a theme
// identifier, an ordered list of placed [Element] values, a letter and an
// optional sender signature. The package never talks to the network or the
// filesystem; encoding lives in the codec package and placement in the
// layout package.
//
// # Lifecycle
//
// A State starts empty with [New], is mutated in place by the editing
// operations ([State.Add], [State.Remove], [State.Move], [State.SetTheme],
// [State.SetLetter], [State.SetSender]) and is serialised once when the
// bouquet is finalised. A decoded State is treated as read-only.
//
// # Element order
//
// Elements keep insertion order. Order only affects stacking (later elements
// draw on top); nothing else depends on it.
//
// # Identifiers
//
// Element ids are short random tokens from [NewID]. They are unique on a
// best-effort basis only, so every lookup resolves collisions by taking the
// last matching element.
package bouquet
