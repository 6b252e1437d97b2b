// Package layout computes pixel geometry for on-screen keyboard rows.
//
// A Row owns three ordered key groups (left, middle, right). Populating a
// row reconciles the existing cells against a new descriptor set so that
// view objects are reused across keyboard-plane switches, and laying out a
// row assigns each cell a visual frame plus an expanded hit-test rectangle.
//
// The hit-test rectangles of a laid-out row always tile the row exactly:
// the gap between two visual frames is split at its midpoint, the first
// cell reaches the row's left edge, and the last cell reaches the right
// edge. A tap landing between two keys therefore resolves to the nearer
// one, with no dead zones.
//
// Two idioms are supported. Phone rows are tagged top/normal/bottom and
// lay out their groups left-aligned, centered, and right-aligned. Tablet
// rows are tagged by index 0-3, each index with its own fixed geometry.
//
// All operations are synchronous and intended to run on the host UI
// thread; a Row performs no locking.
package layout
