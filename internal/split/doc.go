// Package split implements the panel tree for tab-scoped split layouts.
//
// This package is the domain core of the layout engine:
//   - Contains only pure Go code plus uuid-based identity types
//   - Defines the tree (Container nodes, Panel leaves) and the Layout that
//     owns one tree per tab
//   - Implements the structural operations (split, remove, place, take) and
//     the collapse rule that dissolves single-child containers
//   - Has no knowledge of tabs, drag sources, rendering, or persistence
//
// # Core Types
//
// Layout manages the tree for a single tab. A freshly created layout is a
// plain unsplit tab: one Panel leaf and no Container. Splitting a panel
// replaces the leaf with a two-child Container holding the original panel
// first and a new empty panel second. Containers nest to unbounded depth;
// by construction every Container has exactly two children, though the
// collapse rule only assumes "at least two".
//
// Panel identities are stable for the panel's lifetime. Structural paths
// (chains of child indexes) are not stable across mutation and are always
// recomputed via Locate.
//
// ColorPool allocates palette indexes for live Containers: lowest free slot
// first, deterministic, wrapping around for reuse once every slot is taken.
//
// TabGroups assigns stable palette colors to named tab groups and is
// independent of the per-container pool.
//
// # Invariants
//
// A Container never has fewer than two children outside of the collapse
// algorithm, and a session is referenced by at most one panel per tree.
// Violations are programming errors and panic rather than surface as
// returnable errors.
package split
