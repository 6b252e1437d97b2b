package metrics

// Softboard holds the module's well-known metrics on one registry.
type Softboard struct {
	Registry *Registry

	// LayoutPasses counts row layout computations.
	LayoutPasses *Counter

	// CellsCreated counts key cells allocated during reconciliation.
	CellsCreated *Counter

	// KeysCommitted counts characters committed through the engine.
	KeysCommitted *Counter

	// EngineInits counts input-method engine constructions.
	EngineInits *Counter

	// PatchWriteFailures counts swallowed config-patch write errors.
	PatchWriteFailures *Counter

	// ActiveRows tracks the number of live keyboard rows.
	ActiveRows *Gauge

	// CandidateCount tracks the size of the current candidate list.
	CandidateCount *Gauge
}

// NewSoftboard creates the well-known metrics on a fresh registry.
func NewSoftboard() *Softboard {
	r := NewRegistry()
	return &Softboard{
		Registry:           r,
		LayoutPasses:       r.Counter("softboard_layout_passes_total", "Row layout computations."),
		CellsCreated:       r.Counter("softboard_cells_created_total", "Key cells allocated during reconciliation."),
		KeysCommitted:      r.Counter("softboard_keys_committed_total", "Characters committed through the engine."),
		EngineInits:        r.Counter("softboard_engine_inits_total", "Input-method engine constructions."),
		PatchWriteFailures: r.Counter("softboard_patch_write_failures_total", "Swallowed config-patch write errors."),
		ActiveRows:         r.Gauge("softboard_active_rows", "Live keyboard rows."),
		CandidateCount:     r.Gauge("softboard_candidate_count", "Size of the current candidate list."),
	}
}
