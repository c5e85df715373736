package harness

// ResolveMode computes the effective run-mode for a descriptor. Without
// a predicate the declared mode stands; with one, the predicate's
// alternate mode replaces it when the evaluator matches. Pure: safe to
// call concurrently for different tests.
func ResolveMode(d *Descriptor, opts *Options) Mode {
	if d.Predicate == nil || d.Predicate.Func == nil {
		return d.Mode
	}
	if d.Predicate.Func(opts, d.Predicate.Value) {
		return d.Predicate.AlternateMode
	}
	return d.Mode
}
