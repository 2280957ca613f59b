package hamlint

// Report is the outcome of a run.
type Report struct {
	// Lints are sorted by file name and line.
	Lints []Lint

	// Files lists the inspected files in input order.
	Files []string

	// FailLevel is the lowest severity that fails the run.
	FailLevel Severity
}

// Failed reports whether any lint reaches the fail level.
func (r *Report) Failed() bool {
	for _, l := range r.Lints {
		if l.Severity >= r.FailLevel {
			return true
		}
	}
	return false
}

// Corrected returns the number of corrected lints.
func (r *Report) Corrected() int {
	n := 0
	for _, l := range r.Lints {
		if l.Corrected {
			n++
		}
	}
	return n
}
