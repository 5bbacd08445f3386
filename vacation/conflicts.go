package vacation

// FindConflicts returns the active (pending or approved) absences in
// existing whose date range overlaps candidate. Entries with the
// candidate's ID are skipped so an absence never conflicts with itself.
func FindConflicts(candidate AbsenceEntry, existing []AbsenceEntry) []AbsenceEntry {
	var conflicts []AbsenceEntry
	for _, e := range existing {
		if candidate.ID != "" && e.ID == candidate.ID {
			continue
		}
		if !e.Status.IsActive() {
			continue
		}
		if candidate.Period().Overlaps(e.Period()) {
			conflicts = append(conflicts, e)
		}
	}
	return conflicts
}
