package loan

var transitions = map[Status][]Status{
	StatusPending:  {StatusApproved, StatusRejected},
	StatusApproved: {StatusOverdue, StatusRepaid},
	StatusOverdue:  {StatusRepaid},
}

// CanTransition reports whether from -> to is a legal lifecycle move.
func CanTransition(from, to Status) bool {
	for _, s := range transitions[from] {
		if s == to {
			return true
		}
	}
	return false
}

// EffectiveStatus classifies an approved loan as overdue once the penalty
// tier is reached, even if the sweeper has not persisted it yet.
func EffectiveStatus(stored Status, overdue bool) Status {
	if stored == StatusApproved && overdue {
		return StatusOverdue
	}
	return stored
}
