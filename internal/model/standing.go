package model

// Standing tells how the universal portfolio compares to every buy-and-hold
// baseline on a given day. Values are written to CSV; keep them stable.
type Standing string

const (
	StandingLeading  Standing = "LEADING"
	StandingMixed    Standing = "MIXED"
	StandingTrailing Standing = "TRAILING"
)

func StandingOf(universal float64, baselines []float64) Standing {
	if len(baselines) == 0 {
		return StandingMixed
	}
	above, below := 0, 0
	for _, b := range baselines {
		switch {
		case universal > b:
			above++
		case universal < b:
			below++
		}
	}
	switch {
	case above == len(baselines):
		return StandingLeading
	case below == len(baselines):
		return StandingTrailing
	default:
		return StandingMixed
	}
}
