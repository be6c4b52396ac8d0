package models

// RiskLevel is the backend's coarse verdict for a scanned identifier.
type RiskLevel string

const (
	RiskSafe     RiskLevel = "Safe"
	RiskCaution  RiskLevel = "Caution"
	RiskCritical RiskLevel = "Critical"
)

// Score breakpoints shared by LevelForScore and anything that colours a score.
const (
	CautionThreshold  = 30
	CriticalThreshold = 70
)

// Valid reports whether l is one of the three known levels.
func (l RiskLevel) Valid() bool {
	switch l {
	case RiskSafe, RiskCaution, RiskCritical:
		return true
	}
	return false
}

func (l RiskLevel) String() string {
	return string(l)
}

// Weight returns a numeric weight for sorting (higher = riskier).
func (l RiskLevel) Weight() int {
	switch l {
	case RiskCritical:
		return 3
	case RiskCaution:
		return 2
	case RiskSafe:
		return 1
	default:
		return 0
	}
}

// LevelForScore maps a 0-100 risk score onto a level:
// below 30 is Safe, 30 up to 69 is Caution, 70 and above is Critical.
func LevelForScore(score int) RiskLevel {
	switch {
	case score >= CriticalThreshold:
		return RiskCritical
	case score >= CautionThreshold:
		return RiskCaution
	default:
		return RiskSafe
	}
}
