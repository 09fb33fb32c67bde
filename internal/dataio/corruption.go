package dataio

// CorruptionCondition classifies how badly a recording's sample counter
// is damaged.
type CorruptionCondition string

const (
	ConditionFine      CorruptionCondition = "fine"
	ConditionLost      CorruptionCondition = "lost"
	ConditionParts     CorruptionCondition = "parts"
	ConditionStartOnly CorruptionCondition = "start_only"
	ConditionEndOnly   CorruptionCondition = "end_only"
)

// CorruptionInfo describes the corruption state of one recording.
type CorruptionInfo struct {
	Name           string
	PercentCorrupt float64
	Condition      CorruptionCondition
}

// CheckCorrupted reports whether a sample counter has gaps or jumps, i.e.
// any step different from exactly one.
func CheckCorrupted(counter []float64) bool {
	for i := 1; i < len(counter); i++ {
		if counter[i]-counter[i-1] != 1 {
			return true
		}
	}
	return false
}

// ClassifyCorruption summarizes counter damage: "lost" above 90% corrupt
// samples, "parts" for mid-range damage, "start_only"/"end_only" when
// less than half is corrupt and the damage clusters at one end.
func ClassifyCorruption(counter []float64, name string) CorruptionInfo {
	info := CorruptionInfo{Name: name, Condition: ConditionFine}
	if !CheckCorrupted(counter) {
		return info
	}

	var corrupt []int
	for i := 1; i < len(counter); i++ {
		if counter[i]-counter[i-1] != 1 {
			corrupt = append(corrupt, i-1)
		}
	}
	diffs := len(counter) - 1
	info.PercentCorrupt = float64(len(corrupt)) / float64(diffs) * 100

	info.Condition = ConditionParts
	if info.PercentCorrupt > 90 {
		info.Condition = ConditionLost
	} else if info.PercentCorrupt < 50 {
		firstRatio := float64(corrupt[0]) / float64(len(corrupt))
		if firstRatio < 0.30 {
			info.Condition = ConditionStartOnly
		} else if firstRatio > 0.70 {
			info.Condition = ConditionEndOnly
		}
	}
	return info
}
