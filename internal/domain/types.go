package domain

import (
	"fmt"
	"time"
)

type SessionID string

// Stage is one of the five fixed phases of a reasoning session.
type Stage string

const (
	StageProblemDefinition Stage = "Problem Definition"
	StageResearch          Stage = "Research"
	StageAnalysis          Stage = "Analysis"
	StageSynthesis         Stage = "Synthesis"
	StageConclusion        Stage = "Conclusion"
)

var stages = []Stage{
	StageProblemDefinition,
	StageResearch,
	StageAnalysis,
	StageSynthesis,
	StageConclusion,
}

// Stages returns every stage in intended order.
func Stages() []Stage {
	out := make([]Stage, len(stages))
	copy(out, stages)
	return out
}

func (s Stage) Valid() bool {
	for _, st := range stages {
		if s == st {
			return true
		}
	}
	return false
}

func (s Stage) String() string {
	return string(s)
}

// ParseStage accepts exact labels only ("Research", not "research").
func ParseStage(label string) (Stage, error) {
	st := Stage(label)
	if !st.Valid() {
		return "", fmt.Errorf("%w: %q", ErrInvalidStage, label)
	}
	return st, nil
}

type Timestamp = time.Time
