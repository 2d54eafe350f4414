package bc1

const (
	// MaxLevel is the highest quality level.
	MaxLevel = 18

	// DefaultLevel balances speed and quality.
	DefaultLevel = 10
)

type stageKind uint8

const (
	// stageLeastSquares refits both endpoints to the current selectors.
	stageLeastSquares stageKind = iota
	// stagePerturb nudges one endpoint channel at a time by up to radius steps.
	stagePerturb
	// stagePerturbPair moves the same channel of both endpoints together, either in the same
	// direction (shift) or in opposite directions (widen/narrow).
	stagePerturbPair
	// stageAltStarts re-seeds from bounding-box, luma and inset endpoints.
	stageAltStarts
)

type refineStage struct {
	kind   stageKind
	radius int
}

// refineSchedule is the single refinement sequence every level draws from: level L runs the
// first L stages. Each stage only ever replaces the current best with a strictly better
// candidate, so raising the level cannot increase the error.
var refineSchedule = [MaxLevel]refineStage{
	{kind: stageLeastSquares},
	{kind: stagePerturb, radius: 1},
	{kind: stageLeastSquares},
	{kind: stageAltStarts},
	{kind: stagePerturb, radius: 1},
	{kind: stagePerturbPair, radius: 1},
	{kind: stageLeastSquares},
	{kind: stagePerturb, radius: 2},
	{kind: stagePerturbPair, radius: 2},
	{kind: stageLeastSquares},
	{kind: stagePerturb, radius: 3},
	{kind: stagePerturbPair, radius: 3},
	{kind: stagePerturb, radius: 4},
	{kind: stageLeastSquares},
	{kind: stagePerturbPair, radius: 4},
	{kind: stagePerturb, radius: 6},
	{kind: stagePerturbPair, radius: 6},
	{kind: stagePerturb, radius: 8},
}

type searchTuning struct {
	stages  []refineStage
	weights channelWeights
}

func searchTuningFor(level int, perceptual bool) searchTuning {
	level = clampInt(level, 0, MaxLevel)
	t := searchTuning{
		stages:  refineSchedule[:level],
		weights: uniformWeights,
	}
	if perceptual {
		t.weights = perceptualWeights
	}
	return t
}
