package classifier

import (
	"fmt"
	"math"
)

// multinomialNB is a naive Bayes model over non-negative feature weights
// with additive (Laplace/Lidstone) smoothing.
type multinomialNB struct {
	classes        []Label
	classLogPrior  []float64
	featureLogProb [][]float64 // [class][feature]
}

// fitMultinomialNB estimates class priors and per-class feature
// distributions. classes must be sorted and every label in y must appear in it.
func fitMultinomialNB(X []sparseVector, y []Label, classes []Label, nFeatures int, alpha float64, fitPrior bool) (*multinomialNB, error) {
	if alpha <= 0 {
		return nil, fmt.Errorf("smoothing alpha must be positive, got %v", alpha)
	}

	classIndex := make(map[Label]int, len(classes))
	for i, c := range classes {
		classIndex[c] = i
	}

	classCount := make([]float64, len(classes))
	featureCount := make([][]float64, len(classes))
	for i := range featureCount {
		featureCount[i] = make([]float64, nFeatures)
	}

	for i, vec := range X {
		ci, ok := classIndex[y[i]]
		if !ok {
			return nil, fmt.Errorf("label %q is not a known class", y[i])
		}
		classCount[ci]++
		for _, f := range vec {
			featureCount[ci][f.index] += f.value
		}
	}

	model := &multinomialNB{
		classes:        classes,
		classLogPrior:  make([]float64, len(classes)),
		featureLogProb: make([][]float64, len(classes)),
	}

	total := float64(len(y))
	for ci := range classes {
		if fitPrior {
			model.classLogPrior[ci] = math.Log(classCount[ci] / total)
		} else {
			model.classLogPrior[ci] = -math.Log(float64(len(classes)))
		}

		var denom float64
		for _, c := range featureCount[ci] {
			denom += c + alpha
		}
		logDenom := math.Log(denom)

		logProb := make([]float64, nFeatures)
		for fi, c := range featureCount[ci] {
			logProb[fi] = math.Log(c+alpha) - logDenom
		}
		model.featureLogProb[ci] = logProb
	}

	return model, nil
}

// jointLogLikelihood returns log P(c) + sum_t x_t log P(t|c) for every class.
func (m *multinomialNB) jointLogLikelihood(x sparseVector) []float64 {
	jll := make([]float64, len(m.classes))
	for ci := range m.classes {
		score := m.classLogPrior[ci]
		for _, f := range x {
			score += f.value * m.featureLogProb[ci][f.index]
		}
		jll[ci] = score
	}
	return jll
}

// predictProba returns the posterior distribution over classes.
func (m *multinomialNB) predictProba(x sparseVector) []float64 {
	jll := m.jointLogLikelihood(x)

	maxLL := math.Inf(-1)
	for _, v := range jll {
		if v > maxLL {
			maxLL = v
		}
	}
	var sum float64
	for _, v := range jll {
		sum += math.Exp(v - maxLL)
	}
	logNorm := maxLL + math.Log(sum)

	proba := make([]float64, len(jll))
	for i, v := range jll {
		proba[i] = math.Exp(v - logNorm)
	}
	return proba
}
