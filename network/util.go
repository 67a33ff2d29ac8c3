package network

import "math/rand"

func newRand(seed int64) *rand.Rand {
	return rand.New(rand.NewSource(seed))
}

func shuffled(dataset []Example, rng *rand.Rand) []Example {
	out := make([]Example, len(dataset))
	copy(out, dataset)
	rng.Shuffle(len(out), func(i, j int) { out[i], out[j] = out[j], out[i] })
	return out
}

func splitDataset(dataset []Example, testSize float64, rng *rand.Rand) (train, test []Example) {
	shuffledSet := shuffled(dataset, rng)
	testCount := int(float64(len(shuffledSet)) * testSize)
	if testCount > len(shuffledSet) {
		testCount = len(shuffledSet)
	}
	test = shuffledSet[:testCount]
	train = shuffledSet[testCount:]
	return
}
