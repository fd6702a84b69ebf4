package montecarlo

import "math/rand/v2"

// streamSeed derives the PCG seed pair for one trial. Each trial gets its own
// stream, so a batch is reproducible for a seed regardless of worker count.
func streamSeed(seed uint64, trial int) (uint64, uint64) {
	hi := splitmix64(seed + uint64(trial)*0x9e3779b97f4a7c15)
	return hi, splitmix64(hi ^ seed)
}

func splitmix64(x uint64) uint64 {
	x += 0x9e3779b97f4a7c15
	x = (x ^ (x >> 30)) * 0xbf58476d1ce4e5b9
	x = (x ^ (x >> 27)) * 0x94d049bb133111eb
	return x ^ (x >> 31)
}

// trialRand reseeds one PCG per worker instead of allocating per trial.
type trialRand struct {
	pcg *rand.PCG
	rng *rand.Rand
}

func newTrialRand() *trialRand {
	pcg := rand.NewPCG(0, 0)
	return &trialRand{pcg: pcg, rng: rand.New(pcg)}
}

func (t *trialRand) reset(seed uint64, trial int) *rand.Rand {
	t.pcg.Seed(streamSeed(seed, trial))
	return t.rng
}

// TrialStream returns the random stream trial i of a batch with this seed draws from.
func TrialStream(seed uint64, trial int) *rand.Rand {
	return rand.New(rand.NewPCG(streamSeed(seed, trial)))
}

// NewSeed picks a random batch seed.
func NewSeed() uint64 {
	for {
		if s := rand.Uint64(); s != 0 {
			return s
		}
	}
}
