package queries

import (
	"context"
	"log/slog"

	application "newedenfaces/contexts/arena/faceoff-service/application"
	"newedenfaces/contexts/arena/faceoff-service/domain/entities"
	"newedenfaces/contexts/arena/faceoff-service/ports"
)

// PairUseCase selects two distinct unvoted characters for a face-off. It is a
// pure read-and-sample operation over the candidate pool.
type PairUseCase struct {
	Characters ports.CharacterRepository
	Rand       ports.RandomSource
	Logger     *slog.Logger
}

// RandomPair picks the preferred gender uniformly at random and delegates to
// SelectPair. Randomizing the preferred group per call avoids a systematic
// bias toward either group.
func (uc PairUseCase) RandomPair(ctx context.Context) ([]entities.Character, error) {
	preferred := entities.GenderFemale
	if uc.Rand.Intn(2) == 1 {
		preferred = entities.GenderMale
	}
	return uc.SelectPair(ctx, preferred)
}

// SelectPair returns two distinct unvoted characters of the same gender,
// preferring the requested gender and falling back to the opposite one when
// the preferred pool holds fewer than two candidates. It returns an empty
// slice when neither pool can produce a pair.
func (uc PairUseCase) SelectPair(ctx context.Context, preferred entities.Gender) ([]entities.Character, error) {
	logger := application.ResolveLogger(uc.Logger)

	candidates, err := uc.Characters.ListCandidates(ctx)
	if err != nil {
		logger.Error("candidate pool read failed",
			"event", "faceoff_pair_pool_read_failed",
			"module", "arena/faceoff-service",
			"layer", "application",
			"error", err.Error(),
		)
		return nil, err
	}

	pool := filterByGender(candidates, preferred)
	if len(pool) < 2 {
		pool = filterByGender(candidates, preferred.Opposite())
	}
	if len(pool) < 2 {
		logger.Info("candidate pool exhausted",
			"event", "faceoff_pair_pool_exhausted",
			"module", "arena/faceoff-service",
			"layer", "application",
			"preferred_gender", string(preferred),
			"unvoted_count", len(candidates),
		)
		return []entities.Character{}, nil
	}
	return samplePair(pool, uc.Rand), nil
}

func filterByGender(characters []entities.Character, gender entities.Gender) []entities.Character {
	matched := make([]entities.Character, 0, len(characters))
	for _, character := range characters {
		if character.Gender == gender {
			matched = append(matched, character)
		}
	}
	return matched
}

// samplePair draws two distinct members uniformly without replacement.
func samplePair(pool []entities.Character, random ports.RandomSource) []entities.Character {
	first := random.Intn(len(pool))
	second := random.Intn(len(pool) - 1)
	if second >= first {
		second++
	}
	return []entities.Character{pool[first], pool[second]}
}
