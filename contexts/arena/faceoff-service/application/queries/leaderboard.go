package queries

import (
	"context"
	"sort"
	"strings"

	"newedenfaces/contexts/arena/faceoff-service/domain/entities"
	domainerrors "newedenfaces/contexts/arena/faceoff-service/domain/errors"
	"newedenfaces/contexts/arena/faceoff-service/ports"
)

type LeaderboardUseCase struct {
	Characters ports.CharacterRepository
}

// TopCharacters ranks characters by wins, descending, name as tiebreak.
func (uc LeaderboardUseCase) TopCharacters(ctx context.Context, limit int) ([]entities.Character, error) {
	characters, err := uc.Characters.ListCharacters(ctx)
	if err != nil {
		return nil, err
	}
	sort.Slice(characters, func(i, j int) bool {
		if characters[i].Wins == characters[j].Wins {
			return characters[i].Name < characters[j].Name
		}
		return characters[i].Wins > characters[j].Wins
	})
	if limit > 0 && len(characters) > limit {
		characters = characters[:limit]
	}
	return characters, nil
}

// Character returns a single record by its directory identifier.
func (uc LeaderboardUseCase) Character(ctx context.Context, characterID string) (entities.Character, error) {
	characterID = strings.TrimSpace(characterID)
	if characterID == "" {
		return entities.Character{}, domainerrors.ErrCharacterNotFound
	}
	return uc.Characters.GetCharacter(ctx, characterID)
}
