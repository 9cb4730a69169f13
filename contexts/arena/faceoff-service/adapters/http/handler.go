package httpadapter

import (
	"context"
	"fmt"
	"log/slog"

	"newedenfaces/contexts/arena/faceoff-service/application/commands"
	"newedenfaces/contexts/arena/faceoff-service/application/queries"
	"newedenfaces/contexts/arena/faceoff-service/domain/entities"
	httptransport "newedenfaces/contexts/arena/faceoff-service/transport/http"
)

type Handler struct {
	Pairs       queries.PairUseCase
	Leaderboard queries.LeaderboardUseCase
	Votes       commands.VoteUseCase
	Enlist      commands.EnlistUseCase
	Logger      *slog.Logger
}

// RandomPairHandler returns two candidates for a face-off, or an empty slice
// when the pool cannot produce a pair.
func (h Handler) RandomPairHandler(ctx context.Context) ([]httptransport.CharacterResponse, error) {
	pair, err := h.Pairs.RandomPair(ctx)
	if err != nil {
		return nil, err
	}
	return mapCharacters(pair), nil
}

func (h Handler) CastVoteHandler(ctx context.Context, req httptransport.CastVoteRequest) (commands.CastVoteResult, error) {
	return h.Votes.CastVote(ctx, commands.CastVoteCommand{
		WinnerID: req.Winner,
		LoserID:  req.Loser,
	})
}

func (h Handler) EnlistHandler(ctx context.Context, req httptransport.EnlistCharacterRequest) (httptransport.MessageResponse, error) {
	character, err := h.Enlist.EnlistCharacter(ctx, commands.EnlistCharacterCommand{
		Name:   req.Name,
		Gender: entities.Gender(req.Gender),
	})
	if err != nil {
		return httptransport.MessageResponse{}, err
	}
	return httptransport.MessageResponse{
		Message: fmt.Sprintf("%s has been added successfully!", character.Name),
	}, nil
}

func (h Handler) GetCharacterHandler(ctx context.Context, characterID string) (httptransport.CharacterResponse, error) {
	character, err := h.Leaderboard.Character(ctx, characterID)
	if err != nil {
		return httptransport.CharacterResponse{}, err
	}
	return mapCharacter(character), nil
}

func (h Handler) TopCharactersHandler(ctx context.Context, limit int) ([]httptransport.CharacterResponse, error) {
	characters, err := h.Leaderboard.TopCharacters(ctx, limit)
	if err != nil {
		return nil, err
	}
	return mapCharacters(characters), nil
}

func mapCharacter(character entities.Character) httptransport.CharacterResponse {
	return httptransport.CharacterResponse{
		CharacterID: character.CharacterID,
		Name:        character.Name,
		Race:        character.Race,
		Bloodline:   character.Bloodline,
		Gender:      string(character.Gender),
		Wins:        character.Wins,
		Losses:      character.Losses,
		Voted:       character.Voted,
	}
}

func mapCharacters(characters []entities.Character) []httptransport.CharacterResponse {
	items := make([]httptransport.CharacterResponse, 0, len(characters))
	for _, character := range characters {
		items = append(items, mapCharacter(character))
	}
	return items
}
