package commands_test

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"newedenfaces/contexts/arena/faceoff-service/adapters/memory"
	"newedenfaces/contexts/arena/faceoff-service/application/commands"
	"newedenfaces/contexts/arena/faceoff-service/domain/entities"
	domainerrors "newedenfaces/contexts/arena/faceoff-service/domain/errors"
	"newedenfaces/contexts/arena/faceoff-service/ports"
)

func newVoteUseCase(seed []entities.Character) (commands.VoteUseCase, *memory.Store) {
	store := memory.NewStore(seed)
	return commands.VoteUseCase{
		Characters: store,
		Outbox:     store,
		Clock:      store,
		IDGen:      store,
	}, store
}

func TestCastVoteRejectsIncompletePair(t *testing.T) {
	uc := commands.VoteUseCase{Characters: untouchableRepository{t: t}}

	cases := []commands.CastVoteCommand{
		{WinnerID: "", LoserID: "2"},
		{WinnerID: "1", LoserID: ""},
		{WinnerID: "  ", LoserID: "2"},
	}
	for _, cmd := range cases {
		if _, err := uc.CastVote(context.Background(), cmd); !errors.Is(err, domainerrors.ErrVotePairIncomplete) {
			t.Fatalf("expected ErrVotePairIncomplete for %+v, got %v", cmd, err)
		}
	}
}

func TestCastVoteRejectsSelfVoteBeforePersistence(t *testing.T) {
	uc := commands.VoteUseCase{Characters: untouchableRepository{t: t}}

	_, err := uc.CastVote(context.Background(), commands.CastVoteCommand{WinnerID: "7", LoserID: "7"})
	if !errors.Is(err, domainerrors.ErrSelfVote) {
		t.Fatalf("expected ErrSelfVote, got %v", err)
	}
}

func TestCastVoteMissingCharacter(t *testing.T) {
	uc, store := newVoteUseCase([]entities.Character{
		{CharacterID: "1", Gender: entities.GenderFemale},
	})

	_, err := uc.CastVote(context.Background(), commands.CastVoteCommand{WinnerID: "1", LoserID: "missing"})
	if !errors.Is(err, domainerrors.ErrCharacterNotFound) {
		t.Fatalf("expected ErrCharacterNotFound, got %v", err)
	}
	if store.PendingOutboxCount() != 0 {
		t.Fatalf("no event may be recorded for a failed vote")
	}
}

func TestCastVoteAppliesExactlyOnce(t *testing.T) {
	uc, store := newVoteUseCase([]entities.Character{
		{CharacterID: "1", Gender: entities.GenderFemale},
		{CharacterID: "2", Gender: entities.GenderFemale},
	})

	result, err := uc.CastVote(context.Background(), commands.CastVoteCommand{WinnerID: "1", LoserID: "2"})
	if err != nil {
		t.Fatalf("cast vote failed: %v", err)
	}
	if !result.Applied || result.AlreadySettled {
		t.Fatalf("expected applied result, got %+v", result)
	}

	winner, err := store.GetCharacter(context.Background(), "1")
	if err != nil {
		t.Fatalf("get winner failed: %v", err)
	}
	if winner.Wins != 1 || winner.Losses != 0 || !winner.Voted {
		t.Fatalf("winner not settled correctly: %+v", winner)
	}

	loser, err := store.GetCharacter(context.Background(), "2")
	if err != nil {
		t.Fatalf("get loser failed: %v", err)
	}
	if loser.Wins != 0 || loser.Losses != 1 || !loser.Voted {
		t.Fatalf("loser not settled correctly: %+v", loser)
	}

	if store.PendingOutboxCount() != 1 {
		t.Fatalf("expected one pending settled event, got %d", store.PendingOutboxCount())
	}
}

func TestCastVoteOnSettledPairIsNoOp(t *testing.T) {
	uc, store := newVoteUseCase([]entities.Character{
		{CharacterID: "1", Gender: entities.GenderFemale, Wins: 1, Voted: true},
		{CharacterID: "2", Gender: entities.GenderFemale, Losses: 1, Voted: true},
	})

	result, err := uc.CastVote(context.Background(), commands.CastVoteCommand{WinnerID: "2", LoserID: "1"})
	if err != nil {
		t.Fatalf("stale vote must not be an error: %v", err)
	}
	if result.Applied || !result.AlreadySettled {
		t.Fatalf("expected already-settled result, got %+v", result)
	}

	winner, _ := store.GetCharacter(context.Background(), "1")
	loser, _ := store.GetCharacter(context.Background(), "2")
	if winner.Wins != 1 || winner.Losses != 0 || loser.Wins != 0 || loser.Losses != 1 {
		t.Fatalf("stale vote mutated counters: winner=%+v loser=%+v", winner, loser)
	}
	if store.PendingOutboxCount() != 0 {
		t.Fatalf("stale vote must not record an event")
	}
}

func TestCastVoteConcurrentSettlementIsAtMostOncePerCharacter(t *testing.T) {
	uc, store := newVoteUseCase([]entities.Character{
		{CharacterID: "a", Gender: entities.GenderMale},
		{CharacterID: "b", Gender: entities.GenderMale},
		{CharacterID: "c", Gender: entities.GenderMale},
	})

	var wg sync.WaitGroup
	votes := []commands.CastVoteCommand{
		{WinnerID: "a", LoserID: "c"},
		{WinnerID: "b", LoserID: "c"},
	}
	for _, cmd := range votes {
		wg.Add(1)
		go func(cmd commands.CastVoteCommand) {
			defer wg.Done()
			if _, err := uc.CastVote(context.Background(), cmd); err != nil {
				t.Errorf("concurrent vote %+v failed: %v", cmd, err)
			}
		}(cmd)
	}
	wg.Wait()

	contested, err := store.GetCharacter(context.Background(), "c")
	if err != nil {
		t.Fatalf("get contested character failed: %v", err)
	}
	if contested.Wins+contested.Losses != 1 {
		t.Fatalf("contested character settled %d times, want exactly 1", contested.Wins+contested.Losses)
	}
	if !contested.Voted {
		t.Fatalf("contested character must end settled")
	}
	for _, id := range []string{"a", "b"} {
		character, err := store.GetCharacter(context.Background(), id)
		if err != nil {
			t.Fatalf("get %s failed: %v", id, err)
		}
		if character.Wins+character.Losses > 1 {
			t.Fatalf("character %s settled more than once: %+v", id, character)
		}
	}
}

func TestCastVoteOutboxFailureKeepsSettlement(t *testing.T) {
	store := memory.NewStore([]entities.Character{
		{CharacterID: "1", Gender: entities.GenderFemale},
		{CharacterID: "2", Gender: entities.GenderFemale},
	})
	appendErr := errors.New("outbox unavailable")
	uc := commands.VoteUseCase{
		Characters: store,
		Outbox:     failingOutbox{err: appendErr},
		Clock:      store,
		IDGen:      store,
	}

	// The settlement commits before the event append, so an outbox failure
	// surfaces as an error while the counters stay settled.
	if _, err := uc.CastVote(context.Background(), commands.CastVoteCommand{WinnerID: "1", LoserID: "2"}); !errors.Is(err, appendErr) {
		t.Fatalf("expected outbox error to propagate, got %v", err)
	}

	winner, err := store.GetCharacter(context.Background(), "1")
	if err != nil {
		t.Fatalf("get winner failed: %v", err)
	}
	if winner.Wins != 1 || !winner.Voted {
		t.Fatalf("winner settlement must survive the outbox failure: %+v", winner)
	}
	loser, err := store.GetCharacter(context.Background(), "2")
	if err != nil {
		t.Fatalf("get loser failed: %v", err)
	}
	if loser.Losses != 1 || !loser.Voted {
		t.Fatalf("loser settlement must survive the outbox failure: %+v", loser)
	}
}

type failingOutbox struct {
	err error
}

func (o failingOutbox) AppendOutbox(context.Context, ports.EventEnvelope) error {
	return o.err
}

var _ ports.OutboxWriter = failingOutbox{}

// untouchableRepository fails the test on any access; it backs tests that
// assert validation happens before persistence is consulted.
type untouchableRepository struct {
	t *testing.T
}

func (r untouchableRepository) CreateCharacter(context.Context, entities.Character) error {
	r.t.Fatalf("repository must not be touched")
	return nil
}

func (r untouchableRepository) GetCharacter(context.Context, string) (entities.Character, error) {
	r.t.Fatalf("repository must not be touched")
	return entities.Character{}, nil
}

func (r untouchableRepository) ListCandidates(context.Context) ([]entities.Character, error) {
	r.t.Fatalf("repository must not be touched")
	return nil, nil
}

func (r untouchableRepository) ListCharacters(context.Context) ([]entities.Character, error) {
	r.t.Fatalf("repository must not be touched")
	return nil, nil
}

func (r untouchableRepository) SettleVote(context.Context, string, bool, time.Time) (bool, error) {
	r.t.Fatalf("repository must not be touched")
	return false, nil
}

var _ ports.CharacterRepository = untouchableRepository{}
