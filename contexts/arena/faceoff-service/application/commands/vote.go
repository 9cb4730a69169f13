package commands

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"golang.org/x/sync/errgroup"

	application "newedenfaces/contexts/arena/faceoff-service/application"
	"newedenfaces/contexts/arena/faceoff-service/domain/entities"
	domainerrors "newedenfaces/contexts/arena/faceoff-service/domain/errors"
	"newedenfaces/contexts/arena/faceoff-service/ports"
)

// CastVoteCommand names the winning and losing side of a previously selected
// pair.
type CastVoteCommand struct {
	WinnerID string
	LoserID  string
}

// CastVoteResult reports how the vote landed. Applied means both records were
// durably settled by this call; AlreadySettled means a competing vote got
// there first and this call mutated nothing further (a safe no-op, not an
// error).
type CastVoteResult struct {
	Applied        bool
	AlreadySettled bool
}

// VoteUseCase is the vote transactor. It validates the pair, re-reads
// authoritative state, and settles winner and loser through the repository's
// conditional update so each record is settled at most once even under
// concurrent votes referencing the same character.
type VoteUseCase struct {
	Characters ports.CharacterRepository
	Outbox     ports.OutboxWriter
	Clock      ports.Clock
	IDGen      ports.IDGenerator
	Logger     *slog.Logger
}

func (uc VoteUseCase) CastVote(ctx context.Context, cmd CastVoteCommand) (CastVoteResult, error) {
	logger := application.ResolveLogger(uc.Logger)
	winnerID := strings.TrimSpace(cmd.WinnerID)
	loserID := strings.TrimSpace(cmd.LoserID)

	if winnerID == "" || loserID == "" {
		logger.Warn("vote validation failed",
			"event", "faceoff_vote_validation_failed",
			"module", "arena/faceoff-service",
			"layer", "application",
			"winner_id", winnerID,
			"loser_id", loserID,
		)
		return CastVoteResult{}, domainerrors.ErrVotePairIncomplete
	}
	if winnerID == loserID {
		logger.Warn("self vote rejected",
			"event", "faceoff_vote_self_rejected",
			"module", "arena/faceoff-service",
			"layer", "application",
			"character_id", winnerID,
		)
		return CastVoteResult{}, domainerrors.ErrSelfVote
	}

	// Independent reads; order between them is irrelevant.
	var winner, loser entities.Character
	readGroup, readCtx := errgroup.WithContext(ctx)
	readGroup.Go(func() error {
		var err error
		winner, err = uc.Characters.GetCharacter(readCtx, winnerID)
		return err
	})
	readGroup.Go(func() error {
		var err error
		loser, err = uc.Characters.GetCharacter(readCtx, loserID)
		return err
	})
	if err := readGroup.Wait(); err != nil {
		return CastVoteResult{}, err
	}

	if winner.Voted || loser.Voted {
		logger.Info("stale pair skipped",
			"event", "faceoff_vote_stale_pair",
			"module", "arena/faceoff-service",
			"layer", "application",
			"winner_id", winnerID,
			"loser_id", loserID,
		)
		return CastVoteResult{AlreadySettled: true}, nil
	}

	now := uc.now()

	// Independent conditional writes to independent records. SettleVote only
	// touches rows still marked unvoted, so losing a race against a competing
	// vote degrades to a no-op instead of a double settlement. A partial
	// failure is not rolled back; whatever the store committed stands.
	var winnerApplied, loserApplied bool
	writeGroup, writeCtx := errgroup.WithContext(ctx)
	writeGroup.Go(func() error {
		var err error
		winnerApplied, err = uc.Characters.SettleVote(writeCtx, winnerID, true, now)
		return err
	})
	writeGroup.Go(func() error {
		var err error
		loserApplied, err = uc.Characters.SettleVote(writeCtx, loserID, false, now)
		return err
	})
	if err := writeGroup.Wait(); err != nil {
		logger.Error("vote settlement failed",
			"event", "faceoff_vote_settlement_failed",
			"module", "arena/faceoff-service",
			"layer", "application",
			"winner_id", winnerID,
			"loser_id", loserID,
			"error", err.Error(),
		)
		return CastVoteResult{}, err
	}
	if !winnerApplied || !loserApplied {
		logger.Info("vote lost settlement race",
			"event", "faceoff_vote_race_lost",
			"module", "arena/faceoff-service",
			"layer", "application",
			"winner_id", winnerID,
			"loser_id", loserID,
			"winner_applied", winnerApplied,
			"loser_applied", loserApplied,
		)
		return CastVoteResult{AlreadySettled: true}, nil
	}

	if err := uc.appendSettledEvent(ctx, winnerID, loserID, now); err != nil {
		return CastVoteResult{}, err
	}

	logger.Info("vote settled",
		"event", "faceoff_vote_settled",
		"module", "arena/faceoff-service",
		"layer", "application",
		"winner_id", winnerID,
		"loser_id", loserID,
	)
	return CastVoteResult{Applied: true}, nil
}

func (uc VoteUseCase) now() time.Time {
	now := time.Now().UTC()
	if uc.Clock != nil {
		now = uc.Clock.Now().UTC()
	}
	return now
}

func (uc VoteUseCase) appendSettledEvent(ctx context.Context, winnerID, loserID string, occurredAt time.Time) error {
	// Outbox is optional for pure read/test wiring, so nil is treated as no-op.
	if uc.Outbox == nil {
		return nil
	}
	eventID, err := uc.IDGen.NewID(ctx)
	if err != nil {
		return err
	}
	envelope, err := newFaceoffEnvelope(eventID, "faceoff.vote.settled", winnerID, occurredAt, map[string]any{
		"winner_id":   winnerID,
		"loser_id":    loserID,
		"occurred_at": occurredAt.Format(time.RFC3339),
	})
	if err != nil {
		return err
	}
	return uc.Outbox.AppendOutbox(ctx, envelope)
}
