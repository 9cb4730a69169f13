package commands

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"

	application "newedenfaces/contexts/arena/faceoff-service/application"
	"newedenfaces/contexts/arena/faceoff-service/domain/entities"
	domainerrors "newedenfaces/contexts/arena/faceoff-service/domain/errors"
	"newedenfaces/contexts/arena/faceoff-service/ports"
)

// EnlistCharacterCommand requests ingestion of a named character from the
// external directory.
type EnlistCharacterCommand struct {
	Name   string
	Gender entities.Gender
}

// EnlistUseCase runs the ingestion pipeline: resolve the directory identifier
// by name, reject duplicates, fetch the character sheet, persist the record
// unvoted with zeroed counters. Each step is fallible and short-circuits the
// pipeline.
type EnlistUseCase struct {
	Characters ports.CharacterRepository
	Directory  ports.DirectoryClient
	Outbox     ports.OutboxWriter
	Clock      ports.Clock
	IDGen      ports.IDGenerator
	Logger     *slog.Logger
}

func (uc EnlistUseCase) EnlistCharacter(ctx context.Context, cmd EnlistCharacterCommand) (entities.Character, error) {
	logger := application.ResolveLogger(uc.Logger)
	name := strings.TrimSpace(cmd.Name)
	if name == "" || !cmd.Gender.Valid() {
		logger.Warn("enlist validation failed",
			"event", "faceoff_enlist_validation_failed",
			"module", "arena/faceoff-service",
			"layer", "application",
			"name", name,
			"gender", string(cmd.Gender),
		)
		return entities.Character{}, domainerrors.ErrInvalidEnlistInput
	}

	characterID, err := uc.Directory.ResolveCharacterID(ctx, name)
	if err != nil {
		logger.Warn("directory id lookup failed",
			"event", "faceoff_enlist_resolve_failed",
			"module", "arena/faceoff-service",
			"layer", "application",
			"name", name,
			"error", err.Error(),
		)
		return entities.Character{}, err
	}

	// Duplicate check runs before the sheet fetch so a known character never
	// costs a second directory round trip.
	if existing, err := uc.Characters.GetCharacter(ctx, characterID); err == nil {
		logger.Info("enlist duplicate rejected",
			"event", "faceoff_enlist_duplicate",
			"module", "arena/faceoff-service",
			"layer", "application",
			"character_id", characterID,
			"name", existing.Name,
		)
		return existing, domainerrors.ErrCharacterExists
	} else if !errors.Is(err, domainerrors.ErrCharacterNotFound) {
		return entities.Character{}, err
	}

	sheet, err := uc.Directory.FetchCharacterSheet(ctx, characterID)
	if err != nil {
		logger.Warn("directory sheet fetch failed",
			"event", "faceoff_enlist_sheet_failed",
			"module", "arena/faceoff-service",
			"layer", "application",
			"character_id", characterID,
			"error", err.Error(),
		)
		return entities.Character{}, err
	}

	now := uc.now()
	character := entities.Character{
		CharacterID: characterID,
		Name:        sheet.Name,
		Race:        sheet.Race,
		Bloodline:   sheet.Bloodline,
		Gender:      cmd.Gender,
		Voted:       false,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := uc.Characters.CreateCharacter(ctx, character); err != nil {
		return entities.Character{}, err
	}

	if err := uc.appendEnlistedEvent(ctx, character, now); err != nil {
		return entities.Character{}, err
	}

	logger.Info("character enlisted",
		"event", "faceoff_character_enlisted",
		"module", "arena/faceoff-service",
		"layer", "application",
		"character_id", character.CharacterID,
		"name", character.Name,
		"gender", string(character.Gender),
	)
	return character, nil
}

func (uc EnlistUseCase) now() time.Time {
	now := time.Now().UTC()
	if uc.Clock != nil {
		now = uc.Clock.Now().UTC()
	}
	return now
}

func (uc EnlistUseCase) appendEnlistedEvent(ctx context.Context, character entities.Character, occurredAt time.Time) error {
	if uc.Outbox == nil {
		return nil
	}
	eventID, err := uc.IDGen.NewID(ctx)
	if err != nil {
		return err
	}
	envelope, err := newFaceoffEnvelope(eventID, "faceoff.character.enlisted", character.CharacterID, occurredAt, map[string]any{
		"character_id": character.CharacterID,
		"name":         character.Name,
		"race":         character.Race,
		"bloodline":    character.Bloodline,
		"gender":       string(character.Gender),
		"occurred_at":  occurredAt.Format(time.RFC3339),
	})
	if err != nil {
		return err
	}
	return uc.Outbox.AppendOutbox(ctx, envelope)
}
