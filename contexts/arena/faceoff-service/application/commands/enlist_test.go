package commands_test

import (
	"context"
	"errors"
	"testing"

	"newedenfaces/contexts/arena/faceoff-service/adapters/memory"
	"newedenfaces/contexts/arena/faceoff-service/application/commands"
	"newedenfaces/contexts/arena/faceoff-service/domain/entities"
	domainerrors "newedenfaces/contexts/arena/faceoff-service/domain/errors"
	"newedenfaces/contexts/arena/faceoff-service/ports"
)

// fakeDirectory scripts the external directory. Call counters let tests
// assert which pipeline steps ran.
type fakeDirectory struct {
	resolveID    string
	resolveErr   error
	sheet        ports.CharacterSheet
	sheetErr     error
	resolveCalls int
	sheetCalls   int
}

func (d *fakeDirectory) ResolveCharacterID(_ context.Context, _ string) (string, error) {
	d.resolveCalls++
	return d.resolveID, d.resolveErr
}

func (d *fakeDirectory) FetchCharacterSheet(_ context.Context, _ string) (ports.CharacterSheet, error) {
	d.sheetCalls++
	return d.sheet, d.sheetErr
}

var _ ports.DirectoryClient = (*fakeDirectory)(nil)

func newEnlistUseCase(seed []entities.Character, directory *fakeDirectory) (commands.EnlistUseCase, *memory.Store) {
	store := memory.NewStore(seed)
	return commands.EnlistUseCase{
		Characters: store,
		Directory:  directory,
		Outbox:     store,
		Clock:      store,
		IDGen:      store,
	}, store
}

func TestEnlistCharacterStoresUnvotedRecord(t *testing.T) {
	directory := &fakeDirectory{
		resolveID: "1466059173",
		sheet:     ports.CharacterSheet{Name: "CCP Falcon", Race: "Minmatar", Bloodline: "Sebiestor"},
	}
	uc, store := newEnlistUseCase(nil, directory)

	character, err := uc.EnlistCharacter(context.Background(), commands.EnlistCharacterCommand{
		Name:   "CCP Falcon",
		Gender: entities.GenderMale,
	})
	if err != nil {
		t.Fatalf("enlist failed: %v", err)
	}
	if character.CharacterID != "1466059173" {
		t.Fatalf("unexpected character id %s", character.CharacterID)
	}
	if character.Race != "Minmatar" || character.Bloodline != "Sebiestor" {
		t.Fatalf("sheet attributes not carried over: %+v", character)
	}

	stored, err := store.GetCharacter(context.Background(), "1466059173")
	if err != nil {
		t.Fatalf("stored record missing: %v", err)
	}
	if stored.Voted || stored.Wins != 0 || stored.Losses != 0 {
		t.Fatalf("new character must start unvoted with zero counters: %+v", stored)
	}
	if store.PendingOutboxCount() != 1 {
		t.Fatalf("expected one pending enlisted event, got %d", store.PendingOutboxCount())
	}
}

func TestEnlistCharacterRejectsInvalidInput(t *testing.T) {
	directory := &fakeDirectory{resolveID: "1"}
	uc, _ := newEnlistUseCase(nil, directory)

	cases := []commands.EnlistCharacterCommand{
		{Name: "", Gender: entities.GenderFemale},
		{Name: "   ", Gender: entities.GenderFemale},
		{Name: "CCP Falcon", Gender: entities.Gender("Other")},
		{Name: "CCP Falcon"},
	}
	for _, cmd := range cases {
		if _, err := uc.EnlistCharacter(context.Background(), cmd); !errors.Is(err, domainerrors.ErrInvalidEnlistInput) {
			t.Fatalf("expected ErrInvalidEnlistInput for %+v, got %v", cmd, err)
		}
	}
	if directory.resolveCalls != 0 {
		t.Fatalf("directory must not be consulted for invalid input")
	}
}

func TestEnlistCharacterRejectsDuplicateBeforeSheetFetch(t *testing.T) {
	directory := &fakeDirectory{
		resolveID: "42",
		sheet:     ports.CharacterSheet{Name: "Duplicate", Race: "Caldari", Bloodline: "Civire"},
	}
	uc, store := newEnlistUseCase([]entities.Character{
		{CharacterID: "42", Name: "Duplicate", Gender: entities.GenderFemale},
	}, directory)

	existing, err := uc.EnlistCharacter(context.Background(), commands.EnlistCharacterCommand{
		Name:   "Duplicate",
		Gender: entities.GenderFemale,
	})
	if !errors.Is(err, domainerrors.ErrCharacterExists) {
		t.Fatalf("expected ErrCharacterExists, got %v", err)
	}
	if existing.CharacterID != "42" {
		t.Fatalf("duplicate rejection must return the existing record, got %+v", existing)
	}
	if directory.sheetCalls != 0 {
		t.Fatalf("sheet fetch must not run for a known character")
	}
	if store.PendingOutboxCount() != 0 {
		t.Fatalf("duplicate rejection must not record an event")
	}
}

func TestEnlistCharacterPropagatesDirectoryFailures(t *testing.T) {
	resolveErr := domainerrors.ErrDirectoryNoMatch
	uc, _ := newEnlistUseCase(nil, &fakeDirectory{resolveErr: resolveErr})

	if _, err := uc.EnlistCharacter(context.Background(), commands.EnlistCharacterCommand{
		Name:   "Nobody",
		Gender: entities.GenderMale,
	}); !errors.Is(err, resolveErr) {
		t.Fatalf("expected resolve error to pass through, got %v", err)
	}

	sheetErr := domainerrors.ErrDirectoryUnparsable
	uc, store := newEnlistUseCase(nil, &fakeDirectory{resolveID: "9", sheetErr: sheetErr})
	if _, err := uc.EnlistCharacter(context.Background(), commands.EnlistCharacterCommand{
		Name:   "Ghost",
		Gender: entities.GenderMale,
	}); !errors.Is(err, sheetErr) {
		t.Fatalf("expected sheet error to pass through, got %v", err)
	}
	if _, err := store.GetCharacter(context.Background(), "9"); !errors.Is(err, domainerrors.ErrCharacterNotFound) {
		t.Fatalf("failed enlist must not persist a record, got %v", err)
	}
}
