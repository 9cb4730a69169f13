package memory

import (
	"context"
	"encoding/json"
	"math/rand"
	"sort"
	"strings"
	"sync"
	"time"

	"newedenfaces/contexts/arena/faceoff-service/domain/entities"
	domainerrors "newedenfaces/contexts/arena/faceoff-service/domain/errors"
	"newedenfaces/contexts/arena/faceoff-service/ports"

	"github.com/google/uuid"
)

type outboxRecord struct {
	message   ports.OutboxMessage
	published bool
}

// Store is the in-memory adapter used by tests and local wiring. It doubles
// as Clock, IDGenerator and RandomSource so an in-memory module needs no
// extra collaborators.
type Store struct {
	mu sync.RWMutex

	characters map[string]entities.Character
	outbox     map[string]outboxRecord
	random     *rand.Rand
}

func NewStore(seed []entities.Character) *Store {
	characters := make(map[string]entities.Character, len(seed))
	for _, character := range seed {
		characters[character.CharacterID] = character
	}
	return &Store{
		characters: characters,
		outbox:     make(map[string]outboxRecord),
		random:     rand.New(rand.NewSource(time.Now().UnixNano())),
	}
}

// SeedRand re-seeds the sampling source for deterministic tests.
func (s *Store) SeedRand(seed int64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.random = rand.New(rand.NewSource(seed))
}

func (s *Store) CreateCharacter(_ context.Context, character entities.Character) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	characterID := strings.TrimSpace(character.CharacterID)
	if _, exists := s.characters[characterID]; exists {
		return domainerrors.ErrCharacterExists
	}
	character.CharacterID = characterID
	s.characters[characterID] = character
	return nil
}

func (s *Store) GetCharacter(_ context.Context, characterID string) (entities.Character, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	character, ok := s.characters[strings.TrimSpace(characterID)]
	if !ok {
		return entities.Character{}, domainerrors.ErrCharacterNotFound
	}
	return character, nil
}

func (s *Store) ListCandidates(_ context.Context) ([]entities.Character, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	candidates := make([]entities.Character, 0, len(s.characters))
	for _, character := range s.characters {
		if !character.Voted {
			candidates = append(candidates, character)
		}
	}
	return candidates, nil
}

func (s *Store) ListCharacters(_ context.Context) ([]entities.Character, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	characters := make([]entities.Character, 0, len(s.characters))
	for _, character := range s.characters {
		characters = append(characters, character)
	}
	sort.Slice(characters, func(i, j int) bool {
		return characters[i].CharacterID < characters[j].CharacterID
	})
	return characters, nil
}

// SettleVote holds the store lock across the check and the mutation, so the
// settlement of one record is a critical section.
func (s *Store) SettleVote(_ context.Context, characterID string, won bool, updatedAt time.Time) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	character, ok := s.characters[strings.TrimSpace(characterID)]
	if !ok {
		return false, domainerrors.ErrCharacterNotFound
	}
	if character.Voted {
		return false, nil
	}
	if won {
		character.Wins++
	} else {
		character.Losses++
	}
	character.Voted = true
	character.UpdatedAt = updatedAt.UTC()
	s.characters[character.CharacterID] = character
	return true, nil
}

func (s *Store) AppendOutbox(_ context.Context, envelope ports.EventEnvelope) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	payload, err := envelopePayload(envelope)
	if err != nil {
		return err
	}
	s.outbox[envelope.EventID] = outboxRecord{
		message: ports.OutboxMessage{
			OutboxID:     envelope.EventID,
			EventType:    envelope.EventType,
			PartitionKey: envelope.PartitionKey,
			Payload:      payload,
			CreatedAt:    envelope.OccurredAt.UTC(),
		},
	}
	return nil
}

func (s *Store) ListPendingOutbox(_ context.Context, limit int) ([]ports.OutboxMessage, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if limit <= 0 {
		limit = 100
	}
	pending := make([]ports.OutboxMessage, 0, len(s.outbox))
	for _, record := range s.outbox {
		if !record.published {
			pending = append(pending, record.message)
		}
	}
	sort.Slice(pending, func(i, j int) bool {
		return pending[i].CreatedAt.Before(pending[j].CreatedAt)
	})
	if len(pending) > limit {
		pending = pending[:limit]
	}
	return pending, nil
}

func (s *Store) MarkOutboxPublished(_ context.Context, outboxID string, _ time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	record, ok := s.outbox[strings.TrimSpace(outboxID)]
	if !ok {
		return domainerrors.ErrConflict
	}
	record.published = true
	s.outbox[strings.TrimSpace(outboxID)] = record
	return nil
}

// PendingOutboxCount is a test helper.
func (s *Store) PendingOutboxCount() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	count := 0
	for _, record := range s.outbox {
		if !record.published {
			count++
		}
	}
	return count
}

func (s *Store) Now() time.Time {
	return time.Now().UTC()
}

func (s *Store) NewID(_ context.Context) (string, error) {
	return uuid.NewString(), nil
}

func (s *Store) Intn(n int) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.random.Intn(n)
}

func envelopePayload(envelope ports.EventEnvelope) ([]byte, error) {
	return json.Marshal(envelope)
}

var _ ports.CharacterRepository = (*Store)(nil)
var _ ports.OutboxWriter = (*Store)(nil)
var _ ports.OutboxRepository = (*Store)(nil)
var _ ports.Clock = (*Store)(nil)
var _ ports.IDGenerator = (*Store)(nil)
var _ ports.RandomSource = (*Store)(nil)
