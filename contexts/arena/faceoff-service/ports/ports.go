package ports

import (
	"context"
	"encoding/json"
	"time"

	"newedenfaces/contexts/arena/faceoff-service/domain/entities"
)

// CharacterRepository is the persistence collaborator for character records.
type CharacterRepository interface {
	CreateCharacter(ctx context.Context, character entities.Character) error
	GetCharacter(ctx context.Context, characterID string) (entities.Character, error)
	// ListCandidates returns all unvoted characters. Order carries no meaning.
	ListCandidates(ctx context.Context) ([]entities.Character, error)
	ListCharacters(ctx context.Context) ([]entities.Character, error)
	// SettleVote applies the one-shot settlement for a single record: set
	// voted=true and increment wins (won=true) or losses (won=false), only if
	// voted is currently false. It reports applied=false when the record was
	// already settled by a competing vote, and ErrCharacterNotFound when the
	// record does not exist.
	SettleVote(ctx context.Context, characterID string, won bool, updatedAt time.Time) (bool, error)
}

// CharacterSheet is the profile payload resolved from the external directory.
type CharacterSheet struct {
	Name      string
	Race      string
	Bloodline string
}

// DirectoryClient resolves character names against the external directory
// service (name -> external identifier -> character sheet).
type DirectoryClient interface {
	ResolveCharacterID(ctx context.Context, name string) (string, error)
	FetchCharacterSheet(ctx context.Context, characterID string) (CharacterSheet, error)
}

type Clock interface {
	Now() time.Time
}

type IDGenerator interface {
	NewID(ctx context.Context) (string, error)
}

// RandomSource backs candidate sampling so pair selection stays deterministic
// under an injected seed.
type RandomSource interface {
	Intn(n int) int
}

// EventEnvelope is the canonical event shape relayed through the outbox.
type EventEnvelope struct {
	EventID          string          `json:"event_id"`
	EventType        string          `json:"event_type"`
	OccurredAt       time.Time       `json:"occurred_at"`
	SourceService    string          `json:"source_service"`
	TraceID          string          `json:"trace_id"`
	SchemaVersion    int             `json:"schema_version"`
	PartitionKeyPath string          `json:"partition_key_path"`
	PartitionKey     string          `json:"partition_key"`
	Data             json.RawMessage `json:"data"`
}

type OutboxMessage struct {
	OutboxID     string
	EventType    string
	PartitionKey string
	Payload      []byte
	CreatedAt    time.Time
}

type OutboxWriter interface {
	AppendOutbox(ctx context.Context, envelope EventEnvelope) error
}

type OutboxRepository interface {
	ListPendingOutbox(ctx context.Context, limit int) ([]OutboxMessage, error)
	MarkOutboxPublished(ctx context.Context, outboxID string, publishedAt time.Time) error
}

type EventPublisher interface {
	Publish(ctx context.Context, topic string, event EventEnvelope) error
}
