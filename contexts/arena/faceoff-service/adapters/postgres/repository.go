package postgresadapter

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"strings"
	"time"

	"newedenfaces/contexts/arena/faceoff-service/domain/entities"
	domainerrors "newedenfaces/contexts/arena/faceoff-service/domain/errors"
	"newedenfaces/contexts/arena/faceoff-service/ports"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

const (
	outboxStatusPending   = "pending"
	outboxStatusPublished = "published"
)

type Repository struct {
	db     *gorm.DB
	logger *slog.Logger
}

func NewRepository(db *gorm.DB, logger *slog.Logger) *Repository {
	if logger == nil {
		logger = slog.Default()
	}
	return &Repository{
		db:     db,
		logger: logger,
	}
}

func (r *Repository) CreateCharacter(ctx context.Context, character entities.Character) error {
	row := characterModelFromEntity(character)
	create := r.db.WithContext(ctx).Create(&row)
	if create.Error != nil {
		if isUniqueViolation(create.Error) {
			return domainerrors.ErrCharacterExists
		}
		return r.logError("faceoff_repo_create_character_failed", create.Error,
			"character_id", row.CharacterID,
		)
	}
	return nil
}

func (r *Repository) GetCharacter(ctx context.Context, characterID string) (entities.Character, error) {
	var row characterModel
	err := r.db.WithContext(ctx).
		Where("character_id = ?", strings.TrimSpace(characterID)).
		First(&row).
		Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return entities.Character{}, domainerrors.ErrCharacterNotFound
		}
		return entities.Character{}, r.logError("faceoff_repo_get_character_failed", err,
			"character_id", strings.TrimSpace(characterID),
		)
	}
	return row.toEntity(), nil
}

func (r *Repository) ListCandidates(ctx context.Context) ([]entities.Character, error) {
	var rows []characterModel
	if err := r.db.WithContext(ctx).
		Where("voted = ?", false).
		Find(&rows).Error; err != nil {
		return nil, r.logError("faceoff_repo_list_candidates_failed", err)
	}
	return toCharacterEntities(rows), nil
}

func (r *Repository) ListCharacters(ctx context.Context) ([]entities.Character, error) {
	var rows []characterModel
	if err := r.db.WithContext(ctx).
		Order("wins DESC, name ASC").
		Find(&rows).Error; err != nil {
		return nil, r.logError("faceoff_repo_list_characters_failed", err)
	}
	return toCharacterEntities(rows), nil
}

// SettleVote is a single conditional UPDATE: the counter increment and the
// voted flag land only on rows still marked unvoted, so a competing vote on
// the same character cannot settle it twice.
func (r *Repository) SettleVote(ctx context.Context, characterID string, won bool, updatedAt time.Time) (bool, error) {
	counter := "losses"
	if won {
		counter = "wins"
	}
	result := r.db.WithContext(ctx).
		Model(&characterModel{}).
		Where("character_id = ?", strings.TrimSpace(characterID)).
		Where("voted = ?", false).
		Updates(map[string]any{
			counter:      gorm.Expr(counter + " + 1"),
			"voted":      true,
			"updated_at": updatedAt.UTC(),
		})
	if result.Error != nil {
		return false, r.logError("faceoff_repo_settle_vote_failed", result.Error,
			"character_id", strings.TrimSpace(characterID),
			"won", won,
		)
	}
	if result.RowsAffected > 0 {
		return true, nil
	}

	// Zero rows means either a lost settlement race or a missing record;
	// disambiguate with a follow-up read.
	if _, err := r.GetCharacter(ctx, characterID); err != nil {
		return false, err
	}
	return false, nil
}

func (r *Repository) AppendOutbox(ctx context.Context, envelope ports.EventEnvelope) error {
	payload, err := json.Marshal(envelope)
	if err != nil {
		return r.logError("faceoff_repo_append_outbox_marshal_failed", err,
			"event_id", strings.TrimSpace(envelope.EventID),
			"event_type", strings.TrimSpace(envelope.EventType),
		)
	}
	row := outboxModel{
		OutboxID:     strings.TrimSpace(envelope.EventID),
		EventType:    strings.TrimSpace(envelope.EventType),
		PartitionKey: strings.TrimSpace(envelope.PartitionKey),
		Payload:      payload,
		Status:       outboxStatusPending,
		CreatedAt:    envelope.OccurredAt.UTC(),
	}
	if row.OutboxID == "" {
		row.OutboxID = uuid.NewString()
	}
	if row.CreatedAt.IsZero() {
		row.CreatedAt = time.Now().UTC()
	}
	create := r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "outbox_id"}},
		DoNothing: true,
	}).Create(&row)
	if create.Error != nil {
		return r.logError("faceoff_repo_append_outbox_insert_failed", create.Error,
			"outbox_id", row.OutboxID,
		)
	}
	if create.RowsAffected > 0 {
		return nil
	}

	var existing outboxModel
	if err := r.db.WithContext(ctx).
		Select("payload").
		Where("outbox_id = ?", row.OutboxID).
		First(&existing).Error; err != nil {
		return r.logError("faceoff_repo_append_outbox_load_existing_failed", err,
			"outbox_id", row.OutboxID,
		)
	}
	if !bytes.Equal(existing.Payload, row.Payload) {
		return domainerrors.ErrConflict
	}
	return nil
}

func (r *Repository) ListPendingOutbox(ctx context.Context, limit int) ([]ports.OutboxMessage, error) {
	if limit <= 0 {
		limit = 100
	}
	var rows []outboxModel
	if err := r.db.WithContext(ctx).
		Where("status = ?", outboxStatusPending).
		Order("created_at ASC").
		Limit(limit).
		Find(&rows).Error; err != nil {
		return nil, r.logError("faceoff_repo_list_pending_outbox_failed", err, "limit", limit)
	}
	items := make([]ports.OutboxMessage, 0, len(rows))
	for _, row := range rows {
		items = append(items, ports.OutboxMessage{
			OutboxID:     row.OutboxID,
			EventType:    row.EventType,
			PartitionKey: row.PartitionKey,
			Payload:      append([]byte(nil), row.Payload...),
			CreatedAt:    row.CreatedAt.UTC(),
		})
	}
	return items, nil
}

func (r *Repository) MarkOutboxPublished(ctx context.Context, outboxID string, publishedAt time.Time) error {
	result := r.db.WithContext(ctx).
		Model(&outboxModel{}).
		Where("outbox_id = ?", strings.TrimSpace(outboxID)).
		Updates(map[string]any{
			"status":       outboxStatusPublished,
			"published_at": publishedAt.UTC(),
		})
	if result.Error != nil {
		return r.logError("faceoff_repo_mark_outbox_published_failed", result.Error,
			"outbox_id", strings.TrimSpace(outboxID),
		)
	}
	if result.RowsAffected == 0 {
		return domainerrors.ErrConflict
	}
	return nil
}

func (r *Repository) logError(event string, err error, attrs ...any) error {
	fields := make([]any, 0, len(attrs)+8)
	fields = append(fields,
		"event", event,
		"module", "arena/faceoff-service",
		"layer", "adapter",
		"error", err.Error(),
	)
	fields = append(fields, attrs...)
	r.logger.Error("faceoff repository operation failed", fields...)
	return err
}

type characterModel struct {
	CharacterID string    `gorm:"column:character_id;primaryKey"`
	Name        string    `gorm:"column:name"`
	Race        string    `gorm:"column:race"`
	Bloodline   string    `gorm:"column:bloodline"`
	Gender      string    `gorm:"column:gender"`
	Wins        int       `gorm:"column:wins"`
	Losses      int       `gorm:"column:losses"`
	Voted       bool      `gorm:"column:voted"`
	CreatedAt   time.Time `gorm:"column:created_at"`
	UpdatedAt   time.Time `gorm:"column:updated_at"`
}

func (characterModel) TableName() string {
	return "characters"
}

func characterModelFromEntity(character entities.Character) characterModel {
	row := characterModel{
		CharacterID: strings.TrimSpace(character.CharacterID),
		Name:        strings.TrimSpace(character.Name),
		Race:        strings.TrimSpace(character.Race),
		Bloodline:   strings.TrimSpace(character.Bloodline),
		Gender:      string(character.Gender),
		Wins:        character.Wins,
		Losses:      character.Losses,
		Voted:       character.Voted,
		CreatedAt:   character.CreatedAt.UTC(),
		UpdatedAt:   character.UpdatedAt.UTC(),
	}
	if row.CreatedAt.IsZero() {
		row.CreatedAt = time.Now().UTC()
	}
	if row.UpdatedAt.IsZero() {
		row.UpdatedAt = row.CreatedAt
	}
	return row
}

func (m characterModel) toEntity() entities.Character {
	return entities.Character{
		CharacterID: m.CharacterID,
		Name:        m.Name,
		Race:        m.Race,
		Bloodline:   m.Bloodline,
		Gender:      entities.Gender(m.Gender),
		Wins:        m.Wins,
		Losses:      m.Losses,
		Voted:       m.Voted,
		CreatedAt:   m.CreatedAt.UTC(),
		UpdatedAt:   m.UpdatedAt.UTC(),
	}
}

type outboxModel struct {
	OutboxID     string     `gorm:"column:outbox_id;primaryKey"`
	EventType    string     `gorm:"column:event_type"`
	PartitionKey string     `gorm:"column:partition_key"`
	Payload      []byte     `gorm:"column:payload"`
	Status       string     `gorm:"column:status"`
	CreatedAt    time.Time  `gorm:"column:created_at"`
	PublishedAt  *time.Time `gorm:"column:published_at"`
}

func (outboxModel) TableName() string {
	return "faceoff_outbox"
}

func toCharacterEntities(rows []characterModel) []entities.Character {
	items := make([]entities.Character, 0, len(rows))
	for _, row := range rows {
		items = append(items, row.toEntity())
	}
	return items
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23505"
}

var _ ports.CharacterRepository = (*Repository)(nil)
var _ ports.OutboxWriter = (*Repository)(nil)
var _ ports.OutboxRepository = (*Repository)(nil)
