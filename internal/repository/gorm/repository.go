package gormrepository

import (
	"context"
	"errors"
	"strings"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"eventradar/internal/models"
	"eventradar/internal/repository"
)

type Store struct {
	db *gorm.DB
}

func New(db *gorm.DB) *Store {
	return &Store{db: db}
}

func (s *Store) InTx(ctx context.Context, fn func(tx *gorm.DB) error) error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.WithContext(ctx).Transaction(fn)
}

// inTxOr returns the transaction handle when present, otherwise the
// root handle. Tx methods accept nil so callers outside a transaction
// can reuse them.
func (s *Store) inTxOr(tx *gorm.DB) *gorm.DB {
	if tx != nil {
		return tx
	}
	return s.db
}

// --- Events -----------------------------------------------------------------

func (s *Store) GetEventByID(ctx context.Context, id uint64) (*models.Event, error) {
	if s == nil || s.db == nil {
		return nil, nil
	}
	var item models.Event
	err := s.db.WithContext(ctx).
		Preload("Categories").
		Where("id = ?", id).
		First(&item).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &item, nil
}

func (s *Store) GetEventBySlug(ctx context.Context, slug string) (*models.Event, error) {
	if s == nil || s.db == nil || slug == "" {
		return nil, nil
	}
	var item models.Event
	err := s.db.WithContext(ctx).
		Preload("Categories").
		Where("slug = ?", slug).
		Order("start_date asc").
		First(&item).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &item, nil
}

func (s *Store) GetEventBySourceTx(ctx context.Context, tx *gorm.DB, sourceName, sourceID string) (*models.Event, error) {
	if s == nil || s.db == nil {
		return nil, nil
	}
	var item models.Event
	err := s.inTxOr(tx).WithContext(ctx).
		Where("source_name = ? AND source_id = ?", sourceName, sourceID).
		First(&item).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &item, nil
}

func (s *Store) ListEventsByStartDateTx(ctx context.Context, tx *gorm.DB, start time.Time) ([]models.Event, error) {
	if s == nil || s.db == nil {
		return nil, nil
	}
	var items []models.Event
	if err := s.inTxOr(tx).WithContext(ctx).
		Where("start_date = ?", start).
		Find(&items).Error; err != nil {
		return nil, err
	}
	return items, nil
}

func (s *Store) ListEventsByIDs(ctx context.Context, ids []uint64) ([]models.Event, error) {
	if s == nil || s.db == nil || len(ids) == 0 {
		return nil, nil
	}
	var items []models.Event
	if err := s.db.WithContext(ctx).
		Where("id IN ?", ids).
		Find(&items).Error; err != nil {
		return nil, err
	}
	return items, nil
}

func (s *Store) CreateEventTx(ctx context.Context, tx *gorm.DB, item *models.Event) error {
	if s == nil || s.db == nil || item == nil {
		return nil
	}
	return s.inTxOr(tx).WithContext(ctx).
		Omit("Categories").
		Create(item).Error
}

func (s *Store) SaveEventTx(ctx context.Context, tx *gorm.DB, item *models.Event) error {
	if s == nil || s.db == nil || item == nil {
		return nil
	}
	return s.inTxOr(tx).WithContext(ctx).
		Omit("Categories").
		Save(item).Error
}

func (s *Store) ListEvents(ctx context.Context, params repository.ListEventsParams) ([]models.Event, error) {
	if s == nil || s.db == nil {
		return nil, nil
	}
	query := s.applyEventFilters(ctx, params).Preload("Categories")
	query = applyOrder(query, params.OrderBy, params.Asc, "start_date")
	limit := normalizeLimit(params.Limit, 100)
	offset := normalizeOffset(params.Offset)
	var items []models.Event
	if err := query.Limit(limit).Offset(offset).Find(&items).Error; err != nil {
		return nil, err
	}
	return items, nil
}

func (s *Store) CountEvents(ctx context.Context, params repository.ListEventsParams) (int64, error) {
	if s == nil || s.db == nil {
		return 0, nil
	}
	var count int64
	if err := s.applyEventFilters(ctx, params).Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

func (s *Store) applyEventFilters(ctx context.Context, params repository.ListEventsParams) *gorm.DB {
	query := s.db.WithContext(ctx).Model(&models.Event{})
	if params.Status != nil && *params.Status != "" {
		query = query.Where("status = ?", *params.Status)
	}
	if params.Category != nil && strings.TrimSpace(*params.Category) != "" {
		query = query.
			Joins("JOIN event_categories ec ON ec.event_id = events.id").
			Joins("JOIN categories c ON c.id = ec.category_id").
			Where("c.slug = ?", strings.TrimSpace(*params.Category))
	}
	if params.Venue != nil && strings.TrimSpace(*params.Venue) != "" {
		query = query.Where("venue_name ILIKE ?", "%"+strings.TrimSpace(*params.Venue)+"%")
	}
	if params.Search != nil && strings.TrimSpace(*params.Search) != "" {
		needle := "%" + strings.TrimSpace(*params.Search) + "%"
		query = query.Where("title ILIKE ? OR description ILIKE ?", needle, needle)
	}
	if params.From != nil && !params.From.IsZero() {
		query = query.Where("start_date >= ?", *params.From)
	}
	if params.To != nil && !params.To.IsZero() {
		query = query.Where("start_date <= ?", *params.To)
	}
	if params.Featured != nil {
		query = query.Where("is_featured = ?", *params.Featured)
	}
	return query
}

// --- Categories -------------------------------------------------------------

func (s *Store) GetOrCreateCategoryTx(ctx context.Context, tx *gorm.DB, name string) (*models.Category, error) {
	if s == nil || s.db == nil {
		return nil, nil
	}
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, nil
	}
	db := s.inTxOr(tx).WithContext(ctx)

	var item models.Category
	err := db.Where("name = ?", name).First(&item).Error
	if err == nil {
		return &item, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	item = models.Category{Name: name, Slug: models.Slugify(name)}
	if err := db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "name"}},
		DoNothing: true,
	}).Create(&item).Error; err != nil {
		return nil, err
	}
	if item.ID == 0 {
		if err := db.Where("name = ?", name).First(&item).Error; err != nil {
			return nil, err
		}
	}
	return &item, nil
}

func (s *Store) ReplaceEventCategoriesTx(ctx context.Context, tx *gorm.DB, event *models.Event, categories []models.Category) error {
	if s == nil || s.db == nil || event == nil {
		return nil
	}
	return s.inTxOr(tx).WithContext(ctx).
		Model(event).
		Association("Categories").
		Replace(categories)
}

func (s *Store) ListCategories(ctx context.Context) ([]models.Category, error) {
	if s == nil || s.db == nil {
		return nil, nil
	}
	var items []models.Category
	if err := s.db.WithContext(ctx).
		Order("name asc").
		Find(&items).Error; err != nil {
		return nil, err
	}
	return items, nil
}

// --- Availability history ---------------------------------------------------

func (s *Store) InsertAvailabilityTx(ctx context.Context, tx *gorm.DB, item *models.AvailabilityHistory) error {
	if s == nil || s.db == nil || item == nil {
		return nil
	}
	return s.inTxOr(tx).WithContext(ctx).Create(item).Error
}

func (s *Store) ListAvailabilityByEventID(ctx context.Context, eventID uint64, limit int) ([]models.AvailabilityHistory, error) {
	if s == nil || s.db == nil {
		return nil, nil
	}
	var items []models.AvailabilityHistory
	if err := s.db.WithContext(ctx).
		Where("event_id = ?", eventID).
		Order("recorded_at desc").
		Limit(normalizeLimit(limit, 100)).
		Find(&items).Error; err != nil {
		return nil, err
	}
	return items, nil
}

func (s *Store) ListTransitionsSince(ctx context.Context, since time.Time, statuses []models.EventStatus) ([]models.AvailabilityHistory, error) {
	if s == nil || s.db == nil {
		return nil, nil
	}
	query := s.db.WithContext(ctx).
		Model(&models.AvailabilityHistory{}).
		Where("recorded_at >= ?", since)
	if len(statuses) > 0 {
		query = query.Where("new_status IN ?", statuses)
	}
	var items []models.AvailabilityHistory
	if err := query.Order("recorded_at asc").Find(&items).Error; err != nil {
		return nil, err
	}
	return items, nil
}

// --- Provider health --------------------------------------------------------

func (s *Store) GetProviderHealth(ctx context.Context, name string) (*models.ProviderHealth, error) {
	if s == nil || s.db == nil {
		return nil, nil
	}
	var item models.ProviderHealth
	err := s.db.WithContext(ctx).
		Where("name = ?", name).
		First(&item).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &item, nil
}

func (s *Store) UpsertProviderHealth(ctx context.Context, item *models.ProviderHealth) error {
	if s == nil || s.db == nil || item == nil {
		return nil
	}
	if strings.TrimSpace(item.Name) == "" {
		return nil
	}
	return s.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "name"}},
		DoUpdates: clause.AssignmentColumns([]string{
			"source_type",
			"enabled",
			"last_attempt_at",
			"last_success_at",
			"last_error",
			"events_fetched",
			"attempt_count",
			"success_count",
			"success_rate",
			"avg_fetch_seconds",
			"updated_at",
		}),
	}).Create(item).Error
}

func (s *Store) ListProviderHealth(ctx context.Context) ([]models.ProviderHealth, error) {
	if s == nil || s.db == nil {
		return nil, nil
	}
	var items []models.ProviderHealth
	if err := s.db.WithContext(ctx).
		Order("name asc").
		Find(&items).Error; err != nil {
		return nil, err
	}
	return items, nil
}

// --- Alerts -----------------------------------------------------------------

func (s *Store) InsertAlert(ctx context.Context, item *models.Alert) error {
	if s == nil || s.db == nil || item == nil {
		return nil
	}
	return s.db.WithContext(ctx).Create(item).Error
}

func (s *Store) ListAlerts(ctx context.Context, params repository.ListAlertsParams) ([]models.Alert, error) {
	if s == nil || s.db == nil {
		return nil, nil
	}
	query := s.db.WithContext(ctx).Model(&models.Alert{})
	if params.Since != nil && !params.Since.IsZero() {
		query = query.Where("created_at >= ?", *params.Since)
	}
	limit := normalizeLimit(params.Limit, 50)
	offset := normalizeOffset(params.Offset)
	var items []models.Alert
	if err := query.
		Order("created_at desc").
		Limit(limit).
		Offset(offset).
		Find(&items).Error; err != nil {
		return nil, err
	}
	return items, nil
}

// --- helpers ----------------------------------------------------------------

func applyOrder(query *gorm.DB, orderBy string, asc *bool, fallback string) *gorm.DB {
	column := strings.TrimSpace(orderBy)
	if column == "" {
		column = fallback
	}
	direction := "desc"
	if asc != nil && *asc {
		direction = "asc"
	}
	return query.Order(column + " " + direction)
}

func normalizeLimit(limit, fallback int) int {
	if limit <= 0 {
		return fallback
	}
	if limit > 500 {
		return 500
	}
	return limit
}

func normalizeOffset(offset int) int {
	if offset < 0 {
		return 0
	}
	return offset
}
