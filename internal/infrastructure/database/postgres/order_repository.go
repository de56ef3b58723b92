package postgres

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"
	"volunteer-match/internal/domain/order"
	"volunteer-match/internal/infrastructure/database/postgres/models"

	"gorm.io/datatypes"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// distanceSQL is the spherical law of cosines over the joined senior row.
// GREATEST/LEAST skip NULLs in Postgres, so missing coordinates are handled
// explicitly to keep the distance NULL.
var distanceSQL = fmt.Sprintf(`CASE WHEN users.latitude IS NULL OR users.longitude IS NULL THEN NULL `+
	`ELSE acos(LEAST(1.0, GREATEST(-1.0, `+
	`sin(radians(?)) * sin(radians(users.latitude)) + `+
	`cos(radians(?)) * cos(radians(users.latitude)) * cos(radians(users.longitude) - radians(?))`+
	`))) * %v END`, order.EarthRadiusKm)

// OrderRepository implements order.Repository on Postgres
type OrderRepository struct {
	db *DB
}

func NewOrderRepository(db *DB) order.Repository {
	return &OrderRepository{db: db}
}

// orderRow is an orders row plus the computed distance column.
type orderRow struct {
	models.OrderModel `gorm:"embedded"`
	Distance          *float64 `gorm:"column:distance"`
}

func (r *OrderRepository) Create(ctx context.Context, o *order.Order) error {
	o.CreatedAt = time.Now()
	if o.Status == "" {
		o.Status = order.StatusPending
	}
	if o.Description == nil {
		o.Description = order.Description{}
	}

	tx, cancel := r.db.session(ctx)
	defer cancel()

	dbModel := toOrderModel(o)
	if err := tx.Create(dbModel).Error; err != nil {
		if errors.Is(err, gorm.ErrForeignKeyViolated) {
			return order.ErrUnknownParty
		}
		return fmt.Errorf("failed to create order: %w", err)
	}

	o.ID = dbModel.ID
	return nil
}

func (r *OrderRepository) GetByID(ctx context.Context, orderID int64) (*order.Order, error) {
	tx, cancel := r.db.session(ctx)
	defer cancel()

	var dbModel models.OrderModel
	err := tx.Where("id = ?", orderID).First(&dbModel).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, order.ErrOrderNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get order: %w", err)
	}

	return toOrderEntity(&dbModel), nil
}

func (r *OrderRepository) Update(ctx context.Context, orderID int64, patch *order.Patch) (*order.Order, error) {
	updates := patchToColumns(patch)
	if len(updates) == 0 {
		return r.GetByID(ctx, orderID)
	}

	tx, cancel := r.db.session(ctx)
	defer cancel()

	var dbModel models.OrderModel
	result := tx.Model(&dbModel).
		Clauses(clause.Returning{}).
		Where("id = ?", orderID).
		Updates(updates)

	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrForeignKeyViolated) {
			return nil, order.ErrUnknownParty
		}
		return nil, fmt.Errorf("failed to update order: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return nil, order.ErrOrderNotFound
	}

	return toOrderEntity(&dbModel), nil
}

func (r *OrderRepository) Delete(ctx context.Context, orderID int64) (*order.Order, error) {
	tx, cancel := r.db.session(ctx)
	defer cancel()

	var dbModel models.OrderModel
	result := tx.Clauses(clause.Returning{}).
		Where("id = ?", orderID).
		Delete(&dbModel)

	if result.Error != nil {
		return nil, fmt.Errorf("failed to delete order: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return nil, order.ErrOrderNotFound
	}

	return toOrderEntity(&dbModel), nil
}

func (r *OrderRepository) Query(ctx context.Context, q *order.Query) ([]order.Result, error) {
	if err := q.Validate(); err != nil {
		return nil, err
	}

	tx, cancel := r.db.session(ctx)
	defer cancel()

	var rows []orderRow
	if err := buildQuery(tx, q).Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("failed to query orders: %w", err)
	}

	results := make([]order.Result, len(rows))
	for i := range rows {
		results[i] = order.Result{
			Order:       toOrderEntity(&rows[i].OrderModel),
			Distance:    rows[i].Distance,
			HasDistance: q.Reference != nil,
		}
	}

	return results, nil
}

// buildQuery composes the statement for q without executing it.
func buildQuery(tx *gorm.DB, q *order.Query) *gorm.DB {
	db := tx.Model(&models.OrderModel{})

	if q.Reference != nil {
		ref := q.Reference
		db = db.Select("orders.*, ("+distanceSQL+") AS distance", ref.Latitude, ref.Latitude, ref.Longitude).
			Joins("JOIN users ON users.id = orders.senior_id")
	} else {
		db = db.Select("orders.*")
	}

	// Apply filters
	f := q.Filter
	if f.Category != nil {
		db = db.Where("orders.category = ?", toEnumLabel(*f.Category))
	}
	if f.Status != nil {
		db = db.Where("orders.status = ?", toEnumLabel(*f.Status))
	}
	if f.SeniorID != nil {
		db = db.Where("orders.senior_id = ?", *f.SeniorID)
	}
	if f.VolunteerID != nil {
		db = db.Where("orders.volunteer_id = ?", *f.VolunteerID)
	}
	if f.ValidSince != nil {
		db = db.Where("orders.valid_since >= ?", *f.ValidSince)
	}
	if f.ValidUntil != nil {
		db = db.Where("orders.valid_until <= ?", *f.ValidUntil)
	}

	// Apply sorting; id breaks ties so pages never overlap
	sort := q.EffectiveSort()
	direction := "ASC"
	if sort.Direction == order.Descending {
		direction = "DESC"
	}
	if sort.Field.IsComputed() {
		db = db.Order(fmt.Sprintf("distance %s NULLS LAST", direction))
	} else {
		db = db.Order(fmt.Sprintf("orders.%s %s NULLS LAST", sort.Field.Column(), direction))
	}
	if sort.Field != order.SortByID {
		db = db.Order("orders.id ASC")
	}

	// Apply pagination
	return db.Offset(q.Page.Skip).Limit(q.Page.Limit)
}

func patchToColumns(p *order.Patch) map[string]interface{} {
	updates := map[string]interface{}{}
	if p.Category != nil {
		updates["category"] = toEnumLabel(*p.Category)
	}
	if p.Description != nil {
		updates["description"] = datatypes.JSONMap(*p.Description)
	}
	if p.ValidSince != nil {
		updates["valid_since"] = *p.ValidSince
	}
	if p.ValidUntil != nil {
		updates["valid_until"] = *p.ValidUntil
	}
	if p.Status != nil {
		updates["status"] = toEnumLabel(*p.Status)
	}
	if p.SeniorID != nil {
		updates["senior_id"] = *p.SeniorID
	}
	if p.VolunteerID != nil {
		updates["volunteer_id"] = *p.VolunteerID
	}
	return updates
}

// Enum labels are stored upper case (GROCERIES, PENDING, ...).
func toEnumLabel[T ~string](v T) string {
	return strings.ToUpper(string(v))
}

func fromEnumLabel[T ~string](label string) T {
	return T(strings.ToLower(label))
}

// Helper functions to convert between domain entities and database models
func toOrderModel(o *order.Order) *models.OrderModel {
	return &models.OrderModel{
		ID:          o.ID,
		Category:    toEnumLabel(o.Category),
		Description: datatypes.JSONMap(o.Description),
		CreatedAt:   o.CreatedAt,
		ValidSince:  o.ValidSince,
		ValidUntil:  o.ValidUntil,
		Status:      toEnumLabel(o.Status),
		SeniorID:    o.SeniorID,
		VolunteerID: o.VolunteerID,
	}
}

func toOrderEntity(m *models.OrderModel) *order.Order {
	description := order.Description{}
	for k, v := range m.Description {
		description[k] = v
	}
	return &order.Order{
		ID:          m.ID,
		Category:    fromEnumLabel[order.Category](m.Category),
		Description: description,
		CreatedAt:   m.CreatedAt,
		ValidSince:  m.ValidSince,
		ValidUntil:  m.ValidUntil,
		Status:      fromEnumLabel[order.Status](m.Status),
		SeniorID:    m.SeniorID,
		VolunteerID: m.VolunteerID,
	}
}
