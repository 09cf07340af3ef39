package repository

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/Jkweks/workorder-dashboard/internal/workorder/entity"
	"gorm.io/gorm"
)

// WorkOrderRepository persists work orders, their items and the per-item
// completion dates. All multi-statement writes run inside one database
// transaction so partial writes are never observable.
type WorkOrderRepository struct {
	db *gorm.DB
}

// NewWorkOrderRepository creates the work order repository.
func NewWorkOrderRepository(db *gorm.DB) *WorkOrderRepository {
	return &WorkOrderRepository{db: db}
}

// DB exposes the underlying handle for callers that need raw access.
func (r *WorkOrderRepository) DB() *gorm.DB {
	return r.db
}

// FindByID returns the order row without its items.
func (r *WorkOrderRepository) FindByID(ctx context.Context, id string) (*entity.WorkOrder, error) {
	var order entity.WorkOrder
	err := r.db.WithContext(ctx).First(&order, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &order, nil
}

// FindByIDWithItems returns the order with its items in insertion order,
// each item carrying its completion dates in insertion order. Items with
// no completion dates get an empty list, not null.
func (r *WorkOrderRepository) FindByIDWithItems(ctx context.Context, id string) (*entity.WorkOrder, error) {
	var order entity.WorkOrder
	err := r.db.WithContext(ctx).
		Preload("Items", func(db *gorm.DB) *gorm.DB {
			return db.Order("sort_order ASC")
		}).
		Preload("Items.CompletionDates", func(db *gorm.DB) *gorm.DB {
			return db.Order("sort_order ASC")
		}).
		First(&order, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	for i := range order.Items {
		if order.Items[i].CompletionDates == nil {
			order.Items[i].CompletionDates = []entity.ItemCompletionDate{}
		}
	}
	return &order, nil
}

// List returns orders newest-created first, optionally filtered by exact
// status and a case-insensitive substring across the searchable columns.
func (r *WorkOrderRepository) List(ctx context.Context, status, q string) ([]entity.WorkOrder, error) {
	orders := []entity.WorkOrder{}

	query := r.db.WithContext(ctx).Model(&entity.WorkOrder{})
	if status != "" {
		query = query.Where("status = ?", status)
	}
	if q != "" {
		like := "%" + q + "%"
		query = query.Where(
			"job_number ILIKE ? OR job_name ILIKE ? OR job_pm ILIKE ? OR job_address ILIKE ? OR work_order_number ILIKE ?",
			like, like, like, like, like,
		)
	}

	err := query.Order("created_at DESC").Find(&orders).Error
	if err != nil {
		return nil, err
	}
	return orders, nil
}

// Create inserts the order row plus its items and completion dates in one
// transaction. The work order number is assigned inside the same
// transaction, so a failed create rolls the day counter back with it and
// two concurrent creates serialize on the counter row instead of racing.
func (r *WorkOrderRepository) Create(ctx context.Context, order *entity.WorkOrder, items []entity.WorkOrderItem) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		number, err := nextWorkOrderNumber(tx)
		if err != nil {
			return fmt.Errorf("generate work order number: %w", err)
		}
		order.WorkOrderNumber = number

		if err := tx.Create(order).Error; err != nil {
			return fmt.Errorf("create order: %w", err)
		}
		return insertItems(tx, order.ID, items)
	})
}

// Update overwrites the order's mutable fields (blank values included) and
// wholesale-replaces its item set: delete every completion date and item
// under the order, then re-insert from the payload. Items get new IDs on
// every update. Returns ErrNotFound when no row matched the id.
func (r *WorkOrderRepository) Update(ctx context.Context, id string, order *entity.WorkOrder, items []entity.WorkOrderItem) (*entity.WorkOrder, error) {
	var updated entity.WorkOrder
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Model(&entity.WorkOrder{}).Where("id = ?", id).Updates(map[string]interface{}{
			"job_number":                 order.JobNumber,
			"job_name":                   order.JobName,
			"job_pm":                     order.JobPM,
			"job_address":                order.JobAddress,
			"job_superintendent":         order.JobSuperintendent,
			"division":                   order.Division,
			"system":                     order.System,
			"notes":                      order.Notes,
			"date_issued":                order.DateIssued,
			"material_delivery_date":     order.MaterialDeliveryDate,
			"requested_completion_dates": order.RequestedCompletionDates,
			"completion_date":            order.CompletionDate,
			"completion_varies":          order.CompletionVaries,
			"status":                     order.Status,
			"updated_at":                 time.Now(),
		})
		if res.Error != nil {
			return fmt.Errorf("update order: %w", res.Error)
		}
		if res.RowsAffected == 0 {
			return ErrNotFound
		}

		if err := deleteItems(tx, id); err != nil {
			return err
		}
		if err := insertItems(tx, id, items); err != nil {
			return err
		}
		return tx.First(&updated, "id = ?", id).Error
	})
	if err != nil {
		return nil, err
	}
	return &updated, nil
}

// Delete removes the order with its items and completion dates. Deleting a
// nonexistent id is not an error.
func (r *WorkOrderRepository) Delete(ctx context.Context, id string) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := deleteItems(tx, id); err != nil {
			return err
		}
		return tx.Delete(&entity.WorkOrder{}, "id = ?", id).Error
	})
}

func insertItems(tx *gorm.DB, orderID string, items []entity.WorkOrderItem) error {
	for i := range items {
		item := items[i]
		item.WorkOrderID = orderID
		item.SortOrder = i
		dates := item.CompletionDates
		item.CompletionDates = nil

		if err := tx.Create(&item).Error; err != nil {
			return fmt.Errorf("create item: %w", err)
		}
		for j := range dates {
			dates[j].ItemID = item.ID
			dates[j].SortOrder = j
			if err := tx.Create(&dates[j]).Error; err != nil {
				return fmt.Errorf("create completion date: %w", err)
			}
		}
	}
	return nil
}

func deleteItems(tx *gorm.DB, orderID string) error {
	err := tx.Exec(`DELETE FROM work_order_item_completion_dates
		USING work_order_items i
		WHERE work_order_item_completion_dates.item_id = i.id AND i.work_order_id = ?`, orderID).Error
	if err != nil {
		return fmt.Errorf("delete completion dates: %w", err)
	}
	if err := tx.Exec(`DELETE FROM work_order_items WHERE work_order_id = ?`, orderID).Error; err != nil {
		return fmt.Errorf("delete items: %w", err)
	}
	return nil
}

// nextWorkOrderNumber assigns the next number for today via an atomic
// upsert-increment on the per-day counter row. The first call of a day
// seeds the counter from any numbers already in work_orders (migrated
// data); non-numeric suffixes are ignored during seeding. Concurrent
// callers block on the counter row lock and get distinct values.
func nextWorkOrderNumber(tx *gorm.DB) (string, error) {
	day := time.Now().Format("20060102")

	seed := 0
	var haveCounter int64
	if err := tx.Model(&entity.WorkOrderCounter{}).Where("day = ?", day).Count(&haveCounter).Error; err != nil {
		return "", err
	}
	if haveCounter == 0 {
		var err error
		seed, err = maxNumberSuffix(tx, "WO-"+day+"-")
		if err != nil {
			return "", err
		}
	}

	var seq int
	err := tx.Raw(`INSERT INTO work_order_counters (day, counter) VALUES (?, ?)
		ON CONFLICT (day) DO UPDATE SET counter = work_order_counters.counter + 1
		RETURNING counter`, day, seed+1).Scan(&seq).Error
	if err != nil {
		return "", err
	}
	return FormatWorkOrderNumber(day, seq), nil
}

// FormatWorkOrderNumber renders WO-YYYYMMDD-### with a 3-digit zero-padded
// sequence that simply widens past 999.
func FormatWorkOrderNumber(day string, seq int) string {
	return fmt.Sprintf("WO-%s-%03d", day, seq)
}

func maxNumberSuffix(tx *gorm.DB, prefix string) (int, error) {
	var numbers []string
	err := tx.Model(&entity.WorkOrder{}).
		Where("work_order_number LIKE ?", prefix+"%").
		Pluck("work_order_number", &numbers).Error
	if err != nil {
		return 0, err
	}

	max := 0
	for _, n := range numbers {
		parts := strings.Split(n, "-")
		v, err := strconv.Atoi(parts[len(parts)-1])
		if err != nil {
			continue
		}
		if v > max {
			max = v
		}
	}
	return max, nil
}
