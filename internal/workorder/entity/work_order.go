package entity

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"time"
)

// Work order statuses.
const (
	StatusDraft      = "Draft"
	StatusIssued     = "Issued"
	StatusInProgress = "In Progress"
	StatusOnHold     = "On Hold"
	StatusComplete   = "Complete"
)

// Item statuses.
const (
	ItemStatusInProgress = "In Progress"
	ItemStatusOnHold     = "On Hold"
	ItemStatusComplete   = "Complete"
)

var (
	Statuses     = []string{StatusDraft, StatusIssued, StatusInProgress, StatusOnHold, StatusComplete}
	ItemStatuses = []string{ItemStatusInProgress, ItemStatusOnHold, ItemStatusComplete}
	ItemTypes    = []string{"Door", "Storefront", "Curtainwall", "Window wall"}
	Scopes       = []string{"Kit", "Assemble", "Hardware"}
	HoldReasons  = []string{"Material Issues", "Short Material", "Waiting on Answers", "PM/Super Requested"}
	Systems      = []string{"System A", "System B", "System C"}
)

// DateList is a list of ISO dates stored as a jsonb column.
type DateList []string

func (d DateList) Value() (driver.Value, error) {
	if d == nil {
		return json.Marshal([]string{})
	}
	return json.Marshal(d)
}

func (d *DateList) Scan(value interface{}) error {
	if value == nil {
		*d = DateList{}
		return nil
	}
	bytes, ok := value.([]byte)
	if !ok {
		return fmt.Errorf("failed to scan DateList: %v", value)
	}
	return json.Unmarshal(bytes, d)
}

// WorkOrder is one fabrication job order. Calendar fields are stored as
// ISO yyyy-mm-dd strings; the clients never send times of day.
type WorkOrder struct {
	ID                       string   `json:"id" gorm:"primaryKey;size:32"`
	JobNumber                string   `json:"job_number" gorm:"size:64"`
	JobName                  string   `json:"job_name" gorm:"size:200"`
	JobPM                    string   `json:"job_pm" gorm:"size:100"`
	JobAddress               string   `json:"job_address" gorm:"size:300"`
	JobSuperintendent        string   `json:"job_superintendent" gorm:"size:100"`
	Division                 string   `json:"division" gorm:"size:16"`
	System                   string   `json:"system" gorm:"size:50"`
	Notes                    string   `json:"notes" gorm:"type:text"`
	DateIssued               string   `json:"date_issued" gorm:"size:10"`
	WorkOrderNumber          string   `json:"work_order_number" gorm:"size:32;not null;uniqueIndex"`
	MaterialDeliveryDate     string   `json:"material_delivery_date" gorm:"size:10"`
	RequestedCompletionDates DateList `json:"requested_completion_dates" gorm:"type:jsonb"`
	// CompletionDate and CompletionVaries are derived from the item set and
	// overwritten on every write that touches items; never edited directly.
	CompletionDate   string    `json:"completion_date" gorm:"size:10"`
	CompletionVaries bool      `json:"completion_varies"`
	Status           string    `json:"status" gorm:"size:32;not null"`
	CreatedAt        time.Time `json:"created_at"`
	UpdatedAt        time.Time `json:"updated_at"`

	Items []WorkOrderItem `json:"items,omitempty" gorm:"foreignKey:WorkOrderID;constraint:OnDelete:CASCADE"`
}

func (WorkOrder) TableName() string {
	return "work_orders"
}

// WorkOrderItem is one line item within an order. Item rows are replaced
// wholesale on every order update, so item IDs are not stable across
// updates.
type WorkOrderItem struct {
	ID          string `json:"id" gorm:"primaryKey;size:32"`
	WorkOrderID string `json:"work_order_id" gorm:"size:32;not null;index"`
	Type        string `json:"type" gorm:"size:32"`
	Scope       string `json:"scope" gorm:"size:32"`
	Elevation   string `json:"elevation" gorm:"size:100"`
	Quantity    int    `json:"quantity" gorm:"not null;default:0"`
	Status      string `json:"status" gorm:"size:32"`
	HoldReason  string `json:"hold_reason" gorm:"size:64"`
	SortOrder   int    `json:"-" gorm:"not null;default:0"`

	CompletionDates []ItemCompletionDate `json:"completion_dates" gorm:"foreignKey:ItemID;constraint:OnDelete:CASCADE"`
}

func (WorkOrderItem) TableName() string {
	return "work_order_items"
}

// ItemCompletionDate one calendar date on which (part of) an item was
// finished. An item may carry several for phased delivery.
type ItemCompletionDate struct {
	ID             string `json:"id" gorm:"primaryKey;size:32"`
	ItemID         string `json:"item_id" gorm:"size:32;not null;index"`
	CompletionDate string `json:"completion_date" gorm:"size:10;not null"`
	SortOrder      int    `json:"-" gorm:"not null;default:0"`
}

func (ItemCompletionDate) TableName() string {
	return "work_order_item_completion_dates"
}

// WorkOrderCounter per-day sequence row backing work order numbering.
// The counter never decrements, so numbers are not reused after deletes.
type WorkOrderCounter struct {
	Day     string `gorm:"primaryKey;size:8"`
	Counter int    `gorm:"not null;default:0"`
}

func (WorkOrderCounter) TableName() string {
	return "work_order_counters"
}
