package service

import (
	"context"
	"sort"
	"time"

	"github.com/Jkweks/workorder-dashboard/internal/workorder/entity"
	"github.com/Jkweks/workorder-dashboard/internal/workorder/repository"
	"github.com/google/uuid"
)

// ItemInput is one line item as the dashboard sends it.
type ItemInput struct {
	Type            string   `json:"type"`
	Scope           string   `json:"scope"`
	Elevation       string   `json:"elevation"`
	Quantity        int      `json:"quantity"`
	Status          string   `json:"status"`
	HoldReason      string   `json:"holdReason"`
	CompletionDates []string `json:"completionDates"`
}

// WorkOrderInput is the full create/update payload. Updates must send the
// complete desired state; there is no partial patch merge.
type WorkOrderInput struct {
	JobNumber                string      `json:"jobNumber"`
	JobName                  string      `json:"jobName"`
	JobPM                    string      `json:"jobPM"`
	JobAddress               string      `json:"jobAddress"`
	JobSuperintendent        string      `json:"jobSuperintendent"`
	Division                 string      `json:"division"`
	System                   string      `json:"system"`
	Notes                    string      `json:"notes"`
	DateIssued               string      `json:"dateIssued"`
	MaterialDeliveryDate     string      `json:"materialDeliveryDate"`
	RequestedCompletionDates []string    `json:"requestedCompletionDates"`
	Status                   string      `json:"status"`
	Items                    []ItemInput `json:"items"`
}

// WorkOrderDetail is the read projection: the order row plus its items with
// nested completion dates.
type WorkOrderDetail struct {
	Order entity.WorkOrder       `json:"order"`
	Items []entity.WorkOrderItem `json:"items"`
}

// WorkOrderService implements the work order lifecycle over the repository.
type WorkOrderService struct {
	repo *repository.WorkOrderRepository
}

// NewWorkOrderService creates the work order service.
func NewWorkOrderService(repo *repository.WorkOrderRepository) *WorkOrderService {
	return &WorkOrderService{repo: repo}
}

// List returns orders filtered by exact status and/or search substring.
func (s *WorkOrderService) List(ctx context.Context, status, q string) ([]entity.WorkOrder, error) {
	return s.repo.List(ctx, status, q)
}

// Get assembles the detail projection for one order.
func (s *WorkOrderService) Get(ctx context.Context, id string) (*WorkOrderDetail, error) {
	order, err := s.repo.FindByIDWithItems(ctx, id)
	if err != nil {
		return nil, err
	}
	items := order.Items
	if items == nil {
		items = []entity.WorkOrderItem{}
	}
	order.Items = nil
	return &WorkOrderDetail{Order: *order, Items: items}, nil
}

// Create inserts a new order with its items. The work order number is
// assigned by the repository inside the insert transaction. Returns the
// created order row; items are fetched separately via Get.
func (s *WorkOrderService) Create(ctx context.Context, input *WorkOrderInput) (*entity.WorkOrder, error) {
	order := s.buildOrder(input)
	order.ID = newID()
	order.CreatedAt = time.Now()
	order.UpdatedAt = order.CreatedAt

	if err := s.repo.Create(ctx, order, buildItems(input.Items)); err != nil {
		return nil, err
	}
	return order, nil
}

// Update overwrites the order's summary fields and wholesale-replaces its
// item set.
func (s *WorkOrderService) Update(ctx context.Context, id string, input *WorkOrderInput) (*entity.WorkOrder, error) {
	order := s.buildOrder(input)
	return s.repo.Update(ctx, id, order, buildItems(input.Items))
}

// Delete removes the order and everything under it.
func (s *WorkOrderService) Delete(ctx context.Context, id string) error {
	return s.repo.Delete(ctx, id)
}

func (s *WorkOrderService) buildOrder(input *WorkOrderInput) *entity.WorkOrder {
	status := input.Status
	if status == "" {
		status = entity.StatusDraft
	}
	division := input.Division
	if division == "" && input.JobNumber != "" {
		division = input.JobNumber[:1]
	}
	completionDate, completionVaries := DeriveCompletion(input.Items)

	requested := input.RequestedCompletionDates
	if requested == nil {
		requested = []string{}
	}

	return &entity.WorkOrder{
		JobNumber:                input.JobNumber,
		JobName:                  input.JobName,
		JobPM:                    input.JobPM,
		JobAddress:               input.JobAddress,
		JobSuperintendent:        input.JobSuperintendent,
		Division:                 division,
		System:                   input.System,
		Notes:                    input.Notes,
		DateIssued:               input.DateIssued,
		MaterialDeliveryDate:     input.MaterialDeliveryDate,
		RequestedCompletionDates: entity.DateList(requested),
		CompletionDate:           completionDate,
		CompletionVaries:         completionVaries,
		Status:                   status,
	}
}

func buildItems(inputs []ItemInput) []entity.WorkOrderItem {
	items := make([]entity.WorkOrderItem, 0, len(inputs))
	for _, in := range inputs {
		status := in.Status
		if status == "" {
			status = entity.ItemStatusInProgress
		}
		quantity := in.Quantity
		if quantity < 0 {
			quantity = 0
		}
		item := entity.WorkOrderItem{
			ID:         newID(),
			Type:       in.Type,
			Scope:      in.Scope,
			Elevation:  in.Elevation,
			Quantity:   quantity,
			Status:     status,
			HoldReason: in.HoldReason,
		}
		for _, d := range in.CompletionDates {
			item.CompletionDates = append(item.CompletionDates, entity.ItemCompletionDate{
				ID:             newID(),
				CompletionDate: d,
			})
		}
		items = append(items, item)
	}
	return items
}

// DeriveCompletion recomputes the aggregated completion date and whether it
// varies across items. The result is the latest distinct date; it varies
// when items carry more than one distinct date. Always derived from the
// item set, never trusted from a stored value.
func DeriveCompletion(items []ItemInput) (string, bool) {
	seen := map[string]struct{}{}
	for _, it := range items {
		for _, d := range it.CompletionDates {
			seen[d] = struct{}{}
		}
	}
	if len(seen) == 0 {
		return "", false
	}
	dates := make([]string, 0, len(seen))
	for d := range seen {
		dates = append(dates, d)
	}
	sort.Strings(dates)
	return dates[len(dates)-1], len(dates) > 1
}

func newID() string {
	return uuid.New().String()[:32]
}
