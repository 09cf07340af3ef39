package service

import (
	"testing"

	"github.com/Jkweks/workorder-dashboard/internal/workorder/entity"
)

func TestDeriveCompletion(t *testing.T) {
	cases := []struct {
		name       string
		items      []ItemInput
		wantDate   string
		wantVaries bool
	}{
		{
			name:     "no items",
			items:    nil,
			wantDate: "",
		},
		{
			name: "items without dates",
			items: []ItemInput{
				{Type: "Door"},
			},
			wantDate: "",
		},
		{
			name: "single date",
			items: []ItemInput{
				{CompletionDates: []string{"2025-02-01"}},
			},
			wantDate: "2025-02-01",
		},
		{
			name: "same date on two items does not vary",
			items: []ItemInput{
				{CompletionDates: []string{"2025-02-01"}},
				{CompletionDates: []string{"2025-02-01"}},
			},
			wantDate: "2025-02-01",
		},
		{
			name: "multiple distinct dates vary and pick latest",
			items: []ItemInput{
				{CompletionDates: []string{"2025-02-01", "2025-03-15"}},
				{CompletionDates: []string{"2025-01-05"}},
			},
			wantDate:   "2025-03-15",
			wantVaries: true,
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			date, varies := DeriveCompletion(tc.items)
			if date != tc.wantDate || varies != tc.wantVaries {
				t.Errorf("DeriveCompletion = (%q, %v), want (%q, %v)", date, varies, tc.wantDate, tc.wantVaries)
			}
		})
	}
}

func TestBuildOrderDefaults(t *testing.T) {
	svc := &WorkOrderService{}

	order := svc.buildOrder(&WorkOrderInput{JobNumber: "4123"})
	if order.Status != entity.StatusDraft {
		t.Errorf("status = %s, want Draft default", order.Status)
	}
	if order.Division != "4" {
		t.Errorf("division = %s, want first digit of job number", order.Division)
	}
	if order.RequestedCompletionDates == nil {
		t.Error("requested completion dates must default to empty, not nil")
	}

	order = svc.buildOrder(&WorkOrderInput{JobNumber: "4123", Division: "7", Status: entity.StatusIssued})
	if order.Division != "7" {
		t.Errorf("explicit division overridden: %s", order.Division)
	}
	if order.Status != entity.StatusIssued {
		t.Errorf("explicit status overridden: %s", order.Status)
	}
}

func TestBuildItemsDefaults(t *testing.T) {
	items := buildItems([]ItemInput{
		{Type: "Door", Quantity: -3, CompletionDates: []string{"2025-02-01"}},
	})
	if len(items) != 1 {
		t.Fatalf("got %d items", len(items))
	}
	item := items[0]
	if item.ID == "" {
		t.Error("item id not assigned")
	}
	if item.Status != entity.ItemStatusInProgress {
		t.Errorf("status = %s, want In Progress default", item.Status)
	}
	if item.Quantity != 0 {
		t.Errorf("quantity = %d, want negative clamped to 0", item.Quantity)
	}
	if len(item.CompletionDates) != 1 || item.CompletionDates[0].ID == "" {
		t.Errorf("completion dates = %+v", item.CompletionDates)
	}

	if got := buildItems(nil); got == nil || len(got) != 0 {
		t.Errorf("buildItems(nil) = %v, want empty slice", got)
	}
}
