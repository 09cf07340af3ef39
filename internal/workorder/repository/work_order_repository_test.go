package repository

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/Jkweks/workorder-dashboard/internal/workorder/entity"
	"github.com/Jkweks/workorder-dashboard/internal/workorder/testutil"
	"github.com/google/uuid"
)

func newTestRepo(t *testing.T) *WorkOrderRepository {
	t.Helper()
	db := testutil.SetupTestDB(t)
	return NewWorkOrderRepository(db)
}

func testOrder(jobNumber string) *entity.WorkOrder {
	now := time.Now()
	return &entity.WorkOrder{
		ID:                       uuid.New().String()[:32],
		JobNumber:                jobNumber,
		JobName:                  "Job " + jobNumber,
		Status:                   entity.StatusDraft,
		DateIssued:               "2025-01-02",
		RequestedCompletionDates: entity.DateList{},
		CreatedAt:                now,
		UpdatedAt:                now,
	}
}

func testItem(itemType, elevation string, qty int, dates ...string) entity.WorkOrderItem {
	item := entity.WorkOrderItem{
		ID:        uuid.New().String()[:32],
		Type:      itemType,
		Elevation: elevation,
		Quantity:  qty,
		Status:    entity.ItemStatusInProgress,
	}
	for _, d := range dates {
		item.CompletionDates = append(item.CompletionDates, entity.ItemCompletionDate{
			ID:             uuid.New().String()[:32],
			CompletionDate: d,
		})
	}
	return item
}

func TestFormatWorkOrderNumber(t *testing.T) {
	cases := []struct {
		seq  int
		want string
	}{
		{1, "WO-20250102-001"},
		{42, "WO-20250102-042"},
		{999, "WO-20250102-999"},
		{1000, "WO-20250102-1000"},
	}
	for _, tc := range cases {
		got := FormatWorkOrderNumber("20250102", tc.seq)
		if got != tc.want {
			t.Errorf("FormatWorkOrderNumber(%d) = %s, want %s", tc.seq, got, tc.want)
		}
	}
}

func TestNumberSequence(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()
	day := time.Now().Format("20060102")

	for i := 1; i <= 3; i++ {
		order := testOrder(fmt.Sprintf("1%03d", i))
		if err := repo.Create(ctx, order, nil); err != nil {
			t.Fatalf("create %d: %v", i, err)
		}
		want := FormatWorkOrderNumber(day, i)
		if order.WorkOrderNumber != want {
			t.Errorf("create %d: number = %s, want %s", i, order.WorkOrderNumber, want)
		}
	}
}

func TestNumberSeedsFromExistingRows(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()
	day := time.Now().Format("20060102")

	// Rows migrated from the old system: no counter row exists yet, and one
	// number has a malformed suffix that seeding must skip.
	legacy := testOrder("9001")
	legacy.WorkOrderNumber = FormatWorkOrderNumber(day, 7)
	if err := repo.DB().Create(legacy).Error; err != nil {
		t.Fatalf("seed legacy order: %v", err)
	}
	malformed := testOrder("9002")
	malformed.WorkOrderNumber = "WO-" + day + "-DRAFT"
	if err := repo.DB().Create(malformed).Error; err != nil {
		t.Fatalf("seed malformed order: %v", err)
	}

	order := testOrder("9003")
	if err := repo.Create(ctx, order, nil); err != nil {
		t.Fatalf("create: %v", err)
	}
	want := FormatWorkOrderNumber(day, 8)
	if order.WorkOrderNumber != want {
		t.Errorf("number = %s, want %s", order.WorkOrderNumber, want)
	}
}

func TestNumberNotReusedAfterDelete(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()
	day := time.Now().Format("20060102")

	first := testOrder("2001")
	if err := repo.Create(ctx, first, nil); err != nil {
		t.Fatalf("create: %v", err)
	}
	if err := repo.Delete(ctx, first.ID); err != nil {
		t.Fatalf("delete: %v", err)
	}

	second := testOrder("2002")
	if err := repo.Create(ctx, second, nil); err != nil {
		t.Fatalf("create: %v", err)
	}
	want := FormatWorkOrderNumber(day, 2)
	if second.WorkOrderNumber != want {
		t.Errorf("number = %s, want %s (deleted numbers must not be reissued)", second.WorkOrderNumber, want)
	}
}

func TestConcurrentCreatesGetDistinctNumbers(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	const n = 8
	var wg sync.WaitGroup
	numbers := make(chan string, n)
	errs := make(chan error, n)

	for i := 0; i < n; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			order := testOrder(fmt.Sprintf("3%03d", i))
			if err := repo.Create(ctx, order, nil); err != nil {
				errs <- err
				return
			}
			numbers <- order.WorkOrderNumber
		}(i)
	}
	wg.Wait()
	close(numbers)
	close(errs)

	for err := range errs {
		t.Fatalf("concurrent create: %v", err)
	}

	seen := map[string]bool{}
	for num := range numbers {
		if num == "" {
			t.Fatal("empty work order number")
		}
		if seen[num] {
			t.Fatalf("duplicate work order number %s", num)
		}
		seen[num] = true
	}
	if len(seen) != n {
		t.Fatalf("got %d distinct numbers, want %d", len(seen), n)
	}
}

func TestCompletionDateRoundTrip(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	order := testOrder("4001")
	items := []entity.WorkOrderItem{
		testItem("Door", "A1", 2, "2025-01-10", "2025-01-15"),
	}
	if err := repo.Create(ctx, order, items); err != nil {
		t.Fatalf("create: %v", err)
	}

	got, err := repo.FindByIDWithItems(ctx, order.ID)
	if err != nil {
		t.Fatalf("find: %v", err)
	}
	if len(got.Items) != 1 {
		t.Fatalf("got %d items, want 1", len(got.Items))
	}
	item := got.Items[0]
	if item.Quantity != 2 || item.Type != "Door" || item.Elevation != "A1" {
		t.Errorf("item round-trip mismatch: %+v", item)
	}
	dates := map[string]bool{}
	for _, d := range item.CompletionDates {
		dates[d.CompletionDate] = true
	}
	if !dates["2025-01-10"] || !dates["2025-01-15"] || len(dates) != 2 {
		t.Errorf("completion dates = %v, want both 2025-01-10 and 2025-01-15", dates)
	}
}

func TestUpdateReplacesItemsWholesale(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	order := testOrder("5001")
	oldItems := []entity.WorkOrderItem{
		testItem("Door", "A1", 1, "2025-02-01"),
		testItem("Storefront", "B2", 3),
	}
	if err := repo.Create(ctx, order, oldItems); err != nil {
		t.Fatalf("create: %v", err)
	}
	oldIDs := map[string]bool{}
	for _, it := range oldItems {
		oldIDs[it.ID] = true
	}

	newItems := []entity.WorkOrderItem{
		testItem("Curtainwall", "C3", 5, "2025-03-01"),
	}
	order.Status = entity.StatusIssued
	updated, err := repo.Update(ctx, order.ID, order, newItems)
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if updated.Status != entity.StatusIssued {
		t.Errorf("status = %s, want Issued", updated.Status)
	}

	got, err := repo.FindByIDWithItems(ctx, order.ID)
	if err != nil {
		t.Fatalf("find: %v", err)
	}
	if len(got.Items) != 1 {
		t.Fatalf("got %d items after update, want 1", len(got.Items))
	}
	item := got.Items[0]
	if item.Type != "Curtainwall" || item.Elevation != "C3" || item.Quantity != 5 {
		t.Errorf("replaced item mismatch: %+v", item)
	}
	if oldIDs[item.ID] {
		t.Error("old item id resurfaced after wholesale replacement")
	}
	if len(item.CompletionDates) != 1 || item.CompletionDates[0].CompletionDate != "2025-03-01" {
		t.Errorf("replaced item dates = %+v", item.CompletionDates)
	}
}

func TestUpdateOverwritesBlankFields(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	order := testOrder("5050")
	order.JobPM = "Pat Jones"
	order.Notes = "rush job"
	if err := repo.Create(ctx, order, nil); err != nil {
		t.Fatalf("create: %v", err)
	}

	blank := testOrder("5050")
	blank.JobPM = ""
	blank.Notes = ""
	updated, err := repo.Update(ctx, order.ID, blank, nil)
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if updated.JobPM != "" || updated.Notes != "" {
		t.Errorf("blank fields were not overwritten: pm=%q notes=%q", updated.JobPM, updated.Notes)
	}
}

func TestUpdateNotFound(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	_, err := repo.Update(ctx, "no-such-id", testOrder("6001"), nil)
	if err != ErrNotFound {
		t.Fatalf("err = %v, want ErrNotFound", err)
	}
}

func TestDeleteRemovesItemsAndDates(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	order := testOrder("7001")
	items := []entity.WorkOrderItem{
		testItem("Door", "A1", 1, "2025-02-01", "2025-02-15"),
		testItem("Window wall", "D4", 2),
	}
	if err := repo.Create(ctx, order, items); err != nil {
		t.Fatalf("create: %v", err)
	}

	if err := repo.Delete(ctx, order.ID); err != nil {
		t.Fatalf("delete: %v", err)
	}

	if _, err := repo.FindByID(ctx, order.ID); err != ErrNotFound {
		t.Fatalf("order still retrievable after delete: %v", err)
	}
	var itemCount int64
	repo.DB().Model(&entity.WorkOrderItem{}).Where("work_order_id = ?", order.ID).Count(&itemCount)
	if itemCount != 0 {
		t.Errorf("%d orphan item rows after delete", itemCount)
	}
	var dateCount int64
	repo.DB().Model(&entity.ItemCompletionDate{}).Count(&dateCount)
	if dateCount != 0 {
		t.Errorf("%d orphan completion date rows after delete", dateCount)
	}
}

func TestListFilters(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	acme := testOrder("8001")
	acme.JobName = "Acme Tower"
	acme.Status = entity.StatusOnHold
	if err := repo.Create(ctx, acme, nil); err != nil {
		t.Fatalf("create: %v", err)
	}

	acmeDraft := testOrder("8002")
	acmeDraft.JobName = "Acme Annex"
	if err := repo.Create(ctx, acmeDraft, nil); err != nil {
		t.Fatalf("create: %v", err)
	}

	other := testOrder("8003")
	other.JobName = "Riverside Lofts"
	other.Status = entity.StatusOnHold
	if err := repo.Create(ctx, other, nil); err != nil {
		t.Fatalf("create: %v", err)
	}

	got, err := repo.List(ctx, entity.StatusOnHold, "acme")
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(got) != 1 || got[0].ID != acme.ID {
		t.Fatalf("filtered list = %d rows, want exactly the on-hold Acme order", len(got))
	}

	all, err := repo.List(ctx, "", "")
	if err != nil {
		t.Fatalf("list all: %v", err)
	}
	if len(all) != 3 {
		t.Fatalf("unfiltered list = %d rows, want 3", len(all))
	}
}

func TestListOrderedNewestFirst(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	first := testOrder("8101")
	first.CreatedAt = time.Now().Add(-time.Hour)
	first.UpdatedAt = first.CreatedAt
	if err := repo.Create(ctx, first, nil); err != nil {
		t.Fatalf("create: %v", err)
	}
	second := testOrder("8102")
	if err := repo.Create(ctx, second, nil); err != nil {
		t.Fatalf("create: %v", err)
	}

	got, err := repo.List(ctx, "", "")
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(got) != 2 || got[0].ID != second.ID {
		t.Fatalf("list not ordered newest-created first")
	}
}
