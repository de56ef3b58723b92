package postgres

import (
	"strings"
	"testing"
	"time"
	"volunteer-match/internal/domain/order"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	gormLogger "gorm.io/gorm/logger"
)

func newDryRunDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(postgres.New(postgres.Config{
		DSN: "host=localhost user=test password=test dbname=test port=5432 sslmode=disable",
	}), &gorm.Config{
		DryRun:               true,
		DisableAutomaticPing: true,
		Logger:               gormLogger.Discard,
	})
	if err != nil {
		t.Fatalf("failed to open dry-run db: %v", err)
	}
	return db
}

func renderQuery(t *testing.T, q *order.Query) string {
	t.Helper()
	db := newDryRunDB(t)
	return db.ToSQL(func(tx *gorm.DB) *gorm.DB {
		var rows []orderRow
		return buildQuery(tx, q).Find(&rows)
	})
}

func assertContains(t *testing.T, sql string, fragments ...string) {
	t.Helper()
	for _, fragment := range fragments {
		if !strings.Contains(sql, fragment) {
			t.Fatalf("expected SQL to contain %q, got:\n%s", fragment, sql)
		}
	}
}

func assertOrdered(t *testing.T, sql string, first, second string) {
	t.Helper()
	i, j := strings.Index(sql, first), strings.Index(sql, second)
	if i < 0 || j < 0 || i > j {
		t.Fatalf("expected %q before %q, got:\n%s", first, second, sql)
	}
}

func TestBuildQuery_Defaults(t *testing.T) {
	sql := renderQuery(t, &order.Query{Page: order.Page{Limit: 100}})

	assertContains(t, sql, "SELECT orders.* FROM", "ORDER BY orders.id ASC NULLS LAST", "LIMIT 100")
	if strings.Contains(sql, "JOIN") {
		t.Fatalf("expected no join without a reference point, got:\n%s", sql)
	}
	if strings.Contains(sql, "distance") {
		t.Fatalf("expected no distance column without a reference point, got:\n%s", sql)
	}
	if strings.Contains(sql, "OFFSET") {
		t.Fatalf("expected no offset when skip is zero, got:\n%s", sql)
	}
}

func TestBuildQuery_Filters(t *testing.T) {
	category := order.CategoryGroceries
	status := order.StatusPending
	senior := int64(7)
	volunteer := int64(9)
	since := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	until := time.Date(2024, 2, 1, 0, 0, 0, 0, time.UTC)

	sql := renderQuery(t, &order.Query{
		Filter: order.Filter{
			Category:    &category,
			Status:      &status,
			SeniorID:    &senior,
			VolunteerID: &volunteer,
			ValidSince:  &since,
			ValidUntil:  &until,
		},
		Page: order.Page{Skip: 5, Limit: 10},
	})

	assertContains(t, sql,
		"orders.category = 'GROCERIES'",
		"orders.status = 'PENDING'",
		"orders.senior_id = 7",
		"orders.volunteer_id = 9",
		"orders.valid_since >= '2024-01-01",
		"orders.valid_until <= '2024-02-01",
		"LIMIT 10",
		"OFFSET 5",
	)
	if got := strings.Count(sql, " AND "); got != 5 {
		t.Fatalf("expected 6 AND-combined predicates, got %d AND in:\n%s", got, sql)
	}
}

func TestBuildQuery_SortByColumnAddsTieBreaker(t *testing.T) {
	sql := renderQuery(t, &order.Query{
		Sort: &order.Sort{Field: order.SortByValidUntil, Direction: order.Descending},
		Page: order.Page{Limit: 10},
	})

	assertContains(t, sql, "orders.valid_until DESC NULLS LAST", "orders.id ASC")
	assertOrdered(t, sql, "orders.valid_until DESC NULLS LAST", "orders.id ASC")
}

func TestBuildQuery_Distance(t *testing.T) {
	sql := renderQuery(t, &order.Query{
		Sort:      &order.Sort{Field: order.SortByDistance, Direction: order.Descending},
		Reference: &order.Point{Latitude: 40, Longitude: -75},
		Page:      order.Page{Limit: 100},
	})

	assertContains(t, sql,
		"JOIN users ON users.id = orders.senior_id",
		"users.latitude IS NULL OR users.longitude IS NULL THEN NULL",
		"acos(LEAST(1.0, GREATEST(-1.0,",
		"sin(radians(40))",
		"radians(-75)",
		"* 6371 END) AS distance",
		"distance DESC NULLS LAST",
	)
	assertOrdered(t, sql, "distance DESC NULLS LAST", "orders.id ASC")
}

func TestBuildQuery_ReferenceWithoutDistanceSort(t *testing.T) {
	sql := renderQuery(t, &order.Query{
		Reference: &order.Point{Latitude: 52.5, Longitude: 13.4},
		Page:      order.Page{Limit: 100},
	})

	assertContains(t, sql, "AS distance", "JOIN users", "ORDER BY orders.id ASC NULLS LAST")
}

func TestQuery_RejectsInvalidQueryBeforeTouchingDatabase(t *testing.T) {
	repo := NewOrderRepository(Wrap(newDryRunDB(t), time.Second))

	_, err := repo.Query(t.Context(), &order.Query{
		Sort: &order.Sort{Field: order.SortByDistance, Direction: order.Ascending},
	})
	if err != order.ErrDistanceWithoutReference {
		t.Fatalf("expected ErrDistanceWithoutReference, got %v", err)
	}
}

func TestPatchToColumns(t *testing.T) {
	status := order.StatusAccepted
	volunteer := int64(3)

	got := patchToColumns(&order.Patch{Status: &status, VolunteerID: &volunteer})
	if len(got) != 2 {
		t.Fatalf("expected 2 columns, got %v", got)
	}
	if got["status"] != "ACCEPTED" {
		t.Fatalf("expected status label ACCEPTED, got %v", got["status"])
	}
	if got["volunteer_id"] != int64(3) {
		t.Fatalf("expected volunteer_id 3, got %v", got["volunteer_id"])
	}

	if empty := patchToColumns(&order.Patch{}); len(empty) != 0 {
		t.Fatalf("expected no columns for empty patch, got %v", empty)
	}
}

func TestOrderModelRoundTrip(t *testing.T) {
	volunteer := int64(2)
	in := &order.Order{
		ID:          1,
		Category:    order.CategoryPetWalking,
		Description: order.Description{"dog": "Rex"},
		Status:      order.StatusCompleted,
		SeniorID:    5,
		VolunteerID: &volunteer,
	}

	m := toOrderModel(in)
	if m.Category != "PET_WALKING" || m.Status != "COMPLETED" {
		t.Fatalf("expected upper case labels, got %q/%q", m.Category, m.Status)
	}

	out := toOrderEntity(m)
	if out.Category != in.Category || out.Status != in.Status {
		t.Fatalf("expected %q/%q, got %q/%q", in.Category, in.Status, out.Category, out.Status)
	}
	if out.Description["dog"] != "Rex" || *out.VolunteerID != 2 {
		t.Fatalf("unexpected entity %+v", out)
	}
}
