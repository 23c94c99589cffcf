package postgresql_test

import (
	"context"
	"fmt"
	"os"
	"testing"
	"time"

	"github.com/cmlabs-hris/ems-backend-go/internal/domain/employee"
	"github.com/cmlabs-hris/ems-backend-go/internal/domain/shift"
	"github.com/cmlabs-hris/ems-backend-go/internal/domain/user"
	"github.com/cmlabs-hris/ems-backend-go/internal/pkg/database"
	"github.com/cmlabs-hris/ems-backend-go/internal/repository/postgresql"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
)

// newTestDB connects to TEST_DATABASE_URL, applies migrations and empties
// every table. Tests are skipped when no database is configured.
func newTestDB(t *testing.T) *database.DB {
	t.Helper()

	dsn := os.Getenv("TEST_DATABASE_URL")
	if dsn == "" {
		t.Skip("TEST_DATABASE_URL not set; skipping integration test")
	}

	ctx := context.Background()
	db, err := database.NewPostgreSQLDB(ctx, dsn)
	require.NoError(t, err)
	t.Cleanup(db.Close)

	require.NoError(t, database.Migrate(ctx, db))
	require.NoError(t, truncateAllTables(ctx, db))
	return db
}

func truncateAllTables(ctx context.Context, db *database.DB) error {
	tables := []string{
		"salaries",
		"leave_balances",
		"leave_requests",
		"attendances",
		"employees",
		"shifts",
		"departments",
		"users",
	}
	for _, table := range tables {
		if _, err := db.Exec(ctx, fmt.Sprintf("TRUNCATE TABLE %s CASCADE", table)); err != nil {
			return fmt.Errorf("failed to truncate table %s: %w", table, err)
		}
	}
	return nil
}

// createTestEmployee inserts a shift, a user and an employee joined on doj.
func createTestEmployee(t *testing.T, db *database.DB, doj time.Time) (employee.Employee, shift.Shift) {
	t.Helper()
	ctx := context.Background()

	s, err := postgresql.NewShiftRepository(db).Create(ctx, shift.Shift{
		Name:         "Day",
		StartTime:    "09:00",
		EndTime:      "17:00",
		GraceMinutes: 15,
		MinimumHours: decimal.NewFromInt(8),
	})
	require.NoError(t, err)

	email := uuid.NewString()[:8] + "@example.com"
	u, err := postgresql.NewUserRepository(db).Create(ctx, user.User{
		Name:         "Test Employee",
		Email:        email,
		PasswordHash: "hash",
		Role:         user.RoleEmployee,
	})
	require.NoError(t, err)

	e, err := postgresql.NewEmployeeRepository(db).Create(ctx, employee.Employee{
		UserID:        u.ID,
		EmployeeCode:  "EMP-" + uuid.NewString()[:6],
		Name:          u.Name,
		Email:         email,
		ShiftID:       s.ID,
		DateOfJoining: doj,
	})
	require.NoError(t, err)
	return e, s
}
