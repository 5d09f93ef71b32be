package repository

import (
	"context"
	"database/sql"
	"log"
	"strconv"
	"testing"
	"time"

	"seo-optimizer/internal/database"
	"seo-optimizer/internal/domain"

	"github.com/google/uuid"
	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"
	"go.uber.org/zap"

	_ "github.com/jackc/pgx/v5/stdlib"
)

var testDB *sql.DB

func setupTestDB() (func(context.Context, ...testcontainers.TerminateOption) error, error) {
	var (
		dbName = "testdb"
		dbPwd  = "password"
		dbUser = "user"
	)

	dbContainer, err := postgres.Run(
		context.Background(),
		"postgres:15",
		postgres.WithDatabase(dbName),
		postgres.WithUsername(dbUser),
		postgres.WithPassword(dbPwd),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(5*time.Second)),
	)
	if err != nil {
		return nil, err
	}

	dbHost, err := dbContainer.Host(context.Background())
	if err != nil {
		return dbContainer.Terminate, err
	}

	dbPort, err := dbContainer.MappedPort(context.Background(), "5432/tcp")
	if err != nil {
		return dbContainer.Terminate, err
	}

	connStr := "postgres://" + dbUser + ":" + dbPwd + "@" + dbHost + ":" + dbPort.Port() + "/" + dbName + "?sslmode=disable"
	testDB, err = sql.Open("pgx", connStr)
	if err != nil {
		return dbContainer.Terminate, err
	}

	if err := database.RunMigrations(testDB, "../../migrations", zap.NewNop()); err != nil {
		return dbContainer.Terminate, err
	}

	return dbContainer.Terminate, nil
}

func TestMain(m *testing.M) {
	teardown, err := setupTestDB()
	if err != nil {
		log.Fatalf("could not start postgres container: %v", err)
	}

	m.Run()

	if teardown != nil {
		if err := teardown(context.Background()); err != nil {
			log.Fatalf("could not teardown postgres container: %v", err)
		}
	}
}

func TestProperty_OptimizationRecordsPreserveAttributes(t *testing.T) {
	repo := NewOptimizationRepository(testDB)
	ctx := context.Background()

	properties := gopter.NewProperties(nil)

	properties.Property("a created record is listed back unchanged", prop.ForAll(
		func(numericID uint64, previousTitle string, newTitle string) bool {
			productID, err := domain.FromLocalID(strconv.FormatUint(numericID, 10))
			if err != nil {
				t.Logf("FAIL: invalid generated id: %v", err)
				return false
			}
			shop := "shop-" + uuid.New().String() + ".myshopify.com"

			record := &domain.AppliedOptimization{
				ID:            uuid.New(),
				Shop:          shop,
				ProductID:     productID,
				PreviousTitle: previousTitle,
				NewTitle:      newTitle,
				Generator:     "mock:template-v1",
				AppliedAt:     time.Now().UTC().Truncate(time.Microsecond),
			}
			if err := repo.Create(ctx, record); err != nil {
				t.Logf("FAIL: Failed to create record: %v", err)
				return false
			}

			records, err := repo.ListByProduct(ctx, shop, productID, 10)
			if err != nil {
				t.Logf("FAIL: Failed to list records: %v", err)
				return false
			}
			if len(records) != 1 {
				t.Logf("FAIL: expected 1 record, got %d", len(records))
				return false
			}

			got := records[0]
			return got.ID == record.ID &&
				got.ProductID == productID &&
				got.PreviousTitle == previousTitle &&
				got.NewTitle == newTitle &&
				got.Generator == record.Generator &&
				got.AppliedAt.Equal(record.AppliedAt)
		},
		gen.UInt64Range(1, 1<<40),
		gen.AlphaString(),
		gen.AlphaString(),
	))

	properties.TestingRun(t, gopter.ConsoleReporter(false))
}

func TestListByProduct_NewestFirstAndScopedToShop(t *testing.T) {
	repo := NewOptimizationRepository(testDB)
	ctx := context.Background()

	productID, err := domain.FromLocalID("777")
	if err != nil {
		t.Fatal(err)
	}
	shop := "ordering-" + uuid.New().String() + ".myshopify.com"
	base := time.Now().UTC().Truncate(time.Microsecond)

	for i, title := range []string{"first", "second", "third"} {
		err := repo.Create(ctx, &domain.AppliedOptimization{
			ID:            uuid.New(),
			Shop:          shop,
			ProductID:     productID,
			PreviousTitle: "before " + title,
			NewTitle:      title,
			Generator:     "mock:template-v1",
			AppliedAt:     base.Add(time.Duration(i) * time.Minute),
		})
		if err != nil {
			t.Fatalf("Failed to create record: %v", err)
		}
	}

	// Same product id in another shop must not leak in
	err = repo.Create(ctx, &domain.AppliedOptimization{
		ID:        uuid.New(),
		Shop:      "other-" + shop,
		ProductID: productID,
		NewTitle:  "foreign",
		Generator: "mock:template-v1",
		AppliedAt: base.Add(time.Hour),
	})
	if err != nil {
		t.Fatalf("Failed to create record: %v", err)
	}

	records, err := repo.ListByProduct(ctx, shop, productID, 2)
	if err != nil {
		t.Fatalf("Failed to list records: %v", err)
	}

	if len(records) != 2 {
		t.Fatalf("expected 2 records, got %d", len(records))
	}
	if records[0].NewTitle != "third" || records[1].NewTitle != "second" {
		t.Errorf("unexpected order: %q, %q", records[0].NewTitle, records[1].NewTitle)
	}
}
