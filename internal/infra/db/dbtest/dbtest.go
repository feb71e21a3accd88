// Package dbtest は統合テスト用のPostgreSQLを用意する。
// コンテナはテスト実行全体で1つだけ起動し、マイグレーションも1回だけ当てる。
package dbtest

import (
	"context"
	"database/sql"
	"fmt"
	"sync"
	"testing"
	"time"

	infradb "github.com/ZEN8890/Pinventory-Api/internal/infra/db"

	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

var (
	once      sync.Once
	sharedDSN string
	initErr   error
	container testcontainers.Container
)

// Setup は共有コンテナに繋いだ *gorm.DB を返す。
// -short 指定時やDockerが無い環境ではSkipする。
// テーブルは毎回空にする。
func Setup(t *testing.T) *gorm.DB {
	t.Helper()
	if testing.Short() {
		t.Skip("dbtest: skipped in -short mode")
	}

	once.Do(func() {
		sharedDSN, initErr = startContainerAndMigrate()
	})
	if initErr != nil {
		t.Skipf("dbtest: postgres unavailable: %v", initErr)
	}

	gdb, err := gorm.Open(postgres.Open(sharedDSN), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("dbtest: open: %v", err)
	}
	sqlDB, err := gdb.DB()
	if err != nil {
		t.Fatalf("dbtest: sql handle: %v", err)
	}
	t.Cleanup(func() { _ = sqlDB.Close() })

	truncate(t, gdb)
	return gdb
}

func truncate(t *testing.T, gdb *gorm.DB) {
	t.Helper()
	err := gdb.Exec(`TRUNCATE TABLE inventory_logs, grouping_products, product_groups, products, users, audit_logs RESTART IDENTITY CASCADE`).Error
	if err != nil {
		t.Fatalf("dbtest: truncate: %v", err)
	}
}

func startContainerAndMigrate() (dsn string, err error) {
	// Dockerが無いとtestcontainersがpanicすることがある
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("start container: %v", r)
		}
	}()

	ctx, cancel := context.WithTimeout(context.Background(), 120*time.Second)
	defer cancel()

	req := testcontainers.ContainerRequest{
		Image:        "postgres:17-alpine",
		ExposedPorts: []string{"5432/tcp"},
		Env: map[string]string{
			"POSTGRES_USER":     "testuser",
			"POSTGRES_PASSWORD": "testpass",
			"POSTGRES_DB":       "testdb",
		},
		WaitingFor: wait.ForLog("database system is ready to accept connections").
			WithOccurrence(2).
			WithStartupTimeout(60 * time.Second),
	}

	container, err = testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: req,
		Started:          true,
	})
	if err != nil {
		return "", fmt.Errorf("start container: %w", err)
	}

	host, err := container.Host(ctx)
	if err != nil {
		return "", fmt.Errorf("get container host: %w", err)
	}
	port, err := container.MappedPort(ctx, "5432")
	if err != nil {
		return "", fmt.Errorf("get mapped port: %w", err)
	}

	dsn = fmt.Sprintf("postgres://testuser:testpass@%s:%s/testdb?sslmode=disable", host, port.Port())

	sqlDB, err := sql.Open("pgx", dsn)
	if err != nil {
		return "", fmt.Errorf("sql.Open: %w", err)
	}
	defer sqlDB.Close()

	if err := sqlDB.PingContext(ctx); err != nil {
		return "", fmt.Errorf("db ping: %w", err)
	}
	if err := infradb.Migrate(ctx, sqlDB); err != nil {
		return "", err
	}
	return dsn, nil
}

// Terminate は共有コンテナを止める。パッケージの TestMain から m.Run() の後に呼ぶ。
// 起動していなければ何もしない。
func Terminate() error {
	if container == nil {
		return nil
	}
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	c := container
	container = nil
	if err := c.Terminate(ctx); err != nil {
		return fmt.Errorf("terminate container: %w", err)
	}
	return nil
}
