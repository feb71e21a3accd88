package repository

import (
	"fmt"
	"os"
	"testing"

	"github.com/ZEN8890/Pinventory-Api/internal/infra/db/dbtest"
)

// 全テストの後に共有のPostgreSQLコンテナを止める
func TestMain(m *testing.M) {
	code := m.Run()
	if err := dbtest.Terminate(); err != nil {
		fmt.Fprintln(os.Stderr, err)
	}
	os.Exit(code)
}
