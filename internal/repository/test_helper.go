package repository

import (
	"fmt"
	"strings"
	"sync/atomic"
	"testing"

	"github.com/nimasrn/banking-gateway/pkg/pg"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

var testDBSeq atomic.Int64

// Entities lists every table the banking schema owns.
func Entities() []any {
	return []any{&CustomerEntity{}, &CustomerKycEntity{}, &UserEntity{}, &AccountEntity{}, &TransactionEntity{}}
}

// NewTestDB opens a private in-memory SQLite database with the schema
// applied. A single connection keeps the database alive for the test and
// serializes transactions the way row locks would.
func NewTestDB(t testing.TB) *pg.DB {
	t.Helper()
	name := strings.NewReplacer("/", "_", " ", "_").Replace(t.Name())
	dsn := fmt.Sprintf("file:%s_%d?mode=memory&cache=shared", name, testDBSeq.Add(1))

	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })

	require.NoError(t, db.AutoMigrate(Entities()...))
	return pg.New(db, db)
}
