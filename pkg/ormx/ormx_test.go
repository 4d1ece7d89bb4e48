package ormx

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestPrepareDetectsDialect(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		cfg     DBConfig
		wantTyp string
		wantDSN string
	}{
		{
			name:    "postgres url",
			cfg:     DBConfig{DSN: "postgresql://u:p@localhost:5432/todos"},
			wantTyp: Postgres,
			wantDSN: "postgresql://u:p@localhost:5432/todos",
		},
		{
			name:    "sqlite url",
			cfg:     DBConfig{DSN: "sqlite:///./todo.db"},
			wantTyp: SQLite,
			wantDSN: "./todo.db",
		},
		{
			name:    "sqlite default file",
			cfg:     DBConfig{DbType: "SQLite"},
			wantTyp: SQLite,
			wantDSN: "todos.db",
		},
		{
			name:    "mysql fields",
			cfg:     DBConfig{DbType: "mysql", Host: "db", Port: 3306, Username: "root", Password: "pw", Database: "todo"},
			wantTyp: MySQL,
			wantDSN: "root:pw@tcp(db:3306)/todo?parseTime=True&loc=Local",
		},
		{
			name:    "postgres fields",
			cfg:     DBConfig{DbType: "postgresql", Host: "db", Port: 5432, Username: "u", Password: "p", Database: "todo"},
			wantTyp: Postgres,
			wantDSN: "host=db port=5432 user=u password=p dbname=todo sslmode=disable",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			cfg := tt.cfg
			cfg.Prepare()
			require.Equal(t, tt.wantTyp, cfg.DbType)
			require.Equal(t, tt.wantDSN, cfg.GetDSN())
		})
	}
}

func TestNewDBClientMemory(t *testing.T) {
	t.Parallel()

	db, err := NewDBClient(DBConfig{DbType: SQLite, DSN: ":memory:"})
	require.NoError(t, err)
	t.Cleanup(func() { _ = Close(db) })

	require.NoError(t, db.Exec("CREATE TABLE t (id INTEGER PRIMARY KEY)").Error)
	require.NoError(t, db.Exec("INSERT INTO t (id) VALUES (1)").Error)
	var n int64
	require.NoError(t, db.Table("t").Count(&n).Error)
	require.EqualValues(t, 1, n)

	sqlDb, err := db.DB()
	require.NoError(t, err)
	require.Equal(t, 1, sqlDb.Stats().MaxOpenConnections)
}

func TestNewDBClientUnknownDialect(t *testing.T) {
	t.Parallel()

	_, err := NewDBClient(DBConfig{DbType: "oracle"})
	require.ErrorContains(t, err, "not supported")
}
