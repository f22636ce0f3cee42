package migration

import (
	"testing"
	"testing/fstest"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFSScanner_Scan(t *testing.T) {
	fsys := fstest.MapFS{
		"migrations/002_create_attendance.sql": {Data: []byte("-- Description: Attendance records\nCREATE TABLE attendance_records (id INTEGER);\n")},
		"migrations/001_create_employees.sql":  {Data: []byte("CREATE TABLE employees (id INTEGER);\n")},
		"migrations/README.md":                 {Data: []byte("notes")},
	}

	migrations, err := NewScanner(fsys, "migrations").Scan()
	require.NoError(t, err)
	require.Len(t, migrations, 2)

	assert.Equal(t, "001", migrations[0].Version)
	assert.Equal(t, "create employees", migrations[0].Description)
	assert.Equal(t, "migrations/001_create_employees.sql", migrations[0].FilePath)
	assert.Len(t, migrations[0].Checksum, 64)

	assert.Equal(t, "002", migrations[1].Version)
	assert.Equal(t, "Attendance records", migrations[1].Description)
}

func TestFSScanner_ScanErrors(t *testing.T) {
	tests := []struct {
		name    string
		fsys    fstest.MapFS
		wantErr error
	}{
		{
			name: "bad file name",
			fsys: fstest.MapFS{
				"migrations/create_employees.sql": {Data: []byte("CREATE TABLE x (id INTEGER);")},
			},
			wantErr: ErrInvalidMigrationFile,
		},
		{
			name: "empty file",
			fsys: fstest.MapFS{
				"migrations/001_empty.sql": {Data: []byte("  \n")},
			},
			wantErr: ErrInvalidMigrationFile,
		},
		{
			name: "duplicate version",
			fsys: fstest.MapFS{
				"migrations/001_a.sql": {Data: []byte("CREATE TABLE a (id INTEGER);")},
				"migrations/001_b.sql": {Data: []byte("CREATE TABLE b (id INTEGER);")},
			},
			wantErr: ErrDuplicateVersion,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			_, err := NewScanner(tc.fsys, "migrations").Scan()
			require.ErrorIs(t, err, tc.wantErr)

			var migErr *Error
			assert.ErrorAs(t, err, &migErr)
		})
	}

	_, err := NewScanner(fstest.MapFS{}, "missing").Scan()
	assert.Error(t, err)
}

func TestSplitStatements(t *testing.T) {
	sql := `-- Description: two tables
CREATE TABLE a (id INTEGER);

-- trailing comment
CREATE TABLE b (id INTEGER);
`
	assert.Equal(t, []string{
		"CREATE TABLE a (id INTEGER)",
		"CREATE TABLE b (id INTEGER)",
	}, splitStatements(sql))

	assert.Empty(t, splitStatements("-- only a comment\n"))
}
