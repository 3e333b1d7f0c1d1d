package pagescope

import (
	"fmt"

	"github.com/DATA-DOG/go-sqlmock"
	"gorm.io/driver/mysql"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

type tUser struct {
	ID   uint
	Name string
	Age  int
}

func (tUser) TableName() string {
	return "users"
}

// tAdmin is listed 10 per page and never more than 15.
type tAdmin struct {
	ID   uint
	Name string
}

func (tAdmin) TableName() string {
	return "admins"
}

func (tAdmin) PaginationConfig() Config {
	return Config{DefaultPerPage: 10, MaxPerPage: 15}
}

type sqlMockFn = func() (string, *gorm.DB, sqlmock.Sqlmock, error)

var _sqlMockFnList = []sqlMockFn{
	newGORMMySQLMock,
	newGORMPostgresMock,
}

func newGORMMySQLMock() (string, *gorm.DB, sqlmock.Sqlmock, error) {
	mockDB, mock, err := sqlmock.New()
	if err != nil {
		return "", nil, nil, err
	}

	dialector := mysql.New(mysql.Config{
		Conn:                      mockDB,
		SkipInitializeWithVersion: true,
	})

	db, err := gorm.Open(dialector, &gorm.Config{})
	if err != nil {
		return "", nil, nil, err
	}

	return "mysql", db.Debug(), mock, nil
}

func newGORMPostgresMock() (string, *gorm.DB, sqlmock.Sqlmock, error) {
	mockDB, mock, err := sqlmock.New()
	if err != nil {
		return "", nil, nil, err
	}

	dialector := postgres.New(postgres.Config{
		Conn: mockDB,
	})

	db, err := gorm.Open(dialector, &gorm.Config{})
	if err != nil {
		return "", nil, nil, err
	}

	return "postgres", db.Debug(), mock, nil
}

func userRows(from, to int) *sqlmock.Rows {
	rows := sqlmock.NewRows([]string{"id", "name", "age"})
	for i := from; i <= to; i++ {
		rows.AddRow(i, userName(i), i/10)
	}

	return rows
}

func countRows(counts ...int64) *sqlmock.Rows {
	rows := sqlmock.NewRows([]string{"count"})
	for _, c := range counts {
		rows.AddRow(c)
	}

	return rows
}

func userName(i int) string {
	return fmt.Sprintf("user%03d", i)
}
