package testutil

import (
	"context"
	"database/sql"
	"database/sql/driver"
	"errors"
	"fmt"
	"io"
	"strings"
	"sync"
	"time"
)

// ScriptedDB драйвер database/sql без сервера для проверки настоящих репозиториев.
// SELECT возвращает пустую выборку, INSERT ... RETURNING берёт ошибку из очереди,
// а когда очередь пуста - отдаёт строку (id, created_at, updated_at).
type ScriptedDB struct {
	mu         sync.Mutex
	insertErrs []error
	begins     int
	inserts    int
	lastID     int64
}

// NewScriptedDB создает драйвер; insertErrs возвращаются по одной на каждый INSERT
func NewScriptedDB(insertErrs ...error) *ScriptedDB {
	return &ScriptedDB{insertErrs: insertErrs, lastID: 100}
}

// Open открывает пул поверх драйвера
func (s *ScriptedDB) Open() *sql.DB {
	return sql.OpenDB(scriptedConnector{db: s})
}

// Begins количество начатых транзакций
func (s *ScriptedDB) Begins() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.begins
}

// Inserts количество выполненных INSERT
func (s *ScriptedDB) Inserts() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.inserts
}

func (s *ScriptedDB) insert() (driver.Rows, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.inserts++
	if len(s.insertErrs) > 0 {
		err := s.insertErrs[0]
		s.insertErrs = s.insertErrs[1:]
		if err != nil {
			return nil, err
		}
	}

	s.lastID++
	now := time.Now().UTC()
	return &scriptedRows{
		columns: []string{"id", "created_at", "updated_at"},
		values:  [][]driver.Value{{s.lastID, now, now}},
	}, nil
}

type scriptedConnector struct{ db *ScriptedDB }

func (c scriptedConnector) Connect(context.Context) (driver.Conn, error) {
	return &scriptedConn{db: c.db}, nil
}

func (c scriptedConnector) Driver() driver.Driver { return scriptedDriver(c) }

type scriptedDriver struct{ db *ScriptedDB }

func (d scriptedDriver) Open(string) (driver.Conn, error) {
	return &scriptedConn{db: d.db}, nil
}

type scriptedConn struct{ db *ScriptedDB }

func (c *scriptedConn) Prepare(string) (driver.Stmt, error) {
	return nil, errors.New("testutil: prepared statements are not supported")
}

func (c *scriptedConn) Close() error { return nil }

func (c *scriptedConn) Begin() (driver.Tx, error) {
	return c.BeginTx(context.Background(), driver.TxOptions{})
}

func (c *scriptedConn) BeginTx(context.Context, driver.TxOptions) (driver.Tx, error) {
	c.db.mu.Lock()
	c.db.begins++
	c.db.mu.Unlock()
	return scriptedTx{}, nil
}

// CheckNamedValue принимает аргументы любых типов
func (c *scriptedConn) CheckNamedValue(*driver.NamedValue) error { return nil }

func (c *scriptedConn) QueryContext(_ context.Context, query string, _ []driver.NamedValue) (driver.Rows, error) {
	switch verbOf(query) {
	case "INSERT":
		return c.db.insert()
	case "SELECT":
		return &scriptedRows{}, nil
	}
	return nil, fmt.Errorf("testutil: unexpected query %q", query)
}

func (c *scriptedConn) ExecContext(context.Context, string, []driver.NamedValue) (driver.Result, error) {
	return driver.RowsAffected(1), nil
}

type scriptedTx struct{}

func (scriptedTx) Commit() error   { return nil }
func (scriptedTx) Rollback() error { return nil }

type scriptedRows struct {
	columns []string
	values  [][]driver.Value
	pos     int
}

func (r *scriptedRows) Columns() []string { return r.columns }

func (r *scriptedRows) Close() error { return nil }

func (r *scriptedRows) Next(dest []driver.Value) error {
	if r.pos >= len(r.values) {
		return io.EOF
	}
	copy(dest, r.values[r.pos])
	r.pos++
	return nil
}

func verbOf(query string) string {
	fields := strings.Fields(query)
	if len(fields) == 0 {
		return ""
	}
	return strings.ToUpper(fields[0])
}
