// Copyright (c) 2025 EFramework Organization. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

// Package daltest 提供了基于嵌入式 SQLite 的测试存储。
package daltest

import (
	"database/sql"
	"errors"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
	"modernc.org/sqlite"
	sqlite3 "modernc.org/sqlite/lib"
)

// sqliteDialect 是 SQLite 的方言实现。
type sqliteDialect struct{}

// SQLite 是测试使用的方言。
var SQLite = sqliteDialect{}

func (sqliteDialect) Name() string { return "SQLite" }

func (sqliteDialect) Driver() string { return "sqlite" }

func (sqliteDialect) Isolation() sql.IsolationLevel { return sql.LevelDefault }

func (sqliteDialect) Limit(query string, offset, size int) (string, []int) {
	return query + " LIMIT ? OFFSET ?", []int{size, offset}
}

func (sqliteDialect) IsUniqueViolation(err error) bool {
	var serr *sqlite.Error
	if !errors.As(err, &serr) {
		return false
	}
	code := serr.Code()
	return code == sqlite3.SQLITE_CONSTRAINT_UNIQUE || code == sqlite3.SQLITE_CONSTRAINT_PRIMARYKEY
}

func (sqliteDialect) IsConstraintViolation(err error) bool {
	var serr *sqlite.Error
	return errors.As(err, &serr) && serr.Code()&0xff == sqlite3.SQLITE_CONSTRAINT
}

func (sqliteDialect) GroupConcat(field, order, sep string) string {
	expr := "GROUP_CONCAT(" + field + ", '" + strings.ReplaceAll(sep, "'", "''") + "'"
	if order != "" {
		expr += " ORDER BY " + order
	}
	return expr + ")"
}

func (sqliteDialect) DSN(url, user, pass string) (string, error) {
	return url, nil
}

// DSN 返回临时目录中的数据库地址，开启外键约束。
func DSN(t testing.TB) string {
	t.Helper()
	return "file:" + filepath.Join(t.TempDir(), "dal.db") + "?_pragma=foreign_keys(1)&_pragma=busy_timeout(5000)"
}

// Open 打开临时数据库并执行初始化脚本，测试结束时关闭。
func Open(t testing.TB, scripts ...string) *sql.DB {
	t.Helper()
	db, err := sql.Open(SQLite.Driver(), DSN(t))
	require.NoError(t, err, "打开测试数据库应当成功。")
	t.Cleanup(func() { db.Close() })
	for _, script := range scripts {
		Exec(t, db, script)
	}
	return db
}

// Exec 按分号拆分并执行脚本。
func Exec(t testing.TB, db *sql.DB, script string) {
	t.Helper()
	for _, stmt := range strings.Split(script, ";") {
		if stmt = strings.TrimSpace(stmt); stmt == "" {
			continue
		}
		_, err := db.Exec(stmt)
		require.NoError(t, err, "执行脚本应当成功：%v", stmt)
	}
}
