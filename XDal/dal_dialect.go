// Copyright (c) 2025 EFramework Organization. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package XDal

import (
	"database/sql"
	"errors"
	"strings"
	"sync"

	"github.com/go-sql-driver/mysql"
)

// ConcatSeparator 是聚合拼接字段的默认分隔符。
const ConcatSeparator = "#@#"

// Dialect 描述了存储之间的 SQL 差异。
type Dialect interface {
	// Name 返回方言名称。
	Name() string

	// Driver 返回 database/sql 的驱动名称。
	Driver() string

	// Isolation 返回事务的隔离级别。
	Isolation() sql.IsolationLevel

	// Limit 为查询追加分页窗口，返回新的查询及按占位符顺序排列的参数。
	Limit(query string, offset, size int) (string, []int)

	// IsUniqueViolation 判断错误是否为唯一约束冲突。
	IsUniqueViolation(err error) bool

	// IsConstraintViolation 判断错误是否为约束冲突（唯一约束或外键约束）。
	IsConstraintViolation(err error) bool

	// GroupConcat 返回按 order 排序并以 sep 连接 field 的聚合表达式。
	GroupConcat(field, order, sep string) string

	// DSN 根据地址、用户及密码构造直连的数据源名称。
	DSN(url, user, pass string) (string, error)
}

var (
	dialects      = map[string]Dialect{"mysql": MySQL}
	dialectsMutex sync.RWMutex
)

// RegisterDialect 注册方言，名称不区分大小写。
func RegisterDialect(dialect Dialect) {
	dialectsMutex.Lock()
	defer dialectsMutex.Unlock()
	dialects[strings.ToLower(dialect.Name())] = dialect
}

// GetDialect 根据名称获取方言，未注册时返回 nil。
func GetDialect(name string) Dialect {
	dialectsMutex.RLock()
	defer dialectsMutex.RUnlock()
	return dialects[strings.ToLower(name)]
}

// IsDuplicate 判断错误是否为指定方言下的唯一约束冲突。
func IsDuplicate(dialect Dialect, err error) bool {
	return err != nil && dialect != nil && dialect.IsUniqueViolation(err)
}

// mysqlDialect 是 MySQL 的方言实现。
type mysqlDialect struct{}

// MySQL 是生产环境使用的方言。
var MySQL Dialect = mysqlDialect{}

// MySQL 约束冲突的错误码。
const (
	mysqlDuplicateEntry   = 1062 // ER_DUP_ENTRY
	mysqlRowIsReferenced  = 1217 // ER_ROW_IS_REFERENCED
	mysqlNoReferencedRow  = 1216 // ER_NO_REFERENCED_ROW
	mysqlRowIsReferenced2 = 1451 // ER_ROW_IS_REFERENCED_2
	mysqlNoReferencedRow2 = 1452 // ER_NO_REFERENCED_ROW_2
)

func (mysqlDialect) Name() string { return "MySQL" }

func (mysqlDialect) Driver() string { return "mysql" }

func (mysqlDialect) Isolation() sql.IsolationLevel { return sql.LevelReadCommitted }

func (mysqlDialect) Limit(query string, offset, size int) (string, []int) {
	return query + " LIMIT ? OFFSET ?", []int{size, offset}
}

func (mysqlDialect) IsUniqueViolation(err error) bool {
	var merr *mysql.MySQLError
	return errors.As(err, &merr) && merr.Number == mysqlDuplicateEntry
}

func (mysqlDialect) IsConstraintViolation(err error) bool {
	var merr *mysql.MySQLError
	if !errors.As(err, &merr) {
		return false
	}
	switch merr.Number {
	case mysqlDuplicateEntry, mysqlRowIsReferenced, mysqlNoReferencedRow, mysqlRowIsReferenced2, mysqlNoReferencedRow2:
		return true
	}
	return false
}

func (mysqlDialect) GroupConcat(field, order, sep string) string {
	if sep == "" {
		sep = ConcatSeparator
	}
	expr := "GROUP_CONCAT(" + field
	if order != "" {
		expr += " ORDER BY " + order
	}
	return expr + " SEPARATOR '" + strings.ReplaceAll(sep, "'", "''") + "')"
}

func (mysqlDialect) DSN(url, user, pass string) (string, error) {
	cfg, err := mysql.ParseDSN(url)
	if err != nil {
		return "", err
	}
	if user != "" {
		cfg.User = user
	}
	if pass != "" {
		cfg.Passwd = pass
	}
	return cfg.FormatDSN(), nil
}
