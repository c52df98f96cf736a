// Copyright (c) 2025 EFramework Organization. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package XDal

import (
	"database/sql"
	"errors"
	"fmt"
	"testing"

	"github.com/eframework-org/GO.RECIPE/internal/daltest"
	"github.com/go-sql-driver/mysql"
	"github.com/stretchr/testify/assert"
)

func TestDalDialect(t *testing.T) {
	t.Run("Registry", func(t *testing.T) {
		assert.Equal(t, MySQL, GetDialect("MySQL"), "MySQL 方言应当默认注册。")
		assert.Equal(t, MySQL, GetDialect("mysql"), "方言名称应当不区分大小写。")
		assert.Nil(t, GetDialect("oracle"), "未注册的方言应当返回 nil。")

		RegisterDialect(daltest.SQLite)
		assert.Equal(t, Dialect(daltest.SQLite), GetDialect("sqlite"), "注册后的方言应当可以获取。")
	})

	t.Run("MySQL", func(t *testing.T) {
		assert.Equal(t, "mysql", MySQL.Driver(), "MySQL 的驱动名称应当为 mysql。")
		assert.Equal(t, sql.LevelReadCommitted, MySQL.Isolation(), "MySQL 的隔离级别应当为读已提交。")

		query, args := MySQL.Limit("SELECT id FROM tipos", 20, 10)
		assert.Equal(t, "SELECT id FROM tipos LIMIT ? OFFSET ?", query, "分页语句应当追加 LIMIT 及 OFFSET。")
		assert.Equal(t, []int{10, 20}, args, "分页参数应当先数量后偏移。")

		assert.Equal(t, "GROUP_CONCAT(t.descripcion ORDER BY t.descripcion SEPARATOR '#@#')",
			MySQL.GroupConcat("t.descripcion", "t.descripcion", ""), "聚合拼接应当使用默认分隔符。")
		assert.Equal(t, "GROUP_CONCAT(descripcion SEPARATOR ', ')",
			MySQL.GroupConcat("descripcion", "", ", "), "聚合拼接应当使用指定分隔符。")
	})

	t.Run("Violation", func(t *testing.T) {
		tests := []struct {
			name       string
			err        error
			unique     bool
			constraint bool
		}{
			{"Duplicate", &mysql.MySQLError{Number: 1062, Message: "Duplicate entry"}, true, true},
			{"Wrapped", fmt.Errorf("insert: %w", &mysql.MySQLError{Number: 1062}), true, true},
			{"Referenced", &mysql.MySQLError{Number: 1451, Message: "Cannot delete or update a parent row"}, false, true},
			{"NoReferenced", &mysql.MySQLError{Number: 1452}, false, true},
			{"Syntax", &mysql.MySQLError{Number: 1064}, false, false},
			{"Other", errors.New("connection refused"), false, false},
		}
		for _, test := range tests {
			t.Run(test.name, func(t *testing.T) {
				assert.Equal(t, test.unique, MySQL.IsUniqueViolation(test.err), "唯一约束冲突的判断应当符合预期。")
				assert.Equal(t, test.constraint, MySQL.IsConstraintViolation(test.err), "约束冲突的判断应当符合预期。")
				assert.Equal(t, test.unique, IsDuplicate(MySQL, test.err), "IsDuplicate 应当与方言判断一致。")
			})
		}
		assert.False(t, IsDuplicate(MySQL, nil), "nil 错误应当不是唯一约束冲突。")
	})

	t.Run("DSN", func(t *testing.T) {
		dsn, err := MySQL.DSN("tcp(127.0.0.1:3306)/recetas?charset=utf8mb4", "root", "123456")
		assert.NoError(t, err, "构造 DSN 应当成功。")
		cfg, err := mysql.ParseDSN(dsn)
		assert.NoError(t, err, "构造的 DSN 应当可以被解析。")
		assert.Equal(t, "root", cfg.User, "DSN 的用户应当被设置。")
		assert.Equal(t, "123456", cfg.Passwd, "DSN 的密码应当被设置。")
		assert.Equal(t, "recetas", cfg.DBName, "DSN 的数据库应当被保留。")
		assert.Equal(t, "127.0.0.1:3306", cfg.Addr, "DSN 的地址应当被保留。")

		_, err = MySQL.DSN("tcp(127.0.0.1:3306", "root", "")
		assert.Error(t, err, "无效的地址应当返回错误。")
	})
}
