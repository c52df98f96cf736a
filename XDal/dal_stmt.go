// Copyright (c) 2025 EFramework Organization. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package XDal

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/eframework-org/GO.UTIL/XLog"
	"github.com/eframework-org/GO.UTIL/XTime"
)

const (
	// 语句类型标签
	stmtSelect = "Select"
	stmtInsert = "Insert"
	stmtUpdate = "Update"
	stmtDelete = "Delete"
	stmtExec   = "Exec"
	stmtBatch  = "ExecBatch"
)

// Row 是结果集中的一行。
type Row interface {
	Scan(dest ...any) error
}

// RowMapper 将一行映射为结果对象。
type RowMapper[T any] func(row Row) (T, error)

// statementContext 为单条语句附加超时。
func statementContext(ctx context.Context) (context.Context, context.CancelFunc) {
	if timeout := Timeout(); timeout > 0 {
		return context.WithTimeout(ctx, timeout)
	}
	return ctx, func() {}
}

// fail 记录并包装语句错误，约束冲突原样返回以便调用方识别。
func fail(f *Factory, kind, query string, params []Value, err error) error {
	sharedMetrics.statement(kind, err)
	XLog.Error("XDal.%v(%v): %v, sql: %v, params: %v.", kind, f.id, err, query, formatParams(params))
	if f.source.dialect.IsConstraintViolation(err) {
		return err
	}
	return &StatementError{SQL: query, Params: params, Err: err}
}

func trace(f *Factory, kind, query string, params []Value, start int, count int64) {
	sharedMetrics.statement(kind, nil)
	if XLog.Able(XLog.LevelInfo) {
		XLog.Info("XDal.%v(%v): [Cost:%.2fms] %v row(s), sql: %v, params: %v.",
			kind, f.id, float64(XTime.GetMicrosecond()-start)/1e3, count, query, formatParams(params))
	}
}

// Select 执行查询，按行序调用 mapper 收集结果。
// 结果集在任何退出路径上都会被释放，失败时返回携带 SQL 及参数的 StatementError。
func Select[T any](ctx context.Context, f *Factory, query string, params []Value, mapper RowMapper[T]) ([]T, error) {
	exec, err := f.Conn(ctx)
	if err != nil {
		return nil, err
	}
	sctx, cancel := statementContext(ctx)
	defer cancel()

	start := XTime.GetMicrosecond()
	rows, err := exec.QueryContext(sctx, query, Args(params)...)
	if err != nil {
		return nil, fail(f, stmtSelect, query, params, err)
	}
	defer rows.Close()

	var results []T
	for rows.Next() {
		result, err := mapper(rows)
		if err != nil {
			return nil, fail(f, stmtSelect, query, params, err)
		}
		results = append(results, result)
	}
	if err := rows.Err(); err != nil {
		return nil, fail(f, stmtSelect, query, params, err)
	}
	trace(f, stmtSelect, query, params, start, int64(len(results)))
	return results, nil
}

// SelectOne 返回查询的第一行，没有结果时返回零值。
func SelectOne[T any](ctx context.Context, f *Factory, query string, params []Value, mapper RowMapper[T]) (T, error) {
	var zero T
	results, err := Select(ctx, f, query, params, mapper)
	if err != nil || len(results) == 0 {
		return zero, err
	}
	return results[0], nil
}

// SelectCount 返回查询第一行第一列的整数值。
func SelectCount(ctx context.Context, f *Factory, query string, params []Value) (int, error) {
	results, err := Select(ctx, f, query, params, func(row Row) (int, error) {
		var count int
		err := row.Scan(&count)
		return count, err
	})
	if err != nil {
		return 0, err
	}
	if len(results) == 0 {
		return 0, &StatementError{SQL: query, Params: params, Err: sql.ErrNoRows}
	}
	return results[0], nil
}

// Insert 插入一行并返回存储生成的主键。
// 没有影响任何行时返回 ErrNoRowsAffected，影响了行但没有返回主键时返回 ErrNoGeneratedKey。
func Insert(ctx context.Context, f *Factory, table string, fields []string, values []Value) (int64, error) {
	query := BuildInsert(table, fields)
	exec, err := f.Conn(ctx)
	if err != nil {
		return 0, err
	}
	sctx, cancel := statementContext(ctx)
	defer cancel()

	start := XTime.GetMicrosecond()
	result, err := exec.ExecContext(sctx, query, Args(values)...)
	if err != nil {
		return 0, fail(f, stmtInsert, query, values, err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return 0, fail(f, stmtInsert, query, values, err)
	}
	if affected == 0 {
		sharedMetrics.statement(stmtInsert, ErrNoRowsAffected)
		return 0, &KeyError{SQL: query, Params: values, Err: ErrNoRowsAffected}
	}
	id, err := result.LastInsertId()
	if err != nil || id == 0 {
		sharedMetrics.statement(stmtInsert, ErrNoGeneratedKey)
		if err != nil {
			err = fmt.Errorf("%w: %w", ErrNoGeneratedKey, err)
		} else {
			err = ErrNoGeneratedKey
		}
		XLog.Error("XDal.Insert(%v): %v, sql: %v, params: %v.", f.id, err, query, formatParams(values))
		return 0, &KeyError{SQL: query, Params: values, Err: err}
	}
	trace(f, stmtInsert, query, values, start, affected)
	return id, nil
}

// Update 按主键覆盖一行的所有字段，values 与 fields 一一对应，返回影响的行数。
func Update(ctx context.Context, f *Factory, table string, fields []string, id int64, values []Value) (int64, error) {
	params := make([]Value, 0, len(values)+1)
	params = append(params, values...)
	params = append(params, Long(id))
	return UpdateWhere(ctx, f, table, fields, []string{"id"}, params)
}

// UpdateWhere 按条件更新字段，values 依次为字段值及条件值，返回影响的行数。
func UpdateWhere(ctx context.Context, f *Factory, table string, fields []string, conditions []string, values []Value) (int64, error) {
	return write(ctx, f, stmtUpdate, BuildUpdate(table, fields, conditions), values)
}

// Delete 按主键删除一行，返回影响的行数。
func Delete(ctx context.Context, f *Factory, table string, id int64) (int64, error) {
	return DeleteWhere(ctx, f, table, []string{"id"}, []Value{Long(id)})
}

// DeleteWhere 按条件删除，返回影响的行数。
func DeleteWhere(ctx context.Context, f *Factory, table string, conditions []string, values []Value) (int64, error) {
	return write(ctx, f, stmtDelete, BuildDelete(table, conditions), values)
}

// Exec 执行任意写入语句，返回影响的行数。
func Exec(ctx context.Context, f *Factory, query string, params []Value) (int64, error) {
	return write(ctx, f, stmtExec, query, params)
}

func write(ctx context.Context, f *Factory, kind, query string, params []Value) (int64, error) {
	exec, err := f.Conn(ctx)
	if err != nil {
		return 0, err
	}
	sctx, cancel := statementContext(ctx)
	defer cancel()

	start := XTime.GetMicrosecond()
	result, err := exec.ExecContext(sctx, query, Args(params)...)
	if err != nil {
		return 0, fail(f, kind, query, params, err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return 0, fail(f, kind, query, params, err)
	}
	trace(f, kind, query, params, start, affected)
	return affected, nil
}

// ExecBatch 预编译语句后按顺序对每组参数执行一次，返回最后一次执行影响的行数。
// onResult 可为 nil，用于读取每次执行的结果（如生成的主键）。
// 约束冲突原样返回，其他错误包装为携带出错参数组的 StatementError。
func ExecBatch(ctx context.Context, f *Factory, query string, sets [][]Value, onResult func(index int, result sql.Result) error) (int64, error) {
	if len(sets) == 0 {
		return 0, nil
	}
	exec, err := f.Conn(ctx)
	if err != nil {
		return 0, err
	}
	sctx, cancel := statementContext(ctx)
	defer cancel()

	start := XTime.GetMicrosecond()
	stmt, err := exec.PrepareContext(sctx, query)
	if err != nil {
		return 0, fail(f, stmtBatch, query, nil, err)
	}
	defer stmt.Close()

	var affected int64
	for index, set := range sets {
		result, err := stmt.ExecContext(sctx, Args(set)...)
		if err != nil {
			return 0, fail(f, stmtBatch, query, set, err)
		}
		if affected, err = result.RowsAffected(); err != nil {
			return 0, fail(f, stmtBatch, query, set, err)
		}
		if onResult != nil {
			if err := onResult(index, result); err != nil {
				return 0, err
			}
		}
	}
	trace(f, stmtBatch, query, nil, start, affected)
	return affected, nil
}

// BuildInsert 构造 INSERT INTO table (a, b) VALUES (?, ?)。
func BuildInsert(table string, fields []string) string {
	marks := make([]string, len(fields))
	for i := range fields {
		marks[i] = "?"
	}
	return "INSERT INTO " + table + " (" + strings.Join(fields, ", ") + ") VALUES (" + strings.Join(marks, ", ") + ")"
}

// BuildUpdate 构造 UPDATE table SET a = ?, b = ? WHERE ...。
func BuildUpdate(table string, fields []string, conditions []string) string {
	sets := make([]string, len(fields))
	for i, field := range fields {
		sets[i] = field + " = ?"
	}
	return "UPDATE " + table + " SET " + strings.Join(sets, ", ") + where(conditions)
}

// BuildDelete 构造 DELETE FROM table WHERE ...。
func BuildDelete(table string, conditions []string) string {
	return "DELETE FROM " + table + where(conditions)
}

// where 连接条件字段，包含 ? 的条件原样使用，否则渲染为 field = ?。
func where(conditions []string) string {
	if len(conditions) == 0 {
		return ""
	}
	parts := make([]string, len(conditions))
	for i, cond := range conditions {
		if strings.Contains(cond, "?") {
			parts[i] = cond
		} else {
			parts[i] = cond + " = ?"
		}
	}
	return " WHERE " + strings.Join(parts, " AND ")
}

// Columns 返回以 id 开头的列清单，用于 SELECT。
func Columns(columns []string) string {
	return "id, " + strings.Join(columns, ", ")
}
