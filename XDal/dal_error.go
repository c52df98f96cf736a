// Copyright (c) 2025 EFramework Organization. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package XDal

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrNoRowsAffected 表示写入语句没有影响任何行。
	ErrNoRowsAffected = errors.New("XDal: no rows affected")

	// ErrNoGeneratedKey 表示插入成功但存储没有返回生成的主键。
	ErrNoGeneratedKey = errors.New("XDal: no generated key returned")

	// ErrTransaction 表示事务无法开启或提交，操作未完成。
	ErrTransaction = errors.New("XDal: transaction did not complete")

	// ErrNoSource 表示数据源无法提供连接。
	ErrNoSource = errors.New("XDal: no connection source")
)

// StatementError 记录了执行失败的语句及其参数。
type StatementError struct {
	SQL    string
	Params []Value
	Err    error
}

// Error 实现 error 接口。
func (e *StatementError) Error() string {
	return fmt.Sprintf("XDal: statement failed: %v\nsql: %v\nparams: %v", e.Err, e.SQL, formatParams(e.Params))
}

// Unwrap 返回原始错误。
func (e *StatementError) Unwrap() error { return e.Err }

// KeyError 表示插入语句的结果不符合预期，Err 为 ErrNoRowsAffected 或 ErrNoGeneratedKey。
type KeyError struct {
	SQL    string
	Params []Value
	Err    error
}

// Error 实现 error 接口。
func (e *KeyError) Error() string {
	return fmt.Sprintf("%v\nsql: %v\nparams: %v", e.Err, e.SQL, formatParams(e.Params))
}

// Unwrap 返回原因。
func (e *KeyError) Unwrap() error { return e.Err }

// IsStatementError 判断错误链中是否包含语句错误。
func IsStatementError(err error) bool {
	var serr *StatementError
	return errors.As(err, &serr)
}

func formatParams(params []Value) string {
	parts := make([]string, len(params))
	for i, p := range params {
		parts[i] = p.String()
	}
	return "[" + strings.Join(parts, ", ") + "]"
}
