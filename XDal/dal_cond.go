// Copyright (c) 2025 EFramework Organization. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package XDal

import (
	"strings"
)

const (
	// clobSize 是大文本检索的默认截取长度。
	clobSize = 4000

	// clobIndex 是大文本检索的默认起始位置。
	clobIndex = 1
)

// Condition 表示一个查询条件，包含 WHERE 子句及其有序的参数列表。
// 所有的值都以占位符绑定，不会拼接进 SQL 文本。
//
// 用法:
//
//	cond := NewCondition().
//	    Equal("id", LongOf(filter.ID)).
//	    Like("descripcion", filter.Description)
//	rows, err := Select(ctx, f, "SELECT id, descripcion FROM recetas"+cond.SQL(), cond.Params(), mapper)
type Condition struct {
	clauses []string // 条件片段
	params  []Value  // 参数列表
}

// NewCondition 创建空条件。
func NewCondition() *Condition {
	return &Condition{}
}

// SQL 返回 WHERE 子句，首个条件以 " WHERE " 开头，后续条件以 " AND " 连接；无条件时返回空串。
func (c *Condition) SQL() string {
	if len(c.clauses) == 0 {
		return ""
	}
	return " WHERE " + strings.Join(c.clauses, " AND ")
}

// Params 返回与 SQL 中占位符顺序一致的参数列表。
func (c *Condition) Params() []Value {
	return c.params
}

// Empty 判断是否没有任何条件。
func (c *Condition) Empty() bool {
	return len(c.clauses) == 0
}

func (c *Condition) add(clause string, values ...Value) *Condition {
	c.clauses = append(c.clauses, clause)
	c.params = append(c.params, values...)
	return c
}

// Equal 追加 field = ?，空值或空白文本不产生条件。
func (c *Condition) Equal(field string, value Value) *Condition {
	return c.EqualOrDistinct(field, value, false)
}

// Distinct 追加 field <> ?，空值或空白文本不产生条件。
func (c *Condition) Distinct(field string, value Value) *Condition {
	return c.EqualOrDistinct(field, value, true)
}

// EqualOrDistinct 根据 distinct 追加等于或不等于条件。
func (c *Condition) EqualOrDistinct(field string, value Value, distinct bool) *Condition {
	if value.IsBlank() {
		return c
	}
	op := " = ?"
	if distinct {
		op = " <> ?"
	}
	return c.add(field+op, value.trim())
}

// Like 追加不区分大小写的模糊匹配，两端均带通配符。
func (c *Condition) Like(field string, value string) *Condition {
	return c.LikeWith(field, value, true, true)
}

// LikeEnd 追加前缀匹配，trailing 决定末尾是否带通配符。
func (c *Condition) LikeEnd(field string, value string, trailing bool) *Condition {
	return c.LikeWith(field, value, false, trailing)
}

// LikeWith 追加 UPPER(field) LIKE ?，值会被转为大写并去除空白，空白值不产生条件。
func (c *Condition) LikeWith(field string, value string, leading, trailing bool) *Condition {
	value = strings.ToUpper(strings.TrimSpace(value))
	if value == "" {
		return c
	}
	if leading {
		value = "%" + value
	}
	if trailing {
		value += "%"
	}
	return c.add("UPPER("+field+") LIKE ?", Text(value))
}

// In 追加 field IN (?,...)。
// 参数列表为空或首个参数为空值时不产生条件，之后的空值按 NULL 绑定。
func (c *Condition) In(field string, values ...Value) *Condition {
	return c.InOrNotIn(false, field, values...)
}

// NotIn 追加 field NOT IN (?,...)，跳过规则与 In 相同。
func (c *Condition) NotIn(field string, values ...Value) *Condition {
	return c.InOrNotIn(true, field, values...)
}

// InOrNotIn 根据 not 追加 IN 或 NOT IN 条件。
func (c *Condition) InOrNotIn(not bool, field string, values ...Value) *Condition {
	if len(values) == 0 || values[0].IsNull() {
		return c
	}
	op := " IN ("
	if not {
		op = " NOT IN ("
	}
	marks := strings.Repeat("?,", len(values))
	return c.add(field+op+marks[:len(marks)-1]+")", values...)
}

// InSelect 追加 field IN (subselect)。
// 未提供参数时无条件追加；提供的参数中任意一个为空值或空白时整个条件被跳过。
func (c *Condition) InSelect(field string, subselect string, values ...Value) *Condition {
	for _, v := range values {
		if v.IsBlank() {
			return c
		}
	}
	return c.add(field+" IN ("+subselect+")", values...)
}

// IsNull 追加 field IS NULL。
func (c *Condition) IsNull(field string) *Condition {
	return c.add(field + " IS NULL")
}

// Raw 追加原样的条件片段及其参数。
func (c *Condition) Raw(clause string, values ...Value) *Condition {
	params := make([]Value, len(values))
	for i, v := range values {
		params[i] = v.trim()
	}
	return c.add(clause, params...)
}

// Clob 在大文本字段的前 4000 个字符中检索子串。
func (c *Condition) Clob(field string, value string) *Condition {
	return c.ClobWith(field, value, clobSize, clobIndex)
}

// ClobWith 追加 SUBSTRING(field, ?, ?) LIKE ?，依次绑定起始位置、长度及检索值。
func (c *Condition) ClobWith(field string, value string, size, index int) *Condition {
	value = strings.TrimSpace(value)
	if value == "" {
		return c
	}
	return c.add("SUBSTRING("+field+", ?, ?) LIKE ?", Int(index), Int(size), Text("%"+value+"%"))
}

// Paginate 为查询追加分页窗口，页码从 1 开始：第 1 页返回第 [1, size] 行。
// page 小于 1 时按 1 处理，size 小于等于 0 时不分页。
func Paginate(dialect Dialect, query string, params []Value, page, size int) (string, []Value) {
	if page < 1 {
		page = 1
	}
	return window(dialect, query, params, (page-1)*size, size)
}

// Limits 为查询追加从第 start 行（从 1 开始）起的 size 行窗口。
func Limits(dialect Dialect, query string, params []Value, start, size int) (string, []Value) {
	if start < 1 {
		start = 1
	}
	return window(dialect, query, params, start-1, size)
}

func window(dialect Dialect, query string, params []Value, offset, size int) (string, []Value) {
	if size <= 0 {
		return query, params
	}
	query, args := dialect.Limit(query, offset, size)
	nparams := make([]Value, 0, len(params)+len(args))
	nparams = append(nparams, params...)
	for _, arg := range args {
		nparams = append(nparams, Int(arg))
	}
	return query, nparams
}
