// Copyright (c) 2025 EFramework Organization. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package XDal

import (
	"context"
	"errors"
	"fmt"
	"reflect"

	"github.com/eframework-org/GO.UTIL/XLog"
	"github.com/eframework-org/GO.UTIL/XObject"
)

// ErrNoIdentity 表示更新的实体没有主键。
var ErrNoIdentity = errors.New("XDal: entity has no identity")

// Entity 是以可空的数值主键标识的实体。
type Entity interface {
	// Identity 返回主键，新建的实体返回 nil。
	Identity() *int64

	// SetIdentity 设置主键。
	SetIdentity(id int64)
}

// Bean 是实体的基础结构，嵌入后即实现 Entity。
type Bean struct {
	ID *int64 // 主键，nil 表示尚未持久化
}

// Identity 返回主键。
func (b *Bean) Identity() *int64 { return b.ID }

// SetIdentity 设置主键。
func (b *Bean) SetIdentity(id int64) { b.ID = &id }

// IsNew 判断实体是否尚未持久化。
func (b *Bean) IsNew() bool { return b.ID == nil }

// Equals 判断两个实体是否相等：主键均不为空且相等。
// 尚未持久化的实体与任何实体都不相等，包括它自己。
func (b *Bean) Equals(other Entity) bool {
	if b == nil || b.ID == nil || other == nil {
		return false
	}
	if v := reflect.ValueOf(other); v.Kind() == reflect.Pointer && v.IsNil() {
		return false
	}
	id := other.Identity()
	return id != nil && *id == *b.ID
}

// Key 返回主键指针，便于构造过滤条件。
func Key(id int64) *int64 { return &id }

// Json 将实体转换为 JSON 字符串。
func Json(entity Entity) string {
	result, _ := XObject.ToJson(entity)
	return result
}

// Mapping 描述了实体与数据表之间的映射。
type Mapping[T Entity] struct {
	Table   string                         // 表名
	Columns []string                       // 非主键列，顺序与 Values 一致
	Order   string                         // 排序字段，默认为 id
	New     func() T                       // 创建空实体
	Scan    func(row Row) (T, error)       // 读取一行（id 及所有列）
	Values  func(entity T) []Value         // 非主键列的值
	Where   func(filter T, cond *Condition) // 根据过滤实体的非空字段追加条件，可为 nil
}

// Repository 是通用的实体仓储，基于 Mapping 提供增删改查，无需编写实体相关的 SQL。
type Repository[T Entity] struct {
	mapping Mapping[T]
	columns string
}

// NewRepository 创建仓储，映射不完整时触发 panic。
func NewRepository[T Entity](mapping Mapping[T]) *Repository[T] {
	if mapping.Table == "" || len(mapping.Columns) == 0 {
		XLog.Panic("XDal.NewRepository: table or columns of mapping is empty.")
	}
	if mapping.New == nil || mapping.Scan == nil || mapping.Values == nil {
		XLog.Panic("XDal.NewRepository(%v): hooks of mapping are incomplete.", mapping.Table)
	}
	if mapping.Order == "" {
		mapping.Order = "id"
	}
	return &Repository[T]{mapping: mapping, columns: Columns(mapping.Columns)}
}

// Table 返回表名。
func (r *Repository[T]) Table() string { return r.mapping.Table }

// New 创建空实体。
func (r *Repository[T]) New() T { return r.mapping.New() }

// Condition 根据过滤实体构造查询条件，主键不为空时按主键过滤。
func (r *Repository[T]) Condition(filter T) *Condition {
	cond := NewCondition()
	var zero T
	if any(filter) == any(zero) {
		return cond
	}
	cond.Equal("id", LongOf(filter.Identity()))
	if r.mapping.Where != nil {
		r.mapping.Where(filter, cond)
	}
	return cond
}

func (r *Repository[T]) query(cond *Condition) string {
	return "SELECT " + r.columns + " FROM " + r.mapping.Table + cond.SQL() + " ORDER BY " + r.mapping.Order
}

// List 列举符合过滤条件的实体，空过滤条件返回所有行。
func (r *Repository[T]) List(ctx context.Context, f *Factory, filter T) ([]T, error) {
	cond := r.Condition(filter)
	return Select(ctx, f, r.query(cond), cond.Params(), r.mapping.Scan)
}

// ListAll 列举所有实体。
func (r *Repository[T]) ListAll(ctx context.Context, f *Factory) ([]T, error) {
	return r.List(ctx, f, r.mapping.New())
}

// Get 根据主键读取实体，不存在时返回 nil。
func (r *Repository[T]) Get(ctx context.Context, f *Factory, id int64) (T, error) {
	filter := r.mapping.New()
	filter.SetIdentity(id)
	cond := r.Condition(filter)
	return SelectOne(ctx, f, r.query(cond), cond.Params(), r.mapping.Scan)
}

// Insert 插入实体，返回生成的主键并写回实体。
func (r *Repository[T]) Insert(ctx context.Context, f *Factory, entity T) (int64, error) {
	id, err := Insert(ctx, f, r.mapping.Table, r.mapping.Columns, r.mapping.Values(entity))
	if err != nil {
		return 0, err
	}
	entity.SetIdentity(id)
	return id, nil
}

// Update 按主键覆盖实体的所有非主键列，返回影响的行数。
func (r *Repository[T]) Update(ctx context.Context, f *Factory, entity T) (int64, error) {
	id := entity.Identity()
	if id == nil {
		return 0, fmt.Errorf("%w: update %v", ErrNoIdentity, r.mapping.Table)
	}
	return Update(ctx, f, r.mapping.Table, r.mapping.Columns, *id, r.mapping.Values(entity))
}

// Delete 按主键删除实体，级联行为由存储的约束决定。
func (r *Repository[T]) Delete(ctx context.Context, f *Factory, id int64) (int64, error) {
	return Delete(ctx, f, r.mapping.Table, id)
}

// Count 统计符合过滤条件的实体数量。
func (r *Repository[T]) Count(ctx context.Context, f *Factory, filter T) (int, error) {
	cond := r.Condition(filter)
	return SelectCount(ctx, f, "SELECT COUNT(*) FROM "+r.mapping.Table+cond.SQL(), cond.Params())
}

// Page 分页列举符合过滤条件的实体，页码从 1 开始。
func (r *Repository[T]) Page(ctx context.Context, f *Factory, filter T, page, size int) (*PageResult[T], error) {
	total, err := r.Count(ctx, f, filter)
	if err != nil {
		return nil, err
	}
	if page < 1 {
		page = 1
	}
	cond := r.Condition(filter)
	query, params := Paginate(f.Dialect(), r.query(cond), cond.Params(), page, size)
	items, err := Select(ctx, f, query, params, r.mapping.Scan)
	if err != nil {
		return nil, err
	}
	return &PageResult[T]{Items: items, Total: total, Page: page, Size: size}, nil
}

// PageResult 是分页查询的结果。
type PageResult[T any] struct {
	Items []T // 当前页的实体
	Total int // 总数
	Page  int // 页码，从 1 开始
	Size  int // 每页数量
}

// Pages 返回总页数。
func (p *PageResult[T]) Pages() int {
	if p.Size <= 0 {
		if p.Total > 0 {
			return 1
		}
		return 0
	}
	return (p.Total + p.Size - 1) / p.Size
}

// HasNext 判断是否存在下一页。
func (p *PageResult[T]) HasNext() bool { return p.Page < p.Pages() }

// HasPrev 判断是否存在上一页。
func (p *PageResult[T]) HasPrev() bool { return p.Page > 1 }
