// Copyright (c) 2025 EFramework Organization. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package XDal

import (
	"context"

	"github.com/eframework-org/GO.UTIL/XLog"
)

// Work 是在工厂上执行的一个工作单元。
type Work[T any] func(ctx context.Context, f *Factory) (T, error)

// Execute 在普通作用域中执行工作单元，结束后总是释放连接。
func Execute[T any](ctx context.Context, f *Factory, work Work[T]) (T, error) {
	defer f.Close()
	return work(ctx, f)
}

// ExecuteTx 在事务作用域中执行工作单元。
// 事务无法开启时不执行工作单元；工作单元失败或 panic 时回滚并返回原始错误（或继续 panic）；
// 成功时提交，提交失败同样视为失败。结束后总是释放连接。
// 同一工厂上的嵌套调用共享外层事务。
func ExecuteTx[T any](ctx context.Context, f *Factory, work Work[T]) (result T, err error) {
	defer f.Close()

	if err = f.Begin(ctx); err != nil {
		return result, err
	}

	defer func() {
		if r := recover(); r != nil {
			if rerr := f.Rollback(); rerr != nil {
				XLog.Error("XDal.ExecuteTx(%v): rollback after panic failed: %v", f.id, rerr)
			}
			panic(r)
		}
	}()

	result, err = work(ctx, f)
	if err != nil {
		if rerr := f.Rollback(); rerr != nil {
			XLog.Error("XDal.ExecuteTx(%v): rollback failed: %v", f.id, rerr)
		}
		var zero T
		return zero, err
	}

	if err = f.Commit(); err != nil {
		var zero T
		return zero, err
	}
	return result, nil
}

// Service 是实体的业务层，按需选择普通或事务作用域执行仓储操作。
type Service[T Entity] struct {
	source  *Source
	repo    *Repository[T]
	factory *Factory
}

// NewService 创建业务层。
func NewService[T Entity](source *Source, repo *Repository[T]) *Service[T] {
	return &Service[T]{source: source, repo: repo}
}

// On 返回绑定到指定工厂的业务层，用于在同一事务中组合多个操作。
func (s *Service[T]) On(f *Factory) *Service[T] {
	return &Service[T]{source: s.source, repo: s.repo, factory: f}
}

// Repository 返回仓储。
func (s *Service[T]) Repository() *Repository[T] { return s.repo }

// Factory 返回绑定的工厂，未绑定时创建新的工厂。
func (s *Service[T]) Factory() *Factory {
	if s.factory != nil {
		return s.factory
	}
	return s.source.Factory()
}

// List 列举符合过滤条件的实体。
func (s *Service[T]) List(ctx context.Context, filter T) ([]T, error) {
	return Execute(ctx, s.Factory(), func(ctx context.Context, f *Factory) ([]T, error) {
		return s.repo.List(ctx, f, filter)
	})
}

// ListAll 列举所有实体。
func (s *Service[T]) ListAll(ctx context.Context) ([]T, error) {
	return Execute(ctx, s.Factory(), func(ctx context.Context, f *Factory) ([]T, error) {
		return s.repo.ListAll(ctx, f)
	})
}

// Get 根据主键读取实体，不存在时返回 nil。
func (s *Service[T]) Get(ctx context.Context, id int64) (T, error) {
	return Execute(ctx, s.Factory(), func(ctx context.Context, f *Factory) (T, error) {
		return s.repo.Get(ctx, f, id)
	})
}

// Count 统计符合过滤条件的实体数量。
func (s *Service[T]) Count(ctx context.Context, filter T) (int, error) {
	return Execute(ctx, s.Factory(), func(ctx context.Context, f *Factory) (int, error) {
		return s.repo.Count(ctx, f, filter)
	})
}

// Page 分页列举符合过滤条件的实体。
func (s *Service[T]) Page(ctx context.Context, filter T, page, size int) (*PageResult[T], error) {
	return Execute(ctx, s.Factory(), func(ctx context.Context, f *Factory) (*PageResult[T], error) {
		return s.repo.Page(ctx, f, filter, page, size)
	})
}

// Save 保存实体：新建的实体插入，已存在的实体更新，返回主键。
func (s *Service[T]) Save(ctx context.Context, entity T) (int64, error) {
	return ExecuteTx(ctx, s.Factory(), func(ctx context.Context, f *Factory) (int64, error) {
		if XLog.Able(XLog.LevelInfo) {
			XLog.Info("XDal.Service.Save(%v): %v", s.repo.Table(), Json(entity))
		}
		if id := entity.Identity(); id != nil {
			_, err := s.repo.Update(ctx, f, entity)
			return *id, err
		}
		return s.repo.Insert(ctx, f, entity)
	})
}

// Delete 根据主键删除实体，返回影响的行数。
func (s *Service[T]) Delete(ctx context.Context, id int64) (int64, error) {
	return ExecuteTx(ctx, s.Factory(), func(ctx context.Context, f *Factory) (int64, error) {
		return s.repo.Delete(ctx, f, id)
	})
}
