// Copyright (c) 2025 EFramework Organization. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package XDal

import (
	"context"
	"database/sql"
	"fmt"
	"sync"
	"sync/atomic"

	"github.com/eframework-org/GO.UTIL/XLog"
	"github.com/eframework-org/GO.UTIL/XString"
	"github.com/petermattis/goid"
)

// factoryID 是工厂 ID 的原子计数器。
var factoryID int64

// Executor 是语句的执行者，可以是独占连接或事务。
type Executor interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	PrepareContext(ctx context.Context, query string) (*sql.Stmt, error)
}

// Factory 持有一次逻辑调用的连接及事务状态，作为显式的工作单元在各层之间传递。
//
// 状态：Idle（无连接）→ Connected（持有连接，自动提交）→ InTransaction → Nested（深度大于 0）。
// 同一事务中再次 Begin 只增加嵌套深度，只有最外层的 Commit/Rollback 产生物理效果。
// 工厂不可被多个 goroutine 同时使用。
type Factory struct {
	source *Source
	id     int

	mutex sync.Mutex
	conn  *sql.Conn
	tx    *sql.Tx
	depth int
	owner int64 // 开启事务的 goroutine ID
}

func newFactory(source *Source) *Factory {
	f := &Factory{source: source, id: int(atomic.AddInt64(&factoryID, 1))}
	sharedMetrics.factoryCreated()
	return f
}

// ID 返回工厂的会话 ID。
func (f *Factory) ID() int { return f.id }

// Source 返回工厂所属的数据源。
func (f *Factory) Source() *Source { return f.source }

// Dialect 返回数据源方言。
func (f *Factory) Dialect() Dialect { return f.source.dialect }

// Conn 返回当前的执行者：事务中返回事务，否则返回独占连接，没有连接时从数据源获取。
func (f *Factory) Conn(ctx context.Context) (Executor, error) {
	f.mutex.Lock()
	defer f.mutex.Unlock()

	if f.tx != nil {
		f.checkOwner("Conn")
		return f.tx, nil
	}
	return f.acquire(ctx)
}

func (f *Factory) acquire(ctx context.Context) (*sql.Conn, error) {
	if f.conn != nil {
		return f.conn, nil
	}
	db, err := f.source.DB()
	if err != nil {
		return nil, err
	}
	conn, err := db.Conn(ctx)
	if err != nil {
		return nil, fmt.Errorf("XDal: acquire connection of %v: %w", f.source.alias, err)
	}
	f.conn = conn
	sharedMetrics.connOpened()
	return conn, nil
}

// Begin 开启事务，已在事务中时记为嵌套并直接返回。
// 失败时返回的错误包装了 ErrTransaction，调用方不应继续操作。
func (f *Factory) Begin(ctx context.Context) error {
	f.mutex.Lock()
	defer f.mutex.Unlock()

	if f.tx != nil {
		f.checkOwner("Begin")
		f.depth++
		sharedMetrics.transaction(txNested)
		XLog.Info("XDal.Factory.Begin(%v): nested transaction, depth is %v.", f.id, f.depth)
		return nil
	}

	conn, err := f.acquire(ctx)
	if err != nil {
		sharedMetrics.transaction(txFailed)
		XLog.Error("XDal.Factory.Begin(%v): acquire connection failed: %v", f.id, err)
		return fmt.Errorf("%w: begin: %w", ErrTransaction, err)
	}
	tx, err := conn.BeginTx(ctx, &sql.TxOptions{Isolation: f.source.dialect.Isolation()})
	if err != nil {
		sharedMetrics.transaction(txFailed)
		XLog.Error("XDal.Factory.Begin(%v): begin transaction failed: %v", f.id, err)
		return fmt.Errorf("%w: begin: %w", ErrTransaction, err)
	}

	f.tx = tx
	f.depth = 0
	f.owner = goid.Get()
	if tag := XLog.Tag(); tag != nil { // 设置日志标签
		tag.Set("Go", XString.ToString(int(f.owner)))
		tag.Set("Factory", XString.ToString(f.id))
	}
	sharedMetrics.transaction(txBegin)
	XLog.Info("XDal.Factory.Begin(%v): transaction has been started.", f.id)
	return nil
}

// Commit 提交事务，嵌套调用仅减少嵌套深度。
// 无论物理提交是否成功，事务都会结束。
func (f *Factory) Commit() error {
	f.mutex.Lock()
	defer f.mutex.Unlock()

	if f.tx == nil {
		sharedMetrics.transaction(txFailed)
		return fmt.Errorf("%w: commit: no transaction in factory %v", ErrTransaction, f.id)
	}
	f.checkOwner("Commit")
	if f.depth > 0 {
		f.depth--
		return nil
	}

	defer f.end()
	if err := f.tx.Commit(); err != nil {
		sharedMetrics.transaction(txFailed)
		XLog.Error("XDal.Factory.Commit(%v): commit transaction failed: %v", f.id, err)
		return fmt.Errorf("%w: commit: %w", ErrTransaction, err)
	}
	sharedMetrics.transaction(txCommit)
	XLog.Info("XDal.Factory.Commit(%v): transaction has been committed.", f.id)
	return nil
}

// Rollback 回滚事务，嵌套调用仅减少嵌套深度，不在事务中时不做任何事。
// 无论物理回滚是否成功，事务都会结束。
func (f *Factory) Rollback() error {
	f.mutex.Lock()
	defer f.mutex.Unlock()

	if f.tx == nil {
		return nil
	}
	f.checkOwner("Rollback")
	if f.depth > 0 {
		f.depth--
		return nil
	}

	defer f.end()
	if err := f.tx.Rollback(); err != nil {
		sharedMetrics.transaction(txFailed)
		XLog.Error("XDal.Factory.Rollback(%v): rollback transaction failed: %v", f.id, err)
		return fmt.Errorf("%w: rollback: %w", ErrTransaction, err)
	}
	sharedMetrics.transaction(txRollback)
	XLog.Info("XDal.Factory.Rollback(%v): transaction has been rolled back.", f.id)
	return nil
}

func (f *Factory) end() {
	f.tx = nil
	f.depth = 0
	f.owner = 0
}

// InTransaction 判断是否在事务中。
func (f *Factory) InTransaction() bool {
	f.mutex.Lock()
	defer f.mutex.Unlock()
	return f.tx != nil
}

// Depth 返回事务的嵌套深度，最外层为 0。
func (f *Factory) Depth() int {
	f.mutex.Lock()
	defer f.mutex.Unlock()
	return f.depth
}

// Close 释放持有的连接，事务中调用不做任何事，连接在事务结束后释放。
func (f *Factory) Close() error {
	f.mutex.Lock()
	defer f.mutex.Unlock()

	if f.tx != nil || f.conn == nil {
		return nil
	}
	err := f.conn.Close()
	f.conn = nil
	sharedMetrics.connClosed()
	if err != nil {
		XLog.Error("XDal.Factory.Close(%v): close connection failed: %v", f.id, err)
	}
	return err
}

func (f *Factory) checkOwner(action string) {
	if f.owner != 0 {
		if gid := goid.Get(); gid != f.owner {
			XLog.Warn("XDal.Factory.%v(%v): transaction of goroutine %v is used by goroutine %v.", action, f.id, f.owner, gid)
		}
	}
}
