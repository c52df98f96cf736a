// Copyright (c) 2025 EFramework Organization. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package XDal

import (
	"database/sql"
	"fmt"
	"sync"

	"github.com/beego/beego/v2/client/orm"
	"github.com/eframework-org/GO.UTIL/XLog"
	"github.com/illumitacit/gostd/quit"
)

// sources 存储了已注册的数据源，键为别名。
var sources sync.Map

// Source 是命名的连接来源。
// 优先使用宿主环境按别名注册的连接池（beego orm），不可用时使用直连配置打开连接池。
type Source struct {
	alias   string
	dialect Dialect

	url  string
	user string
	pass string

	mutex  sync.Mutex
	pool   *sql.DB // 外部托管的连接池
	direct *sql.DB // 直连打开的连接池
	closed chan struct{}
	once   sync.Once
}

// NewSource 创建数据源。
func NewSource(alias string, dialect Dialect) *Source {
	if dialect == nil {
		dialect = MySQL
	}
	return &Source{alias: alias, dialect: dialect, closed: make(chan struct{})}
}

// Register 注册数据源，已存在同名数据源时将被替换。
func Register(source *Source) *Source {
	sources.Store(source.alias, source)
	return source
}

// Use 根据别名获取已注册的数据源，未注册时返回 nil。
func Use(alias string) *Source {
	if value, ok := sources.Load(alias); ok {
		return value.(*Source)
	}
	return nil
}

// Direct 设置直连配置。
func (s *Source) Direct(url, user, pass string) *Source {
	s.mutex.Lock()
	defer s.mutex.Unlock()
	s.url = url
	s.user = user
	s.pass = pass
	return s
}

// Adopt 使用调用方托管的连接池，数据源关闭时不会关闭该连接池。
func (s *Source) Adopt(db *sql.DB) *Source {
	s.mutex.Lock()
	defer s.mutex.Unlock()
	s.pool = db
	return s
}

// Alias 返回数据源别名。
func (s *Source) Alias() string { return s.alias }

// Dialect 返回数据源方言。
func (s *Source) Dialect() Dialect { return s.dialect }

// DB 返回连接池。
func (s *Source) DB() (*sql.DB, error) {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	select {
	case <-s.closed:
		return nil, fmt.Errorf("%w: %v: source is closed", ErrNoSource, s.alias)
	default:
	}
	if s.pool != nil {
		return s.pool, nil
	}
	if s.direct != nil {
		return s.direct, nil
	}

	db, err := orm.GetDB(s.alias)
	if err == nil && db != nil {
		return db, nil
	}

	if s.url == "" {
		return nil, fmt.Errorf("%w: %v: %v", ErrNoSource, s.alias, err)
	}
	XLog.Warn("XDal.Source.DB(%v): pooled source is unavailable, fallback to direct connection: %v", s.alias, err)

	dsn, derr := s.dialect.DSN(s.url, s.user, s.pass)
	if derr != nil {
		return nil, fmt.Errorf("%w: %v: %w", ErrNoSource, s.alias, derr)
	}
	direct, derr := sql.Open(s.dialect.Driver(), dsn)
	if derr != nil {
		return nil, fmt.Errorf("%w: %v: %w", ErrNoSource, s.alias, derr)
	}
	s.direct = direct

	quit.GetWaiter().Add(1)
	go func() {
		defer quit.GetWaiter().Done()
		select {
		case <-quit.GetQuitChannel():
			XLog.Notice("XDal.Source(%v): receive signal of QUIT.", s.alias)
		case <-s.closed:
		}
		if err := direct.Close(); err != nil {
			XLog.Error("XDal.Source(%v): close direct connection failed: %v", s.alias, err)
		}
	}()

	XLog.Notice("XDal.Source.DB(%v): direct connection has been opened.", s.alias)
	return direct, nil
}

// Factory 创建新的工厂，每个逻辑调用使用一个工厂。
func (s *Source) Factory() *Factory {
	return newFactory(s)
}

// Stats 返回连接池的统计信息。
func (s *Source) Stats() (sql.DBStats, error) {
	db, err := s.DB()
	if err != nil {
		return sql.DBStats{}, err
	}
	return db.Stats(), nil
}

// Close 关闭直连打开的连接池，外部托管的连接池不受影响。
// 关闭后 DB 返回 ErrNoSource。
func (s *Source) Close() {
	s.once.Do(func() {
		s.mutex.Lock()
		defer s.mutex.Unlock()
		close(s.closed)
		s.direct = nil
	})
}
