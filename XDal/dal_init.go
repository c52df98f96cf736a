// Copyright (c) 2025 EFramework Organization. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package XDal

import (
	"strings"
	"sync/atomic"
	"time"

	"github.com/beego/beego/v2/client/orm"
	"github.com/eframework-org/GO.UTIL/XLog"
	"github.com/eframework-org/GO.UTIL/XPrefs"
)

const (
	prefsSourcePrefix = "Dal/Source/"
	prefsDirectPrefix = "Dal/Direct/"
	prefsTimeout      = "Dal/Timeout"

	prefsSourceAddr = "Addr"
	prefsSourcePool = "Pool"
	prefsSourceConn = "Conn"

	prefsDirectUrl  = "Url"
	prefsDirectUser = "User"
	prefsDirectPass = "Pass"
)

// statementTimeout 是单条语句的超时时间（纳秒），0 表示不限制。
var statementTimeout int64

func init() {
	initDal(XPrefs.Asset())
}

// initDal 解析首选项，注册连接池及直连配置。
//
//	Dal/Source/<类型>/<别名>：Addr、Pool、Conn，注册为宿主环境提供的连接池。
//	Dal/Direct/<类型>/<别名>：Url、User、Pass，连接池不可用时的直连配置。
//	Dal/Timeout：语句超时（毫秒）。
func initDal(prefs XPrefs.IBase) {
	if prefs == nil {
		XLog.Panic("XDal.Init: prefs is nil.")
		return
	}

	timeout := prefs.GetInt(prefsTimeout, 0)
	if timeout < 0 {
		timeout = 0
	}
	atomic.StoreInt64(&statementTimeout, int64(time.Duration(timeout)*time.Millisecond))

	for _, key := range prefs.Keys() {
		source := strings.HasPrefix(key, prefsSourcePrefix)
		direct := strings.HasPrefix(key, prefsDirectPrefix)
		if !source && !direct {
			continue
		}
		parts := strings.Split(key, "/")
		if len(parts) < 4 {
			XLog.Panic("XDal.Init: invalid prefs key %v.", key)
			return
		}

		dalType := strings.ToLower(parts[2])
		dalAlias := parts[3]
		dialect := GetDialect(dalType)
		if dialect == nil {
			XLog.Panic("XDal.Init: dialect of %v was not registered.", dalType)
			return
		}

		base, ok := prefs.Get(key).(XPrefs.IBase)
		if !ok || base == nil {
			XLog.Error("XDal.Init: invalid config for %v.", key)
			continue
		}

		src := Use(dalAlias)
		if src == nil {
			src = Register(NewSource(dalAlias, dialect))
		}

		if source {
			addr := base.GetString(prefsSourceAddr)
			pool := base.GetInt(prefsSourcePool)
			conn := base.GetInt(prefsSourceConn)
			if err := orm.RegisterDataBase(dalAlias, dalType, addr,
				orm.MaxIdleConnections(pool),
				orm.MaxOpenConnections(conn)); err != nil {
				XLog.Panic("XDal.Init: register database %v failed, err: %v", dalAlias, err)
				return
			}
			XLog.Notice("XDal.Init: source %v of %v has been registered.", dalAlias, dialect.Name())
		} else {
			src.Direct(base.GetString(prefsDirectUrl), base.GetString(prefsDirectUser), base.GetString(prefsDirectPass))
			XLog.Notice("XDal.Init: direct config of %v has been loaded.", dalAlias)
		}
	}
}

// Timeout 返回单条语句的超时时间。
func Timeout() time.Duration {
	return time.Duration(atomic.LoadInt64(&statementTimeout))
}
