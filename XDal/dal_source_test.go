// Copyright (c) 2025 EFramework Organization. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package XDal

import (
	"context"
	"testing"
	"time"

	"github.com/eframework-org/GO.RECIPE/internal/daltest"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSource(t *testing.T) {
	t.Run("Registry", func(t *testing.T) {
		assert.Nil(t, Use("XDal.Source.Missing"), "未注册的数据源应当返回 nil。")
		source := Register(NewSource("XDal.Source.Registry", nil))
		assert.Same(t, source, Use("XDal.Source.Registry"), "注册后的数据源应当可以获取。")
		assert.Equal(t, MySQL, source.Dialect(), "未指定方言时应当使用 MySQL。")
		assert.Equal(t, "XDal.Source.Registry", source.Alias())
	})

	t.Run("Adopt", func(t *testing.T) {
		db := daltest.Open(t)
		source := NewSource("XDal.Source.Adopt", daltest.SQLite).Adopt(db)
		got, err := source.DB()
		require.NoError(t, err)
		assert.Same(t, db, got, "应当使用调用方托管的连接池。")

		f := source.Factory()
		_, err = f.Conn(context.Background())
		require.NoError(t, err)
		stats, err := source.Stats()
		require.NoError(t, err)
		assert.Equal(t, 1, stats.InUse, "工厂持有的连接应当处于使用中。")
		require.NoError(t, f.Close())

		source.Close()
		assert.NoError(t, db.Ping(), "托管的连接池应当不被关闭。")
	})

	t.Run("Direct", func(t *testing.T) {
		source := NewSource("XDal.Source.Direct", daltest.SQLite).Direct(daltest.DSN(t), "", "")
		db, err := source.DB()
		require.NoError(t, err, "连接池不可用时应当使用直连。")
		again, err := source.DB()
		require.NoError(t, err)
		assert.Same(t, db, again, "直连的连接池应当只打开一次。")
		assert.NoError(t, db.Ping(), "直连的连接池应当可用。")

		source.Close()
		source.Close()
		assert.Eventually(t, func() bool { return db.Ping() != nil }, time.Second, 10*time.Millisecond, "关闭数据源后直连的连接池应当被关闭。")
		_, err = source.DB()
		assert.ErrorIs(t, err, ErrNoSource, "关闭后的数据源应当不再返回连接池。")
	})

	t.Run("Closed", func(t *testing.T) {
		source := NewSource("XDal.Source.Closed", daltest.SQLite).Direct(daltest.DSN(t), "", "")
		source.Close()

		db, err := source.DB()
		assert.ErrorIs(t, err, ErrNoSource, "关闭后的数据源应当不再打开直连。")
		assert.Nil(t, db)

		f := source.Factory()
		defer f.Close()
		_, err = f.Conn(context.Background())
		assert.ErrorIs(t, err, ErrNoSource, "关闭后的数据源应当无法获取连接。")
	})

	t.Run("NoSource", func(t *testing.T) {
		_, err := NewSource("XDal.Source.None", daltest.SQLite).DB()
		assert.ErrorIs(t, err, ErrNoSource, "没有连接池及直连配置时应当返回 ErrNoSource。")
	})
}
