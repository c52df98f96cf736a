// Copyright (c) 2025 EFramework Organization. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package XDal

import (
	"strings"
	"sync/atomic"

	"github.com/prometheus/client_golang/prometheus"
)

const (
	// 事务结果标签
	txBegin    = "begin"
	txNested   = "nested"
	txCommit   = "commit"
	txRollback = "rollback"
	txFailed   = "failed"
)

var (
	// connectionGauge 统计当前工厂持有的物理连接数量。
	connectionGauge = prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "xdal_connection_open",
		Help: "The number of physical connections held by factories.",
	})

	// factoryCounter 统计创建的工厂总数。
	factoryCounter = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "xdal_factory_total",
		Help: "The total number of factories created.",
	})

	// statementCounter 按类型统计执行的语句总数。
	statementCounter = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "xdal_statement_total",
		Help: "The total number of executed statements.",
	}, []string{"kind"})

	// statementFailCounter 按类型统计失败的语句总数。
	statementFailCounter = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "xdal_statement_failed_total",
		Help: "The total number of failed statements.",
	}, []string{"kind"})

	// transactionCounter 按结果统计事务操作总数。
	transactionCounter = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "xdal_transaction_total",
		Help: "The total number of transaction operations.",
	}, []string{"outcome"})
)

func init() {
	prometheus.MustRegister(connectionGauge, factoryCounter, statementCounter, statementFailCounter, transactionCounter)
}

// metricsInfo 定义了全局的统计信息。
type metricsInfo struct {
	connections int64 // 当前持有的连接数
	factories   int64 // 创建的工厂总数
}

var sharedMetrics = &metricsInfo{}

// 提供了统计信息的全局访问点。
func Metrics() *metricsInfo {
	return sharedMetrics
}

// Connections 返回当前工厂持有的物理连接数量。
func (m *metricsInfo) Connections() int64 {
	return atomic.LoadInt64(&m.connections)
}

// Factories 返回创建的工厂总数。
func (m *metricsInfo) Factories() int64 {
	return atomic.LoadInt64(&m.factories)
}

func (m *metricsInfo) connOpened() {
	atomic.AddInt64(&m.connections, 1)
	connectionGauge.Inc()
}

func (m *metricsInfo) connClosed() {
	atomic.AddInt64(&m.connections, -1)
	connectionGauge.Dec()
}

func (m *metricsInfo) factoryCreated() {
	atomic.AddInt64(&m.factories, 1)
	factoryCounter.Inc()
}

func (m *metricsInfo) statement(kind string, err error) {
	label := strings.ToLower(kind)
	statementCounter.WithLabelValues(label).Inc()
	if err != nil {
		statementFailCounter.WithLabelValues(label).Inc()
	}
}

func (m *metricsInfo) transaction(outcome string) {
	transactionCounter.WithLabelValues(outcome).Inc()
}
