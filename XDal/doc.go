// Copyright (c) 2025 EFramework Organization. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

/*
XDal 实现了通用的事务型数据访问层，提供了条件构造、语句执行、连接及事务管理、通用仓储和业务编排。

功能特性

  - 条件构造：以占位符绑定参数追加等于、模糊、IN、子查询、空值及大文本检索条件，空白值视为无条件
  - 语句执行：参数化查询及写入，支持生成主键读取、批量执行、语句超时，错误携带 SQL 及参数
  - 事务管理：工厂作为显式的工作单元持有连接及事务，支持嵌套事务
  - 通用仓储：基于表名、列清单及映射函数提供增删改查、统计及分页
  - 业务编排：普通及事务作用域，保证连接释放及失败回滚

使用手册

1. 数据源配置

配置说明：
  - 连接池：Dal/Source/<数据库类型>/<数据库别名>，参数为 Addr、Pool、Conn，注册至 Beego ORM
  - 直连：Dal/Direct/<数据库类型>/<数据库别名>，参数为 Url、User、Pass，连接池不可用时使用
  - 超时：Dal/Timeout，单条语句的超时时间（毫秒），0 表示不限制

配置示例：

	{
	    "Dal/Source/MySQL/Recipe": {
	        "Addr": "root:123456@tcp(127.0.0.1:3306)/recetas?charset=utf8mb4&loc=Local",
	        "Pool": 2,
	        "Conn": 10
	    },
	    "Dal/Direct/MySQL/Recipe": {
	        "Url": "tcp(127.0.0.1:3306)/recetas?charset=utf8mb4",
	        "User": "root",
	        "Pass": "123456"
	    },
	    "Dal/Timeout": 5000
	}

获取数据源：

	source := XDal.Use("Recipe")

2. 条件构造

	cond := XDal.NewCondition().
	    Equal("id", XDal.LongOf(filter.ID)).      // 空值不产生条件
	    Like("descripcion", filter.Description).   // UPPER(descripcion) LIKE ?
	    In("tipo", XDal.Long(1), XDal.Long(2))     // 首个参数为空值时不产生条件
	query := "SELECT id, descripcion FROM recetas" + cond.SQL()

	// 分页，页码从 1 开始
	query, params := XDal.Paginate(source.Dialect(), query, cond.Params(), 1, 10)

3. 语句执行

	rows, err := XDal.Select(ctx, f, query, params, func(row XDal.Row) (*Recipe, error) { ... })
	id, err := XDal.Insert(ctx, f, "recetas", []string{"descripcion", "foto"}, values)
	n, err := XDal.Update(ctx, f, "recetas", []string{"descripcion", "foto"}, id, values)
	n, err := XDal.ExecBatch(ctx, f, "INSERT INTO pasos_recetas (descripcion, receta) VALUES (?, ?)", sets, nil)

错误处理：
  - 语句失败返回 *StatementError，包含 SQL 及参数
  - 约束冲突原样返回，可通过 IsDuplicate 识别唯一约束冲突
  - 插入没有影响行或没有返回主键时返回 *KeyError（ErrNoRowsAffected、ErrNoGeneratedKey）
  - 事务无法开启或提交时返回 ErrTransaction

4. 事务管理

	f := source.Factory()
	defer f.Close()
	if err := f.Begin(ctx); err != nil { ... }
	f.Begin(ctx)  // 嵌套，不产生物理效果
	f.Rollback()  // 嵌套，仅减少深度
	f.Commit()    // 最外层，提交事务

5. 通用仓储及业务编排

	repo := XDal.NewRepository(XDal.Mapping[*Recipe]{
	    Table:   "recetas",
	    Columns: []string{"descripcion", "foto"},
	    New:     func() *Recipe { return &Recipe{} },
	    Scan:    scanRecipe,
	    Values:  func(r *Recipe) []XDal.Value { ... },
	    Where:   func(r *Recipe, cond *XDal.Condition) { cond.Like("descripcion", r.Description) },
	})
	service := XDal.NewService(source, repo)
	id, err := service.Save(ctx, &Recipe{Description: "Tortilla"})

	// 在同一事务中组合多个操作
	XDal.ExecuteTx(ctx, source.Factory(), func(ctx context.Context, f *XDal.Factory) (int64, error) {
	    service.On(f).Save(ctx, a)
	    return service.On(f).Save(ctx, b)
	})

更多信息请参考模块文档。
*/
package XDal
