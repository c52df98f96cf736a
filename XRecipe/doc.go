// Copyright (c) 2025 EFramework Organization. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

/*
XRecipe 是菜谱应用的数据访问层，基于 XDal 为菜谱、食材、类型、步骤及其关联提供仓储与业务层。

功能特性

  - 实体映射：六个实体各自声明表、列与过滤规则，仓储由 XDal.NewRepository 生成
  - 过滤查询：描述字段不区分大小写模糊匹配，外键字段精确匹配，菜谱可按类型或食材过滤
  - 级联删除：RecipeService.Purge 在同一事务中删除菜谱及其步骤、食材与类型关联
  - 汇总查询：RecipeService.Summaries 聚合菜谱所属的类型

数据表

	recetas(id, descripcion, foto)
	ingredientes(id, descripcion, foto)
	tipos(id, descripcion)
	pasos_recetas(id, descripcion, receta)
	ingredientes_recetas(id, ingrediente, receta, cantidad)
	tipos_recetas(id, tipo, receta)

使用示例

	recipes := XRecipe.NewRecipeService(XDal.Use("Recipe"))

	// 插入菜谱
	id, err := recipes.Save(ctx, &XRecipe.Recipe{Description: "Tortilla"})

	// 按类型过滤
	list, err := recipes.List(ctx, &XRecipe.Recipe{TypeID: XDal.Key(typeID)})

	// 删除菜谱及其关联
	n, err := recipes.Purge(ctx, id)

数据库的外键约束保持启用：存在关联时直接删除菜谱会返回约束冲突错误，且关联数据保持不变。
*/
package XRecipe
