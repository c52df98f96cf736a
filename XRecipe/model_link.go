// Copyright (c) 2025 EFramework Organization. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package XRecipe

import (
	"database/sql"

	"github.com/eframework-org/GO.RECIPE/XDal"
)

// RecipeIngredient 是菜谱使用的食材及用量，对应 ingredientes_recetas 表。
type RecipeIngredient struct {
	XDal.Bean
	Ingredient *int64
	Recipe     *int64
	Quantity   string // 用量，如 "200g"
}

// RecipeIngredients 是菜谱食材的仓储。
var RecipeIngredients = XDal.NewRepository(XDal.Mapping[*RecipeIngredient]{
	Table:   "ingredientes_recetas",
	Columns: []string{"ingrediente", "receta", "cantidad"},
	New:     func() *RecipeIngredient { return &RecipeIngredient{} },
	Scan: func(row XDal.Row) (*RecipeIngredient, error) {
		var id int64
		var ingredient, recipe sql.NullInt64
		var quantity sql.NullString
		obj := &RecipeIngredient{}
		if err := row.Scan(&id, &ingredient, &recipe, &quantity); err != nil {
			return nil, err
		}
		obj.SetIdentity(id)
		obj.Ingredient = XDal.NullLong(ingredient)
		obj.Recipe = XDal.NullLong(recipe)
		obj.Quantity = quantity.String
		return obj, nil
	},
	Values: func(obj *RecipeIngredient) []XDal.Value {
		return []XDal.Value{XDal.LongOf(obj.Ingredient), XDal.LongOf(obj.Recipe), XDal.Text(obj.Quantity)}
	},
	Where: func(filter *RecipeIngredient, cond *XDal.Condition) {
		cond.Equal("ingrediente", XDal.LongOf(filter.Ingredient)).
			Equal("receta", XDal.LongOf(filter.Recipe))
	},
})

// RecipeType 是菜谱所属的类型，对应 tipos_recetas 表。
type RecipeType struct {
	XDal.Bean
	Type   *int64
	Recipe *int64
}

// RecipeTypes 是菜谱类型的仓储。
var RecipeTypes = XDal.NewRepository(XDal.Mapping[*RecipeType]{
	Table:   "tipos_recetas",
	Columns: []string{"tipo", "receta"},
	New:     func() *RecipeType { return &RecipeType{} },
	Scan: func(row XDal.Row) (*RecipeType, error) {
		var id int64
		var typ, recipe sql.NullInt64
		obj := &RecipeType{}
		if err := row.Scan(&id, &typ, &recipe); err != nil {
			return nil, err
		}
		obj.SetIdentity(id)
		obj.Type = XDal.NullLong(typ)
		obj.Recipe = XDal.NullLong(recipe)
		return obj, nil
	},
	Values: func(obj *RecipeType) []XDal.Value {
		return []XDal.Value{XDal.LongOf(obj.Type), XDal.LongOf(obj.Recipe)}
	},
	Where: func(filter *RecipeType, cond *XDal.Condition) {
		cond.Equal("tipo", XDal.LongOf(filter.Type)).
			Equal("receta", XDal.LongOf(filter.Recipe))
	},
})
