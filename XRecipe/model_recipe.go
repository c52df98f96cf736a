// Copyright (c) 2025 EFramework Organization. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package XRecipe

import (
	"database/sql"

	"github.com/eframework-org/GO.RECIPE/XDal"
)

// Recipe 是菜谱，对应 recetas 表。
type Recipe struct {
	XDal.Bean
	Description string  // descripcion
	Photo       *string // foto，图片的引用

	TypeID       *int64 // 仅用于过滤：包含该类型的菜谱
	IngredientID *int64 // 仅用于过滤：使用该食材的菜谱
}

// Recipes 是菜谱的仓储。
var Recipes = XDal.NewRepository(XDal.Mapping[*Recipe]{
	Table:   "recetas",
	Columns: []string{"descripcion", "foto"},
	New:     func() *Recipe { return &Recipe{} },
	Scan: func(row XDal.Row) (*Recipe, error) {
		var id int64
		var photo sql.NullString
		obj := &Recipe{}
		if err := row.Scan(&id, &obj.Description, &photo); err != nil {
			return nil, err
		}
		obj.SetIdentity(id)
		obj.Photo = XDal.NullText(photo)
		return obj, nil
	},
	Values: func(obj *Recipe) []XDal.Value {
		return []XDal.Value{XDal.Text(obj.Description), XDal.TextOf(obj.Photo)}
	},
	Where: func(filter *Recipe, cond *XDal.Condition) {
		cond.Like("descripcion", filter.Description).
			InSelect("id", "SELECT receta FROM tipos_recetas WHERE tipo = ?", XDal.LongOf(filter.TypeID)).
			InSelect("id", "SELECT receta FROM ingredientes_recetas WHERE ingrediente = ?", XDal.LongOf(filter.IngredientID))
	},
})
