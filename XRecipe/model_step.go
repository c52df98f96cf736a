// Copyright (c) 2025 EFramework Organization. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package XRecipe

import (
	"database/sql"

	"github.com/eframework-org/GO.RECIPE/XDal"
)

// RecipeStep 是菜谱的步骤，对应 pasos_recetas 表，按主键排序。
type RecipeStep struct {
	XDal.Bean
	Description string
	Recipe      *int64
}

var stepColumns = []string{"descripcion", "receta"}

// Steps 是步骤的仓储。
var Steps = XDal.NewRepository(XDal.Mapping[*RecipeStep]{
	Table:   "pasos_recetas",
	Columns: stepColumns,
	Order:   "id",
	New:     func() *RecipeStep { return &RecipeStep{} },
	Scan: func(row XDal.Row) (*RecipeStep, error) {
		var id int64
		var recipe sql.NullInt64
		obj := &RecipeStep{}
		if err := row.Scan(&id, &obj.Description, &recipe); err != nil {
			return nil, err
		}
		obj.SetIdentity(id)
		obj.Recipe = XDal.NullLong(recipe)
		return obj, nil
	},
	Values: func(obj *RecipeStep) []XDal.Value {
		return []XDal.Value{XDal.Text(obj.Description), XDal.LongOf(obj.Recipe)}
	},
	Where: func(filter *RecipeStep, cond *XDal.Condition) {
		cond.Equal("receta", XDal.LongOf(filter.Recipe)).
			Like("descripcion", filter.Description)
	},
})
