// Copyright (c) 2025 EFramework Organization. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package XRecipe

import (
	"database/sql"

	"github.com/eframework-org/GO.RECIPE/XDal"
)

// Ingredient 是食材，对应 ingredientes 表。
type Ingredient struct {
	XDal.Bean
	Description string
	Photo       *string
}

// Ingredients 是食材的仓储。
var Ingredients = XDal.NewRepository(XDal.Mapping[*Ingredient]{
	Table:   "ingredientes",
	Columns: []string{"descripcion", "foto"},
	New:     func() *Ingredient { return &Ingredient{} },
	Scan: func(row XDal.Row) (*Ingredient, error) {
		var id int64
		var photo sql.NullString
		obj := &Ingredient{}
		if err := row.Scan(&id, &obj.Description, &photo); err != nil {
			return nil, err
		}
		obj.SetIdentity(id)
		obj.Photo = XDal.NullText(photo)
		return obj, nil
	},
	Values: func(obj *Ingredient) []XDal.Value {
		return []XDal.Value{XDal.Text(obj.Description), XDal.TextOf(obj.Photo)}
	},
	Where: func(filter *Ingredient, cond *XDal.Condition) {
		cond.Like("descripcion", filter.Description)
	},
})
