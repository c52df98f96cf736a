// Copyright (c) 2025 EFramework Organization. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package XRecipe

import (
	"github.com/eframework-org/GO.RECIPE/XDal"
)

// Type 是菜谱的类型，对应 tipos 表。
type Type struct {
	XDal.Bean
	Description string
}

// Types 是类型的仓储。
var Types = XDal.NewRepository(XDal.Mapping[*Type]{
	Table:   "tipos",
	Columns: []string{"descripcion"},
	New:     func() *Type { return &Type{} },
	Scan: func(row XDal.Row) (*Type, error) {
		var id int64
		obj := &Type{}
		if err := row.Scan(&id, &obj.Description); err != nil {
			return nil, err
		}
		obj.SetIdentity(id)
		return obj, nil
	},
	Values: func(obj *Type) []XDal.Value {
		return []XDal.Value{XDal.Text(obj.Description)}
	},
	Where: func(filter *Type, cond *XDal.Condition) {
		cond.Like("descripcion", filter.Description)
	},
})
