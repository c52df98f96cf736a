// Copyright (c) 2025 EFramework Organization. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package XRecipe

import (
	"context"
	"database/sql"
	"strings"

	"github.com/eframework-org/GO.RECIPE/XDal"
	"github.com/eframework-org/GO.UTIL/XLog"
)

// RecipeService 是菜谱的业务层，在通用业务层之上提供级联删除与汇总查询。
type RecipeService struct {
	*XDal.Service[*Recipe]
}

// RecipeSummary 是菜谱及其所属类型的汇总。
type RecipeSummary struct {
	ID          int64
	Description string
	Types       []string
}

// NewRecipeService 创建菜谱业务层。
func NewRecipeService(source *XDal.Source) *RecipeService {
	return &RecipeService{Service: XDal.NewService(source, Recipes)}
}

// NewIngredientService 创建食材业务层。
func NewIngredientService(source *XDal.Source) *XDal.Service[*Ingredient] {
	return XDal.NewService(source, Ingredients)
}

// NewTypeService 创建类型业务层。
func NewTypeService(source *XDal.Source) *XDal.Service[*Type] {
	return XDal.NewService(source, Types)
}

// NewStepService 创建步骤业务层。
func NewStepService(source *XDal.Source) *XDal.Service[*RecipeStep] {
	return XDal.NewService(source, Steps)
}

// NewRecipeIngredientService 创建菜谱食材业务层。
func NewRecipeIngredientService(source *XDal.Source) *XDal.Service[*RecipeIngredient] {
	return XDal.NewService(source, RecipeIngredients)
}

// NewRecipeTypeService 创建菜谱类型业务层。
func NewRecipeTypeService(source *XDal.Source) *XDal.Service[*RecipeType] {
	return XDal.NewService(source, RecipeTypes)
}

// Steps 按顺序列举菜谱的步骤。
func (s *RecipeService) Steps(ctx context.Context, recipe int64) ([]*RecipeStep, error) {
	return XDal.Execute(ctx, s.Factory(), func(ctx context.Context, f *XDal.Factory) ([]*RecipeStep, error) {
		return Steps.List(ctx, f, &RecipeStep{Recipe: XDal.Key(recipe)})
	})
}

// Ingredients 列举菜谱使用的食材。
func (s *RecipeService) Ingredients(ctx context.Context, recipe int64) ([]*RecipeIngredient, error) {
	return XDal.Execute(ctx, s.Factory(), func(ctx context.Context, f *XDal.Factory) ([]*RecipeIngredient, error) {
		return RecipeIngredients.List(ctx, f, &RecipeIngredient{Recipe: XDal.Key(recipe)})
	})
}

// SaveSteps 在同一事务中替换菜谱的所有步骤，返回按顺序写入的步骤。
func (s *RecipeService) SaveSteps(ctx context.Context, recipe int64, descriptions []string) ([]*RecipeStep, error) {
	return XDal.ExecuteTx(ctx, s.Factory(), func(ctx context.Context, f *XDal.Factory) ([]*RecipeStep, error) {
		if _, err := XDal.DeleteWhere(ctx, f, Steps.Table(), []string{"receta"}, []XDal.Value{XDal.Long(recipe)}); err != nil {
			return nil, err
		}

		steps := make([]*RecipeStep, len(descriptions))
		sets := make([][]XDal.Value, len(descriptions))
		for i, desc := range descriptions {
			steps[i] = &RecipeStep{Description: desc, Recipe: XDal.Key(recipe)}
			sets[i] = []XDal.Value{XDal.Text(desc), XDal.Long(recipe)}
		}
		query := XDal.BuildInsert(Steps.Table(), stepColumns)
		_, err := XDal.ExecBatch(ctx, f, query, sets, func(index int, result sql.Result) error {
			id, err := result.LastInsertId()
			if err != nil || id == 0 {
				return &XDal.KeyError{SQL: query, Params: sets[index], Err: XDal.ErrNoGeneratedKey}
			}
			steps[index].SetIdentity(id)
			return nil
		})
		if err != nil {
			return nil, err
		}
		return steps, nil
	})
}

// Purge 在同一事务中删除菜谱及其步骤、食材与类型关联，返回删除的菜谱行数。
// 任一步骤失败时整体回滚。
func (s *RecipeService) Purge(ctx context.Context, recipe int64) (int64, error) {
	return XDal.ExecuteTx(ctx, s.Factory(), func(ctx context.Context, f *XDal.Factory) (int64, error) {
		key := []XDal.Value{XDal.Long(recipe)}
		for _, table := range []string{Steps.Table(), RecipeIngredients.Table(), RecipeTypes.Table()} {
			if _, err := XDal.DeleteWhere(ctx, f, table, []string{"receta"}, key); err != nil {
				return 0, err
			}
		}
		n, err := s.On(f).Delete(ctx, recipe)
		if err == nil {
			XLog.Notice("XRecipe.Purge(%v): recipe has been purged.", recipe)
		}
		return n, err
	})
}

// Summaries 列举菜谱及其所属类型，filter 的描述用于模糊匹配，可为 nil。
func (s *RecipeService) Summaries(ctx context.Context, filter *Recipe) ([]*RecipeSummary, error) {
	return XDal.Execute(ctx, s.Factory(), func(ctx context.Context, f *XDal.Factory) ([]*RecipeSummary, error) {
		cond := XDal.NewCondition()
		if filter != nil {
			cond.Like("r.descripcion", filter.Description)
		}
		query := "SELECT r.id, r.descripcion, " +
			f.Dialect().GroupConcat("t.descripcion", "t.descripcion", XDal.ConcatSeparator) +
			" FROM recetas r" +
			" LEFT JOIN tipos_recetas tr ON tr.receta = r.id" +
			" LEFT JOIN tipos t ON t.id = tr.tipo" +
			cond.SQL() +
			" GROUP BY r.id, r.descripcion ORDER BY r.id"
		return XDal.Select(ctx, f, query, cond.Params(), scanSummary)
	})
}

func scanSummary(row XDal.Row) (*RecipeSummary, error) {
	var types sql.NullString
	obj := &RecipeSummary{Types: []string{}}
	if err := row.Scan(&obj.ID, &obj.Description, &types); err != nil {
		return nil, err
	}
	if types.Valid && types.String != "" {
		obj.Types = strings.Split(types.String, XDal.ConcatSeparator)
	}
	return obj, nil
}
