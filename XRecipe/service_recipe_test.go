// Copyright (c) 2025 EFramework Organization. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package XRecipe

import (
	"context"
	"fmt"
	"testing"

	"github.com/eframework-org/GO.RECIPE/XDal"
	"github.com/eframework-org/GO.RECIPE/internal/daltest"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRecipeService(t *testing.T) {
	ctx := context.Background()

	t.Run("Tortilla", func(t *testing.T) {
		source := newTestSource(t)
		recipes := NewRecipeService(source)
		ingredients := NewIngredientService(source)
		links := NewRecipeIngredientService(source)

		recipe, err := recipes.Save(ctx, &Recipe{Description: "Tortilla"})
		require.NoError(t, err, "保存菜谱应当成功。")
		egg, err := ingredients.Save(ctx, &Ingredient{Description: "Huevo"})
		require.NoError(t, err, "保存食材应当成功。")
		_, err = links.Save(ctx, &RecipeIngredient{Ingredient: XDal.Key(egg), Recipe: XDal.Key(recipe), Quantity: "3 uds"})
		require.NoError(t, err, "保存关联应当成功。")

		all, err := links.List(ctx, &RecipeIngredient{})
		require.NoError(t, err)
		require.Len(t, all, 1, "空过滤条件应当只返回一个关联。")
		assert.Equal(t, egg, *all[0].Ingredient)
		assert.Equal(t, recipe, *all[0].Recipe)
		assert.Equal(t, "3 uds", all[0].Quantity)

		listed, err := recipes.Ingredients(ctx, recipe)
		require.NoError(t, err)
		require.Len(t, listed, 1, "菜谱应当有一个食材。")

		_, err = recipes.Delete(ctx, recipe)
		require.Error(t, err, "存在关联时删除菜谱应当失败。")
		assert.True(t, daltest.SQLite.IsConstraintViolation(err), "外键约束冲突应当原样返回。")
		assert.False(t, XDal.IsStatementError(err), "外键约束冲突不应当被包装。")

		listed, err = recipes.Ingredients(ctx, recipe)
		require.NoError(t, err)
		assert.Len(t, listed, 1, "删除失败后关联应当保持不变。")
		got, err := recipes.Get(ctx, recipe)
		require.NoError(t, err)
		assert.NotNil(t, got, "删除失败后菜谱应当保持不变。")

		n, err := recipes.Purge(ctx, recipe)
		require.NoError(t, err, "级联删除应当成功。")
		assert.Equal(t, int64(1), n, "级联删除应当删除 1 个菜谱。")

		got, err = recipes.Get(ctx, recipe)
		require.NoError(t, err)
		assert.Nil(t, got, "级联删除后应当读取不到菜谱。")
		listed, err = recipes.Ingredients(ctx, recipe)
		require.NoError(t, err)
		assert.Empty(t, listed, "级联删除后应当没有关联。")
		kept, err := ingredients.Get(ctx, egg)
		require.NoError(t, err)
		assert.NotNil(t, kept, "级联删除不应当删除食材本身。")
	})

	t.Run("PurgeRollback", func(t *testing.T) {
		source := newTestSource(t)
		recipes := NewRecipeService(source)

		recipe, err := recipes.Save(ctx, &Recipe{Description: "Cocido"})
		require.NoError(t, err)
		_, err = recipes.SaveSteps(ctx, recipe, []string{"Remojar", "Cocer"})
		require.NoError(t, err)

		// 触发器使删除菜谱这一步失败
		db, err := source.DB()
		require.NoError(t, err)
		_, err = db.Exec(`CREATE TRIGGER recetas_guard BEFORE DELETE ON recetas BEGIN SELECT RAISE(ABORT, 'guarded'); END`)
		require.NoError(t, err)

		_, err = recipes.Purge(ctx, recipe)
		require.Error(t, err, "删除菜谱失败时级联删除应当失败。")
		assert.ErrorContains(t, err, "guarded")

		steps, err := recipes.Steps(ctx, recipe)
		require.NoError(t, err)
		assert.Len(t, steps, 2, "级联删除失败后步骤应当被回滚。")
	})

	t.Run("Steps", func(t *testing.T) {
		source := newTestSource(t)
		recipes := NewRecipeService(source)

		recipe, err := recipes.Save(ctx, &Recipe{Description: "Tortilla"})
		require.NoError(t, err)

		saved, err := recipes.SaveSteps(ctx, recipe, []string{"Pelar", "Freír", "Batir"})
		require.NoError(t, err, "保存步骤应当成功。")
		require.Len(t, saved, 3)
		for _, obj := range saved {
			assert.False(t, obj.IsNew(), "保存后步骤应当有主键。")
		}

		saved, err = recipes.SaveSteps(ctx, recipe, []string{"Pelar", "Cuajar"})
		require.NoError(t, err, "替换步骤应当成功。")

		steps, err := recipes.Steps(ctx, recipe)
		require.NoError(t, err)
		got := []string{}
		for i, obj := range steps {
			got = append(got, obj.Description)
			assert.True(t, obj.Equals(saved[i]), "读取的步骤应当与保存的一致。")
		}
		assert.Equal(t, []string{"Pelar", "Cuajar"}, got, "步骤应当被整体替换并保持顺序。")

		_, err = recipes.SaveSteps(ctx, recipe+100, []string{"Huérfano"})
		require.Error(t, err, "菜谱不存在时保存步骤应当失败。")
		assert.True(t, daltest.SQLite.IsConstraintViolation(err))
	})

	t.Run("Summaries", func(t *testing.T) {
		source := newTestSource(t)
		recipes := NewRecipeService(source)
		types := NewTypeService(source)
		recipeTypes := NewRecipeTypeService(source)

		first, err := types.Save(ctx, &Type{Description: "Primero"})
		require.NoError(t, err)
		vegan, err := types.Save(ctx, &Type{Description: "Vegano"})
		require.NoError(t, err)

		gazpacho, err := recipes.Save(ctx, &Recipe{Description: "Gazpacho"})
		require.NoError(t, err)
		_, err = recipes.Save(ctx, &Recipe{Description: "Tortilla"})
		require.NoError(t, err)
		for _, typ := range []int64{vegan, first} {
			_, err := recipeTypes.Save(ctx, &RecipeType{Type: XDal.Key(typ), Recipe: XDal.Key(gazpacho)})
			require.NoError(t, err)
		}

		summaries, err := recipes.Summaries(ctx, nil)
		require.NoError(t, err)
		require.Len(t, summaries, 2)
		assert.Equal(t, "Gazpacho", summaries[0].Description)
		assert.Equal(t, []string{"Primero", "Vegano"}, summaries[0].Types, "类型应当按描述排序并拆分。")
		assert.Equal(t, "Tortilla", summaries[1].Description)
		assert.Empty(t, summaries[1].Types, "没有类型的菜谱应当返回空列表。")

		summaries, err = recipes.Summaries(ctx, &Recipe{Description: "torti"})
		require.NoError(t, err)
		require.Len(t, summaries, 1)
		assert.Equal(t, "Tortilla", summaries[0].Description)
	})

	t.Run("Page", func(t *testing.T) {
		source := newTestSource(t)
		recipes := NewRecipeService(source)
		for i := range 12 {
			_, err := recipes.Save(ctx, &Recipe{Description: fmt.Sprintf("Receta %02d", i+1)})
			require.NoError(t, err)
		}

		page, err := recipes.Page(ctx, &Recipe{Description: "receta"}, 3, 5)
		require.NoError(t, err)
		assert.Equal(t, 12, page.Total)
		assert.Equal(t, 3, page.Pages())
		assert.Equal(t, []string{"Receta 11", "Receta 12"}, descriptions(page.Items), "最后一页应当只包含剩余的菜谱。")
		assert.False(t, page.HasNext())
		assert.True(t, page.HasPrev())

		count, err := recipes.Count(ctx, &Recipe{Description: "1"})
		require.NoError(t, err)
		assert.Equal(t, 4, count, "描述包含 1 的菜谱应当有 4 个。")
	})
}
