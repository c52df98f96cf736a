// Copyright (c) 2025 EFramework Organization. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package XDal

import (
	"database/sql"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDalValue(t *testing.T) {
	t.Run("Kind", func(t *testing.T) {
		tests := []struct {
			value Value
			kind  Kind
			arg   any
			blank bool
			str   string
		}{
			{Null(), KindNull, nil, true, "null"},
			{Int(7), KindInt, int64(7), false, "7"},
			{Long(42), KindLong, int64(42), false, "42"},
			{Double(1.5), KindDouble, 1.5, false, "1.5"},
			{Text("abc"), KindText, "abc", false, "abc"},
			{Text(" \t"), KindText, " \t", true, " \t"},
			{Clob([]byte("texto largo")), KindClob, "texto largo", false, "texto largo"},
			{Blob([]byte{1, 2, 3}), KindBlob, []byte{1, 2, 3}, false, "blob[3]"},
		}
		for _, test := range tests {
			t.Run(test.kind.String(), func(t *testing.T) {
				assert.Equal(t, test.kind, test.value.Kind(), "参数类型应当符合预期。")
				assert.Equal(t, test.arg, test.value.Arg(), "驱动参数应当符合预期。")
				assert.Equal(t, test.blank, test.value.IsBlank(), "空白判断应当符合预期。")
				assert.Equal(t, test.str, test.value.String(), "参数描述应当符合预期。")
			})
		}
	})

	t.Run("Of", func(t *testing.T) {
		id := int64(3)
		name := "Huevo"
		assert.Equal(t, Long(3), LongOf(&id), "非空长整型应当转换为 Long。")
		assert.True(t, LongOf(nil).IsNull(), "nil 长整型应当转换为空值。")
		assert.Equal(t, Text("Huevo"), TextOf(&name), "非空文本应当转换为 Text。")
		assert.True(t, TextOf(nil).IsNull(), "nil 文本应当转换为空值。")
		assert.Equal(t, []any{int64(3), nil, "Huevo"}, Args([]Value{Long(3), Null(), Text("Huevo")}), "参数列表应当按顺序转换。")
	})

	t.Run("Nullable", func(t *testing.T) {
		assert.Nil(t, NullLong(sql.NullInt64{}), "无效的长整型列应当读取为 nil。")
		assert.Equal(t, int64(9), *NullLong(sql.NullInt64{Int64: 9, Valid: true}), "有效的长整型列应当被读取。")
		assert.Nil(t, NullInt(sql.NullInt32{}), "无效的整型列应当读取为 nil。")
		assert.Equal(t, 4, *NullInt(sql.NullInt32{Int32: 4, Valid: true}), "有效的整型列应当被读取。")
		assert.Nil(t, NullDouble(sql.NullFloat64{}), "无效的浮点列应当读取为 nil。")
		assert.Equal(t, 2.5, *NullDouble(sql.NullFloat64{Float64: 2.5, Valid: true}), "有效的浮点列应当被读取。")
		assert.Nil(t, NullText(sql.NullString{}), "无效的文本列应当读取为 nil。")
		assert.Equal(t, "foto.jpg", *NullText(sql.NullString{String: "foto.jpg", Valid: true}), "有效的文本列应当被读取。")
	})
}
