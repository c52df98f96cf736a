// Copyright (c) 2025 EFramework Organization. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package XDal

import (
	"database/sql"
	"strconv"
	"strings"
)

// Kind 定义了可绑定参数的类型。
type Kind int

const (
	KindNull   Kind = iota // 空值
	KindInt                // 整型
	KindLong               // 长整型
	KindDouble             // 浮点型
	KindText               // 文本
	KindClob               // 大文本
	KindBlob               // 二进制
)

// String 返回类型名称。
func (k Kind) String() string {
	switch k {
	case KindNull:
		return "Null"
	case KindInt:
		return "Int"
	case KindLong:
		return "Long"
	case KindDouble:
		return "Double"
	case KindText:
		return "Text"
	case KindClob:
		return "Clob"
	case KindBlob:
		return "Blob"
	}
	return "Kind(" + strconv.Itoa(int(k)) + ")"
}

// Value 是语句参数的封闭联合类型，类型在调用处确定，绑定时不再推断。
type Value struct {
	kind Kind
	num  int64
	flt  float64
	text string
	raw  []byte
}

// Null 创建空值参数。
func Null() Value { return Value{kind: KindNull} }

// Int 创建整型参数。
func Int(v int) Value { return Value{kind: KindInt, num: int64(v)} }

// Long 创建长整型参数。
func Long(v int64) Value { return Value{kind: KindLong, num: v} }

// Double 创建浮点型参数。
func Double(v float64) Value { return Value{kind: KindDouble, flt: v} }

// Text 创建文本参数。
func Text(v string) Value { return Value{kind: KindText, text: v} }

// Clob 创建大文本参数。
func Clob(v []byte) Value { return Value{kind: KindClob, raw: v} }

// Blob 创建二进制参数。
func Blob(v []byte) Value { return Value{kind: KindBlob, raw: v} }

// LongOf 将可空的长整型转换为参数，nil 转换为空值。
func LongOf(v *int64) Value {
	if v == nil {
		return Null()
	}
	return Long(*v)
}

// TextOf 将可空的文本转换为参数，nil 转换为空值。
func TextOf(v *string) Value {
	if v == nil {
		return Null()
	}
	return Text(*v)
}

// Kind 返回参数类型。
func (v Value) Kind() Kind { return v.kind }

// IsNull 判断参数是否为空值。
func (v Value) IsNull() bool { return v.kind == KindNull }

// IsBlank 判断参数是否为空值或去除空白后为空的文本。
func (v Value) IsBlank() bool {
	switch v.kind {
	case KindNull:
		return true
	case KindText:
		return strings.TrimSpace(v.text) == ""
	case KindClob:
		return strings.TrimSpace(string(v.raw)) == ""
	}
	return false
}

// Arg 返回传递给驱动的参数值。
func (v Value) Arg() any {
	switch v.kind {
	case KindInt, KindLong:
		return v.num
	case KindDouble:
		return v.flt
	case KindText:
		return v.text
	case KindClob:
		return string(v.raw)
	case KindBlob:
		return v.raw
	}
	return nil
}

// trim 去除文本参数两端的空白。
func (v Value) trim() Value {
	switch v.kind {
	case KindText:
		v.text = strings.TrimSpace(v.text)
	case KindClob:
		v.raw = []byte(strings.TrimSpace(string(v.raw)))
	}
	return v
}

// String 返回用于日志的参数描述。
func (v Value) String() string {
	switch v.kind {
	case KindNull:
		return "null"
	case KindInt, KindLong:
		return strconv.FormatInt(v.num, 10)
	case KindDouble:
		return strconv.FormatFloat(v.flt, 'g', -1, 64)
	case KindText:
		return v.text
	case KindClob:
		return string(v.raw)
	case KindBlob:
		return "blob[" + strconv.Itoa(len(v.raw)) + "]"
	}
	return ""
}

// Args 将参数列表转换为驱动参数。
func Args(values []Value) []any {
	args := make([]any, len(values))
	for i, v := range values {
		args[i] = v.Arg()
	}
	return args
}

// NullLong 读取可空的长整型列。
func NullLong(v sql.NullInt64) *int64 {
	if !v.Valid {
		return nil
	}
	n := v.Int64
	return &n
}

// NullInt 读取可空的整型列。
func NullInt(v sql.NullInt32) *int {
	if !v.Valid {
		return nil
	}
	n := int(v.Int32)
	return &n
}

// NullDouble 读取可空的浮点型列。
func NullDouble(v sql.NullFloat64) *float64 {
	if !v.Valid {
		return nil
	}
	n := v.Float64
	return &n
}

// NullText 读取可空的文本列，大文本列同样适用。
func NullText(v sql.NullString) *string {
	if !v.Valid {
		return nil
	}
	s := v.String
	return &s
}
