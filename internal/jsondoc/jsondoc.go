// Package jsondoc 提供保持插入顺序的 JSON 文档构建与渲染。
// 响应字段顺序是对外契约的一部分，encoding/json 的 map 无法保证顺序，
// 所以这里用有序键值树加一个递归渲染器。
package jsondoc

import (
	"fmt"
	"strings"
)

// Document 是一个保持键插入顺序的嵌套映射
type Document struct {
	keys   []string
	values map[string]interface{}
}

// New 创建一个空的 Document
func New() *Document {
	return &Document{
		values: make(map[string]interface{}),
	}
}

// Add 按插入顺序添加一个键值对；键重复时保留首次出现的位置
func (d *Document) Add(key string, value interface{}) *Document {
	if _, ok := d.values[key]; !ok {
		d.keys = append(d.keys, key)
	}
	d.values[key] = value
	return d
}

// Render 把文档渲染为规范文本。
// 映射渲染为 {...}，列表渲染为 [...]，字符串加引号（不转义内嵌引号，
// 这是继承下来的已知限制），其余标量用其自然文本形式。
func (d *Document) Render() string {
	var b strings.Builder
	renderValue(&b, d)
	return b.String()
}

func (d *Document) String() string {
	return d.Render()
}

func renderValue(b *strings.Builder, value interface{}) {
	switch v := value.(type) {
	case *Document:
		b.WriteString("{")
		for i, key := range v.keys {
			if i > 0 {
				b.WriteString(",")
			}
			b.WriteString("\"")
			b.WriteString(key)
			b.WriteString("\":")
			renderValue(b, v.values[key])
		}
		b.WriteString("}")
	case []*Document:
		renderList(b, len(v), func(i int) interface{} { return v[i] })
	case []interface{}:
		renderList(b, len(v), func(i int) interface{} { return v[i] })
	case []string:
		renderList(b, len(v), func(i int) interface{} { return v[i] })
	case string:
		b.WriteString("\"")
		b.WriteString(v)
		b.WriteString("\"")
	default:
		fmt.Fprintf(b, "%v", v)
	}
}

func renderList(b *strings.Builder, n int, at func(int) interface{}) {
	b.WriteString("[")
	for i := 0; i < n; i++ {
		if i > 0 {
			b.WriteString(",")
		}
		renderValue(b, at(i))
	}
	b.WriteString("]")
}
