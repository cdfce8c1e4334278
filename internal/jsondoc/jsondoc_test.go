package jsondoc

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

// TestRenderFlatDocument 测试扁平文档的渲染与键顺序
func TestRenderFlatDocument(t *testing.T) {
	doc := New().
		Add("id", int64(6)).
		Add("content", "hello")

	assert.Equal(t, `{"id":6,"content":"hello"}`, doc.Render())
}

// TestRenderPreservesInsertionOrder 测试键按插入顺序输出而不是字典序
func TestRenderPreservesInsertionOrder(t *testing.T) {
	doc := New().
		Add("zebra", int64(1)).
		Add("apple", int64(2)).
		Add("mango", int64(3))

	assert.Equal(t, `{"zebra":1,"apple":2,"mango":3}`, doc.Render())
}

// TestRenderDuplicateKeyKeepsFirstPosition 测试重复键保留首次出现的位置但更新值
func TestRenderDuplicateKeyKeepsFirstPosition(t *testing.T) {
	doc := New().
		Add("a", int64(1)).
		Add("b", int64(2)).
		Add("a", int64(9))

	assert.Equal(t, `{"a":9,"b":2}`, doc.Render())
}

// TestRenderNestedDocument 测试嵌套文档与文档列表
func TestRenderNestedDocument(t *testing.T) {
	inner := New().Add("id", int64(1)).Add("name", "USER")
	doc := New().
		Add("id", int64(5)).
		Add("roles", []*Document{inner})

	assert.Equal(t, `{"id":5,"roles":[{"id":1,"name":"USER"}]}`, doc.Render())
}

// TestRenderScalars 测试各种标量的渲染
func TestRenderScalars(t *testing.T) {
	doc := New().
		Add("likes", int64(3)).
		Add("isLiked", true).
		Add("tags", []string{"tag1", "tag2"})

	assert.Equal(t, `{"likes":3,"isLiked":true,"tags":["tag1","tag2"]}`, doc.Render())
}

// TestRenderEmpty 测试空文档和空列表
func TestRenderEmpty(t *testing.T) {
	assert.Equal(t, `{}`, New().Render())
	assert.Equal(t, `{"posts":[]}`, New().Add("posts", []*Document{}).Render())
	assert.Equal(t, `{"tags":[]}`, New().Add("tags", []string{}).Render())
}

// TestRenderListOfMixedValues 测试通用列表的渲染
func TestRenderListOfMixedValues(t *testing.T) {
	doc := New().Add("values", []interface{}{int64(1), "two"})
	assert.Equal(t, `{"values":[1,"two"]}`, doc.Render())
}
