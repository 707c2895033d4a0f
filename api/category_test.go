package api

import (
	"encoding/json"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCategoryHandler_List(t *testing.T) {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.GET("/categories", NewCategoryHandler().List)

	req := httptest.NewRequest("GET", "/categories", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, 200, w.Code)
	var resp map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	list := resp["data"].([]interface{})
	assert.Len(t, list, 17)

	// 旅費にはサブ科目の選択肢がある
	var travel map[string]interface{}
	for _, item := range list {
		c := item.(map[string]interface{})
		if c["name"] == "旅費" {
			travel = c
			break
		}
	}
	require.NotNil(t, travel)
	subs := travel["subcategories"].([]interface{})
	assert.Contains(t, subs, "電車")
	assert.Contains(t, subs, "宿泊費")
}
