package handler

import (
	"bytes"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

func TestGroupHandlerGetRejectsBadPathID(t *testing.T) {
	gin.SetMode(gin.TestMode)
	handler := NewGroupHandler(nil)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	req, _ := http.NewRequest(http.MethodGet, "/groups/abc", nil)
	c.Request = req
	c.Params = gin.Params{{Key: "id", Value: "abc"}}

	handler.Get(c)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestGroupHandlerCreateRejectsInvalidBody(t *testing.T) {
	gin.SetMode(gin.TestMode)
	handler := NewGroupHandler(nil)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	req, _ := http.NewRequest(http.MethodPost, "/groups", bytes.NewReader([]byte(`{"subjectId": "not-a-number"}`)))
	req.Header.Set("Content-Type", "application/json")
	c.Request = req

	handler.Create(c)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestGroupHandlerListRequiresCycleID(t *testing.T) {
	gin.SetMode(gin.TestMode)
	handler := NewGroupHandler(nil)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	req, _ := http.NewRequest(http.MethodGet, "/groups", nil)
	c.Request = req

	handler.ListByCycle(c)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}
