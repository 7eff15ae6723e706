package server

import (
	_ "embed"
	"net/http"

	"github.com/gin-gonic/gin"
)

//go:embed index.html
var homePage []byte

func (s *Server) handleHome(c *gin.Context) {
	c.Data(http.StatusOK, "text/html; charset=utf-8", homePage)
}
