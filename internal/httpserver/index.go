package httpserver

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

const indexHTML = `<!DOCTYPE html>
<html>
<head><meta charset="utf-8"><title>Slow Query Log Parser</title></head>
<body>
<h1>Slow Query Log Parser</h1>
<h2>MongoDB JSON log</h2>
<form action="/api/mongo/report" method="post" enctype="multipart/form-data">
  <input type="file" name="file" accept=".log,.json,.txt">
  <button type="submit">Download Excel Report</button>
</form>
<h2>MySQL slow-query log</h2>
<form action="/api/mysql/report" method="post" enctype="multipart/form-data">
  <input type="file" name="file" accept=".log,.txt">
  <button type="submit">Download Excel Report</button>
</form>
</body>
</html>
`

func (s *Server) handleIndex(c *gin.Context) {
	c.Data(http.StatusOK, "text/html; charset=utf-8", []byte(indexHTML))
}
