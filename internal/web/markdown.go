package web

import (
	"bytes"
	"html/template"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/yuin/goldmark"
	emoji "github.com/yuin/goldmark-emoji"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/renderer/html"

	"timepick-cli/internal/docs"
)

var markdownRenderer = goldmark.New(
	goldmark.WithExtensions(
		extension.GFM,
		emoji.Emoji,
	),
	// Raw HTML passthrough stays disabled (no html.WithUnsafe).
	goldmark.WithRendererOptions(
		html.WithHardWraps(),
	),
)

func renderMarkdownHTML(src string) template.HTML {
	src = strings.TrimSpace(src)
	if src == "" {
		return template.HTML("")
	}
	var b bytes.Buffer
	if err := markdownRenderer.Convert([]byte(src), &b); err != nil {
		return template.HTML("<pre>" + template.HTMLEscapeString(src) + "</pre>")
	}
	return template.HTML(b.String())
}

var docsPage = template.Must(template.New("docs").Parse(`<!doctype html>
<html lang="en">
<head>
<meta charset="utf-8">
<title>timepick · {{.Topic}}</title>
</head>
<body>
<nav>{{range .Topics}}<a href="/docs/{{.}}">{{.}}</a> {{end}}</nav>
<main>{{.Body}}</main>
</body>
</html>
`))

type docsPageData struct {
	Topic  string
	Topics []string
	Body   template.HTML
}

func (s *Server) docs(c *gin.Context) {
	topic := c.Param("topic")
	if topic == "" {
		topic = "overview"
	}
	md, ok := docs.Get(topic)
	if !ok {
		abortErr(c, http.StatusNotFound, "unknown docs topic: "+topic)
		return
	}
	var b bytes.Buffer
	if err := docsPage.Execute(&b, docsPageData{Topic: topic, Topics: docs.Topics(), Body: renderMarkdownHTML(md)}); err != nil {
		abortErr(c, http.StatusInternalServerError, "render failed")
		return
	}
	c.Data(http.StatusOK, "text/html; charset=utf-8", b.Bytes())
}
