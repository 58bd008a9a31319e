/* result_page.go
 * Contains the public result page that share links point at. The page carries Open Graph and Farcaster frame meta
 * tags so the link renders as a card in social clients.
 */

package web

import (
	"html/template"
	"net/http"
	"strings"

	"l2match/api/logic"

	"github.com/gin-gonic/gin"
)

const resultTemplateName = "result"

var resultTemplate = template.Must(template.New(resultTemplateName).Parse(`<!DOCTYPE html>
<html lang="en">
<head>
<meta charset="utf-8">
<title>Your Layer 2 Match</title>
<meta property="og:title" content="Your Layer 2 Match">
<meta property="og:description" content="Your L2 match is {{.Display}}: {{.Description}}! Share with friends!">
<meta property="og:type" content="website">
<meta property="og:url" content="{{.URL}}">
<meta property="og:image" content="{{.BaseURL}}/logo.png">
<meta name="fc:frame" content="vNext">
<meta name="fc:frame:image" content="{{.BaseURL}}/splashImageUrl.png">
<meta name="fc:frame:button:1" content="Share Result">
<meta name="fc:frame:button:1:action" content="post">
<meta name="fc:frame:button:1:target" content="{{.URL}}">
</head>
<body>
<h1>Your Layer 2 Match</h1>
<p>{{.Display}}: {{.Description}}</p>
<p>Share this result with your friends!</p>
</body>
</html>
`))

// resultPage is the data rendered into the result template
type resultPage struct {
	Display     string
	Description string
	URL         string
	BaseURL     string
}

// GetResultPage renders the result page for the score query parameter, base when absent
func (s *Server) GetResultPage(c *gin.Context) {
	slug := c.DefaultQuery("score", logic.DefaultSlug)
	display, description := logic.DescribeSlug(slug)
	base := strings.TrimRight(s.api.BaseURL, "/")

	c.HTML(http.StatusOK, resultTemplateName, resultPage{
		Display:     display,
		Description: description,
		URL:         base + "/result?score=" + template.URLQueryEscaper(slug),
		BaseURL:     base,
	})
}
