/* router.go
 * Contains the route table of the frame server
 */

package web

import (
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

// NewRouter builds the gin engine serving the frame API and the result page
func NewRouter(cfg Config) *gin.Engine {
	s := &Server{api: cfg.API}

	r := gin.Default()

	origins := cfg.AllowedOrigins
	if len(origins) == 0 {
		origins = []string{"*"}
	}
	r.Use(cors.New(cors.Config{
		AllowOrigins:     origins,
		AllowMethods:     []string{"GET", "POST", "OPTIONS"},
		AllowHeaders:     []string{"Content-Type", "Content-Length", "Accept", "Origin", SessionHeader},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: !containsWildcard(origins),
		MaxAge:           12 * time.Hour,
	}))
	r.SetHTMLTemplate(resultTemplate)

	r.GET("/healthz", s.GetHealth)
	r.GET("/result", s.GetResultPage)

	quiz := r.Group("/api/quiz")
	{
		quiz.GET("", s.GetQuiz)
		quiz.POST("/answer", s.PostAnswer)
		quiz.POST("/reset", s.PostReset)
	}

	theme := r.Group("/api/theme")
	{
		theme.GET("", s.GetTheme)
		theme.POST("/toggle", s.PostToggleTheme)
	}

	r.GET("/api/share", s.GetShare)

	result := r.Group("/api/result")
	{
		result.POST("/record", s.PostRecord)
		result.POST("/send", s.PostSend)
	}

	return r
}

func containsWildcard(origins []string) bool {
	for _, o := range origins {
		if o == "*" {
			return true
		}
	}
	return false
}
