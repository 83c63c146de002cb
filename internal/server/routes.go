package server

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

func (s *Server) setupRoutes(assets http.FileSystem) {
	r := s.engine

	r.Use(requestLogger(s.log))
	r.Use(recovery(s.log))

	r.StaticFS("/static", assets)
	r.GET("/health", func(c *gin.Context) {
		c.String(http.StatusOK, ".")
	})

	site := r.Group("/")
	site.Use(s.visitorCookie())
	site.Use(s.visitorTracking())
	{
		// Home page route
		site.GET("/", s.handleIndex)

		// HTMX contact form endpoints; both return just the form fragment
		site.GET("/contact", s.handleContactForm)
		site.POST("/contact", s.handleContactSubmit)
	}

	s.setupAdminRoutes(r)

	r.NoRoute(func(c *gin.Context) {
		c.Redirect(http.StatusMovedPermanently, "/")
	})
}
