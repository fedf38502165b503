package router

import (
	"ventlink/internal/handlers"
	"ventlink/internal/middleware"

	"github.com/gin-gonic/gin"
)

// Setup wires every route. Voting and content creation are open to anonymous
// actors; only account endpoints differ by auth state.
func Setup(r *gin.Engine) {
	r.Use(middleware.ResolveIdentity())

	authHandler := handlers.NewAuthHandler()
	postHandler := handlers.NewPostHandler()
	commentHandler := handlers.NewCommentHandler()
	voteHandler := handlers.NewVoteHandler()
	feedHandler := handlers.NewFeedHandler()
	userHandler := handlers.NewUserHandler()
	categoryHandler := handlers.NewCategoryHandler()

	r.POST("/signup", authHandler.Signup)
	r.POST("/login", authHandler.Login)
	r.POST("/logout", authHandler.Logout)

	r.GET("/categories", categoryHandler.List)
	r.GET("/c/:slug/posts", feedHandler.ByCategory)

	r.GET("/feed/new", feedHandler.New)
	r.GET("/feed/hot", feedHandler.Hot)

	r.POST("/posts", postHandler.Create)
	r.GET("/posts/:id", postHandler.Detail)
	r.POST("/posts/:id/comments", commentHandler.Create)
	r.GET("/posts/:id/comments", commentHandler.List)

	r.POST("/vote", voteHandler.Cast)
	r.GET("/vote/:type/:id", voteHandler.Status)

	r.GET("/users/:id/karma", userHandler.Karma)
}
