package routes

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/proske/proske-backend/internal/app/controllers"
	"github.com/proske/proske-backend/internal/app/models"
	"github.com/proske/proske-backend/internal/middleware"
	"github.com/proske/proske-backend/internal/pkg/auth"
	"github.com/proske/proske-backend/internal/pkg/websocket"
)

// SetupRoutes registers every API endpoint under /api/v1
func SetupRoutes(
	router *gin.Engine,
	ctrls *controllers.Controllers,
	wsHandler *websocket.Handler,
	jwtService *auth.JWTService,
) {
	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	v1 := router.Group("/api/v1")

	authGroup := v1.Group("/auth")
	{
		authGroup.POST("/register", ctrls.Auth.Register)
		authGroup.POST("/login", ctrls.Auth.Login)
		authGroup.POST("/refresh", ctrls.Auth.RefreshToken)
	}

	// Everything below requires a valid access token
	protected := v1.Group("")
	protected.Use(middleware.JWTAuth(jwtService))

	protected.POST("/auth/logout", ctrls.Auth.Logout)
	protected.PUT("/auth/password", ctrls.Auth.ChangePassword)

	profile := protected.Group("/profile/me")
	{
		profile.GET("", ctrls.Profile.GetMe)
		profile.PUT("", ctrls.Profile.UpdateMe)
		profile.POST("/avatar", ctrls.Profile.UploadAvatar)
		profile.DELETE("/avatar", ctrls.Profile.DeleteAvatar)
	}

	communities := protected.Group("/communities")
	{
		communities.POST("", ctrls.Community.Create)
		communities.GET("", ctrls.Community.List)
		communities.GET("/joined", ctrls.Community.ListJoined)
		communities.GET("/:id", ctrls.Community.Get)
		communities.PUT("/:id", ctrls.Community.Update)
		communities.DELETE("/:id", ctrls.Community.Delete)
		communities.POST("/:id/cover", ctrls.Community.UploadCover)
		communities.POST("/:id/join", ctrls.Community.Join)
		communities.POST("/:id/leave", ctrls.Community.Leave)
		communities.GET("/:id/members", ctrls.Community.GetMembers)
		communities.DELETE("/:id/members/:userId", ctrls.Community.RemoveMember)

		communities.POST("/:id/invites", ctrls.Community.CreateInvite)
		communities.GET("/:id/invites", ctrls.Community.ListInvites)
		communities.DELETE("/:id/invites/:inviteId", ctrls.Community.DeleteInvite)

		communities.POST("/:id/groups", ctrls.Group.Create)
		communities.GET("/:id/groups", ctrls.Group.List)

		communities.GET("/:id/messages", ctrls.Message.ListCommunityFeed)

		communities.POST("/:id/courses", ctrls.Course.Create)
		communities.GET("/:id/courses", ctrls.Course.List)

		communities.POST("/:id/events", ctrls.Event.Create)
		communities.GET("/:id/events", ctrls.Event.List)

		communities.POST("/:id/submissions", ctrls.Submission.Create)
		communities.GET("/:id/submissions", ctrls.Submission.List)
	}

	protected.POST("/invites/redeem", ctrls.Community.RedeemInvite)

	groups := protected.Group("/groups/:id")
	{
		groups.GET("", ctrls.Group.Get)
		groups.PUT("", ctrls.Group.Update)
		groups.DELETE("", ctrls.Group.Delete)
		groups.GET("/members", ctrls.Group.GetMembers)
		groups.POST("/members", ctrls.Group.AddMember)
		groups.DELETE("/members/:userId", ctrls.Group.RemoveMember)

		groups.POST("/messages", ctrls.Message.Send)
		groups.GET("/messages", ctrls.Message.ListGroup)
		groups.GET("/ws", wsHandler.HandleConnection)
	}

	protected.DELETE("/messages/:id", ctrls.Message.Delete)

	courses := protected.Group("/courses/:id")
	{
		courses.GET("", ctrls.Course.Get)
		courses.PUT("", ctrls.Course.Update)
		courses.DELETE("", ctrls.Course.Delete)
		courses.POST("/modules", ctrls.Course.CreateModule)
		courses.GET("/progress", ctrls.Course.GetCourseProgress)
		courses.GET("/progress/lessons", ctrls.Course.ListCourseProgress)
	}

	modules := protected.Group("/modules/:id")
	{
		modules.PUT("", ctrls.Course.UpdateModule)
		modules.DELETE("", ctrls.Course.DeleteModule)
		modules.POST("/lessons", ctrls.Course.CreateLesson)
	}

	lessons := protected.Group("/lessons/:id")
	{
		lessons.GET("", ctrls.Course.GetLesson)
		lessons.PUT("", ctrls.Course.UpdateLesson)
		lessons.DELETE("", ctrls.Course.DeleteLesson)
		lessons.PUT("/progress", ctrls.Course.SetProgress)
	}

	events := protected.Group("/events/:id")
	{
		events.GET("", ctrls.Event.Get)
		events.PUT("", ctrls.Event.Update)
		events.DELETE("", ctrls.Event.Delete)
		events.POST("/respond", ctrls.Event.Respond)
		events.POST("/complete", ctrls.Event.CompleteStudy)
		events.POST("/reschedule", ctrls.Event.RescheduleStudy)
	}

	submissions := protected.Group("/submissions/:id")
	{
		submissions.GET("", ctrls.Submission.Get)
		submissions.DELETE("", ctrls.Submission.Delete)
		submissions.POST("/review", ctrls.Submission.Review)
	}

	plans := protected.Group("/plans")
	{
		plans.GET("", ctrls.Subscription.ListPlans)
		plans.GET("/:id", ctrls.Subscription.GetPlan)
		plans.POST("", ctrls.Subscription.CreatePlan)
		plans.PUT("/:id", ctrls.Subscription.UpdatePlan)
	}

	subscriptions := protected.Group("/subscriptions")
	{
		subscriptions.GET("/me", ctrls.Subscription.ListMine)
		subscriptions.GET("/me/active", ctrls.Subscription.GetMyActive)
		subscriptions.POST("/assign", ctrls.Subscription.AssignPlan)

		managed := subscriptions.Group("/users/:userId")
		managed.Use(middleware.RoleRequired(models.RoleTeacher, models.RoleAdmin))
		{
			managed.GET("", ctrls.Subscription.ListForUser)
			managed.DELETE("", ctrls.Subscription.Cancel)
		}
	}

	payments := protected.Group("/payments")
	{
		payments.POST("", ctrls.Payment.Create)
		payments.GET("", ctrls.Payment.List)
		payments.GET("/summary", ctrls.Payment.Summary)
		payments.GET("/:id", ctrls.Payment.Get)
		payments.PUT("/:id/status", ctrls.Payment.UpdateStatus)
		payments.DELETE("/:id", ctrls.Payment.Delete)
	}

	tags := protected.Group("/tags")
	{
		tags.POST("", ctrls.Tag.CreateTag)
		tags.GET("", ctrls.Tag.ListTags)
		tags.PUT("/:id", ctrls.Tag.UpdateTag)
		tags.DELETE("/:id", ctrls.Tag.DeleteTag)
	}

	protected.GET("/users/:userId/tags", ctrls.Tag.GetUserTags)
	protected.PUT("/users/:userId/tags", ctrls.Tag.SetUserTags)

	leads := protected.Group("/leads")
	{
		leads.POST("", ctrls.Tag.CreateLead)
		leads.GET("", ctrls.Tag.ListLeads)
		leads.GET("/:id", ctrls.Tag.GetLead)
		leads.PUT("/:id", ctrls.Tag.UpdateLead)
		leads.DELETE("/:id", ctrls.Tag.DeleteLead)
	}
}
