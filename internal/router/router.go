package router

import (
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/quizdeck-dev/quizdeck/internal/handlers"
)

type Handlers struct {
	Auth          *handlers.AuthHandler
	Users         *handlers.UserHandler
	Companies     *handlers.CompanyHandler
	Memberships   *handlers.MembershipHandler
	Quizzes       *handlers.QuizHandler
	Submissions   *handlers.SubmissionHandler
	Notifications *handlers.NotificationHandler
}

func NewRouter(h Handlers, authRequired gin.HandlerFunc, allowedOrigins []string) *gin.Engine {
	r := gin.Default()

	r.Use(cors.New(cors.Config{
		AllowOrigins:     allowedOrigins,
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "HEAD", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Length", "Content-Type", "Authorization", "Accept", "X-Requested-With"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	api := r.Group("/api")
	{
		api.GET("/health", handlers.HealthCheck)

		api.POST("/users", h.Auth.SignUp)
		api.POST("/token", h.Auth.Login)
		api.GET("/me", authRequired, h.Auth.Me)

		// Self-scoped views
		api.GET("/me/invitations", authRequired, h.Memberships.MyInvitations)
		api.GET("/me/requests", authRequired, h.Memberships.MyRequests)
		api.GET("/me/rating", authRequired, h.Submissions.MyRating)
		api.GET("/me/quizzes", authRequired, h.Submissions.MySubmittedQuizzes)
		api.GET("/me/quizzes/:quiz_id/answers", authRequired, h.Submissions.MyQuizAnswers)

		users := api.Group("/users", authRequired)
		{
			users.GET("", h.Users.List)
			users.GET("/:user_id", h.Users.Get)
			users.PATCH("/:user_id", h.Users.Update)
			users.DELETE("/:user_id", h.Users.Delete)
		}

		companies := api.Group("/companies")
		{
			companies.GET("", h.Companies.List)
			companies.GET("/:company_id", h.Companies.Get)

			authed := companies.Group("", authRequired)
			{
				authed.POST("", h.Companies.Create)
				authed.PATCH("/:company_id", h.Companies.Update)
				authed.DELETE("/:company_id", h.Companies.Delete)

				// Invitations
				authed.POST("/:company_id/invite/:user_id", h.Memberships.Invite)
				authed.POST("/:company_id/accept", h.Memberships.AcceptInvitation)
				authed.POST("/:company_id/reject", h.Memberships.RejectInvitation)
				authed.DELETE("/:company_id/cancel_invitation/:user_id", h.Memberships.CancelInvitation)

				// Membership management
				authed.DELETE("/:company_id/delete/:user_id", h.Memberships.RemoveMember)
				authed.POST("/:company_id/exit", h.Memberships.Exit)
				authed.POST("/:company_id/promote-user-to-admin/:user_id", h.Memberships.Promote)
				authed.POST("/:company_id/demote-admin-to-user/:user_id", h.Memberships.Demote)

				// Listings
				authed.GET("/:company_id/invited-users", h.Memberships.InvitedUsers)
				authed.GET("/:company_id/requested-users", h.Memberships.RequestedUsers)
				authed.GET("/:company_id/members", h.Memberships.Members)
				authed.GET("/:company_id/admins", h.Memberships.Admins)

				// Quiz management is company-scoped on the way in
				authed.POST("/:company_id/quizzes", h.Quizzes.Create)
				authed.GET("/:company_id/quizzes", h.Quizzes.List)
			}
		}

		// Join requests
		joinRequests := api.Group("", authRequired)
		{
			joinRequests.POST("/send-join-request/:company_id", h.Memberships.SendJoinRequest)
			joinRequests.DELETE("/cancel-join-request/:company_id", h.Memberships.CancelJoinRequest)
			joinRequests.POST("/accept-join-request/:company_id/:user_id", h.Memberships.AcceptJoinRequest)
			joinRequests.POST("/reject-join-request/:company_id/:user_id", h.Memberships.RejectJoinRequest)
		}

		quizzes := api.Group("/quizzes", authRequired)
		{
			quizzes.GET("/:quiz_id", h.Quizzes.Get)
			quizzes.GET("/:quiz_id/full", h.Quizzes.GetFull)
			quizzes.GET("/:quiz_id/questions", h.Quizzes.Questions)
			quizzes.PATCH("/:quiz_id/update", h.Quizzes.Update)
			quizzes.DELETE("/:quiz_id/delete", h.Quizzes.Delete)
		}

		api.GET("/questions/:question_id/answers", authRequired, h.Quizzes.QuestionAnswers)

		company := api.Group("/company", authRequired)
		{
			company.POST("/:company_id/quizzes/:quiz_id/start", h.Submissions.Submit)
			company.GET("/:company_id/quizzes/:quiz_id/results", h.Submissions.QuizResult)
			company.GET("/:company_id/user/:user_id/average-mark-from-quizzes", h.Submissions.UserAverageMarkInCompany)
		}

		api.GET("/users/:user_id/average-mark-from-quizzes", authRequired, h.Submissions.UserAverageMark)
		api.GET("/get-results-of-user-in-company/:company_id/:user_id", authRequired, h.Submissions.ResultsOfUserInCompany)
		api.GET("/get-results-of-all-users-in-company/:company_id", authRequired, h.Submissions.ResultsOfAllUsersInCompany)
		api.GET("/get-saved-results-redis/:key", authRequired, h.Submissions.CachedSubmission)
		api.GET("/cached-submissions/:user_id/:quiz_id", authRequired, h.Submissions.CachedUserQuizAnswers)

		notifications := api.Group("/notifications", authRequired)
		{
			notifications.GET("", h.Notifications.List)
			notifications.POST("/:notification_id/read", h.Notifications.MarkRead)
		}
	}

	return r
}
