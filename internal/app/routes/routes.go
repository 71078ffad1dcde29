package routes

import (
	"github.com/gin-gonic/gin"
	"github.com/yigit/hostelpg/internal/app/controllers"
	"github.com/yigit/hostelpg/internal/middleware"
	"github.com/yigit/hostelpg/internal/pkg/auth"
)

// Controllers groups the HTTP handlers mounted by SetupRouter
type Controllers struct {
	Auth       *controllers.AuthController
	Hostels    *controllers.HostelController
	PGs        *controllers.PGController
	Bookings   *controllers.BookingController
	Students   *controllers.StudentController
	Engagement *controllers.EngagementController
	Admin      *controllers.AdminController
}

// SetupRouter configures all application routes
func SetupRouter(router *gin.Engine, c Controllers, authMiddleware *middleware.AuthMiddleware) {
	// Health check endpoints (public)
	router.GET("/health", c.Admin.HealthCheck)

	api := router.Group("/api")
	api.GET("/health", c.Admin.HealthCheck)

	authenticated := authMiddleware.JWTAuth()
	studentOnly := authMiddleware.RoleRequired(auth.RoleStudent)
	adminOnly := authMiddleware.RoleRequired(auth.RoleAdmin)

	// --- Auth routes ---
	authGroup := api.Group("/auth")
	{
		authGroup.POST("/register", c.Auth.Register)
		authGroup.POST("/login", c.Auth.Login)
		authGroup.POST("/logout", authenticated, c.Auth.Logout)
		authGroup.GET("/profile", authenticated, studentOnly, c.Auth.GetProfile)
		authGroup.PUT("/profile", authenticated, studentOnly, c.Auth.UpdateProfile)
	}

	// --- Hostel routes ---
	hostels := api.Group("/hostels")
	{
		hostels.GET("", c.Hostels.GetAllHostels)
		hostels.GET("/:id", c.Hostels.GetHostelByID)
		hostels.GET("/area/:area", c.Hostels.GetHostelsByArea)
		hostels.GET("/search/:term", c.Hostels.SearchHostels)
		hostels.GET("/areas/list", c.Hostels.GetHostelAreas)
		hostels.POST("/book", authenticated, studentOnly, c.Hostels.BookHostel)

		// Listing management is staff only
		hostels.POST("", authenticated, adminOnly, c.Hostels.CreateHostel)
		hostels.PUT("/:id", authenticated, adminOnly, c.Hostels.UpdateHostel)
		hostels.DELETE("/:id", authenticated, adminOnly, c.Hostels.DeleteHostel)
	}

	// --- PG routes ---
	pgs := api.Group("/pgs")
	{
		pgs.GET("", c.PGs.GetAllPGs)
		pgs.GET("/:id", c.PGs.GetPGByID)
		pgs.GET("/area/:area", c.PGs.GetPGsByArea)
		pgs.GET("/search/:term", c.PGs.SearchPGs)
		pgs.GET("/areas/list", c.PGs.GetPGAreas)
		pgs.GET("/genders/list", c.PGs.GetPGGenders)
		pgs.POST("/book", authenticated, studentOnly, c.PGs.BookPG)

		pgs.POST("", authenticated, adminOnly, c.PGs.CreatePG)
		pgs.PUT("/:id", authenticated, adminOnly, c.PGs.UpdatePG)
		pgs.DELETE("/:id", authenticated, adminOnly, c.PGs.DeletePG)
	}

	// --- Student routes ---
	bookings := api.Group("/bookings", authenticated, studentOnly)
	{
		bookings.POST("", c.Bookings.CreateBooking)
		bookings.GET("/my", c.Bookings.GetMyBookings)
		bookings.PUT("/:type/:id/cancel", c.Bookings.CancelMyBooking)
	}

	reviews := api.Group("/reviews")
	{
		reviews.GET("/:type/:id", c.Engagement.GetPropertyReviews)
		reviews.POST("", authenticated, studentOnly, c.Engagement.SubmitReview)
		reviews.DELETE("/:id", authenticated, studentOnly, c.Engagement.DeleteReview)
	}

	favorites := api.Group("/favorites", authenticated, studentOnly)
	{
		favorites.GET("", c.Engagement.GetFavorites)
		favorites.POST("", c.Engagement.AddFavorite)
		favorites.DELETE("/:type/:id", c.Engagement.RemoveFavorite)
	}

	notifications := api.Group("/notifications", authenticated, studentOnly)
	{
		notifications.GET("", c.Engagement.GetNotifications)
		notifications.PUT("/read-all", c.Engagement.MarkAllNotificationsRead)
		notifications.PUT("/:id/read", c.Engagement.MarkNotificationRead)
	}

	// --- Admin routes ---
	api.POST("/admin/login", c.Auth.AdminLogin)

	admin := api.Group("/admin", authenticated, adminOnly)
	{
		admin.GET("/dashboard", c.Admin.GetDashboard)
		admin.GET("/logs", c.Admin.GetLogs)
		admin.GET("/properties/stats", c.Admin.GetPropertyStats)

		students := admin.Group("/students")
		{
			students.GET("", c.Students.GetStudents)
			students.GET("/stats/overview", c.Students.GetStudentStats)
			students.GET("/:id", c.Students.GetStudent)
			students.GET("/:id/bookings", c.Students.GetStudentBookings)
			students.PUT("/:id", c.Students.UpdateStudent)
			students.DELETE("/:id", c.Students.DeleteStudent)
		}

		adminHostels := admin.Group("/hostels")
		{
			adminHostels.GET("", c.Hostels.AdminGetAllHostels)
			adminHostels.POST("", c.Hostels.CreateHostel)
			adminHostels.GET("/:id", c.Hostels.GetHostelByID)
			adminHostels.PUT("/:id", c.Hostels.UpdateHostel)
			adminHostels.DELETE("/:id", c.Hostels.DeleteHostel)
			adminHostels.POST("/:id/image", c.Hostels.UploadHostelImage)
		}

		adminPGs := admin.Group("/pgs")
		{
			adminPGs.GET("", c.PGs.AdminGetAllPGs)
			adminPGs.POST("", c.PGs.CreatePG)
			adminPGs.GET("/:id", c.PGs.GetPGByID)
			adminPGs.PUT("/:id", c.PGs.UpdatePG)
			adminPGs.DELETE("/:id", c.PGs.DeletePG)
			adminPGs.POST("/:id/image", c.PGs.UploadPGImage)
		}

		// Hostel bookings are called allotments on the staff side
		allotments := admin.Group("/allotments")
		{
			allotments.GET("", c.Bookings.GetAllotments)
			allotments.GET("/stats/overview", c.Bookings.GetAllotmentStats)
			allotments.GET("/:id", c.Bookings.GetAllotment)
			allotments.PUT("/:id/approve", c.Bookings.ApproveAllotment)
			allotments.PUT("/:id/reject", c.Bookings.RejectAllotment)
			allotments.PUT("/:id/cancel", c.Bookings.CancelAllotment)
		}

		adminBookings := admin.Group("/bookings")
		{
			adminBookings.GET("", c.Bookings.GetBookings)
			adminBookings.GET("/stats/overview", c.Bookings.GetBookingStats)
			adminBookings.GET("/:id", c.Bookings.GetBooking)
			adminBookings.PUT("/:id/approve", c.Bookings.ApproveBooking)
			adminBookings.PUT("/:id/reject", c.Bookings.RejectBooking)
			adminBookings.PUT("/:id/cancel", c.Bookings.CancelBooking)
		}

		exports := admin.Group("/export")
		{
			exports.GET("/bookings.xlsx", c.Bookings.ExportBookings)
			exports.GET("/students.xlsx", c.Students.ExportStudents)
		}
	}
}
