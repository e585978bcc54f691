package main

import (
	"log"
	"os"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"github.com/kataras/iris/v12"
	"github.com/kataras/iris/v12/middleware/jwt"

	"miami-getaway-server/routes"
	"miami-getaway-server/services"
	"miami-getaway-server/storage"
	"miami-getaway-server/utils"
)

func main() {
	godotenv.Load()
	storage.InitializeDB()
	storage.InitializeRedis()
	storage.InitializeImages()

	routes.Notifications = services.DefaultNotificationService()

	app := iris.New()
	app.Validator = validator.New()

	// CORS for the dashboard and the public site
	app.AllowMethods(iris.MethodOptions)
	app.UseRouter(func(ctx iris.Context) {
		ctx.Header("Access-Control-Allow-Origin", ctx.GetHeader("Origin"))
		ctx.Header("Vary", "Origin")
		ctx.Header("Access-Control-Allow-Credentials", "true")
		ctx.Header("Access-Control-Allow-Headers", "Authorization, Content-Type, X-Requested-With")
		ctx.Header("Access-Control-Allow-Methods", "GET,POST,PATCH,PUT,DELETE,OPTIONS")
		if ctx.Method() == iris.MethodOptions {
			ctx.StatusCode(iris.StatusNoContent)
			return
		}
		ctx.Next()
	})

	app.Use(iris.Compression)

	accessTokenVerifier := jwt.NewVerifier(jwt.HS256, []byte(os.Getenv("ACCESS_TOKEN_SECRET")))
	accessTokenVerifier.WithDefaultBlocklist()
	accessTokenVerifierMiddleware := accessTokenVerifier.Verify(func() interface{} {
		return new(utils.AccessToken)
	})

	refreshTokenVerifier := jwt.NewVerifier(jwt.HS256, []byte(os.Getenv("REFRESH_TOKEN_SECRET")))
	refreshTokenVerifier.WithDefaultBlocklist()
	refreshTokenVerifierMiddleware := refreshTokenVerifier.Verify(func() interface{} {
		return new(jwt.Claims)
	})
	refreshTokenVerifier.Extractors = append(refreshTokenVerifier.Extractors, func(ctx iris.Context) string {
		var tokenInput utils.RefreshTokenInput
		if err := ctx.ReadJSON(&tokenInput); err != nil {
			return ""
		}
		return tokenInput.RefreshToken
	})

	user := app.Party("/api/user")
	{
		user.Post("/register", routes.Register)
		user.Post("/login", routes.Login)
		user.Post("/refresh", refreshTokenVerifierMiddleware, utils.RefreshToken)
	}

	// Public booking site surface
	apartments := app.Party("/api/apartments")
	{
		apartments.Get("/", routes.GetApartments)
		apartments.Get("/{id:uint}", routes.GetApartment)
		apartments.Get("/{id:uint}/availability", routes.GetApartmentAvailability)
		apartments.Get("/{id:uint}/reviews", routes.ListApartmentReviews)
		apartments.Post("/{id:uint}/reviews", routes.CreateApartmentReview)
	}
	for path, serviceType := range map[string]string{
		"/api/cars":   "car",
		"/api/yachts": "yacht",
		"/api/villas": "villa",
		"/api/units":  "apartment",
	} {
		catalog := app.Party(path, routes.ServiceTypeMiddleware(serviceType))
		catalog.Get("/", routes.ListServiceItems)
		catalog.Get("/{id:uint}", routes.GetServiceItem)
		catalog.Post("/", accessTokenVerifierMiddleware, utils.AdminOnlyMiddleware, routes.CreateServiceItem)
		catalog.Put("/{id:uint}", accessTokenVerifierMiddleware, utils.AdminOnlyMiddleware, routes.UpdateServiceItem)
		catalog.Delete("/{id:uint}", accessTokenVerifierMiddleware, utils.AdminOnlyMiddleware, routes.DeleteServiceItem)
	}

	// Back office
	reservations := app.Party("/api/reservations", accessTokenVerifierMiddleware, utils.AdminOnlyMiddleware)
	{
		reservations.Get("/", routes.GetReservations)
		reservations.Post("/", routes.CreateReservation)
		reservations.Get("/{id:uint}", routes.GetReservation)
		reservations.Put("/{id:uint}", routes.UpdateReservation)
		reservations.Delete("/{id:uint}", routes.DeleteReservation)
		reservations.Patch("/{id:uint}/fees", routes.UpdateReservationFees)
		reservations.Patch("/{id:uint}/payment-status", routes.UpdateReservationPaymentStatus)
		reservations.Patch("/{id:uint}/status", routes.UpdateReservationStatus)
		reservations.Post("/{id:uint}/payments", routes.RegisterPayment)
		reservations.Get("/{id:uint}/payments", routes.GetReservationPayments)
		reservations.Post("/{id:uint}/pdf", routes.GetReservationPDF)
		reservations.Post("/{id:uint}/send-confirmation", routes.SendReservationNotification)
		reservations.Get("/{id:uint}/notifications", routes.GetReservationNotifications)
	}

	adminApartments := app.Party("/api/admin-apartments", accessTokenVerifierMiddleware, utils.AdminOnlyMiddleware)
	{
		adminApartments.Get("/", routes.AdminListApartments)
		adminApartments.Post("/", routes.CreateApartment)
		adminApartments.Post("/upload", routes.UploadImage)
		adminApartments.Put("/{id:uint}", routes.UpdateApartment)
		adminApartments.Delete("/{id:uint}", routes.DeleteApartment)
		adminApartments.Post("/{id:uint}/blocks", routes.CreateApartmentBlock)
		adminApartments.Delete("/{id:uint}/blocks/{blockID:uint}", routes.DeleteApartmentBlock)
	}

	users := app.Party("/api/users", accessTokenVerifierMiddleware, utils.AdminOnlyMiddleware)
	{
		users.Get("/", routes.GetUsers)
		users.Post("/", routes.CreateUser)
		users.Get("/{id:uint}", routes.GetUser)
		users.Put("/{id:uint}", routes.UpdateUser)
		users.Delete("/{id:uint}", routes.DeleteUser)
	}

	summaries := app.Party("/api/summaries", accessTokenVerifierMiddleware, utils.AdminOnlyMiddleware)
	{
		summaries.Post("/generate", routes.GenerateSummary)
		summaries.Get("/", routes.ListSummaries)
		summaries.Get("/{month:int}/{year:int}", routes.GetSummary)
		summaries.Post("/{id:uint}/pdf", routes.GetSummaryPDF)
		summaries.Post("/{id:uint}/email", routes.EmailSummary)
	}

	admin := app.Party("/api/admin", accessTokenVerifierMiddleware, utils.AdminOnlyMiddleware)
	{
		admin.Get("/stats", routes.AdminStats)
		admin.Get("/activity", routes.AdminActivity)
		admin.Delete("/reviews/{id:uint}", routes.DeleteReview)
		admin.Post("/export", utils.SuperAdminOnlyMiddleware, routes.AdminCreateExport)
		admin.Get("/export/{id:string}", utils.SuperAdminOnlyMiddleware, routes.AdminGetExport)
	}

	port := os.Getenv("PORT")
	if port == "" {
		port = "4000"
	}
	log.Printf("starting server on :%s", port)
	app.Listen(":" + port)
}
