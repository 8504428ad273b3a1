package main

import (
	"log"
	"os"
	"strconv"

	"github.com/brendonmuneatgmaildotcom/limestone-studio/routes"
	"github.com/brendonmuneatgmaildotcom/limestone-studio/services"
	"github.com/brendonmuneatgmaildotcom/limestone-studio/storage"
	"github.com/brendonmuneatgmaildotcom/limestone-studio/utils"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"github.com/kataras/iris/v12"
)

func main() {
	godotenv.Load()
	db := storage.InitializeDB()
	storage.InitializeRedis()

	app := iris.New()
	app.Validator = validator.New()

	app.AllowMethods(iris.MethodOptions)
	app.UseRouter(func(ctx iris.Context) {
		ctx.Header("Access-Control-Allow-Origin", ctx.GetHeader("Origin"))
		ctx.Header("Vary", "Origin")
		ctx.Header("Access-Control-Allow-Credentials", "true")
		ctx.Header("Access-Control-Allow-Headers", "Authorization, Content-Type, X-Requested-With, X-Admin-Secret")
		ctx.Header("Access-Control-Allow-Methods", "GET,POST,OPTIONS")
		if ctx.Method() == iris.MethodOptions {
			ctx.StatusCode(iris.StatusNoContent)
			return
		}
		ctx.Next()
	})

	app.Use(iris.Compression)

	nightlyRate := 160.0
	if v := os.Getenv("NIGHTLY_RATE_NZD"); v != "" {
		rate, err := strconv.ParseFloat(v, 64)
		if err != nil {
			log.Panic("invalid NIGHTLY_RATE_NZD: " + v)
		}
		nightlyRate = rate
	}

	baseURL := os.Getenv("BASE_URL")
	if baseURL == "" {
		baseURL = "https://www.limestonestudio.co.nz"
	}

	store := services.NewGormBookingStore(db)
	feed := services.NewIcalFeed(os.Getenv("ICAL_FEED_URL"), storage.Redis)
	payments := services.NewStripePayments(os.Getenv("STRIPE_SECRET_KEY"))
	notifier := services.NewOperatorNotifier(os.Getenv("OPS_ALERT_WEBHOOK_URL"))
	recorder := services.NewBookingRecorder(store, notifier)

	availability := &routes.AvailabilityHandler{Store: store, Feed: feed}
	feedProxy := &routes.FeedProxyHandler{Feed: feed}
	checkout := &routes.CheckoutHandler{
		Payments:       payments,
		Store:          store,
		Feed:           feed,
		BaseURL:        baseURL,
		NightlyRateNZD: nightlyRate,
	}
	webhookHandler := routes.NewWebhookHandler(recorder, os.Getenv("STRIPE_WEBHOOK_SECRET"))
	confirm := &routes.ConfirmHandler{Payments: payments, Recorder: recorder}
	bookings := &routes.BookingsHandler{Store: store}

	api := app.Party("/api")
	{
		api.Get("/availability", availability.GetBookedRanges)
		api.Get("/ical", feedProxy.GetFeed)
		api.Post("/checkout", checkout.CreateCheckoutSession)
		api.Post("/stripe-webhook", webhookHandler.HandleStripeWebhook)
		api.Get("/confirm-checkout", confirm.ConfirmCheckout)
		api.Get("/bookings", utils.AdminSecretMiddleware, bookings.ListBookings)
	}

	port := os.Getenv("PORT")
	if port == "" {
		port = "4000"
	}

	app.Listen(":" + port)
}
