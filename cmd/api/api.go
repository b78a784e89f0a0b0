package main

import (
	"context"
	"errors"
	"expvar"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"tashteeb/docs" //this is required to generate swagger docs
	"tashteeb/internal/cache"
	"tashteeb/internal/mailer"
	"tashteeb/internal/ratelimiter"
	"tashteeb/internal/store"

	"github.com/cloudinary/cloudinary-go/v2"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	httpSwagger "github.com/swaggo/http-swagger/v2"
	"go.uber.org/zap"
)

type application struct {
	config      config
	store       store.Storage
	logger      *zap.SugaredLogger
	cache       *cache.Catalog
	cld         *cloudinary.Cloudinary
	mailer      mailer.Client
	rateLimiter *ratelimiter.FixedWindowRateLimiter
}

type config struct {
	addr        string
	env         string
	apiURL      string
	frontendURL string
	db          dbConfig
	auth        authConfig
	mail        mailConfig
	rateLimiter ratelimiter.Config
}

type dbConfig struct {
	addr           string
	name           string
	connectTimeout time.Duration
}

type authConfig struct {
	basic basicConfig
}

type basicConfig struct {
	user string
	pass string
}

type mailConfig struct {
	fromEmail  string
	adminEmail string
	mailtrap   mailTrapConfig
}

type mailTrapConfig struct {
	apiKey string
}

func (app *application) mount() http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)

	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"https://*", "http://*"},
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		ExposedHeaders:   []string{"Link"},
		AllowCredentials: false,
		MaxAge:           300,
	}))

	r.Use(middleware.Timeout(60 * time.Second))

	// Public, server-rendered site
	r.Get("/", app.homeHandler)
	r.Get("/products", app.catalogHandler)
	r.Get("/products/*", app.catalogHandler)
	r.Get("/gallery", app.galleryPageHandler)
	r.Get("/pages/{pageSlug}", app.landingPageHandler)
	r.Get("/images/{imageID}", app.serveImageHandler)
	r.Handle("/static/*", http.FileServer(http.FS(staticFS)))
	r.With(app.RateLimiterMiddleware).Post("/contact", app.contactHandler)

	// Admin / JSON API
	r.Route("/v1", func(r chi.Router) {
		r.Get("/health", app.healthCheckHandler)
		docsURL := fmt.Sprintf("%s/swagger/doc.json", app.config.addr)
		r.Get("/swagger/*", httpSwagger.Handler(httpSwagger.URL(docsURL)))

		r.With(app.BasicAuthMiddleware()).Get("/debug/vars", expvar.Handler().ServeHTTP)

		r.Group(func(r chi.Router) {
			r.Use(app.BasicAuthMiddleware())

			r.Post("/images", app.uploadImageHandler)
			r.Delete("/images/{imageID}", app.deleteImageHandler)

			r.Route("/categories", func(r chi.Router) {
				r.Get("/", app.listCategoriesHandler)
				r.Post("/", app.createCategoryHandler)
				r.Put("/reorder", app.reorderCategoriesHandler)
				r.Get("/{slug}", app.getCategoryHandler)
				r.Put("/{categoryID}", app.updateCategoryHandler)
				r.Delete("/{categoryID}", app.deleteCategoryHandler)
			})

			r.Route("/products", func(r chi.Router) {
				r.Get("/", app.listProductsHandler)
				r.Post("/", app.createProductHandler)
				r.Get("/{slug}", app.getProductHandler)
				r.Put("/{productID}", app.updateProductHandler)
				r.Delete("/{productID}", app.deleteProductHandler)
			})

			r.Route("/gallery", func(r chi.Router) {
				r.Get("/", app.listGalleryHandler)
				r.Post("/", app.createGalleryImageHandler)
				r.Put("/{galleryID}", app.updateGalleryImageHandler)
				r.Delete("/{galleryID}", app.deleteGalleryImageHandler)
			})

			r.Route("/settings", func(r chi.Router) {
				r.Get("/", app.getSettingsHandler)
				r.Put("/", app.updateSettingsHandler)
				r.Get("/homepage", app.getHomepageSettingsHandler)
				r.Put("/homepage", app.updateHomepageSettingsHandler)
			})

			r.Route("/messages", func(r chi.Router) {
				r.Get("/", app.listMessagesHandler)
				r.Put("/{messageID}/read", app.markMessageReadHandler)
				r.Delete("/{messageID}", app.deleteMessageHandler)
			})
		})
	})

	return r
}

func (app *application) run(mux http.Handler) error {
	docs.SwaggerInfo.Version = version
	docs.SwaggerInfo.Host = app.config.apiURL
	docs.SwaggerInfo.BasePath = "/v1"

	srv := &http.Server{
		Addr:         app.config.addr,
		Handler:      mux,
		WriteTimeout: time.Second * 30,
		ReadTimeout:  time.Second * 10,
		IdleTimeout:  time.Minute,
	}

	shutdown := make(chan error)

	go func() {
		quit := make(chan os.Signal, 1)

		signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
		s := <-quit

		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		app.logger.Infow("signal caught", "signal", s.String())

		shutdown <- srv.Shutdown(ctx)
	}()

	app.logger.Infow("server has started", "addr", app.config.addr, "env", app.config.env)

	err := srv.ListenAndServe()
	if !errors.Is(err, http.ErrServerClosed) {
		return err
	}

	err = <-shutdown
	if err != nil {
		return err
	}

	app.logger.Infow("server has stopped", "addr", app.config.addr, "env", app.config.env)

	return nil
}
