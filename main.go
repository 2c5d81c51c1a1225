package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/coreos/go-oidc/v3/oidc"
	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"

	"github.com/climapp/backend/internal/client"
	"github.com/climapp/backend/internal/config"
	"github.com/climapp/backend/internal/db"
	"github.com/climapp/backend/internal/handler"
	"github.com/climapp/backend/internal/logger"
	"github.com/climapp/backend/internal/observability"
	"github.com/climapp/backend/internal/service"
)

// @title ClimApp API
// @version 1.0.0
// @description Backend do app de campo para técnicos de climatização.
// @BasePath /
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
func main() {
	_ = godotenv.Load()

	cfg := config.Load()
	log := logger.New(cfg.Environment, cfg.LogLevel)
	metrics := observability.NewMetrics()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Serviços externos são opcionais na subida: sem credencial, o
	// endpoint correspondente responde 503 em vez de derrubar o boot.
	var aiClient *client.AIClient
	if c, err := client.NewAIClient(cfg.AI); err != nil {
		log.WithComponent("boot").WithError(err).Warn("serviço de IA desabilitado")
	} else {
		aiClient = c
	}

	var speechClient *client.SpeechClient
	if cfg.AI.PipelineMode == config.PipelineModeTwoCall {
		if c, err := client.NewSpeechClient(ctx, cfg.Speech); err != nil {
			log.WithComponent("boot").WithError(err).Warn("transcrição dedicada desabilitada")
		} else {
			speechClient = c
			defer speechClient.Close()
		}
	}

	var identityClient *client.IdentityClient
	if c, err := client.NewIdentityClient(cfg.Identity); err != nil {
		log.WithComponent("boot").WithError(err).Warn("provedor de identidade desabilitado")
	} else {
		identityClient = c
	}

	var tokenMinter *service.TokenMinter
	if m, err := service.NewTokenMinter(cfg.Identity); err != nil {
		log.WithComponent("boot").WithError(err).Warn("emissão de custom tokens desabilitada")
	} else {
		tokenMinter = m
	}

	var verifier handler.IDTokenVerifier
	if cfg.Identity.ProjectID != "" {
		issuer := "https://securetoken.google.com/" + cfg.Identity.ProjectID
		if provider, err := oidc.NewProvider(ctx, issuer); err != nil {
			log.WithComponent("boot").WithError(err).Warn("verificação de ID tokens desabilitada")
		} else {
			verifier = provider.Verifier(&oidc.Config{ClientID: cfg.Identity.ProjectID})
		}
	}

	var mediaClient *client.MediaClient
	if c, err := client.NewMediaClient(cfg.Media); err != nil {
		log.WithComponent("boot").WithError(err).Warn("serviço de mídia desabilitado")
	} else {
		mediaClient = c
	}

	var embeddingClient *client.EmbeddingClient
	if c, err := client.NewEmbeddingClient(cfg.AI); err != nil {
		log.WithComponent("boot").WithError(err).Warn("busca por similaridade desabilitada")
	} else {
		embeddingClient = c
	}

	pool, err := db.NewPostgresPool(ctx, cfg.Postgres)
	if err != nil {
		log.WithComponent("boot").WithError(err).Fatal("falha ao conectar no banco")
	}
	defer pool.Close()

	store := db.New(pool)
	if err := store.EnsureSchema(ctx); err != nil {
		log.WithComponent("boot").WithError(err).Fatal("falha ao preparar o schema")
	}

	var aiExtractor service.Extractor
	if aiClient != nil {
		aiExtractor = aiClient
	}
	var transcriber service.Transcriber
	if speechClient != nil {
		transcriber = speechClient
	}

	embeddingService := service.NewEmbeddingService(embeddingClient, store)
	aiService := service.NewAIService(aiExtractor, transcriber, cfg.AI, metrics)
	authService := service.NewAuthService(identityClient, tokenMinter)
	clienteService := service.NewClienteService(store)
	atendimentoService := service.NewAtendimentoService(store, embeddingService, log)
	uploadService := service.NewUploadService(mediaUploader(mediaClient))
	reportService := service.NewReportService(store)

	router := buildRouter(cfg, log, metrics, routerDeps{
		ai:          handler.NewAIHandler(aiService, cfg.Server.BaseURL),
		auth:        handler.NewAuthHandler(authService),
		cliente:     handler.NewClienteHandler(clienteService),
		atendimento: handler.NewAtendimentoHandler(atendimentoService, reportService),
		embedding:   handler.NewEmbeddingHandler(embeddingService, atendimentoService),
		upload:      handler.NewUploadHandler(uploadService, cfg.Server.BaseURL),
		health:      handler.NewHealthHandler(cfg.Server.BaseURL, cfg.Environment),
		verifier:    verifier,
	})

	srv := &http.Server{
		Addr:              ":" + cfg.Server.Port,
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       65 * time.Second,
		WriteTimeout:      90 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		log.WithComponent("server").WithField("addr", srv.Addr).Info("servidor iniciando")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case <-ctx.Done():
		log.WithComponent("server").Info("sinal de desligamento recebido")
	case err := <-errCh:
		if err != nil {
			log.WithComponent("server").WithError(err).Fatal("servidor encerrou com erro")
		}
		return
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.WithComponent("server").WithError(err).Error("desligamento gracioso falhou")
		os.Exit(1)
	}
	log.WithComponent("server").Info("servidor parado")
}

type routerDeps struct {
	ai          *handler.AIHandler
	auth        *handler.AuthHandler
	cliente     *handler.ClienteHandler
	atendimento *handler.AtendimentoHandler
	embedding   *handler.EmbeddingHandler
	upload      *handler.UploadHandler
	health      *handler.HealthHandler
	verifier    handler.IDTokenVerifier
}

func buildRouter(cfg config.Config, log *logger.Logger, metrics *observability.Metrics, deps routerDeps) *gin.Engine {
	if cfg.Environment != "local" {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(handler.RequestLogger(log, metrics))
	router.Use(handler.CORSMiddleware(cfg.Server.AllowedOrigins))
	router.Use(handler.SecurityHeaders())
	router.Use(handler.BodyLimit())

	router.GET("/", deps.health.Root)
	router.GET("/ping", handler.Ping)
	router.GET("/health", deps.health.Health)
	router.GET("/metrics", gin.WrapH(metrics.Handler()))
	router.GET("/openapi.json", handler.OpenAPIDoc)
	router.NoRoute(handler.NotFound)

	api := router.Group("/api")

	auth := api.Group("/auth")
	auth.POST("/signup", deps.auth.Signup)
	auth.POST("/login", deps.auth.Login)
	auth.POST("/forgot-password", deps.auth.ForgotPassword)
	auth.GET("/profile", deps.auth.Profile)

	ai := api.Group("/ai")
	ai.POST("/process-audio", deps.ai.ProcessAudio)
	ai.GET("/status", deps.ai.Status)

	clientes := api.Group("/clientes", handler.RequireAuth(deps.verifier))
	clientes.POST("", deps.cliente.Create)
	clientes.GET("/:uid", deps.cliente.List)
	clientes.GET("/:uid/:codigo", deps.cliente.Get)
	clientes.PUT("/:uid/:codigo", deps.cliente.Update)
	clientes.DELETE("/:uid/:codigo", deps.cliente.Delete)

	atendimentos := api.Group("/atendimentos", handler.RequireAuth(deps.verifier))
	atendimentos.POST("", deps.atendimento.Create)
	atendimentos.GET("/:uid", deps.atendimento.List)
	atendimentos.GET("/:uid/:codigo", deps.atendimento.Get)
	atendimentos.PUT("/:uid/:codigo", deps.atendimento.Update)
	atendimentos.DELETE("/:uid/:codigo", deps.atendimento.Delete)
	atendimentos.POST("/:uid/:codigo/embedding", deps.embedding.IndexAtendimento)

	api.POST("/orcamento/:codigo", handler.RequireAuth(deps.verifier), deps.atendimento.SaveOrcamento)
	api.GET("/relatorios/atendimentos/:uid", handler.RequireAuth(deps.verifier), deps.atendimento.Relatorio)
	api.GET("/similares/:uid", handler.RequireAuth(deps.verifier), deps.embedding.SearchSimilar)
	api.GET("/estagios/lista", deps.atendimento.Estagios)

	upload := api.Group("/upload")
	upload.POST("/foto", deps.upload.UploadFoto)
	upload.POST("/fotos", deps.upload.UploadFotos)
	upload.DELETE("/foto", deps.upload.DeleteFoto)
	upload.GET("/status", deps.upload.Status)

	return router
}

// mediaUploader evita passar um ponteiro tipado nulo por trás da
// interface quando o serviço de mídia não está configurado.
func mediaUploader(c *client.MediaClient) service.ImageUploader {
	if c == nil {
		return nil
	}
	return c
}
