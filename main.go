package main

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"strconv"
	"strings"
	"time"

	"eei-api/config"
	"eei-api/models"
	"eei-api/services"
	"eei-api/storage"

	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/robfig/cron/v3"
	"go.uber.org/zap"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

var (
	networkQueriesCounter prometheus.Counter
	searchQueriesCounter  prometheus.Counter
	exportRequestsCounter *prometheus.CounterVec

	interactionsGauge prometheus.Gauge
	exonsGauge        prometheus.Gauge
	proteinsGauge     prometheus.Gauge
)

func init() {
	networkQueriesCounter = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "eei_network_queries_total",
		Help: "Total number of network subgraph queries served.",
	})
	searchQueriesCounter = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "eei_search_queries_total",
		Help: "Total number of search queries served.",
	})
	exportRequestsCounter = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "eei_export_requests_total",
		Help: "Total number of export requests served, by format.",
	}, []string{"format"})
	interactionsGauge = prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "eei_interactions_rows",
		Help: "Current number of interaction rows in the store.",
	})
	exonsGauge = prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "eei_exons_rows",
		Help: "Current number of exon rows in the store.",
	})
	proteinsGauge = prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "eei_proteins_rows",
		Help: "Current number of protein rows in the store.",
	})
	prometheus.MustRegister(networkQueriesCounter, searchQueriesCounter,
		exportRequestsCounter, interactionsGauge, exonsGauge, proteinsGauge)
}

func apiKeyAuthMiddleware(cfg *config.Config) gin.HandlerFunc {
	return func(c *gin.Context) {
		if cfg.APISecretKey == "" {
			c.Next()
			return
		}
		apiKey := c.GetHeader("X-API-KEY")
		if apiKey != cfg.APISecretKey {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"success": false, "error": "unauthorized", "message": "Invalid API key"})
			return
		}
		c.Next()
	}
}

func requestIDMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		requestID := "req-" + uuid.New().String()
		c.Set("request_id", requestID)
		c.Header("X-Request-ID", requestID)
		c.Next()
	}
}

// writeError is the single boundary between the error taxonomy and HTTP.
// The caller gets a classified, user-safe envelope; the raw error only ever
// reaches the log sink.
func writeError(c *gin.Context, log *zap.Logger, err error) {
	apiErr := services.Classify(err)

	fields := []zap.Field{
		zap.String("kind", apiErr.Kind),
		zap.String("path", c.FullPath()),
		zap.Error(err),
	}
	switch apiErr.Kind {
	case services.KindValidation, services.KindNotFound:
		log.Info("Request rejected", fields...)
	case services.KindSchema:
		// Deployment defect, keep it apart from ordinary request errors.
		log.Error("Database schema mismatch", fields...)
	default:
		log.Error("Request failed", fields...)
	}

	body := gin.H{
		"success": false,
		"error":   apiErr.Kind,
		"message": apiErr.Message,
	}
	if len(apiErr.Fields) > 0 {
		body["errors"] = apiErr.Fields
	}
	c.JSON(apiErr.Status, body)
}

func parsePositiveIntFallback(v string, fallback int) int {
	num, err := strconv.Atoi(v)
	if err != nil || num <= 0 {
		return fallback
	}
	return num
}

func parseNonNegativeIntFallback(v string, fallback int) int {
	num, err := strconv.Atoi(v)
	if err != nil || num < 0 {
		return fallback
	}
	return num
}

func parseFloatPtr(v string) *float64 {
	if v == "" {
		return nil
	}
	f, err := strconv.ParseFloat(strings.TrimSpace(v), 64)
	if err != nil {
		return nil
	}
	return &f
}

// splitList parses a comma-separated identifier list, dropping empties.
func splitList(v string) []string {
	if strings.TrimSpace(v) == "" {
		return nil
	}
	var out []string
	for _, part := range strings.Split(v, ",") {
		if trimmed := strings.TrimSpace(part); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}

func main() {
	logging, err := zap.NewProduction()
	if err != nil {
		log.Fatalf("can't initialize zap logger: %v", err)
	}
	defer logging.Sync()

	cfg, err := config.Load()
	if err != nil {
		logging.Fatal("Config load error", zap.Error(err))
	}

	db, err := gorm.Open(postgres.Open(cfg.DSN()), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		logging.Fatal("Failed to connect to database", zap.Error(err))
	}
	logging.Info("Connected to EEI database.")

	// The tables are owned by the offline ingestion pipeline; on a
	// provisioned database this is a no-op.
	logging.Info("Running database auto-migration...")
	db.AutoMigrate(&models.Organism{}, &models.Gene{}, &models.Exon{}, &models.Protein{},
		&models.Method{}, &models.Interaction{}, &models.OrthologyMapping{},
		&models.PisaAttributes{}, &models.EppicAttributes{})

	var archiveClient *s3.Client
	if cfg.ArchiveEnabled() {
		archiveClient, err = storage.NewS3Client(cfg)
		if err != nil {
			logging.Fatal("S3 archive client creation failed", zap.Error(err))
		}
		logging.Info("Export archival enabled", zap.String("bucket", cfg.ArchiveS3Bucket))
	}

	router := gin.Default()
	router.Use(gin.Recovery())
	router.Use(requestIDMiddleware())
	router.Use(apiKeyAuthMiddleware(cfg))
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))
	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "healthy", "service": "eei-api"})
	})

	setupNetworkRoutes(router, db, cfg, logging)
	setupSearchRoutes(router, db, cfg, logging)
	setupStatsRoutes(router, db, logging)
	setupEntityRoutes(router, db, logging)
	setupExportRoutes(router, db, cfg, archiveClient, logging)

	statsService := services.NewStatsService(db, logging)
	refreshGauges := func() {
		counts, err := statsService.Summary(context.Background())
		if err != nil {
			logging.Error("Gauge refresh failed", zap.Error(err))
			return
		}
		interactionsGauge.Set(float64(counts.Interactions))
		exonsGauge.Set(float64(counts.Exons))
		proteinsGauge.Set(float64(counts.Proteins))
		logging.Info("Row-count gauges refreshed", zap.Int64("interactions", counts.Interactions))
	}
	cronScheduler := cron.New()
	cronScheduler.AddFunc(cfg.StatsCronSchedule, refreshGauges)
	cronScheduler.Start()
	go refreshGauges()

	logging.Info("Starting server", zap.String("port", cfg.HTTPPort))
	srv := &http.Server{
		Addr:              ":" + cfg.HTTPPort,
		Handler:           router,
		ReadTimeout:       30 * time.Second,
		ReadHeaderTimeout: 15 * time.Second,
		WriteTimeout:      60 * time.Second,
		IdleTimeout:       120 * time.Second,
	}
	if err := srv.ListenAndServe(); err != nil {
		logging.Fatal("Failed to run server", zap.Error(err))
	}
}

func setupNetworkRoutes(router *gin.Engine, db *gorm.DB, cfg *config.Config, log *zap.Logger) {
	rg := router.Group("/network")
	networkService := services.NewNetworkService(db, log)
	statsService := services.NewStatsService(db, log)

	// Anchored subgraph endpoints share one flow: fetch the anchor's capped
	// batch, apply the in-memory post-filters, compute statistics over the
	// filtered set, then slice the requested page out of it.
	anchoredSubgraph := func(c *gin.Context, filter services.SubgraphFilter, anchorKey string, anchorValue string) {
		networkQueriesCounter.Inc()

		method := c.Query("method_filter")
		minConfidence := parseFloatPtr(c.Query("min_confidence"))
		minJaccard := parseFloatPtr(c.Query("min_jaccard"))
		limit := parsePositiveIntFallback(c.Query("limit"), cfg.DefaultPageLimit)
		offset := parseNonNegativeIntFallback(c.Query("offset"), 0)

		rows, err := networkService.FetchByFilter(c.Request.Context(), filter)
		if err != nil {
			writeError(c, log, err)
			return
		}

		filtered := services.FilterRows(rows, method, minConfidence, minJaccard)
		stats := services.ComputeNetworkStats(filtered)
		page, pagination := services.Paginate(filtered, limit, offset)

		c.JSON(http.StatusOK, gin.H{
			"success": true,
			"data": gin.H{
				anchorKey:      anchorValue,
				"interactions": page,
				"statistics":   stats,
				"pagination":   pagination,
			},
		})
	}

	rg.GET("/gene/:gene_symbol", func(c *gin.Context) {
		symbol := c.Param("gene_symbol")

		var gene models.Gene
		if err := db.WithContext(c.Request.Context()).Where("gene_symbol = ?", symbol).First(&gene).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				writeError(c, log, services.NewNotFoundError("gene", symbol))
				return
			}
			writeError(c, log, err)
			return
		}

		filter := services.SubgraphFilter{
			Genes:           []string{symbol},
			MaxInteractions: parsePositiveIntFallback(c.Query("max_interactions"), cfg.MaxInteractionsCap),
		}
		anchoredSubgraph(c, filter, "gene_symbol", symbol)
	})

	rg.GET("/protein/:protein_id", func(c *gin.Context) {
		key := c.Param("protein_id")

		// The anchor accepts the surrogate id or the UniProt ID; resolve to
		// the business key the query builder matches on.
		protein, err := models.FindProtein(c.Request.Context(), db, key)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				writeError(c, log, services.NewNotFoundError("protein", key))
				return
			}
			writeError(c, log, err)
			return
		}

		filter := services.SubgraphFilter{
			Proteins:        []string{protein.UniprotID},
			MaxInteractions: parsePositiveIntFallback(c.Query("max_interactions"), cfg.MaxInteractionsCap),
		}
		anchoredSubgraph(c, filter, "protein_id", protein.UniprotID)
	})

	rg.GET("/interactions/subgraph", func(c *gin.Context) {
		networkQueriesCounter.Inc()

		filter := services.SubgraphFilter{
			Genes:           splitList(c.Query("genes")),
			Proteins:        splitList(c.Query("proteins")),
			Exons:           splitList(c.Query("exons")),
			Method:          c.Query("method_filter"),
			MinConfidence:   parseFloatPtr(c.Query("min_confidence")),
			MinJaccard:      parseFloatPtr(c.Query("min_jaccard")),
			MaxInteractions: parsePositiveIntFallback(c.Query("max_interactions"), cfg.MaxInteractionsCap),
		}

		// Validation happens inside the builder, before any store call.
		rows, err := networkService.FetchByFilter(c.Request.Context(), filter)
		if err != nil {
			writeError(c, log, err)
			return
		}

		stats := services.ComputeNetworkStats(rows)
		c.JSON(http.StatusOK, gin.H{
			"success": true,
			"data": gin.H{
				"interactions": rows,
				"statistics":   stats,
				"filters":      filter,
				"count":        len(rows),
			},
		})
	})

	rg.GET("/stats", func(c *gin.Context) {
		overview, err := statsService.NetworkOverview(c.Request.Context())
		if err != nil {
			writeError(c, log, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"success": true, "data": overview})
	})
}

func setupSearchRoutes(router *gin.Engine, db *gorm.DB, cfg *config.Config, log *zap.Logger) {
	searchService := services.NewSearchService(db, log)

	router.GET("/search", func(c *gin.Context) {
		searchQueriesCounter.Inc()

		term := c.Query("q")
		searchType := c.Query("type")
		limit := parsePositiveIntFallback(c.Query("limit"), cfg.DefaultPageLimit)
		offset := parseNonNegativeIntFallback(c.Query("offset"), 0)

		result, err := searchService.Search(c.Request.Context(), term, searchType, limit, offset)
		if err != nil {
			writeError(c, log, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"success": true, "data": result})
	})
}

func setupStatsRoutes(router *gin.Engine, db *gorm.DB, log *zap.Logger) {
	rg := router.Group("/stats")
	statsService := services.NewStatsService(db, log)

	rg.GET("/summary", func(c *gin.Context) {
		counts, err := statsService.Summary(c.Request.Context())
		if err != nil {
			writeError(c, log, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"success": true, "data": counts})
	})

	rg.GET("/distributions", func(c *gin.Context) {
		methods, err := statsService.MethodDistribution(c.Request.Context())
		if err != nil {
			writeError(c, log, err)
			return
		}
		chromosomes, err := statsService.ChromosomeDistribution(c.Request.Context())
		if err != nil {
			writeError(c, log, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{
			"success": true,
			"data": gin.H{
				"methods":     methods,
				"chromosomes": chromosomes,
			},
		})
	})

	rg.GET("/confidence", func(c *gin.Context) {
		confidence, jaccard, err := statsService.ScoreRanges(c.Request.Context())
		if err != nil {
			writeError(c, log, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{
			"success": true,
			"data": gin.H{
				"confidence_range": confidence,
				"jaccard_range":    jaccard,
			},
		})
	})
}

func setupEntityRoutes(router *gin.Engine, db *gorm.DB, log *zap.Logger) {
	router.GET("/exons/:id", func(c *gin.Context) {
		key := c.Param("id")
		exon, err := models.FindExon(c.Request.Context(), db, key)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				writeError(c, log, services.NewNotFoundError("exon", key))
				return
			}
			writeError(c, log, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"success": true, "data": exon})
	})

	router.GET("/proteins/:id", func(c *gin.Context) {
		key := c.Param("id")
		protein, err := models.FindProtein(c.Request.Context(), db, key)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				writeError(c, log, services.NewNotFoundError("protein", key))
				return
			}
			writeError(c, log, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"success": true, "data": protein})
	})

	router.GET("/interactions/:id", func(c *gin.Context) {
		key := c.Param("id")
		id, ok := models.ParseNumericKey(key)
		if !ok {
			writeError(c, log, services.NewValidationError("interaction id must be numeric",
				services.FieldError{Field: "id", Message: "not a number"}))
			return
		}
		detail, err := models.FindInteraction(c.Request.Context(), db, id)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				writeError(c, log, services.NewNotFoundError("interaction", key))
				return
			}
			writeError(c, log, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"success": true, "data": detail})
	})
}

const defaultExportLimit = 1000

func setupExportRoutes(router *gin.Engine, db *gorm.DB, cfg *config.Config, archiveClient *s3.Client, log *zap.Logger) {
	exportService := services.NewExportService(db, log)

	router.GET("/export/interactions", func(c *gin.Context) {
		format := strings.ToLower(c.DefaultQuery("format", services.FormatCSV))
		if format != services.FormatCSV && format != services.FormatTSV && format != services.FormatJSON {
			writeError(c, log, services.NewValidationError("format must be csv, tsv or json",
				services.FieldError{Field: "format", Message: "invalid"}))
			return
		}
		exportRequestsCounter.WithLabelValues(format).Inc()

		limit, err := services.ParseExportLimit(c.Query("limit"), defaultExportLimit)
		if err != nil {
			writeError(c, log, err)
			return
		}

		req := services.ExportRequest{
			Type:          c.DefaultQuery("type", services.ExportTypeAll),
			Format:        format,
			Limit:         limit,
			Offset:        parseNonNegativeIntFallback(c.Query("offset"), 0),
			Method:        c.Query("method"),
			MinConfidence: parseFloatPtr(c.Query("min_confidence")),
			MinJaccard:    parseFloatPtr(c.Query("min_jaccard")),
		}

		batch, err := exportService.Fetch(c.Request.Context(), req)
		if err != nil {
			writeError(c, log, err)
			return
		}

		now := time.Now()
		filename := services.ExportFilename(req.Type, format, now)

		if format == services.FormatJSON {
			payload := gin.H{
				"success": true,
				"data":    batch.Rows,
				"metadata": services.ExportMetadata{
					Type:              req.Type,
					TotalRows:         len(batch.Rows),
					ExperimentalCount: batch.ExperimentalCount,
					PredictedCount:    batch.PredictedCount,
					Filters: services.AppliedFilters{
						Method:        req.Method,
						MinConfidence: req.MinConfidence,
						MinJaccard:    req.MinJaccard,
						Limit:         req.Limit,
						Offset:        req.Offset,
					},
					GeneratedAt: now.UTC(),
				},
			}

			if archiveClient != nil {
				if data, marshalErr := json.Marshal(payload); marshalErr == nil {
					link, upErr := storage.UploadArchive(c.Request.Context(), archiveClient, cfg, filename, data)
					if upErr != nil {
						log.Warn("Export archive upload failed", zap.Error(upErr))
					} else {
						log.Info("Export archived", zap.String("link", link))
					}
				}
			}

			c.JSON(http.StatusOK, payload)
			return
		}

		contentType := "text/csv"
		if format == services.FormatTSV {
			contentType = "text/tab-separated-values"
		}
		c.Header("Content-Type", contentType)
		c.Header("Content-Disposition", `attachment; filename="`+filename+`"`)
		c.Status(http.StatusOK)
		if err := services.WriteDelimited(c.Writer, batch.Rows, req.Type, format); err != nil {
			log.Error("Failed to stream export", zap.Error(err))
		}
	})
}
