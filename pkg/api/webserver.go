package api

import (
	"context"
	"errors"
	"io"
	"log"
	"net/http"
	"strconv"

	"github.com/chenBenjamin97/posture-analyzer/pkg/analyzer"
	"github.com/chenBenjamin97/posture-analyzer/pkg/posture"
	"github.com/chenBenjamin97/posture-analyzer/pkg/store"
	"github.com/chenBenjamin97/posture-analyzer/pkg/utils"
	"github.com/gin-gonic/gin"
)

//VideoAnalyzer classifies an uploaded video
type VideoAnalyzer interface {
	Analyze(ctx context.Context, r io.Reader, postureType string) (*analyzer.Record, error)
}

//ReportReader serves the report history
type ReportReader interface {
	Get(ctx context.Context, id string) (*analyzer.Record, error)
	List(ctx context.Context, limit int) ([]store.Entry, error)
}

//Options configures the router
type Options struct {
	StaticFilesPath string //serve the browser client from here under /client when set
	AllowedOrigin   string
	MaxUploadBytes  int64
}

//SetRouter builds the HTTP API. reports may be nil, then the history routes are not served.
func SetRouter(videos VideoAnalyzer, reports ReportReader, opts Options) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery(), requestLogger(), cors(opts.AllowedOrigin))

	if opts.StaticFilesPath != "" {
		r.Static("/client", opts.StaticFilesPath)
	}

	r.GET("/", func(ctx *gin.Context) {
		ctx.JSON(http.StatusOK, gin.H{"message": "Backend is working!"})
	})

	r.POST("/upload-video", uploadVideo(videos, opts.MaxUploadBytes))

	if reports == nil {
		return r
	}

	apiRoutes := r.Group("/api")

	apiRoutes.GET("/reports", func(ctx *gin.Context) {
		limit := utils.DefaultListLimit
		if s := ctx.Query("limit"); s != "" {
			n, err := strconv.Atoi(s)
			if err != nil || n < 1 {
				ctx.JSON(http.StatusBadRequest, gin.H{"error": "Invalid limit"})
				return
			}
			limit = utils.ClampInt(n, 1, utils.MaxListLimit)
		}

		entries, err := reports.List(ctx.Request.Context(), limit)
		if err != nil {
			log.Printf("api/reports: Error, got '%v'", err)
			ctx.Status(http.StatusInternalServerError)
			return
		}
		ctx.JSON(http.StatusOK, entries)
	})

	apiRoutes.GET("/reports/:id", func(ctx *gin.Context) {
		rec, ok := lookupReport(ctx, reports)
		if !ok {
			return
		}
		ctx.JSON(http.StatusOK, rec)
	})

	apiRoutes.GET("/reports/:id/chart", func(ctx *gin.Context) {
		rec, ok := lookupReport(ctx, reports)
		if !ok {
			return
		}

		page, err := renderChart(rec)
		if err != nil {
			log.Printf("api/reports/chart: Could not render report '%s', got '%v'", rec.ID, err)
			ctx.Status(http.StatusInternalServerError)
			return
		}
		ctx.Data(http.StatusOK, "text/html; charset=utf-8", page)
	})

	return r
}

func uploadVideo(videos VideoAnalyzer, maxBytes int64) gin.HandlerFunc {
	return func(ctx *gin.Context) {
		if ctx.Request.ContentLength > maxBytes {
			ctx.JSON(http.StatusRequestEntityTooLarge, gin.H{"error": "Video too large"})
			return
		}
		ctx.Request.Body = http.MaxBytesReader(ctx.Writer, ctx.Request.Body, maxBytes)

		fHeader, err := ctx.FormFile("file")
		if err != nil {
			var tooLarge *http.MaxBytesError
			if errors.As(err, &tooLarge) {
				ctx.JSON(http.StatusRequestEntityTooLarge, gin.H{"error": "Video too large"})
				return
			}
			ctx.JSON(http.StatusBadRequest, gin.H{"error": "Missing video file"})
			return
		}

		file, err := fHeader.Open()
		if err != nil {
			log.Printf("api/upload-video: Could not open uploaded file, got '%v'", err)
			ctx.Status(http.StatusInternalServerError)
			return
		}
		defer file.Close()

		log.Printf("api/upload-video: Received new file: name - '%s', size - %v Bytes", fHeader.Filename, fHeader.Size)

		rec, err := videos.Analyze(ctx.Request.Context(), file, ctx.PostForm("posture_type"))
		if err != nil {
			var verr *posture.ValidationError
			var derr *posture.DecodeError
			switch {
			case errors.As(err, &verr):
				ctx.JSON(http.StatusBadRequest, gin.H{"error": "Invalid posture type"})
			case errors.As(err, &derr):
				log.Printf("api/upload-video: Could not decode '%s', got '%v'", fHeader.Filename, err)
				ctx.JSON(http.StatusUnprocessableEntity, gin.H{"error": "Could not decode video"})
			default:
				log.Printf("api/upload-video: Error, got '%v'", err)
				ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Could not process video"})
			}
			return
		}

		ctx.JSON(http.StatusOK, rec)
	}
}

//lookupReport writes the error response itself and returns false when the report cannot be served
func lookupReport(ctx *gin.Context, reports ReportReader) (*analyzer.Record, bool) {
	rec, err := reports.Get(ctx.Request.Context(), ctx.Param("id"))
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			ctx.JSON(http.StatusNotFound, gin.H{"error": "Report not found"})
		} else {
			log.Printf("api/reports: Error, got '%v'", err)
			ctx.Status(http.StatusInternalServerError)
		}
		return nil, false
	}

	return rec, true
}
