// Package api provides the REST API server for binasc
package api

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"net/http"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/james-see/binasc/pkg/binasc"
	"github.com/james-see/binasc/pkg/inspect"
	"github.com/sirupsen/logrus"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

// @title binasc API
// @version 1.0
// @description API for converting between binary files and the binasc text format
// @host localhost:8080
// @BasePath /api/v1

// maxUpload caps the size of uploaded files
var maxUpload int64 = 32 << 20

type handler struct {
	log logrus.FieldLogger
}

// NewRouter builds the gin engine with every route registered
func NewRouter(log logrus.FieldLogger) *gin.Engine {
	h := &handler{log: log}

	r := gin.New()
	r.Use(gin.Recovery(), h.requestLogger())

	config := cors.DefaultConfig()
	config.AllowAllOrigins = true
	config.AllowMethods = []string{"GET", "POST", "OPTIONS"}
	config.AllowHeaders = []string{"Origin", "Content-Type", "Accept", "Authorization"}
	config.ExposeHeaders = []string{"Content-Disposition"}
	r.Use(cors.New(config))

	r.GET("/health", healthCheck)

	v1 := r.Group("/api/v1")
	{
		v1.GET("/health", healthCheck)
		v1.POST("/encode", h.handleEncode)
		v1.POST("/decode", h.handleDecode)
		v1.POST("/info", h.handleInfo)
		v1.GET("/formats", listFormats)
	}

	r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	return r
}

// StartServer starts the API server on the specified port
func StartServer(port int, log logrus.FieldLogger) error {
	return NewRouter(log).Run(fmt.Sprintf(":%d", port))
}

func (h *handler) requestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		h.log.WithFields(logrus.Fields{
			"method":  c.Request.Method,
			"path":    c.Request.URL.Path,
			"status":  c.Writer.Status(),
			"latency": time.Since(start),
		}).Info("request")
	}
}

// healthCheck godoc
// @Summary Health check endpoint
// @Description Returns the health status of the API
// @Tags health
// @Produce json
// @Success 200 {object} map[string]string
// @Router /health [get]
func healthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":  "healthy",
		"service": "binasc",
	})
}

// listFormats godoc
// @Summary List supported formats
// @Description Returns the recognised formats and conversion paths
// @Tags info
// @Produce json
// @Success 200 {object} map[string][]string
// @Router /api/v1/formats [get]
func listFormats(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"formats":     []binasc.Format{binasc.FormatMIDI, binasc.FormatText, binasc.FormatBinary},
		"conversions": binasc.GetSupportedConversions(),
	})
}

// handleEncode godoc
// @Summary Encode text to binary
// @Description Upload a binasc text file and receive the bytes it describes
// @Tags convert
// @Accept multipart/form-data
// @Produce application/octet-stream
// @Param file formData file true "text file to encode"
// @Success 200 {file} binary
// @Failure 400 {object} map[string]string
// @Failure 422 {object} map[string]interface{}
// @Router /api/v1/encode [post]
func (h *handler) handleEncode(c *gin.Context) {
	data, name, ok := readUpload(c)
	if !ok {
		return
	}

	out, err := binasc.New().EncodeString(string(data))
	if err != nil {
		h.log.WithError(err).WithField("file", name).Debug("encode failed")
		body := gin.H{"error": err.Error()}
		var encErr *binasc.EncodingError
		if errors.As(err, &encErr) {
			body["line"] = encErr.Line
			body["token"] = encErr.Token
		}
		c.JSON(http.StatusUnprocessableEntity, body)
		return
	}

	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%s", outputName(name, ".bin")))
	c.Data(http.StatusOK, "application/octet-stream", out)
}

// handleDecode godoc
// @Summary Decode binary to text
// @Description Upload any file and receive its binasc text form
// @Tags convert
// @Accept multipart/form-data
// @Produce text/plain
// @Param file formData file true "file to decode"
// @Param midi query bool false "decode as a Standard MIDI File"
// @Param hex query bool false "hex byte output (default: true)"
// @Param comments query bool false "add comments"
// @Param line_length query int false "maximum ASCII line length"
// @Param line_bytes query int false "bytes per hex line"
// @Success 200 {string} string
// @Failure 400 {object} map[string]string
// @Failure 422 {object} map[string]string
// @Router /api/v1/decode [post]
func (h *handler) handleDecode(c *gin.Context) {
	codec, err := codecFromQuery(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	codec.SetLogger(h.log)

	data, name, ok := readUpload(c)
	if !ok {
		return
	}

	text, err := codec.DecodeBytes(data)
	if err != nil {
		h.log.WithError(err).WithField("file", name).Debug("decode failed")
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
		return
	}

	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%s", outputName(name, ".txt")))
	c.Data(http.StatusOK, "text/plain; charset=utf-8", []byte(text))
}

// handleInfo godoc
// @Summary Describe a MIDI file
// @Description Upload a MIDI file and receive a structural summary
// @Tags info
// @Accept multipart/form-data
// @Produce json
// @Param file formData file true "MIDI file"
// @Success 200 {object} map[string]interface{}
// @Failure 400 {object} map[string]string
// @Failure 422 {object} map[string]string
// @Router /api/v1/info [post]
func (h *handler) handleInfo(c *gin.Context) {
	data, _, ok := readUpload(c)
	if !ok {
		return
	}

	codec := binasc.New()
	codec.SetMIDI(true)
	codec.SetLogger(h.log)
	structure, err := codec.DecodeMIDI(io.Discard, bytes.NewReader(data))
	if err != nil {
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
		return
	}

	body := gin.H{
		"header": structure.Header,
		"tracks": structure.Tracks,
	}
	if sum, err := inspect.Inspect(data); err == nil {
		body["summary"] = sum
		body["differences"] = sum.Compare(structure)
	} else {
		h.log.WithError(err).Debug("gomidi could not read file")
	}
	c.JSON(http.StatusOK, body)
}

// readUpload reads the multipart "file" field, writing an error response
// when it is missing or larger than maxUpload
func readUpload(c *gin.Context) ([]byte, string, bool) {
	file, header, err := c.Request.FormFile("file")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "No file uploaded"})
		return nil, "", false
	}
	defer func() { _ = file.Close() }()

	data, err := io.ReadAll(io.LimitReader(file, maxUpload+1))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Failed to read file"})
		return nil, "", false
	}
	if int64(len(data)) > maxUpload {
		c.JSON(http.StatusRequestEntityTooLarge, gin.H{
			"error": fmt.Sprintf("file is larger than %s", humanize.IBytes(uint64(maxUpload))),
		})
		return nil, "", false
	}
	return data, header.Filename, true
}

func codecFromQuery(c *gin.Context) (*binasc.Codec, error) {
	codec := binasc.New()

	flags := []struct {
		name string
		set  func(bool)
	}{
		{"midi", codec.SetMIDI},
		{"hex", codec.SetBytes},
		{"comments", codec.SetComments},
	}
	for _, f := range flags {
		raw, ok := c.GetQuery(f.name)
		if !ok {
			continue
		}
		v, err := strconv.ParseBool(raw)
		if err != nil {
			return nil, fmt.Errorf("invalid %s value %q", f.name, raw)
		}
		f.set(v)
	}

	sizes := []struct {
		name string
		set  func(int) int
	}{
		{"line_length", codec.SetLineLength},
		{"line_bytes", codec.SetLineBytes},
	}
	for _, s := range sizes {
		raw, ok := c.GetQuery(s.name)
		if !ok {
			continue
		}
		v, err := strconv.Atoi(raw)
		if err != nil {
			return nil, fmt.Errorf("invalid %s value %q", s.name, raw)
		}
		s.set(v)
	}
	return codec, nil
}

func outputName(name, ext string) string {
	base := strings.TrimSuffix(filepath.Base(name), filepath.Ext(name))
	if base == "" || base == "." {
		base = "converted"
	}
	return base + ext
}
