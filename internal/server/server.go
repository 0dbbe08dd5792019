package server

import (
	"context"
	"io"
	"log"
	"mime/multipart"
	"net/http"
	"os"

	"github.com/gin-gonic/gin"

	"github.com/geoweave/geoweave/internal/amap"
	"github.com/geoweave/geoweave/internal/config"
	"github.com/geoweave/geoweave/internal/core"
	"github.com/geoweave/geoweave/internal/imagemeta"
	"github.com/geoweave/geoweave/internal/llm"
)

// 32 MB is plenty for a handful of photos.
const maxUploadBytes = 32 << 20

type Server struct {
	Pipeline *core.Pipeline
}

// loadConfig reads the TOML file named by CONFIG_PATH and layers env vars on
// top. Env vars win over the file; a missing file is survivable as long as
// the environment fills the gaps.
func loadConfig() *config.Config {
	cfgPath := os.Getenv("CONFIG_PATH")
	if cfgPath == "" {
		cfgPath = "config/config.toml"
	}

	cfg, err := config.Load(cfgPath)
	if err != nil {
		log.Printf("Warning: could not load %s: %v. Starting from an empty config, env vars must fill the gaps", cfgPath, err)
		cfg = &config.Config{}
	}

	if v := os.Getenv("LLM_PROVIDER"); v != "" {
		cfg.LLM.Provider = v
	}
	if v := os.Getenv("LLM_MODEL"); v != "" {
		cfg.LLM.Model = v
	}
	if v := os.Getenv("LLM_API_KEY"); v != "" {
		cfg.LLM.APIKey = v
	}
	if v := os.Getenv("DASHSCOPE_API_KEY"); v != "" && cfg.LLM.APIKey == "" {
		cfg.LLM.APIKey = v
	}
	if v := os.Getenv("LLM_BASE_URL"); v != "" {
		cfg.LLM.BaseURL = v
	}
	if v := os.Getenv("AMAP_API_KEY"); v != "" {
		cfg.AMap.APIKey = v
	}
	if v := os.Getenv("AMAP_SECRET"); v != "" {
		cfg.AMap.Secret = v
	}

	if cfg.LLM.Provider == "" {
		cfg.LLM.Provider = "qwen"
		if cfg.LLM.Model == "" {
			cfg.LLM.Model = "qwen-plus"
		}
	}
	return cfg
}

func NewServer() *Server {
	cfg := loadConfig()
	if cfg.AMap.APIKey == "" {
		log.Printf("Warning: no AMap API key configured, geocoding and routing will fail")
	}

	llmClient, err := llm.NewClient(context.Background(), cfg.LLM)
	if err != nil {
		log.Fatalf("Failed to initialize LLM client: %v", err)
	}

	amapClient := amap.NewClient(cfg.AMap.APIKey, cfg.AMap.Secret, cfg.AMap.BaseURL)
	pipeline := core.NewPipeline(llmClient, amapClient, imagemeta.NewExifReader(), cfg)

	return &Server{Pipeline: pipeline}
}

func (s *Server) SetupRouter() *gin.Engine {
	r := gin.Default()
	r.MaxMultipartMemory = maxUploadBytes

	r.GET("/", s.Root)
	r.POST("/process-text", s.ProcessText)
	r.POST("/process-image", s.ProcessImage)
	r.POST("/process-trip", s.ProcessTrip)

	return r
}

func (s *Server) Root(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"message": "geoweave: place extraction and itinerary mapping API"})
}

type ProcessTextRequest struct {
	Text string `form:"text" json:"text"`
	Mode string `form:"mode" json:"mode"`
}

// ProcessText accepts the trip description as a form field or JSON body.
// The artifact is returned with HTTP 200 even when success=false: resolving
// nothing is a domain outcome, not a transport error.
func (s *Server) ProcessText(c *gin.Context) {
	var req ProcessTextRequest
	if err := c.ShouldBind(&req); err != nil || req.Text == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "missing 'text'"})
		return
	}

	artifact := s.Pipeline.Process(c.Request.Context(), core.Request{Text: req.Text, Mode: req.Mode})
	c.JSON(http.StatusOK, artifact)
}

func (s *Server) ProcessImage(c *gin.Context) {
	file, err := c.FormFile("file")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "missing 'file' upload"})
		return
	}

	data, err := readUpload(file)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "could not read upload"})
		return
	}

	artifact := s.Pipeline.ProcessImage(c.Request.Context(), file.Filename, data)
	c.JSON(http.StatusOK, artifact)
}

// ProcessTrip accepts text plus any number of images in one multipart
// request and runs the mixed-source pipeline over all of them.
func (s *Server) ProcessTrip(c *gin.Context) {
	form, err := c.MultipartForm()
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "expected multipart form"})
		return
	}

	req := core.Request{
		Text: c.PostForm("text"),
		Mode: c.PostForm("mode"),
	}
	for _, file := range form.File["files"] {
		data, err := readUpload(file)
		if err != nil {
			log.Printf("skipping unreadable upload %s: %v", file.Filename, err)
			continue
		}
		req.Images = append(req.Images, core.ImageInput{Name: file.Filename, Data: data})
	}

	if req.Text == "" && len(req.Images) == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "provide 'text' and/or 'files'"})
		return
	}

	artifact := s.Pipeline.Process(c.Request.Context(), req)
	c.JSON(http.StatusOK, artifact)
}

func readUpload(fh *multipart.FileHeader) ([]byte, error) {
	f, err := fh.Open()
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return io.ReadAll(io.LimitReader(f, maxUploadBytes))
}
