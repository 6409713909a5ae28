package server

import (
	"context"
	"log"
	"net/http"
	"os"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/epitrack/weave/internal/config"
	"github.com/epitrack/weave/internal/core/creation"
	"github.com/epitrack/weave/internal/core/model"
	"github.com/epitrack/weave/internal/core/summarize"
	"github.com/epitrack/weave/internal/core/visualid"
	"github.com/epitrack/weave/internal/driver"
	"github.com/epitrack/weave/internal/registry"
)

type Server struct {
	Directory creation.Directory
	Checker   visualid.Checker
	Config    *config.Config
}

func NewServer() *Server {
	cfgPath := os.Getenv("CONFIG_PATH")
	if cfgPath == "" {
		cfgPath = "config/config.toml"
	}
	cfg, err := config.Load(cfgPath)
	if err != nil {
		log.Printf("Could not load %s: %v. Using defaults", cfgPath, err)
		cfg = config.Default()
	}

	// Env vars override the file, same precedence everywhere.
	if uri := os.Getenv("MEMGRAPH_URI"); uri != "" {
		cfg.Memgraph.URI = uri
	}
	if user := os.Getenv("MEMGRAPH_USER"); user != "" {
		cfg.Memgraph.User = user
	}
	if pass := os.Getenv("MEMGRAPH_PASSWORD"); pass != "" {
		cfg.Memgraph.Password = pass
	}
	if port := os.Getenv("PORT"); port != "" {
		cfg.Server.Port = port
	}

	d, err := driver.NewMemgraphDriver(cfg.Memgraph.URI, cfg.Memgraph.User, cfg.Memgraph.Password)
	if err != nil {
		log.Fatalf("Failed to connect to Memgraph: %v", err)
	}
	if err := d.BuildIndices(context.Background()); err != nil {
		log.Printf("Warning: failed to build indices: %v", err)
	}

	reg := registry.NewRegistry(d)
	if cfg.Duplicates.MaxCandidates > 0 {
		reg.MaxCandidates = cfg.Duplicates.MaxCandidates
	}

	return &Server{
		Directory: reg,
		Checker:   visualid.NewCache(reg, time.Duration(cfg.VisualID.CacheTTLSeconds)*time.Second),
		Config:    cfg,
	}
}

func (s *Server) SetupRouter() *gin.Engine {
	r := gin.Default()

	r.POST("/outbreaks/:outbreakId/people", s.CreatePerson)
	r.POST("/outbreaks/:outbreakId/people/summarize", s.Summarize)
	r.GET("/outbreaks/:outbreakId/visual-id/check", s.CheckVisualID)

	return r
}

type CreatePersonRequest struct {
	Kind             string            `json:"kind"`
	Fields           map[string]any    `json:"fields"`
	Relationship     map[string]any    `json:"relationship"`
	RelatedEntityID  string            `json:"related_entity_id"`
	CreateAnother    bool              `json:"create_another"`
	ReviewConfirmed  bool              `json:"review_confirmed"`
	DuplicateActions map[string]string `json:"duplicate_actions"`
}

// CreatePerson runs one creation attempt. The duplicate review is two
// phase: a first request finding duplicates comes back 409 with the
// candidates; the client resubmits with review_confirmed and its actions.
func (s *Server) CreatePerson(c *gin.Context) {
	var req CreatePersonRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
		return
	}

	kind, err := model.ParseKind(req.Kind)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if req.RelatedEntityID == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "related_entity_id is required"})
		return
	}

	decision := make(model.DuplicateDecision, len(req.DuplicateActions))
	for id, action := range req.DuplicateActions {
		decision[id] = model.Action(action)
	}
	if err := decision.Validate(); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	reviewer := &requestReviewer{confirmed: req.ReviewConfirmed, decision: decision}
	saga := creation.NewSaga(s.Directory, reviewer)

	outcome := saga.Run(c.Request.Context(), creation.Input{
		OutbreakID:      c.Param("outbreakId"),
		Kind:            kind,
		Fields:          req.Fields,
		Relationship:    req.Relationship,
		RelatedEntityID: req.RelatedEntityID,
		CreateAnother:   req.CreateAnother,
	})

	switch {
	case outcome.Cancelled:
		c.JSON(http.StatusConflict, gin.H{
			"error":      "duplicate candidates found, review required",
			"duplicates": reviewer.candidates,
		})
	case outcome.Failed() && outcome.Created():
		// Annotate failure: the record is committed, surface a warning only.
		c.JSON(http.StatusCreated, gin.H{
			"person_id":      outcome.PersonID,
			"create_another": outcome.CreateAnother,
			"warning":        outcome.Err.Error(),
		})
	case outcome.Failed():
		log.Printf("Failed to create person: %v", outcome.Err)
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": outcome.Err.Error(),
			"stage": string(outcome.Err.Stage),
		})
	default:
		c.JSON(http.StatusCreated, gin.H{
			"person_id":      outcome.PersonID,
			"create_another": outcome.CreateAnother,
		})
	}
}

// requestReviewer resolves the saga's review suspension from what the
// request already carries instead of an interactive dialog.
type requestReviewer struct {
	confirmed  bool
	decision   model.DuplicateDecision
	candidates []creation.Candidate
}

func (r *requestReviewer) Review(ctx context.Context, candidates []creation.Candidate) (model.DuplicateDecision, bool) {
	r.candidates = candidates
	if !r.confirmed {
		return nil, false
	}
	return r.decision, true
}

type SummarizeRequest struct {
	Records []map[string]any `json:"records"`
	Path    string           `json:"path"`
	Kind    string           `json:"kind"`
	DOBPath string           `json:"dob_path"`
	AgePath string           `json:"age_path"`
}

func (s *Server) Summarize(c *gin.Context) {
	var req SummarizeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
		return
	}

	var result summarize.Result
	switch req.Kind {
	case "string":
		result = summarize.Strings(req.Records, req.Path)
	case "date":
		result = summarize.Dates(req.Records, req.Path)
	case "boolean":
		result = summarize.Bools(req.Records, req.Path)
	case "address":
		result = summarize.Addresses(req.Records, req.Path)
	case "age-dob":
		dobPath, agePath := req.DOBPath, req.AgePath
		if dobPath == "" {
			dobPath = "dob"
		}
		if agePath == "" {
			agePath = "age"
		}
		result = summarize.AgeDOB(req.Records, dobPath, agePath)
	default:
		c.JSON(http.StatusBadRequest, gin.H{"error": "unknown summarize kind"})
		return
	}

	c.JSON(http.StatusOK, result)
}

func (s *Server) CheckVisualID(c *gin.Context) {
	mask := c.Query("mask")
	value := c.Query("value")
	if mask == "" || value == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "mask and value are required"})
		return
	}

	valid, err := s.Checker.CheckVisualID(c.Request.Context(), c.Param("outbreakId"), mask, value)
	if err != nil {
		log.Printf("Failed to check visual id: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to check visual id"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"valid": valid})
}
