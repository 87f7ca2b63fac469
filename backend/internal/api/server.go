package api

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"relation-kg/backend/internal/constants"
	"relation-kg/backend/internal/person"
	"relation-kg/backend/internal/relation"
	"relation-kg/backend/internal/stats"
	apperrors "relation-kg/backend/pkg/errors"
)

// RelationStore is the relation CRUD surface used by the handlers
type RelationStore interface {
	Read(ctx context.Context) ([]relation.Record, error)
	Get(ctx context.Context, id int) (*relation.Record, error)
	Create(ctx context.Context, f relation.Fields) (*relation.Record, error)
	Update(ctx context.Context, id int, p relation.Patch) (*relation.Record, error)
	Delete(ctx context.Context, id int) error
}

// Options tunes request handling
type Options struct {
	DefaultPageSize int
	MaxUploadBytes  int64
}

// Server exposes the relation graph over HTTP
type Server struct {
	relations RelationStore
	persons   *person.Directory
	dists     stats.Distributions
	opts      Options
	logger    *zap.Logger
}

// NewServer creates the HTTP handlers
func NewServer(relations RelationStore, persons *person.Directory, dists stats.Distributions, opts Options, l *zap.Logger) *Server {
	if opts.DefaultPageSize <= 0 {
		opts.DefaultPageSize = constants.DefaultPageSize
	}
	if opts.MaxUploadBytes <= 0 {
		opts.MaxUploadBytes = 10 << 20
	}
	return &Server{
		relations: relations,
		persons:   persons,
		dists:     dists,
		opts:      opts,
		logger:    l,
	}
}

// RegisterRoutes mounts every /api route on r
func (s *Server) RegisterRoutes(r gin.IRouter) {
	api := r.Group("/api")
	{
		// Relations
		api.GET("/relations", s.listRelations)
		api.GET("/relations/:id", s.getRelation)
		api.POST("/relations", s.createRelation)
		api.PUT("/relations/:id", s.updateRelation)
		api.DELETE("/relations/:id", s.deleteRelation)
		api.GET("/relations-types", s.relationTypes)

		// Statistics
		api.GET("/statistics/big-relations", s.bigDistribution)
		api.GET("/statistics/small-relations", s.smallDistribution)
		api.GET("/statistics/overview", s.overview)

		// Persons
		api.GET("/persons", s.listPersons)
		api.GET("/persons/search", s.searchPersons)
		api.GET("/persons/:name/relations", s.personRelations)
		api.DELETE("/persons/:name", s.deletePerson)

		// Images
		api.POST("/persons/:name/image", s.uploadImage)
		api.DELETE("/persons/:name/image", s.deleteImage)
		api.GET("/images/:filename", s.serveImage)
		api.GET("/person-images", s.imageMap)
	}
}

// readRelations loads the relation set, degrading a read failure to an empty set
func (s *Server) readRelations(ctx context.Context) []relation.Record {
	records, err := s.relations.Read(ctx)
	if err != nil {
		s.logger.Error("Failed to read relations, serving empty set", zap.Error(err))
		return []relation.Record{}
	}
	return records
}

// ok writes a success envelope; extra keys (total, page, pageSize, message) are merged in
func ok(c *gin.Context, data interface{}, extra gin.H) {
	body := gin.H{"success": true}
	if data != nil {
		body["data"] = data
	}
	for k, v := range extra {
		body[k] = v
	}
	c.JSON(http.StatusOK, body)
}

func fail(c *gin.Context, status int, message string) {
	c.JSON(status, gin.H{
		"success": false,
		"message": message,
	})
}

// statusFor maps an error kind to its HTTP status
func statusFor(err error) int {
	switch {
	case apperrors.IsErrorType(err, apperrors.ErrorTypeValidation),
		apperrors.IsErrorType(err, apperrors.ErrorTypeUnsupportedMedia):
		return http.StatusBadRequest
	case apperrors.IsNotFound(err):
		return http.StatusNotFound
	default:
		return http.StatusInternalServerError
	}
}

// respondError reports err as a failure envelope, logging unexpected failures
func (s *Server) respondError(c *gin.Context, err error, action string) {
	status := statusFor(err)
	if status == http.StatusInternalServerError {
		s.logger.Error("Failed to "+action,
			zap.String("path", c.Request.URL.Path),
			zap.Error(err),
		)
	}
	fail(c, status, apperrors.Message(err))
}
