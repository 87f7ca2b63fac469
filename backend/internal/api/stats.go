package api

import (
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"relation-kg/backend/internal/stats"
)

func (s *Server) bigDistribution(c *gin.Context) {
	ok(c, s.distribution("big", s.dists.Big), nil)
}

func (s *Server) smallDistribution(c *gin.Context) {
	ok(c, s.distribution("small", s.dists.Small), nil)
}

// distribution degrades an unreadable table to an empty list
func (s *Server) distribution(kind string, read func() ([]stats.Entry, error)) []stats.Entry {
	entries, err := read()
	if err != nil {
		s.logger.Error("Failed to read distribution", zap.String("kind", kind), zap.Error(err))
		return []stats.Entry{}
	}
	return entries
}

func (s *Server) overview(c *gin.Context) {
	ok(c, stats.Summarize(s.readRelations(c.Request.Context())), nil)
}

func (s *Server) relationTypes(c *gin.Context) {
	types, err := s.dists.Catalog(c.Request.Context())
	if err != nil {
		s.logger.Error("Failed to read relation catalog, serving readable tables", zap.Error(err))
	}
	if types == nil {
		types = &stats.RelationTypes{BigRelations: []string{}, SmallRelations: []string{}}
	}
	ok(c, types, nil)
}
