package api

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"relation-kg/backend/internal/constants"
	"relation-kg/backend/internal/relation"
	apperrors "relation-kg/backend/pkg/errors"
)

func (s *Server) listRelations(c *gin.Context) {
	page, err := queryInt(c, "page", constants.DefaultPage)
	if err != nil {
		s.respondError(c, err, "parse page")
		return
	}
	pageSize, err := queryInt(c, "pageSize", s.opts.DefaultPageSize)
	if err != nil {
		s.respondError(c, err, "parse pageSize")
		return
	}

	result := relation.Apply(s.readRelations(c.Request.Context()), relation.Query{
		Search:      strings.TrimSpace(c.Query("search")),
		BigRelation: strings.TrimSpace(c.Query("bigRelation")),
		Page:        page,
		PageSize:    pageSize,
	})

	ok(c, result.Items, gin.H{
		"total":    result.Total,
		"page":     result.Page,
		"pageSize": result.PageSize,
	})
}

func (s *Server) getRelation(c *gin.Context) {
	id, err := relationID(c)
	if err != nil {
		s.respondError(c, err, "parse relation id")
		return
	}

	rec, err := s.relations.Get(c.Request.Context(), id)
	if err != nil {
		if !apperrors.IsNotFound(err) {
			// Read failures degrade to an empty set, where no id exists
			s.logger.Error("Failed to read relations", zap.Error(err))
			err = apperrors.NewNotFound(constants.ResourceRelation, strconv.Itoa(id))
		}
		s.respondError(c, err, "get relation")
		return
	}
	ok(c, rec, nil)
}

func (s *Server) createRelation(c *gin.Context) {
	var req relation.Fields
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, "invalid request body: "+err.Error())
		return
	}

	rec, err := s.relations.Create(c.Request.Context(), req)
	if err != nil {
		s.respondError(c, err, "create relation")
		return
	}
	ok(c, rec, gin.H{"message": "relation created"})
}

func (s *Server) updateRelation(c *gin.Context) {
	id, err := relationID(c)
	if err != nil {
		s.respondError(c, err, "parse relation id")
		return
	}

	var req relation.Patch
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, "invalid request body: "+err.Error())
		return
	}

	rec, err := s.relations.Update(c.Request.Context(), id, req)
	if err != nil {
		s.respondError(c, err, "update relation")
		return
	}
	ok(c, rec, gin.H{"message": "relation updated"})
}

func (s *Server) deleteRelation(c *gin.Context) {
	id, err := relationID(c)
	if err != nil {
		s.respondError(c, err, "parse relation id")
		return
	}

	if err := s.relations.Delete(c.Request.Context(), id); err != nil {
		s.respondError(c, err, "delete relation")
		return
	}
	ok(c, nil, gin.H{"message": "relation deleted"})
}

func relationID(c *gin.Context) (int, error) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		return 0, apperrors.NewValidation("id", "invalid relation id: "+c.Param("id"))
	}
	return id, nil
}

// queryInt parses a positive integer query parameter. Absent or
// non-positive values fall back to def; non-numeric values are rejected.
func queryInt(c *gin.Context, key string, def int) (int, error) {
	raw := strings.TrimSpace(c.Query(key))
	if raw == "" {
		return def, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return 0, apperrors.NewValidation(key, key+" must be an integer")
	}
	if n < 1 {
		return def, nil
	}
	return n, nil
}
