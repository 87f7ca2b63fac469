package api

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"relation-kg/backend/internal/constants"
	"relation-kg/backend/internal/person"
	"relation-kg/backend/internal/relation"
)

func (s *Server) listPersons(c *gin.Context) {
	persons, err := s.persons.ListPersonsWithImages(c.Request.Context())
	if err != nil {
		s.logger.Error("Failed to list persons, serving empty set", zap.Error(err))
		persons = []person.Person{}
	}
	ok(c, persons, gin.H{"total": len(persons)})
}

func (s *Server) searchPersons(c *gin.Context) {
	names, err := s.persons.SearchPersons(c.Request.Context(), strings.TrimSpace(c.Query("keyword")))
	if err != nil {
		s.logger.Error("Failed to search persons, serving empty set", zap.Error(err))
		names = []string{}
	}
	ok(c, names, nil)
}

func (s *Server) personRelations(c *gin.Context) {
	records, err := s.persons.RelationsOf(c.Request.Context(), c.Param("name"))
	if err != nil {
		s.logger.Error("Failed to read person relations, serving empty set", zap.Error(err))
		records = []relation.Record{}
	}
	ok(c, records, gin.H{"total": len(records)})
}

func (s *Server) deletePerson(c *gin.Context) {
	name := c.Param("name")

	removed, err := s.persons.DeletePerson(c.Request.Context(), name)
	if err != nil {
		s.respondError(c, err, "delete person")
		return
	}
	ok(c, gin.H{"person": name, "removed": removed}, gin.H{
		"message": fmt.Sprintf("deleted person %s and %d relations", name, removed),
	})
}

func (s *Server) uploadImage(c *gin.Context) {
	name := c.Param("name")
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, s.opts.MaxUploadBytes)

	header, err := c.FormFile(constants.UploadFormField)
	if err != nil {
		var tooLarge *http.MaxBytesError
		switch {
		case errors.As(err, &tooLarge):
			fail(c, http.StatusRequestEntityTooLarge, fmt.Sprintf("upload exceeds %d bytes", tooLarge.Limit))
		case errors.Is(err, http.ErrMissingFile):
			fail(c, http.StatusBadRequest, "no file uploaded")
		default:
			fail(c, http.StatusBadRequest, "invalid upload: "+err.Error())
		}
		return
	}

	file, err := header.Open()
	if err != nil {
		s.respondError(c, fmt.Errorf("failed to open upload: %w", err), "upload image")
		return
	}
	defer file.Close()

	up, err := s.persons.UploadImage(c.Request.Context(), name, header.Filename, file)
	if err != nil {
		s.respondError(c, err, "upload image")
		return
	}
	ok(c, up, gin.H{"message": "image uploaded"})
}

func (s *Server) deleteImage(c *gin.Context) {
	if err := s.persons.DeleteImage(c.Request.Context(), c.Param("name")); err != nil {
		s.respondError(c, err, "delete image")
		return
	}
	ok(c, nil, gin.H{"message": "image deleted"})
}

func (s *Server) serveImage(c *gin.Context) {
	file, info, err := s.persons.OpenImage(c.Param("filename"))
	if err != nil {
		s.respondError(c, err, "serve image")
		return
	}
	defer file.Close()

	http.ServeContent(c.Writer, c.Request, info.Name(), info.ModTime(), file)
}

func (s *Server) imageMap(c *gin.Context) {
	ok(c, s.persons.ImageMap(c.Request.Context()), nil)
}
