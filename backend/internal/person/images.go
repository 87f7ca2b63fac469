package person

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"go.uber.org/zap"
	"relation-kg/backend/internal/constants"
	"relation-kg/backend/internal/media"
	"relation-kg/backend/internal/utils"
	apperrors "relation-kg/backend/pkg/errors"
)

// Upload describes a stored portrait
type Upload struct {
	Person string `json:"person"`
	Image  string `json:"image"`
}

// UploadImage stores data as the portrait of name, replacing any previous one.
// The previous file is removed only after the new mapping is saved.
func (d *Directory) UploadImage(ctx context.Context, name, originalFilename string, data io.Reader) (*Upload, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, apperrors.NewMissingField("person")
	}
	if originalFilename == "" {
		return nil, apperrors.NewUnsupportedMedia(originalFilename, "empty filename")
	}

	ext := utils.FileExtension(originalFilename)
	wantMIME, allowed := constants.AllowedImageExtensions[ext]
	if !allowed {
		return nil, apperrors.NewUnsupportedMedia(originalFilename,
			"unsupported file format, allowed: png, jpg, jpeg, gif, webp")
	}

	body, mime, ok, err := media.SniffImage(data)
	if err != nil {
		return nil, fmt.Errorf("failed to read upload: %w", err)
	}
	if !ok {
		return nil, apperrors.NewUnsupportedMedia(originalFilename,
			fmt.Sprintf("file content is not a supported image (detected %s)", mime.String()))
	}
	if !mime.Is(wantMIME) {
		return nil, apperrors.NewUnsupportedMedia(originalFilename,
			fmt.Sprintf("file content is %s but the extension is .%s", mime.String(), ext))
	}

	filename := d.imageFilename(name, ext)
	if err := d.files.Save(filename, body); err != nil {
		return nil, fmt.Errorf("failed to save image for %s: %w", name, err)
	}

	prev, hadPrev, err := d.images.Set(ctx, name, filename)
	if err != nil {
		if cleanupErr := d.files.Delete(filename); cleanupErr != nil {
			d.logger.Warn("Failed to remove unmapped upload", zap.String("image", filename), zap.Error(cleanupErr))
		}
		return nil, fmt.Errorf("failed to map image for %s: %w", name, err)
	}

	if hadPrev && prev != filename {
		if err := d.files.Delete(prev); err != nil {
			d.logger.Warn("Failed to remove superseded image",
				zap.String("person", name),
				zap.String("image", prev),
				zap.Error(err),
			)
		}
	}

	d.logger.Info("Person image uploaded",
		zap.String("person", name),
		zap.String("image", filename),
		zap.String("content_type", mime.String()),
	)
	return &Upload{Person: name, Image: filename}, nil
}

// DeleteImage removes the portrait mapping of name and its file
func (d *Directory) DeleteImage(ctx context.Context, name string) error {
	filename, had, err := d.images.Delete(ctx, name)
	if err != nil {
		return fmt.Errorf("failed to delete image mapping for %s: %w", name, err)
	}
	if !had {
		return apperrors.NewNotFound(constants.ResourceImage, name)
	}

	if err := d.files.Delete(filename); err != nil {
		d.logger.Warn("Failed to remove image file",
			zap.String("person", name),
			zap.String("image", filename),
			zap.Error(err),
		)
	}
	return nil
}

// OpenImage opens a stored portrait by its stored filename
func (d *Directory) OpenImage(filename string) (*os.File, os.FileInfo, error) {
	return d.files.Open(filename)
}

// ImageMap returns the full person to filename mapping
func (d *Directory) ImageMap(ctx context.Context) map[string]string {
	return d.images.ListAll(ctx)
}

// imageFilename builds "<name>_<timestamp>_<random>.<ext>"; the random part
// keeps two uploads within the same second apart
func (d *Directory) imageFilename(name, ext string) string {
	suffix := strings.ReplaceAll(d.newID(), "-", "")
	if len(suffix) > 8 {
		suffix = suffix[:8]
	}
	return fmt.Sprintf("%s_%s_%s.%s",
		utils.SanitizeFilename(name),
		d.now().Format(constants.UploadTimestampLayout),
		suffix,
		ext,
	)
}
