// Package assets resolves the media assets that image nodes refer to by id.
package assets

import (
	"fmt"

	"github.com/go-playground/validator/v10"
)

// AssetData is a media asset of the CMS library.
type AssetData struct {
	ID          string   `json:"id" yaml:"id" validate:"required,alphanum,lowercase"`
	Sys         Sys      `json:"sys" yaml:"sys"`
	Title       string   `json:"title" yaml:"title"`
	Description string   `json:"description" yaml:"description"`
	AltText     string   `json:"altText" yaml:"altText"`
	TagIDs      []string `json:"tagIds" yaml:"tagIds"`
	File        File     `json:"file" yaml:"file" validate:"required"`
}

// Sys holds the bookkeeping fields of an asset. Times are kept as they
// come, in RFC 3339 form.
type Sys struct {
	CreatedAt   *string `json:"createdAt" yaml:"createdAt"`
	CreatedBy   *string `json:"createdBy" yaml:"createdBy"`
	UpdatedAt   *string `json:"updatedAt" yaml:"updatedAt"`
	UpdatedBy   *string `json:"updatedBy" yaml:"updatedBy"`
	PublishedAt *string `json:"publishedAt" yaml:"publishedAt"`
}

// File describes the stored file of an asset. Width and height are only
// known for images.
type File struct {
	Name     string `json:"name" yaml:"name" validate:"required"`
	MimeType string `json:"mimeType" yaml:"mimeType" validate:"required"`
	Src      string `json:"src" yaml:"src" validate:"required,url"`
	Size     int64  `json:"size" yaml:"size" validate:"gte=0"`
	Width    *int   `json:"width" yaml:"width" validate:"omitnil,gt=0"`
	Height   *int   `json:"height" yaml:"height" validate:"omitnil,gt=0"`
}

var validate = validator.New(validator.WithRequiredStructEnabled())

// Validate checks the required fields of the asset.
func (a *AssetData) Validate() error {
	if err := validate.Struct(a); err != nil {
		return fmt.Errorf("invalid asset %q: %w", a.ID, err)
	}
	return nil
}
