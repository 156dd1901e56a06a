package model

import (
	"path"
	"strings"
	"vprime/shared/constant"
)

const EntityName = "media"

// File is an in-memory image moving through the ingestion pipeline.
type File struct {
	Name        string
	ContentType string
	Data        []byte
}

func (f File) Size() int64 {
	return int64(len(f.Data))
}

// BaseName is the file name without its extension.
func (f File) BaseName() string {
	return strings.TrimSuffix(f.Name, path.Ext(f.Name))
}

// Extension maps the content type to a file extension, falling back to the name's own.
func (f File) Extension() string {
	switch f.ContentType {
	case constant.ContentTypeWebP:
		return ".webp"
	case constant.ContentTypeJPEG:
		return ".jpg"
	case constant.ContentTypePNG:
		return ".png"
	case constant.ContentTypeGIF:
		return ".gif"
	default:
		return strings.ToLower(path.Ext(f.Name))
	}
}
