package client

import (
	"io"
	"vprime/shared/constant"

	"github.com/go-resty/resty/v2"
)

// UploadFile is one raw image to push through the upload pipeline.
type UploadFile struct {
	Name        string
	ContentType string
	Body        io.Reader
}

func multipartFields(field string, files []UploadFile) []*resty.MultipartField {
	fields := make([]*resty.MultipartField, 0, len(files))

	for _, file := range files {
		contentType := file.ContentType
		if contentType == constant.Empty {
			contentType = "application/octet-stream"
		}

		fields = append(fields, &resty.MultipartField{
			Param:       field,
			FileName:    file.Name,
			ContentType: contentType,
			Reader:      file.Body,
		})
	}

	return fields
}
