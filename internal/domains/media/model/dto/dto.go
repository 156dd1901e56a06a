package dto

import (
	"mime/multipart"
)

// AllowedContentTypes is the mimetypes list sniffed uploads are checked against.
const AllowedContentTypes = "image/jpeg image/png image/gif image/webp"

type UploadImagesRequest struct {
	Bucket string                  `json:"bucket" validate:"omitempty,max=63,hostname_rfc1123"`
	Images []*multipart.FileHeader `json:"files"  validate:"required,min=1,dive,required"`
}

type UploadImageResponse struct {
	URL      string `json:"url"`
	FileName string `json:"file_name"`
}

func (r *UploadImageResponse) FromModel(url, fileName string) {
	r.URL = url
	r.FileName = fileName
}

type UploadImagesResponse struct {
	URLs []string `json:"urls"`
}
