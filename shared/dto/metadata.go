package dto

import (
	"etm/shared/constant"
	"etm/shared/model"
	"etm/shared/timezone"
)

// Metadata is the audit block of every response, timestamps in the app timezone.
type Metadata struct {
	CreatedAt  string `json:"created_at"`
	ModifiedAt string `json:"modified_at"`
	CreatedBy  string `json:"created_by"`
	ModifiedBy string `json:"modified_by"`
}

func NewMetadata(meta model.Metadata) Metadata {
	return Metadata{
		CreatedAt:  timezone.Format(meta.CreatedAt, constant.DateFormat),
		ModifiedAt: timezone.Format(meta.ModifiedAt, constant.DateFormat),
		CreatedBy:  meta.CreatedBy,
		ModifiedBy: meta.ModifiedBy,
	}
}
