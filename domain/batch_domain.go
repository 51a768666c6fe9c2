package domain

import (
	"errors"
)

var (
	MessageSuccessCreateBatch = "batch created successfully"
	MessageSuccessGetBatches  = "batches retrieved successfully"
	MessageSuccessGetBatch    = "batch retrieved successfully"
	MessageSuccessUpdateBatch = "batch updated successfully"
	MessageSuccessDeleteBatch = "batch deleted successfully"

	MessageFailedCreateBatch   = "failed to create batch"
	MessageFailedGetBatches    = "failed to retrieve batches"
	MessageFailedGetBatch      = "failed to retrieve batch"
	MessageFailedUpdateBatch   = "failed to update batch"
	MessageFailedDeleteBatch   = "failed to delete batch"
	MessageBatchFieldsRequired = "nombre, especie and variedad are required"
	MessageBatchConflict       = "a batch with this id already exists"

	ErrBatchNotFound = errors.New("batch not found")
	ErrBatchConflict = errors.New("batch id already exists")
)

type (
	// BatchRequest is the body of both create and update: the three mutable
	// fields are always replaced together.
	BatchRequest struct {
		Nombre   string `json:"nombre" validate:"required"`
		Especie  string `json:"especie" validate:"required"`
		Variedad string `json:"variedad" validate:"required"`
	}

	Batch struct {
		ID       string `json:"id"`
		Nombre   string `json:"nombre"`
		Especie  string `json:"especie"`
		Variedad string `json:"variedad"`
	}
)
