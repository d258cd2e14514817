package services

import apperrors "tabinsight/internal/errors"

// Request errors shared by the services
var (
	ErrFilenameRequired = apperrors.Validation("filename is required")
	ErrEmptyUpload      = apperrors.Validation("uploaded file is empty")
	ErrEmptyGrid        = apperrors.Validation("manual table needs a header row")
	ErrColumnsRequired  = apperrors.Validation("at least one column is required")
	ErrTargetRequired   = apperrors.Validation("target column and feature columns are required")
	ErrGroupRequired    = apperrors.Validation("group column is required")
	ErrRadarRequired    = apperrors.Validation("id column and target value are required")
	ErrColumnRequired   = apperrors.Validation("column is required")
)
