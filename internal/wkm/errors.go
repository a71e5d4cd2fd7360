package wkm

import "errors"

var (
	ErrEmptyDataset      = errors.New("dataset has no samples")
	ErrDimensionMismatch = errors.New("samples have differing dimensions")
	ErrEmptyCluster      = errors.New("empty cluster")
	ErrPartitionSize     = errors.New("partition does not cover the dataset")
	ErrUnknownInitMethod = errors.New("unknown initialization method")
)
