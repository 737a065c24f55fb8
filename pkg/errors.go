package pact

import (
	"errors"
	"fmt"
)

var (
	ErrInvalidArray      = errors.New("invalid array")
	ErrInvalidIndexTable = errors.New("invalid index table")
	ErrSizeMismatch      = errors.New("size mismatch")
	ErrNoPackFiles       = errors.New("no pack files found")
	ErrNoUnindexedFiles  = errors.New("no unindexed pack files found")
)

// ErrOpenFile represents an error when opening a file.
type ErrOpenFile struct {
	Filename string
	Err      error
}

func (e *ErrOpenFile) Error() string {
	return fmt.Sprintf("error opening file %q: %v", e.Filename, e.Err)
}

func (e *ErrOpenFile) Unwrap() error {
	return e.Err
}

// ErrCreateGroup represents an error when creating an HDF5 group.
type ErrCreateGroup struct {
	GroupName string
	Err       error
}

func (e *ErrCreateGroup) Error() string {
	return fmt.Sprintf("error creating group %q: %v", e.GroupName, e.Err)
}

func (e *ErrCreateGroup) Unwrap() error {
	return e.Err
}

// ErrCreateDataset represents an error when creating an HDF5 dataset.
type ErrCreateDataset struct {
	DatasetName string
	Err         error
}

func (e *ErrCreateDataset) Error() string {
	return fmt.Sprintf("error creating dataset %q: %v", e.DatasetName, e.Err)
}

func (e *ErrCreateDataset) Unwrap() error {
	return e.Err
}

// ArrayError reports a host array rejected at the boundary: wrong element
// type, memory order, rank or shape.
type ArrayError struct {
	Name   string
	Reason string
}

func (e *ArrayError) Error() string {
	return fmt.Sprintf("array %q: %s", e.Name, e.Reason)
}

func (e *ArrayError) Unwrap() error {
	return ErrInvalidArray
}

// IndexError reports a table entry that resolves outside its target buffer.
type IndexError struct {
	Table    string
	Position int
	Value    int
	Limit    int
}

func (e *IndexError) Error() string {
	return fmt.Sprintf("%s[%d] resolves to %d, outside [0, %d)", e.Table, e.Position, e.Value, e.Limit)
}

func (e *IndexError) Unwrap() error {
	return ErrInvalidIndexTable
}

// SizeError reports a declared size that does not match a buffer length.
type SizeError struct {
	Name string
	Want int
	Got  int
}

func (e *SizeError) Error() string {
	return fmt.Sprintf("%s: want %d, got %d", e.Name, e.Want, e.Got)
}

func (e *SizeError) Unwrap() error {
	return ErrSizeMismatch
}
