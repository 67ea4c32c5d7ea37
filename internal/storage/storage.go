package storage

import "errors"

var (
	ErrPromptNotFound = errors.New("prompt not found")
	ErrorNoSuchKey    = errors.New("no such key")
)

var (
	ErrFileTooLarge    = errors.New("file size exceeds limit")
	ErrInvalidFileType = errors.New("invalid file type")
	ErrFileNotFound    = errors.New("file not found")
)
