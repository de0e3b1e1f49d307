package service

import "errors"

var (
	// ErrNotDeletable is returned when a page is not eligible for permanent deletion.
	ErrNotDeletable = errors.New("page cannot be permanently deleted")
	// ErrPermissionDenied is returned when the actor lacks the deletion right.
	ErrPermissionDenied = errors.New("permission denied")
	// ErrFileDeletion is returned when the repository fails to delete the live file.
	ErrFileDeletion = errors.New("file deletion failed")
	// ErrDeletionIncomplete is returned when the deletion was rolled back.
	ErrDeletionIncomplete = errors.New("deletion did not complete")
)
