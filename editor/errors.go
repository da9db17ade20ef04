package editor

import "errors"

var (
	ErrEditInProgress   = errors.New("an edit is already in progress")
	ErrNotEditing       = errors.New("no edit in progress")
	ErrUnknownOperation = errors.New("unknown operation")
	ErrEmptySelection   = errors.New("nothing selected")
)
