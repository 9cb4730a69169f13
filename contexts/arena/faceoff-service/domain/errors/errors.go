package errors

import "errors"

var (
	ErrVotePairIncomplete  = errors.New("voting requires two characters")
	ErrSelfVote            = errors.New("cannot vote for and against the same character")
	ErrCharacterNotFound   = errors.New("one of the characters no longer exists")
	ErrCharacterExists     = errors.New("character is already in the database")
	ErrInvalidEnlistInput  = errors.New("invalid enlist input")
	ErrDirectoryUnparsable = errors.New("directory response could not be parsed")
	ErrDirectoryNoMatch    = errors.New("character is not a registered citizen of New Eden")
	ErrConflict            = errors.New("faceoff conflict")
)
