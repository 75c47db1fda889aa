package models

import "errors"

var (
	ErrNilComponent     = errors.New("models: nil component")
	ErrComponentIDRange = errors.New("models: component id out of range")
	ErrDuplicateID      = errors.New("models: component id already registered")
	ErrDuplicateTag     = errors.New("models: component tag already registered")
	ErrEmptyTag         = errors.New("models: empty component tag")
	ErrNilFactory       = errors.New("models: nil component factory")
)
