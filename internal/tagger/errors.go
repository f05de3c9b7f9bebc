package tagger

import (
	"errors"
	"fmt"
)

var (
	// ErrConfiguration matches every *ConfigurationError.
	ErrConfiguration = errors.New("configuration error")
	// ErrInvalidTagDeclaration matches every *InvalidTagDeclarationError.
	ErrInvalidTagDeclaration = errors.New("invalid tag declaration")
)

// ConfigurationError reports tagger configuration that cannot be honoured,
// such as an unknown sorter or an archive without a template.
type ConfigurationError struct {
	Msg string
	Err error
}

func (e *ConfigurationError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("tagger: %s: %v", e.Msg, e.Err)
	}
	return "tagger: " + e.Msg
}

func (e *ConfigurationError) Unwrap() error { return e.Err }

// Is reports whether target is ErrConfiguration.
func (e *ConfigurationError) Is(target error) bool { return target == ErrConfiguration }

// InvalidTagDeclarationError reports a tag entry that does not name exactly
// one tag or whose relations are malformed.
type InvalidTagDeclarationError struct {
	Resource    string // empty when parsed outside a build
	Declaration any
	Reason      string
}

func (e *InvalidTagDeclarationError) Error() string {
	msg := fmt.Sprintf("invalid definition of tag %#v: %s", e.Declaration, e.Reason)
	if e.Resource != "" {
		return e.Resource + ": " + msg
	}
	return msg
}

// Is reports whether target is ErrInvalidTagDeclaration.
func (e *InvalidTagDeclarationError) Is(target error) bool {
	return target == ErrInvalidTagDeclaration
}
