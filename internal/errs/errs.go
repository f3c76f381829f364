package errs

import (
	"errors"
	"fmt"
)

// Kind classifies an error by where it came from and how callers should
// react to it.
type Kind uint8

const (
	KindUnknown Kind = iota
	KindConfig       // malformed options, unknown kinds, missing fields
	KindResolve      // referenced channel/role/emoji/guild does not exist
	KindPlatform     // chat platform call failed at runtime
	KindUserInput    // invalid administrator input
)

type Error struct {
	kind Kind
	msg  string
	err  error
}

func (e *Error) Error() string {
	if e.err != nil {
		return e.msg + ": " + e.err.Error()
	}
	return e.msg
}

func (e *Error) Unwrap() error {
	return e.err
}

func (e *Error) Kind() Kind {
	return e.kind
}

func newf(kind Kind, format string, args ...interface{}) *Error {
	return &Error{kind: kind, msg: fmt.Sprintf(format, args...)}
}

func wrap(kind Kind, err error, format string, args ...interface{}) *Error {
	return &Error{kind: kind, msg: fmt.Sprintf(format, args...), err: err}
}

func Config(format string, args ...interface{}) *Error {
	return newf(KindConfig, format, args...)
}

func Resolve(format string, args ...interface{}) *Error {
	return newf(KindResolve, format, args...)
}

func Platform(err error, format string, args ...interface{}) *Error {
	return wrap(KindPlatform, err, format, args...)
}

func UserInput(format string, args ...interface{}) *Error {
	return newf(KindUserInput, format, args...)
}

func WrapConfig(err error, format string, args ...interface{}) *Error {
	return wrap(KindConfig, err, format, args...)
}

// KindOf returns the kind of err, walking the wrap chain.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.kind
	}
	return KindUnknown
}

func IsConfig(err error) bool    { return KindOf(err) == KindConfig }
func IsResolve(err error) bool   { return KindOf(err) == KindResolve }
func IsPlatform(err error) bool  { return KindOf(err) == KindPlatform }
func IsUserInput(err error) bool { return KindOf(err) == KindUserInput }
