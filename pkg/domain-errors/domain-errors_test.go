package domainerrors

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/suite"
)

// DomainErrorsSuite tests the domain error primitives used at every layer of
// the claim pipeline.
type DomainErrorsSuite struct {
	suite.Suite
}

func TestDomainErrorsSuite(t *testing.T) {
	suite.Run(t, new(DomainErrorsSuite))
}

func (s *DomainErrorsSuite) TestErrorInterface() {
	s.Run("returns message when present", func() {
		err := &Error{Code: CodeVerificationFailed, Message: "token missing"}
		s.Equal("token missing", err.Error())
	})

	s.Run("returns code when message is empty", func() {
		err := &Error{Code: CodeRejected}
		s.Equal("rejected", err.Error())
	})
}

func (s *DomainErrorsSuite) TestUnwrap() {
	inner := errors.New("connection reset")
	err := &Error{Code: CodeSubmissionFailed, Err: inner}
	s.Equal(inner, errors.Unwrap(err))
	s.Nil((&Error{Code: CodeNotFound}).Unwrap())
}

func (s *DomainErrorsSuite) TestIsMatching() {
	s.Run("matches by code only", func() {
		s.True(errors.Is(New(CodeValidation, "a"), &Error{Code: CodeValidation}))
	})

	s.Run("does not match different codes", func() {
		s.False(errors.Is(New(CodeValidation, "a"), &Error{Code: CodeConflict}))
	})

	s.Run("finds inner code through chain", func() {
		inner := New(CodeNotFound, "person not found")
		wrapped := fmt.Errorf("lookup: %w", inner)
		s.True(errors.Is(wrapped, &Error{Code: CodeNotFound}))
	})
}

func (s *DomainErrorsSuite) TestWrapPreservesOriginalCode() {
	inner := New(CodeRejected, "document_number: invalid")
	wrapped := Wrap(inner, CodeInternal, "claim create failed")

	s.True(HasCode(wrapped, CodeRejected))
	s.Equal("claim create failed", wrapped.Error())
}

func (s *DomainErrorsSuite) TestWrapPlainError() {
	wrapped := Wrap(errors.New("eof"), CodeSubmissionFailed, "submit failed")
	s.True(HasCode(wrapped, CodeSubmissionFailed))
}

func (s *DomainErrorsSuite) TestCodeAndMessageOf() {
	s.Equal(CodeStepBlocked, CodeOf(New(CodeStepBlocked, "blocked")))
	s.Equal(CodeInternal, CodeOf(errors.New("plain")))
	s.Equal("blocked", MessageOf(New(CodeStepBlocked, "blocked"), "fallback"))
	s.Equal("fallback", MessageOf(errors.New("plain"), "fallback"))
	s.Equal("fallback", MessageOf(&Error{Code: CodeInternal}, "fallback"))
}
