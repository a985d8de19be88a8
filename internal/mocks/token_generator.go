package mocks

import "github.com/stretchr/testify/mock"

// TokenGenerator is a mock type for the model.TokenGenerator interface.
type TokenGenerator struct {
	mock.Mock
}

func (_m *TokenGenerator) Generate() (string, error) {
	ret := _m.Called()
	return ret.String(0), ret.Error(1)
}

// NewTokenGenerator creates a new instance of TokenGenerator. It also registers
// a cleanup function to assert the mocks expectations.
func NewTokenGenerator(t interface {
	mock.TestingT
	Cleanup(func())
}) *TokenGenerator {
	m := &TokenGenerator{}
	m.Mock.Test(t)

	t.Cleanup(func() { m.AssertExpectations(t) })

	return m
}
