// Package test provides testify mocks shared by package tests.
package test

import (
	"testing"

	"github.com/stretchr/testify/mock"
)

// expect wires m to t and asserts its expectations when the test ends.
func expect(t *testing.T, m *mock.Mock) {
	t.Helper()

	m.Test(t)
	t.Cleanup(func() { m.AssertExpectations(t) })
}
