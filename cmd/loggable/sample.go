package main

import (
	"context"
	"errors"
	"fmt"
)

// Greeter and Calculator are the sample services instrumented by the demo.
type Greeter struct{}

func (g *Greeter) Greet(_ context.Context, name, lastName string) (string, error) {
	if name == "" {
		return "", errors.New("name is required")
	}
	return fmt.Sprintf("Hello, %s %s!", name, lastName), nil
}

type Calculator struct{}

// DivisionByZeroError reports its own kind in the errorType field.
type DivisionByZeroError struct {
	Dividend int
}

func (e *DivisionByZeroError) Error() string {
	return fmt.Sprintf("cannot divide %d by zero", e.Dividend)
}

func (e *DivisionByZeroError) Kind() string { return "DivisionByZero" }

func (c *Calculator) Divide(_ context.Context, a, b int) (int, error) {
	if b == 0 {
		return 0, &DivisionByZeroError{Dividend: a}
	}
	return a / b, nil
}
