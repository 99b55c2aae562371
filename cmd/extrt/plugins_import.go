package main

// Blank imports ensure every bundled contract's init() registration runs for
// this binary, the same way the teacher wires its plugins in from main.
import (
	_ "github.com/extrt-io/extrt/internal/greeterdemo"
)
