/*
Copyright 2024-2026 The ips4o-go Authors
Licensed under the Apache License, Version 2.0 (the "License");
you may not use this file except in compliance with the License.
you may obtain a copy of the License at

                http://www.apache.org/licenses/LICENSE-2.0

Unless required by applicable law or agreed to in writing, software
distributed under the License is distributed on an "AS IS" BASIS,
WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
See the License for the specific language governing permissions and
limitations under the License.
*/

// Package xfatal reports programmer errors. No function in this library
// returns an error value; a violated internal invariant - a classifier
// invariant violated, a bucket index out of range - is never a
// recoverable condition and is reported by panicking.
package xfatal

import "fmt"

// InvariantError is the panic value raised by Invariant.
type InvariantError struct {
	msg string
}

func (e *InvariantError) Error() string {
	return "ips4o: invariant violated: " + e.msg
}

// Invariant panics with an *InvariantError if cond is false. It exists so
// call sites read as assertions rather than ad-hoc panic(fmt.Sprintf(...))
// calls scattered through the hot loops.
func Invariant(cond bool, format string, args ...any) {
	if !cond {
		panic(&InvariantError{msg: fmt.Sprintf(format, args...)})
	}
}
