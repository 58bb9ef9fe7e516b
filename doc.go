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

// Package ips4o sorts a slice in place with In-Place Super-Scalar Sample
// Sort (IPS⁴o): an adaptive analyze front-end routes already-structured
// input to cheap paths (reverse, near-sorted merge, partition-friendly
// quicksort), and whatever remains is sorted with a branchless k-way
// classifier, a lock-free in-place block permutation, and a parallel
// coordinator that uses every available worker when asked to.
//
// Sorting is not stable: equal elements may be reordered. The comparator
// passed to SortFunc, SortKeyFunc, SortParallelFunc must be a strict weak
// order; violating that is a caller error the package does not detect.
package ips4o
