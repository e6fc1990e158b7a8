// Copyright 2025 The Jiggasa Authors
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.


// Package websearch provides the web lookup tier: a search provider contract,
// a SearXNG-backed implementation that fetches and extracts page text, and a
// quota gate that bounds how many searches a process may issue.
package websearch

import (
	"context"
	"errors"
)

// Candidate is one search result with extracted page content.
type Candidate struct {
	URL     string
	Title   string
	Content string
}

// Provider performs a web search and returns up to limit candidates with
// their page content already extracted.
type Provider interface {
	Search(ctx context.Context, query string, limit int) ([]Candidate, error)
}

// ErrNoResults is returned when a search completes but yields no usable
// candidates.
var ErrNoResults = errors.New("no search results")
