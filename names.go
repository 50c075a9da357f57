// Copyright (C) 2019-2025, Lux Industries, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package kanboard

import "strings"

// AsyncMarker is the suffix that routes a call through the asynchronous path.
const AsyncMarker = "_async"

// nameSeparator splits caller-side names into words.
const nameSeparator = "_"

// IsAsyncName reports whether name carries the async marker.
func IsAsyncName(name string) bool {
	return strings.HasSuffix(name, AsyncMarker)
}

// TrimAsyncMarker removes a trailing async marker, if any.
func TrimAsyncMarker(name string) string {
	return strings.TrimSuffix(name, AsyncMarker)
}

// ToWireName converts a snake_case name to the camelCase method name the
// server expects. The first word is kept as is; every following word has its
// first ASCII letter upper-cased and the rest lower-cased.
//
//	ToWireName("create_project") == "createProject"
//	ToWireName("ping")           == "ping"
func ToWireName(name string) string {
	words := strings.Split(name, nameSeparator)
	var b strings.Builder
	b.Grow(len(name))
	b.WriteString(words[0])
	for _, w := range words[1:] {
		b.WriteString(titleASCII(w))
	}
	return b.String()
}

// ResolveName splits a caller-side name into its wire method name and
// whether it should run asynchronously.
func ResolveName(name string) (method string, async bool) {
	if IsAsyncName(name) {
		return ToWireName(TrimAsyncMarker(name)), true
	}
	return ToWireName(name), false
}

func titleASCII(word string) string {
	if word == "" {
		return ""
	}
	b := []byte(word)
	for i, c := range b {
		switch {
		case i == 0 && 'a' <= c && c <= 'z':
			b[i] = c - ('a' - 'A')
		case i > 0 && 'A' <= c && c <= 'Z':
			b[i] = c + ('a' - 'A')
		}
	}
	return string(b)
}
