// Copyright 2020 Erin Shepherd
// SPDX-License-Identifier: ISC

// Command bencode inspects, validates and converts bencoded data
package main

import "go.e43.eu/bencode/cmd/bencode/cmd"

func main() {
	cmd.Execute()
}
