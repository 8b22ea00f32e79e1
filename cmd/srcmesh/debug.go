//go:build debug
// +build debug

package main

func init() {
	debugBuild = true
}
