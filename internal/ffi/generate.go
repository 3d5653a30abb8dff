package ffi

// Builds SimpleBLE and regenerates zz_link_generated.go.
//go:generate go run ../../cmd/simplegoble-build -C ../..
