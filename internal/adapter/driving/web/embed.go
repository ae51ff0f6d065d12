package web

import "embed"

// StaticFS holds the embedded dashboard assets (page shell, CSS, JS).
//
//go:embed static/*
var StaticFS embed.FS
