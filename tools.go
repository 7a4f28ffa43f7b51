//go:build tools

package main

// Ferramenta de geração do swagger.json a partir das anotações godoc:
//
//	swag init -g cmd/api/main.go -o docs
import (
	_ "github.com/swaggo/swag"
)
