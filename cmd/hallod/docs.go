package main

// General API documentation for swaggo. Run `swag init -g cmd/hallod/main.go`
// to regenerate docs.
//
// @title           hallod API
// @version         1.0
// @description     HTTP API for serverless talking-head video generation.
//
// @contact.name   hallod maintainers
//
// @license.name   MIT
// @license.url    https://opensource.org/licenses/MIT
//
// @BasePath  /
//
// @schemes http
