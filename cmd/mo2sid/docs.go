package main

// General API documentation for swag; run `swag init` to generate docs.
//
// @title           mo2sid API
// @version         1.0
// @description     HTTP API for sequential mod-archive installation.
//
// @contact.name   mo2sid maintainers
//
// @license.name   MIT
// @license.url    https://opensource.org/licenses/MIT
//
// @BasePath  /
//
// @schemes http
