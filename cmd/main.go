// cmd/main.go
package main

import (
	"go-collab-api/app"
)

// @title           Collab Workspace API
// @version         1.0
// @description     REST and realtime backend for a collaborative project workspace.

// @contact.name   API Support
// @contact.email  support@example.com

// @license.name   MIT
// @license.url    https://opensource.org/licenses/MIT

// @host      localhost:8080
// @BasePath  /
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
func main() {
	app.Run()
}
