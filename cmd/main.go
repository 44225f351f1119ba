package main

import (
	"github.com/corray333/backend-labs/commerce/internal/app"
	"github.com/corray333/backend-labs/commerce/internal/config"
)

// @title commerce-svc API
// @version 1.0
// @description Orders with their product lines, clients and products.
// @BasePath /
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
func main() {
	config.MustInit()
	app.MustNewApp().Run()
}
