// Package main runs the nutshell URL shortener.
//
//	@title			Nutshell API
//	@version		1.0
//	@description	URL shortener with password-gated links, visit analytics and an LRU link cache
//	@host			localhost:8080
//	@BasePath		/
//	@schemes		http https
//
//	@securityDefinitions.apikey	BearerAuth
//	@in							header
//	@name						Authorization
package main

import (
	"go.uber.org/fx"

	_ "github.com/nutshell-sh/nutshell/docs"
	nutshellFX "github.com/nutshell-sh/nutshell/internal/fx"
)

func main() {
	fx.New(nutshellFX.HTTPServerModules).Run()
}
